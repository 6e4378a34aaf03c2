package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimd/campuslink/internal/app/models"
)

type fakeDashboardEvents struct {
	gotAfter time.Time
	events   []*models.Event
}

func (f *fakeDashboardEvents) ListUpcoming(_ context.Context, after time.Time, limit int) ([]*models.Event, error) {
	f.gotAfter = after
	if len(f.events) > limit {
		return f.events[:limit], nil
	}
	return f.events, nil
}

type fakeDashboardAnnouncements struct {
	announcements []*models.Announcement
}

func (f *fakeDashboardAnnouncements) ListRecent(_ context.Context, limit int) ([]*models.Announcement, error) {
	return f.announcements, nil
}

type fakeDashboardForum struct {
	posts []*models.ForumPost
}

func (f *fakeDashboardForum) ListTrendingPosts(_ context.Context, limit int) ([]*models.ForumPost, error) {
	return f.posts, nil
}

type fakeDashboardNotifications struct {
	gotUserID int64
	unread    []*models.Notification
}

func (f *fakeDashboardNotifications) ListUnreadByUser(_ context.Context, userID int64, limit int) ([]*models.Notification, error) {
	f.gotUserID = userID
	return f.unread, nil
}

func TestGetDashboard(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	events := &fakeDashboardEvents{events: []*models.Event{
		{ID: 1, Title: "Hack Night", StartDate: now.Add(24 * time.Hour)},
	}}
	anns := &fakeDashboardAnnouncements{announcements: []*models.Announcement{
		{ID: 2, Title: "Welcome"},
	}}
	forum := &fakeDashboardForum{posts: []*models.ForumPost{
		{ID: 3, Title: "Hot take"},
	}}
	notifications := &fakeDashboardNotifications{unread: []*models.Notification{
		{ID: 4, UserID: 7, Title: "Team invitation"},
	}}

	svc := NewDashboardService(events, anns, forum, notifications, zerolog.Nop())
	svc.(*dashboardServiceImpl).now = func() time.Time { return now }

	dashboard, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, now, events.gotAfter)
	assert.Equal(t, int64(7), notifications.gotUserID)

	require.Len(t, dashboard.UpcomingEvents, 1)
	assert.Equal(t, "Hack Night", dashboard.UpcomingEvents[0].Title)
	require.Len(t, dashboard.RecentAnnouncements, 1)
	require.Len(t, dashboard.TrendingPosts, 1)
	require.Len(t, dashboard.UnreadNotifications, 1)
}
