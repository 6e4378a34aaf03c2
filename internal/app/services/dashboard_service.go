package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
)

const (
	dashboardEventLimit        = 5
	dashboardAnnouncementLimit = 5
	dashboardPostLimit         = 5
	dashboardNotificationLimit = 10
)

// DashboardEventReader lists events for the dashboard
type DashboardEventReader interface {
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]*models.Event, error)
}

// DashboardAnnouncementReader lists announcements for the dashboard
type DashboardAnnouncementReader interface {
	ListRecent(ctx context.Context, limit int) ([]*models.Announcement, error)
}

// DashboardForumReader lists posts for the dashboard
type DashboardForumReader interface {
	ListTrendingPosts(ctx context.Context, limit int) ([]*models.ForumPost, error)
}

// DashboardNotificationReader lists notifications for the dashboard
type DashboardNotificationReader interface {
	ListUnreadByUser(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)
}

// DashboardService assembles the landing page feed
type DashboardService interface {
	GetDashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error)
}

type dashboardServiceImpl struct {
	eventRepo        DashboardEventReader
	announcementRepo DashboardAnnouncementReader
	forumRepo        DashboardForumReader
	notificationRepo DashboardNotificationReader
	logger           zerolog.Logger
	now              func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	eventRepo DashboardEventReader,
	announcementRepo DashboardAnnouncementReader,
	forumRepo DashboardForumReader,
	notificationRepo DashboardNotificationReader,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardServiceImpl{
		eventRepo:        eventRepo,
		announcementRepo: announcementRepo,
		forumRepo:        forumRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// GetDashboard gathers upcoming events, recent announcements, trending
// posts and the user's unread notifications into one response
func (s *dashboardServiceImpl) GetDashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error) {
	events, err := s.eventRepo.ListUpcoming(ctx, s.now(), dashboardEventLimit)
	if err != nil {
		return nil, err
	}
	anns, err := s.announcementRepo.ListRecent(ctx, dashboardAnnouncementLimit)
	if err != nil {
		return nil, err
	}
	posts, err := s.forumRepo.ListTrendingPosts(ctx, dashboardPostLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.ListUnreadByUser(ctx, userID, dashboardNotificationLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		UpcomingEvents:      make([]dto.EventResponse, 0, len(events)),
		RecentAnnouncements: make([]dto.AnnouncementResponse, 0, len(anns)),
		TrendingPosts:       make([]dto.PostResponse, 0, len(posts)),
		UnreadNotifications: make([]dto.NotificationResponse, 0, len(unread)),
	}
	for _, e := range events {
		resp.UpcomingEvents = append(resp.UpcomingEvents, dto.FromEvent(e))
	}
	for _, a := range anns {
		resp.RecentAnnouncements = append(resp.RecentAnnouncements, dto.FromAnnouncement(a))
	}
	for _, p := range posts {
		resp.TrendingPosts = append(resp.TrendingPosts, dto.FromPost(p))
	}
	for _, n := range unread {
		resp.UnreadNotifications = append(resp.UnreadNotifications, dto.FromNotification(n))
	}
	return resp, nil
}
