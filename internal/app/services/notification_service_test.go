package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
)

type fakeNotificationStore struct {
	notifications []*models.Notification
}

func (f *fakeNotificationStore) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*models.Notification, error) {
	var mine []*models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	if offset >= len(mine) {
		return nil, nil
	}
	mine = mine[offset:]
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, nil
}

func (f *fakeNotificationStore) CountByUser(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) CountUnread(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, notificationID, userID int64) error {
	for _, n := range f.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, userID int64) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func notificationFixture(count int, userID int64) *fakeNotificationStore {
	store := &fakeNotificationStore{}
	for i := 0; i < count; i++ {
		store.notifications = append(store.notifications, &models.Notification{
			ID:        int64(i + 1),
			UserID:    userID,
			Title:     "Notification",
			CreatedAt: time.Now(),
		})
	}
	return store
}

func TestListNotificationsPagination(t *testing.T) {
	store := notificationFixture(12, 7)
	store.notifications[0].IsRead = true
	svc := NewNotificationService(store, zerolog.Nop())

	resp, err := svc.ListNotifications(context.Background(), 7, 2, 5)
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 5)
	assert.Equal(t, 11, resp.UnreadCount)
	assert.Equal(t, int64(12), resp.Pagination.TotalItems)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
}

func TestListNotificationsOnlyOwn(t *testing.T) {
	store := notificationFixture(3, 7)
	store.notifications = append(store.notifications, &models.Notification{ID: 99, UserID: 8})
	svc := NewNotificationService(store, zerolog.Nop())

	resp, err := svc.ListNotifications(context.Background(), 7, 1, 10)
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 3)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	store := notificationFixture(1, 7)
	svc := NewNotificationService(store, zerolog.Nop())

	err := svc.MarkRead(context.Background(), 1, 8)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.False(t, store.notifications[0].IsRead)

	require.NoError(t, svc.MarkRead(context.Background(), 1, 7))
	assert.True(t, store.notifications[0].IsRead)
}

func TestMarkAllRead(t *testing.T) {
	store := notificationFixture(4, 7)
	svc := NewNotificationService(store, zerolog.Nop())

	require.NoError(t, svc.MarkAllRead(context.Background(), 7))

	unread, err := svc.CountUnread(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
