package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/helpers"
)

// NotificationStore is the notification store surface the service needs
type NotificationStore interface {
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, notificationID, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

// NotificationService defines the interface for notification operations
type NotificationService interface {
	ListNotifications(ctx context.Context, userID int64, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, notificationID, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

type notificationServiceImpl struct {
	notificationRepo NotificationStore
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo NotificationStore, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListNotifications returns a page of the user's notifications, newest
// first, along with the unread total
func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID int64, page, pageSize int) (*dto.NotificationListResponse, error) {
	page, pageSize = helpers.NormalizePageParams(page, pageSize)

	ns, err := s.notificationRepo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.notificationRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(ns)),
		UnreadCount:   unread,
		Pagination:    helpers.NewPaginationInfo(page, pageSize, int64(total)),
	}
	for _, n := range ns {
		resp.Notifications = append(resp.Notifications, dto.FromNotification(n))
	}
	return resp, nil
}

// MarkRead marks one of the user's notifications as read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, notificationID, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks all the user's notifications as read
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// CountUnread returns the user's unread notification count
func (s *notificationServiceImpl) CountUnread(ctx context.Context, userID int64) (int, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}
