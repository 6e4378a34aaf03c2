package dto

import (
	"time"

	"github.com/selimd/campuslink/internal/app/models"
)

// NotificationResponse represents one notification
type NotificationResponse struct {
	ID        int64                   `json:"id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	IsRead    bool                    `json:"isRead"`
	ActionURL *string                 `json:"actionUrl,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

// NotificationListResponse is a page of notifications with the unread total
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
	Pagination    PaginationInfo         `json:"pagination"`
}

// DashboardResponse aggregates the landing page data
type DashboardResponse struct {
	UpcomingEvents      []EventResponse        `json:"upcomingEvents"`
	RecentAnnouncements []AnnouncementResponse `json:"recentAnnouncements"`
	TrendingPosts       []PostResponse         `json:"trendingPosts"`
	UnreadNotifications []NotificationResponse `json:"unreadNotifications"`
}

// FromNotification converts a models.Notification
func FromNotification(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		ActionURL: n.ActionURL,
		CreatedAt: n.CreatedAt,
	}
}
