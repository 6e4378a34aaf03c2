package models

import "time"

// NotificationType categorizes a notification
type NotificationType string

const (
	NotificationTeamInvitation NotificationType = "team_invitation"
	NotificationJoinRequest    NotificationType = "join_request"
	NotificationJoinApproved   NotificationType = "join_approved"
	NotificationJoinRejected   NotificationType = "join_rejected"
	NotificationGeneral        NotificationType = "general"
)

// Notification is a fire-and-forget notice owned by its recipient
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"userId" db:"user_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"notification_type"`
	IsRead    bool             `json:"isRead" db:"is_read"`
	ActionURL *string          `json:"actionUrl,omitempty" db:"action_url"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

// RefreshToken persists an opaque refresh token for a user session
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
