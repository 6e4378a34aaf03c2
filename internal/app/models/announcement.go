package models

import "time"

// AnnouncementPriority orders announcements by importance
type AnnouncementPriority string

const (
	PriorityHigh   AnnouncementPriority = "high"
	PriorityNormal AnnouncementPriority = "normal"
	PriorityLow    AnnouncementPriority = "low"
)

// ReactionType is the kind of reaction on an announcement
type ReactionType string

const (
	ReactionLike      ReactionType = "like"
	ReactionLove      ReactionType = "love"
	ReactionCelebrate ReactionType = "celebrate"
)

// Valid reports whether the reaction type is one of the recognized values
func (r ReactionType) Valid() bool {
	return r == ReactionLike || r == ReactionLove || r == ReactionCelebrate
}

// Announcement is a platform-wide notice published by an admin
type Announcement struct {
	ID        int64                `json:"id" db:"id"`
	Title     string               `json:"title" db:"title"`
	Content   string               `json:"content" db:"content"`
	Category  string               `json:"category" db:"category"`
	Priority  AnnouncementPriority `json:"priority" db:"priority"`
	IsPinned  bool                 `json:"isPinned" db:"is_pinned"`
	AuthorID  int64                `json:"authorId" db:"author_id"`
	CreatedAt time.Time            `json:"createdAt" db:"created_at"`

	// Related entities
	Author *User `json:"author,omitempty"`
}

// AnnouncementReaction holds a user's reaction; at most one row per
// (user, announcement), the reaction type mutable while the row exists
type AnnouncementReaction struct {
	ID             int64        `json:"id" db:"id"`
	UserID         int64        `json:"userId" db:"user_id"`
	AnnouncementID int64        `json:"announcementId" db:"announcement_id"`
	ReactionType   ReactionType `json:"reactionType" db:"reaction_type"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
}
