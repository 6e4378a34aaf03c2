package dto

import (
	"time"

	"github.com/selimd/campuslink/internal/app/models"
)

// CreateAnnouncementRequest represents announcement creation data (admin only)
type CreateAnnouncementRequest struct {
	Title    string                      `json:"title" binding:"required,max=200"`
	Content  string                      `json:"content" binding:"required"`
	Category string                      `json:"category" binding:"required,max=100"`
	Priority models.AnnouncementPriority `json:"priority" binding:"omitempty,oneof=high normal low"`
	IsPinned bool                        `json:"isPinned"`
}

// ReactionRequest carries the reaction type
type ReactionRequest struct {
	ReactionType models.ReactionType `json:"reactionType" binding:"required,oneof=like love celebrate"`
}

// ReactionAction is what happened to the caller's reaction row
type ReactionAction string

const (
	ReactionActionAdded   ReactionAction = "added"
	ReactionActionUpdated ReactionAction = "updated"
	ReactionActionRemoved ReactionAction = "removed"
)

// ReactionResultResponse reports what a reaction operation did
type ReactionResultResponse struct {
	Action ReactionAction `json:"action"`
}

// AnnouncementResponse represents an announcement
type AnnouncementResponse struct {
	ID         int64                       `json:"id"`
	Title      string                      `json:"title"`
	Content    string                      `json:"content"`
	Category   string                      `json:"category"`
	Priority   models.AnnouncementPriority `json:"priority"`
	IsPinned   bool                        `json:"isPinned"`
	AuthorID   int64                       `json:"authorId"`
	CreatedAt  time.Time                   `json:"createdAt"`
	Author     *UserBasicResponse          `json:"author,omitempty"`
	Reactions  map[models.ReactionType]int `json:"reactions,omitempty"`
	MyReaction *models.ReactionType        `json:"myReaction,omitempty"`
}

// AnnouncementListResponse is a page of announcements with the distinct
// categories in use
type AnnouncementListResponse struct {
	Announcements []AnnouncementResponse `json:"announcements"`
	Categories    []string               `json:"categories"`
	Pagination    PaginationInfo         `json:"pagination"`
}

// FromAnnouncement converts a models.Announcement
func FromAnnouncement(a *models.Announcement) AnnouncementResponse {
	resp := AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Category:  a.Category,
		Priority:  a.Priority,
		IsPinned:  a.IsPinned,
		AuthorID:  a.AuthorID,
		CreatedAt: a.CreatedAt,
	}
	if a.Author != nil {
		author := FromUserBasic(a.Author)
		resp.Author = &author
	}
	return resp
}
