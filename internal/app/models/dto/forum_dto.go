package dto

import (
	"time"

	"github.com/selimd/campuslink/internal/app/models"
)

// --- Request DTOs ---

// CreatePostRequest represents forum post creation data
type CreatePostRequest struct {
	Title      string  `json:"title" binding:"required,max=200"`
	Content    string  `json:"content" binding:"required"`
	Tags       *string `json:"tags,omitempty"`
	CategoryID int64   `json:"categoryId" binding:"required,gt=0"`
}

// CreateCommentRequest creates a comment; ParentID makes it a reply
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *int64 `json:"parentId,omitempty" binding:"omitempty,gt=0"`
}

// VoteRequest carries the vote direction
type VoteRequest struct {
	VoteType models.VoteType `json:"voteType" binding:"required,oneof=upvote downvote"`
}

// --- Response DTOs ---

// ForumCategoryResponse represents a forum category
type ForumCategoryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// PostResponse represents a forum post
type PostResponse struct {
	ID         int64              `json:"id"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	Tags       *string            `json:"tags,omitempty"`
	IsPinned   bool               `json:"isPinned"`
	IsSolved   bool               `json:"isSolved"`
	Views      int                `json:"views"`
	Upvotes    int                `json:"upvotes"`
	Downvotes  int                `json:"downvotes"`
	AuthorID   int64              `json:"authorId"`
	CategoryID int64              `json:"categoryId"`
	CreatedAt  time.Time          `json:"createdAt"`
	Author     *UserBasicResponse `json:"author,omitempty"`
}

// CommentResponse represents a comment with its direct replies
type CommentResponse struct {
	ID        int64              `json:"id"`
	Content   string             `json:"content"`
	Upvotes   int                `json:"upvotes"`
	Downvotes int                `json:"downvotes"`
	PostID    int64              `json:"postId"`
	AuthorID  int64              `json:"authorId"`
	ParentID  *int64             `json:"parentId,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	Author    *UserBasicResponse `json:"author,omitempty"`
	Replies   []CommentResponse  `json:"replies,omitempty"`
}

// PostListResponse is a page of posts
type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}

// PostDetailResponse is the post page payload with the comment tree
type PostDetailResponse struct {
	Post     PostResponse      `json:"post"`
	Comments []CommentResponse `json:"comments"`
}

// VoteResultResponse reports the counters after a vote operation
type VoteResultResponse struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// FromForumCategory converts a models.ForumCategory
func FromForumCategory(c *models.ForumCategory) ForumCategoryResponse {
	return ForumCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
	}
}

// FromPost converts a models.ForumPost to a PostResponse
func FromPost(p *models.ForumPost) PostResponse {
	resp := PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Tags:       p.Tags,
		IsPinned:   p.IsPinned,
		IsSolved:   p.IsSolved,
		Views:      p.Views,
		Upvotes:    p.Upvotes,
		Downvotes:  p.Downvotes,
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
	}
	if p.Author != nil {
		author := FromUserBasic(p.Author)
		resp.Author = &author
	}
	return resp
}

// FromComment converts a models.ForumComment including its reply slice
func FromComment(c *models.ForumComment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		Upvotes:   c.Upvotes,
		Downvotes: c.Downvotes,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
	}
	if c.Author != nil {
		author := FromUserBasic(c.Author)
		resp.Author = &author
	}
	for i := range c.Replies {
		resp.Replies = append(resp.Replies, FromComment(&c.Replies[i]))
	}
	return resp
}
