package models

import "time"

// VoteType is the direction of a forum vote
type VoteType string

const (
	VoteTypeUp   VoteType = "upvote"
	VoteTypeDown VoteType = "downvote"
)

// Valid reports whether the vote type is one of the recognized values
func (v VoteType) Valid() bool {
	return v == VoteTypeUp || v == VoteTypeDown
}

// ForumCategory groups forum posts
type ForumCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Icon        *string   `json:"icon,omitempty" db:"icon"`
	Color       *string   `json:"color,omitempty" db:"color"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// ForumPost is a discussion post. Upvotes/Downvotes are denormalized
// counters kept equal to the count of forum_votes rows.
type ForumPost struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	Tags       *string   `json:"tags,omitempty" db:"tags"` // comma-separated
	IsPinned   bool      `json:"isPinned" db:"is_pinned"`
	IsSolved   bool      `json:"isSolved" db:"is_solved"`
	Views      int       `json:"views" db:"views"`
	Upvotes    int       `json:"upvotes" db:"upvotes"`
	Downvotes  int       `json:"downvotes" db:"downvotes"`
	AuthorID   int64     `json:"authorId" db:"author_id"`
	CategoryID int64     `json:"categoryId" db:"category_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Author   *User          `json:"author,omitempty"`
	Category *ForumCategory `json:"category,omitempty"`
}

// ForumComment is a comment on a post; ParentID forms a self-referential
// reply tree (presentation uses one level, the model permits any depth).
type ForumComment struct {
	ID         int64     `json:"id" db:"id"`
	Content    string    `json:"content" db:"content"`
	IsAccepted bool      `json:"isAccepted" db:"is_accepted"`
	Upvotes    int       `json:"upvotes" db:"upvotes"`
	Downvotes  int       `json:"downvotes" db:"downvotes"`
	PostID     int64     `json:"postId" db:"post_id"`
	AuthorID   int64     `json:"authorId" db:"author_id"`
	ParentID   *int64    `json:"parentId,omitempty" db:"parent_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Author  *User          `json:"author,omitempty"`
	Replies []ForumComment `json:"replies,omitempty"`
}

// ForumVote is a user's vote on a post; at most one row per (user, post)
type ForumVote struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	PostID    int64     `json:"postId" db:"post_id"`
	VoteType  VoteType  `json:"voteType" db:"vote_type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ForumCommentVote is a user's vote on a comment; at most one row per (user, comment)
type ForumCommentVote struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CommentID int64     `json:"commentId" db:"comment_id"`
	VoteType  VoteType  `json:"voteType" db:"vote_type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
