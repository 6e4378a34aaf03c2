package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
	"github.com/selimd/campuslink/internal/pkg/helpers"
)

// ForumStore is the forum store surface the forum service needs
type ForumStore interface {
	ListCategories(ctx context.Context) ([]*models.ForumCategory, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.ForumCategory, error)
	CreatePost(ctx context.Context, post *models.ForumPost) error
	GetPostByID(ctx context.Context, id int64) (*models.ForumPost, error)
	ListPosts(ctx context.Context, categoryID *int64, limit, offset int) ([]*models.ForumPost, int, error)
	IncrementViews(ctx context.Context, postID int64) error
	CreateComment(ctx context.Context, comment *models.ForumComment) error
	GetCommentByID(ctx context.Context, id int64) (*models.ForumComment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]*models.ForumComment, error)
	DeleteComment(ctx context.Context, id int64) error

	GetPostVote(ctx context.Context, userID, postID int64) (*models.ForumVote, error)
	InsertPostVote(ctx context.Context, userID, postID int64, vote models.VoteType) error
	RemovePostVote(ctx context.Context, userID, postID int64, vote models.VoteType) error
	FlipPostVote(ctx context.Context, userID, postID int64, newVote models.VoteType) error
	GetPostVoteCounts(ctx context.Context, postID int64) (upvotes, downvotes int, err error)

	GetCommentVote(ctx context.Context, userID, commentID int64) (*models.ForumCommentVote, error)
	InsertCommentVote(ctx context.Context, userID, commentID int64, vote models.VoteType) error
	RemoveCommentVote(ctx context.Context, userID, commentID int64, vote models.VoteType) error
	FlipCommentVote(ctx context.Context, userID, commentID int64, newVote models.VoteType) error
	GetCommentVoteCounts(ctx context.Context, commentID int64) (upvotes, downvotes int, err error)
}

// ForumService defines the interface for forum operations
type ForumService interface {
	ListCategories(ctx context.Context) ([]dto.ForumCategoryResponse, error)
	CreatePost(ctx context.Context, authorID int64, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	ListPosts(ctx context.Context, categoryID *int64, page, pageSize int) (*dto.PostListResponse, error)
	GetPostDetail(ctx context.Context, postID int64) (*dto.PostDetailResponse, error)
	CreateComment(ctx context.Context, postID, authorID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID, requesterID int64, isAdmin bool) error
	VotePost(ctx context.Context, postID, userID int64, vote models.VoteType) (*dto.VoteResultResponse, error)
	VoteComment(ctx context.Context, commentID, userID int64, vote models.VoteType) (*dto.VoteResultResponse, error)
}

type forumServiceImpl struct {
	forumRepo ForumStore
	logger    zerolog.Logger
}

// NewForumService creates a new ForumService
func NewForumService(forumRepo ForumStore, logger zerolog.Logger) ForumService {
	return &forumServiceImpl{
		forumRepo: forumRepo,
		logger:    logger,
	}
}

// ListCategories returns all forum categories
func (s *forumServiceImpl) ListCategories(ctx context.Context) ([]dto.ForumCategoryResponse, error) {
	cats, err := s.forumRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ForumCategoryResponse, 0, len(cats))
	for _, c := range cats {
		resp = append(resp, dto.FromForumCategory(c))
	}
	return resp, nil
}

// CreatePost creates a forum post in an existing category
func (s *forumServiceImpl) CreatePost(ctx context.Context, authorID int64, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	if _, err := s.forumRepo.GetCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	post := &models.ForumPost{
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Tags:       req.Tags,
		AuthorID:   authorID,
		CategoryID: req.CategoryID,
	}
	if err := s.forumRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Debug().Int64("postId", post.ID).Int64("authorId", authorID).Msg("Post created")

	resp := dto.FromPost(post)
	return &resp, nil
}

// ListPosts returns a page of posts, pinned first then newest
func (s *forumServiceImpl) ListPosts(ctx context.Context, categoryID *int64, page, pageSize int) (*dto.PostListResponse, error) {
	page, pageSize = helpers.NormalizePageParams(page, pageSize)

	posts, total, err := s.forumRepo.ListPosts(ctx, categoryID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	resp := &dto.PostListResponse{
		Posts:      make([]dto.PostResponse, 0, len(posts)),
		Pagination: helpers.NewPaginationInfo(page, pageSize, int64(total)),
	}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, dto.FromPost(p))
	}
	return resp, nil
}

// GetPostDetail returns a post with its comment tree and bumps the view
// counter
func (s *forumServiceImpl) GetPostDetail(ctx context.Context, postID int64) (*dto.PostDetailResponse, error) {
	post, err := s.forumRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.forumRepo.IncrementViews(ctx, postID); err != nil {
		s.logger.Warn().Err(err).Int64("postId", postID).Msg("Failed to increment views")
	} else {
		post.Views++
	}

	comments, err := s.forumRepo.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &dto.PostDetailResponse{
		Post:     dto.FromPost(post),
		Comments: buildCommentTree(comments),
	}, nil
}

// buildCommentTree nests replies under their parents. Comments arrive in
// creation order, so parents always precede their replies.
func buildCommentTree(comments []*models.ForumComment) []dto.CommentResponse {
	known := make(map[int64]bool, len(comments))
	for _, c := range comments {
		known[c.ID] = true
	}

	children := make(map[int64][]*models.ForumComment)
	var roots []*models.ForumComment
	for _, c := range comments {
		if c.ParentID != nil && known[*c.ParentID] {
			children[*c.ParentID] = append(children[*c.ParentID], c)
			continue
		}
		// Top-level comment, or an orphaned reply surfaced at the top
		roots = append(roots, c)
	}

	var render func(c *models.ForumComment) dto.CommentResponse
	render = func(c *models.ForumComment) dto.CommentResponse {
		resp := dto.FromComment(c)
		for _, child := range children[c.ID] {
			resp.Replies = append(resp.Replies, render(child))
		}
		return resp
	}

	resp := make([]dto.CommentResponse, 0, len(roots))
	for _, c := range roots {
		resp = append(resp, render(c))
	}
	return resp
}

// CreateComment adds a comment to a post; with ParentID set it becomes a
// reply, which must reference a comment on the same post
func (s *forumServiceImpl) CreateComment(ctx context.Context, postID, authorID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.forumRepo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.forumRepo.GetCommentByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperrors.NewBadRequestError("parent comment belongs to a different post")
		}
	}

	comment := &models.ForumComment{
		Content:  req.Content,
		PostID:   postID,
		AuthorID: authorID,
		ParentID: req.ParentID,
	}
	if err := s.forumRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	resp := dto.FromComment(comment)
	return &resp, nil
}

// DeleteComment removes a comment. Allowed for the author and admins;
// votes and replies go with it.
func (s *forumServiceImpl) DeleteComment(ctx context.Context, commentID, requesterID int64, isAdmin bool) error {
	comment, err := s.forumRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !isAdmin && comment.AuthorID != requesterID {
		return apperrors.ErrPermissionDenied
	}
	return s.forumRepo.DeleteComment(ctx, commentID)
}

// voteAction is the outcome of comparing an existing vote with a new one
type voteAction int

const (
	voteInsert voteAction = iota
	voteRemove
	voteFlip
)

// resolveVoteAction decides what a vote submission does given the voter's
// current vote: no vote inserts, the same direction toggles the vote off,
// the opposite direction flips it.
func resolveVoteAction(current *models.VoteType, requested models.VoteType) voteAction {
	if current == nil {
		return voteInsert
	}
	if *current == requested {
		return voteRemove
	}
	return voteFlip
}

// VotePost applies a vote to a post and returns the resulting counters
func (s *forumServiceImpl) VotePost(ctx context.Context, postID, userID int64, vote models.VoteType) (*dto.VoteResultResponse, error) {
	if !vote.Valid() {
		return nil, apperrors.NewBadRequestError("vote type must be upvote or downvote")
	}
	if _, err := s.forumRepo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	existing, err := s.forumRepo.GetPostVote(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	var current *models.VoteType
	if existing != nil {
		current = &existing.VoteType
	}

	switch resolveVoteAction(current, vote) {
	case voteInsert:
		err = s.forumRepo.InsertPostVote(ctx, userID, postID, vote)
	case voteRemove:
		err = s.forumRepo.RemovePostVote(ctx, userID, postID, vote)
	case voteFlip:
		err = s.forumRepo.FlipPostVote(ctx, userID, postID, vote)
	}
	if err != nil {
		return nil, err
	}

	up, down, err := s.forumRepo.GetPostVoteCounts(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &dto.VoteResultResponse{Upvotes: up, Downvotes: down}, nil
}

// VoteComment applies a vote to a comment and returns the resulting counters
func (s *forumServiceImpl) VoteComment(ctx context.Context, commentID, userID int64, vote models.VoteType) (*dto.VoteResultResponse, error) {
	if !vote.Valid() {
		return nil, apperrors.NewBadRequestError("vote type must be upvote or downvote")
	}
	if _, err := s.forumRepo.GetCommentByID(ctx, commentID); err != nil {
		return nil, err
	}

	existing, err := s.forumRepo.GetCommentVote(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	var current *models.VoteType
	if existing != nil {
		current = &existing.VoteType
	}

	switch resolveVoteAction(current, vote) {
	case voteInsert:
		err = s.forumRepo.InsertCommentVote(ctx, userID, commentID, vote)
	case voteRemove:
		err = s.forumRepo.RemoveCommentVote(ctx, userID, commentID, vote)
	case voteFlip:
		err = s.forumRepo.FlipCommentVote(ctx, userID, commentID, vote)
	}
	if err != nil {
		return nil, err
	}

	up, down, err := s.forumRepo.GetCommentVoteCounts(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &dto.VoteResultResponse{Upvotes: up, Downvotes: down}, nil
}
