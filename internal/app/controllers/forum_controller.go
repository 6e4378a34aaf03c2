package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/app/services"
	"github.com/selimd/campuslink/internal/middleware"
	"github.com/selimd/campuslink/internal/pkg/helpers"
)

// ForumController handles forum operations
type ForumController struct {
	forumService services.ForumService
	logger       zerolog.Logger
}

// NewForumController creates a new ForumController
func NewForumController(forumService services.ForumService, logger zerolog.Logger) *ForumController {
	return &ForumController{
		forumService: forumService,
		logger:       logger,
	}
}

// ListCategories lists the forum categories
// @Summary List forum categories
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ForumCategoryResponse} "Categories"
// @Router /forum/categories [get]
func (c *ForumController) ListCategories(ctx *gin.Context) {
	categories, err := c.forumService.ListCategories(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories))
}

// CreatePost creates a forum post
// @Summary Create a post
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post content"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse} "Post created"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /forum/posts [post]
func (c *ForumController) CreatePost(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	post, err := c.forumService.CreatePost(ctx.Request.Context(), middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post))
}

// ListPosts lists posts, pinned first then newest
// @Summary List posts
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param category query int false "Filter by category ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse} "Posts"
// @Router /forum/posts [get]
func (c *ForumController) ListPosts(ctx *gin.Context) {
	var categoryID *int64
	if raw := ctx.Query("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid category parameter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		categoryID = &id
	}

	page, size := helpers.ParsePaginationParams(ctx)
	posts, err := c.forumService.ListPosts(ctx.Request.Context(), categoryID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(posts))
}

// GetPostDetail returns a post with its comment tree
// @Summary Get post detail
// @Description Returns the post with its comments; each view bumps the post's view counter
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostDetailResponse} "Post detail"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /forum/posts/{id} [get]
func (c *ForumController) GetPostDetail(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.forumService.GetPostDetail(ctx.Request.Context(), postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// CreateComment adds a comment or reply to a post
// @Summary Comment on a post
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment content, optionally with a parent comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse} "Comment created"
// @Failure 400 {object} dto.ErrorResponse "Parent comment belongs to a different post"
// @Failure 404 {object} dto.ErrorResponse "Post or parent comment not found"
// @Router /forum/posts/{id}/comments [post]
func (c *ForumController) CreateComment(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	comment, err := c.forumService.CreateComment(ctx.Request.Context(), postID, middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment))
}

// DeleteComment removes a comment
// @Summary Delete a comment
// @Description Deletes a comment with its votes and replies. Allowed for the author and admins.
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse "Comment deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Router /forum/comments/{id} [delete]
func (c *ForumController) DeleteComment(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.forumService.DeleteComment(ctx.Request.Context(), commentID, middleware.MustUserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Comment deleted"))
}

// VotePost applies a vote to a post
// @Summary Vote on a post
// @Description Submitting the same vote again removes it; the opposite vote flips it
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.VoteRequest true "Vote direction"
// @Success 200 {object} dto.APIResponse{data=dto.VoteResultResponse} "Vote counters"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /forum/posts/{id}/vote [post]
func (c *ForumController) VotePost(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.forumService.VotePost(ctx.Request.Context(), postID, middleware.MustUserID(ctx), req.VoteType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// VoteComment applies a vote to a comment
// @Summary Vote on a comment
// @Description Submitting the same vote again removes it; the opposite vote flips it
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.VoteRequest true "Vote direction"
// @Success 200 {object} dto.APIResponse{data=dto.VoteResultResponse} "Vote counters"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /forum/comments/{id}/vote [post]
func (c *ForumController) VoteComment(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.forumService.VoteComment(ctx.Request.Context(), commentID, middleware.MustUserID(ctx), req.VoteType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
