package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/app/services"
	"github.com/selimd/campuslink/internal/middleware"
	"github.com/selimd/campuslink/internal/pkg/helpers"
)

// AnnouncementController handles announcement operations
type AnnouncementController struct {
	announcementService services.AnnouncementService
	logger              zerolog.Logger
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService services.AnnouncementService, logger zerolog.Logger) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
		logger:              logger,
	}
}

// CreateAnnouncement publishes an announcement
// @Summary Create an announcement
// @Description Publishes a platform-wide announcement (admin only)
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnnouncementRequest true "Announcement content"
// @Success 201 {object} dto.APIResponse{data=dto.AnnouncementResponse} "Announcement published"
// @Failure 403 {object} dto.ErrorResponse "Admin required"
// @Router /admin/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	ann, err := c.announcementService.CreateAnnouncement(ctx.Request.Context(), middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(ann))
}

// ListAnnouncements lists announcements with reactions
// @Summary List announcements
// @Description Lists announcements pinned first with reaction counts, the caller's own reaction and the categories in use
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.AnnouncementListResponse} "Announcements"
// @Router /announcements [get]
func (c *AnnouncementController) ListAnnouncements(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	var category *string
	if v := ctx.Query("category"); v != "" {
		category = &v
	}
	list, err := c.announcementService.ListAnnouncements(ctx.Request.Context(), middleware.MustUserID(ctx), category, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list))
}

// GetAnnouncement returns a single announcement
// @Summary Get an announcement
// @Description Returns an announcement with reaction counts and the caller's own reaction
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=dto.AnnouncementResponse} "Announcement"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [get]
func (c *AnnouncementController) GetAnnouncement(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	ann, err := c.announcementService.GetAnnouncement(ctx.Request.Context(), announcementID, middleware.MustUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(ann))
}

// DeleteAnnouncement removes an announcement
// @Summary Delete an announcement
// @Description Deletes an announcement and its reactions (admin only)
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse "Announcement deleted"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /admin/announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.announcementService.DeleteAnnouncement(ctx.Request.Context(), announcementID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Announcement deleted"))
}

// React applies a reaction to an announcement
// @Summary React to an announcement
// @Description Reacting with the current type removes the reaction, a different type replaces it
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Param request body dto.ReactionRequest true "Reaction type"
// @Success 200 {object} dto.APIResponse{data=dto.ReactionResultResponse} "What happened to the reaction"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id}/react [post]
func (c *AnnouncementController) React(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.announcementService.React(ctx.Request.Context(), announcementID, middleware.MustUserID(ctx), req.ReactionType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
