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

// TeamController handles ad-hoc project team operations
type TeamController struct {
	teamService services.TeamService
	logger      zerolog.Logger
}

// NewTeamController creates a new TeamController
func NewTeamController(teamService services.TeamService, logger zerolog.Logger) *TeamController {
	return &TeamController{
		teamService: teamService,
		logger:      logger,
	}
}

// CreateTeam creates a project team led by the caller
// @Summary Create a project team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeamRequest true "Team information"
// @Success 201 {object} dto.APIResponse{data=dto.TeamResponse} "Team created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /teams [post]
func (c *TeamController) CreateTeam(ctx *gin.Context) {
	var req dto.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	team, err := c.teamService.CreateTeam(ctx.Request.Context(), middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("teamId", team.ID).Msg("Project team created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(team))
}

// ListTeams lists all project teams
// @Summary List project teams
// @Description Lists teams annotated with the caller's membership and pending request state
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.TeamListItemResponse} "Teams"
// @Router /teams [get]
func (c *TeamController) ListTeams(ctx *gin.Context) {
	teams, err := c.teamService.ListTeams(ctx.Request.Context(), middleware.MustUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(teams))
}

// GetTeamDetail returns one team with role-dependent detail
// @Summary Get team detail
// @Description Members see messages, the leader additionally sees pending join requests
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} dto.APIResponse{data=dto.TeamDetailResponse} "Team detail"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Router /teams/{id} [get]
func (c *TeamController) GetTeamDetail(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.teamService.GetTeamDetail(ctx.Request.Context(), teamID, middleware.MustUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// UpdateTeam updates a team's settings
// @Summary Update a team
// @Description Updates team settings (leader only)
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param request body dto.UpdateTeamRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.TeamResponse} "Team updated"
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Router /teams/{id} [put]
func (c *TeamController) UpdateTeam(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	team, err := c.teamService.UpdateTeam(ctx.Request.Context(), teamID, middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(team))
}

// DeleteTeam disbands a team
// @Summary Delete a team
// @Description Disbands the team, its memberships, requests and messages (leader only)
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} dto.APIResponse "Team deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Router /teams/{id} [delete]
func (c *TeamController) DeleteTeam(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.teamService.DeleteTeam(ctx.Request.Context(), teamID, middleware.MustUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Team deleted"))
}

// RequestJoin files a join request for an open team
// @Summary Request to join a team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param request body dto.JoinTeamRequest true "Optional message"
// @Success 201 {object} dto.APIResponse{data=dto.TeamJoinRequestResponse} "Request filed"
// @Failure 403 {object} dto.ErrorResponse "Team is closed"
// @Failure 409 {object} dto.ErrorResponse "Already a member, team full, or request pending"
// @Router /teams/{id}/join [post]
func (c *TeamController) RequestJoin(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.JoinTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	request, err := c.teamService.RequestJoin(ctx.Request.Context(), teamID, middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(request))
}

// ReviewJoinRequest approves or rejects a pending join request
// @Summary Review a join request
// @Description Approves or rejects a pending join request (leader only)
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Join request ID"
// @Param request body dto.ReviewJoinRequestRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.TeamJoinRequestResponse} "Request resolved"
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Failure 409 {object} dto.ErrorResponse "Already resolved or team full"
// @Router /teams/requests/{id} [post]
func (c *TeamController) ReviewJoinRequest(ctx *gin.Context) {
	requestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewJoinRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	request, err := c.teamService.ReviewJoinRequest(ctx.Request.Context(), requestID, middleware.MustUserID(ctx), req.Action)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}

// LeaveTeam removes the caller from a team
// @Summary Leave a team
// @Description Leaves the team. Leaders must transfer leadership first.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} dto.APIResponse "Left the team"
// @Failure 403 {object} dto.ErrorResponse "Leaders cannot leave"
// @Router /teams/{id}/leave [post]
func (c *TeamController) LeaveTeam(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.teamService.LeaveTeam(ctx.Request.Context(), teamID, middleware.MustUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Left the team"))
}

// RemoveMember removes a member from the team
// @Summary Remove a team member
// @Description Removes a member (leader only)
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param memberId path int true "Member user ID"
// @Success 200 {object} dto.APIResponse "Member removed"
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Router /teams/{id}/members/{memberId} [delete]
func (c *TeamController) RemoveMember(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	if err := c.teamService.RemoveMember(ctx.Request.Context(), teamID, middleware.MustUserID(ctx), memberID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Member removed"))
}

// UpdateMemberRole changes a member's role
// @Summary Update a member's role
// @Description Changes a member's role (leader only). Promoting to leader transfers leadership.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param memberId path int true "Member user ID"
// @Param request body dto.UpdateMemberRoleRequest true "New role"
// @Success 200 {object} dto.APIResponse "Role updated"
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Router /teams/{id}/members/{memberId}/role [put]
func (c *TeamController) UpdateMemberRole(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.teamService.UpdateMemberRole(ctx.Request.Context(), teamID, middleware.MustUserID(ctx), memberID, req.Role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Role updated"))
}

// SendMessage posts a message to the team discussion
// @Summary Send a team message
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param request body dto.SendTeamMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.TeamMessageResponse} "Message sent"
// @Failure 403 {object} dto.ErrorResponse "Not a team member"
// @Router /teams/{id}/messages [post]
func (c *TeamController) SendMessage(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SendTeamMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	message, err := c.teamService.SendMessage(ctx.Request.Context(), teamID, middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(message))
}

// ListMessages returns the team discussion history
// @Summary List team messages
// @Description Lists messages including soft-deleted placeholders (members only)
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]dto.TeamMessageResponse} "Messages"
// @Failure 403 {object} dto.ErrorResponse "Not a team member"
// @Router /teams/{id}/messages [get]
func (c *TeamController) ListMessages(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	messages, err := c.teamService.ListMessages(ctx.Request.Context(), teamID, middleware.MustUserID(ctx), size, (page-1)*size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// DeleteMessage soft-deletes a team message
// @Summary Delete a team message
// @Description Soft-deletes a message. Allowed for the sender and the team leader.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse "Message deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the sender or leader"
// @Router /teams/messages/{id} [delete]
func (c *TeamController) DeleteMessage(ctx *gin.Context) {
	messageID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.teamService.DeleteMessage(ctx.Request.Context(), messageID, middleware.MustUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Message deleted"))
}
