package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/app/services"
	"github.com/selimd/campuslink/internal/middleware"
)

// EventController handles event, registration and team formation operations
type EventController struct {
	eventService     services.EventService
	eventTeamService services.EventTeamService
	logger           zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, eventTeamService services.EventTeamService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService:     eventService,
		eventTeamService: eventTeamService,
		logger:           logger,
	}
}

// CreateEvent creates a new event
// @Summary Create an event
// @Description Creates a new event (admin only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event information"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created"
// @Failure 400 {object} dto.ErrorResponse "Invalid dates or team size bounds"
// @Failure 403 {object} dto.ErrorResponse "Admin required"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("eventId", event.ID).Str("title", event.Title).Msg("Event created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// ListEvents lists active events
// @Summary List events
// @Description Lists active events bucketed into upcoming, ongoing and past
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by event type"
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse} "Events"
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	var filter dto.EventFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	events, err := c.eventService.ListEvents(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events))
}

// GetEventDetail returns one event with the caller's registration state
// @Summary Get event detail
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse} "Event detail"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEventDetail(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.eventService.GetEventDetail(ctx.Request.Context(), eventID, middleware.MustUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// DeactivateEvent hides an event from the listings
// @Summary Deactivate an event
// @Description Marks an event inactive (admin only). Registrations are kept.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Event deactivated"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id} [delete]
func (c *EventController) DeactivateEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.DeactivateEvent(ctx.Request.Context(), eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Event deactivated"))
}

// RegisterIndividual registers the caller for an event
// @Summary Register for an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.RegisterIndividualRequest true "Registration extras"
// @Success 201 {object} dto.APIResponse{data=dto.EventRegistrationResponse} "Registered"
// @Failure 409 {object} dto.ErrorResponse "Already registered or deadline passed"
// @Router /events/{id}/register [post]
func (c *EventController) RegisterIndividual(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RegisterIndividualRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	reg, err := c.eventService.RegisterIndividual(ctx.Request.Context(), eventID, middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(reg))
}

// Unregister cancels the caller's individual registration
// @Summary Cancel own registration
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Registration cancelled"
// @Failure 404 {object} dto.ErrorResponse "No registration found"
// @Router /events/{id}/register [delete]
func (c *EventController) Unregister(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.Unregister(ctx.Request.Context(), eventID, middleware.MustUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Registration cancelled"))
}

// RegisterTeam registers a team led by the caller
// @Summary Register a team
// @Description Registers a team for an event; invitees receive invitations that expire after seven days. Unknown or conflicting invitees are skipped with warnings.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.RegisterTeamRequest true "Team name and invitees"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterTeamResult} "Team registered"
// @Failure 400 {object} dto.ErrorResponse "Team size outside the allowed range"
// @Failure 409 {object} dto.ErrorResponse "Already leading a team, already a member, or deadline passed"
// @Router /events/{id}/register-team [post]
func (c *EventController) RegisterTeam(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RegisterTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.eventTeamService.RegisterTeam(ctx.Request.Context(), eventID, middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result))
}

// EditTeamRegistration replaces the caller's team member set
// @Summary Edit a team registration
// @Description Updates the team name and replaces the non-leader members. New members are added directly without an invitation round trip.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.EditTeamRegistrationRequest true "Updated team"
// @Success 200 {object} dto.APIResponse{data=dto.RegisterTeamResult} "Team updated"
// @Failure 404 {object} dto.ErrorResponse "No team registration found"
// @Failure 409 {object} dto.ErrorResponse "Deadline passed"
// @Router /events/{id}/register-team [put]
func (c *EventController) EditTeamRegistration(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.EditTeamRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.eventTeamService.EditRegistration(ctx.Request.Context(), eventID, middleware.MustUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// UnregisterTeam withdraws the caller's team registration
// @Summary Withdraw a team registration
// @Description Removes the caller's team registration with its members and pending invitations
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Team registration withdrawn"
// @Failure 404 {object} dto.ErrorResponse "No team registration found"
// @Router /events/{id}/register-team [delete]
func (c *EventController) UnregisterTeam(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventTeamService.UnregisterTeam(ctx.Request.Context(), eventID, middleware.MustUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Team registration withdrawn"))
}

// QuitTeam removes the caller from the event team they belong to
// @Summary Quit an event team
// @Description Leaves the team the caller was accepted into. Leaders must withdraw the registration instead.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Left the team"
// @Failure 409 {object} dto.ErrorResponse "Not a member, or the team leader"
// @Router /events/{id}/quit-team [post]
func (c *EventController) QuitTeam(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventTeamService.QuitTeam(ctx.Request.Context(), eventID, middleware.MustUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Left the team"))
}

// ListTeams lists an event's team registrations with their statuses
// @Summary List event teams
// @Description Lists team registrations for an event. After the deadline teams are marked qualified or disqualified by the minimum size rule.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TeamRegistrationResponse} "Teams"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/teams [get]
func (c *EventController) ListTeams(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	teams, err := c.eventTeamService.EvaluateAndListTeams(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(teams))
}

// ListMyInvitations lists the caller's pending invitations
// @Summary List own team invitations
// @Description Lists pending invitations addressed to the caller; expired ones are reported with the expired status
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.TeamInvitationResponse} "Invitations"
// @Router /invitations [get]
func (c *EventController) ListMyInvitations(ctx *gin.Context) {
	invitations, err := c.eventTeamService.ListMyInvitations(ctx.Request.Context(), middleware.MustUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invitations))
}

// RespondToInvitation accepts or rejects an invitation
// @Summary Respond to a team invitation
// @Description Accepts or rejects a pending invitation. Accepting after expiry fails; rejecting is always allowed while pending.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Param request body dto.InvitationDecisionRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.TeamInvitationResponse} "Invitation resolved"
// @Failure 403 {object} dto.ErrorResponse "Not the invitee"
// @Failure 409 {object} dto.ErrorResponse "Already responded, expired, or already on a team"
// @Router /invitations/{id} [post]
func (c *EventController) RespondToInvitation(ctx *gin.Context) {
	invitationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.InvitationDecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	invitation, err := c.eventTeamService.RespondToInvitation(ctx.Request.Context(), invitationID, middleware.MustUserID(ctx), req.Decision)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invitation))
}

// ListRegistrations returns every registration of an event for admins
// @Summary List event registrations
// @Description Lists individual registrations and team registrations for an event (admin only)
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminEventRegistrationsResponse} "Registrations"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id}/registrations [get]
func (c *EventController) ListRegistrations(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	individual, err := c.eventService.ListRegistrations(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	teams, err := c.eventTeamService.EvaluateAndListTeams(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AdminEventRegistrationsResponse{
		Individual: individual,
		Teams:      teams,
	}))
}
