package dto

import (
	"time"

	"github.com/selimd/campuslink/internal/app/models"
)

// --- Request DTOs ---

// CreateEventRequest represents event creation data (admin only)
type CreateEventRequest struct {
	Title                string           `json:"title" binding:"required,max=200"`
	Description          string           `json:"description" binding:"required"`
	EventType            models.EventType `json:"eventType" binding:"required,oneof=hackathon seminar workshop competition"`
	StartDate            time.Time        `json:"startDate" binding:"required"`
	EndDate              time.Time        `json:"endDate" binding:"required"`
	Venue                *string          `json:"venue,omitempty"`
	VirtualLink          *string          `json:"virtualLink,omitempty"`
	MaxParticipants      *int             `json:"maxParticipants,omitempty" binding:"omitempty,gt=0"`
	MinTeamSize          int              `json:"minTeamSize" binding:"required,gte=1"`
	MaxTeamSize          int              `json:"maxTeamSize" binding:"required,gte=1"`
	RegistrationDeadline time.Time        `json:"registrationDeadline" binding:"required"`
	Rules                *string          `json:"rules,omitempty"`
	Prizes               *string          `json:"prizes,omitempty"`
}

// RegisterIndividualRequest represents an individual event registration
type RegisterIndividualRequest struct {
	TeamName       *string `json:"teamName,omitempty"`
	AdditionalInfo *string `json:"additionalInfo,omitempty"`
}

// TeamInvitee is one invited member in a team registration request
type TeamInvitee struct {
	Email  string  `json:"email" binding:"required,email"`
	Skills *string `json:"skills,omitempty"`
}

// RegisterTeamRequest represents a team registration for an event
type RegisterTeamRequest struct {
	TeamName string        `json:"teamName" binding:"required,max=100"`
	Invitees []TeamInvitee `json:"invitees" binding:"dive"`
}

// EditTeamRegistrationRequest replaces the member set of a team registration
type EditTeamRegistrationRequest struct {
	TeamName string        `json:"teamName" binding:"required,max=100"`
	Invitees []TeamInvitee `json:"invitees" binding:"dive"`
}

// InvitationDecisionRequest carries the accept/reject decision
type InvitationDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accept reject"`
}

// EventFilterRequest filters the event list
type EventFilterRequest struct {
	EventType *string `form:"type"`
}

// --- Response DTOs ---

// EventResponse represents basic event information
type EventResponse struct {
	ID                   int64            `json:"id"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	EventType            models.EventType `json:"eventType"`
	StartDate            time.Time        `json:"startDate"`
	EndDate              time.Time        `json:"endDate"`
	Venue                *string          `json:"venue,omitempty"`
	VirtualLink          *string          `json:"virtualLink,omitempty"`
	MaxParticipants      *int             `json:"maxParticipants,omitempty"`
	MinTeamSize          int              `json:"minTeamSize"`
	MaxTeamSize          int              `json:"maxTeamSize"`
	RegistrationDeadline time.Time        `json:"registrationDeadline"`
	Rules                *string          `json:"rules,omitempty"`
	Prizes               *string          `json:"prizes,omitempty"`
	IsActive             bool             `json:"isActive"`
	CreatedAt            time.Time        `json:"createdAt"`
}

// EventListResponse buckets events by their time window
type EventListResponse struct {
	Upcoming []EventResponse `json:"upcoming"`
	Ongoing  []EventResponse `json:"ongoing"`
	Past     []EventResponse `json:"past"`
}

// EventDetailResponse is the event page payload including the caller's
// registration state for this event
type EventDetailResponse struct {
	Event              EventResponse                  `json:"event"`
	RegistrationCount  int                            `json:"registrationCount"`
	IsRegistered       bool                           `json:"isRegistered"`
	TeamRegistration   *TeamRegistrationResponse      `json:"teamRegistration,omitempty"`
	TeamMembership     *TeamMembershipResponse        `json:"teamMembership,omitempty"`
	PendingInvitations []TeamInvitationResponse       `json:"pendingInvitations,omitempty"`
}

// EventRegistrationResponse represents an individual event registration
type EventRegistrationResponse struct {
	ID             int64              `json:"id"`
	EventID        int64              `json:"eventId"`
	UserID         int64              `json:"userId"`
	TeamName       *string            `json:"teamName,omitempty"`
	AdditionalInfo *string            `json:"additionalInfo,omitempty"`
	RegisteredAt   time.Time          `json:"registeredAt"`
	User           *UserBasicResponse `json:"user,omitempty"`
}

// AdminEventRegistrationsResponse is the admin view of everyone registered
// for an event, individuals and teams
type AdminEventRegistrationsResponse struct {
	Individual []EventRegistrationResponse `json:"individual"`
	Teams      []TeamRegistrationResponse  `json:"teams"`
}

// TeamRegistrationResponse represents an event team registration
type TeamRegistrationResponse struct {
	ID           int64                         `json:"id"`
	EventID      int64                         `json:"eventId"`
	TeamName     string                        `json:"teamName"`
	TeamLeaderID int64                         `json:"teamLeaderId"`
	Status       models.TeamRegistrationStatus `json:"status"`
	RegisteredAt time.Time                     `json:"registeredAt"`
	Members      []TeamMembershipResponse      `json:"members,omitempty"`
}

// TeamMembershipResponse represents one member of an event team
type TeamMembershipResponse struct {
	ID                 int64              `json:"id"`
	TeamRegistrationID int64              `json:"teamRegistrationId"`
	UserID             int64              `json:"userId"`
	Role               models.TeamRole    `json:"role"`
	Skills             *string            `json:"skills,omitempty"`
	JoinedAt           time.Time          `json:"joinedAt"`
	User               *UserBasicResponse `json:"user,omitempty"`
}

// TeamInvitationResponse represents an event team invitation
type TeamInvitationResponse struct {
	ID                 int64                   `json:"id"`
	TeamRegistrationID int64                   `json:"teamRegistrationId"`
	TeamName           string                  `json:"teamName"`
	EventID            int64                   `json:"eventId"`
	InvitedByID        int64                   `json:"invitedById"`
	Status             models.InvitationStatus `json:"status"`
	InvitedAt          time.Time               `json:"invitedAt"`
	ExpiresAt          time.Time               `json:"expiresAt"`
}

// RegisterTeamResult reports the outcome of a team registration:
// how many invitations went out and which invitees were skipped
type RegisterTeamResult struct {
	Registration    TeamRegistrationResponse `json:"registration"`
	InvitationsSent int                      `json:"invitationsSent"`
	Warnings        []string                 `json:"warnings,omitempty"`
}

// FromEvent converts a models.Event to an EventResponse
func FromEvent(event *models.Event) EventResponse {
	return EventResponse{
		ID:                   event.ID,
		Title:                event.Title,
		Description:          event.Description,
		EventType:            event.EventType,
		StartDate:            event.StartDate,
		EndDate:              event.EndDate,
		Venue:                event.Venue,
		VirtualLink:          event.VirtualLink,
		MaxParticipants:      event.MaxParticipants,
		MinTeamSize:          event.MinTeamSize,
		MaxTeamSize:          event.MaxTeamSize,
		RegistrationDeadline: event.RegistrationDeadline,
		Rules:                event.Rules,
		Prizes:               event.Prizes,
		IsActive:             event.IsActive,
		CreatedAt:            event.CreatedAt,
	}
}

// FromEventRegistration converts a models.EventRegistration
func FromEventRegistration(reg *models.EventRegistration) EventRegistrationResponse {
	resp := EventRegistrationResponse{
		ID:             reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		TeamName:       reg.TeamName,
		AdditionalInfo: reg.AdditionalInfo,
		RegisteredAt:   reg.RegisteredAt,
	}
	if reg.User != nil {
		user := FromUserBasic(reg.User)
		resp.User = &user
	}
	return resp
}

// FromTeamRegistration converts a models.EventTeamRegistration
func FromTeamRegistration(reg *models.EventTeamRegistration) TeamRegistrationResponse {
	resp := TeamRegistrationResponse{
		ID:           reg.ID,
		EventID:      reg.EventID,
		TeamName:     reg.TeamName,
		TeamLeaderID: reg.TeamLeaderID,
		Status:       reg.Status,
		RegisteredAt: reg.RegisteredAt,
	}
	for i := range reg.Members {
		resp.Members = append(resp.Members, FromTeamMembership(&reg.Members[i]))
	}
	return resp
}

// FromTeamMembership converts a models.EventTeamMember
func FromTeamMembership(m *models.EventTeamMember) TeamMembershipResponse {
	resp := TeamMembershipResponse{
		ID:                 m.ID,
		TeamRegistrationID: m.TeamRegistrationID,
		UserID:             m.UserID,
		Role:               m.Role,
		Skills:             m.Skills,
		JoinedAt:           m.JoinedAt,
	}
	if m.User != nil {
		user := FromUserBasic(m.User)
		resp.User = &user
	}
	return resp
}

// FromTeamInvitation converts a models.EventTeamInvitation. The team name
// and event ID come from the joined registration when present.
func FromTeamInvitation(inv *models.EventTeamInvitation) TeamInvitationResponse {
	resp := TeamInvitationResponse{
		ID:                 inv.ID,
		TeamRegistrationID: inv.TeamRegistrationID,
		InvitedByID:        inv.InvitedByID,
		Status:             inv.Status,
		InvitedAt:          inv.InvitedAt,
		ExpiresAt:          inv.ExpiresAt,
	}
	if inv.TeamRegistration != nil {
		resp.TeamName = inv.TeamRegistration.TeamName
		resp.EventID = inv.TeamRegistration.EventID
	}
	return resp
}
