package dto

import (
	"time"

	"github.com/selimd/campuslink/internal/app/models"
)

// --- Request DTOs ---

// CreateTeamRequest represents project team creation data
type CreateTeamRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Description  *string `json:"description,omitempty"`
	ProjectIdea  *string `json:"projectIdea,omitempty"`
	MaxMembers   int     `json:"maxMembers" binding:"omitempty,gte=1"`
	SkillsNeeded *string `json:"skillsNeeded,omitempty"`
	EventID      *int64  `json:"eventId,omitempty"`
}

// UpdateTeamRequest represents project team update data
type UpdateTeamRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Description  *string `json:"description,omitempty"`
	ProjectIdea  *string `json:"projectIdea,omitempty"`
	MaxMembers   int     `json:"maxMembers" binding:"omitempty,gte=1"`
	SkillsNeeded *string `json:"skillsNeeded,omitempty"`
	IsOpen       *bool   `json:"isOpen,omitempty"`
}

// JoinTeamRequest represents a request to join a team
type JoinTeamRequest struct {
	Message *string `json:"message,omitempty"`
}

// ReviewJoinRequestRequest carries the approve/reject decision of the leader
type ReviewJoinRequestRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

// UpdateMemberRoleRequest changes a member's role label
type UpdateMemberRoleRequest struct {
	Role models.TeamRole `json:"role" binding:"required,oneof=leader member"`
}

// SendTeamMessageRequest posts a message to the team discussion
type SendTeamMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// --- Response DTOs ---

// TeamResponse represents basic team information
type TeamResponse struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Description  *string            `json:"description,omitempty"`
	ProjectIdea  *string            `json:"projectIdea,omitempty"`
	MaxMembers   int                `json:"maxMembers"`
	SkillsNeeded *string            `json:"skillsNeeded,omitempty"`
	IsOpen       bool               `json:"isOpen"`
	LeaderID     int64              `json:"leaderId"`
	EventID      *int64             `json:"eventId,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	Leader       *UserBasicResponse `json:"leader,omitempty"`
}

// TeamListItemResponse augments a team with the caller's state
type TeamListItemResponse struct {
	TeamResponse
	MemberCount       int  `json:"memberCount"`
	IsMember          bool `json:"isMember"`
	HasPendingRequest bool `json:"hasPendingRequest"`
}

// TeamMemberResponse represents one project team member
type TeamMemberResponse struct {
	ID       int64              `json:"id"`
	TeamID   int64              `json:"teamId"`
	UserID   int64              `json:"userId"`
	Role     models.TeamRole    `json:"role"`
	JoinedAt time.Time          `json:"joinedAt"`
	User     *UserBasicResponse `json:"user,omitempty"`
}

// TeamJoinRequestResponse represents a join request awaiting review
type TeamJoinRequestResponse struct {
	ID        int64                    `json:"id"`
	TeamID    int64                    `json:"teamId"`
	UserID    int64                    `json:"userId"`
	Message   *string                  `json:"message,omitempty"`
	Status    models.JoinRequestStatus `json:"status"`
	CreatedAt time.Time                `json:"createdAt"`
	User      *UserBasicResponse       `json:"user,omitempty"`
}

// TeamMessageResponse represents one team discussion message
type TeamMessageResponse struct {
	ID          int64                  `json:"id"`
	TeamID      int64                  `json:"teamId"`
	UserID      int64                  `json:"userId"`
	Message     string                 `json:"message"`
	MessageType models.TeamMessageType `json:"messageType"`
	CreatedAt   time.Time              `json:"createdAt"`
	Sender      *UserBasicResponse     `json:"sender,omitempty"`
}

// TeamDetailResponse is the team page payload. JoinRequests is only
// populated for the leader, Messages only for members.
type TeamDetailResponse struct {
	Team              TeamResponse              `json:"team"`
	Members           []TeamMemberResponse      `json:"members"`
	IsMember          bool                      `json:"isMember"`
	MemberRole        *models.TeamRole          `json:"memberRole,omitempty"`
	HasPendingRequest bool                      `json:"hasPendingRequest"`
	JoinRequests      []TeamJoinRequestResponse `json:"joinRequests,omitempty"`
	Messages          []TeamMessageResponse     `json:"messages,omitempty"`
}

// FromTeam converts a models.Team to a TeamResponse
func FromTeam(team *models.Team) TeamResponse {
	resp := TeamResponse{
		ID:           team.ID,
		Name:         team.Name,
		Description:  team.Description,
		ProjectIdea:  team.ProjectIdea,
		MaxMembers:   team.MaxMembers,
		SkillsNeeded: team.SkillsNeeded,
		IsOpen:       team.IsOpen,
		LeaderID:     team.LeaderID,
		EventID:      team.EventID,
		CreatedAt:    team.CreatedAt,
	}
	if team.Leader != nil {
		leader := FromUserBasic(team.Leader)
		resp.Leader = &leader
	}
	return resp
}

// FromTeamMember converts a models.TeamMember
func FromTeamMember(m *models.TeamMember) TeamMemberResponse {
	resp := TeamMemberResponse{
		ID:       m.ID,
		TeamID:   m.TeamID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		user := FromUserBasic(m.User)
		resp.User = &user
	}
	return resp
}

// FromTeamJoinRequest converts a models.TeamJoinRequest
func FromTeamJoinRequest(r *models.TeamJoinRequest) TeamJoinRequestResponse {
	resp := TeamJoinRequestResponse{
		ID:        r.ID,
		TeamID:    r.TeamID,
		UserID:    r.UserID,
		Message:   r.Message,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		user := FromUserBasic(r.User)
		resp.User = &user
	}
	return resp
}

// FromTeamMessage converts a models.TeamMessage
func FromTeamMessage(m *models.TeamMessage) TeamMessageResponse {
	resp := TeamMessageResponse{
		ID:          m.ID,
		TeamID:      m.TeamID,
		UserID:      m.UserID,
		Message:     m.Message,
		MessageType: m.MessageType,
		CreatedAt:   m.CreatedAt,
	}
	if m.Sender != nil {
		sender := FromUserBasic(m.Sender)
		resp.Sender = &sender
	}
	return resp
}
