package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
)

// TeamStore is the project team store surface the team service needs
type TeamStore interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, []int, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int64) error
	GetMember(ctx context.Context, teamID, userID int64) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID int64) error
	UpdateMemberRole(ctx context.Context, teamID, userID int64, role models.TeamRole) error
	TransferLeadership(ctx context.Context, teamID, currentLeaderID, newLeaderID int64) error
	ListMembershipTeamIDs(ctx context.Context, userID int64) ([]int64, error)
	ListPendingRequestTeamIDs(ctx context.Context, userID int64) ([]int64, error)
	CreateJoinRequest(ctx context.Context, req *models.TeamJoinRequest) error
	GetJoinRequest(ctx context.Context, id int64) (*models.TeamJoinRequest, error)
	ListPendingJoinRequests(ctx context.Context, teamID int64) ([]*models.TeamJoinRequest, error)
	ApproveJoinRequest(ctx context.Context, req *models.TeamJoinRequest, reviewerID int64, notification *models.Notification) error
	RejectJoinRequest(ctx context.Context, req *models.TeamJoinRequest, reviewerID int64, notification *models.Notification) error
	CreateMessage(ctx context.Context, msg *models.TeamMessage) error
	GetMessage(ctx context.Context, id int64) (*models.TeamMessage, error)
	ListMessages(ctx context.Context, teamID int64, limit, offset int) ([]*models.TeamMessage, error)
	SoftDeleteMessage(ctx context.Context, messageID, deletedBy int64) error
}

// TeamNotifier creates notifications outside of transactional writes
type TeamNotifier interface {
	Create(ctx context.Context, n *models.Notification) error
}

// TeamService owns project team membership rules: join requests, roles,
// leadership transfer and team discussion
type TeamService interface {
	CreateTeam(ctx context.Context, leaderID int64, req *dto.CreateTeamRequest) (*dto.TeamResponse, error)
	ListTeams(ctx context.Context, userID int64) ([]dto.TeamListItemResponse, error)
	GetTeamDetail(ctx context.Context, teamID, userID int64) (*dto.TeamDetailResponse, error)
	UpdateTeam(ctx context.Context, teamID, userID int64, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error)
	DeleteTeam(ctx context.Context, teamID, userID int64) error
	RequestJoin(ctx context.Context, teamID, userID int64, req *dto.JoinTeamRequest) (*dto.TeamJoinRequestResponse, error)
	ReviewJoinRequest(ctx context.Context, requestID, reviewerID int64, action string) (*dto.TeamJoinRequestResponse, error)
	LeaveTeam(ctx context.Context, teamID, userID int64) error
	RemoveMember(ctx context.Context, teamID, leaderID, memberID int64) error
	UpdateMemberRole(ctx context.Context, teamID, leaderID, memberID int64, role models.TeamRole) error
	TransferLeadership(ctx context.Context, teamID, leaderID, newLeaderID int64) error
	SendMessage(ctx context.Context, teamID, userID int64, req *dto.SendTeamMessageRequest) (*dto.TeamMessageResponse, error)
	ListMessages(ctx context.Context, teamID, userID int64, limit, offset int) ([]dto.TeamMessageResponse, error)
	DeleteMessage(ctx context.Context, messageID, userID int64) error
}

const deletedMessagePlaceholder = "This message was deleted"

type teamServiceImpl struct {
	teamRepo TeamStore
	notifier TeamNotifier
	logger   zerolog.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo TeamStore, notifier TeamNotifier, logger zerolog.Logger) TeamService {
	return &teamServiceImpl{
		teamRepo: teamRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateTeam creates a project team with the caller as its leader
func (s *teamServiceImpl) CreateTeam(ctx context.Context, leaderID int64, req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	maxMembers := req.MaxMembers
	if maxMembers == 0 {
		maxMembers = 4
	}

	team := &models.Team{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		ProjectIdea:  req.ProjectIdea,
		MaxMembers:   maxMembers,
		SkillsNeeded: req.SkillsNeeded,
		IsOpen:       true,
		LeaderID:     leaderID,
		EventID:      req.EventID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("teamId", team.ID).Int64("leaderId", leaderID).Msg("Team created")

	resp := dto.FromTeam(team)
	return &resp, nil
}

// ListTeams returns all teams annotated with the caller's relationship to
// each
func (s *teamServiceImpl) ListTeams(ctx context.Context, userID int64) ([]dto.TeamListItemResponse, error) {
	teams, counts, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	memberOf, err := s.teamRepo.ListMembershipTeamIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	pendingFor, err := s.teamRepo.ListPendingRequestTeamIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	memberSet := make(map[int64]bool, len(memberOf))
	for _, id := range memberOf {
		memberSet[id] = true
	}
	pendingSet := make(map[int64]bool, len(pendingFor))
	for _, id := range pendingFor {
		pendingSet[id] = true
	}

	resp := make([]dto.TeamListItemResponse, 0, len(teams))
	for i, team := range teams {
		resp = append(resp, dto.TeamListItemResponse{
			TeamResponse:      dto.FromTeam(team),
			MemberCount:       counts[i],
			IsMember:          memberSet[team.ID],
			HasPendingRequest: pendingSet[team.ID],
		})
	}
	return resp, nil
}

// GetTeamDetail returns the team page payload. Join requests are only
// included for the leader, messages only for members.
func (s *teamServiceImpl) GetTeamDetail(ctx context.Context, teamID, userID int64) (*dto.TeamDetailResponse, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TeamDetailResponse{
		Team:    dto.FromTeam(team),
		Members: make([]dto.TeamMemberResponse, 0, len(team.Members)),
	}

	var role *models.TeamRole
	for i := range team.Members {
		m := &team.Members[i]
		resp.Members = append(resp.Members, dto.FromTeamMember(m))
		if m.UserID == userID {
			resp.IsMember = true
			role = &m.Role
		}
	}
	resp.MemberRole = role

	if !resp.IsMember {
		pendingFor, err := s.teamRepo.ListPendingRequestTeamIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, id := range pendingFor {
			if id == teamID {
				resp.HasPendingRequest = true
				break
			}
		}
		return resp, nil
	}

	if role != nil && *role == models.TeamRoleLeader {
		requests, err := s.teamRepo.ListPendingJoinRequests(ctx, teamID)
		if err != nil {
			return nil, err
		}
		for _, req := range requests {
			resp.JoinRequests = append(resp.JoinRequests, dto.FromTeamJoinRequest(req))
		}
	}

	messages, err := s.teamRepo.ListMessages(ctx, teamID, 100, 0)
	if err != nil {
		return nil, err
	}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, renderMessage(msg))
	}

	return resp, nil
}

// UpdateTeam rewrites the team's descriptive fields. Leader only.
func (s *teamServiceImpl) UpdateTeam(ctx context.Context, teamID, userID int64, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != userID {
		return nil, apperrors.ErrPermissionDenied
	}

	team.Name = strings.TrimSpace(req.Name)
	team.Description = req.Description
	team.ProjectIdea = req.ProjectIdea
	if req.MaxMembers > 0 {
		team.MaxMembers = req.MaxMembers
	}
	team.SkillsNeeded = req.SkillsNeeded
	if req.IsOpen != nil {
		team.IsOpen = *req.IsOpen
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}

	resp := dto.FromTeam(team)
	return &resp, nil
}

// DeleteTeam disbands a team. Leader only.
func (s *teamServiceImpl) DeleteTeam(ctx context.Context, teamID, userID int64) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != userID {
		return apperrors.ErrPermissionDenied
	}
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return err
	}
	s.logger.Info().Int64("teamId", teamID).Msg("Team deleted")
	return nil
}

// RequestJoin files a join request for an open team with free capacity
func (s *teamServiceImpl) RequestJoin(ctx context.Context, teamID, userID int64, req *dto.JoinTeamRequest) (*dto.TeamJoinRequestResponse, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.IsOpen {
		return nil, apperrors.NewForbiddenError("this team is not accepting new members")
	}
	if len(team.Members) >= team.MaxMembers {
		return nil, apperrors.NewConflictError("this team is already full")
	}
	for _, m := range team.Members {
		if m.UserID == userID {
			return nil, apperrors.ErrAlreadyMember
		}
	}

	joinReq := &models.TeamJoinRequest{
		TeamID:  teamID,
		UserID:  userID,
		Message: req.Message,
		Status:  models.JoinRequestStatusPending,
	}
	if err := s.teamRepo.CreateJoinRequest(ctx, joinReq); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:  team.LeaderID,
		Title:   "New join request",
		Message: fmt.Sprintf("Someone asked to join your team %q", team.Name),
		Type:    models.NotificationJoinRequest,
	}
	if err := s.notifier.Create(ctx, notification); err != nil {
		s.logger.Warn().Err(err).Int64("teamId", teamID).Msg("Failed to notify leader of join request")
	}

	resp := dto.FromTeamJoinRequest(joinReq)
	return &resp, nil
}

// ReviewJoinRequest lets the leader approve or reject a pending request.
// Approval re-checks capacity at decision time.
func (s *teamServiceImpl) ReviewJoinRequest(ctx context.Context, requestID, reviewerID int64, action string) (*dto.TeamJoinRequestResponse, error) {
	joinReq, err := s.teamRepo.GetJoinRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, joinReq.TeamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != reviewerID {
		return nil, apperrors.ErrPermissionDenied
	}
	if joinReq.Status != models.JoinRequestStatusPending {
		return nil, apperrors.ErrAlreadyResponded
	}

	switch action {
	case "approve":
		if len(team.Members) >= team.MaxMembers {
			return nil, apperrors.NewConflictError("this team is already full")
		}
		notification := &models.Notification{
			UserID:  joinReq.UserID,
			Title:   "Join request approved",
			Message: fmt.Sprintf("You are now a member of team %q", team.Name),
			Type:    models.NotificationJoinApproved,
		}
		if err := s.teamRepo.ApproveJoinRequest(ctx, joinReq, reviewerID, notification); err != nil {
			return nil, err
		}

	case "reject":
		notification := &models.Notification{
			UserID:  joinReq.UserID,
			Title:   "Join request rejected",
			Message: fmt.Sprintf("Your request to join team %q was declined", team.Name),
			Type:    models.NotificationJoinRejected,
		}
		if err := s.teamRepo.RejectJoinRequest(ctx, joinReq, reviewerID, notification); err != nil {
			return nil, err
		}

	default:
		return nil, apperrors.NewBadRequestError("action must be approve or reject")
	}

	s.logger.Debug().Int64("requestId", requestID).Str("action", action).Msg("Join request reviewed")

	resp := dto.FromTeamJoinRequest(joinReq)
	return &resp, nil
}

// LeaveTeam removes the caller's own membership. Leaders cannot leave;
// they must transfer leadership or delete the team.
func (s *teamServiceImpl) LeaveTeam(ctx context.Context, teamID, userID int64) error {
	member, err := s.teamRepo.GetMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if member.Role == models.TeamRoleLeader {
		return apperrors.NewForbiddenError("leaders must transfer leadership before leaving")
	}
	return s.teamRepo.RemoveMember(ctx, teamID, userID)
}

// RemoveMember lets the leader remove another member
func (s *teamServiceImpl) RemoveMember(ctx context.Context, teamID, leaderID, memberID int64) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != leaderID {
		return apperrors.ErrPermissionDenied
	}
	if memberID == leaderID {
		return apperrors.NewBadRequestError("leaders cannot remove themselves")
	}
	return s.teamRepo.RemoveMember(ctx, teamID, memberID)
}

// UpdateMemberRole changes a member's role label. Promoting to leader goes
// through TransferLeadership instead.
func (s *teamServiceImpl) UpdateMemberRole(ctx context.Context, teamID, leaderID, memberID int64, role models.TeamRole) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != leaderID {
		return apperrors.ErrPermissionDenied
	}
	if role == models.TeamRoleLeader {
		return s.TransferLeadership(ctx, teamID, leaderID, memberID)
	}
	if memberID == leaderID {
		return apperrors.NewBadRequestError("use leadership transfer to step down as leader")
	}
	return s.teamRepo.UpdateMemberRole(ctx, teamID, memberID, role)
}

// TransferLeadership hands the team over to another member in one atomic
// swap; the team always has exactly one leader
func (s *teamServiceImpl) TransferLeadership(ctx context.Context, teamID, leaderID, newLeaderID int64) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != leaderID {
		return apperrors.ErrPermissionDenied
	}
	if newLeaderID == leaderID {
		return apperrors.NewBadRequestError("you already lead this team")
	}
	if _, err := s.teamRepo.GetMember(ctx, teamID, newLeaderID); err != nil {
		return err
	}

	if err := s.teamRepo.TransferLeadership(ctx, teamID, leaderID, newLeaderID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("teamId", teamID).
		Int64("from", leaderID).
		Int64("to", newLeaderID).
		Msg("Leadership transferred")
	return nil
}

// SendMessage posts a message to the team discussion. Members only.
func (s *teamServiceImpl) SendMessage(ctx context.Context, teamID, userID int64, req *dto.SendTeamMessageRequest) (*dto.TeamMessageResponse, error) {
	if _, err := s.teamRepo.GetMember(ctx, teamID, userID); err != nil {
		return nil, err
	}

	msg := &models.TeamMessage{
		TeamID:      teamID,
		UserID:      userID,
		Message:     strings.TrimSpace(req.Message),
		MessageType: models.TeamMessageTypeText,
	}
	if msg.Message == "" {
		return nil, apperrors.NewBadRequestError("message cannot be empty")
	}
	if err := s.teamRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	resp := renderMessage(msg)
	return &resp, nil
}

// ListMessages returns the team discussion. Members only.
func (s *teamServiceImpl) ListMessages(ctx context.Context, teamID, userID int64, limit, offset int) ([]dto.TeamMessageResponse, error) {
	if _, err := s.teamRepo.GetMember(ctx, teamID, userID); err != nil {
		return nil, err
	}

	messages, err := s.teamRepo.ListMessages(ctx, teamID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TeamMessageResponse, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, renderMessage(msg))
	}
	return resp, nil
}

// DeleteMessage soft-deletes a message. Allowed for the sender and the
// team leader.
func (s *teamServiceImpl) DeleteMessage(ctx context.Context, messageID, userID int64) error {
	msg, err := s.teamRepo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}

	if msg.UserID != userID {
		team, err := s.teamRepo.GetByID(ctx, msg.TeamID)
		if err != nil {
			return err
		}
		if team.LeaderID != userID {
			return apperrors.ErrPermissionDenied
		}
	}
	if msg.IsDeleted {
		return nil
	}
	return s.teamRepo.SoftDeleteMessage(ctx, messageID, userID)
}

// renderMessage converts a message, masking soft-deleted content
func renderMessage(msg *models.TeamMessage) dto.TeamMessageResponse {
	resp := dto.FromTeamMessage(msg)
	if msg.IsDeleted {
		resp.Message = deletedMessagePlaceholder
	}
	return resp
}
