package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
)

// EventTeamStore is the team registration store surface the team formation
// service needs
type EventTeamStore interface {
	CreateTeamRegistration(ctx context.Context, reg *models.EventTeamRegistration, leaderSkills *string,
		invitations []*models.EventTeamInvitation, notifications []*models.Notification) error
	GetByID(ctx context.Context, id int64) (*models.EventTeamRegistration, error)
	GetByLeader(ctx context.Context, eventID, leaderID int64) (*models.EventTeamRegistration, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.EventTeamRegistration, error)
	GetMembershipForUser(ctx context.Context, eventID, userID int64) (*models.EventTeamMember, error)
	RemoveMember(ctx context.Context, teamRegistrationID, userID int64) error
	GetInvitationByID(ctx context.Context, id int64) (*models.EventTeamInvitation, error)
	ListPendingInvitationsForUser(ctx context.Context, userID int64, eventID *int64) ([]*models.EventTeamInvitation, error)
	AcceptInvitation(ctx context.Context, inv *models.EventTeamInvitation, notifications []*models.Notification) error
	ResolveInvitation(ctx context.Context, invitationID int64, status models.InvitationStatus) error
	ReplaceMembers(ctx context.Context, teamRegistrationID int64, teamName string,
		members []*models.EventTeamMember, notifications []*models.Notification) error
	Delete(ctx context.Context, teamRegistrationID int64) error
	UpdateStatus(ctx context.Context, teamRegistrationID int64, status models.TeamRegistrationStatus) error
}

// InviteeResolver resolves invitee emails to accounts
type InviteeResolver interface {
	GetByEmails(ctx context.Context, emails []string) ([]*models.User, error)
}

// EventReader is the event lookup the team formation service needs
type EventReader interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// InvitationMailer sends invitation emails. Delivery is best-effort; a
// failed send never fails the registration.
type InvitationMailer interface {
	SendTeamInvitation(to, teamName, eventTitle string, expiresAt time.Time) error
}

// EventTeamService owns the team formation rules for event registrations:
// who may register, invite, accept, quit and be disqualified
type EventTeamService interface {
	RegisterTeam(ctx context.Context, eventID, leaderID int64, req *dto.RegisterTeamRequest) (*dto.RegisterTeamResult, error)
	EditRegistration(ctx context.Context, eventID, leaderID int64, req *dto.EditTeamRegistrationRequest) (*dto.RegisterTeamResult, error)
	UnregisterTeam(ctx context.Context, eventID, leaderID int64) error
	RespondToInvitation(ctx context.Context, invitationID, userID int64, decision string) (*dto.TeamInvitationResponse, error)
	ListMyInvitations(ctx context.Context, userID int64) ([]dto.TeamInvitationResponse, error)
	QuitTeam(ctx context.Context, eventID, userID int64) error
	EvaluateAndListTeams(ctx context.Context, eventID int64) ([]dto.TeamRegistrationResponse, error)
}

type eventTeamServiceImpl struct {
	teamRepo  EventTeamStore
	eventRepo EventReader
	userRepo  InviteeResolver
	mailer    InvitationMailer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventTeamService creates a new EventTeamService
func NewEventTeamService(
	teamRepo EventTeamStore,
	eventRepo EventReader,
	userRepo InviteeResolver,
	mailer InvitationMailer,
	logger zerolog.Logger,
) EventTeamService {
	return &eventTeamServiceImpl{
		teamRepo:  teamRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		mailer:    mailer,
		logger:    logger,
		now:       time.Now,
	}
}

// resolvedInvitee pairs a submitted invitee with its resolved account
type resolvedInvitee struct {
	user   *models.User
	skills *string
}

// resolveInvitees turns the raw invitee list into resolvable accounts,
// collecting a warning for every entry that cannot receive an invitation.
// The raw list length has already passed the size check; resolution never
// re-validates size.
func (s *eventTeamServiceImpl) resolveInvitees(ctx context.Context, eventID, leaderID int64,
	ownTeamID *int64, invitees []dto.TeamInvitee) ([]resolvedInvitee, []string, error) {

	emails := make([]string, 0, len(invitees))
	for _, inv := range invitees {
		emails = append(emails, strings.ToLower(strings.TrimSpace(inv.Email)))
	}

	users, err := s.userRepo.GetByEmails(ctx, emails)
	if err != nil {
		return nil, nil, err
	}
	byEmail := make(map[string]*models.User, len(users))
	for _, u := range users {
		byEmail[strings.ToLower(u.Email)] = u
	}

	var resolved []resolvedInvitee
	var warnings []string
	seen := make(map[string]bool, len(invitees))

	for i, inv := range invitees {
		email := emails[i]
		if seen[email] {
			warnings = append(warnings, fmt.Sprintf("%s: listed more than once, skipped", email))
			continue
		}
		seen[email] = true

		user, ok := byEmail[email]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: no account found, skipped", email))
			continue
		}
		if user.ID == leaderID {
			warnings = append(warnings, fmt.Sprintf("%s: you are the team leader, skipped", email))
			continue
		}

		membership, err := s.teamRepo.GetMembershipForUser(ctx, eventID, user.ID)
		if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil, err
		}
		if membership != nil {
			if ownTeamID == nil || membership.TeamRegistrationID != *ownTeamID {
				warnings = append(warnings, fmt.Sprintf("%s: already in another team for this event, skipped", email))
				continue
			}
		}

		resolved = append(resolved, resolvedInvitee{user: user, skills: inv.Skills})
	}

	return resolved, warnings, nil
}

// RegisterTeam registers a team for an event. The size check runs on the raw
// submitted invitee count before email resolution; unresolvable entries
// become warnings, not failures.
func (s *eventTeamServiceImpl) RegisterTeam(ctx context.Context, eventID, leaderID int64, req *dto.RegisterTeamRequest) (*dto.RegisterTeamResult, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, apperrors.ErrEventNotFound
	}

	now := s.now()
	if now.After(event.RegistrationDeadline) {
		return nil, apperrors.ErrDeadlinePassed
	}

	if _, err := s.teamRepo.GetByLeader(ctx, eventID, leaderID); err == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyRegistered,
			"you already lead a team for this event, edit it instead")
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	if membership, err := s.teamRepo.GetMembershipForUser(ctx, eventID, leaderID); err == nil && membership != nil {
		return nil, apperrors.ErrAlreadyMember
	} else if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	totalMembers := len(req.Invitees) + 1
	if totalMembers < event.MinTeamSize || totalMembers > event.MaxTeamSize {
		return nil, apperrors.NewCustomError(apperrors.ErrTeamSizeOutOfRange,
			fmt.Sprintf("team size must be between %d and %d including you", event.MinTeamSize, event.MaxTeamSize))
	}

	resolved, warnings, err := s.resolveInvitees(ctx, eventID, leaderID, nil, req.Invitees)
	if err != nil {
		return nil, err
	}

	reg := &models.EventTeamRegistration{
		EventID:      eventID,
		TeamName:     strings.TrimSpace(req.TeamName),
		TeamLeaderID: leaderID,
		Status:       models.TeamRegistrationStatusRegistered,
	}

	expiresAt := now.Add(models.InvitationTTL)
	invitations := make([]*models.EventTeamInvitation, 0, len(resolved))
	notifications := make([]*models.Notification, 0, len(resolved))
	for _, inv := range resolved {
		invitations = append(invitations, &models.EventTeamInvitation{
			InvitedUserID: inv.user.ID,
			InvitedByID:   leaderID,
			Email:         strings.ToLower(inv.user.Email),
			Role:          models.TeamRoleMember,
			Skills:        inv.skills,
			Status:        models.InvitationStatusPending,
			ExpiresAt:     expiresAt,
		})
		notifications = append(notifications, &models.Notification{
			UserID:  inv.user.ID,
			Title:   "Team invitation",
			Message: fmt.Sprintf("You have been invited to join team %q for %s", reg.TeamName, event.Title),
			Type:    models.NotificationTeamInvitation,
		})
	}

	if err := s.teamRepo.CreateTeamRegistration(ctx, reg, nil, invitations, notifications); err != nil {
		return nil, err
	}

	for _, inv := range invitations {
		if err := s.mailer.SendTeamInvitation(inv.Email, reg.TeamName, event.Title, inv.ExpiresAt); err != nil {
			s.logger.Warn().Err(err).Str("email", inv.Email).Msg("Failed to send invitation email")
		}
	}

	s.logger.Info().
		Int64("eventId", eventID).
		Int64("leaderId", leaderID).
		Int("invitationsSent", len(invitations)).
		Int("warnings", len(warnings)).
		Msg("Team registered")

	full, err := s.teamRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterTeamResult{
		Registration:    dto.FromTeamRegistration(full),
		InvitationsSent: len(invitations),
		Warnings:        warnings,
	}, nil
}

// EditRegistration replaces the non-leader member set of the leader's team.
// New members are added directly without going through invitations.
func (s *eventTeamServiceImpl) EditRegistration(ctx context.Context, eventID, leaderID int64, req *dto.EditTeamRegistrationRequest) (*dto.RegisterTeamResult, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	reg, err := s.teamRepo.GetByLeader(ctx, eventID, leaderID)
	if err != nil {
		return nil, err
	}

	if s.now().After(event.RegistrationDeadline) {
		return nil, apperrors.ErrDeadlinePassed
	}

	// No size check here: a team edited below the minimum stays registered
	// until the post-deadline evaluation disqualifies it
	resolved, warnings, err := s.resolveInvitees(ctx, eventID, leaderID, &reg.ID, req.Invitees)
	if err != nil {
		return nil, err
	}

	members := make([]*models.EventTeamMember, 0, len(resolved))
	notifications := make([]*models.Notification, 0, len(resolved))
	existing := make(map[int64]bool, len(reg.Members))
	for _, m := range reg.Members {
		existing[m.UserID] = true
	}
	for _, inv := range resolved {
		members = append(members, &models.EventTeamMember{
			UserID: inv.user.ID,
			Role:   models.TeamRoleMember,
			Skills: inv.skills,
		})
		if !existing[inv.user.ID] {
			notifications = append(notifications, &models.Notification{
				UserID:  inv.user.ID,
				Title:   "Added to team",
				Message: fmt.Sprintf("You have been added to team %q for %s", req.TeamName, event.Title),
				Type:    models.NotificationGeneral,
			})
		}
	}

	if err := s.teamRepo.ReplaceMembers(ctx, reg.ID, strings.TrimSpace(req.TeamName), members, notifications); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("teamRegistrationId", reg.ID).Int("members", len(members)+1).Msg("Team registration edited")

	full, err := s.teamRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterTeamResult{
		Registration: dto.FromTeamRegistration(full),
		Warnings:     warnings,
	}, nil
}

// UnregisterTeam deletes the leader's team registration; memberships and
// invitations cascade with it
func (s *eventTeamServiceImpl) UnregisterTeam(ctx context.Context, eventID, leaderID int64) error {
	reg, err := s.teamRepo.GetByLeader(ctx, eventID, leaderID)
	if err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, reg.ID); err != nil {
		return err
	}
	s.logger.Info().Int64("teamRegistrationId", reg.ID).Msg("Team registration removed")
	return nil
}

// RespondToInvitation resolves a pending invitation. Accepting an expired
// invitation fails and marks it expired; rejecting is honored even past
// expiry.
func (s *eventTeamServiceImpl) RespondToInvitation(ctx context.Context, invitationID, userID int64, decision string) (*dto.TeamInvitationResponse, error) {
	inv, err := s.teamRepo.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.InvitedUserID != userID {
		return nil, apperrors.ErrPermissionDenied
	}
	if inv.Status != models.InvitationStatusPending {
		return nil, apperrors.ErrAlreadyResponded
	}

	switch decision {
	case "accept":
		if inv.IsExpired(s.now()) {
			if err := s.teamRepo.ResolveInvitation(ctx, inv.ID, models.InvitationStatusExpired); err != nil &&
				!errors.Is(err, apperrors.ErrAlreadyResponded) {
				return nil, err
			}
			inv.Status = models.InvitationStatusExpired
			return nil, apperrors.ErrInvitationExpired
		}

		notification := &models.Notification{
			UserID:  inv.TeamRegistration.TeamLeaderID,
			Title:   "Invitation accepted",
			Message: fmt.Sprintf("Your invitation to team %q was accepted", inv.TeamRegistration.TeamName),
			Type:    models.NotificationGeneral,
		}
		if err := s.teamRepo.AcceptInvitation(ctx, inv, []*models.Notification{notification}); err != nil {
			return nil, err
		}

	case "reject":
		if err := s.teamRepo.ResolveInvitation(ctx, inv.ID, models.InvitationStatusRejected); err != nil {
			return nil, err
		}
		now := s.now()
		inv.Status = models.InvitationStatusRejected
		inv.RespondedAt = &now

	default:
		return nil, apperrors.NewBadRequestError("decision must be accept or reject")
	}

	s.logger.Debug().Int64("invitationId", inv.ID).Str("decision", decision).Msg("Invitation resolved")

	resp := dto.FromTeamInvitation(inv)
	return &resp, nil
}

// ListMyInvitations returns the user's unresolved invitations across all
// events. Invitations past their expiry are presented as expired without
// being rewritten.
func (s *eventTeamServiceImpl) ListMyInvitations(ctx context.Context, userID int64) ([]dto.TeamInvitationResponse, error) {
	invitations, err := s.teamRepo.ListPendingInvitationsForUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := make([]dto.TeamInvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		r := dto.FromTeamInvitation(inv)
		if inv.IsExpired(now) {
			r.Status = models.InvitationStatusExpired
		}
		resp = append(resp, r)
	}
	return resp, nil
}

// QuitTeam removes the user's non-leader membership for an event. Leaders
// cannot quit their own team; they must unregister or hand it over.
func (s *eventTeamServiceImpl) QuitTeam(ctx context.Context, eventID, userID int64) error {
	membership, err := s.teamRepo.GetMembershipForUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.ErrNotTeamMember
		}
		return err
	}
	if membership.Role == models.TeamRoleLeader {
		return apperrors.ErrNotTeamMember
	}
	return s.teamRepo.RemoveMember(ctx, membership.TeamRegistrationID, userID)
}

// EvaluateAndListTeams lists an event's team registrations, first
// disqualifying every still-registered team that sits below the minimum
// size once the deadline is behind us. Adequately staffed teams keep
// their registered status; terminal states are never revisited.
func (s *eventTeamServiceImpl) EvaluateAndListTeams(ctx context.Context, eventID int64) ([]dto.TeamRegistrationResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	deadlinePassed := s.now().After(event.RegistrationDeadline)
	resp := make([]dto.TeamRegistrationResponse, 0, len(teams))
	for _, team := range teams {
		if deadlinePassed && team.Status == models.TeamRegistrationStatusRegistered &&
			len(team.Members) < event.MinTeamSize {
			if err := s.teamRepo.UpdateStatus(ctx, team.ID, models.TeamRegistrationStatusDisqualified); err != nil {
				return nil, err
			}
			team.Status = models.TeamRegistrationStatusDisqualified
			s.logger.Info().
				Int64("teamRegistrationId", team.ID).
				Int("members", len(team.Members)).
				Msg("Team registration disqualified")
		}
		resp = append(resp, dto.FromTeamRegistration(team))
	}
	return resp, nil
}
