package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/db"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
	"github.com/selimd/campuslink/internal/pkg/dberrors"
)

// EventTeamRepository handles event team registrations, memberships and
// invitations. Multi-row writes run inside a single transaction so a team
// is never persisted half-formed.
type EventTeamRepository struct {
	db *pgxpool.Pool
}

// NewEventTeamRepository creates a new EventTeamRepository
func NewEventTeamRepository(db *pgxpool.Pool) *EventTeamRepository {
	return &EventTeamRepository{db: db}
}

const teamRegistrationColumns = `id, event_id, team_name, team_leader_id, status, registered_at, updated_at`

func scanTeamRegistration(row pgx.Row) (*models.EventTeamRegistration, error) {
	reg := &models.EventTeamRegistration{}
	err := row.Scan(&reg.ID, &reg.EventID, &reg.TeamName, &reg.TeamLeaderID,
		&reg.Status, &reg.RegisteredAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// CreateTeamRegistration persists a new team registration together with its
// leader membership, the outgoing invitations and their notifications, all
// in one transaction.
func (r *EventTeamRepository) CreateTeamRegistration(ctx context.Context,
	reg *models.EventTeamRegistration, leaderSkills *string,
	invitations []*models.EventTeamInvitation, notifications []*models.Notification) error {

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO event_team_registrations (event_id, team_name, team_leader_id, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, registered_at, updated_at`,
			reg.EventID, reg.TeamName, reg.TeamLeaderID, reg.Status).
			Scan(&reg.ID, &reg.RegisteredAt, &reg.UpdatedAt)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrAlreadyRegistered
			}
			return fmt.Errorf("error creating team registration: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO event_team_members (team_registration_id, user_id, role, skills)
			VALUES ($1, $2, $3, $4)`,
			reg.ID, reg.TeamLeaderID, models.TeamRoleLeader, leaderSkills)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrAlreadyMember
			}
			return fmt.Errorf("error creating leader membership: %w", err)
		}

		for _, inv := range invitations {
			inv.TeamRegistrationID = reg.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO event_team_invitations
					(team_registration_id, invited_user_id, invited_by_id, email, role, skills, status, expires_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id, invited_at`,
				inv.TeamRegistrationID, inv.InvitedUserID, inv.InvitedByID, inv.Email,
				inv.Role, inv.Skills, inv.Status, inv.ExpiresAt).
				Scan(&inv.ID, &inv.InvitedAt)
			if err != nil {
				return fmt.Errorf("error creating invitation: %w", err)
			}
		}

		return insertNotifications(ctx, tx, notifications)
	})
}

// GetByID retrieves a team registration with its members
func (r *EventTeamRepository) GetByID(ctx context.Context, id int64) (*models.EventTeamRegistration, error) {
	reg, err := scanTeamRegistration(r.db.QueryRow(ctx,
		`SELECT `+teamRegistrationColumns+` FROM event_team_registrations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching team registration: %w", err)
	}

	members, err := r.ListMembers(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	reg.Members = members
	return reg, nil
}

// GetByLeader retrieves the team registration led by a user for an event
func (r *EventTeamRepository) GetByLeader(ctx context.Context, eventID, leaderID int64) (*models.EventTeamRegistration, error) {
	reg, err := scanTeamRegistration(r.db.QueryRow(ctx,
		`SELECT `+teamRegistrationColumns+`
		 FROM event_team_registrations
		 WHERE event_id = $1 AND team_leader_id = $2`,
		eventID, leaderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching team registration: %w", err)
	}

	members, err := r.ListMembers(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	reg.Members = members
	return reg, nil
}

// ListByEvent returns all team registrations for an event with their members
func (r *EventTeamRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.EventTeamRegistration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+teamRegistrationColumns+`
		 FROM event_team_registrations
		 WHERE event_id = $1
		 ORDER BY registered_at ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing team registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.EventTeamRegistration
	for rows.Next() {
		reg, err := scanTeamRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning team registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, reg := range regs {
		members, err := r.ListMembers(ctx, reg.ID)
		if err != nil {
			return nil, err
		}
		reg.Members = members
	}
	return regs, nil
}

// ListMembers returns the members of a team registration with their users
func (r *EventTeamRepository) ListMembers(ctx context.Context, teamRegistrationID int64) ([]models.EventTeamMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.team_registration_id, m.user_id, m.role, m.skills, m.joined_at,
			u.id, u.username, u.email, u.full_name
		FROM event_team_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_registration_id = $1
		ORDER BY m.joined_at ASC`,
		teamRegistrationID)
	if err != nil {
		return nil, fmt.Errorf("error listing team members: %w", err)
	}
	defer rows.Close()

	var members []models.EventTeamMember
	for rows.Next() {
		m := models.EventTeamMember{User: &models.User{}}
		err := rows.Scan(&m.ID, &m.TeamRegistrationID, &m.UserID, &m.Role, &m.Skills, &m.JoinedAt,
			&m.User.ID, &m.User.Username, &m.User.Email, &m.User.FullName)
		if err != nil {
			return nil, fmt.Errorf("error scanning team member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMembershipForUser finds the user's team membership for an event, if any
func (r *EventTeamRepository) GetMembershipForUser(ctx context.Context, eventID, userID int64) (*models.EventTeamMember, error) {
	m := &models.EventTeamMember{}
	err := r.db.QueryRow(ctx, `
		SELECT m.id, m.team_registration_id, m.user_id, m.role, m.skills, m.joined_at
		FROM event_team_members m
		JOIN event_team_registrations r ON r.id = m.team_registration_id
		WHERE r.event_id = $1 AND m.user_id = $2`,
		eventID, userID).
		Scan(&m.ID, &m.TeamRegistrationID, &m.UserID, &m.Role, &m.Skills, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching team membership: %w", err)
	}
	return m, nil
}

// RemoveMember deletes a user's membership in a team registration
func (r *EventTeamRepository) RemoveMember(ctx context.Context, teamRegistrationID, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM event_team_members WHERE team_registration_id = $1 AND user_id = $2`,
		teamRegistrationID, userID)
	if err != nil {
		return fmt.Errorf("error removing team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotTeamMember
	}
	return nil
}

const invitationColumns = `i.id, i.team_registration_id, i.invited_user_id, i.invited_by_id,
	i.email, i.role, i.skills, i.status, i.invited_at, i.responded_at, i.expires_at`

func scanInvitationWithRegistration(row pgx.Row) (*models.EventTeamInvitation, error) {
	inv := &models.EventTeamInvitation{TeamRegistration: &models.EventTeamRegistration{}}
	reg := inv.TeamRegistration
	err := row.Scan(&inv.ID, &inv.TeamRegistrationID, &inv.InvitedUserID, &inv.InvitedByID,
		&inv.Email, &inv.Role, &inv.Skills, &inv.Status, &inv.InvitedAt, &inv.RespondedAt, &inv.ExpiresAt,
		&reg.ID, &reg.EventID, &reg.TeamName, &reg.TeamLeaderID, &reg.Status, &reg.RegisteredAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvitationByID retrieves an invitation with its team registration
func (r *EventTeamRepository) GetInvitationByID(ctx context.Context, id int64) (*models.EventTeamInvitation, error) {
	inv, err := scanInvitationWithRegistration(r.db.QueryRow(ctx, `
		SELECT `+invitationColumns+`,
			r.id, r.event_id, r.team_name, r.team_leader_id, r.status, r.registered_at, r.updated_at
		FROM event_team_invitations i
		JOIN event_team_registrations r ON r.id = i.team_registration_id
		WHERE i.id = $1`,
		id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching invitation: %w", err)
	}
	return inv, nil
}

// ListPendingInvitationsForUser returns a user's pending invitations,
// optionally limited to one event. Expired but unresolved invitations
// are included; the caller decides how to present them.
func (r *EventTeamRepository) ListPendingInvitationsForUser(ctx context.Context, userID int64, eventID *int64) ([]*models.EventTeamInvitation, error) {
	query := `
		SELECT ` + invitationColumns + `,
			r.id, r.event_id, r.team_name, r.team_leader_id, r.status, r.registered_at, r.updated_at
		FROM event_team_invitations i
		JOIN event_team_registrations r ON r.id = i.team_registration_id
		WHERE i.invited_user_id = $1 AND i.status = 'pending'`
	args := []any{userID}
	if eventID != nil {
		query += ` AND r.event_id = $2`
		args = append(args, *eventID)
	}
	query += ` ORDER BY i.invited_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing invitations: %w", err)
	}
	defer rows.Close()

	var invs []*models.EventTeamInvitation
	for rows.Next() {
		inv, err := scanInvitationWithRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning invitation: %w", err)
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// AcceptInvitation resolves a pending invitation into a membership. The
// status flip, the event-wide single-membership check and the member insert
// run in one transaction so two racing accepts cannot both land.
func (r *EventTeamRepository) AcceptInvitation(ctx context.Context,
	inv *models.EventTeamInvitation, notifications []*models.Notification) error {

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		now := time.Now()
		tag, err := tx.Exec(ctx, `
			UPDATE event_team_invitations
			SET status = $1, responded_at = $2
			WHERE id = $3 AND status = 'pending'`,
			models.InvitationStatusAccepted, now, inv.ID)
		if err != nil {
			return fmt.Errorf("error accepting invitation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAlreadyResponded
		}

		var hasMembership bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM event_team_members m
				JOIN event_team_registrations r ON r.id = m.team_registration_id
				WHERE r.event_id = (SELECT event_id FROM event_team_registrations WHERE id = $1)
					AND m.user_id = $2)`,
			inv.TeamRegistrationID, inv.InvitedUserID).Scan(&hasMembership)
		if err != nil {
			return fmt.Errorf("error checking existing membership: %w", err)
		}
		if hasMembership {
			return apperrors.ErrAlreadyMember
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO event_team_members (team_registration_id, user_id, role, skills)
			VALUES ($1, $2, $3, $4)`,
			inv.TeamRegistrationID, inv.InvitedUserID, inv.Role, inv.Skills)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrAlreadyMember
			}
			return fmt.Errorf("error creating membership: %w", err)
		}

		inv.Status = models.InvitationStatusAccepted
		inv.RespondedAt = &now
		return insertNotifications(ctx, tx, notifications)
	})
}

// ResolveInvitation moves a pending invitation to a terminal status without
// creating a membership (reject, or expire on read)
func (r *EventTeamRepository) ResolveInvitation(ctx context.Context, invitationID int64, status models.InvitationStatus) error {
	now := time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE event_team_invitations
		SET status = $1, responded_at = $2
		WHERE id = $3 AND status = 'pending'`,
		status, now, invitationID)
	if err != nil {
		return fmt.Errorf("error resolving invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyResponded
	}
	return nil
}

// ReplaceMembers rewrites a team registration's name and non-leader member
// set in one transaction. Existing non-leader members are dropped and the
// new members are added directly, skipping the invitation flow.
func (r *EventTeamRepository) ReplaceMembers(ctx context.Context, teamRegistrationID int64,
	teamName string, members []*models.EventTeamMember, notifications []*models.Notification) error {

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE event_team_registrations
			SET team_name = $1, updated_at = NOW()
			WHERE id = $2`,
			teamName, teamRegistrationID)
		if err != nil {
			return fmt.Errorf("error updating team registration: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrResourceNotFound
		}

		_, err = tx.Exec(ctx, `
			DELETE FROM event_team_members
			WHERE team_registration_id = $1 AND role <> $2`,
			teamRegistrationID, models.TeamRoleLeader)
		if err != nil {
			return fmt.Errorf("error clearing team members: %w", err)
		}

		for _, m := range members {
			m.TeamRegistrationID = teamRegistrationID
			err := tx.QueryRow(ctx, `
				INSERT INTO event_team_members (team_registration_id, user_id, role, skills)
				VALUES ($1, $2, $3, $4)
				RETURNING id, joined_at`,
				m.TeamRegistrationID, m.UserID, m.Role, m.Skills).
				Scan(&m.ID, &m.JoinedAt)
			if err != nil {
				if dberrors.IsUniqueViolation(err) {
					return apperrors.ErrAlreadyMember
				}
				return fmt.Errorf("error adding team member: %w", err)
			}
		}

		return insertNotifications(ctx, tx, notifications)
	})
}

// Delete removes a team registration; members and invitations cascade
func (r *EventTeamRepository) Delete(ctx context.Context, teamRegistrationID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM event_team_registrations WHERE id = $1`, teamRegistrationID)
	if err != nil {
		return fmt.Errorf("error deleting team registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// UpdateStatus sets the lifecycle status of a team registration
func (r *EventTeamRepository) UpdateStatus(ctx context.Context, teamRegistrationID int64, status models.TeamRegistrationStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE event_team_registrations
		SET status = $1, updated_at = NOW()
		WHERE id = $2`,
		status, teamRegistrationID)
	if err != nil {
		return fmt.Errorf("error updating team status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

func insertNotifications(ctx context.Context, tx pgx.Tx, notifications []*models.Notification) error {
	for _, n := range notifications {
		err := tx.QueryRow(ctx, `
			INSERT INTO notifications (user_id, title, message, notification_type, action_url)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			n.UserID, n.Title, n.Message, n.Type, n.ActionURL).
			Scan(&n.ID, &n.CreatedAt)
		if err != nil {
			return fmt.Errorf("error creating notification: %w", err)
		}
	}
	return nil
}
