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

// TeamRepository handles project team, join request and message persistence
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `id, name, description, project_idea, max_members, skills_needed, is_open, leader_id, event_id, created_at`

func scanTeam(row pgx.Row) (*models.Team, error) {
	t := &models.Team{}
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.ProjectIdea, &t.MaxMembers,
		&t.SkillsNeeded, &t.IsOpen, &t.LeaderID, &t.EventID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create persists a new team and its leader membership in one transaction
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO teams (name, description, project_idea, max_members, skills_needed, is_open, leader_id, event_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`,
			team.Name, team.Description, team.ProjectIdea, team.MaxMembers,
			team.SkillsNeeded, team.IsOpen, team.LeaderID, team.EventID).
			Scan(&team.ID, &team.CreatedAt)
		if err != nil {
			return fmt.Errorf("error creating team: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO team_members (team_id, user_id, role)
			VALUES ($1, $2, $3)`,
			team.ID, team.LeaderID, models.TeamRoleLeader)
		if err != nil {
			return fmt.Errorf("error creating leader membership: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a team with its members
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching team: %w", err)
	}

	members, err := r.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return team, nil
}

// List returns all teams with their member counts, newest first
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, []int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, t.description, t.project_idea, t.max_members, t.skills_needed,
			t.is_open, t.leader_id, t.event_id, t.created_at,
			(SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id)
		FROM teams t
		ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	var counts []int
	for rows.Next() {
		t := &models.Team{}
		var count int
		err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.ProjectIdea, &t.MaxMembers,
			&t.SkillsNeeded, &t.IsOpen, &t.LeaderID, &t.EventID, &t.CreatedAt, &count)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning team: %w", err)
		}
		teams = append(teams, t)
		counts = append(counts, count)
	}
	return teams, counts, rows.Err()
}

// Update rewrites a team's mutable fields
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE teams
		SET name = $1, description = $2, project_idea = $3, max_members = $4,
			skills_needed = $5, is_open = $6
		WHERE id = $7`,
		team.Name, team.Description, team.ProjectIdea, team.MaxMembers,
		team.SkillsNeeded, team.IsOpen, team.ID)
	if err != nil {
		return fmt.Errorf("error updating team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a team; members, requests and messages cascade
func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// ListMembers returns the team's members with their users
func (r *TeamRepository) ListMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.team_id, m.user_id, m.role, m.joined_at,
			u.id, u.username, u.email, u.full_name
		FROM team_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.joined_at ASC`,
		teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing team members: %w", err)
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		m := models.TeamMember{User: &models.User{}}
		err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt,
			&m.User.ID, &m.User.Username, &m.User.Email, &m.User.FullName)
		if err != nil {
			return nil, fmt.Errorf("error scanning team member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMember retrieves a user's membership in a team
func (r *TeamRepository) GetMember(ctx context.Context, teamID, userID int64) (*models.TeamMember, error) {
	m := &models.TeamMember{}
	err := r.db.QueryRow(ctx, `
		SELECT id, team_id, user_id, role, joined_at
		FROM team_members
		WHERE team_id = $1 AND user_id = $2`,
		teamID, userID).
		Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotTeamMember
		}
		return nil, fmt.Errorf("error fetching team member: %w", err)
	}
	return m, nil
}

// RemoveMember deletes a membership
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return fmt.Errorf("error removing team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotTeamMember
	}
	return nil
}

// UpdateMemberRole changes a member's role within a team
func (r *TeamRepository) UpdateMemberRole(ctx context.Context, teamID, userID int64, role models.TeamRole) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE team_members SET role = $1 WHERE team_id = $2 AND user_id = $3`,
		role, teamID, userID)
	if err != nil {
		return fmt.Errorf("error updating member role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotTeamMember
	}
	return nil
}

// TransferLeadership atomically demotes the current leader, promotes the new
// one and updates the team's leader pointer. The team never observes zero or
// two leaders.
func (r *TeamRepository) TransferLeadership(ctx context.Context, teamID, currentLeaderID, newLeaderID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE team_members SET role = $1 WHERE team_id = $2 AND user_id = $3 AND role = $4`,
			models.TeamRoleMember, teamID, currentLeaderID, models.TeamRoleLeader)
		if err != nil {
			return fmt.Errorf("error demoting leader: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrPermissionDenied
		}

		tag, err = tx.Exec(ctx,
			`UPDATE team_members SET role = $1 WHERE team_id = $2 AND user_id = $3`,
			models.TeamRoleLeader, teamID, newLeaderID)
		if err != nil {
			return fmt.Errorf("error promoting new leader: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotTeamMember
		}

		_, err = tx.Exec(ctx,
			`UPDATE teams SET leader_id = $1 WHERE id = $2`, newLeaderID, teamID)
		if err != nil {
			return fmt.Errorf("error updating team leader: %w", err)
		}
		return nil
	})
}

// ListMembershipTeamIDs returns the IDs of teams the user belongs to
func (r *TeamRepository) ListMembershipTeamIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT team_id FROM team_members WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing memberships: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning membership: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListPendingRequestTeamIDs returns the IDs of teams the user has a pending
// join request for
func (r *TeamRepository) ListPendingRequestTeamIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT team_id FROM team_join_requests WHERE user_id = $1 AND status = 'pending'`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing pending requests: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning pending request: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateJoinRequest inserts a pending join request. A second pending request
// for the same (team, user) is a conflict.
func (r *TeamRepository) CreateJoinRequest(ctx context.Context, req *models.TeamJoinRequest) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO team_join_requests (team_id, user_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		req.TeamID, req.UserID, req.Message, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrPendingJoinRequest
		}
		return fmt.Errorf("error creating join request: %w", err)
	}
	return nil
}

// GetJoinRequest retrieves a join request by ID
func (r *TeamRepository) GetJoinRequest(ctx context.Context, id int64) (*models.TeamJoinRequest, error) {
	req := &models.TeamJoinRequest{}
	err := r.db.QueryRow(ctx, `
		SELECT id, team_id, user_id, message, status, created_at, reviewed_at, reviewed_by
		FROM team_join_requests
		WHERE id = $1`,
		id).Scan(&req.ID, &req.TeamID, &req.UserID, &req.Message, &req.Status,
		&req.CreatedAt, &req.ReviewedAt, &req.ReviewedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching join request: %w", err)
	}
	return req, nil
}

// ListPendingJoinRequests returns a team's pending join requests with users
func (r *TeamRepository) ListPendingJoinRequests(ctx context.Context, teamID int64) ([]*models.TeamJoinRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT q.id, q.team_id, q.user_id, q.message, q.status, q.created_at, q.reviewed_at, q.reviewed_by,
			u.id, u.username, u.email, u.full_name
		FROM team_join_requests q
		JOIN users u ON u.id = q.user_id
		WHERE q.team_id = $1 AND q.status = 'pending'
		ORDER BY q.created_at ASC`,
		teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing join requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.TeamJoinRequest
	for rows.Next() {
		req := &models.TeamJoinRequest{User: &models.User{}}
		err := rows.Scan(&req.ID, &req.TeamID, &req.UserID, &req.Message, &req.Status,
			&req.CreatedAt, &req.ReviewedAt, &req.ReviewedBy,
			&req.User.ID, &req.User.Username, &req.User.Email, &req.User.FullName)
		if err != nil {
			return nil, fmt.Errorf("error scanning join request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// ApproveJoinRequest resolves a pending request and adds the membership in
// one transaction. Racing approvals of the same request resolve to one
// winner via the pending-status guard.
func (r *TeamRepository) ApproveJoinRequest(ctx context.Context, req *models.TeamJoinRequest,
	reviewerID int64, notification *models.Notification) error {

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		now := time.Now()
		tag, err := tx.Exec(ctx, `
			UPDATE team_join_requests
			SET status = $1, reviewed_at = $2, reviewed_by = $3
			WHERE id = $4 AND status = 'pending'`,
			models.JoinRequestStatusApproved, now, reviewerID, req.ID)
		if err != nil {
			return fmt.Errorf("error approving join request: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAlreadyResponded
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO team_members (team_id, user_id, role)
			VALUES ($1, $2, $3)`,
			req.TeamID, req.UserID, models.TeamRoleMember)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrAlreadyMember
			}
			return fmt.Errorf("error adding team member: %w", err)
		}

		req.Status = models.JoinRequestStatusApproved
		req.ReviewedAt = &now
		req.ReviewedBy = &reviewerID
		if notification != nil {
			return insertNotifications(ctx, tx, []*models.Notification{notification})
		}
		return nil
	})
}

// RejectJoinRequest resolves a pending request without adding a membership
func (r *TeamRepository) RejectJoinRequest(ctx context.Context, req *models.TeamJoinRequest,
	reviewerID int64, notification *models.Notification) error {

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		now := time.Now()
		tag, err := tx.Exec(ctx, `
			UPDATE team_join_requests
			SET status = $1, reviewed_at = $2, reviewed_by = $3
			WHERE id = $4 AND status = 'pending'`,
			models.JoinRequestStatusRejected, now, reviewerID, req.ID)
		if err != nil {
			return fmt.Errorf("error rejecting join request: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAlreadyResponded
		}

		req.Status = models.JoinRequestStatusRejected
		req.ReviewedAt = &now
		req.ReviewedBy = &reviewerID
		if notification != nil {
			return insertNotifications(ctx, tx, []*models.Notification{notification})
		}
		return nil
	})
}

// CreateMessage appends a message to the team's discussion
func (r *TeamRepository) CreateMessage(ctx context.Context, msg *models.TeamMessage) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO team_messages (team_id, user_id, message, message_type, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		msg.TeamID, msg.UserID, msg.Message, msg.MessageType, msg.FileURL).
		Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating team message: %w", err)
	}
	return nil
}

// GetMessage retrieves a message by ID
func (r *TeamRepository) GetMessage(ctx context.Context, id int64) (*models.TeamMessage, error) {
	msg := &models.TeamMessage{}
	err := r.db.QueryRow(ctx, `
		SELECT id, team_id, user_id, message, message_type, file_url, is_deleted, deleted_by, created_at, updated_at
		FROM team_messages
		WHERE id = $1`,
		id).Scan(&msg.ID, &msg.TeamID, &msg.UserID, &msg.Message, &msg.MessageType,
		&msg.FileURL, &msg.IsDeleted, &msg.DeletedBy, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching team message: %w", err)
	}
	return msg, nil
}

// ListMessages returns the team's messages with their senders, oldest first.
// Soft-deleted messages are included; presentation decides how to render them.
func (r *TeamRepository) ListMessages(ctx context.Context, teamID int64, limit, offset int) ([]*models.TeamMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.team_id, m.user_id, m.message, m.message_type, m.file_url,
			m.is_deleted, m.deleted_by, m.created_at, m.updated_at,
			u.id, u.username, u.email, u.full_name
		FROM team_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.created_at ASC
		LIMIT $2 OFFSET $3`,
		teamID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing team messages: %w", err)
	}
	defer rows.Close()

	var msgs []*models.TeamMessage
	for rows.Next() {
		msg := &models.TeamMessage{Sender: &models.User{}}
		err := rows.Scan(&msg.ID, &msg.TeamID, &msg.UserID, &msg.Message, &msg.MessageType,
			&msg.FileURL, &msg.IsDeleted, &msg.DeletedBy, &msg.CreatedAt, &msg.UpdatedAt,
			&msg.Sender.ID, &msg.Sender.Username, &msg.Sender.Email, &msg.Sender.FullName)
		if err != nil {
			return nil, fmt.Errorf("error scanning team message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// SoftDeleteMessage hides a message and records who removed it
func (r *TeamRepository) SoftDeleteMessage(ctx context.Context, messageID, deletedBy int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE team_messages
		SET is_deleted = TRUE, deleted_by = $1, updated_at = NOW()
		WHERE id = $2`,
		deletedBy, messageID)
	if err != nil {
		return fmt.Errorf("error deleting team message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
