package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
	"github.com/selimd/campuslink/internal/pkg/dberrors"
)

// EventRepository handles event and individual registration database operations
type EventRepository struct {
	db  *pgxpool.Pool
	psql sq.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const eventColumns = `id, title, description, event_type, start_date, end_date, venue, virtual_link,
	max_participants, min_team_size, max_team_size, registration_deadline, rules, prizes,
	is_active, creator_id, created_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventType, &e.StartDate, &e.EndDate,
		&e.Venue, &e.VirtualLink, &e.MaxParticipants, &e.MinTeamSize, &e.MaxTeamSize,
		&e.RegistrationDeadline, &e.Rules, &e.Prizes, &e.IsActive, &e.CreatorID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new event and sets its generated ID
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO events (title, description, event_type, start_date, end_date, venue, virtual_link,
			max_participants, min_team_size, max_team_size, registration_deadline, rules, prizes,
			is_active, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`,
		event.Title, event.Description, event.EventType, event.StartDate, event.EndDate,
		event.Venue, event.VirtualLink, event.MaxParticipants, event.MinTeamSize, event.MaxTeamSize,
		event.RegistrationDeadline, event.Rules, event.Prizes, event.IsActive, event.CreatorID).
		Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error fetching event: %w", err)
	}
	return event, nil
}

// List returns active events, optionally filtered by event type,
// ordered by start date
func (r *EventRepository) List(ctx context.Context, eventType *string) ([]*models.Event, error) {
	builder := r.psql.
		Select("id", "title", "description", "event_type", "start_date", "end_date",
			"venue", "virtual_link", "max_participants", "min_team_size", "max_team_size",
			"registration_deadline", "rules", "prizes", "is_active", "creator_id", "created_at").
		From("events").
		Where(sq.Eq{"is_active": true}).
		OrderBy("start_date ASC")

	if eventType != nil && *eventType != "" {
		builder = builder.Where(sq.Eq{"event_type": *eventType})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building event query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListUpcoming returns the next active events starting after the given time
func (r *EventRepository) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]*models.Event, error) {
	query, args, err := r.psql.
		Select(eventColumns).
		From("events").
		Where(sq.Eq{"is_active": true}).
		Where(sq.Gt{"start_date": after}).
		OrderBy("start_date ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building event query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing upcoming events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Deactivate hides an event from listings without removing its history
func (r *EventRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deactivating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// CreateRegistration inserts an individual registration. A second
// registration by the same user for the same event is a conflict.
func (r *EventRepository) CreateRegistration(ctx context.Context, reg *models.EventRegistration) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO event_registrations (user_id, event_id, team_name, additional_info)
		VALUES ($1, $2, $3, $4)
		RETURNING id, registered_at`,
		reg.UserID, reg.EventID, reg.TeamName, reg.AdditionalInfo).
		Scan(&reg.ID, &reg.RegisteredAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyRegistered
		}
		return fmt.Errorf("error creating registration: %w", err)
	}
	return nil
}

// GetRegistration retrieves a user's individual registration for an event
func (r *EventRepository) GetRegistration(ctx context.Context, eventID, userID int64) (*models.EventRegistration, error) {
	reg := &models.EventRegistration{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, event_id, team_name, additional_info, registered_at
		FROM event_registrations
		WHERE event_id = $1 AND user_id = $2`,
		eventID, userID).
		Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.TeamName, &reg.AdditionalInfo, &reg.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching registration: %w", err)
	}
	return reg, nil
}

// DeleteRegistration removes a user's individual registration for an event
func (r *EventRepository) DeleteRegistration(ctx context.Context, eventID, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`,
		eventID, userID)
	if err != nil {
		return fmt.Errorf("error deleting registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// ListRegistrationsByEvent returns all individual registrations for an event
// with their users attached
func (r *EventRepository) ListRegistrationsByEvent(ctx context.Context, eventID int64) ([]*models.EventRegistration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.user_id, r.event_id, r.team_name, r.additional_info, r.registered_at,
			u.id, u.username, u.email, u.full_name
		FROM event_registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.registered_at ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.EventRegistration
	for rows.Next() {
		reg := &models.EventRegistration{User: &models.User{}}
		err := rows.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.TeamName, &reg.AdditionalInfo,
			&reg.RegisteredAt, &reg.User.ID, &reg.User.Username, &reg.User.Email, &reg.User.FullName)
		if err != nil {
			return nil, fmt.Errorf("error scanning registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// CountRegistrations returns the number of individual registrations for an event
func (r *EventRepository) CountRegistrations(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return count, nil
}
