package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
	"github.com/selimd/campuslink/internal/pkg/dberrors"
)

// AnnouncementRepository handles announcement and reaction persistence
type AnnouncementRepository struct {
	db   *pgxpool.Pool
	psql sq.StatementBuilderType
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts a new announcement
func (r *AnnouncementRepository) Create(ctx context.Context, ann *models.Announcement) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO announcements (title, content, category, priority, is_pinned, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		ann.Title, ann.Content, ann.Category, ann.Priority, ann.IsPinned, ann.AuthorID).
		Scan(&ann.ID, &ann.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating announcement: %w", err)
	}
	return nil
}

// GetByID retrieves an announcement with its author
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	ann := &models.Announcement{Author: &models.User{}}
	err := r.db.QueryRow(ctx, `
		SELECT a.id, a.title, a.content, a.category, a.priority, a.is_pinned, a.author_id, a.created_at,
			u.id, u.username, u.full_name
		FROM announcements a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = $1`,
		id).Scan(&ann.ID, &ann.Title, &ann.Content, &ann.Category, &ann.Priority,
		&ann.IsPinned, &ann.AuthorID, &ann.CreatedAt,
		&ann.Author.ID, &ann.Author.Username, &ann.Author.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching announcement: %w", err)
	}
	return ann, nil
}

// List returns announcements with authors, pinned first then newest,
// optionally filtered by category, paginated
func (r *AnnouncementRepository) List(ctx context.Context, category *string, limit, offset int) ([]*models.Announcement, int, error) {
	countBuilder := r.psql.Select("COUNT(*)").From("announcements")
	listBuilder := r.psql.
		Select("a.id", "a.title", "a.content", "a.category", "a.priority", "a.is_pinned",
			"a.author_id", "a.created_at", "u.id", "u.username", "u.full_name").
		From("announcements a").
		Join("users u ON u.id = a.author_id").
		OrderBy("a.is_pinned DESC", "a.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if category != nil && *category != "" {
		countBuilder = countBuilder.Where(sq.Eq{"category": *category})
		listBuilder = listBuilder.Where(sq.Eq{"a.category": *category})
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building announcement count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting announcements: %w", err)
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building announcement query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing announcements: %w", err)
	}
	defer rows.Close()

	var anns []*models.Announcement
	for rows.Next() {
		ann := &models.Announcement{Author: &models.User{}}
		err := rows.Scan(&ann.ID, &ann.Title, &ann.Content, &ann.Category, &ann.Priority,
			&ann.IsPinned, &ann.AuthorID, &ann.CreatedAt,
			&ann.Author.ID, &ann.Author.Username, &ann.Author.FullName)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning announcement: %w", err)
		}
		anns = append(anns, ann)
	}
	return anns, total, rows.Err()
}

// ListRecent returns the newest announcements for the dashboard
func (r *AnnouncementRepository) ListRecent(ctx context.Context, limit int) ([]*models.Announcement, error) {
	anns, _, err := r.List(ctx, nil, limit, 0)
	return anns, err
}

// DistinctCategories returns the categories currently in use
func (r *AnnouncementRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM announcements ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("error listing announcement categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Delete removes an announcement; reactions cascade
func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// GetReaction returns the user's reaction to an announcement, or nil
func (r *AnnouncementRepository) GetReaction(ctx context.Context, userID, announcementID int64) (*models.AnnouncementReaction, error) {
	reaction := &models.AnnouncementReaction{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, announcement_id, reaction_type, created_at
		FROM announcement_reactions
		WHERE user_id = $1 AND announcement_id = $2`,
		userID, announcementID).
		Scan(&reaction.ID, &reaction.UserID, &reaction.AnnouncementID, &reaction.ReactionType, &reaction.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching reaction: %w", err)
	}
	return reaction, nil
}

// InsertReaction records a new reaction. One reaction per (user,
// announcement); a racing duplicate is a conflict.
func (r *AnnouncementRepository) InsertReaction(ctx context.Context, reaction *models.AnnouncementReaction) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO announcement_reactions (user_id, announcement_id, reaction_type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		reaction.UserID, reaction.AnnouncementID, reaction.ReactionType).
		Scan(&reaction.ID, &reaction.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("error inserting reaction: %w", err)
	}
	return nil
}

// UpdateReaction changes the type of an existing reaction
func (r *AnnouncementRepository) UpdateReaction(ctx context.Context, userID, announcementID int64, reactionType models.ReactionType) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE announcement_reactions
		SET reaction_type = $1
		WHERE user_id = $2 AND announcement_id = $3`,
		reactionType, userID, announcementID)
	if err != nil {
		return fmt.Errorf("error updating reaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// DeleteReaction removes the user's reaction
func (r *AnnouncementRepository) DeleteReaction(ctx context.Context, userID, announcementID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM announcement_reactions
		WHERE user_id = $1 AND announcement_id = $2`,
		userID, announcementID)
	if err != nil {
		return fmt.Errorf("error deleting reaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// ReactionCounts returns the number of reactions per type for an announcement
func (r *AnnouncementRepository) ReactionCounts(ctx context.Context, announcementID int64) (map[models.ReactionType]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT reaction_type, COUNT(*)
		FROM announcement_reactions
		WHERE announcement_id = $1
		GROUP BY reaction_type`,
		announcementID)
	if err != nil {
		return nil, fmt.Errorf("error counting reactions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ReactionType]int)
	for rows.Next() {
		var rt models.ReactionType
		var count int
		if err := rows.Scan(&rt, &count); err != nil {
			return nil, fmt.Errorf("error scanning reaction count: %w", err)
		}
		counts[rt] = count
	}
	return counts, rows.Err()
}

// ReactionCountsBatch returns per-type reaction counts for a set of announcements
func (r *AnnouncementRepository) ReactionCountsBatch(ctx context.Context, announcementIDs []int64) (map[int64]map[models.ReactionType]int, error) {
	counts := make(map[int64]map[models.ReactionType]int)
	if len(announcementIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT announcement_id, reaction_type, COUNT(*)
		FROM announcement_reactions
		WHERE announcement_id = ANY($1)
		GROUP BY announcement_id, reaction_type`,
		announcementIDs)
	if err != nil {
		return nil, fmt.Errorf("error counting reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var annID int64
		var rt models.ReactionType
		var count int
		if err := rows.Scan(&annID, &rt, &count); err != nil {
			return nil, fmt.Errorf("error scanning reaction count: %w", err)
		}
		if counts[annID] == nil {
			counts[annID] = make(map[models.ReactionType]int)
		}
		counts[annID][rt] = count
	}
	return counts, rows.Err()
}

// ReactionsByUser returns the user's reaction type per announcement for a
// set of announcements
func (r *AnnouncementRepository) ReactionsByUser(ctx context.Context, userID int64, announcementIDs []int64) (map[int64]models.ReactionType, error) {
	reactions := make(map[int64]models.ReactionType)
	if len(announcementIDs) == 0 {
		return reactions, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT announcement_id, reaction_type
		FROM announcement_reactions
		WHERE user_id = $1 AND announcement_id = ANY($2)`,
		userID, announcementIDs)
	if err != nil {
		return nil, fmt.Errorf("error fetching user reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var annID int64
		var rt models.ReactionType
		if err := rows.Scan(&annID, &rt); err != nil {
			return nil, fmt.Errorf("error scanning user reaction: %w", err)
		}
		reactions[annID] = rt
	}
	return reactions, rows.Err()
}
