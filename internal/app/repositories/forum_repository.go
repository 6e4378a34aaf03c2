package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/db"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
	"github.com/selimd/campuslink/internal/pkg/dberrors"
)

// ForumRepository handles forum categories, posts, comments and votes.
// Vote writes pair the vote row change with the denormalized counter update
// in one transaction.
type ForumRepository struct {
	db   *pgxpool.Pool
	psql sq.StatementBuilderType
}

// NewForumRepository creates a new ForumRepository
func NewForumRepository(db *pgxpool.Pool) *ForumRepository {
	return &ForumRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListCategories returns all forum categories ordered by name
func (r *ForumRepository) ListCategories(ctx context.Context) ([]*models.ForumCategory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, icon, color, created_at
		FROM forum_categories
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*models.ForumCategory
	for rows.Next() {
		c := &models.ForumCategory{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetCategoryByID retrieves a forum category
func (r *ForumRepository) GetCategoryByID(ctx context.Context, id int64) (*models.ForumCategory, error) {
	c := &models.ForumCategory{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, icon, color, created_at
		FROM forum_categories
		WHERE id = $1`,
		id).Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching category: %w", err)
	}
	return c, nil
}

// CreateCategory inserts a forum category. Duplicate names are a conflict.
func (r *ForumRepository) CreateCategory(ctx context.Context, cat *models.ForumCategory) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO forum_categories (name, description, icon, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		cat.Name, cat.Description, cat.Icon, cat.Color).
		Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("error creating category: %w", err)
	}
	return nil
}

// CreatePost inserts a forum post
func (r *ForumRepository) CreatePost(ctx context.Context, post *models.ForumPost) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO forum_posts (title, content, tags, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		post.Title, post.Content, post.Tags, post.AuthorID, post.CategoryID).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating post: %w", err)
	}
	return nil
}

const postColumns = `p.id, p.title, p.content, p.tags, p.is_pinned, p.is_solved, p.views,
	p.upvotes, p.downvotes, p.author_id, p.category_id, p.created_at, p.updated_at`

func scanPostWithAuthor(row pgx.Row) (*models.ForumPost, error) {
	p := &models.ForumPost{Author: &models.User{}, Category: &models.ForumCategory{}}
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Tags, &p.IsPinned, &p.IsSolved, &p.Views,
		&p.Upvotes, &p.Downvotes, &p.AuthorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Username, &p.Author.FullName,
		&p.Category.ID, &p.Category.Name, &p.Category.Color)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPostByID retrieves a post with its author and category
func (r *ForumRepository) GetPostByID(ctx context.Context, id int64) (*models.ForumPost, error) {
	post, err := scanPostWithAuthor(r.db.QueryRow(ctx, `
		SELECT `+postColumns+`,
			u.id, u.username, u.full_name,
			c.id, c.name, c.color
		FROM forum_posts p
		JOIN users u ON u.id = p.author_id
		JOIN forum_categories c ON c.id = p.category_id
		WHERE p.id = $1`,
		id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching post: %w", err)
	}
	return post, nil
}

// ListPosts returns posts with authors and categories, pinned first then
// newest, optionally filtered by category, paginated
func (r *ForumRepository) ListPosts(ctx context.Context, categoryID *int64, limit, offset int) ([]*models.ForumPost, int, error) {
	countBuilder := r.psql.Select("COUNT(*)").From("forum_posts p")
	builder := r.psql.
		Select("p.id", "p.title", "p.content", "p.tags", "p.is_pinned", "p.is_solved", "p.views",
			"p.upvotes", "p.downvotes", "p.author_id", "p.category_id", "p.created_at", "p.updated_at",
			"u.id", "u.username", "u.full_name",
			"c.id", "c.name", "c.color").
		From("forum_posts p").
		Join("users u ON u.id = p.author_id").
		Join("forum_categories c ON c.id = p.category_id").
		OrderBy("p.is_pinned DESC", "p.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if categoryID != nil {
		builder = builder.Where(sq.Eq{"p.category_id": *categoryID})
		countBuilder = countBuilder.Where(sq.Eq{"p.category_id": *categoryID})
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building post count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building post query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.ForumPost
	for rows.Next() {
		p, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// IncrementViews bumps the view counter of a post
func (r *ForumRepository) IncrementViews(ctx context.Context, postID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE forum_posts SET views = views + 1 WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("error incrementing views: %w", err)
	}
	return nil
}

// CreateComment inserts a comment (or a reply when ParentID is set)
func (r *ForumRepository) CreateComment(ctx context.Context, comment *models.ForumComment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO forum_comments (content, post_id, author_id, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		comment.Content, comment.PostID, comment.AuthorID, comment.ParentID).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// GetCommentByID retrieves a comment
func (r *ForumRepository) GetCommentByID(ctx context.Context, id int64) (*models.ForumComment, error) {
	c := &models.ForumComment{}
	err := r.db.QueryRow(ctx, `
		SELECT id, content, is_accepted, upvotes, downvotes, post_id, author_id, parent_id, created_at
		FROM forum_comments
		WHERE id = $1`,
		id).Scan(&c.ID, &c.Content, &c.IsAccepted, &c.Upvotes, &c.Downvotes,
		&c.PostID, &c.AuthorID, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching comment: %w", err)
	}
	return c, nil
}

// ListCommentsByPost returns all comments of a post with authors, oldest
// first. The reply tree is rebuilt by the service.
func (r *ForumRepository) ListCommentsByPost(ctx context.Context, postID int64) ([]*models.ForumComment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.content, c.is_accepted, c.upvotes, c.downvotes, c.post_id, c.author_id, c.parent_id, c.created_at,
			u.id, u.username, u.full_name
		FROM forum_comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC`,
		postID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.ForumComment
	for rows.Next() {
		c := &models.ForumComment{Author: &models.User{}}
		err := rows.Scan(&c.ID, &c.Content, &c.IsAccepted, &c.Upvotes, &c.Downvotes,
			&c.PostID, &c.AuthorID, &c.ParentID, &c.CreatedAt,
			&c.Author.ID, &c.Author.Username, &c.Author.FullName)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment; its votes and replies cascade
func (r *ForumRepository) DeleteComment(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM forum_comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// GetPostVote returns the user's vote on a post, or nil when none exists
func (r *ForumRepository) GetPostVote(ctx context.Context, userID, postID int64) (*models.ForumVote, error) {
	v := &models.ForumVote{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, post_id, vote_type, created_at
		FROM forum_votes
		WHERE user_id = $1 AND post_id = $2`,
		userID, postID).Scan(&v.ID, &v.UserID, &v.PostID, &v.VoteType, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching vote: %w", err)
	}
	return v, nil
}

func voteCounterColumn(vote models.VoteType) string {
	if vote == models.VoteTypeUp {
		return "upvotes"
	}
	return "downvotes"
}

// InsertPostVote records a new vote and bumps the matching counter. A
// concurrent duplicate vote surfaces as a conflict.
func (r *ForumRepository) InsertPostVote(ctx context.Context, userID, postID int64, vote models.VoteType) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO forum_votes (user_id, post_id, vote_type)
			VALUES ($1, $2, $3)`,
			userID, postID, vote)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrConflict
			}
			return fmt.Errorf("error inserting vote: %w", err)
		}

		col := voteCounterColumn(vote)
		_, err = tx.Exec(ctx,
			`UPDATE forum_posts SET `+col+` = `+col+` + 1 WHERE id = $1`, postID)
		if err != nil {
			return fmt.Errorf("error updating vote counter: %w", err)
		}
		return nil
	})
}

// RemovePostVote deletes the user's vote and decrements the matching
// counter. Removing a vote that is already gone is a conflict.
func (r *ForumRepository) RemovePostVote(ctx context.Context, userID, postID int64, vote models.VoteType) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM forum_votes
			WHERE user_id = $1 AND post_id = $2 AND vote_type = $3`,
			userID, postID, vote)
		if err != nil {
			return fmt.Errorf("error removing vote: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}

		col := voteCounterColumn(vote)
		_, err = tx.Exec(ctx,
			`UPDATE forum_posts SET `+col+` = `+col+` - 1 WHERE id = $1`, postID)
		if err != nil {
			return fmt.Errorf("error updating vote counter: %w", err)
		}
		return nil
	})
}

// FlipPostVote switches the user's vote direction and moves one count
// between the two counters
func (r *ForumRepository) FlipPostVote(ctx context.Context, userID, postID int64, newVote models.VoteType) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE forum_votes
			SET vote_type = $1
			WHERE user_id = $2 AND post_id = $3 AND vote_type <> $1`,
			newVote, userID, postID)
		if err != nil {
			return fmt.Errorf("error flipping vote: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}

		gained := voteCounterColumn(newVote)
		lost := "downvotes"
		if gained == "downvotes" {
			lost = "upvotes"
		}
		_, err = tx.Exec(ctx,
			`UPDATE forum_posts SET `+gained+` = `+gained+` + 1, `+lost+` = `+lost+` - 1 WHERE id = $1`,
			postID)
		if err != nil {
			return fmt.Errorf("error updating vote counters: %w", err)
		}
		return nil
	})
}

// GetPostVoteCounts reads the current counters of a post
func (r *ForumRepository) GetPostVoteCounts(ctx context.Context, postID int64) (upvotes, downvotes int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT upvotes, downvotes FROM forum_posts WHERE id = $1`, postID).
		Scan(&upvotes, &downvotes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, apperrors.ErrResourceNotFound
		}
		return 0, 0, fmt.Errorf("error fetching vote counts: %w", err)
	}
	return upvotes, downvotes, nil
}

// GetCommentVote returns the user's vote on a comment, or nil when none exists
func (r *ForumRepository) GetCommentVote(ctx context.Context, userID, commentID int64) (*models.ForumCommentVote, error) {
	v := &models.ForumCommentVote{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, comment_id, vote_type, created_at
		FROM forum_comment_votes
		WHERE user_id = $1 AND comment_id = $2`,
		userID, commentID).Scan(&v.ID, &v.UserID, &v.CommentID, &v.VoteType, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching comment vote: %w", err)
	}
	return v, nil
}

// InsertCommentVote records a new comment vote and bumps the counter
func (r *ForumRepository) InsertCommentVote(ctx context.Context, userID, commentID int64, vote models.VoteType) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO forum_comment_votes (user_id, comment_id, vote_type)
			VALUES ($1, $2, $3)`,
			userID, commentID, vote)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrConflict
			}
			return fmt.Errorf("error inserting comment vote: %w", err)
		}

		col := voteCounterColumn(vote)
		_, err = tx.Exec(ctx,
			`UPDATE forum_comments SET `+col+` = `+col+` + 1 WHERE id = $1`, commentID)
		if err != nil {
			return fmt.Errorf("error updating comment vote counter: %w", err)
		}
		return nil
	})
}

// RemoveCommentVote deletes the user's comment vote and decrements the counter
func (r *ForumRepository) RemoveCommentVote(ctx context.Context, userID, commentID int64, vote models.VoteType) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM forum_comment_votes
			WHERE user_id = $1 AND comment_id = $2 AND vote_type = $3`,
			userID, commentID, vote)
		if err != nil {
			return fmt.Errorf("error removing comment vote: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}

		col := voteCounterColumn(vote)
		_, err = tx.Exec(ctx,
			`UPDATE forum_comments SET `+col+` = `+col+` - 1 WHERE id = $1`, commentID)
		if err != nil {
			return fmt.Errorf("error updating comment vote counter: %w", err)
		}
		return nil
	})
}

// FlipCommentVote switches the vote direction on a comment
func (r *ForumRepository) FlipCommentVote(ctx context.Context, userID, commentID int64, newVote models.VoteType) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE forum_comment_votes
			SET vote_type = $1
			WHERE user_id = $2 AND comment_id = $3 AND vote_type <> $1`,
			newVote, userID, commentID)
		if err != nil {
			return fmt.Errorf("error flipping comment vote: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}

		gained := voteCounterColumn(newVote)
		lost := "downvotes"
		if gained == "downvotes" {
			lost = "upvotes"
		}
		_, err = tx.Exec(ctx,
			`UPDATE forum_comments SET `+gained+` = `+gained+` + 1, `+lost+` = `+lost+` - 1 WHERE id = $1`,
			commentID)
		if err != nil {
			return fmt.Errorf("error updating comment vote counters: %w", err)
		}
		return nil
	})
}

// GetCommentVoteCounts reads the current counters of a comment
func (r *ForumRepository) GetCommentVoteCounts(ctx context.Context, commentID int64) (upvotes, downvotes int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT upvotes, downvotes FROM forum_comments WHERE id = $1`, commentID).
		Scan(&upvotes, &downvotes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, apperrors.ErrResourceNotFound
		}
		return 0, 0, fmt.Errorf("error fetching comment vote counts: %w", err)
	}
	return upvotes, downvotes, nil
}

// ListTrendingPosts returns the most upvoted recent posts for the dashboard
func (r *ForumRepository) ListTrendingPosts(ctx context.Context, limit int) ([]*models.ForumPost, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+`,
			u.id, u.username, u.full_name,
			c.id, c.name, c.color
		FROM forum_posts p
		JOIN users u ON u.id = p.author_id
		JOIN forum_categories c ON c.id = p.category_id
		ORDER BY p.upvotes DESC, p.created_at DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("error listing trending posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.ForumPost
	for rows.Next() {
		p, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
