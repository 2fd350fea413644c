package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

const commentColumns = `id, username, content, status, predicted_label, confidence, created_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	var label sql.NullString
	var confidence sql.NullFloat64

	err := row.Scan(
		&comment.ID, &comment.Username, &comment.Content, &comment.Status,
		&label, &confidence, &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if label.Valid {
		comment.PredictedLabel = &label.String
	}
	if confidence.Valid {
		comment.Confidence = &confidence.Float64
	}
	return &comment, nil
}

// statusClause returns the WHERE clause for an optional status filter
func statusClause(status *models.Status) (string, []interface{}) {
	if status == nil {
		return "", nil
	}
	return " WHERE status = $1", []interface{}{string(*status)}
}

// Create inserts a new comment. Classification fields and the initial
// status are written in the same statement.
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, username, content, status, predicted_label, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.Username, comment.Content, string(comment.Status),
		nullString(comment.PredictedLabel), nullFloat(comment.Confidence), comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// BatchInsert inserts multiple comments using PostgreSQL COPY
func (r *commentRepo) BatchInsert(ctx context.Context, comments []*models.Comment) (int, error) {
	if len(comments) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("comments",
		"id", "username", "content", "status", "predicted_label", "confidence", "created_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, c := range comments {
		_, err := stmt.ExecContext(ctx,
			c.ID, c.Username, c.Content, string(c.Status),
			nullString(c.PredictedLabel), nullFloat(c.Confidence), c.CreatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("copy comment %s: %w", c.ID, err)
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(comments), nil
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns one page of comments, newest first, together with the size of
// the whole filtered set. The count and the page are read concurrently.
func (r *commentRepo) List(ctx context.Context, filter models.ListFilter) ([]*models.Comment, int, error) {
	where, args := statusClause(filter.Status)

	var total int
	var items []*models.Comment

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := r.db.QueryRowContext(gctx, `SELECT COUNT(*) FROM comments`+where, args...).Scan(&total)
		if err != nil {
			return fmt.Errorf("count comments: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		n := len(args)
		query := fmt.Sprintf(`SELECT %s FROM comments%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			commentColumns, where, n+1, n+2)
		pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset())

		rows, err := r.db.QueryContext(gctx, query, pageArgs...)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		defer rows.Close()

		items = make([]*models.Comment, 0, filter.Limit)
		for rows.Next() {
			comment, err := scanComment(rows)
			if err != nil {
				return fmt.Errorf("scan comment: %w", err)
			}
			items = append(items, comment)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateStatus sets the status of a comment and returns the updated row
func (r *commentRepo) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Comment, error) {
	query := `UPDATE comments SET status = $1 WHERE id = $2 RETURNING ` + commentColumns

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, string(status), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update comment status: %w", err)
	}
	return comment, nil
}

// Delete removes a comment and reports whether a row was deleted
func (r *commentRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// CountByStatus returns the number of comments in each status
func (r *commentRepo) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM comments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int, len(models.Statuses))
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status models.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// StreamAll streams comments newest first for export
func (r *commentRepo) StreamAll(ctx context.Context, status *models.Status, callback func(*models.Comment) error) error {
	where, args := statusClause(status)
	query := `SELECT ` + commentColumns + ` FROM comments` + where + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return err
		}
		if err := callback(comment); err != nil {
			return err
		}
	}

	return rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
