package repository

import (
	"context"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

// CommentRepository defines the interface for comment data operations.
// Lookups that find no row return a nil comment and a nil error.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	BatchInsert(ctx context.Context, comments []*models.Comment) (int, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Comment, int, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
	StreamAll(ctx context.Context, status *models.Status, callback func(*models.Comment) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(db),
	}
}
