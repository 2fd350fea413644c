package service

import (
	"context"
	"io"
	"net/http"

	"github.com/comment-moderation-api/internal/classifier"
	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/rs/zerolog"
)

// CommentService defines the comment lifecycle and moderation operations
type CommentService interface {
	Submit(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error)
	List(ctx context.Context, status string, page, limit int) (*models.CommentPage, error)
	Get(ctx context.Context, id string) (*models.Comment, error)
	Moderate(ctx context.Context, id string, target string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context) (map[models.Status]int, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamComments(ctx context.Context, w http.ResponseWriter, format string, status *models.Status) error
}

// SeedService loads pre-classified comments in bulk
type SeedService interface {
	Seed(ctx context.Context, r io.Reader) (*SeedResult, error)
}

// Services holds all service interfaces
type Services struct {
	Comment CommentService
	Export  ExportService
	Seed    SeedService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, clf classifier.Classifier, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Comment: newCommentService(repos.Comment, clf, cfg.List, log),
		Export:  newExportService(repos.Comment, log),
		Seed:    newSeedService(repos.Comment, log),
	}
}
