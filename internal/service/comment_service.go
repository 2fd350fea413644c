package service

import (
	"context"
	"fmt"
	"time"

	"github.com/comment-moderation-api/internal/classifier"
	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repo       repository.CommentRepository
	classifier classifier.Classifier
	validator  *validation.Validator
	list       config.ListConfig
	now        func() time.Time
	log        zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(repo repository.CommentRepository, clf classifier.Classifier, list config.ListConfig, log zerolog.Logger) *commentService {
	return &commentService{
		repo:       repo,
		classifier: clf,
		validator:  validation.NewValidator(),
		list:       list,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log.With().Str("service", "comment").Logger(),
	}
}

// Submit validates, classifies and stores a new comment. Nothing is stored
// unless classification succeeded.
func (s *commentService) Submit(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
	if errs := s.validator.ValidateSubmission(req); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	result, err := s.classifier.Classify(ctx, req.Content)
	if err != nil {
		s.log.Error().Err(err).Str("username", req.Username).Msg("Classification failed, comment not created")
		return nil, fmt.Errorf("classify comment: %w", err)
	}

	label := result.Label
	confidence := result.Confidence
	comment := &models.Comment{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Content:        req.Content,
		Status:         result.Decision(),
		PredictedLabel: &label,
		Confidence:     &confidence,
		CreatedAt:      s.now(),
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist comment")
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("label", label).
		Float64("confidence", confidence).
		Str("status", string(comment.Status)).
		Msg("Comment created")

	return comment, nil
}

// List returns a page of comments, optionally filtered by exact status
func (s *commentService) List(ctx context.Context, status string, page, limit int) (*models.CommentPage, error) {
	filter := models.ListFilter{Page: page, Limit: limit}

	if status != "" {
		st, err := models.ParseStatus(status)
		if err != nil {
			return nil, newValidationError("status", "invalid status, must be one of: pending, approved, rejected", status)
		}
		filter.Status = &st
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = s.list.DefaultLimit
	}
	if filter.Limit > s.list.MaxLimit {
		filter.Limit = s.list.MaxLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Str("status", status).Msg("Failed to list comments")
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &models.CommentPage{
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Items: items,
	}, nil
}

// Get returns a single comment
func (s *commentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	id, ok := validation.ParseID(id)
	if !ok {
		return nil, ErrInvalidID
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("comment_id", id).Msg("Failed to get comment")
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	return comment, nil
}

// Moderate moves a comment to approved or rejected. The target is checked
// before the identity and before any lookup.
func (s *commentService) Moderate(ctx context.Context, id string, target string) (*models.Comment, error) {
	status, err := models.ParseModerationTarget(target)
	if err != nil {
		return nil, err
	}

	id, ok := validation.ParseID(id)
	if !ok {
		return nil, ErrInvalidID
	}

	comment, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.log.Error().Err(err).Str("comment_id", id).Msg("Failed to update comment status")
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if comment == nil {
		return nil, ErrNotFound
	}

	s.log.Info().
		Str("comment_id", id).
		Str("status", string(status)).
		Msg("Comment moderated")

	return comment, nil
}

// Delete permanently removes a comment
func (s *commentService) Delete(ctx context.Context, id string) error {
	id, ok := validation.ParseID(id)
	if !ok {
		return ErrInvalidID
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("comment_id", id).Msg("Failed to delete comment")
		return fmt.Errorf("delete comment: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.Info().Str("comment_id", id).Msg("Comment deleted")
	return nil
}

// Counts returns the number of comments per status
func (s *commentService) Counts(ctx context.Context) (map[models.Status]int, error) {
	return s.repo.CountByStatus(ctx)
}
