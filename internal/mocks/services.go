package mocks

import (
	"context"
	"net/http"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
)

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	SubmitFunc   func(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error)
	ListFunc     func(ctx context.Context, status string, page, limit int) (*models.CommentPage, error)
	GetFunc      func(ctx context.Context, id string) (*models.Comment, error)
	ModerateFunc func(ctx context.Context, id, target string) (*models.Comment, error)
	DeleteFunc   func(ctx context.Context, id string) error
	StatusCounts map[models.Status]int
	CountsErr    error
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{
		StatusCounts: map[models.Status]int{
			models.StatusPending:  0,
			models.StatusApproved: 0,
			models.StatusRejected: 0,
		},
	}
}

func (m *MockCommentService) Submit(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return &models.Comment{Username: req.Username, Content: req.Content, Status: models.StatusPending}, nil
}

func (m *MockCommentService) List(ctx context.Context, status string, page, limit int) (*models.CommentPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, page, limit)
	}
	return &models.CommentPage{Page: page, Limit: limit, Items: []*models.Comment{}}, nil
}

func (m *MockCommentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, service.ErrNotFound
}

func (m *MockCommentService) Moderate(ctx context.Context, id, target string) (*models.Comment, error) {
	if m.ModerateFunc != nil {
		return m.ModerateFunc(ctx, id, target)
	}
	return nil, service.ErrNotFound
}

func (m *MockCommentService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return service.ErrNotFound
}

func (m *MockCommentService) Counts(ctx context.Context) (map[models.Status]int, error) {
	return m.StatusCounts, m.CountsErr
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamCommentsFunc func(ctx context.Context, w http.ResponseWriter, format string, status *models.Status) error
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) StreamComments(ctx context.Context, w http.ResponseWriter, format string, status *models.Status) error {
	if m.StreamCommentsFunc != nil {
		return m.StreamCommentsFunc(ctx, w, format, status)
	}
	return nil
}
