package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/repository"
)

// MockCommentRepository is an in-memory implementation of CommentRepository
type MockCommentRepository struct {
	mu               sync.Mutex
	Comments         map[string]*models.Comment
	InsertError      error
	ReadError        error
	UpdateError      error
	DeleteError      error
	CreateCalls      int
	UpdateCalls      int
	DeleteCalls      int
	BatchInsertFunc  func(ctx context.Context, comments []*models.Comment) (int, error)
	BatchInsertCalls int
}

// Verify interface compliance
var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
	}
}

// copyComment returns a detached copy so callers cannot mutate stored rows
func copyComment(c *models.Comment) *models.Comment {
	cp := *c
	if c.PredictedLabel != nil {
		label := *c.PredictedLabel
		cp.PredictedLabel = &label
	}
	if c.Confidence != nil {
		conf := *c.Confidence
		cp.Confidence = &conf
	}
	return &cp
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Comments[comment.ID] = copyComment(comment)
	return nil
}

func (m *MockCommentRepository) BatchInsert(ctx context.Context, comments []*models.Comment) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchInsertCalls++
	if m.BatchInsertFunc != nil {
		return m.BatchInsertFunc(ctx, comments)
	}
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, c := range comments {
		m.Comments[c.ID] = copyComment(c)
	}
	return len(comments), nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	return copyComment(c), nil
}

// sorted returns comments matching status, newest first with id as tie-break
func (m *MockCommentRepository) sorted(status *models.Status) []*models.Comment {
	out := make([]*models.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, copyComment(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *MockCommentRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Comment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadError != nil {
		return nil, 0, m.ReadError
	}

	all := m.sorted(filter.Status)
	start := filter.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (m *MockCommentRepository) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	c.Status = status
	return copyComment(c), nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteError != nil {
		return false, m.DeleteError
	}
	if _, ok := m.Comments[id]; !ok {
		return false, nil
	}
	delete(m.Comments, id)
	return true, nil
}

func (m *MockCommentRepository) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	counts := map[models.Status]int{}
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	for _, c := range m.Comments {
		counts[c.Status]++
	}
	return counts, nil
}

func (m *MockCommentRepository) StreamAll(ctx context.Context, status *models.Status, callback func(*models.Comment) error) error {
	m.mu.Lock()
	all := m.sorted(status)
	readErr := m.ReadError
	m.mu.Unlock()

	if readErr != nil {
		return readErr
	}
	for _, c := range all {
		if err := callback(c); err != nil {
			return err
		}
	}
	return nil
}
