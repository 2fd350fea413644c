package mocks

import (
	"context"
	"sync"

	"github.com/comment-moderation-api/internal/classifier"
)

// MockClassifier is a substitutable classifier stub
type MockClassifier struct {
	mu           sync.Mutex
	Result       *classifier.Result
	Err          error
	ClassifyFunc func(ctx context.Context, text string) (*classifier.Result, error)
	Texts        []string
}

// Verify interface compliance
var _ classifier.Classifier = (*MockClassifier)(nil)

// NewMockClassifier returns a stub answering with label and confidence
func NewMockClassifier(label string, confidence float64) *MockClassifier {
	return &MockClassifier{Result: &classifier.Result{Label: label, Confidence: confidence}}
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (*classifier.Result, error) {
	m.mu.Lock()
	m.Texts = append(m.Texts, text)
	fn, result, err := m.ClassifyFunc, m.Result, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	if err != nil {
		return nil, err
	}
	r := *result
	return &r, nil
}

// Calls returns how many times Classify was invoked
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Texts)
}
