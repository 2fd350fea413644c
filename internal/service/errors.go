package service

import (
	"errors"
	"strings"

	"github.com/comment-moderation-api/internal/validation"
)

var (
	// ErrNotFound is returned when the target comment does not exist
	ErrNotFound = errors.New("comment not found")
	// ErrInvalidID is returned for identities that are not well-formed
	ErrInvalidID = errors.New("invalid comment id")
)

// ValidationError reports input that was rejected before any external call
type ValidationError struct {
	Errors []validation.ValidationError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func newValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Errors: []validation.ValidationError{{Field: field, Message: message, Value: value}}}
}
