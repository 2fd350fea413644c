package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/comment-moderation-api/internal/models"
	"github.com/google/uuid"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validator normalizes and validates user-submitted comment fields
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// Normalize trims surrounding whitespace. The text is otherwise stored and
// classified exactly as submitted.
func (v *Validator) Normalize(s string) string {
	return strings.TrimSpace(s)
}

// ValidateSubmission normalizes a submission in place and reports every
// field that is empty or too long.
func (v *Validator) ValidateSubmission(req *models.CreateCommentRequest) []ValidationError {
	var errors []ValidationError

	req.Username = v.Normalize(req.Username)
	req.Content = v.Normalize(req.Content)

	// Validate username
	if req.Username == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "username is required"})
	} else if n := utf8.RuneCountInString(req.Username); n > models.MaxUsernameLength {
		errors = append(errors, ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("username exceeds maximum of %d characters", models.MaxUsernameLength),
			Value:   n,
		})
	}

	// Validate content
	if req.Content == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	} else if n := utf8.RuneCountInString(req.Content); n > models.MaxContentLength {
		errors = append(errors, ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("content exceeds maximum of %d characters", models.MaxContentLength),
			Value:   n,
		})
	}

	return errors
}

// ValidateSeed validates a pre-classified comment record from a seed file.
// Seeded records must carry a label and confidence like classified ones.
func (v *Validator) ValidateSeed(rec *models.CommentNDJSON) []ValidationError {
	req := models.CreateCommentRequest{Username: rec.Username, Content: rec.Content}
	errors := v.ValidateSubmission(&req)
	rec.Username, rec.Content = req.Username, req.Content

	if rec.ID != "" && !IsValidID(rec.ID) {
		errors = append(errors, ValidationError{Field: "id", Message: "invalid UUID format", Value: rec.ID})
	}

	if _, err := models.ParseStatus(rec.Status); err != nil {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "invalid status, must be one of: pending, approved, rejected",
			Value:   rec.Status,
		})
	}

	if rec.PredictedLabel == "" {
		errors = append(errors, ValidationError{Field: "predicted_label", Message: "predicted_label is required"})
	}

	if rec.Confidence == nil {
		errors = append(errors, ValidationError{Field: "confidence", Message: "confidence is required"})
	} else if *rec.Confidence < 0 || *rec.Confidence > 1 {
		errors = append(errors, ValidationError{Field: "confidence", Message: "confidence must be between 0 and 1", Value: *rec.Confidence})
	}

	if rec.CreatedAt != "" {
		if _, err := time.Parse(time.RFC3339, rec.CreatedAt); err != nil {
			errors = append(errors, ValidationError{Field: "created_at", Message: "invalid ISO 8601 date format", Value: rec.CreatedAt})
		}
	}

	return errors
}

// ParseID validates a comment identity and returns its canonical form
func ParseID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// IsValidID checks if a string is a well-formed comment identity
func IsValidID(s string) bool {
	_, ok := ParseID(s)
	return ok
}
