package models

import (
	"errors"
	"math"
	"time"
)

// Status is the moderation state of a comment
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// SentinelLabel is the only classifier label that auto-approves a comment
const SentinelLabel = "normal"

// Field limits, counted in characters (runes) after trimming
const (
	MaxUsernameLength = 100
	MaxContentLength  = 2000
)

// ErrInvalidStatus is returned for status values outside the allowed set
var ErrInvalidStatus = errors.New("invalid status")

// Statuses lists every representable status in display order
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// Valid reports whether s is one of the enumerated statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ParseModerationTarget accepts only the statuses a moderator may set.
// Any source state may move to either target, including approved <-> rejected.
func ParseModerationTarget(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusApproved, StatusRejected:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// StatusForLabel maps a classifier label to the initial status of a comment.
// Only an exact match on SentinelLabel is approved.
func StatusForLabel(label string) Status {
	if label == SentinelLabel {
		return StatusApproved
	}
	return StatusPending
}

// Comment represents a user-submitted comment and its moderation state
type Comment struct {
	ID             string    `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Content        string    `json:"content" db:"content"`
	Status         Status    `json:"status" db:"status"`
	PredictedLabel *string   `json:"predicted_label" db:"predicted_label"`
	Confidence     *float64  `json:"confidence" db:"confidence"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CreateCommentRequest is the submission payload
type CreateCommentRequest struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// UpdateStatusRequest is the moderation payload
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListFilter selects a page of comments. A nil Status matches all statuses.
type ListFilter struct {
	Status *Status
	Page   int
	Limit  int
}

// Offset returns the row offset of the page. Pages too far out to address
// saturate at math.MaxInt so the offset never wraps negative.
func (f ListFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// CommentPage is the listing response
type CommentPage struct {
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Items []*Comment `json:"items"`
}

// CommentNDJSON represents a comment record from an NDJSON seed file
type CommentNDJSON struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Content        string   `json:"content"`
	Status         string   `json:"status"`
	PredictedLabel string   `json:"predicted_label"`
	Confidence     *float64 `json:"confidence"`
	CreatedAt      string   `json:"created_at"`
}
