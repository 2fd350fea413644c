package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const seedBatchSize = 1000

// SeedError is a rejected line of a seed file
type SeedError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// SeedResult summarizes a seed run
type SeedResult struct {
	Total    int         `json:"total"`
	Inserted int         `json:"inserted"`
	Failed   int         `json:"failed"`
	Errors   []SeedError `json:"errors,omitempty"`
}

// seedService is the concrete implementation of SeedService
type seedService struct {
	repo      repository.CommentRepository
	batchSize int
	log       zerolog.Logger
}

func newSeedService(repo repository.CommentRepository, log zerolog.Logger) *seedService {
	return &seedService{
		repo:      repo,
		batchSize: seedBatchSize,
		log:       log.With().Str("service", "seed").Logger(),
	}
}

// Seed reads NDJSON comment records and inserts the valid ones in batches.
// Invalid lines are reported and skipped. Every stored record carries its
// classification.
func (s *seedService) Seed(ctx context.Context, r io.Reader) (*SeedResult, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	validator := validation.NewValidator()
	result := &SeedResult{}
	batch := make([]*models.Comment, 0, s.batchSize)
	lineNum := 0
	start := time.Now()

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, err := s.repo.BatchInsert(ctx, batch)
		if err != nil {
			return fmt.Errorf("insert batch ending at line %d: %w", lineNum, err)
		}
		result.Inserted += inserted
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result.Total++

		if err := ctx.Err(); err != nil {
			return result, err
		}

		var rec models.CommentNDJSON
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, SeedError{Line: lineNum, Field: "json", Message: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}

		if errs := validator.ValidateSeed(&rec); len(errs) > 0 {
			result.Failed++
			for _, e := range errs {
				result.Errors = append(result.Errors, SeedError{Line: lineNum, Field: e.Field, Message: e.Message, Value: e.Value})
			}
			continue
		}

		batch = append(batch, convertNDJSONToComment(&rec))
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return result, err
	}
	if err := flush(); err != nil {
		return result, err
	}

	s.log.Info().
		Int("total", result.Total).
		Int("inserted", result.Inserted).
		Int("failed", result.Failed).
		Dur("duration", time.Since(start)).
		Msg("Seed completed")

	return result, nil
}

func convertNDJSONToComment(rec *models.CommentNDJSON) *models.Comment {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	} else {
		id, _ = validation.ParseID(id)
	}

	createdAt := time.Now().UTC()
	if rec.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, rec.CreatedAt); err == nil {
			createdAt = t.UTC()
		}
	}

	label := rec.PredictedLabel
	confidence := *rec.Confidence
	return &models.Comment{
		ID:             id,
		Username:       rec.Username,
		Content:        rec.Content,
		Status:         models.Status(rec.Status),
		PredictedLabel: &label,
		Confidence:     &confidence,
		CreatedAt:      createdAt,
	}
}
