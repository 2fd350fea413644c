package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/rs/zerolog"
)

// flushEvery controls how often streamed exports are flushed to the client
const flushEvery = 100

// exportService is the concrete implementation of ExportService
type exportService struct {
	repo repository.CommentRepository
	log  zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repo repository.CommentRepository, log zerolog.Logger) *exportService {
	return &exportService{
		repo: repo,
		log:  log.With().Str("service", "export").Logger(),
	}
}

// StreamComments streams comments newest first in the specified format
func (s *exportService) StreamComments(ctx context.Context, w http.ResponseWriter, format string, status *models.Status) error {
	event := s.log.Info().Str("format", format)
	if status != nil {
		event = event.Str("status", string(*status))
	}
	event.Msg("Starting comments export")

	switch format {
	case "ndjson":
		return s.streamNDJSON(ctx, w, status)
	case "json":
		return s.streamJSON(ctx, w, status)
	case "csv":
		return s.streamCSV(ctx, w, status)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter, status *models.Status) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=comments.ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repo.StreamAll(ctx, status, func(comment *models.Comment) error {
		data, err := json.Marshal(comment)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		if count%flushEvery == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Comments export completed")
	return err
}

func (s *exportService) streamJSON(ctx context.Context, w http.ResponseWriter, status *models.Status) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=comments.json")

	w.Write([]byte("["))
	first := true

	err := s.repo.StreamAll(ctx, status, func(comment *models.Comment) error {
		if !first {
			w.Write([]byte(","))
		}
		first = false

		data, err := json.Marshal(comment)
		if err != nil {
			return err
		}
		w.Write(data)
		return nil
	})

	w.Write([]byte("]"))
	return err
}

func (s *exportService) streamCSV(ctx context.Context, w http.ResponseWriter, status *models.Status) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=comments.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"id", "username", "content", "status", "predicted_label", "confidence", "created_at"})

	return s.repo.StreamAll(ctx, status, func(c *models.Comment) error {
		label, confidence := "", ""
		if c.PredictedLabel != nil {
			label = *c.PredictedLabel
		}
		if c.Confidence != nil {
			confidence = strconv.FormatFloat(*c.Confidence, 'f', -1, 64)
		}
		return writer.Write([]string{
			c.ID, c.Username, c.Content, string(c.Status), label, confidence,
			c.CreatedAt.Format(time.RFC3339Nano),
		})
	})
}
