package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/comment-moderation-api/internal/models"
)

func TestSeed(t *testing.T) {
	h := newTestHarness(t, "normal", 0.9)

	input := strings.Join([]string{
		`{"id":"550e8400-e29b-41d4-a716-446655440000","username":"user1","content":"Hello everyone","status":"approved","predicted_label":"normal","confidence":0.97,"created_at":"2024-01-01T00:00:00Z"}`,
		`{"username":"spammer","content":"free spam","status":"pending","predicted_label":"spam","confidence":0.88}`,
		``,
		`{"username":"user3","content":"no label","status":"pending"}`,
		`{not json}`,
		`{"username":"","content":"x","status":"rejected","predicted_label":"offensive","confidence":0.7}`,
	}, "\n")

	result, err := h.services.Seed.Seed(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	if result.Total != 5 {
		t.Errorf("Expected 5 records, got %d", result.Total)
	}
	if result.Inserted != 2 {
		t.Errorf("Expected 2 inserted, got %d", result.Inserted)
	}
	if result.Failed != 3 {
		t.Errorf("Expected 3 failed, got %d", result.Failed)
	}
	if len(h.commentRepo.Comments) != 2 {
		t.Errorf("Expected 2 stored comments, got %d", len(h.commentRepo.Comments))
	}
	for _, c := range h.commentRepo.Comments {
		if c.PredictedLabel == nil || c.Confidence == nil {
			t.Errorf("Seeded comment %s stored without classification", c.ID)
		}
	}

	stored := h.commentRepo.Comments["550e8400-e29b-41d4-a716-446655440000"]
	if stored == nil || stored.Status != models.StatusApproved || stored.CreatedAt.Year() != 2024 {
		t.Errorf("Unexpected seeded comment: %+v", stored)
	}

	lines := map[int]bool{}
	for _, e := range result.Errors {
		lines[e.Line] = true
	}
	for _, want := range []int{4, 5, 6} {
		if !lines[want] {
			t.Errorf("Expected an error reported for line %d, got %+v", want, result.Errors)
		}
	}
}

func TestSeed_Batches(t *testing.T) {
	h := newTestHarness(t, "normal", 0.9)

	var sb strings.Builder
	for i := 0; i < 2500; i++ {
		fmt.Fprintf(&sb, `{"username":"u%d","content":"c%d","status":"approved","predicted_label":"normal","confidence":0.9}`+"\n", i, i)
	}

	result, err := h.services.Seed.Seed(context.Background(), strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if result.Inserted != 2500 {
		t.Errorf("Expected 2500 inserted, got %d", result.Inserted)
	}
	if h.commentRepo.BatchInsertCalls != 3 {
		t.Errorf("Expected 3 batch inserts, got %d", h.commentRepo.BatchInsertCalls)
	}
}

func TestSeed_InsertError(t *testing.T) {
	h := newTestHarness(t, "normal", 0.9)
	h.commentRepo.InsertError = errors.New("copy failed")

	input := `{"username":"u","content":"c","status":"approved","predicted_label":"normal","confidence":0.9}`
	if _, err := h.services.Seed.Seed(context.Background(), strings.NewReader(input)); err == nil {
		t.Error("Expected error when batch insert fails")
	}
}
