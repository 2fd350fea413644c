package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/comment-moderation-api/internal/api"
	"github.com/comment-moderation-api/internal/classifier"
	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/mocks"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const testID = "550e8400-e29b-41d4-a716-446655440000"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8000", AllowOrigin: "*"},
		List:   config.ListConfig{DefaultLimit: 50, MaxLimit: 200},
	}
}

func setupTestRouter() (*gin.Engine, *mocks.MockCommentService, *mocks.MockExportService) {
	gin.SetMode(gin.TestMode)

	mockComment := mocks.NewMockCommentService()
	mockExport := mocks.NewMockExportService()

	services := &service.Services{
		Comment: mockComment,
		Export:  mockExport,
	}

	router := api.NewRouter(services, nil, testConfig(), zerolog.Nop())
	return router, mockComment, mockExport
}

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(ctx context.Context) error { return f.err }

func doRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleComment(status models.Status, label string, conf float64) *models.Comment {
	return &models.Comment{
		ID:             testID,
		Username:       "user1",
		Content:        "Hello everyone",
		Status:         status,
		PredictedLabel: &label,
		Confidence:     &conf,
		CreatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, "GET", "/health", nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "comment-moderation-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	services := &service.Services{Comment: mocks.NewMockCommentService(), Export: mocks.NewMockExportService()}
	router := api.NewRouter(services, fakeHealth{err: errors.New("connection refused")}, testConfig(), zerolog.Nop())

	w := doRequest(router, "GET", "/health", nil)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.StatusCounts[models.StatusPending] = 3
	mockComment.StatusCounts[models.StatusApproved] = 10
	mockComment.StatusCounts[models.StatusRejected] = 2

	w := doRequest(router, "GET", "/metrics", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Comments struct {
			Total    int            `json:"total"`
			ByStatus map[string]int `json:"by_status"`
		} `json:"comments"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response.Comments.Total != 15 {
		t.Errorf("Expected total 15, got %d", response.Comments.Total)
	}
	if response.Comments.ByStatus["pending"] != 3 {
		t.Errorf("Expected 3 pending, got %d", response.Comments.ByStatus["pending"])
	}
}

func TestCreateComment(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.SubmitFunc = func(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
		return sampleComment(models.StatusApproved, "normal", 0.97), nil
	}

	w := doRequest(router, "POST", "/v1/comments", map[string]string{"username": "user1", "content": "Hello everyone"})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "approved" {
		t.Errorf("Expected status approved, got %v", response["status"])
	}
	if response["predicted_label"] != "normal" {
		t.Errorf("Expected predicted_label normal, got %v", response["predicted_label"])
	}
	if response["id"] != testID {
		t.Errorf("Expected id %s, got %v", testID, response["id"])
	}
}

func TestCreateComment_MalformedBody(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	called := false
	mockComment.SubmitFunc = func(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
		called = true
		return nil, nil
	}

	w := doRequest(router, "POST", "/v1/comments", `{"username": `)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if called {
		t.Error("Submit should not be called for a malformed body")
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &service.ValidationError{}, http.StatusBadRequest},
		{"invalid id", service.ErrInvalidID, http.StatusBadRequest},
		{"invalid target", models.ErrInvalidStatus, http.StatusBadRequest},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"classifier unavailable", fmt.Errorf("classify comment: %w", classifier.ErrUnavailable), http.StatusServiceUnavailable},
		{"classifier contract", fmt.Errorf("classify comment: %w", classifier.ErrInvalidResponse), http.StatusBadGateway},
		{"persistence", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockComment, _ := setupTestRouter()
			mockComment.SubmitFunc = func(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
				return nil, tt.err
			}

			w := doRequest(router, "POST", "/v1/comments", map[string]string{"username": "u", "content": "c"})

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Expected JSON error body: %v", err)
			}
			if response["error"] == nil || response["error"] == "" {
				t.Error("Expected error message in response")
			}
		})
	}
}

func TestListComments_QueryParams(t *testing.T) {
	router, mockComment, _ := setupTestRouter()

	var gotStatus string
	var gotPage, gotLimit int
	mockComment.ListFunc = func(ctx context.Context, status string, page, limit int) (*models.CommentPage, error) {
		gotStatus, gotPage, gotLimit = status, page, limit
		return &models.CommentPage{Total: 1, Page: 2, Limit: 10, Items: []*models.Comment{sampleComment(models.StatusPending, "spam", 0.9)}}, nil
	}

	w := doRequest(router, "GET", "/v1/comments?status=pending&page=2&limit=10", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotStatus != "pending" || gotPage != 2 || gotLimit != 10 {
		t.Errorf("Unexpected arguments: status=%q page=%d limit=%d", gotStatus, gotPage, gotLimit)
	}

	var page models.CommentPage
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.Total != 1 || len(page.Items) != 1 {
		t.Errorf("Unexpected page: %+v", page)
	}
}

func TestListComments_NonIntegerParams(t *testing.T) {
	router, _, _ := setupTestRouter()

	for _, path := range []string{"/v1/comments?page=abc", "/v1/comments?limit=1.5"} {
		w := doRequest(router, "GET", path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
}

func TestListComments_HugePage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := mocks.NewMockCommentRepository()
	services := service.NewServices(&repository.Repositories{Comment: repo}, mocks.NewMockClassifier("normal", 0.9), testConfig(), zerolog.Nop())
	router := api.NewRouter(services, nil, testConfig(), zerolog.Nop())

	doRequest(router, "POST", "/v1/comments", map[string]string{"username": "user1", "content": "hello"})

	w := doRequest(router, "GET", "/v1/comments?page=9223372036854775807&limit=50", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var page models.CommentPage
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.Total != 1 || len(page.Items) != 0 {
		t.Errorf("Expected empty page with total 1, got total=%d items=%d", page.Total, len(page.Items))
	}
}

func TestGetComment_NotFound(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, "GET", "/v1/comments/"+testID, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestModerateComment_PutAndPatch(t *testing.T) {
	router, mockComment, _ := setupTestRouter()

	var targets []string
	mockComment.ModerateFunc = func(ctx context.Context, id, target string) (*models.Comment, error) {
		targets = append(targets, target)
		return sampleComment(models.Status(target), "spam", 0.88), nil
	}

	for _, method := range []string{"PUT", "PATCH"} {
		w := doRequest(router, method, "/v1/comments/"+testID, map[string]string{"status": "rejected"})
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", method, w.Code)
		}
	}

	if len(targets) != 2 || targets[0] != "rejected" || targets[1] != "rejected" {
		t.Errorf("Expected two rejected moderations, got %v", targets)
	}
}

func TestDeleteComment(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.DeleteFunc = func(ctx context.Context, id string) error {
		if id != testID {
			return service.ErrNotFound
		}
		return nil
	}

	w := doRequest(router, "DELETE", "/v1/comments/"+testID, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["detail"] != "deleted" {
		t.Errorf("Expected detail 'deleted', got %v", response)
	}
}

func TestExportStream_ValidationErrors(t *testing.T) {
	router, _, mockExport := setupTestRouter()
	called := false
	mockExport.StreamCommentsFunc = func(ctx context.Context, w http.ResponseWriter, format string, status *models.Status) error {
		called = true
		return nil
	}

	for _, path := range []string{"/v1/exports/comments?format=xml", "/v1/exports/comments?status=archived"} {
		w := doRequest(router, "GET", path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
	if called {
		t.Error("Export should not start for invalid parameters")
	}
}

func TestExportStream_Defaults(t *testing.T) {
	router, _, mockExport := setupTestRouter()

	var gotFormat string
	var gotStatus *models.Status
	mockExport.StreamCommentsFunc = func(ctx context.Context, w http.ResponseWriter, format string, status *models.Status) error {
		gotFormat, gotStatus = format, status
		return nil
	}

	doRequest(router, "GET", "/v1/exports/comments", nil)
	if gotFormat != "ndjson" || gotStatus != nil {
		t.Errorf("Expected ndjson with no filter, got %q %v", gotFormat, gotStatus)
	}

	doRequest(router, "GET", "/v1/exports/comments?format=csv&status=pending", nil)
	if gotFormat != "csv" || gotStatus == nil || *gotStatus != models.StatusPending {
		t.Errorf("Expected csv filtered by pending, got %q %v", gotFormat, gotStatus)
	}
}

func TestCORSHeaders(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, "OPTIONS", "/v1/comments", nil)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS Allow-Origin header")
	}
	if w.Header().Get("Access-Control-Allow-Methods") != "GET, POST, PUT, PATCH, DELETE, OPTIONS" {
		t.Errorf("Unexpected Allow-Methods: %s", w.Header().Get("Access-Control-Allow-Methods"))
	}
}

// TestModerationFlow drives the real services over HTTP with an in-memory store
func TestModerationFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := mocks.NewMockCommentRepository()
	clf := mocks.NewMockClassifier("spam", 0.88)
	services := service.NewServices(&repository.Repositories{Comment: repo}, clf, testConfig(), zerolog.Nop())
	router := api.NewRouter(services, nil, testConfig(), zerolog.Nop())

	// Spam goes to the pending queue
	w := doRequest(router, "POST", "/v1/comments", map[string]string{"username": "spammer", "content": "  Click here for free spam products!  "})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Comment
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.Status != models.StatusPending || created.Content != "Click here for free spam products!" {
		t.Fatalf("Unexpected created comment: %+v", created)
	}

	w = doRequest(router, "GET", "/v1/comments?status=pending", nil)
	var page models.CommentPage
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.Total != 1 || page.Items[0].ID != created.ID {
		t.Fatalf("Expected the comment in the pending queue, got %+v", page)
	}

	// Invalid target is a 400 and changes nothing
	w = doRequest(router, "PUT", "/v1/comments/"+created.ID, map[string]string{"status": "pending"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for pending target, got %d", w.Code)
	}

	w = doRequest(router, "PUT", "/v1/comments/"+created.ID, map[string]string{"status": "rejected"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/v1/comments?status=pending", nil)
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.Total != 0 {
		t.Errorf("Expected empty pending queue, got %d", page.Total)
	}

	// Empty content never reaches the classifier
	w = doRequest(router, "POST", "/v1/comments", map[string]string{"username": "user", "content": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if clf.Calls() != 1 {
		t.Errorf("Expected 1 classifier call, got %d", clf.Calls())
	}

	w = doRequest(router, "GET", "/v1/comments/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for malformed id, got %d", w.Code)
	}

	w = doRequest(router, "DELETE", "/v1/comments/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	w = doRequest(router, "DELETE", "/v1/comments/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
}
