// Package classifier is the gateway to the external NLP text classifier.
// It turns a classification into the initial moderation status of a comment
// and separates transport failures from malformed responses.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/models"
	"github.com/rs/zerolog"
)

var (
	// ErrUnavailable covers timeouts, refused connections and non-2xx replies
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrInvalidResponse is returned when the classifier replies with a malformed payload
	ErrInvalidResponse = errors.New("invalid classifier response")
)

// maxResponseBytes bounds how much of a classifier reply is read
const maxResponseBytes = 1 << 20

// Result is a well-formed classification
type Result struct {
	Label      string  `json:"label_name"`
	Confidence float64 `json:"confidence"`
}

// Decision returns the initial moderation status for this result
func (r *Result) Decision() models.Status {
	return models.StatusForLabel(r.Label)
}

// Classifier labels a piece of text
type Classifier interface {
	Classify(ctx context.Context, text string) (*Result, error)
}

type classifyRequest struct {
	Text string `json:"text"`
}

// rawResponse keeps fields as raw JSON so missing and mistyped values can be told apart
type rawResponse struct {
	LabelName  json.RawMessage `json:"label_name"`
	Confidence json.RawMessage `json:"confidence"`
}

// HTTPClient calls the classifier over HTTP with a fixed timeout
type HTTPClient struct {
	url     string
	timeout time.Duration
	client  *http.Client
	log     zerolog.Logger
}

var _ Classifier = (*HTTPClient)(nil)

// NewHTTPClient creates a classifier client from explicit configuration
func NewHTTPClient(cfg config.ClassifierConfig, log zerolog.Logger) *HTTPClient {
	return &HTTPClient{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     log.With().Str("component", "classifier").Logger(),
	}
}

// Classify sends text to the classifier. It makes exactly one attempt.
func (c *HTTPClient) Classify(ctx context.Context, text string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Classifier request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error().Int("status", resp.StatusCode).Msg("Classifier returned non-success status")
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to read classifier response")
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	result, err := ParseResponse(payload)
	if err != nil {
		c.log.Error().Err(err).Str("raw", truncate(string(payload), 256)).Msg("Classifier response rejected")
		return nil, err
	}

	c.log.Debug().
		Str("label", result.Label).
		Float64("confidence", result.Confidence).
		Dur("elapsed", time.Since(start)).
		Msg("Text classified")

	return result, nil
}

// ParseResponse validates a classifier payload. label_name must be a
// non-empty string and confidence a number in [0,1]; other fields are ignored.
func ParseResponse(payload []byte) (*Result, error) {
	var raw rawResponse
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrInvalidResponse)
	}

	var result Result

	if len(raw.LabelName) == 0 || json.Unmarshal(raw.LabelName, &result.Label) != nil {
		return nil, fmt.Errorf("%w: label_name must be a string", ErrInvalidResponse)
	}
	if result.Label == "" {
		return nil, fmt.Errorf("%w: label_name is empty", ErrInvalidResponse)
	}

	// null unmarshals into a float64 without error, so check it explicitly
	if len(raw.Confidence) == 0 || string(raw.Confidence) == "null" ||
		json.Unmarshal(raw.Confidence, &result.Confidence) != nil {
		return nil, fmt.Errorf("%w: confidence must be a number", ErrInvalidResponse)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidResponse, result.Confidence)
	}

	return &result, nil
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
