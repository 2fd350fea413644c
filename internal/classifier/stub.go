package classifier

import (
	"net/http"
	"strings"

	"github.com/comment-moderation-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// stubRule maps a keyword to the label the stub answers with
type stubRule struct {
	keywords   []string
	label      int
	labelName  string
	confidence float64
}

// Checked in order, first match wins
var stubRules = []stubRule{
	{keywords: []string{"spam"}, label: 3, labelName: "spam", confidence: 0.98},
	{keywords: []string{"hate"}, label: 2, labelName: "hateful", confidence: 0.99},
	{keywords: []string{"offend"}, label: 1, labelName: "offensive", confidence: 0.90},
}

// StubResponse is the payload returned by the stub classifier
type StubResponse struct {
	Label      int     `json:"label"`
	LabelName  string  `json:"label_name"`
	Confidence float64 `json:"confidence"`
}

// StubClassify labels text by keyword. Anything unmatched is normal.
func StubClassify(text string) StubResponse {
	t := strings.ToLower(text)
	for _, rule := range stubRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return StubResponse{Label: rule.label, LabelName: rule.labelName, Confidence: rule.confidence}
			}
		}
	}
	return StubResponse{Label: 0, LabelName: models.SentinelLabel, Confidence: 0.95}
}

// NewStubRouter serves a deterministic classifier for local development
func NewStubRouter(log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	log = log.With().Str("component", "stub-classifier").Logger()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.POST("/classify", func(c *gin.Context) {
		var req classifyRequest
		// A body that is not JSON is classified as empty text
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Debug().Err(err).Msg("Malformed classify request, treating text as empty")
		}

		resp := StubClassify(req.Text)
		log.Debug().Str("label", resp.LabelName).Int("text_length", len(req.Text)).Msg("Classified")
		c.JSON(http.StatusOK, resp)
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
	})

	return router
}
