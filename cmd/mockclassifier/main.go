// Command mockclassifier serves a deterministic keyword classifier that
// speaks the same protocol as the NLP service, for local development.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comment-moderation-api/internal/classifier"
	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(config.LogConfig{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})

	addr := os.Getenv("MOCK_NLP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8001"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           classifier.NewStubRouter(log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Mock NLP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Mock NLP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Mock NLP server forced to shutdown")
	}
}
