package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/comment-moderation-api/internal/classifier"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/service"
	"github.com/spf13/cobra"
)

// seedCmd bulk-loads pre-classified comments
var seedCmd = &cobra.Command{
	Use:   "seed [file.ndjson]",
	Short: "Load pre-classified comments from an NDJSON file",
	Long: `Reads one comment per line and inserts the valid ones with COPY.

Every record must carry status, predicted_label and confidence; records
without a classification are rejected. id and created_at are optional.

Example line:
  {"username":"alice","content":"Hi!","status":"approved","predicted_label":"normal","confidence":0.97}`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	if !skipMigrations {
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			return err
		}
	}

	services := service.NewServices(repository.New(db), classifier.NewHTTPClient(cfg.Classifier, log), cfg, log)

	result, err := services.Seed.Seed(cmd.Context(), f)
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("Seed failed")
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
