package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// migrateCmd manages the database schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
	Long: `Apply or roll back schema migrations from MIGRATIONS_PATH.

Available subcommands:
  up      - Apply all pending migrations
  down    - Roll back the most recent migration
  to      - Migrate up or down to a specific version
  version - Print the current schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()
		return db.RunMigrations(cfg.Database.MigrationsPath)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()
		return db.MigrateDown(cfg.Database.MigrationsPath)
	},
}

var migrateToCmd = &cobra.Command{
	Use:   "to [version]",
	Short: "Migrate to a specific schema version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}

		cfg, _, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()
		return db.MigrateToVersion(cfg.Database.MigrationsPath, uint(version))
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		version, dirty, err := db.MigrationVersion(cfg.Database.MigrationsPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, dirty)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateToCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}
