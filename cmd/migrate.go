package cmd

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

const defaultMigrationsPath = "file://migrations"

var errDatabaseNotConfigured = errors.New("database is not configured (set POSTGRES_HOST)")

func newMigrateCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the sync run history schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !cfg.Database.Enabled() {
				return errDatabaseNotConfigured
			}

			m, err := migrate.New(source, cfg.Database.URL())
			if err != nil {
				return fmt.Errorf("failed to create migrate instance: %w", err)
			}
			defer func() { _, _ = m.Close() }()

			direction := args[0]
			if err = runMigration(m, direction); err != nil {
				return fmt.Errorf("migration %s failed: %w", direction, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", defaultMigrationsPath, "migrations source URL")
	return cmd
}

func runMigration(m *migrate.Migrate, direction string) error {
	var err error
	if direction == "up" {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
