// cmd/seed-importer - Loads users, projects, reviews and posts from a JSON file
package main

import (
	"context"
	"fmt"
	"os"

	"teamhub/config"
	"teamhub/database"
	"teamhub/logging"
	"teamhub/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	var sqlitePath string
	var logLevel string

	cmd := &cobra.Command{
		Use:          "seed-importer <file.json>",
		Short:        "Import seed data through the application services",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logging.Options{Level: logLevel})
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := openDB(sqlitePath, log)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}

			fixture, err := readFixture(args[0])
			if err != nil {
				return err
			}

			reviews := services.NewReviewService(db, log)
			users := services.NewUserService(db, reviews, log)
			im := newImporter(
				users,
				services.NewProjectService(db, users, reviews, log),
				services.NewPostService(db, users, log),
				log,
			)

			stats, err := im.Import(context.Background(), fixture)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users, %d projects, %d memberships, %d reviews, %d posts\n",
				stats.Users, stats.Projects, stats.Memberships, stats.Reviews, stats.Posts)
			return nil
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "import into this SQLite file instead of PostgreSQL")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB connects to PostgreSQL from the environment, or to a local SQLite
// file when path is set.
func openDB(path string, log *zap.Logger) (*gorm.DB, error) {
	if path != "" {
		db, err := database.Open(sqlite.Open(path), log)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		return db, nil
	}

	// Only the database settings matter here, so a missing JWT_SECRET is fine.
	cfg, _ := config.Load()
	return database.Connect(cfg.Database, log)
}
