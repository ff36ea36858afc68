// database/migrate.go - Database Migration Runner
package database

import (
	"fmt"

	"teamhub/models"

	"gorm.io/gorm"
)

// setupJoinTables binds the many2many relationships to their explicit join
// models so JoinedAt/LeftAt/RespondedAt are part of the schema.
func setupJoinTables(db *gorm.DB) error {
	joins := []struct {
		model interface{}
		field string
		join  interface{}
	}{
		{&models.Project{}, "Members", &models.ProjectMember{}},
		{&models.User{}, "CurrentProjects", &models.ProjectMember{}},
		{&models.User{}, "PastProjects", &models.PastProjectMember{}},
		{&models.Post{}, "Respondents", &models.PostRespondent{}},
	}

	for _, j := range joins {
		if err := db.SetupJoinTable(j.model, j.field, j.join); err != nil {
			return fmt.Errorf("%T.%s: %w", j.model, j.field, err)
		}
	}
	return nil
}

// Migrate creates or updates every table and index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.PastProjectMember{},
		&models.Review{},
		&models.Post{},
		&models.PostRespondent{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return createIndexes(db)
}

// createIndexes adds the lookup indexes the relationship queries rely on that
// struct tags do not express.
func createIndexes(db *gorm.DB) error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_reviews_receiver_rating ON reviews(receiver_id, rating)",
		"CREATE INDEX IF NOT EXISTS idx_project_members_joined ON project_members(joined_at)",
		"CREATE INDEX IF NOT EXISTS idx_past_project_members_left ON past_project_members(left_at)",
		"CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC)",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
