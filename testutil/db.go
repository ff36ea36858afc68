// Package testutil provides an isolated database and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"teamhub/database"
	"teamhub/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test database handle: %v", err)
	}
	// A shared-cache memory database lives as long as one connection does.
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// Services is the full service graph over one database.
type Services struct {
	Users    *services.UserService
	Projects *services.ProjectService
	Posts    *services.PostService
	Reviews  *services.ReviewService
}

// NewServices wires every service against db with a no-op logger.
func NewServices(db *gorm.DB) Services {
	log := zap.NewNop()
	reviews := services.NewReviewService(db, log)
	users := services.NewUserService(db, reviews, log)
	return Services{
		Users:    users,
		Projects: services.NewProjectService(db, users, reviews, log),
		Posts:    services.NewPostService(db, users, log),
		Reviews:  reviews,
	}
}

// Ctx returns a context cancelled when the test ends.
func Ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
