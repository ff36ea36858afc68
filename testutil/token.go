package testutil

import (
	"testing"
	"time"

	"teamhub/middleware"
	"teamhub/models"
)

// TestSecret is long enough to pass config validation.
const TestSecret = "test-secret-0123456789abcdef0123456789"

// TestToken signs a bearer token for user with TestSecret.
func TestToken(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := middleware.GenerateToken(TestSecret, user.ID, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return "Bearer " + token
}
