package main

import (
	"os"
	"path/filepath"
	"testing"

	"teamhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const seedJSON = `{
  "users": [
    {"key": "ada", "first_name": "Ada", "email": "ada@example.com", "team_role": "team-lead", "admin": true},
    {"key": "bob", "first_name": "Bob", "email": "bob@example.com", "team_role": "backend"},
    {"key": "cy", "first_name": "Cy", "email": "cy@example.com", "team_role": "designer"}
  ],
  "projects": [
    {"name": "Apollo", "leader": "ada", "members": ["bob"], "past_members": ["cy"]}
  ],
  "reviews": [
    {"sender": "bob", "receiver": "ada", "rating": 5, "text": "great lead"},
    {"sender": "cy", "project": "Apollo", "rating": 3}
  ],
  "posts": [
    {"author": "ada", "title": "Hiring", "text": "Apollo needs a frontend dev", "team_role_tags": ["frontend"], "respondents": ["cy"]}
  ]
}`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	ctx := testutil.Ctx(t)

	fixture, err := readFixture(writeSeed(t, seedJSON))
	require.NoError(t, err)

	im := newImporter(svc.Users, svc.Projects, svc.Posts, zap.NewNop())
	stats, err := im.Import(ctx, fixture)
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 3, Projects: 1, Memberships: 2, Reviews: 2, Posts: 1}, stats)

	ada, err := svc.Users.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, ada.IsAdmin())

	avg, err := svc.Reviews.GetAverageRating(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)

	past, err := svc.Users.GetPastProjects(ctx, im.userIDs["cy"])
	require.NoError(t, err)
	assert.Len(t, past, 1)

	members, err := svc.Users.GetUsersByCurrentProject(ctx, im.projectIDs["Apollo"])
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestImport_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)

	fixture, err := readFixture(writeSeed(t, `{"projects": [{"name": "Ghost", "leader": "nobody"}]}`))
	require.NoError(t, err)

	_, err = newImporter(svc.Users, svc.Projects, svc.Posts, zap.NewNop()).Import(testutil.Ctx(t), fixture)
	assert.ErrorContains(t, err, `unknown user "nobody"`)
}

func TestReadFixture_Errors(t *testing.T) {
	_, err := readFixture(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = readFixture(writeSeed(t, "{not json"))
	assert.Error(t, err)
}
