package services_test

import (
	"strings"
	"testing"

	"teamhub/models"
	"teamhub/services"
	"teamhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	author := fx.CreateUser("Author")

	post, err := svc.Posts.SavePost(ctx, &models.Post{
		AuthorID:     author.ID,
		Title:        "Hackathon team",
		Text:         "We need a designer and a backend developer",
		TeamRoleTags: []models.TeamRoleTag{models.TeamRoleDesigner, models.TeamRoleBackend},
	})
	require.NoError(t, err)

	stored, err := svc.Posts.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.TeamRoleTag{models.TeamRoleDesigner, models.TeamRoleBackend}, stored.TeamRoleTags)
}

func TestSavePost_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	author := fx.CreateUser("Author")

	tests := []struct {
		name    string
		post    *models.Post
		wantErr error
	}{
		{"short text", &models.Post{AuthorID: author.ID, Text: "too short", TeamRoleTags: []models.TeamRoleTag{models.TeamRoleOther}}, services.ErrValidation},
		{"no tags", &models.Post{AuthorID: author.ID, Text: "long enough text here"}, services.ErrValidation},
		{"unknown tag", &models.Post{AuthorID: author.ID, Text: "long enough text here", TeamRoleTags: []models.TeamRoleTag{"wizard"}}, services.ErrValidation},
		{"missing author", &models.Post{AuthorID: 999, Text: "long enough text here", TeamRoleTags: []models.TeamRoleTag{models.TeamRoleOther}}, services.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Posts.SavePost(ctx, tt.post)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdatePostText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	post := fx.CreatePost(fx.CreateUser("Author"), "Original text of the post")

	_, err := svc.Posts.UpdatePostText(ctx, post.ID, "   ")
	require.ErrorIs(t, err, services.ErrValidation)

	updated, err := svc.Posts.UpdatePostText(ctx, post.ID, "A brand new body text")
	require.NoError(t, err)
	assert.Equal(t, "A brand new body text", updated.Text)

	_, err = svc.Posts.UpdatePostText(ctx, 999, "A brand new body text")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRespondents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	post := fx.CreatePost(fx.CreateUser("Author"), "Looking for a fullstack dev")
	user := fx.CreateUser("Responder")

	_, err := svc.Posts.AddRespondentToPost(ctx, post.ID, user.ID)
	require.NoError(t, err)
	again, err := svc.Posts.AddRespondentToPost(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Len(t, again.Respondents, 1)

	_, err = svc.Posts.AddRespondentToPost(ctx, post.ID, 999)
	assert.ErrorIs(t, err, services.ErrNotFound)

	after, err := svc.Posts.RemoveRespondentFromPost(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Respondents)

	_, err = svc.Posts.RemoveRespondentFromPost(ctx, post.ID, user.ID)
	assert.ErrorIs(t, err, services.ErrInconsistentAssociation)
}

func TestSearchPostsByKeyword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	author := fx.CreateUser("Author")
	fx.CreatePost(author, "Building a Rust game engine")
	fx.CreatePost(author, "Need help with a Go backend")

	_, err := svc.Posts.SearchPostsByKeyword(ctx, " ", 10)
	require.ErrorIs(t, err, services.ErrValidation)

	found, err := svc.Posts.SearchPostsByKeyword(ctx, "GAME", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, strings.Contains(found[0].Text, "game"))
}

func TestGetPostsByAuthorAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	author := fx.CreateUser("Author")
	other := fx.CreateUser("Other")
	post := fx.CreatePost(author, "First post by the author")
	fx.CreatePost(other, "Someone else entirely here")

	_, err := svc.Posts.AddRespondentToPost(ctx, post.ID, other.ID)
	require.NoError(t, err)

	posts, err := svc.Posts.GetPostsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	_, err = svc.Posts.GetPostsByAuthor(ctx, 999)
	assert.ErrorIs(t, err, services.ErrNotFound)

	require.NoError(t, svc.Posts.DeletePost(ctx, post.ID))
	_, err = svc.Posts.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	var rows int64
	require.NoError(t, db.Model(&models.PostRespondent{}).Count(&rows).Error)
	assert.Zero(t, rows)
}
