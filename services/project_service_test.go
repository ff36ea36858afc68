package services_test

import (
	"testing"

	"teamhub/models"
	"teamhub/services"
	"teamhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberIDs(users []*models.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestSaveProject_EnrollsLeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")

	project, err := svc.Projects.SaveProject(ctx, &models.Project{Name: "Apollo", LeaderID: leader.ID})
	require.NoError(t, err)
	assert.NotZero(t, project.ID)

	stored, err := svc.Projects.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{leader.ID}, memberIDs(stored.Members))

	current, err := svc.Users.GetCurrentProjects(ctx, leader.ID)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, project.ID, current[0].ID)
}

func TestSaveProject_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")

	_, err := svc.Projects.SaveProject(ctx, &models.Project{Name: "A", LeaderID: leader.ID})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.Projects.SaveProject(ctx, &models.Project{Name: "Apollo", LeaderID: 999})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAddUserToProject_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	user := fx.CreateUser("Member")
	project := fx.CreateProject("Apollo", leader)

	_, err := svc.Projects.AddUserToProject(ctx, project.ID, user.ID)
	require.NoError(t, err)
	updated, err := svc.Projects.AddUserToProject(ctx, project.ID, user.ID)
	require.NoError(t, err)

	count := 0
	for _, id := range memberIDs(updated.Members) {
		if id == user.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)

	members, err := svc.Users.GetUsersByCurrentProject(ctx, project.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{leader.ID, user.ID}, memberIDs(members))
}

func TestAddUserToProject_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	project := fx.CreateProject("Apollo", leader)

	_, err := svc.Projects.AddUserToProject(ctx, 999, leader.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.Projects.AddUserToProject(ctx, project.ID, 999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRemoveUserFromProject_BySelf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	member := fx.CreateUser("Member")
	project := fx.CreateProject("Apollo", leader)
	fx.AddMember(project, member)

	updated, err := svc.Projects.RemoveUserFromProject(ctx, project.ID, member.ID, member.ID)
	require.NoError(t, err)
	assert.NotContains(t, memberIDs(updated.Members), member.ID)

	current, err := svc.Users.GetCurrentProjects(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, current)

	past, err := svc.Users.GetPastProjects(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, project.ID, past[0].ID)

	pastMembers, err := svc.Users.GetUsersByPastProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{member.ID}, memberIDs(pastMembers))
}

func TestRemoveUserFromProject_ByLeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	member := fx.CreateUser("Member")
	project := fx.CreateProject("Apollo", leader)
	fx.AddMember(project, member)

	updated, err := svc.Projects.RemoveUserFromProject(ctx, project.ID, member.ID, leader.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{leader.ID}, memberIDs(updated.Members))

	past, err := svc.Users.GetPastProjects(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, past, 1)
}

func TestRemoveUserFromProject_ForbiddenForOthers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	member := fx.CreateUser("Member")
	other := fx.CreateUser("Other")
	project := fx.CreateProject("Apollo", leader)
	fx.AddMember(project, member)
	fx.AddMember(project, other)

	_, err := svc.Projects.RemoveUserFromProject(ctx, project.ID, member.ID, other.ID)
	require.ErrorIs(t, err, services.ErrForbidden)

	stored, err := svc.Projects.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Contains(t, memberIDs(stored.Members), member.ID)

	current, err := svc.Users.GetCurrentProjects(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, current, 1)

	past, err := svc.Users.GetPastProjects(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestRemoveUserFromProject_NonMemberIsNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	outsider := fx.CreateUser("Outsider")
	project := fx.CreateProject("Apollo", leader)

	updated, err := svc.Projects.RemoveUserFromProject(ctx, project.ID, outsider.ID, outsider.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{leader.ID}, memberIDs(updated.Members))

	past, err := svc.Users.GetPastProjects(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestAddUserToProject_RejoinClearsPast(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	member := fx.CreateUser("Member")
	project := fx.CreateProject("Apollo", leader)
	fx.AddMember(project, member)

	_, err := svc.Projects.RemoveUserFromProject(ctx, project.ID, member.ID, member.ID)
	require.NoError(t, err)
	_, err = svc.Projects.AddUserToProject(ctx, project.ID, member.ID)
	require.NoError(t, err)

	current, err := svc.Users.GetCurrentProjects(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, current, 1)

	past, err := svc.Users.GetPastProjects(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, past, "current and past projects must stay disjoint")
}

func TestUpdateAndDeleteProject_LeaderOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	member := fx.CreateUser("Member")
	project := fx.CreateProject("Apollo", leader)
	fx.AddMember(project, member)
	review := fx.CreateReview(member, leader, 4)
	require.NoError(t, db.Model(review).Update("project_id", project.ID).Error)

	_, err := svc.Projects.UpdateProject(ctx, project.ID, models.Project{Name: "Hijacked"}, member.ID)
	require.ErrorIs(t, err, services.ErrForbidden)

	updated, err := svc.Projects.UpdateProject(ctx, project.ID, models.Project{Name: "Artemis", Description: "moon"}, leader.ID)
	require.NoError(t, err)
	assert.Equal(t, "Artemis", updated.Name)

	require.ErrorIs(t, svc.Projects.DeleteProject(ctx, project.ID, member.ID), services.ErrForbidden)
	require.NoError(t, svc.Projects.DeleteProject(ctx, project.ID, leader.ID))

	_, err = svc.Projects.GetProjectByID(ctx, project.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	current, err := svc.Users.GetCurrentProjects(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, current)

	detached, err := svc.Reviews.GetReviewByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.ProjectID)
}

func TestSearchProjects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	fx.CreateProject("Rocket Launcher", leader)
	fx.CreateProject("Garden Planner", leader)

	found, err := svc.Projects.SearchProjects(ctx, "rocket", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Rocket Launcher", found[0].Name)

	all, err := svc.Projects.SearchProjects(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAddReviewToProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	reviewer := fx.CreateUser("Reviewer")
	project := fx.CreateProject("Apollo", leader)

	review, err := svc.Projects.AddReviewToProject(ctx, reviewer.ID, project.ID, &models.Review{Rating: 4, Text: "tidy repo"})
	require.NoError(t, err)
	require.NotNil(t, review.ProjectID)
	require.NotNil(t, review.SenderID)
	assert.Equal(t, project.ID, *review.ProjectID)
	assert.Equal(t, reviewer.ID, *review.SenderID)

	byProject, err := svc.Reviews.GetReviewsByProject(ctx, project)
	require.NoError(t, err)
	require.Len(t, byProject, 1)

	sent, err := svc.Reviews.GetReviewsBySender(ctx, reviewer)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	_, err = svc.Projects.AddReviewToProject(ctx, reviewer.ID, project.ID, &models.Review{Rating: 6})
	assert.ErrorIs(t, err, services.ErrInvalidRating)

	_, err = svc.Projects.AddReviewToProject(ctx, reviewer.ID, 999, &models.Review{Rating: 3})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.Projects.AddReviewToProject(ctx, 999, project.ID, &models.Review{Rating: 3})
	assert.ErrorIs(t, err, services.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "failed adds must not leave reviews behind")
}

func TestAddReviewToProject_KeepsConcurrentProjectEdits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	reviewer := fx.CreateUser("Reviewer")
	project := fx.CreateProject("Apollo", leader)
	writeAfterFirstLoad(t, db, "users", "UPDATE users SET first_name = ? WHERE id = ?", "Renamed", reviewer.ID)
	writeAfterFirstLoad(t, db, "projects", "UPDATE projects SET description = ? WHERE id = ?", "edited meanwhile", project.ID)

	_, err := svc.Projects.AddReviewToProject(ctx, reviewer.ID, project.ID, &models.Review{Rating: 5})
	require.NoError(t, err)

	storedProject, err := svc.Projects.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited meanwhile", storedProject.Description)

	storedReviewer, err := svc.Users.GetUserByID(ctx, reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", storedReviewer.FirstName)
}

func TestRemoveReviewFromProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	leader := fx.CreateUser("Leader")
	reviewer := fx.CreateUser("Reviewer")
	project := fx.CreateProject("Apollo", leader)

	review, err := svc.Projects.AddReviewToProject(ctx, reviewer.ID, project.ID, &models.Review{Rating: 2})
	require.NoError(t, err)

	err = svc.Projects.RemoveReviewFromProject(ctx, leader.ID, project.ID, review.ID)
	require.ErrorIs(t, err, services.ErrInconsistentAssociation, "leader did not send the review")

	err = svc.Projects.RemoveReviewFromProject(ctx, 999, project.ID, review.ID)
	require.ErrorIs(t, err, services.ErrNotFound)
	err = svc.Projects.RemoveReviewFromProject(ctx, reviewer.ID, 999, review.ID)
	require.ErrorIs(t, err, services.ErrNotFound)

	require.NoError(t, svc.Projects.RemoveReviewFromProject(ctx, reviewer.ID, project.ID, review.ID))

	byProject, err := svc.Reviews.GetReviewsByProject(ctx, project)
	require.NoError(t, err)
	assert.Empty(t, byProject)

	_, err = svc.Reviews.GetReviewByID(ctx, review.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

// Leader L and member M: M leaves on their own.
func TestLeaderAndMemberScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewServices(db)
	fx := testutil.NewFixtures(t, db)
	ctx := testutil.Ctx(t)

	l := fx.CreateUser("Leader")
	m := fx.CreateUser("Member")

	p, err := svc.Projects.SaveProject(ctx, &models.Project{Name: "Project P", LeaderID: l.ID})
	require.NoError(t, err)
	_, err = svc.Projects.AddUserToProject(ctx, p.ID, m.ID)
	require.NoError(t, err)

	after, err := svc.Projects.RemoveUserFromProject(ctx, p.ID, m.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{l.ID}, memberIDs(after.Members))

	past, err := svc.Users.GetPastProjects(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, p.ID, past[0].ID)
}
