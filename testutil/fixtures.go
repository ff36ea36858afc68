package testutil

import (
	"testing"
	"time"

	"teamhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixtures inserts rows directly, bypassing the services.
type Fixtures struct {
	db *gorm.DB
	t  *testing.T
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *gorm.DB {
	return f.db
}

// CreateUser inserts a developer with a unique email.
func (f *Fixtures) CreateUser(firstName string) *models.User {
	f.t.Helper()
	return f.CreateUserWithRole(firstName, models.TeamRoleDeveloper, models.RoleUser)
}

// CreateAdmin inserts a user holding the ADMIN role.
func (f *Fixtures) CreateAdmin(firstName string) *models.User {
	f.t.Helper()
	return f.CreateUserWithRole(firstName, models.TeamRoleTeamLead, models.RoleAdmin)
}

func (f *Fixtures) CreateUserWithRole(firstName string, teamRole models.TeamRoleTag, role models.Role) *models.User {
	f.t.Helper()

	user := &models.User{
		FirstName: firstName,
		LastName:  "Tester",
		Email:     uuid.NewString()[:8] + "@test.com",
		TeamRole:  teamRole,
		Role:      role,
	}
	if err := f.db.Omit(clause.Associations).Create(user).Error; err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateProject inserts a project led by leader, who is also its first
// member.
func (f *Fixtures) CreateProject(name string, leader *models.User) *models.Project {
	f.t.Helper()

	project := &models.Project{
		Name:        name,
		Description: "Test project " + name,
		LeaderID:    leader.ID,
	}
	if err := f.db.Omit(clause.Associations).Create(project).Error; err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	f.AddMember(project, leader)
	return project
}

// AddMember writes a membership row without going through the services.
func (f *Fixtures) AddMember(project *models.Project, user *models.User) {
	f.t.Helper()

	row := &models.ProjectMember{ProjectID: project.ID, UserID: user.ID, JoinedAt: time.Now().UTC()}
	if err := f.db.Create(row).Error; err != nil {
		f.t.Fatalf("failed to add test member: %v", err)
	}
}

// CreatePost inserts a post by author seeking developers.
func (f *Fixtures) CreatePost(author *models.User, text string) *models.Post {
	f.t.Helper()

	post := &models.Post{
		AuthorID:     author.ID,
		Title:        "Looking for a team",
		Text:         text,
		TeamRoleTags: []models.TeamRoleTag{models.TeamRoleDeveloper},
	}
	if err := f.db.Omit(clause.Associations).Create(post).Error; err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// CreateReview inserts a review from sender to receiver.
func (f *Fixtures) CreateReview(sender, receiver *models.User, rating int) *models.Review {
	f.t.Helper()

	review := &models.Review{
		Rating:     rating,
		Text:       "Test review",
		SenderID:   &sender.ID,
		ReceiverID: &receiver.ID,
	}
	if err := f.db.Omit(clause.Associations).Create(review).Error; err != nil {
		f.t.Fatalf("failed to create test review: %v", err)
	}
	return review
}
