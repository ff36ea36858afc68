// models/user.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	FirstName  string      `gorm:"not null;size:100" json:"first_name" validate:"required,min=2,max=100"`
	LastName   string      `gorm:"size:100" json:"last_name" validate:"omitempty,min=2,max=100"`
	Email      string      `gorm:"uniqueIndex;not null;size:255" json:"email" validate:"required,email"`
	GitHubLink string      `gorm:"size:255" json:"github_link" validate:"omitempty,url"`
	TeamRole   TeamRoleTag `gorm:"size:20;index" json:"team_role" validate:"required,teamrole"`
	Role       Role        `gorm:"size:10;not null" json:"role"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Relationships
	Posts           []*Post    `gorm:"foreignKey:AuthorID" json:"-" validate:"-"`
	SentReviews     []*Review  `gorm:"foreignKey:SenderID" json:"-" validate:"-"`
	ReceivedReviews []*Review  `gorm:"foreignKey:ReceiverID" json:"-" validate:"-"`
	CurrentProjects []*Project `gorm:"many2many:project_members" json:"-" validate:"-"`
	PastProjects    []*Project `gorm:"many2many:past_project_members" json:"-" validate:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasSentReview reports whether review is held in the user's sent reviews.
// Unsaved reviews are matched by identity, saved ones by ID.
func (u *User) HasSentReview(review *Review) bool {
	return containsReview(u.SentReviews, review)
}

func (u *User) HasReceivedReview(review *Review) bool {
	return containsReview(u.ReceivedReviews, review)
}

func (u *User) RemoveSentReview(reviewID uint) {
	u.SentReviews = removeReview(u.SentReviews, reviewID)
}

func (u *User) RemoveReceivedReview(reviewID uint) {
	u.ReceivedReviews = removeReview(u.ReceivedReviews, reviewID)
}

func (u *User) IsCurrentMemberOf(projectID uint) bool {
	return containsProject(u.CurrentProjects, projectID)
}

func (u *User) IsPastMemberOf(projectID uint) bool {
	return containsProject(u.PastProjects, projectID)
}

func (u *User) RemoveCurrentProject(projectID uint) {
	u.CurrentProjects = removeProject(u.CurrentProjects, projectID)
}

func (u *User) RemovePastProject(projectID uint) {
	u.PastProjects = removeProject(u.PastProjects, projectID)
}

func containsProject(projects []*Project, projectID uint) bool {
	for _, p := range projects {
		if p.ID == projectID {
			return true
		}
	}
	return false
}

func removeProject(projects []*Project, projectID uint) []*Project {
	kept := projects[:0]
	for _, p := range projects {
		if p.ID != projectID {
			kept = append(kept, p)
		}
	}
	return kept
}
