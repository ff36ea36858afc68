// models/project.go
package models

import "time"

type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:100" json:"name" validate:"required,min=2,max=100"`
	Description string    `gorm:"type:text" json:"description" validate:"max=2000"`
	Link        string    `gorm:"size:255" json:"link" validate:"omitempty,url"`
	LeaderID    uint      `gorm:"not null;index" json:"leader_id" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Leader  *User     `gorm:"foreignKey:LeaderID" json:"-" validate:"-"`
	Members []*User   `gorm:"many2many:project_members" json:"-" validate:"-"`
	Reviews []*Review `gorm:"foreignKey:ProjectID" json:"-" validate:"-"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) IsLeader(userID uint) bool {
	return p.LeaderID == userID
}

func (p *Project) HasMember(userID uint) bool {
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

func (p *Project) RemoveMember(userID uint) {
	kept := p.Members[:0]
	for _, m := range p.Members {
		if m.ID != userID {
			kept = append(kept, m)
		}
	}
	p.Members = kept
}

func (p *Project) HasReview(review *Review) bool {
	return containsReview(p.Reviews, review)
}

func (p *Project) RemoveReview(reviewID uint) {
	p.Reviews = removeReview(p.Reviews, reviewID)
}

// ProjectMember is the join row behind Project.Members and
// User.CurrentProjects. Both sides read the same table, so they cannot drift.
type ProjectMember struct {
	ProjectID uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"primaryKey;index"`
	JoinedAt  time.Time `gorm:"not null"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}

// PastProjectMember records that a user left a project.
type PastProjectMember struct {
	UserID    uint      `gorm:"primaryKey"`
	ProjectID uint      `gorm:"primaryKey;index"`
	LeftAt    time.Time `gorm:"not null"`
}

func (PastProjectMember) TableName() string {
	return "past_project_members"
}
