// models/post.go
package models

import "time"

type Post struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	AuthorID     uint          `gorm:"not null;index" json:"author_id" validate:"required"`
	Title        string        `gorm:"size:200" json:"title" validate:"max=200"`
	Text         string        `gorm:"type:text;not null" json:"text" validate:"required,min=10,max=2000"`
	TeamRoleTags []TeamRoleTag `gorm:"serializer:json;type:text" json:"team_role_tags" validate:"required,min=1,dive,teamrole"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Relationships
	Author      *User   `gorm:"foreignKey:AuthorID" json:"-" validate:"-"`
	Respondents []*User `gorm:"many2many:post_respondents" json:"-" validate:"-"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) HasRespondent(userID uint) bool {
	for _, u := range p.Respondents {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func (p *Post) RemoveRespondent(userID uint) {
	kept := p.Respondents[:0]
	for _, u := range p.Respondents {
		if u.ID != userID {
			kept = append(kept, u)
		}
	}
	p.Respondents = kept
}

type PostRespondent struct {
	PostID      uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"primaryKey;index"`
	RespondedAt time.Time `gorm:"not null"`
}

func (PostRespondent) TableName() string {
	return "post_respondents"
}
