// models/review.go
package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Text       string    `gorm:"size:500" json:"text" validate:"max=500"`
	SenderID   *uint     `gorm:"index" json:"sender_id"`
	ReceiverID *uint     `gorm:"index" json:"receiver_id"`
	ProjectID  *uint     `gorm:"index" json:"project_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Sender   *User    `gorm:"foreignKey:SenderID" json:"-" validate:"-"`
	Receiver *User    `gorm:"foreignKey:ReceiverID" json:"-" validate:"-"`
	Project  *Project `gorm:"foreignKey:ProjectID" json:"-" validate:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) HasValidRating() bool {
	return r.Rating >= MinRating && r.Rating <= MaxRating
}

func containsReview(reviews []*Review, review *Review) bool {
	if review == nil {
		return false
	}
	for _, r := range reviews {
		if r == review || (review.ID != 0 && r.ID == review.ID) {
			return true
		}
	}
	return false
}

func removeReview(reviews []*Review, reviewID uint) []*Review {
	kept := reviews[:0]
	for _, r := range reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	return kept
}
