package models

import "time"

// Question types. Open questions carry no options and are never auto-scored.
const (
	QuestionTypeChoice = "choice"
	QuestionTypeMulti  = "multi"
	QuestionTypeOpen   = "open"
)

type Question struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	QuizID    uint      `json:"quiz_id" gorm:"not null"`
	Text      string    `json:"text" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null;default:'choice'"`
	ImageURL  string    `json:"image_url"`
	TimeLimit int       `json:"time_limit" gorm:"not null;default:20"` // seconds
	Order     int       `json:"order" gorm:"column:position;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Quiz    Quiz     `json:"quiz,omitempty"`
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}
