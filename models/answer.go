package models

import "time"

// Answer is the durable record of one scored submission. The composite
// unique index on (player_id, question_id) is what makes duplicate
// submissions lose the race at the database, not just in process.
type Answer struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	GameID       uint      `json:"game_id" gorm:"not null;index"`
	PlayerID     uint      `json:"player_id" gorm:"not null;uniqueIndex:idx_answers_player_question"`
	QuestionID   uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_player_question"`
	OptionID     uint      `json:"option_id" gorm:"not null"`
	IsCorrect    bool      `json:"is_correct" gorm:"not null"`
	ResponseTime float64   `json:"response_time" gorm:"not null"` // seconds
	Points       int       `json:"points" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Game     Game     `json:"game,omitempty"`
	Player   Player   `json:"player,omitempty"`
	Question Question `json:"question,omitempty"`
	Option   Option   `json:"option,omitempty"`
}
