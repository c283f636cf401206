package models

import "time"

// Durable game statuses. The live phase of a running game is tracked in
// memory (services.LiveSession); this column only records the coarse
// lifecycle so a leaderboard survives a process restart.
const (
	GameStatusWaiting  = "waiting"
	GameStatusRunning  = "running"
	GameStatusFinished = "finished"
)

type Game struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	QuizID    uint      `json:"quiz_id" gorm:"not null"`
	Pin       string    `json:"pin" gorm:"uniqueIndex;not null"`
	Status    string    `json:"status" gorm:"not null;default:'waiting'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Quiz    Quiz     `json:"quiz,omitempty"`
	Players []Player `json:"players,omitempty" gorm:"foreignKey:GameID"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:GameID"`
}
