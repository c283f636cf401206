package models

import "time"

type Player struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GameID    uint      `json:"game_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	Score     int       `json:"score" gorm:"not null;default:0"`
	JoinedAt  time.Time `json:"joined_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Game Game `json:"game,omitempty"`
}
