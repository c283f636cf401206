package services

import "errors"

var (
	// ErrGameNotFound is returned when no game row exists for a PIN.
	ErrGameNotFound = errors.New("game not found")
	// ErrPlayerNotFound is returned when a player token resolves to nothing.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrQuestionNotFound indicates a submitted question ID is unknown.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option ID is unknown.
	ErrOptionNotFound = errors.New("option not found")
	// ErrQuizNotFound indicates the requested quiz content does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotFound is returned when a PIN has no live session in memory.
	ErrSessionNotFound = errors.New("game session not started")
	// ErrAlreadyAnswered rejects a duplicate submission for the same question.
	ErrAlreadyAnswered = errors.New("already answered this question")
	// ErrInvalidState rejects a transition the session's current phase forbids.
	ErrInvalidState = errors.New("invalid game state for this action")
	// ErrNameTaken rejects a join with a display name already used in the game.
	ErrNameTaken = errors.New("player name already taken")
)
