package services

import (
	"sync"
	"time"

	"quizlive/models"
)

// Live session phases.
const (
	StateWaiting        = "waiting"
	StateRunning        = "running"
	StateShowingResults = "showing_results"
	StateFinished       = "finished"
)

// LiveSession is the in-memory representation of one running game, keyed
// by PIN in the SessionStore. It holds the phase, the current question
// index and the wall-clock start of the active answer window. Scores are
// not kept here; they live durably so the leaderboard survives eviction.
//
// All transitions take the write lock, so a concurrent poll sees either
// the pre- or post-transition session, never a half-applied one.
type LiveSession struct {
	mu sync.RWMutex

	pin             string
	gameID          uint
	state           string
	currentQuestion int
	questionStart   time.Time
	questions       []models.Question
	now             func() time.Time
}

func newLiveSession(pin string, gameID uint, questions []models.Question) *LiveSession {
	return newLiveSessionWithClock(pin, gameID, questions, time.Now)
}

// newLiveSessionWithClock allows deterministic timestamps in tests.
func newLiveSessionWithClock(pin string, gameID uint, questions []models.Question, now func() time.Time) *LiveSession {
	return &LiveSession{
		pin:       pin,
		gameID:    gameID,
		state:     StateWaiting,
		questions: questions,
		now:       now,
	}
}

// Snapshot is a consistent read of the session for polling clients.
type Snapshot struct {
	Pin             string `json:"pin"`
	GameID          uint   `json:"game_id"`
	State           string `json:"state"`
	CurrentQuestion int    `json:"current_question"`
	TotalQuestions  int    `json:"total_questions"`
	RemainingTime   int    `json:"remaining_time"`
}

// Snapshot returns the session's observable state. Remaining time is
// derived from the wall clock on every call, never stored.
func (s *LiveSession) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Pin:             s.pin,
		GameID:          s.gameID,
		State:           s.state,
		CurrentQuestion: s.currentQuestion,
		TotalQuestions:  len(s.questions),
		RemainingTime:   s.remainingLocked(),
	}
}

func (s *LiveSession) remainingLocked() int {
	if s.state != StateRunning || s.currentQuestion >= len(s.questions) {
		return 0
	}
	limit := s.questions[s.currentQuestion].TimeLimit
	elapsed := s.now().Sub(s.questionStart).Seconds()
	remaining := limit - int(elapsed)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Start moves the session from WAITING into RUNNING on question 0 and
// opens the first answer window.
func (s *LiveSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateWaiting {
		return ErrInvalidState
	}
	s.state = StateRunning
	s.currentQuestion = 0
	s.questionStart = s.now()
	return nil
}

// Reveal closes the active question and enters SHOWING_RESULTS. The
// question index does not move; statistics are derived by the caller.
// It returns the question whose results should be shown.
func (s *LiveSession) Reveal() (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning || s.currentQuestion >= len(s.questions) {
		return models.Question{}, ErrInvalidState
	}
	s.state = StateShowingResults
	return s.questions[s.currentQuestion], nil
}

// Advance moves to the next question, or to FINISHED past the last one.
// The host flow normally interposes Reveal, but Advance tolerates being
// called straight from RUNNING and acts as if Reveal had just happened.
// Returns whether the game finished and the new index.
func (s *LiveSession) Advance() (finished bool, index int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateShowingResults && s.state != StateRunning {
		return false, s.currentQuestion, ErrInvalidState
	}
	s.currentQuestion++
	if s.currentQuestion >= len(s.questions) {
		s.state = StateFinished
		return true, s.currentQuestion, nil
	}
	s.state = StateRunning
	s.questionStart = s.now()
	return false, s.currentQuestion, nil
}

// ActiveQuestion returns the question players should currently see, or
// false when the session is waiting, finished, or past the end.
func (s *LiveSession) ActiveQuestion() (models.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == StateWaiting || s.state == StateFinished {
		return models.Question{}, false
	}
	if s.currentQuestion >= len(s.questions) {
		return models.Question{}, false
	}
	return s.questions[s.currentQuestion], true
}

func (s *LiveSession) GameID() uint {
	return s.gameID
}

func (s *LiveSession) Pin() string {
	return s.pin
}
