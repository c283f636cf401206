package services

import (
	"errors"
	"testing"
	"time"

	"quizlive/models"
)

func twoQuestions() []models.Question {
	return []models.Question{
		{ID: 1, Text: "Q1", TimeLimit: 20},
		{ID: 2, Text: "Q2", TimeLimit: 10},
	}
}

func TestSessionLifecycle(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	session := newLiveSessionWithClock("42777", 1, twoQuestions(), clock)

	snap := session.Snapshot()
	if snap.State != StateWaiting || snap.CurrentQuestion != 0 || snap.RemainingTime != 0 {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}

	if err := session.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	now = now.Add(5 * time.Second)
	snap = session.Snapshot()
	if snap.State != StateRunning || snap.CurrentQuestion != 0 || snap.RemainingTime != 15 {
		t.Fatalf("unexpected running snapshot: %+v", snap)
	}

	question, err := session.Reveal()
	if err != nil {
		t.Fatalf("reveal failed: %v", err)
	}
	if question.ID != 1 {
		t.Fatalf("reveal returned question %d, want 1", question.ID)
	}
	snap = session.Snapshot()
	if snap.State != StateShowingResults || snap.CurrentQuestion != 0 {
		t.Fatalf("reveal must not move the index: %+v", snap)
	}
	if snap.RemainingTime != 0 {
		t.Fatalf("remaining time while showing results = %d, want 0", snap.RemainingTime)
	}

	finished, index, err := session.Advance()
	if err != nil || finished {
		t.Fatalf("advance failed: finished=%v err=%v", finished, err)
	}
	if index != 1 {
		t.Fatalf("index after advance = %d, want 1", index)
	}
	snap = session.Snapshot()
	if snap.State != StateRunning || snap.RemainingTime != 10 {
		t.Fatalf("advance must restamp the answer window: %+v", snap)
	}

	if _, err := session.Reveal(); err != nil {
		t.Fatalf("reveal failed: %v", err)
	}
	finished, index, err = session.Advance()
	if err != nil {
		t.Fatalf("final advance failed: %v", err)
	}
	if !finished || index != 2 {
		t.Fatalf("expected finish past the last question, got finished=%v index=%d", finished, index)
	}
	if snap = session.Snapshot(); snap.State != StateFinished {
		t.Fatalf("unexpected final state: %+v", snap)
	}
}

func TestSessionInvalidTransitions(t *testing.T) {
	session := newLiveSession("1111", 1, twoQuestions())

	if _, err := session.Reveal(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("reveal before start = %v, want ErrInvalidState", err)
	}
	if _, _, err := session.Advance(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("advance before start = %v, want ErrInvalidState", err)
	}

	if err := session.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := session.Start(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double start = %v, want ErrInvalidState", err)
	}
}

func TestSessionAdvanceToleratesSkippedReveal(t *testing.T) {
	session := newLiveSession("2222", 1, twoQuestions())
	if err := session.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Advance straight from RUNNING acts as if reveal had happened.
	finished, index, err := session.Advance()
	if err != nil || finished || index != 1 {
		t.Fatalf("advance from running: finished=%v index=%d err=%v", finished, index, err)
	}
}

func TestSessionRemainingTimeClampsToZero(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	session := newLiveSessionWithClock("3333", 1, twoQuestions(), func() time.Time { return now })
	if err := session.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	now = now.Add(45 * time.Second)
	if snap := session.Snapshot(); snap.RemainingTime != 0 {
		t.Fatalf("remaining time past the limit = %d, want 0", snap.RemainingTime)
	}
	// The window expiring is advisory: the session stays RUNNING until
	// the host reveals.
	if snap := session.Snapshot(); snap.State != StateRunning {
		t.Fatalf("expired window must not change state: %+v", snap)
	}
}

func TestSessionActiveQuestion(t *testing.T) {
	session := newLiveSession("4444", 1, twoQuestions())

	if _, ok := session.ActiveQuestion(); ok {
		t.Fatal("waiting session must have no active question")
	}
	if err := session.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	question, ok := session.ActiveQuestion()
	if !ok || question.ID != 1 {
		t.Fatalf("unexpected active question: %+v ok=%v", question, ok)
	}

	session.Advance()
	session.Advance()
	if _, ok := session.ActiveQuestion(); ok {
		t.Fatal("finished session must have no active question")
	}
}
