package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"quizlive/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the ordered question list for a quiz from
// durable storage. Implemented by QuizService.
type QuestionLoader interface {
	LoadQuestions(quizID uint) ([]models.Question, error)
}

// SessionStore is the single authoritative in-memory table from PIN to
// live session, with lazy materialization. It also keeps the reverse
// index from durable game ID to PIN so player-facing endpoints, which
// only know their game ID, avoid a scan over all sessions.
//
// When a Redis client is configured, every session is mirrored there as
// a TTL'd JSON snapshot. The mirror is best effort and observational;
// the in-process map stays the source of truth.
type SessionStore struct {
	loader QuestionLoader
	redis  *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	mu     sync.RWMutex
	byPin  map[string]*LiveSession
	byGame map[uint]string
	// evictions counts Evict calls per pin. A load in flight captures
	// the count before reading anything and refuses to install its
	// session if an eviction landed in between, so a quiz swap can't be
	// undone by a slow concurrent load.
	evictions map[string]uint64
}

func NewSessionStore(loader QuestionLoader, redisClient *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		loader:    loader,
		redis:     redisClient,
		ttl:       ttl,
		byPin:     make(map[string]*LiveSession),
		byGame:    make(map[uint]string),
		evictions: make(map[string]uint64),
	}
}

var errEnsureRaced = errors.New("session evicted during load")

// Ensure returns the live session for pin, materializing one in WAITING
// if none exists. freshGame must re-read the game row from durable
// storage: the loading path fetches it inside the deduplicated section
// so an eviction mid-load retries against the row as it is now, not as
// the caller saw it. Concurrent callers for the same PIN share one load.
func (s *SessionStore) Ensure(pin string, freshGame func() (*models.Game, error)) (*LiveSession, error) {
	for attempt := 0; attempt < 3; attempt++ {
		s.mu.RLock()
		session, ok := s.byPin[pin]
		evictions := s.evictions[pin]
		s.mu.RUnlock()
		if ok {
			return session, nil
		}

		result, err, _ := s.sf.Do(pin, func() (interface{}, error) {
			s.mu.RLock()
			if session, ok := s.byPin[pin]; ok {
				s.mu.RUnlock()
				return session, nil
			}
			s.mu.RUnlock()

			game, err := freshGame()
			if err != nil {
				return nil, err
			}
			questions, err := s.loader.LoadQuestions(game.QuizID)
			if err != nil {
				return nil, err
			}
			session := newLiveSession(pin, game.ID, questions)

			s.mu.Lock()
			if s.evictions[pin] != evictions {
				s.mu.Unlock()
				return nil, errEnsureRaced
			}
			s.byPin[pin] = session
			s.byGame[game.ID] = pin
			s.mu.Unlock()

			s.Sync(session)
			return session, nil
		})
		if errors.Is(err, errEnsureRaced) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result.(*LiveSession), nil
	}
	return nil, errEnsureRaced
}

// Get is a non-mutating lookup.
func (s *SessionStore) Get(pin string) (*LiveSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byPin[pin]
	return session, ok
}

// FindByGameID resolves a durable game ID back to its live session.
func (s *SessionStore) FindByGameID(gameID uint) (*LiveSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pin, ok := s.byGame[gameID]
	if !ok {
		return nil, false
	}
	session, ok := s.byPin[pin]
	return session, ok
}

// Evict removes the entry for pin, forcing the next Ensure to reload
// questions from durable storage. Safe to call when no entry exists;
// the eviction count still moves so an in-flight load is invalidated.
func (s *SessionStore) Evict(pin string) {
	s.mu.Lock()
	session, ok := s.byPin[pin]
	if ok {
		delete(s.byPin, pin)
		delete(s.byGame, session.gameID)
	}
	s.evictions[pin]++
	s.mu.Unlock()

	if ok && s.redis != nil {
		if err := s.redis.Del(context.Background(), s.key(pin)).Err(); err != nil {
			log.Printf("failed to drop session mirror for %s: %v", pin, err)
		}
	}
}

// Sync refreshes the Redis mirror for a session. Best effort: a mirror
// failure never fails the request that triggered it.
func (s *SessionStore) Sync(session *LiveSession) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(session.Snapshot())
	if err != nil {
		log.Printf("failed to marshal session snapshot for %s: %v", session.pin, err)
		return
	}
	if err := s.redis.Set(context.Background(), s.key(session.pin), data, s.ttl).Err(); err != nil {
		log.Printf("failed to mirror session %s: %v", session.pin, err)
	}
}

func (s *SessionStore) key(pin string) string {
	return "session:" + pin
}
