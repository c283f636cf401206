package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"
	"time"

	"quizlive/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameService drives live games: host transitions mutate the session
// store, player submissions go through the answer ingestion path, and
// polling endpoints read session snapshots plus durable scores.
type GameService struct {
	db      *gorm.DB
	store   *SessionStore
	scorer  *Scorer
	quizzes *QuizService

	// answerLocks serializes submissions per (player, question) so the
	// duplicate check and the insert act as one step. Entries are dropped
	// after each attempt; the composite unique index on answers backs up
	// the rare overlap between a waiter and a fresh lock holder.
	answerLocks sync.Map
}

func NewGameService(db *gorm.DB, store *SessionStore, scorer *Scorer, quizzes *QuizService) *GameService {
	return &GameService{
		db:      db,
		store:   store,
		scorer:  scorer,
		quizzes: quizzes,
	}
}

type CreateGameRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

// JoinGameRequest carries the join body. The pin comes from the URL,
// never the body, so the two can't disagree.
type JoinGameRequest struct {
	Pin  string `json:"-"`
	Name string `json:"name" binding:"required"`
}

type JoinGameResponse struct {
	PlayerID uint   `json:"player_id"`
	Token    string `json:"token"`
	GameID   uint   `json:"game_id"`
	Name     string `json:"name"`
}

type SubmitAnswerRequest struct {
	QuestionID   uint    `json:"question_id" binding:"required"`
	OptionID     uint    `json:"option_id" binding:"required"`
	ResponseTime float64 `json:"response_time"`
}

type AnswerResult struct {
	Accepted  bool `json:"accepted"`
	IsCorrect bool `json:"is_correct"`
	Points    int  `json:"points"`
}

type HostStatus struct {
	Players         []models.Player `json:"players"`
	TotalPlayers    int             `json:"total_players"`
	State           string          `json:"state"`
	CurrentQuestion int             `json:"current_question"`
	RemainingTime   int             `json:"remaining_time"`
}

type HostBoard struct {
	Pin            string          `json:"pin"`
	QuizID         uint            `json:"quiz_id"`
	State          string          `json:"state"`
	Players        []models.Player `json:"players"`
	TotalQuestions int             `json:"total_questions"`
	Quizzes        []QuizSummary   `json:"quizzes"`
}

type PlayerState struct {
	State           string `json:"state"`
	CurrentQuestion int    `json:"current_question"`
	RemainingTime   int    `json:"remaining_time"`
	MyScore         int    `json:"my_score"`
	Redirect        string `json:"redirect,omitempty"`
}

type PublicOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
	// IsCorrect is deliberately absent while the question is live.
}

type QuestionView struct {
	ID              uint           `json:"id"`
	Text            string         `json:"text"`
	Type            string         `json:"type"`
	ImageURL        string         `json:"image_url,omitempty"`
	Number          int            `json:"number"`
	Total           int            `json:"total"`
	TimeLimit       int            `json:"time_limit"`
	RemainingTime   int            `json:"remaining_time"`
	Options         []PublicOption `json:"options"`
	AlreadyAnswered bool           `json:"already_answered"`
}

type RevealResult struct {
	Statistics QuestionStats   `json:"statistics"`
	Ranking    []models.Player `json:"ranking"`
}

type AdvanceResult struct {
	Finished       bool `json:"finished"`
	QuestionNumber int  `json:"question_number"`
	Total          int  `json:"total"`
}

type PodiumView struct {
	Podium     Podium          `json:"podium"`
	Ranking    []models.Player `json:"ranking"`
	MyPosition int             `json:"my_position"`
}

// CreateGame opens a new game row with a fresh PIN for one of the
// host's quizzes.
func (s *GameService) CreateGame(userID uint, req *CreateGameRequest) (*models.Game, error) {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND user_id = ?", req.QuizID, userID).First(&quiz).Error; err != nil {
		return nil, ErrQuizNotFound
	}

	game := models.Game{
		QuizID: req.QuizID,
		Status: models.GameStatusWaiting,
	}
	for attempt := 0; attempt < 5; attempt++ {
		game.Pin = generatePin()
		err := s.db.Create(&game).Error
		if err == nil {
			return &game, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, errors.New("could not allocate a unique pin")
}

// generatePin returns a 6-digit numeric room code.
func generatePin() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%d", n.Int64()+100000)
}

// GetGameByPin looks up the durable game row, case-insensitively.
func (s *GameService) GetGameByPin(pin string) (*models.Game, error) {
	var game models.Game
	err := s.db.Where("LOWER(pin) = ?", strings.ToLower(pin)).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// Board prepares the host control panel: it revives finished games with
// a destructive reset, lazily materializes the live session, and returns
// players plus the quiz list for the change-quiz selector.
func (s *GameService) Board(pin string) (*HostBoard, error) {
	game, err := s.GetGameByPin(pin)
	if err != nil {
		return nil, err
	}

	// Revisiting a finished PIN restarts it with the same quiz.
	if game.Status == models.GameStatusFinished {
		log.Printf("restarting finished game %s", game.Pin)
		if err := s.resetGame(game.ID); err != nil {
			return nil, err
		}
		s.store.Evict(game.Pin)
		game.Status = models.GameStatusWaiting
	}

	session, err := s.ensureSession(game.Pin)
	if err != nil {
		return nil, err
	}
	snap := session.Snapshot()

	players, err := s.playersOf(game.ID)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.quizzes.ListAll()
	if err != nil {
		return nil, err
	}

	return &HostBoard{
		Pin:            game.Pin,
		QuizID:         game.QuizID,
		State:          snap.State,
		Players:        players,
		TotalQuestions: snap.TotalQuestions,
		Quizzes:        quizzes,
	}, nil
}

// Join registers a player in a game that has not finished and hands
// back the opaque token used by every player endpoint afterwards.
func (s *GameService) Join(req *JoinGameRequest) (*JoinGameResponse, error) {
	game, err := s.GetGameByPin(strings.TrimSpace(req.Pin))
	if err != nil {
		return nil, err
	}
	if game.Status == models.GameStatusFinished {
		return nil, ErrInvalidState
	}

	var existing models.Player
	if err := s.db.Where("game_id = ? AND name = ?", game.ID, req.Name).First(&existing).Error; err == nil {
		return nil, ErrNameTaken
	}

	player := models.Player{
		GameID:   game.ID,
		Name:     req.Name,
		Token:    uuid.NewString(),
		Score:    0,
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(&player).Error; err != nil {
		return nil, err
	}

	return &JoinGameResponse{
		PlayerID: player.ID,
		Token:    player.Token,
		GameID:   game.ID,
		Name:     player.Name,
	}, nil
}

// Start moves a waiting game onto question 0.
func (s *GameService) Start(pin string) error {
	game, err := s.GetGameByPin(pin)
	if err != nil {
		return err
	}

	session, err := s.ensureSession(game.Pin)
	if err != nil {
		return err
	}
	if err := session.Start(); err != nil {
		return err
	}
	s.store.Sync(session)

	if err := s.setGameStatus(game.ID, models.GameStatusRunning); err != nil {
		return err
	}
	log.Printf("game %s started with %d questions", game.Pin, session.Snapshot().TotalQuestions)
	return nil
}

// Reveal closes the current question and returns its statistics plus a
// top-5 ranking snapshot for the host screen.
func (s *GameService) Reveal(pin string) (*RevealResult, error) {
	session, ok := s.store.Get(strings.ToLower(pin))
	if !ok {
		return nil, ErrSessionNotFound
	}
	question, err := session.Reveal()
	if err != nil {
		return nil, err
	}
	s.store.Sync(session)

	var answers []models.Answer
	if err := s.db.Where("game_id = ? AND question_id = ?", session.GameID(), question.ID).
		Find(&answers).Error; err != nil {
		return nil, err
	}

	stats := QuestionStatistics(answers, question.Options)

	ranking, err := Rank(s.db, session.GameID())
	if err != nil {
		return nil, err
	}
	if len(ranking) > 5 {
		ranking = ranking[:5]
	}

	return &RevealResult{Statistics: stats, Ranking: ranking}, nil
}

// Advance moves to the next question, or finishes the game past the
// last one, in which case the durable row is marked finished too.
func (s *GameService) Advance(pin string) (*AdvanceResult, error) {
	session, ok := s.store.Get(strings.ToLower(pin))
	if !ok {
		return nil, ErrSessionNotFound
	}
	finished, index, err := session.Advance()
	if err != nil {
		return nil, err
	}
	s.store.Sync(session)

	snap := session.Snapshot()
	if finished {
		if err := s.setGameStatus(session.GameID(), models.GameStatusFinished); err != nil {
			return nil, err
		}
		log.Printf("game %s finished after %d questions", pin, snap.TotalQuestions)
		return &AdvanceResult{Finished: true, Total: snap.TotalQuestions}, nil
	}
	return &AdvanceResult{
		Finished:       false,
		QuestionNumber: index + 1,
		Total:          snap.TotalQuestions,
	}, nil
}

// ChangeQuiz swaps which quiz a PIN plays. Destructive: the game row
// returns to waiting, all players and answers are deleted, and the live
// session is evicted so the next access reloads the new question list.
func (s *GameService) ChangeQuiz(pin string, quizID uint) error {
	game, err := s.GetGameByPin(pin)
	if err != nil {
		return err
	}
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return ErrQuizNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Game{}).Where("id = ?", game.ID).
			Updates(map[string]interface{}{"quiz_id": quizID, "status": models.GameStatusWaiting}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", game.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Where("game_id = ?", game.ID).Delete(&models.Player{}).Error
	})
	if err != nil {
		return err
	}

	s.store.Evict(game.Pin)
	log.Printf("game %s switched to quiz %d, state reset", game.Pin, quizID)
	return nil
}

// Status is the host polling read: players, phase, question index and
// remaining seconds. Falls back to the durable status when no live
// session exists (e.g. after a process restart).
func (s *GameService) Status(pin string) (*HostStatus, error) {
	game, err := s.GetGameByPin(pin)
	if err != nil {
		return nil, err
	}
	players, err := s.playersOf(game.ID)
	if err != nil {
		return nil, err
	}

	status := &HostStatus{
		Players:      players,
		TotalPlayers: len(players),
		State:        game.Status,
	}
	if session, ok := s.store.Get(game.Pin); ok {
		snap := session.Snapshot()
		status.State = snap.State
		status.CurrentQuestion = snap.CurrentQuestion
		status.RemainingTime = snap.RemainingTime
	}
	return status, nil
}

// State is the player polling read. A player only knows their durable
// game id, so the session is found through the store's reverse index;
// when that misses, the durable row is authoritative and the player
// keeps waiting.
func (s *GameService) State(token string) (*PlayerState, error) {
	player, err := s.FindPlayer(token)
	if err != nil {
		return nil, err
	}

	session, ok := s.store.FindByGameID(player.GameID)
	if !ok {
		return &PlayerState{State: StateWaiting, MyScore: player.Score}, nil
	}

	snap := session.Snapshot()
	if snap.State == StateFinished || snap.CurrentQuestion >= snap.TotalQuestions {
		return &PlayerState{
			State:    StateFinished,
			MyScore:  player.Score,
			Redirect: "/podium",
		}, nil
	}
	return &PlayerState{
		State:           snap.State,
		CurrentQuestion: snap.CurrentQuestion,
		RemainingTime:   snap.RemainingTime,
		MyScore:         player.Score,
	}, nil
}

// Question returns what the player should currently render, with the
// correct-answer flags stripped from the options.
func (s *GameService) Question(token string) (*QuestionView, error) {
	player, err := s.FindPlayer(token)
	if err != nil {
		return nil, err
	}
	session, ok := s.store.FindByGameID(player.GameID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	question, ok := session.ActiveQuestion()
	if !ok {
		return nil, ErrInvalidState
	}
	snap := session.Snapshot()

	options := make([]PublicOption, len(question.Options))
	for i, option := range question.Options {
		options[i] = PublicOption{ID: option.ID, Text: option.Text}
	}

	var answered int64
	if err := s.db.Model(&models.Answer{}).
		Where("player_id = ? AND question_id = ?", player.ID, question.ID).
		Count(&answered).Error; err != nil {
		return nil, err
	}

	return &QuestionView{
		ID:              question.ID,
		Text:            question.Text,
		Type:            question.Type,
		ImageURL:        question.ImageURL,
		Number:          snap.CurrentQuestion + 1,
		Total:           snap.TotalQuestions,
		TimeLimit:       question.TimeLimit,
		RemainingTime:   snap.RemainingTime,
		Options:         options,
		AlreadyAnswered: answered > 0,
	}, nil
}

// SubmitAnswer is the ingestion guard. At most one scored answer may
// exist per (player, question): the check and the write run under a
// per-pair lock, and the answer insert plus the score increment commit
// in one transaction or not at all.
func (s *GameService) SubmitAnswer(token string, req *SubmitAnswerRequest) (*AnswerResult, error) {
	player, err := s.FindPlayer(token)
	if err != nil {
		return nil, err
	}

	var question models.Question
	if err := s.db.First(&question, req.QuestionID).Error; err != nil {
		return nil, ErrQuestionNotFound
	}
	var option models.Option
	if err := s.db.First(&option, req.OptionID).Error; err != nil {
		return nil, ErrOptionNotFound
	}
	if option.QuestionID != question.ID {
		return nil, ErrOptionNotFound
	}

	// Zero is a truthful instant answer and scores at the top of the
	// range. Only a negative value is garbage; it collapses to the time
	// limit so the answer still counts at the floor.
	responseTime := req.ResponseTime
	if responseTime < 0 {
		responseTime = float64(question.TimeLimit)
	}

	key := fmt.Sprintf("%d/%d", player.ID, question.ID)
	lock, _ := s.answerLocks.LoadOrStore(key, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer func() {
		mu.Unlock()
		s.answerLocks.Delete(key)
	}()

	var count int64
	if err := s.db.Model(&models.Answer{}).
		Where("player_id = ? AND question_id = ?", player.ID, question.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyAnswered
	}

	points := s.scorer.Score(option.IsCorrect, responseTime, float64(question.TimeLimit))

	err = s.db.Transaction(func(tx *gorm.DB) error {
		answer := models.Answer{
			GameID:       player.GameID,
			PlayerID:     player.ID,
			QuestionID:   question.ID,
			OptionID:     option.ID,
			IsCorrect:    option.IsCorrect,
			ResponseTime: responseTime,
			Points:       points,
		}
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		if points > 0 {
			return tx.Model(&models.Player{}).Where("id = ?", player.ID).
				Update("score", gorm.Expr("score + ?", points)).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyAnswered
		}
		log.Printf("failed to record answer for player %d question %d: %v", player.ID, question.ID, err)
		return nil, err
	}

	return &AnswerResult{Accepted: true, IsCorrect: option.IsCorrect, Points: points}, nil
}

// PlayerPodium builds the final screen for one player: full ranking,
// top-3 podium and the player's own position.
func (s *GameService) PlayerPodium(token string) (*PodiumView, error) {
	player, err := s.FindPlayer(token)
	if err != nil {
		return nil, err
	}
	ranking, err := Rank(s.db, player.GameID)
	if err != nil {
		return nil, err
	}

	position := 0
	for i, p := range ranking {
		if p.ID == player.ID {
			position = i + 1
			break
		}
	}

	return &PodiumView{
		Podium:     BuildPodium(ranking),
		Ranking:    ranking,
		MyPosition: position,
	}, nil
}

// ensureSession materializes the live session for pin, re-reading the
// game row on each load attempt so a concurrent quiz swap is picked up.
func (s *GameService) ensureSession(pin string) (*LiveSession, error) {
	return s.store.Ensure(pin, func() (*models.Game, error) {
		return s.GetGameByPin(pin)
	})
}

// FindPlayer resolves a durable player token.
func (s *GameService) FindPlayer(token string) (*models.Player, error) {
	var player models.Player
	err := s.db.Where("token = ?", token).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *GameService) playersOf(gameID uint) ([]models.Player, error) {
	var players []models.Player
	err := s.db.Where("game_id = ?", gameID).Order("id ASC").Find(&players).Error
	return players, err
}

func (s *GameService) setGameStatus(gameID uint, status string) error {
	return s.db.Model(&models.Game{}).Where("id = ?", gameID).Update("status", status).Error
}

// resetGame deletes the game's players and answers and returns the row
// to waiting, keeping the same quiz.
func (s *GameService) resetGame(gameID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", gameID).Delete(&models.Player{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Game{}).Where("id = ?", gameID).
			Update("status", models.GameStatusWaiting).Error
	})
}
