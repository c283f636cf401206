package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quizlive/handlers"
	"quizlive/models"
	"quizlive/routes"
	"quizlive/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "quizlive.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{}, &models.Quiz{}, &models.Question{}, &models.Option{},
		&models.Game{}, &models.Player{}, &models.Answer{},
	)
	if err != nil {
		t.Fatalf("migrating: %v", err)
	}

	authService := services.NewAuthService(db, "test-secret")
	quizService := services.NewQuizService(db)
	store := services.NewSessionStore(quizService, nil, time.Hour)
	gameService := services.NewGameService(db, store, services.NewScorer(services.ScoringModeSpeed), quizService)

	router := gin.New()
	routes.SetupRoutes(
		router,
		handlers.NewAuthHandler(authService),
		handlers.NewQuizHandler(quizService),
		handlers.NewGameHandler(gameService),
		"test-secret",
	)
	return router, db
}

func seedJoinableGame(t *testing.T, db *gorm.DB, pin string) {
	t.Helper()

	user := models.User{Username: "host", Email: "host@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	quiz, err := services.NewQuizService(db).CreateQuiz(user.ID, &services.CreateQuizRequest{
		Title: "Capitals",
		Questions: []services.CreateQuestionRequest{
			{
				Text: "Capital of France?",
				Options: []services.CreateOptionRequest{
					{Text: "Paris", IsCorrect: true},
					{Text: "Lyon"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("seeding quiz: %v", err)
	}
	game := models.Game{QuizID: quiz.ID, Pin: pin, Status: models.GameStatusWaiting}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("seeding game: %v", err)
	}
}

// The join body carries only the player name; the pin comes from the URL.
func TestJoinGameTakesPinFromPath(t *testing.T) {
	router, db := newTestRouter(t)
	seedJoinableGame(t, db, "42777")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/games/42777/join",
		strings.NewReader(`{"name":"ada"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("join returned %d: %s", rec.Code, rec.Body.String())
	}
	var joined services.JoinGameResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &joined); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if joined.Token == "" || joined.Name != "ada" {
		t.Fatalf("unexpected join response: %+v", joined)
	}
}

func TestJoinGameIgnoresPinInBody(t *testing.T) {
	router, db := newTestRouter(t)
	seedJoinableGame(t, db, "42777")

	// A pin smuggled into the body does not override the URL.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/games/99999/join",
		strings.NewReader(`{"name":"ada","pin":"42777"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("join on unknown pin returned %d, want 404", rec.Code)
	}
}

func TestJoinGameRequiresName(t *testing.T) {
	router, db := newTestRouter(t)
	seedJoinableGame(t, db, "42777")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/games/42777/join",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("join without a name returned %d, want 400", rec.Code)
	}
}
