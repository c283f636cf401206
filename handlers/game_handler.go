package handlers

import (
	"net/http"

	"quizlive/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// --- host endpoints ---

func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(userID.(uint), &req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) Board(c *gin.Context) {
	board, err := h.gameService.Board(c.Param("pin"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *GameHandler) Status(c *gin.Context) {
	status, err := h.gameService.Status(c.Param("pin"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *GameHandler) StartGame(c *gin.Context) {
	if err := h.gameService.Start(c.Param("pin")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *GameHandler) Reveal(c *gin.Context) {
	result, err := h.gameService.Reveal(c.Param("pin"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) NextQuestion(c *gin.Context) {
	result, err := h.gameService.Advance(c.Param("pin"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type changeQuizRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

func (h *GameHandler) ChangeQuiz(c *gin.Context) {
	var req changeQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.gameService.ChangeQuiz(c.Param("pin"), req.QuizID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- player endpoints ---

func (h *GameHandler) JoinGame(c *gin.Context) {
	var req services.JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Pin = c.Param("pin")

	joined, err := h.gameService.Join(&req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, joined)
}

func playerToken(c *gin.Context) (string, bool) {
	token := c.GetHeader("X-Player-Token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player token required"})
		return "", false
	}
	return token, true
}

func (h *GameHandler) PlayerState(c *gin.Context) {
	token, ok := playerToken(c)
	if !ok {
		return
	}

	state, err := h.gameService.State(token)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) PlayerQuestion(c *gin.Context) {
	token, ok := playerToken(c)
	if !ok {
		return
	}

	question, err := h.gameService.Question(token)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	token, ok := playerToken(c)
	if !ok {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gameService.SubmitAnswer(token, &req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) PlayerPodium(c *gin.Context) {
	token, ok := playerToken(c)
	if !ok {
		return
	}

	podium, err := h.gameService.PlayerPodium(token)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, podium)
}
