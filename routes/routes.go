package routes

import (
	"net/http"

	"quizlive/handlers"
	"quizlive/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	gameHandler *handlers.GameHandler,
	jwtSecret string,
) {
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Host routes (Bearer JWT)
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			quizzes := protected.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.GetUserQuizzes)
				quizzes.POST("", quizHandler.CreateQuiz)
				quizzes.GET("/:id", quizHandler.GetQuizByID)
				quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
			}

			games := protected.Group("/games")
			{
				games.POST("", gameHandler.CreateGame)
				games.GET("/:pin", gameHandler.Board)
				games.GET("/:pin/status", gameHandler.Status)
				games.POST("/:pin/start", gameHandler.StartGame)
				games.POST("/:pin/reveal", gameHandler.Reveal)
				games.POST("/:pin/next", gameHandler.NextQuestion)
				games.POST("/:pin/quiz", gameHandler.ChangeQuiz)
			}
		}

		// Player routes: join is open, the rest authenticate with the
		// opaque player token handed out at join time.
		api.POST("/games/:pin/join", gameHandler.JoinGame)

		play := api.Group("/play")
		{
			play.GET("/state", gameHandler.PlayerState)
			play.GET("/question", gameHandler.PlayerQuestion)
			play.POST("/answer", gameHandler.SubmitAnswer)
			play.GET("/podium", gameHandler.PlayerPodium)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
