package routes

import (
	"math/rand"

	"gartictext/controllers"
	"gartictext/middleware"
	"gartictext/services/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient, rng *rand.Rand) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	api.GET("/ping", controllers.Ping)

	// Local accounts
	api.POST("/auth/signup", controllers.SignUp(db))
	api.POST("/auth/login", controllers.Login(db))

	// Users
	users := api.Group("/users")
	{
		users.POST("", controllers.EnsureUser(db))
		users.GET("", controllers.GetAllUsers(db))
		users.GET("/:id", controllers.GetUser(db))
		users.PATCH("/:id", controllers.UpdateUser(db))
		users.DELETE("/:id", controllers.DeleteUser(db))
	}

	// Games
	games := api.Group("/games")
	{
		games.GET("/query", controllers.QueryGames(db))
		games.GET("/:gameId", controllers.GetGame(db))
		games.GET("/:gameId/lobbyInfo", controllers.LobbyInfo(db, redisClient))
		games.GET("/:gameId/promptInfo", controllers.PromptInfo(db, redisClient))

		// Anonymous variants identify the guest by body/session, not token
		games.PUT("/join/:gameId/nauth", controllers.JoinGameAnon(db, redisClient))
		games.PUT("/leave/:gameId/nauth", controllers.LeaveGameAnon(db, redisClient))

		games.POST("/:gameId/end", controllers.EndGame(db, redisClient))

		authed := games.Group("")
		authed.Use(middleware.AuthRequired)
		{
			authed.POST("", controllers.CreateGame(db, redisClient))
			authed.PUT("/join/:gameId/auth", controllers.JoinGameAuth(db, redisClient))
			authed.PUT("/leave/:gameId/auth", controllers.LeaveGameAuth(db, redisClient))
			// Settings patch or, with promptString, the round's prompt
			authed.PUT("/:gameId", controllers.UpdateGame(db, redisClient))
			authed.PUT("/:gameId/start", controllers.StartGame(db, redisClient, rng))
		}
	}

	// Prompts
	prompts := api.Group("/prompts")
	{
		prompts.POST("", middleware.AuthRequired, controllers.CreatePrompt(db))
		prompts.GET("/round/:roundId", controllers.GetPromptsByRound(db))
		prompts.POST("/round/:roundId/assign", controllers.AssignPrompts(db, rng))
		prompts.GET("/round/:roundId/user/:userId", controllers.GetAssignedPrompt(db))
	}

	// Images
	images := api.Group("/images")
	{
		images.POST("", middleware.AuthRequired, controllers.CreateImage(db, redisClient))
		images.GET("/latest", controllers.GetLatestImage(db))
		images.GET("/round/:roundId", controllers.GetImagesByRound(db))
		images.GET("/assigned/:gameId", controllers.GetAssignedImage(db))
		images.GET("/:id", controllers.GetImage(db))
		images.GET("/:id/original", controllers.GetOriginalImage(db))
		images.GET("/:id/enhanced", controllers.GetEnhancedImage(db))
		images.PUT("/:id/enhanced", controllers.UpdateEnhancedImage(db))
		images.GET("/:id/captioned", controllers.GetCaptionedImage(db))
		images.PUT("/:id/captioned", controllers.UpdateCaptionedImage(db))
		images.PUT("/:id/vote", controllers.VoteImage(db))
	}

	// Captions
	captions := api.Group("/captions")
	{
		captions.POST("", middleware.AuthRequired, controllers.CreateCaption(db, redisClient))
		captions.GET("/image/:imageId", controllers.GetCaptionsByImage(db))
		captions.GET("/round/:roundId", controllers.GetCaptionsByRound(db))
		captions.GET("/:id", controllers.GetCaption(db))
		captions.PUT("/:id/vote", controllers.VoteCaption(db, redisClient))
	}

	// Results
	api.GET("/results/games/:gameId", controllers.GetGameResults(db))

	// Admin maintenance
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired)
	{
		admin.POST("/cleanup-temp-users", controllers.CleanupTempUsers(db))
		admin.GET("/temp-users", controllers.ListTempUsers(db))
	}
}
