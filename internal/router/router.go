// Package router wires the HTTP routes.
package router

import (
	"net/http"

	"boardshelf/backend/internal/auth"
	"boardshelf/backend/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup builds the gin engine with every route.
func Setup(h *handler.Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", h.RegisterUser)
			authRoutes.POST("/login", h.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", h.GetMe)
		}

		// Public catalog routes
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.OptionalAuthMiddleware())
		{
			gameRoutes.GET("", h.GetGames)
			gameRoutes.GET("/filter", h.FilterGames) // Must be before /:id
			gameRoutes.GET("/:id", h.GetGameByID)
		}

		// Library routes (protected, scoped to the caller)
		libraryRoutes := apiV1.Group("/library")
		libraryRoutes.Use(auth.AuthMiddleware())
		{
			libraryRoutes.GET("", h.GetLibrary)
			libraryRoutes.GET("/filter", h.FilterLibraryByPlayers)
			libraryRoutes.GET("/events", h.StreamLibraryEvents)
			libraryRoutes.GET("/exists/:gameId", h.EntryExists)
			libraryRoutes.GET("/:id", h.GetEntry)
			libraryRoutes.POST("", h.CreateEntry)
			libraryRoutes.PATCH("/:id", h.UpdateEntry)
			libraryRoutes.POST("/:id/refresh", h.RefreshEntry)
			libraryRoutes.DELETE("/games/:gameId", h.DeleteEntryByGame)
			libraryRoutes.DELETE("/:id", h.DeleteEntry)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware(h.DB))
		{
			adminGameRoutes := adminRoutes.Group("/games")
			{
				adminGameRoutes.POST("", h.CreateGame)
				adminGameRoutes.PATCH("/:id", h.UpdateGame)
				adminGameRoutes.DELETE("/:id", h.DeleteGame)
			}

			adminRoutes.GET("/library", h.GetAllEntries)
		}
	}

	return router
}
