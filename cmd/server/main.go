package main

import (
	"context"
	"fmt"
	"log"

	"boardshelf/backend/internal/cache"
	"boardshelf/backend/internal/config"
	"boardshelf/backend/internal/database"
	"boardshelf/backend/internal/handler"
	"boardshelf/backend/internal/hub"
	"boardshelf/backend/internal/router"
	"boardshelf/backend/internal/store"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "boardshelf/backend/docs" // This is important for swag to find the generated docs
)

func init() {
	config.LoadConfig()
}

// @title           Boardshelf API
// @version         1.0
// @description     Board game catalog and per-user libraries (owned games and wishlists).
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	gin.SetMode(cfg.GinMode)

	// Connect to the database
	database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)

	var catalogOpts []store.CatalogOption
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(context.Background(), cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Printf("Warning: game cache disabled: %v", err)
		} else {
			defer client.Close()
			catalogOpts = append(catalogOpts, store.WithGameCache(cache.NewGameCache(client, cfg.CacheTTL)))
			log.Println("Game cache enabled.")
		}
	}

	events := hub.NewHub()
	catalog := store.NewGameCatalog(database.DB, catalogOpts...)
	library := store.NewUserLibrary(database.DB, catalog, store.WithChangeHook(handler.LibraryEventPublisher(events)))

	h := &handler.Handler{
		DB:      database.DB,
		Catalog: catalog,
		Library: library,
		Hub:     events,
	}
	r := router.Setup(h, cfg.AllowedOrigins())

	addr := ":" + cfg.Port
	fmt.Println("Server is running on " + addr)
	fmt.Printf("Swagger UI is available at http://localhost%s/swagger/index.html\n", addr)
	log.Fatal(r.Run(addr))
}
