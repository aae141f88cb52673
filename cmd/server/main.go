package main

import (
	"context"
	"log"

	"microfeed/internal/render"
	"microfeed/internal/router"
	"microfeed/internal/storage"
	"microfeed/pkg/config"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	// Initialize media storage
	if cfg.MinioEndpoint == "" {
		log.Fatalf("MINIO_ENDPOINT environment variable not set")
	}
	media, err := storage.NewMinIOStorage(
		context.Background(),
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
		cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.Renderer = render.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db, media, cfg.JWTSecret, cfg.SessionTTL)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
