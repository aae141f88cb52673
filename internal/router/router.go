package router

import (
	"log"
	"time"

	"microfeed/internal/handlers"
	"microfeed/internal/middleware"
	"microfeed/internal/models"
	"microfeed/internal/repositories"
	"microfeed/internal/storage"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, media storage.MediaStorage, jwtSecret string, sessionTTL time.Duration) {
	// AutoMigrate PostgreSQL models
	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	profileRepo := repositories.NewPostgresProfileRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)

	// --- Public routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret, sessionTTL)
	authHandler.RegisterAuthRoutes(e)
	log.Println("Auth routes configured.")

	// --- Protected routes (require a session cookie) ---
	app := e.Group("")
	app.Use(middleware.SessionAuth(jwtSecret))
	log.Println("Session authentication middleware applied.")

	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, followRepo, likeRepo, commentRepo)
	feedHandler.RegisterFeedRoutes(app)
	log.Println("Feed routes configured.")

	postHandler := handlers.NewPostHandler(postRepo, media)
	postHandler.RegisterPostRoutes(app)
	log.Println("Post routes configured.")

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo)
	likeHandler.RegisterLikeRoutes(app)
	log.Println("Like routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	commentHandler.RegisterCommentRoutes(app)
	log.Println("Comment routes configured.")

	followHandler := handlers.NewFollowHandler(followRepo, userRepo)
	followHandler.RegisterFollowRoutes(app)
	log.Println("Follow routes configured.")

	profileHandler := handlers.NewProfileHandler(userRepo, profileRepo, postRepo, followRepo, likeRepo, media)
	profileHandler.RegisterProfileRoutes(app)
	log.Println("Profile routes configured.")

	mediaHandler := handlers.NewMediaHandler(media)
	mediaHandler.RegisterMediaRoutes(app)
	log.Println("Media routes configured.")

	log.Println("All routes configured.")
}
