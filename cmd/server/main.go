package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"carteira/docs"
	"carteira/internal/auth"
	"carteira/internal/cache"
	"carteira/internal/config"
	"carteira/internal/db"
	"carteira/internal/handler"
	"carteira/internal/model"
	"carteira/internal/oauth"
	"carteira/internal/repository"
	"carteira/internal/router"
	"carteira/internal/service"
	"carteira/internal/storage"
)

// @title Digital Wallet API
// @version 1.0
// @description Digital wallet API with MFA-gated authentication, document storage and a transport card ledger.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Document{},
			&model.TransportCard{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.TransportCard{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	fileStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	documentRepo := repository.NewDocumentRepository(gormDB)
	cardRepo := repository.NewTransportCardRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewPasswordHasher()
	jwtService := auth.NewJWTService(cfg.JWTSecret, time.Duration(cfg.TokenExpiryMinutes)*time.Minute)
	mfaService := auth.NewMFAService(cfg.MFAIssuer)
	oauthRegistry := oauth.NewRegistry(cfg)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, mfaService)
	userService := service.NewUserService(userRepo, cacheClient)
	documentService := service.NewDocumentService(documentRepo, userRepo, fileStorage)
	transportService := service.NewTransportService(cardRepo, userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	mfaHandler := handler.NewMFAHandler(authService)
	oauthHandler := handler.NewOAuthHandler(oauthRegistry, authService, cacheClient, cfg.DevMode)
	userHandler := handler.NewUserHandler(userService)
	documentHandler := handler.NewDocumentHandler(documentService, fileStorage)
	transportHandler := handler.NewTransportHandler(transportService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		mfaHandler,
		oauthHandler,
		userHandler,
		documentHandler,
		transportHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
