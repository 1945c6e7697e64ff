package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/minegocio/backend/config"
	"github.com/minegocio/backend/internal/app/controller"
	"github.com/minegocio/backend/internal/app/repository"
	"github.com/minegocio/backend/internal/app/service"
	"github.com/minegocio/backend/internal/db"
	"github.com/minegocio/backend/internal/middleware"
	"github.com/minegocio/backend/internal/router"
	"github.com/minegocio/backend/pkg/logger"
	"github.com/minegocio/backend/pkg/mailer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting MiNegocio Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize repositories
	usuarioRepo := repository.NewUsuarioRepository(db.GetDB())
	negocioRepo := repository.NewNegocioRepository(db.GetDB())
	membresiaRepo := repository.NewUsuarioNegocioRepository(db.GetDB())

	// Initialize services
	m := mailer.New(cfg.SMTP)
	authService := service.NewAuthService(
		usuarioRepo,
		m,
		cfg.JWT.Secret,
		cfg.JWT.TokenExpiry,
	)
	negocioService := service.NewNegocioService(
		negocioRepo,
		membresiaRepo,
		usuarioRepo,
		cfg.Admin.UserID,
		db.GetDB(),
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	usuarioController := controller.NewUsuarioController(authService)
	negocioController := controller.NewNegocioController(negocioService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		usuarioController,
		negocioController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
