package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0x029Ax0/starter-kit-api/internal/api"
	"github.com/0x029Ax0/starter-kit-api/internal/auth"
	"github.com/0x029Ax0/starter-kit-api/internal/database"
	"github.com/0x029Ax0/starter-kit-api/internal/storage"
	"github.com/0x029Ax0/starter-kit-api/internal/users"
	"github.com/0x029Ax0/starter-kit-api/pkg/config"
	"github.com/0x029Ax0/starter-kit-api/pkg/crypto"
	"github.com/0x029Ax0/starter-kit-api/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting starter-kit API",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize services
	tokenService := auth.NewTokenService(db, cfg.Token.Secret, cfg.Token.Expiry(), cfg.Token.Name)
	authService := auth.NewService(db, tokenService)
	userService := users.NewService(db)
	linker := auth.NewLinker(db)
	providers := auth.NewProviderRegistry(&cfg.OAuth)

	// Encryptor seals the OAuth state cookie
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}
	if cfg.Encryption.Key == "" {
		logger.Warn("ENCRYPTION_KEY not set, using generated key - in-flight OAuth logins will break on restart")
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Logger:         logger,
		AuthService:    authService,
		TokenService:   tokenService,
		UserService:    userService,
		Linker:         linker,
		Providers:      providers,
		Encryptor:      encryptor,
		Avatars:        storage.NewDiskStore(cfg.Storage.Path),
		StoragePath:    cfg.Storage.Path,
		BaseURL:        cfg.Server.BaseURL,
		FrontendURL:    cfg.Server.FrontendURL,
		InProduction:   cfg.Server.IsProduction(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Close database connection
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}
