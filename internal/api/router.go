package api

import (
	"log/slog"
	"net/http"

	"github.com/0x029Ax0/starter-kit-api/internal/api/handlers"
	"github.com/0x029Ax0/starter-kit-api/internal/api/middleware"
	"github.com/0x029Ax0/starter-kit-api/internal/auth"
	"github.com/0x029Ax0/starter-kit-api/internal/storage"
	"github.com/0x029Ax0/starter-kit-api/internal/users"
	"github.com/0x029Ax0/starter-kit-api/pkg/crypto"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Logger         *slog.Logger
	AuthService    *auth.Service
	TokenService   *auth.TokenService
	UserService    *users.Service
	Linker         *auth.Linker
	Providers      *auth.ProviderRegistry
	Encryptor      *crypto.Encryptor
	Avatars        storage.AvatarStore
	StoragePath    string // local directory served under /storage/
	BaseURL        string
	FrontendURL    string
	InProduction   bool
	AllowedOrigins []string // CORS allowed origins
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// CORS - restrict to configured origins, or allow localhost in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.TokenService, cfg.Avatars, cfg.BaseURL, cfg.Logger, cfg.InProduction)
	oauthHandler := handlers.NewOAuthHandler(cfg.Providers, cfg.Linker, cfg.TokenService, cfg.Encryptor, cfg.FrontendURL, cfg.Logger, cfg.InProduction)
	userHandler := handlers.NewUserHandler(cfg.UserService, cfg.BaseURL, cfg.Logger, cfg.InProduction)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Uploaded avatars are served straight off disk
	if cfg.StoragePath != "" {
		fileServer := http.StripPrefix("/storage/", http.FileServer(http.Dir(cfg.StoragePath)))
		r.Get("/storage/*", fileServer.ServeHTTP)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public auth endpoints
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/recover-account", authHandler.RecoverAccount)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Post("/verify-email", authHandler.VerifyEmail)

			// Bearer-token protected
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.TokenService, cfg.DB))

				r.Post("/logout", authHandler.Logout)
				r.Post("/change-password", authHandler.ChangePassword)
				r.Post("/update-profile", authHandler.UpdateProfile)
				r.Post("/delete-account", authHandler.DeleteAccount)
				r.Post("/refresh", authHandler.Refresh)
			})
		})

		r.Route("/oauth", func(r chi.Router) {
			r.Get("/redirect/{provider}", oauthHandler.Redirect)
			r.Get("/callback/{provider}", oauthHandler.Callback)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.OptionalAuth(cfg.TokenService, cfg.DB)).
				Get("/user", userHandler.Current)
			r.Get("/", userHandler.List)
		})
	})

	return &Router{r}
}
