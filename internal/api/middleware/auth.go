package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/0x029Ax0/starter-kit-api/internal/auth"
	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"gorm.io/gorm"
)

type contextKey string

const sessionKey contextKey = "session"

// Auth requires a valid, unrevoked bearer token and puts the resolved
// session on the request context.
func Auth(tokens *auth.TokenService, db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := resolveSession(r, tokens, db)
			if err != nil {
				writeUnauthenticated(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
		})
	}
}

// OptionalAuth resolves the session when a valid token is presented and
// passes the request through either way.
func OptionalAuth(tokens *auth.TokenService, db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session, err := resolveSession(r, tokens, db); err == nil {
				r = r.WithContext(withSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolveSession(r *http.Request, tokens *auth.TokenService, db *gorm.DB) (*auth.Session, error) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, auth.ErrInvalidToken
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := tokens.Validate(r.Context(), token)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.WithContext(r.Context()).First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, auth.ErrInvalidToken
	}

	return &auth.Session{User: &user, TokenID: claims.TokenID}, nil
}

func withSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession returns the request's session, or nil when unauthenticated.
func GetSession(ctx context.Context) *auth.Session {
	if session, ok := ctx.Value(sessionKey).(*auth.Session); ok {
		return session
	}
	return nil
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": "Unauthenticated",
	})
}
