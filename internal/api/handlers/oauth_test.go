package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0x029Ax0/starter-kit-api/internal/api/dto"
	"github.com/0x029Ax0/starter-kit-api/internal/api/handlers"
	"github.com/0x029Ax0/starter-kit-api/internal/auth"
	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"github.com/0x029Ax0/starter-kit-api/internal/testutil"
	"github.com/0x029Ax0/starter-kit-api/pkg/config"
	"github.com/0x029Ax0/starter-kit-api/pkg/crypto"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeProvider stands in for an external identity provider so callback
// handling can be exercised without network access.
type fakeProvider struct {
	name    string
	profile auth.Profile
	calls   int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (p *fakeProvider) FetchProfile(ctx context.Context, code string) (*auth.Profile, error) {
	p.calls++
	profile := p.profile
	return &profile, nil
}

func setupOAuthTestRouter(t *testing.T, provider *fakeProvider) (*chi.Mux, *gorm.DB, *crypto.Encryptor) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	tokens := testutil.CreateTestTokenService(db)
	linker := auth.NewLinker(db)

	registry := auth.NewProviderRegistry(&config.OAuthConfig{})
	registry.Register(provider)

	encryptor, err := crypto.NewEncryptor("")
	require.NoError(t, err)

	handler := handlers.NewOAuthHandler(registry, linker, tokens, encryptor, "http://localhost:3000", testLogger(), false)

	r := chi.NewRouter()
	r.Get("/api/v1/oauth/redirect/{provider}", handler.Redirect)
	r.Get("/api/v1/oauth/callback/{provider}", handler.Callback)

	return r, db, encryptor
}

func sealedStateCookie(t *testing.T, encryptor *crypto.Encryptor, state string) *http.Cookie {
	t.Helper()

	sealed, err := encryptor.EncryptString(state)
	require.NoError(t, err)
	return &http.Cookie{Name: "oauth_state", Value: sealed}
}

func TestOAuthHandler_Redirect(t *testing.T) {
	provider := &fakeProvider{name: models.ProviderGitHub}
	router, _, _ := setupOAuthTestRouter(t, provider)

	t.Run("returns the provider authorization URL", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/oauth/redirect/github", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.RedirectResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, dto.StatusSuccess, resp.Status)
		assert.Contains(t, resp.RedirectURL, "https://provider.example/authorize?state=")

		var stateCookie *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == "oauth_state" {
				stateCookie = c
			}
		}
		require.NotNil(t, stateCookie)
		assert.True(t, stateCookie.HttpOnly)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/oauth/redirect/facebook", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestOAuthHandler_Callback(t *testing.T) {
	t.Run("first login creates a user and redirects with a token", func(t *testing.T) {
		provider := &fakeProvider{
			name: models.ProviderGitHub,
			profile: auth.Profile{
				ID:        "12345",
				Name:      "Octo Cat",
				Email:     "octo@example.com",
				AvatarURL: "https://avatars.example/octo.png",
			},
		}
		router, db, encryptor := setupOAuthTestRouter(t, provider)

		req := httptest.NewRequest("GET", "/api/v1/oauth/callback/github?code=abc&state=state-1", nil)
		req.AddCookie(sealedStateCookie(t, encryptor, "state-1"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		location := rr.Header().Get("Location")
		assert.True(t, strings.HasPrefix(location, "http://localhost:3000/oauth/callback/"))
		assert.NotEqual(t, "http://localhost:3000/oauth/callback/", location)

		var user models.User
		require.NoError(t, db.First(&user, "email = ?", "octo@example.com").Error)
		assert.Equal(t, models.ProviderGitHub, user.OAuthProvider)
		assert.Equal(t, "12345", user.OAuthProviderID)
		assert.True(t, user.EmailVerified())
	})

	t.Run("repeat login reuses the linked account", func(t *testing.T) {
		provider := &fakeProvider{
			name: models.ProviderGitHub,
			profile: auth.Profile{
				ID:    "12345",
				Name:  "Octo Cat",
				Email: "octo@example.com",
			},
		}
		router, db, encryptor := setupOAuthTestRouter(t, provider)

		for _, state := range []string{"state-1", "state-2"} {
			req := httptest.NewRequest("GET", "/api/v1/oauth/callback/github?code=abc&state="+state, nil)
			req.AddCookie(sealedStateCookie(t, encryptor, state))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			require.Equal(t, http.StatusFound, rr.Code)
		}

		var count int64
		db.Model(&models.User{}).Where("email = ?", "octo@example.com").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("provider mismatch is rejected", func(t *testing.T) {
		provider := &fakeProvider{
			name: models.ProviderGitHub,
			profile: auth.Profile{
				ID:    "999",
				Name:  "Conflicted",
				Email: "conflict@example.com",
			},
		}
		router, db, encryptor := setupOAuthTestRouter(t, provider)

		existing := testutil.CreateTestUser(t, db, "conflict@example.com")
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"oauth_provider":    models.ProviderGoogle,
			"oauth_provider_id": "google-1",
		}).Error)

		req := httptest.NewRequest("GET", "/api/v1/oauth/callback/github?code=abc&state=state-1", nil)
		req.AddCookie(sealedStateCookie(t, encryptor, "state-1"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing state cookie", func(t *testing.T) {
		provider := &fakeProvider{name: models.ProviderGitHub}
		router, _, _ := setupOAuthTestRouter(t, provider)

		req := httptest.NewRequest("GET", "/api/v1/oauth/callback/github?code=abc&state=state-1", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Zero(t, provider.calls)
	})

	t.Run("state mismatch", func(t *testing.T) {
		provider := &fakeProvider{name: models.ProviderGitHub}
		router, _, encryptor := setupOAuthTestRouter(t, provider)

		req := httptest.NewRequest("GET", "/api/v1/oauth/callback/github?code=abc&state=tampered", nil)
		req.AddCookie(sealedStateCookie(t, encryptor, "state-1"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Zero(t, provider.calls)
	})

	t.Run("unsupported provider fails before any provider call", func(t *testing.T) {
		provider := &fakeProvider{name: models.ProviderGitHub}
		router, _, encryptor := setupOAuthTestRouter(t, provider)

		req := httptest.NewRequest("GET", "/api/v1/oauth/callback/facebook?code=abc&state=state-1", nil)
		req.AddCookie(sealedStateCookie(t, encryptor, "state-1"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Zero(t, provider.calls)
	})
}
