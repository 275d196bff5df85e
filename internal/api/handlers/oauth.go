package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/0x029Ax0/starter-kit-api/internal/api/dto"
	"github.com/0x029Ax0/starter-kit-api/internal/auth"
	"github.com/0x029Ax0/starter-kit-api/pkg/crypto"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

type OAuthHandler struct {
	providers    *auth.ProviderRegistry
	linker       *auth.Linker
	tokens       *auth.TokenService
	encryptor    *crypto.Encryptor
	frontendURL  string
	logger       *slog.Logger
	inProduction bool
}

func NewOAuthHandler(providers *auth.ProviderRegistry, linker *auth.Linker, tokens *auth.TokenService, encryptor *crypto.Encryptor, frontendURL string, logger *slog.Logger, inProduction bool) *OAuthHandler {
	return &OAuthHandler{
		providers:    providers,
		linker:       linker,
		tokens:       tokens,
		encryptor:    encryptor,
		frontendURL:  frontendURL,
		logger:       logger,
		inProduction: inProduction,
	}
}

// Redirect hands the client the provider's authorization URL. The CSRF state
// is sealed into a short-lived cookie and checked again on the callback.
func (h *OAuthHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providers.Get(chi.URLParam(r, "provider"))
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	state := uuid.NewString()
	sealed, err := h.encryptor.EncryptString(state)
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    sealed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	writeJSON(w, http.StatusOK, dto.RedirectResponse{
		Status:      dto.StatusSuccess,
		RedirectURL: provider.AuthURL(state),
	})
}

// Callback resolves the provider identity against the user table and sends
// the browser to the frontend with a fresh bearer token in the path.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providers.Get(chi.URLParam(r, "provider"))
	if err != nil {
		// Unsupported provider fails before any external call.
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, auth.ErrInvalidOAuthState)
		return
	}
	state, err := h.encryptor.DecryptString(cookie.Value)
	if err != nil || state == "" || state != r.URL.Query().Get("state") {
		writeServiceError(w, h.logger, h.inProduction, auth.ErrInvalidOAuthState)
		return
	}

	// State is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	profile, err := provider.FetchProfile(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	user, err := h.linker.Resolve(r.Context(), provider.Name(), *profile)
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	target := strings.TrimSuffix(h.frontendURL, "/") + "/oauth/callback/" + token
	http.Redirect(w, r, target, http.StatusFound)
}
