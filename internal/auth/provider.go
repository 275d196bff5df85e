package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"github.com/0x029Ax0/starter-kit-api/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// ProviderClient is one external identity provider: it produces the
// authorization URL and turns a callback code into a Profile.
type ProviderClient interface {
	Name() string
	AuthURL(state string) string
	FetchProfile(ctx context.Context, code string) (*Profile, error)
}

// ProviderRegistry holds the configured providers. Lookup of an unknown
// name fails before any network call is made.
type ProviderRegistry struct {
	providers map[string]ProviderClient
}

func NewProviderRegistry(cfg *config.OAuthConfig) *ProviderRegistry {
	r := &ProviderRegistry{providers: make(map[string]ProviderClient)}

	r.Register(&oauthProvider{
		name: models.ProviderGitHub,
		config: &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  cfg.GitHub.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		userInfoURL: "https://api.github.com/user",
	})

	r.Register(&oauthProvider{
		name: models.ProviderGoogle,
		config: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	})

	return r
}

func (r *ProviderRegistry) Register(p ProviderClient) {
	r.providers[p.Name()] = p
}

func (r *ProviderRegistry) Get(name string) (ProviderClient, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	return p, nil
}

type oauthProvider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
}

func (p *oauthProvider) Name() string {
	return p.name
}

func (p *oauthProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// FetchProfile exchanges the authorization code and fetches the user's
// profile from the provider's userinfo endpoint.
func (p *oauthProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	resp, err := p.config.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching profile: unexpected status %s", resp.Status)
	}

	// GitHub and Google disagree on field names; decode the union.
	var raw struct {
		ID        json.Number `json:"id"`
		Name      string      `json:"name"`
		Email     string      `json:"email"`
		Login     string      `json:"login"`      // github handle
		AvatarURL string      `json:"avatar_url"` // github
		Picture   string      `json:"picture"`    // google
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	profile := &Profile{
		ID:        raw.ID.String(),
		Name:      raw.Name,
		Email:     raw.Email,
		AvatarURL: raw.AvatarURL,
	}
	if profile.Name == "" {
		profile.Name = raw.Login
	}
	if profile.AvatarURL == "" {
		profile.AvatarURL = raw.Picture
	}

	return profile, nil
}

var _ ProviderClient = (*oauthProvider)(nil)
