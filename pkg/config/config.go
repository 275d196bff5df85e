package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Token      TokenConfig
	OAuth      OAuthConfig
	Encryption EncryptionConfig
	Storage    StorageConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	BaseURL        string // public base URL, used for absolute asset links
	FrontendURL    string // where OAuth callbacks redirect to
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type TokenConfig struct {
	Secret      string
	ExpiryHours int
	Name        string // display name stamped on issued tokens
}

type OAuthConfig struct {
	GitHub OAuthProviderConfig
	Google OAuthProviderConfig
}

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type EncryptionConfig struct {
	Key string
}

type StorageConfig struct {
	Path string
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (t *TokenConfig) Expiry() time.Duration {
	return time.Duration(t.ExpiryHours) * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("SERVER_BASE_URL", "http://localhost:8080")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "starterkit")
	v.SetDefault("DATABASE_PASSWORD", "starterkit_secret")
	v.SetDefault("DATABASE_NAME", "starterkit")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("TOKEN_SECRET", "change-me-in-production")
	v.SetDefault("TOKEN_EXPIRY_HOURS", 24)
	v.SetDefault("TOKEN_NAME", "starter-kit")
	v.SetDefault("STORAGE_PATH", "storage")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			BaseURL:        v.GetString("SERVER_BASE_URL"),
			FrontendURL:    v.GetString("FRONTEND_URL"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Token: TokenConfig{
			Secret:      v.GetString("TOKEN_SECRET"),
			ExpiryHours: v.GetInt("TOKEN_EXPIRY_HOURS"),
			Name:        v.GetString("TOKEN_NAME"),
		},
		OAuth: OAuthConfig{
			GitHub: OAuthProviderConfig{
				ClientID:     v.GetString("OAUTH_GITHUB_CLIENT_ID"),
				ClientSecret: v.GetString("OAUTH_GITHUB_CLIENT_SECRET"),
				RedirectURL:  v.GetString("OAUTH_GITHUB_REDIRECT_URL"),
			},
			Google: OAuthProviderConfig{
				ClientID:     v.GetString("OAUTH_GOOGLE_CLIENT_ID"),
				ClientSecret: v.GetString("OAUTH_GOOGLE_CLIENT_SECRET"),
				RedirectURL:  v.GetString("OAUTH_GOOGLE_REDIRECT_URL"),
			},
		},
		Encryption: EncryptionConfig{
			Key: v.GetString("ENCRYPTION_KEY"),
		},
		Storage: StorageConfig{
			Path: v.GetString("STORAGE_PATH"),
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
