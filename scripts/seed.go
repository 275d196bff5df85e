//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/0x029Ax0/starter-kit-api/internal/auth"
	"github.com/0x029Ax0/starter-kit-api/internal/database"
	"github.com/0x029Ax0/starter-kit-api/pkg/config"
	"github.com/0x029Ax0/starter-kit-api/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	tokenService := auth.NewTokenService(db, cfg.Token.Secret, cfg.Token.Expiry(), cfg.Token.Name)
	authService := auth.NewService(db, tokenService)

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	name := os.Getenv("SEED_NAME")

	if email == "" {
		email = "test@example.com"
	}
	if password == "" {
		password = "testpassword123"
	}
	if name == "" {
		name = "Test Account"
	}

	user, err := authService.Register(context.Background(), auth.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	fmt.Printf("seeded user %s (%s)\n", user.Email, user.ID)
}
