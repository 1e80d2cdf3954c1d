//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/workhive/workhive/internal/auth"
	"github.com/workhive/workhive/internal/database"
	"github.com/workhive/workhive/internal/workspaces"
	"github.com/workhive/workhive/pkg/config"
	"github.com/workhive/workhive/pkg/util"
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

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	account := os.Getenv("SEED_WORKSPACE")

	if email == "" {
		email = "owner@example.com"
	}
	if password == "" {
		password = "owner123!"
	}
	if account == "" {
		account = "demo"
	}

	user, err := authService.Register(context.Background(), auth.RegisterInput{
		FirstName: "Demo",
		LastName:  "Owner",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Printf("Seed user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create seed user: %v", err)
	}

	workspaceService := workspaces.NewService(db)
	ws, err := workspaceService.Create(context.Background(), user.ID, "Demo Workspace", account)
	if err != nil {
		log.Fatalf("failed to create seed workspace: %v", err)
	}

	fmt.Printf("Seed user created successfully!\n")
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Workspace: %s (%s)\n", ws.Title, ws.Account)
}
