package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/petaverse-auth/config"
	"github.com/oksasatya/petaverse-auth/internal/container"
	"github.com/oksasatya/petaverse-auth/internal/domain/entity"
	"github.com/oksasatya/petaverse-auth/internal/domain/repository"
	"github.com/oksasatya/petaverse-auth/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := container.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = store.Close(ctx) }()

	email := "demo@petaverse.dev"
	password := "password123"
	name := "demoUser"

	if u, err := store.Users.GetByEmail(ctx, email); err == nil {
		fmt.Printf("user already seeded: id=%s email=%s\n", u.ID, u.Email)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("failed to look up seed user: %v", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{
		Name:        name,
		Email:       email,
		Password:    hash,
		DateOfBirth: time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
		Country:     "ID",
	}
	// seeded accounts skip the OTP round trip
	u.Activate()
	if err := store.Users.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, email, name, password)
}
