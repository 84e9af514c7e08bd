package main

import (
	"context"
	"errors"
	"log"

	"userapi/internal/auth"
	"userapi/internal/config"
	"userapi/internal/db"
	apperrors "userapi/internal/errors"
	"userapi/internal/model"
	"userapi/internal/repository"
	"userapi/internal/service"
)

// demo users for local development; same fixtures the handler tests use.
var seedUsers = []struct {
	Username string
	Email    string
	Password string
}{
	{Username: "awesomeman", Email: "cool@hwhip.com", Password: "isawesome"},
	{Username: "thenewguy", Email: "buddy@pal.com", Password: "seemsfriendly"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	sessions := auth.NewSessionCache(nil)
	credentialService := service.NewCredentialService(userRepo, sessions)
	userService := service.NewUserService(userRepo, credentialService, sessions)

	ctx := context.Background()
	created := 0
	for _, u := range seedUsers {
		if _, err := userRepo.FindByEmail(ctx, u.Email); err == nil {
			log.Printf("email %q already registered, skipping", u.Email)
			continue
		}
		if _, err := userService.Signup(ctx, u.Username, u.Email, u.Password); err != nil {
			if errors.Is(err, apperrors.ErrUserConflict) {
				log.Printf("user %q already exists, skipping", u.Username)
				continue
			}
			log.Fatalf("seed user %q: %v", u.Username, err)
		}
		created++
	}

	log.Printf("Seed complete: %d user(s) created", created)
}
