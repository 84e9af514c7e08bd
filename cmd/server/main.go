package main

import (
	"context"
	"log"
	"net/http"

	_ "userapi/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"userapi/internal/auth"
	"userapi/internal/cache"
	"userapi/internal/config"
	"userapi/internal/db"
	"userapi/internal/handler"
	"userapi/internal/model"
	"userapi/internal/repository"
	"userapi/internal/router"
	"userapi/internal/service"
)

// @title User Account API
// @version 1.0
// @description Minimal account service: signup, basic-auth login issuing bearer tokens, authenticated account update and deletion.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.basic BasicAuth
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from /login.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("redis unreachable, token resolution will skip caching: %v", err)
	}
	sessions := auth.NewSessionCache(cacheClient)

	userRepo := repository.NewUserRepository(gormDB)
	tokenService := auth.NewTokenService(cfg.AppSecret)

	credentialService := service.NewCredentialService(userRepo, sessions)
	authService := service.NewAuthService(userRepo, credentialService, tokenService, sessions)
	userService := service.NewUserService(userRepo, credentialService, sessions)

	userHandler := handler.NewUserHandler(userService, authService)
	authHandler := handler.NewAuthHandler(authService)

	router.Register(e, cfg, userHandler, authHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
