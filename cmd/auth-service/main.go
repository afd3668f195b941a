package main // auth-service entry point

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/live-commerce-backend/internal/config"
	"github.com/iliyamo/live-commerce-backend/internal/database"
	"github.com/iliyamo/live-commerce-backend/internal/handler"
	"github.com/iliyamo/live-commerce-backend/internal/middleware"
	"github.com/iliyamo/live-commerce-backend/internal/repository"
	"github.com/iliyamo/live-commerce-backend/internal/router"
	"github.com/iliyamo/live-commerce-backend/internal/server"
	"github.com/iliyamo/live-commerce-backend/internal/service"
)

func main() {
	cfg := config.Load()
	authCfg := config.LoadAuthConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("db: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	auth := service.NewAuthService(authCfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))

	e := server.New(config.LoadCORSConfig())
	// Throttle credential guessing per client IP.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterAuth(e, handler.NewAuthHandler(auth), authCfg.JWTSecret)

	log.Printf("auth-service starting (env=%s)", cfg.Env)
	if err := server.Run(e, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
}
