package main // reservation-service entry point

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/live-commerce-backend/internal/client"
	"github.com/iliyamo/live-commerce-backend/internal/config"
	"github.com/iliyamo/live-commerce-backend/internal/database"
	"github.com/iliyamo/live-commerce-backend/internal/handler"
	"github.com/iliyamo/live-commerce-backend/internal/middleware"
	"github.com/iliyamo/live-commerce-backend/internal/queue"
	"github.com/iliyamo/live-commerce-backend/internal/repository"
	"github.com/iliyamo/live-commerce-backend/internal/router"
	"github.com/iliyamo/live-commerce-backend/internal/server"
	"github.com/iliyamo/live-commerce-backend/internal/service"
)

func main() {
	cfg := config.Load()
	inv := config.LoadInventoryConfig()

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

	// Redis is optional; a nil client disables rate limiting.
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	reservations := service.NewReservationService(
		client.NewProductClient(inv.BaseURL, inv.Timeout),
		repository.NewReservationRepo(db),
		queue.NewPublisher(config.AMQPURL()),
	)

	e := server.New(config.LoadCORSConfig())
	router.RegisterReservations(e, handler.NewReservationHandler(reservations),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	log.Printf("reservation-service starting (env=%s, inventory=%s)", cfg.Env, inv.BaseURL)
	if err := server.Run(e, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
}
