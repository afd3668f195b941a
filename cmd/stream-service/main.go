package main // stream-service entry point: stream sessions, chat and Agora tokens

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
	auth := config.LoadAuthConfig()

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

	agora := service.NewAgoraService(config.LoadAgoraConfig())
	streams := service.NewStreamService(repository.NewStreamRepo(db), agora)
	chat := service.NewChatService(repository.NewChatRepo(db))

	cacheCfg := config.LoadCacheConfig()
	e := server.New(config.LoadCORSConfig())
	router.RegisterStreams(e, router.StreamRoutes{
		Streams:    handler.NewStreamHandler(streams, agora),
		Chat:       handler.NewChatHandler(chat),
		JWTSecret:  auth.JWTSecret,
		Cache:      middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate: middleware.NewCacheInvalidator(cacheCfg, rdb, router.StreamCachePaths),
	})

	log.Printf("stream-service starting (env=%s)", cfg.Env)
	if err := server.Run(e, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
}
