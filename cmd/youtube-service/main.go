package main // youtube-service entry point: Google login and YouTube live broadcasts

import (
	"log"
	"strings"

	"github.com/iliyamo/live-commerce-backend/internal/config"
	"github.com/iliyamo/live-commerce-backend/internal/handler"
	"github.com/iliyamo/live-commerce-backend/internal/router"
	"github.com/iliyamo/live-commerce-backend/internal/server"
	"github.com/iliyamo/live-commerce-backend/internal/service"
)

func main() {
	config.LoadEnv()
	port := config.Must("APP_PORT")
	yt := config.LoadYouTubeConfig()

	// OAuth tokens live in Redis; without it no session survives the callback.
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Fatal("youtube-service: redis is required for session storage")
	}
	defer rdb.Close()

	youtube := service.NewYouTubeService(yt, service.NewRedisSessionStore(rdb, yt.SessionTTL))

	e := server.New(config.LoadCORSConfig())
	router.RegisterYouTube(e, handler.NewYouTubeHandler(youtube, yt.FrontendURL, yt.SessionTTL,
		strings.HasPrefix(yt.RedirectURL, "https://")))

	log.Printf("youtube-service starting (redirect=%s)", yt.RedirectURL)
	if err := server.Run(e, ":"+port); err != nil {
		log.Fatal(err)
	}
}
