package main // reservation-consumer writes reservation.created events to a log file

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/live-commerce-backend/internal/config"
	"github.com/iliyamo/live-commerce-backend/internal/queue"
)

func main() {
	config.LoadEnv()

	c := queue.NewConsumer(config.AMQPURL())
	if p := os.Getenv("RESERVATION_LOG_PATH"); p != "" {
		c.LogPath = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("reservation-consumer: queue=%s log=%s", c.Queue, c.LogPath)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	log.Println("reservation-consumer: stopped")
}
