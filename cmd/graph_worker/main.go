package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-follow-graph/config"
	"github.com/oksasatya/go-follow-graph/internal/application"
	"github.com/oksasatya/go-follow-graph/internal/container"
	"github.com/oksasatya/go-follow-graph/internal/router"
	"github.com/oksasatya/go-follow-graph/pkg/helpers"
)

// graph_worker consumes follow events and rebuilds the counters of both ends
// from their edge rows, repairing drift left by a half-applied edge.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-graph-worker", cfg.Env, cfg.LogLevel)

	if !cfg.EventsEnabled {
		logger.Info("EVENTS_ENABLED=false; graph worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQFollowQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	svc, _ := router.BuildService()

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQFollowQueue, cfg.WorkerPrefetch)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}

	msgs, err := consumer.Deliveries(cfg.AppName + "-graph-worker")
	if err != nil {
		consumer.Close()
		log.Fatalf("rabbitmq: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			c, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := svc.HandleGraphEvent(c, msg.Body)
			cancel()
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, application.ErrMalformedEvent):
				helpers.LogError(logger, "dropping bad message", err, logrus.Fields{"message_id": msg.MessageId})
				_ = msg.Nack(false, false)
			default:
				helpers.LogError(logger, "reconcile failed; requeueing", err, logrus.Fields{"message_id": msg.MessageId})
				_ = msg.Nack(false, true)
			}
		}
	}()

	helpers.LogInfo(logger, "graph worker listening", logrus.Fields{"queue": cfg.RabbitMQFollowQueue})
	select {
	case <-ctx.Done():
	case <-done:
		logger.Warn("delivery channel closed")
	}
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
