// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/dmcodex/internal/config"
	"github.com/unclebandit/dmcodex/internal/logger"
	"github.com/unclebandit/dmcodex/internal/queue"
)

// The worker consumes campaign lifecycle events from RabbitMQ and logs them,
// flagging orphaned rows and folders for manual cleanup.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	q, err := queue.DialAMQP(cfg.Events.AMQPURL, cfg.Events.Queue, log)
	if err != nil {
		log.Fatal("❌ Failed to connect to RabbitMQ", zap.Error(err))
	}

	if err := queue.StartLifecycleLogger(q, log); err != nil {
		_ = q.Close()
		log.Fatal("❌ Failed to register consumer", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Worker running, waiting for messages...", zap.String("queue", cfg.Events.Queue))
	<-ctx.Done()

	if err := q.Close(); err != nil {
		log.Error("❌ Failed to close RabbitMQ connection", zap.Error(err))
	}
	log.Info("Worker stopped")
}
