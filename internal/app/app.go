// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/unclebandit/dmcodex/internal/assets"
	"github.com/unclebandit/dmcodex/internal/config"
	"github.com/unclebandit/dmcodex/internal/controller"
	"github.com/unclebandit/dmcodex/internal/db"
	"github.com/unclebandit/dmcodex/internal/queue"
	"github.com/unclebandit/dmcodex/internal/repository"
	"github.com/unclebandit/dmcodex/internal/service"
	"github.com/unclebandit/dmcodex/internal/storage"
)

// App holds the wired campaign stack shared by the server and the seeder.
type App struct {
	DB         *gorm.DB
	Queue      queue.Queue
	Service    *service.CampaignService
	Controller *controller.CampaignController

	log *zap.Logger
}

// Build opens the database, migrates it and wires repository, asset tree, event queue,
// service and controller.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	conn, err := db.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn); err != nil {
		_ = db.Close(conn)
		return nil, err
	}

	q, err := NewQueue(cfg.Events, log)
	if err != nil {
		_ = db.Close(conn)
		return nil, err
	}

	repo := repository.NewCampaignRepository(storage.NewGormGateway(conn))
	svc := service.NewCampaignService(repo, assets.NewTree(cfg.DataRoot, nil), q, log)

	log.Info("✅ Campaign stack ready",
		zap.String("data_root", cfg.DataRoot),
		zap.String("events", cfg.Events.Driver))

	return &App{
		DB:         conn,
		Queue:      q,
		Service:    svc,
		Controller: controller.NewCampaignController(svc, log),
		log:        log,
	}, nil
}

// NewQueue picks the lifecycle event transport. The in-memory queue gets the lifecycle
// logger attached; with amqp, cmd/worker is the consumer.
func NewQueue(cfg config.EventsConfig, log *zap.Logger) (queue.Queue, error) {
	switch cfg.Driver {
	case "memory":
		q := queue.NewInMemoryQueue(log)
		if err := queue.StartLifecycleLogger(q, log); err != nil {
			return nil, err
		}
		return q, nil
	case "amqp":
		return queue.DialAMQP(cfg.AMQPURL, cfg.Queue, log)
	case "none", "":
		return queue.NopQueue{}, nil
	}
	return nil, fmt.Errorf("unsupported events driver %q", cfg.Driver)
}

// Close drains the queue and then closes the database.
func (a *App) Close() error {
	if c, ok := a.Queue.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("⚠️ Failed to close event queue", zap.Error(err))
		}
	}
	if err := db.Close(a.DB); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
