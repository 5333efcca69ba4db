//cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/unclebandit/dmcodex/internal/app"
	"github.com/unclebandit/dmcodex/internal/config"
	"github.com/unclebandit/dmcodex/internal/logger"
)

func main() {
	file := flag.String("file", "seed/campaigns.yaml", "YAML file listing campaigns to create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	seed, err := LoadSeedFile(*file)
	if err != nil {
		log.Fatal("❌ Failed to read seed file", zap.String("file", *file), zap.Error(err))
	}

	ctx := context.Background()
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize", zap.Error(err))
	}

	res := Seed(ctx, a.Service, seed, os.Stdout)
	if err := a.Close(); err != nil {
		log.Error("❌ Shutdown cleanup failed", zap.Error(err))
	}

	fmt.Printf("Seeding completed: %d created, %d skipped, %d failed\n", res.Created, res.Skipped, res.Failed)
	if res.Failed > 0 {
		os.Exit(1)
	}
}
