package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unclebandit/dmcodex/internal/config"
	"github.com/unclebandit/dmcodex/internal/model"
	"github.com/unclebandit/dmcodex/internal/queue"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataRoot = t.TempDir()
	cfg.Database.DSN = filepath.Join(cfg.DataRoot, "database.db")
	cfg.Events.Driver = driver
	return cfg
}

func TestBuild_MemoryEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := testConfig(t, "memory")

	a, err := Build(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)

	created, err := a.Service.Create(context.Background(), model.CreateCampaignInput{Name: "Tomb of Annihilation"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.DataRoot, "campaigns", created.ID, "cover"))
	assert.NoError(t, err)

	require.NoError(t, a.Close())
	assert.Equal(t, 1, logs.FilterMessage("📩 Campaign lifecycle event").Len())
}

func TestBuild_NoEvents(t *testing.T) {
	a, err := Build(context.Background(), testConfig(t, "none"), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, queue.NopQueue{}, a.Queue)
	assert.NoError(t, a.Service.Ping(context.Background()))
}

func TestNewQueue_UnknownDriver(t *testing.T) {
	_, err := NewQueue(config.EventsConfig{Driver: "kafka"}, zap.NewNop())
	assert.EqualError(t, err, `unsupported events driver "kafka"`)
}

func TestBuild_BadDatabase(t *testing.T) {
	cfg := testConfig(t, "none")
	cfg.Database.Type = "oracle"

	_, err := Build(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
