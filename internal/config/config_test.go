package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/formlab/formbuilder/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"STORAGE_DRIVER", "DATA_DIR", "ENVIRONMENT", "EVENTS_ENABLED", "EVENTS_PUBLISHER"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverFile, cfg.StorageDriver)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "gochannel", cfg.Events.Publisher)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", DriverRedis)
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("EVENTS_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.StorageDriver)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.False(t, cfg.Events.Enabled)
}

func TestCreateEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("disabled falls back to mock", func(t *testing.T) {
		cfg := EventConfig{Enabled: false}
		publisher, err := cfg.CreateEventPublisher(logger)
		require.NoError(t, err)
		assert.IsType(t, &events.MockEventPublisher{}, publisher)
	})

	t.Run("gochannel", func(t *testing.T) {
		cfg := EventConfig{Enabled: true, Publisher: "gochannel"}
		publisher, err := cfg.CreateEventPublisher(logger)
		require.NoError(t, err)
		defer publisher.Close()
		assert.IsType(t, &events.GoChannelBus{}, publisher)
	})

	t.Run("unknown publisher falls back to mock", func(t *testing.T) {
		cfg := EventConfig{Enabled: true, Publisher: "kafka"}
		publisher, err := cfg.CreateEventPublisher(logger)
		require.NoError(t, err)
		assert.IsType(t, &events.MockEventPublisher{}, publisher)
	})
}
