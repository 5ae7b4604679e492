package logging_test

import (
	"testing"

	"github.com/paveg/canopy/internal/config"
	"github.com/paveg/canopy/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromConfig(t *testing.T) {
	t.Run("quiet by default", func(t *testing.T) {
		logger, err := logging.FromConfig(config.NewConfig())
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("verbose honours level", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.VerboseLogging = true
		cfg.LogLevel = "warn"
		cfg.LogEncoding = "json"

		logger, err := logging.FromConfig(cfg)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.VerboseLogging = true
		cfg.LogLevel = "loud"

		_, err := logging.FromConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestGlobalLogger(t *testing.T) {
	original := logging.Get()
	t.Cleanup(func() { logging.Set(original) })

	core, logs := observer.New(zapcore.DebugLevel)
	logging.Set(zap.New(core))

	logging.Debug("groupBy", zap.Int("groups", 2))
	logging.Info("done")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "groupBy", entry.Message)
	assert.Equal(t, int64(2), entry.ContextMap()["groups"])

	logging.Set(nil)
	assert.NotNil(t, logging.Get())
}

func TestInit(t *testing.T) {
	original := logging.Get()
	t.Cleanup(func() { logging.Set(original) })

	require.NoError(t, logging.Init(config.NewConfig()))
	assert.False(t, logging.Get().Core().Enabled(zapcore.ErrorLevel))
}
