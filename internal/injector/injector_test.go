package injector_test

import (
	"context"
	"testing"

	"github.com/plus3/seascene/internal/config"
	"github.com/plus3/seascene/internal/injector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"

	c, err := injector.Initialize(cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Same(t, c.Registry, c.Scheduler.Registry())
	assert.Same(t, cfg, c.Config)
	require.NoError(t, c.Load(context.Background()))
	require.NoError(t, c.Scheduler.Once(1.0/60))

	t.Run("bad log level", func(t *testing.T) {
		cfg := config.Default()
		cfg.Log.Level = "loud"
		_, err := injector.Initialize(cfg)
		assert.Error(t, err)
	})
}
