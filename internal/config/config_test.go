package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chitin/internal/core/observability/log"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 0.5, c.Physics.ResolveScale)
	assert.Equal(t, log.LevelInfo, c.LogLevel())
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse(strings.NewReader(`
log:
  level: debug
kernel:
  target_fps: 60
physics:
  resolve_scale: 1
  publish_contacts: true
server:
  write_timeout: 250ms
`))
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, c.LogLevel())
	assert.Equal(t, 60.0, c.Kernel.TargetFPS)
	assert.Equal(t, 1.0, c.Kernel.Timescale, "untouched keys keep their default")
	assert.Equal(t, 1.0, c.Physics.ResolveScale)
	assert.True(t, c.Physics.PublishContacts)
	assert.Equal(t, 250*time.Millisecond, c.Server.WriteTimeout)
	assert.Equal(t, ":8080", c.Server.Addr)
}

func TestParseEmptyIsDefault(t *testing.T) {
	c, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("kernel:\n  fps: 60\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"level", func(c *Config) { c.Log.Level = "loud" }, "loud"},
		{"fps", func(c *Config) { c.Kernel.TargetFPS = 0 }, "target_fps"},
		{"timescale", func(c *Config) { c.Kernel.Timescale = -1 }, "timescale"},
		{"resolve scale", func(c *Config) { c.Physics.ResolveScale = 2 }, "resolve_scale"},
		{"send buffer", func(c *Config) { c.Server.SendBuffer = 0 }, "send_buffer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kernel:\n  timescale: 0.5\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, c.Kernel.Timescale)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
