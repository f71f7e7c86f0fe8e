package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"MULTITAKE_DIR", "MULTITAKE_KIND", "MULTITAKE_FPS", "MULTITAKE_LOOP", "MULTITAKE_OSC_PORT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "takes", cfg.Dir)
	assert.Equal(t, "points", cfg.Kind)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 0.0, cfg.Loop)
	assert.Equal(t, 0, cfg.OSCPort)
	assert.Equal(t, "*", cfg.OSCAddress)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MULTITAKE_DIR", "/tmp/session")
	t.Setenv("MULTITAKE_FPS", "60")
	t.Setenv("MULTITAKE_LOOP", "8.5")
	t.Setenv("MULTITAKE_COMPLETE_ON_LOOP", "true")
	t.Setenv("MULTITAKE_OSC_PORT", "9000")

	cfg := Load()
	assert.Equal(t, "/tmp/session", cfg.Dir)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, 8.5, cfg.Loop)
	assert.True(t, cfg.CompleteOnLoop)
	assert.Equal(t, 9000, cfg.OSCPort)
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("MULTITAKE_FPS", "fast")
	t.Setenv("MULTITAKE_LOOP", "soon")
	t.Setenv("MULTITAKE_COMPLETE_ON_LOOP", "maybe")

	cfg := Load()
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 0.0, cfg.Loop)
	assert.False(t, cfg.CompleteOnLoop)
}
