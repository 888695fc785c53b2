package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MOVE_OFFSET_FRAME", "world")
	t.Setenv("HISTORY_LIMIT", "50")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, MoveFrameWorld, cfg.MoveOffsetFrame)
	assert.Equal(t, 50, cfg.HistoryLimit)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad frame", func(c *Config) { c.MoveOffsetFrame = "screen" }, "MOVE_OFFSET_FRAME"},
		{"inverted zoom", func(c *Config) { c.MinZoom, c.MaxZoom = 4, 2 }, "zoom range"},
		{"bad chord modifier", func(c *Config) { c.UndoChord = "hyper+z" }, "UNDO_CHORD"},
		{"empty chord key", func(c *Config) { c.RedoChord = "ctrl+" }, "REDO_CHORD"},
		{"negative history", func(c *Config) { c.HistoryLimit = -1 }, "HISTORY_LIMIT"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateChordModifiers(t *testing.T) {
	for _, chord := range []string{"option+z", "super+shift+z", "Cmd+Z", "control+alt+y"} {
		cfg := Default()
		cfg.UndoChord = chord
		assert.NoError(t, cfg.Validate(), chord)
	}
}

func TestOrigins(t *testing.T) {
	cfg := Default()
	cfg.AllowedOrigins = " a.example , ,b.example"
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.Origins())
}
