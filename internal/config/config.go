package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/whiteboard/internal/command"
)

const (
	MoveFrameLocal = "local"
	MoveFrameWorld = "world"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	SelectionPadding   float64 `envconfig:"SELECTION_PADDING" default:"10"`
	HandleSize         float64 `envconfig:"HANDLE_SIZE" default:"10"`
	RotateHandleOffset float64 `envconfig:"ROTATE_HANDLE_OFFSET" default:"30"`
	MoveOffsetFrame    string  `envconfig:"MOVE_OFFSET_FRAME" default:"local"`

	UndoChord        string `envconfig:"UNDO_CHORD" default:"ctrl+z"`
	RedoChord        string `envconfig:"REDO_CHORD" default:"ctrl+y"`
	HistoryLimit     int    `envconfig:"HISTORY_LIMIT" default:"0"`
	RecordTransforms bool   `envconfig:"RECORD_TRANSFORMS" default:"true"`

	MinZoom float64 `envconfig:"MIN_ZOOM" default:"0.1"`
	MaxZoom float64 `envconfig:"MAX_ZOOM" default:"8"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied, ignoring
// the environment.
func Default() *Config {
	return &Config{
		Port:               8080,
		AllowedOrigins:     "localhost:5173,localhost:3000",
		LogLevel:           "info",
		SelectionPadding:   10,
		HandleSize:         10,
		RotateHandleOffset: 30,
		MoveOffsetFrame:    MoveFrameLocal,
		UndoChord:          "ctrl+z",
		RedoChord:          "ctrl+y",
		RecordTransforms:   true,
		MinZoom:            0.1,
		MaxZoom:            8,
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.SelectionPadding < 0 {
		errs = append(errs, fmt.Errorf("SELECTION_PADDING must not be negative: %v", c.SelectionPadding))
	}
	if c.HandleSize <= 0 {
		errs = append(errs, fmt.Errorf("HANDLE_SIZE must be positive: %v", c.HandleSize))
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("HISTORY_LIMIT must not be negative: %d", c.HistoryLimit))
	}
	switch c.MoveOffsetFrame {
	case MoveFrameLocal, MoveFrameWorld:
	default:
		errs = append(errs, fmt.Errorf("MOVE_OFFSET_FRAME must be %q or %q, got %q", MoveFrameLocal, MoveFrameWorld, c.MoveOffsetFrame))
	}
	if c.MinZoom <= 0 || c.MaxZoom <= 0 || c.MinZoom > c.MaxZoom {
		errs = append(errs, fmt.Errorf("invalid zoom range [%v, %v]", c.MinZoom, c.MaxZoom))
	}
	if _, err := command.ParseChord(c.UndoChord); err != nil {
		errs = append(errs, fmt.Errorf("invalid UNDO_CHORD: %w", err))
	}
	if _, err := command.ParseChord(c.RedoChord); err != nil {
		errs = append(errs, fmt.Errorf("invalid REDO_CHORD: %w", err))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses LOG_LEVEL.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Origins splits ALLOWED_ORIGINS into host patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
