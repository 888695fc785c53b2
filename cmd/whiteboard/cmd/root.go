package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/whiteboard/internal/config"
)

var (
	// Global flags
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "whiteboard",
	Short: "Infinite-canvas whiteboard core",
	Long: `whiteboard runs the selection, transform and undo core of an
infinite-canvas whiteboard for a drawing host.

Configuration comes from the environment (PORT, LOG_LEVEL,
SELECTION_PADDING, UNDO_CHORD, ...).

Examples:
  whiteboard serve                     # Serve boards over WebSocket
  whiteboard serve --port 9000         # Serve on another port
  whiteboard replay script.json        # Run a recorded session`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config, w io.Writer) {
	lvl, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}
