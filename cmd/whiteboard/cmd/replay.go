package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/whiteboard/internal/board"
	"github.com/inamate/whiteboard/internal/command"
	"github.com/inamate/whiteboard/internal/hostbridge"
	"github.com/inamate/whiteboard/internal/shapes"
)

var (
	replayTrace     bool
	replayKeepGoing bool
	replaySample    bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.json|->",
	Short: "Run a scripted session through a board",
	Long: `Replay feeds a JSON array of host messages, the same ones a WebSocket
host sends, through a fresh board and prints the final state.

Element ids are assigned in creation order as e1, e2, ... so scripts can
refer to the elements they add:

  [
    {"type": "element.add", "payload": {"type": "rect", "bounds": {"minX": 10, "minY": 10, "maxX": 50, "maxY": 50}}},
    {"type": "select.set", "payload": {"ids": ["e1"]}},
    {"type": "pointer", "payload": {"type": "pointerdown", "x": 30, "y": 30}},
    {"type": "pointer", "payload": {"type": "pointerup", "x": 35, "y": 30}},
    {"type": "undo"}
  ]`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayTrace, "trace", false, "include every outbound message in the output")
	replayCmd.Flags().BoolVar(&replayKeepGoing, "keep-going", false, "record failing steps instead of stopping")
	replayCmd.Flags().BoolVar(&replaySample, "sample", false, "start from the sample shapes")
}

type replayResult struct {
	Selection []string              `json:"selection"`
	History   command.History       `json:"history"`
	Elements  []board.ElementView   `json:"elements"`
	Errors    []string              `json:"errors,omitempty"`
	Trace     []*hostbridge.Message `json:"trace,omitempty"`
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg, cmd.ErrOrStderr())

	script, err := readScript(cmd, args[0])
	if err != nil {
		return err
	}

	var res replayResult
	var seq int
	opts := hostbridge.SessionOptions{
		NewID: func() string {
			seq++
			return fmt.Sprintf("e%d", seq)
		},
	}
	if replaySample {
		opts.Seed = shapes.Sample()
	}
	session, err := hostbridge.NewSession(cfg, func(m *hostbridge.Message) {
		if replayTrace {
			res.Trace = append(res.Trace, m)
		}
	}, opts)
	if err != nil {
		return err
	}
	defer session.Close()

	for i := range script {
		msg := &script[i]
		if err := session.Handle(msg); err != nil {
			if !replayKeepGoing {
				return fmt.Errorf("step %d (%s): %w", i+1, msg.Type, err)
			}
			res.Errors = append(res.Errors, fmt.Sprintf("step %d (%s): %v", i+1, msg.Type, err))
		}
	}

	b := session.Board()
	res.Selection = b.Selection()
	res.History = b.History()
	res.Elements = b.Snapshot()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func readScript(cmd *cobra.Command, path string) ([]hostbridge.Message, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		r = f
	}

	var script []hostbridge.Message
	if err := json.NewDecoder(r).Decode(&script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return script, nil
}
