//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/hostbridge"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/shapes"
)

var (
	session  *hostbridge.Session
	listener js.Value
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(consoleWriter{}, &slog.HandlerOptions{Level: slog.LevelInfo})))

	var err error
	session, err = hostbridge.NewSession(config.Default(), deliver, hostbridge.SessionOptions{})
	if err != nil {
		slog.Error("create session", "error", err)
		return
	}

	// Create the board API object
	whiteboard := js.Global().Get("Object").New()

	// --- Commands (host → board) ---
	whiteboard.Set("send", js.FuncOf(send))
	whiteboard.Set("onMessage", js.FuncOf(onMessage))
	whiteboard.Set("loadSample", js.FuncOf(loadSample))
	whiteboard.Set("resize", js.FuncOf(resize))

	// --- Queries (host ← board) ---
	whiteboard.Set("render", js.FuncOf(render))
	whiteboard.Set("getElements", js.FuncOf(getElements))
	whiteboard.Set("getSelection", js.FuncOf(getSelection))
	whiteboard.Set("getOverlay", js.FuncOf(getOverlay))
	whiteboard.Set("getHistory", js.FuncOf(getHistory))

	// Register on global scope
	js.Global().Set("whiteboard", whiteboard)

	// Signal that WASM is ready
	js.Global().Set("whiteboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// deliver forwards outbound messages to the registered JS listener.
func deliver(msg *hostbridge.Message) {
	if listener.Type() != js.TypeFunction {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}
	listener.Invoke(string(data))
}

// --- Command Handlers ---

func send(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing message JSON"})
	}

	var msg hostbridge.Message
	if err := json.Unmarshal([]byte(args[0].String()), &msg); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	if err := session.Handle(&msg); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func onMessage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		listener = js.Undefined()
		return nil
	}
	listener = args[0]
	session.Welcome("wasm")
	return nil
}

// loadSample seeds the board the way ?sample=1 does: the shapes are not
// part of the undo history.
func loadSample(this js.Value, args []js.Value) interface{} {
	session.LoadSeed(shapes.Sample())
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	session.Board().Resize(args[0].Float(), args[1].Float())
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	out, err := scene.DrawCommandsToJSON(session.Board().Render())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func getElements(this js.Value, args []js.Value) interface{} {
	return toJSON(session.Board().Snapshot(), "[]")
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return toJSON(session.Board().Selection(), "[]")
}

func getOverlay(this js.Value, args []js.Value) interface{} {
	return toJSON(session.Board().Overlay(), "{}")
}

func getHistory(this js.Value, args []js.Value) interface{} {
	return toJSON(session.Board().History(), "{}")
}

func toJSON(v any, fallback string) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf(fallback)
	}
	return js.ValueOf(string(data))
}

// consoleWriter sends slog output to the browser console.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", string(p))
	return len(p), nil
}
