// Package hostbridge drives a private board per WebSocket connection. The
// host sends input as JSON messages and receives selection, preview,
// history and render updates back.
package hostbridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/whiteboard/internal/board"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/shapes"
)

var ErrUnknownMessage = errors.New("unknown message type")

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Host -> board
	TypePointer       = "pointer"
	TypeKey           = "key"
	TypeElementAdd    = "element.add"
	TypeElementRemove = "element.remove"
	TypeSelectSet     = "select.set"
	TypeSelectRange   = "select.range"
	TypeViewportPan   = "viewport.pan"
	TypeViewportZoom  = "viewport.zoom"
	TypeToolSet       = "tool.set"
	TypeUndo          = "undo"
	TypeRedo          = "redo"
	TypeTick          = "tick"

	// Board -> host
	TypeWelcome          = "welcome"
	TypeSelectionChanged = "selection.changed"
	TypePreview          = "preview"
	TypeHistory          = "history"
	TypeRender           = "render"
	TypeError            = "error"
)

// --- Inbound payloads ---

type ElementAddPayload struct {
	Type   string        `json:"type"`
	Bounds geom.Bounds   `json:"bounds"`
	Style  *shapes.Style `json:"style,omitempty"`
}

type ElementRemovePayload struct {
	ID string `json:"id"`
}

type SelectSetPayload struct {
	IDs []string `json:"ids"`
}

type SelectRangePayload struct {
	Bounds geom.Bounds `json:"bounds"`
}

type PanPayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ZoomPayload zooms by Factor keeping the screen point (X, Y) fixed.
type ZoomPayload struct {
	Factor float64 `json:"factor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type ToolPayload struct {
	Tool board.Tool `json:"tool"`
}

// --- Outbound payloads ---

type WelcomePayload struct {
	SessionID string              `json:"sessionId"`
	ClientID  string              `json:"clientId"`
	Tool      board.Tool          `json:"tool"`
	Elements  []board.ElementView `json:"elements"`
}

type SelectionPayload struct {
	IDs []string `json:"ids"`
}

type RenderPayload struct {
	Commands []scene.DrawCommand    `json:"commands"`
	Overlay  map[string]geom.Bounds `json:"overlay"`
	Marquee  *geom.Bounds           `json:"marquee,omitempty"`
	Elements []board.ElementView    `json:"elements"`
	Zoom     float64                `json:"zoom"`
	Offset   geom.Point             `json:"offset"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	// Request echoes the type of the message that failed.
	Request string `json:"request,omitempty"`
}

func NewMessage(typ string, payload any) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return &Message{Type: typ, Payload: raw}, nil
}

func decode[T any](msg *Message) (T, error) {
	var v T
	if len(msg.Payload) == 0 {
		return v, fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("%s: invalid payload: %w", msg.Type, err)
	}
	return v, nil
}
