package hostbridge

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/shapes"
)

// Handler upgrades requests to WebSocket sessions, each with a fresh board.
// The query parameter sample=1 starts the board with a few shapes.
type Handler struct {
	registry *Registry
	cfg      *config.Config
	log      *slog.Logger
}

func NewHandler(registry *Registry, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{registry: registry, cfg: cfg, log: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var seed []element.Spec
	if r.URL.Query().Get("sample") == "1" {
		seed = shapes.Sample()
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.Origins(),
	})
	if err != nil {
		h.log.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.registry, conn, uuid.New().String(), h.log)
	session, err := NewSession(h.cfg, client.Send, SessionOptions{Seed: seed, Logger: h.log})
	if err != nil {
		h.log.Error("create session", "error", err)
		conn.Close(websocket.StatusInternalError, "session setup failed")
		return
	}
	client.Attach(session)
	session.Welcome(client.ID)

	h.registry.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
