package hostbridge

import (
	"fmt"
	"log/slog"

	"github.com/inamate/whiteboard/internal/board"
	"github.com/inamate/whiteboard/internal/command"
	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/shapes"
	"github.com/inamate/whiteboard/internal/typeid"
)

// Session owns one board and translates messages into board calls. It is
// not safe for concurrent use: the read pump is its only caller.
type Session struct {
	ID string

	board *board.Board
	out   func(*Message)
	log   *slog.Logger
	dirty bool
}

type SessionOptions struct {
	// Seed elements are placed on the board before the session goes live
	// and are not part of its undo history.
	Seed []element.Spec
	// NewID overrides element id generation.
	NewID  func() string
	Logger *slog.Logger
}

// NewSession builds a board whose notifications are delivered through out.
func NewSession(cfg *config.Config, out func(*Message), opts SessionOptions) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{ID: typeid.NewSessionID(), out: func(*Message) {}}
	s.log = logger.With("session", s.ID)

	b, err := board.New(cfg, board.Options{
		OnSelectionChange: func(ids []string) {
			s.emit(TypeSelectionChanged, SelectionPayload{IDs: ids})
		},
		OnPreview:       func(p board.Preview) { s.emit(TypePreview, p) },
		OnHistoryChange: func(h command.History) { s.emit(TypeHistory, h) },
		OnInvalidate:    func() { s.dirty = true },
		NewID:           opts.NewID,
		Logger:          s.log,
	})
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	s.board = b
	s.seed(opts.Seed)
	s.out = out
	s.dirty = false
	return s, nil
}

func (s *Session) seed(specs []element.Spec) {
	if len(specs) == 0 {
		return
	}
	s.board.AddElements(specs)
	s.board.ClearHistory()
}

// LoadSeed places specs on a live board and renders the result. The undo
// history is cleared afterwards, as it is for a seeded session.
func (s *Session) LoadSeed(specs []element.Spec) {
	s.seed(specs)
	s.board.Tick()
	s.flush()
}

func (s *Session) Board() *board.Board { return s.board }

// Welcome sends the session greeting followed by a full render.
func (s *Session) Welcome(clientID string) {
	s.emit(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		ClientID:  clientID,
		Tool:      s.board.Tool(),
		Elements:  s.board.Snapshot(),
	})
	s.dirty = true
	s.flush()
}

// Handle applies one inbound message. The deferred update cycle runs after
// every message, and a render follows whenever the scene changed.
func (s *Session) Handle(msg *Message) error {
	err := s.apply(msg)
	s.board.Tick()
	s.flush()
	return err
}

func (s *Session) apply(msg *Message) error {
	b := s.board
	switch msg.Type {
	case TypePointer:
		in, err := decode[board.PointerInput](msg)
		if err != nil {
			return err
		}
		b.HandlePointer(in)

	case TypeKey:
		ev, err := decode[command.KeyEvent](msg)
		if err != nil {
			return err
		}
		b.HandleKey(ev)

	case TypeElementAdd:
		p, err := decode[ElementAddPayload](msg)
		if err != nil {
			return err
		}
		style := shapes.DefaultStyle()
		if p.Style != nil {
			style = *p.Style
		}
		spec, err := shapes.New(p.Type, p.Bounds, style)
		if err != nil {
			return err
		}
		b.AddElement(spec)

	case TypeElementRemove:
		p, err := decode[ElementRemovePayload](msg)
		if err != nil {
			return err
		}
		return b.RemoveElement(p.ID)

	case TypeSelectSet:
		p, err := decode[SelectSetPayload](msg)
		if err != nil {
			return err
		}
		b.SetSelection(p.IDs)

	case TypeSelectRange:
		p, err := decode[SelectRangePayload](msg)
		if err != nil {
			return err
		}
		b.SelectRange(p.Bounds)

	case TypeViewportPan:
		p, err := decode[PanPayload](msg)
		if err != nil {
			return err
		}
		b.Pan(geom.Point{X: p.DX, Y: p.DY})

	case TypeViewportZoom:
		p, err := decode[ZoomPayload](msg)
		if err != nil {
			return err
		}
		if p.Factor <= 0 {
			return fmt.Errorf("%s: factor must be positive, got %v", msg.Type, p.Factor)
		}
		b.ZoomAt(p.Factor, geom.Point{X: p.X, Y: p.Y})

	case TypeToolSet:
		p, err := decode[ToolPayload](msg)
		if err != nil {
			return err
		}
		return b.SetTool(p.Tool)

	case TypeUndo:
		b.Undo()

	case TypeRedo:
		b.Redo()

	case TypeTick:
		// Handle always ticks.

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

func (s *Session) flush() {
	if !s.dirty {
		return
	}
	s.dirty = false
	s.emit(TypeRender, s.render())
}

func (s *Session) render() RenderPayload {
	b := s.board
	p := RenderPayload{
		Commands: b.Render(),
		Overlay:  b.Overlay(),
		Elements: b.Snapshot(),
		Zoom:     b.Viewport().Zoom(),
		Offset:   b.Viewport().Offset(),
	}
	if m, ok := b.Marquee(); ok {
		p.Marquee = &m
	}
	return p
}

func (s *Session) emit(typ string, payload any) {
	msg, err := NewMessage(typ, payload)
	if err != nil {
		s.log.Error("encode message", "type", typ, "error", err)
		return
	}
	msg.SessionID = s.ID
	s.out(msg)
}

// Fail reports an error for the request that caused it.
func (s *Session) Fail(req *Message, err error) {
	p := ErrorPayload{Message: err.Error()}
	if req != nil {
		p.Request = req.Type
	}
	s.emit(TypeError, p)
}

func (s *Session) Close() {
	s.board.Close()
}
