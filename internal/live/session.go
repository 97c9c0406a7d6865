package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/engine"
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/item"
	"github.com/pitchboard/pitchboard/internal/render"
	"github.com/pitchboard/pitchboard/internal/storage"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 64
)

// Items is the part of the saved items service a session uses.
type Items interface {
	Get(ctx context.Context, id string) (*storage.Item, error)
	Create(ctx context.Context, in item.CreateInput) (*storage.Item, error)
	Update(ctx context.Context, id string, in item.UpdateInput) (*storage.Item, error)
}

// Session is one live editor bound to one websocket connection. The editor
// is only touched from the read loop.
type Session struct {
	ID string

	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	items Items

	editor *engine.Editor
	text   *string
}

func NewSession(hub *Hub, conn *websocket.Conn, items Items, id string) *Session {
	s := &Session{
		ID:    id,
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		items: items,
	}
	s.editor = engine.NewEditor(engine.WithPrompter(s.prompt), engine.WithRenderer(s))
	return s
}

// Render implements engine.Renderer by sending the compiled display list.
func (s *Session) Render(f engine.Frame) {
	cmds := render.Compile(f)
	if cmds == nil {
		cmds = []render.DrawCommand{}
	}
	s.sendPayload(TypeFrame, FramePayload{
		Commands:    cmds,
		SelectedID:  f.SelectedID,
		HoverID:     f.HoverID,
		Tool:        f.Tool,
		ActiveLayer: f.ActiveLayer,
		Cursor:      f.Cursor,
		Dragging:    f.Dragging,
		CanUndo:     f.CanUndo,
		CanRedo:     f.CanRedo,
	})
}

func (s *Session) prompt(defaultText string) (string, bool) {
	if s.text == nil {
		return defaultText, true
	}
	return *s.text, true
}

// Start greets the client, optionally loading a saved item first.
func (s *Session) Start(ctx context.Context, itemID string) {
	s.sendPayload(TypeWelcome, WelcomePayload{SessionID: s.ID})
	if itemID != "" {
		err := s.load(ctx, itemID)
		if err == nil {
			return
		}
		s.sendError(err)
	}
	s.Render(s.editor.Frame())
}

func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	s.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "session", s.ID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", s.ID)
			s.sendError(fmt.Errorf("invalid message: %w", err))
			continue
		}
		if err := s.handle(ctx, &msg); err != nil {
			s.sendError(err)
		}
	}
}

func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "session", s.ID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

var (
	errUnknownType = errors.New("unknown message type")
	errInternal    = errors.New("internal error")
)

// handle applies one client message to the editor.
func (s *Session) handle(ctx context.Context, msg *Message) error {
	e := s.editor
	switch msg.Type {
	case TypeViewportResize:
		var p ResizePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.Width < 0 || p.Height < 0 {
			return fmt.Errorf("invalid canvas size %vx%v", p.Width, p.Height)
		}
		e.Resize(p.Width, p.Height)

	case TypePointerDown, TypePointerMove:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		at := geom.Pt(p.X, p.Y)
		if !at.IsFinite() {
			return errors.New("invalid pointer position")
		}
		if msg.Type == TypePointerMove {
			e.HandleCanvasEvent(engine.CanvasEvent{Phase: engine.PhaseMove, X: p.X, Y: p.Y})
			return nil
		}
		s.text = p.Text
		e.HandleCanvasEvent(engine.CanvasEvent{Phase: engine.PhaseDown, X: p.X, Y: p.Y})
		s.text = nil

	case TypePointerUp:
		e.PointerUp()

	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if !p.Tool.Valid() {
			return fmt.Errorf("unknown tool %q", p.Tool)
		}
		e.SetTool(p.Tool)

	case TypeLayerActive:
		var p LayerActivePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if !p.Layer.Valid() {
			return fmt.Errorf("unknown layer %q", p.Layer)
		}
		e.SetActiveLayer(p.Layer)

	case TypeLayerUpdate:
		var p LayerUpdatePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if !p.Layer.Valid() {
			return fmt.Errorf("unknown layer %q", p.Layer)
		}
		e.UpdateLayer(p.Layer, p.LayerPatch)

	case TypePitchUpdate:
		var p command.PitchPatch
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.Type == nil && p.Orientation == nil && p.HalfSide == nil && p.ShowGrid == nil {
			return errors.New("pitch.update: empty patch")
		}
		e.UpdatePitch(p)

	case TypeElementUpdate:
		var p ElementUpdatePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if _, ok := e.Scene().Find(p.ID); !ok {
			return fmt.Errorf("unknown element %q", p.ID)
		}
		e.UpdateElement(p.ID, p.Patch)

	case TypeElementDelete:
		var p ElementPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.DeleteElement(p.ID)

	case TypeSelectionSet:
		var p ElementPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.Select(p.ID)

	case TypeSelectionDelete:
		e.DeleteSelected()

	case TypeEditUndo:
		e.Undo()

	case TypeEditRedo:
		e.Redo()

	case TypeEditCancel:
		e.Cancel()

	case TypeSceneSave:
		var p SavePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return s.save(ctx, p)

	case TypeSceneLoad:
		var p LoadPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return s.load(ctx, p.ItemID)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "session", s.ID)
		return fmt.Errorf("%w: %q", errUnknownType, msg.Type)
	}
	return nil
}

func (s *Session) save(ctx context.Context, p SavePayload) error {
	sc := s.editor.Scene()

	var (
		it  *storage.Item
		err error
	)
	if p.ItemID == "" {
		it, err = s.items.Create(ctx, item.CreateInput{Title: p.Title, Type: p.Type, Scene: sc})
	} else {
		in := item.UpdateInput{Scene: &sc}
		if p.Title != "" {
			in.Title = &p.Title
		}
		if p.Type != "" {
			in.Type = &p.Type
		}
		it, err = s.items.Update(ctx, p.ItemID, in)
	}
	if err != nil {
		return storeError("save scene", err)
	}
	slog.Info("scene saved", "session", s.ID, "item", it.ID)
	s.sendPayload(TypeSceneSaved, SavedPayload{Item: it})
	return nil
}

func (s *Session) load(ctx context.Context, id string) error {
	it, err := s.items.Get(ctx, id)
	if err != nil {
		return storeError("load scene", err)
	}
	s.editor.Load(it.Scene)
	return nil
}

func (s *Session) sendPayload(typ string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "type", typ, "error", err)
		return
	}
	s.Send(&Message{Type: typ, Payload: data})
}

// storeError marks failures the client cannot fix as internal.
func storeError(op string, err error) error {
	if errors.Is(err, item.ErrInvalidInput) || errors.Is(err, item.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, errInternal, err)
}

// sendError reports a failed client message. Internal failures are logged
// and reported without detail.
func (s *Session) sendError(err error) {
	reason := err.Error()
	if errors.Is(err, errInternal) {
		slog.Error("session error", "error", err, "session", s.ID)
		reason = errInternal.Error()
	}
	s.sendPayload(TypeError, ErrorPayload{Reason: reason})
}

func (s *Session) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "session", s.ID)
	}
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: invalid payload: %w", msg.Type, err)
	}
	return nil
}
