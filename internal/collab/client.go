package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/inamate/inamate/editor-go/internal/engine"
	"github.com/inamate/inamate/editor-go/internal/trigger"
	"github.com/inamate/inamate/editor-go/internal/typeid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 1024 * 1024
)

// Client is one websocket connection with its own editor session. The
// engine is only touched from the read loop.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	UserID      string
	DisplayName string
	ProjectID   string
	ClientID    string
	SessionID   string

	engine           *engine.Engine
	selectionChanged bool
	repaint          bool
	lastMode         string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, projectID, clientID string) *Client {
	c := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		UserID:      userID,
		DisplayName: displayName,
		ProjectID:   projectID,
		ClientID:    clientID,
		SessionID:   typeid.NewSessionID(),
	}
	opts := append(hub.engineOptions(),
		engine.WithSnapshotter(c.requestSnapshot),
		engine.WithRepaint(func() { c.repaint = true }))
	c.engine = engine.NewEngine(opts...)
	c.engine.Subscribe(trigger.SelectionChanged, func(trigger.Name) { c.selectionChanged = true })
	return c
}

// Engine returns the session's editor engine.
func (c *Client) Engine() *engine.Engine { return c.engine }

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.start()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "user", c.UserID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "user", c.UserID)
			continue
		}

		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.ProjectID = c.ProjectID

		c.process(&msg)
	}
}

// start loads the room's document into the session and greets the client.
func (c *Client) start() {
	if doc := c.hub.roomDocument(c.ProjectID); doc != "" {
		if err := c.engine.LoadDocument(doc); err != nil {
			slog.Warn("load room document", "error", err, "project", c.ProjectID)
		}
	}
	if c.engine.GetDocument() == "{}" {
		if err := c.engine.LoadSampleDocument(c.ProjectID); err != nil {
			slog.Error("load sample document", "error", err)
		}
	}

	c.Send(newMessage(TypeWelcome, WelcomePayload{
		SessionID: c.SessionID,
		ClientID:  c.ClientID,
		Actions:   c.engine.Actions(),
		Keybinds:  c.engine.Keybinds(),
	}))
	c.selectionChanged, c.repaint = true, true
	c.flush()
}

// process applies one message and reports any failure back to the client.
func (c *Client) process(msg *Message) {
	if err := c.handle(msg); err != nil {
		slog.Warn("message failed", "type", msg.Type, "error", err, "user", c.UserID)
		c.Send(newMessage(TypeError, ErrorPayload{Type: msg.Type, Message: err.Error()}))
	}
	c.flush()
}

func (c *Client) handle(msg *Message) error {
	switch msg.Type {
	case TypePointerDown, TypePointerDrag, TypePointerUp:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			c.engine.PointerDown(p.X, p.Y, p.Button, p.Modifiers)
		case TypePointerDrag:
			c.engine.PointerDrag(p.X, p.Y, p.Button, p.Modifiers)
		default:
			c.engine.PointerUp(p.X, p.Y, p.Button, p.Modifiers)
		}
		c.hub.updatePresence(c, &PresencePayload{
			Cursor: &CursorPos{X: p.X, Y: p.Y},
			Mode:   c.engine.Mode().String(),
		})

	case TypeViewZoom:
		var p ZoomPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		c.engine.SetZoom(p.Zoom)

	case TypeAction:
		var p ActionPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return c.engine.RunAction(p.Name)

	case TypeKey:
		var p KeyPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		c.engine.KeyPress(p.Key, p.Ctrl, p.Shift, p.Up)

	case TypeDocLoad:
		var p DocLoadPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		var err error
		if len(p.Document) == 0 {
			err = c.engine.LoadSampleDocument(c.ProjectID)
		} else {
			err = c.engine.LoadDocument(string(p.Document))
		}
		if err != nil {
			return err
		}
		c.hub.storeDocument(c.ProjectID, c.engine.GetDocument())

	case TypePresenceUpdate:
		var p PresencePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		c.hub.updatePresence(c, &p)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

// flush sends the state the last message changed. A gesture starting or
// ending counts as a selection state change.
func (c *Client) flush() {
	if c.selectionChanged || c.engine.Mode().String() != c.lastMode {
		c.selectionChanged = false
		state := c.engine.State()
		c.lastMode = state.Mode
		c.Send(newMessage(TypeSelectionState, state))
		c.hub.updatePresence(c, &PresencePayload{Selection: state.Selection, Mode: state.Mode})
	}
	if c.repaint {
		c.repaint = false
		c.Send(newMessage(TypeRender, RenderPayload{
			Scene:   json.RawMessage(c.engine.Render()),
			Overlay: json.RawMessage(c.engine.Overlay()),
		}))
	}
}

func (c *Client) requestSnapshot(label string) {
	doc := c.engine.GetDocument()
	c.hub.storeDocument(c.ProjectID, doc)
	c.Send(newMessage(TypeSnapshotRequest, SnapshotRequestPayload{
		Label:    label,
		Document: json.RawMessage(doc),
	}))
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pongWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) Send(msg *Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "user", c.UserID)
	}
}

func newMessage(typ string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "type", typ, "error", err)
		return nil
	}
	return &Message{Type: typ, Payload: data}
}

// decode unmarshals the payload into v. A missing payload leaves v zero.
func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 || string(msg.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", msg.Type, err)
	}
	return nil
}
