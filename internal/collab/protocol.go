package collab

import (
	"encoding/json"
	"errors"

	"github.com/inamate/inamate/editor-go/internal/engine"
	"github.com/inamate/inamate/editor-go/internal/tool"
)

// ErrUnknownMessage is returned for message types the server does not handle.
var ErrUnknownMessage = errors.New("unknown message type")

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection"`
	Mode        string     `json:"mode,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"` // keyed by client id
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	ClientID    string `json:"clientId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID   string `json:"userId"`
	ClientID string `json:"clientId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Editor input
	TypePointerDown = "pointer.down"
	TypePointerDrag = "pointer.drag"
	TypePointerUp   = "pointer.up"
	TypeViewZoom    = "view.zoom"
	TypeAction      = "action"
	TypeKey         = "key"
	TypeDocLoad     = "doc.load"

	// Editor output
	TypeSelectionState  = "selection.state"
	TypeSnapshotRequest = "snapshot.request"
	TypeRender          = "render"
)

// PointerPayload carries a pointer sample in scene coordinates.
type PointerPayload struct {
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Button    int            `json:"button"`
	Modifiers tool.Modifiers `json:"modifiers"`
}

type ZoomPayload struct {
	Zoom float64 `json:"zoom"`
}

type ActionPayload struct {
	Name string `json:"name"`
}

type KeyPayload struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Shift bool   `json:"shift,omitempty"`
	Up    bool   `json:"up,omitempty"`
}

// DocLoadPayload replaces the session's document. An empty document
// loads the sample drawing.
type DocLoadPayload struct {
	Document json.RawMessage `json:"document,omitempty"`
}

type WelcomePayload struct {
	SessionID string              `json:"sessionId"`
	ClientID  string              `json:"clientId"`
	Actions   []string            `json:"actions"`
	Keybinds  map[string][]string `json:"keybinds"`
}

// SnapshotRequestPayload asks the client to record an undo step with the
// document as it is after the named edit.
type SnapshotRequestPayload struct {
	Label    string          `json:"label"`
	Document json.RawMessage `json:"document"`
}

// RenderPayload carries scene and overlay draw commands.
type RenderPayload struct {
	Scene   json.RawMessage `json:"scene"`
	Overlay json.RawMessage `json:"overlay"`
}

type SelectionStatePayload = engine.SelectionState

type ErrorPayload struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}
