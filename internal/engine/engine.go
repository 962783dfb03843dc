package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/selection"
	"github.com/inamate/inamate/editor-go/internal/tool"
	"github.com/inamate/inamate/editor-go/internal/transform"
	"github.com/inamate/inamate/editor-go/internal/trigger"
	"github.com/inamate/inamate/editor-go/internal/typeid"
)

// Engine is the editor core that owns the scene graph and the selection.
// It processes pointer, keyboard and document commands from the frontend
// and answers queries as JSON. An Engine is not safe for concurrent use.
type Engine struct {
	opts engineOptions

	// Document state
	docID   string
	docName string
	loaded  bool
	graph   *scene.Graph

	bus        *trigger.Bus
	sel        *selection.Model
	view       *tool.View
	tools      *tool.Registry
	dispatch   *tool.Dispatcher
	selectTool *tool.SelectTool
}

// SelectionState is the selection summary sent to hosts after every change.
type SelectionState struct {
	Selection []string       `json:"selection"`
	Kind      string         `json:"kind,omitempty"`
	Bounds    *document.Rect `json:"bounds,omitempty"`
	Mode      string         `json:"mode"`
}

// NewEngine creates an engine with an empty one-layer scene and the select
// tool active.
func NewEngine(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		opts:  o,
		graph: scene.NewGraph(),
		bus:   trigger.New(),
	}
	e.view = tool.NewView(o.repaint)
	e.sel = selection.New(e.graph, e.bus,
		selection.WithSnapshotter(o.snapshot),
		selection.WithRedraw(e.view.Changed))
	e.tools = tool.NewRegistry(tool.NewKeymap())
	e.dispatch = tool.NewDispatcher(e.tools)
	e.selectTool = tool.NewSelectTool(e.sel, e.bus, e.view, o.selectOpts)

	if err := e.tools.Register(e.selectTool); err != nil {
		slog.Error("register select tool", "error", err)
	}
	if o.keybinds != nil {
		if err := e.tools.Keymap().Load(o.keybinds); err != nil {
			slog.Warn("some keybinds were ignored", "error", err)
		}
	}
	if err := e.tools.Switch(tool.SelectToolID, false, false); err != nil {
		slog.Error("activate select tool", "error", err)
	}
	return e
}

// --- Commands (frontend → engine) ---

// LoadDocument replaces the scene with a document decoded from JSON.
// The current scene is kept when the document cannot be imported.
func (e *Engine) LoadDocument(jsonData string) error {
	doc, err := document.Parse([]byte(jsonData))
	if err != nil {
		return err
	}
	return e.load(doc)
}

// LoadSampleDocument loads the built-in sample document. An empty docID
// gets a generated one.
func (e *Engine) LoadSampleDocument(docID string) error {
	if docID == "" {
		docID = typeid.NewDocumentID()
	}
	return e.load(document.NewSampleDocument(docID))
}

func (e *Engine) load(doc *document.Document) error {
	g, err := document.Import(doc)
	if err != nil {
		return fmt.Errorf("failed to import document %q: %w", doc.ID, err)
	}

	e.docID = doc.ID
	e.docName = doc.Name
	e.loaded = true
	e.graph = g
	e.sel.SetGraph(g)
	e.selectTool.RefreshBounds()
	e.bus.EmitAll(trigger.LayersChanged, trigger.SelectionChanged)
	e.view.Changed()

	slog.Debug("document loaded", "doc", doc.ID, "items", g.Count())
	return nil
}

// PointerDown starts a gesture at scene coordinates (x, y).
func (e *Engine) PointerDown(x, y float64, button int, mods tool.Modifiers) {
	e.dispatch.Down(e.pointer(x, y, button, mods))
}

// PointerDrag continues the gesture. It is ignored when no button is down.
func (e *Engine) PointerDrag(x, y float64, button int, mods tool.Modifiers) {
	e.dispatch.Drag(e.pointer(x, y, button, mods))
}

// PointerUp ends the gesture.
func (e *Engine) PointerUp(x, y float64, button int, mods tool.Modifiers) {
	e.dispatch.Up(e.pointer(x, y, button, mods))
}

func (e *Engine) pointer(x, y float64, button int, mods tool.Modifiers) tool.Pointer {
	return tool.Pointer{
		Point:     gg.Pt(x, y),
		Button:    button,
		Modifiers: mods,
		Time:      e.opts.now(),
	}
}

// SetZoom sets the view zoom. Handle sizes and the hit tolerance follow it.
func (e *Engine) SetZoom(zoom float64) {
	if zoom <= 0 || zoom == e.view.Zoom() {
		return
	}
	e.view.SetZoom(zoom)
	if e.selectTool.Mode() == tool.ModeNone {
		e.selectTool.RefreshBounds()
	}
}

// RunAction runs a named action. Names without a tool prefix refer to
// the active tool, so "delete" and "select.delete" are the same action
// while the select tool is active.
func (e *Engine) RunAction(name string) error {
	if !strings.Contains(name, ".") {
		if t := e.tools.Active(); t != nil {
			name = t.Definition().ID + "." + name
		}
	}
	return e.tools.Keymap().Run(name)
}

// KeyPress runs the actions bound to the key and reports whether any
// binding matched.
func (e *Engine) KeyPress(key string, ctrl, shift, up bool) bool {
	return e.tools.Keymap().Press(tool.KeySpecFor(key, ctrl, shift, up))
}

// SwitchTool activates a registered tool.
func (e *Engine) SwitchTool(id string) error {
	return e.tools.Switch(id, false, false)
}

// SetSelection selects exactly the items with the given ids. Unknown ids
// are skipped.
func (e *Engine) SetSelection(ids []string) {
	e.graph.DeselectAll()
	for _, id := range ids {
		n := e.graph.NodeByID(id)
		if n == nil {
			slog.Debug("selection id not found", "id", id)
			continue
		}
		e.sel.SetSelection(n, true)
	}
	e.selectTool.RefreshBounds()
	e.bus.Emit(trigger.SelectionChanged)
}

// Subscribe registers h for notifications of the given name and returns
// an id for Unsubscribe.
func (e *Engine) Subscribe(name trigger.Name, h trigger.Handler) uint64 {
	return e.bus.On(name, h)
}

func (e *Engine) Unsubscribe(id uint64) {
	e.bus.Off(id)
}

// --- Queries (engine → frontend) ---

// Render returns the scene draw commands as JSON.
func (e *Engine) Render() string {
	result, err := DrawCommandsToJSON(CompileDrawCommands(e.graph))
	if err != nil {
		slog.Error("marshal draw commands", "error", err)
	}
	return result
}

// Overlay returns the active tool's overlay (marquee, frame, handles) as
// JSON draw commands.
func (e *Engine) Overlay() string {
	rec := tool.NewRecorder()
	e.dispatch.Draw(rec)
	result, err := rec.JSON()
	if err != nil {
		slog.Error("marshal overlay", "error", err)
		return "[]"
	}
	return result
}

// HitTest returns the id of the topmost item at the given coordinates, or
// an empty string.
func (e *Engine) HitTest(x, y float64) string {
	hit := e.graph.HitTest(gg.Pt(x, y), scene.HitOptions{
		Segments:  true,
		Stroke:    true,
		Curves:    true,
		Fill:      true,
		Tolerance: e.selectTool.Options().HitTolerance / e.view.Zoom(),
	})
	if hit == nil {
		return ""
	}
	return hit.Node.ID
}

// GetDocument returns the current scene as a document JSON.
func (e *Engine) GetDocument() string {
	if !e.loaded {
		return "{}"
	}
	data, err := json.Marshal(document.Export(e.graph, e.docID, e.docName))
	if err != nil {
		slog.Error("marshal document", "error", err)
		return "{}"
	}
	return string(data)
}

// GetSelection returns the ids of the selected items as JSON.
func (e *Engine) GetSelection() string {
	data, _ := json.Marshal(e.selectedIDs())
	return string(data)
}

func (e *Engine) selectedIDs() []string {
	nodes := e.sel.SelectedNodes()
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// SelectionKind returns the selection kind shown by the UI, e.g. "Path",
// "Segment" or "Mixed".
func (e *Engine) SelectionKind() string {
	return e.sel.Kind()
}

// GetSelectionBounds returns the bounding box of the current selection as
// JSON. An empty selection yields a zero rect.
func (e *Engine) GetSelectionBounds() string {
	r, _ := e.selectionRect()
	return RectToJSON(r)
}

func (e *Engine) selectionRect() (scene.Rect, bool) {
	b, ok := transform.ComputeBounds(e.sel.SelectedNodes(), e.view.Zoom(),
		e.selectTool.Options().RotationHandleDistance)
	if !ok {
		return scene.Rect{}, false
	}
	return b.Rect, true
}

// State returns the selection summary.
func (e *Engine) State() SelectionState {
	s := SelectionState{
		Selection: e.selectedIDs(),
		Kind:      e.sel.Kind(),
		Mode:      e.selectTool.Mode().String(),
	}
	if r, ok := e.selectionRect(); ok {
		dr := document.Rect(r)
		s.Bounds = &dr
	}
	return s
}

// GetState returns State as JSON.
func (e *Engine) GetState() string {
	data, _ := json.Marshal(e.State())
	return string(data)
}

// Keybinds returns the current key bindings.
func (e *Engine) Keybinds() map[string][]string {
	return e.tools.Keymap().Serialize()
}

// Actions lists every registered action name.
func (e *Engine) Actions() []string {
	return e.tools.Keymap().Actions()
}

func (e *Engine) Zoom() float64 { return e.view.Zoom() }

func (e *Engine) Mode() tool.Mode { return e.selectTool.Mode() }

// Graph returns the scene graph. It is replaced by every document load.
func (e *Engine) Graph() *scene.Graph { return e.graph }

func (e *Engine) Selection() *selection.Model { return e.sel }
