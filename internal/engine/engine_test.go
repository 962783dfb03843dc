package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/tool"
	"github.com/inamate/inamate/editor-go/internal/trigger"
)

const testDocument = `{
	"id": "doc_1",
	"name": "Test",
	"version": 1,
	"activeLayer": 0,
	"layers": [{
		"id": "layer_1",
		"name": "Layer 1",
		"items": [
			{"id": "a", "type": "Rectangle", "style": {"stroke": "#000000", "strokeWidth": 1},
			 "shape": {"x": 0, "y": 0, "width": 100, "height": 100}, "data": {}},
			{"id": "b", "type": "Rectangle", "style": {"stroke": "#000000", "strokeWidth": 1},
			 "shape": {"x": 200, "y": 0, "width": 50, "height": 50}, "data": {"role": "badge"}}
		]
	}]
}`

type recorder struct {
	snapshots []string
	repaints  int
}

// newTestEngine loads testDocument. The clock advances one second per
// pointer event so that consecutive clicks never count as double clicks.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	clock := time.Unix(0, 0)
	base := []Option{
		WithSnapshotter(func(label string) { rec.snapshots = append(rec.snapshots, label) }),
		WithRepaint(func() { rec.repaints++ }),
		WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	}
	e := NewEngine(append(base, opts...)...)
	require.NoError(t, e.LoadDocument(testDocument))
	return e, rec
}

func click(e *Engine, x, y float64, mods tool.Modifiers) {
	e.PointerDown(x, y, 0, mods)
	e.PointerUp(x, y, 0, mods)
}

func TestNewEngineIsEmpty(t *testing.T) {
	e := NewEngine()

	assert.Equal(t, "{}", e.GetDocument())
	assert.Equal(t, "[]", e.GetSelection())
	assert.Equal(t, "[]", e.Render())
	assert.Equal(t, "[]", e.Overlay())
	assert.JSONEq(t, `{"x":0,"y":0,"width":0,"height":0}`, e.GetSelectionBounds())
	assert.Equal(t, tool.ModeNone, e.Mode())
	assert.Equal(t, 1.0, e.Zoom())
}

func TestLoadDocumentErrorsKeepScene(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.Error(t, e.LoadDocument("not json"))
	err := e.LoadDocument(`{"id":"doc_2","layers":[{"name":"L","items":[{"id":"x","type":"Blob"}]}]}`)
	assert.ErrorIs(t, err, document.ErrUnknownNodeType)

	assert.Equal(t, "a", e.HitTest(0, 50))
}

func TestLoadSampleDocument(t *testing.T) {
	e := NewEngine()
	layers := 0
	e.Subscribe(trigger.LayersChanged, func(trigger.Name) { layers++ })

	require.NoError(t, e.LoadSampleDocument("doc_sample"))
	assert.Equal(t, 1, layers)
	assert.Equal(t, 3, e.Graph().Count())

	doc, err := document.Parse([]byte(e.GetDocument()))
	require.NoError(t, err)
	assert.Equal(t, "doc_sample", doc.ID)
	require.Len(t, doc.Layers, 1)
	assert.Len(t, doc.Layers[0].Items, 3)
}

func TestClickSelectsAndReportsState(t *testing.T) {
	e, _ := newTestEngine(t)
	changes := 0
	id := e.Subscribe(trigger.SelectionChanged, func(trigger.Name) { changes++ })

	click(e, 0, 50, tool.Modifiers{})

	assert.Equal(t, `["a"]`, e.GetSelection())
	assert.Equal(t, "Path", e.SelectionKind())
	assert.JSONEq(t, `{"x":0,"y":0,"width":100,"height":100}`, e.GetSelectionBounds())
	assert.Positive(t, changes)

	state := e.State()
	assert.Equal(t, []string{"a"}, state.Selection)
	assert.Equal(t, "none", state.Mode)
	require.NotNil(t, state.Bounds)
	assert.Equal(t, document.Rect{Width: 100, Height: 100}, *state.Bounds)

	e.Unsubscribe(id)
	before := changes
	click(e, 500, 500, tool.Modifiers{})
	assert.Equal(t, before, changes)
	assert.Equal(t, "[]", e.GetSelection())
	assert.JSONEq(t, `{"selection":[],"mode":"none"}`, e.GetState())
}

func TestDragMovesSelection(t *testing.T) {
	e, _ := newTestEngine(t)

	e.PointerDown(0, 50, 0, tool.Modifiers{})
	assert.Equal(t, tool.ModeMove, e.Mode())
	e.PointerDrag(5, 55, 0, tool.Modifiers{})
	e.PointerDrag(10, 60, 0, tool.Modifiers{})
	e.PointerUp(10, 60, 0, tool.Modifiers{})

	assert.Equal(t, tool.ModeNone, e.Mode())
	assert.JSONEq(t, `{"x":10,"y":10,"width":100,"height":100}`, e.GetSelectionBounds())
	assert.Equal(t, "", e.HitTest(0, 50))
	assert.Equal(t, "a", e.HitTest(10, 50))
}

func TestDragFramesAndDeselectRepaint(t *testing.T) {
	e, rec := newTestEngine(t)

	e.PointerDown(0, 50, 0, tool.Modifiers{})
	before := rec.repaints
	e.PointerDrag(5, 55, 0, tool.Modifiers{})
	assert.Equal(t, before+1, rec.repaints)
	e.PointerDrag(10, 60, 0, tool.Modifiers{})
	assert.Equal(t, before+2, rec.repaints)
	e.PointerUp(10, 60, 0, tool.Modifiers{})
	assert.Greater(t, rec.repaints, before+2)

	before = rec.repaints
	click(e, 500, 500, tool.Modifiers{})
	assert.Equal(t, "[]", e.GetSelection())
	assert.Greater(t, rec.repaints, before, "the frame is hidden when the selection empties")
	assert.Equal(t, "[]", e.Overlay())
}

func TestMarqueeSelectsBoth(t *testing.T) {
	e, _ := newTestEngine(t)

	e.PointerDown(-10, -10, 0, tool.Modifiers{})
	assert.Equal(t, tool.ModeRectSelection, e.Mode())
	e.PointerDrag(300, 300, 0, tool.Modifiers{})

	var overlay []tool.DrawCommand
	require.NoError(t, json.Unmarshal([]byte(e.Overlay()), &overlay))
	require.Len(t, overlay, 1)
	assert.Equal(t, "strokeRect", overlay[0].Op)
	assert.Equal(t, []float64{3, 3}, overlay[0].Dash)

	e.PointerUp(300, 300, 0, tool.Modifiers{})
	assert.Equal(t, `["a","b"]`, e.GetSelection())
	assert.JSONEq(t, `{"x":0,"y":0,"width":250,"height":100}`, e.GetSelectionBounds())
}

func TestOverlayShowsFrameAndHandles(t *testing.T) {
	e, _ := newTestEngine(t)
	click(e, 0, 50, tool.Modifiers{})

	var overlay []tool.DrawCommand
	require.NoError(t, json.Unmarshal([]byte(e.Overlay()), &overlay))
	require.Len(t, overlay, 11)
	assert.Equal(t, "strokeRect", overlay[0].Op)
	assert.Equal(t, 100.0, overlay[0].Width)
	assert.Equal(t, "strokeCircle", overlay[1].Op)
	assert.Equal(t, "fillCircle", overlay[2].Op)
	for _, c := range overlay[3:] {
		assert.Equal(t, "fillRect", c.Op)
	}
}

func TestSetZoomScalesHandles(t *testing.T) {
	e, rec := newTestEngine(t)
	click(e, 0, 50, tool.Modifiers{})
	before := rec.repaints

	e.SetZoom(2)
	e.SetZoom(0)
	assert.Equal(t, 2.0, e.Zoom())
	assert.Greater(t, rec.repaints, before)

	var overlay []tool.DrawCommand
	require.NoError(t, json.Unmarshal([]byte(e.Overlay()), &overlay))
	require.Len(t, overlay, 11)
	assert.Equal(t, 2.5, overlay[1].Radius)
	assert.Equal(t, 3.0, overlay[3].Width)
}

func TestRunAction(t *testing.T) {
	e, rec := newTestEngine(t)
	click(e, 0, 50, tool.Modifiers{})

	require.NoError(t, e.RunAction("delete"))
	assert.Equal(t, "[]", e.GetSelection())
	assert.Equal(t, []string{"deleteSelection"}, rec.snapshots)

	doc, err := document.Parse([]byte(e.GetDocument()))
	require.NoError(t, err)
	require.Len(t, doc.Layers[0].Items, 1)
	assert.Equal(t, "b", doc.Layers[0].Items[0].ID)

	require.NoError(t, e.RunAction("select.selectAll"))
	assert.Equal(t, `["b"]`, e.GetSelection())

	assert.ErrorIs(t, e.RunAction("select.missing"), tool.ErrUnknownAction)
	assert.Contains(t, e.Actions(), "select.invertSelection")
}

func TestKeyPress(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.True(t, e.KeyPress("a", true, false, false))
	assert.Equal(t, `["a","b"]`, e.GetSelection())

	assert.True(t, e.KeyPress("i", true, false, false))
	assert.Equal(t, "[]", e.GetSelection())

	assert.False(t, e.KeyPress("q", false, false, false))
	assert.Equal(t, []string{"select.selectAll"}, e.Keybinds()["ctrl-a"])
}

func TestCustomKeybinds(t *testing.T) {
	e, _ := newTestEngine(t, WithKeybinds(map[string][]string{
		"x": {"select.selectAll"},
	}))

	assert.False(t, e.KeyPress("a", true, false, false))
	assert.Equal(t, "[]", e.GetSelection())
	assert.True(t, e.KeyPress("x", false, false, false))
	assert.Equal(t, `["a","b"]`, e.GetSelection())
}

func TestSetSelectionByID(t *testing.T) {
	e, _ := newTestEngine(t)

	e.SetSelection([]string{"b", "missing"})
	assert.Equal(t, `["b"]`, e.GetSelection())
	assert.JSONEq(t, `{"x":200,"y":0,"width":50,"height":50}`, e.GetSelectionBounds())

	e.SetSelection(nil)
	assert.Equal(t, "[]", e.GetSelection())
}

func TestRenderMarksSelection(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetSelection([]string{"b"})

	var commands []DrawCommand
	require.NoError(t, json.Unmarshal([]byte(e.Render()), &commands))
	require.Len(t, commands, 2)
	assert.Equal(t, "a", commands[0].ObjectID)
	assert.False(t, commands[0].Selected)
	assert.Equal(t, "b", commands[1].ObjectID)
	assert.True(t, commands[1].Selected)
	assert.Equal(t, "path", commands[1].Op)
	assert.Equal(t, "#000000", commands[1].Stroke)
}

func TestDocumentRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	e.PointerDown(0, 50, 0, tool.Modifiers{})
	e.PointerDrag(20, 50, 0, tool.Modifiers{})
	e.PointerUp(20, 50, 0, tool.Modifiers{})

	other := NewEngine()
	require.NoError(t, other.LoadDocument(e.GetDocument()))
	assert.Equal(t, "a", other.HitTest(20, 50))
	assert.Equal(t, "b", other.HitTest(225, 0))
}

func TestSwitchToolUnknown(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.ErrorIs(t, e.SwitchTool("pen"), tool.ErrUnknownTool)
	require.NoError(t, e.SwitchTool(tool.SelectToolID))
}
