package tool

import (
	"image/color"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/selection"
	"github.com/inamate/inamate/editor-go/internal/trigger"
)

type harness struct {
	graph     *scene.Graph
	bus       *trigger.Bus
	sel       *selection.Model
	view      *View
	tool      *SelectTool
	registry  *Registry
	pointer   *Dispatcher
	snapshots []string
	repaints  int
	clock     time.Time
}

func newHarness(t *testing.T, graph *scene.Graph) *harness {
	t.Helper()
	h := &harness{graph: graph, bus: trigger.New(), clock: time.Unix(0, 0)}
	h.sel = selection.New(graph, h.bus, selection.WithSnapshotter(func(label string) {
		h.snapshots = append(h.snapshots, label)
	}))
	h.view = NewView(func() { h.repaints++ })
	h.tool = NewSelectTool(h.sel, h.bus, h.view, DefaultSelectOptions())
	h.registry = NewRegistry(nil)
	require.NoError(t, h.registry.Register(h.tool))
	require.NoError(t, h.registry.Switch(SelectToolID, false, false))
	h.pointer = NewDispatcher(h.registry)
	return h
}

func sampleHarness(t *testing.T) (*harness, []*scene.Node) {
	t.Helper()
	g, err := document.Import(document.NewSampleDocument("doc_test"))
	require.NoError(t, err)
	return newHarness(t, g), g.ActiveLayer().Children()
}

func squareHarness(t *testing.T) (*harness, *scene.Node) {
	t.Helper()
	g := scene.NewGraph()
	sq := scene.NewRectanglePath(scene.Rect{Width: 100, Height: 100})
	sq.Stroke, sq.StrokeWidth = "#000000", 1
	g.ActiveLayer().AddChildren(sq)
	return newHarness(t, g), sq
}

// drag presses at from, moves through the given points and releases at the
// last one. Clicks are spaced a second apart so they never count as double.
func (h *harness) drag(mods Modifiers, from gg.Point, through ...gg.Point) {
	h.clock = h.clock.Add(time.Second)
	h.pointer.Down(Pointer{Point: from, Modifiers: mods, Time: h.clock})
	last := from
	for _, p := range through {
		h.pointer.Drag(Pointer{Point: p, Modifiers: mods, Time: h.clock})
		last = p
	}
	h.pointer.Up(Pointer{Point: last, Modifiers: mods, Time: h.clock})
}

func (h *harness) click(mods Modifiers, at gg.Point) { h.drag(mods, at) }

func TestActivateShowsBoundsOfExistingSelection(t *testing.T) {
	h, sq := squareHarness(t)
	_, shown := h.tool.Bounds()
	assert.False(t, shown)

	h.sel.SetSelection(sq, true)
	require.NoError(t, h.registry.Switch(SelectToolID, true, false))

	b, shown := h.tool.Bounds()
	require.True(t, shown)
	assert.Equal(t, scene.Rect{Width: 100, Height: 100}, b.Rect)
	assert.Equal(t, 8.0, h.tool.Tolerance())
}

func TestClickSelectsAndShiftClickDeselects(t *testing.T) {
	h, items := sampleHarness(t)
	c1, star := items[0], items[2]

	h.click(Modifiers{}, gg.Pt(160, 140))
	assert.Equal(t, []*scene.Node{c1}, h.sel.SelectedNodes())

	h.click(Modifiers{Shift: true}, gg.Pt(230, 140))
	assert.Equal(t, []*scene.Node{c1, star}, h.sel.SelectedNodes())

	h.click(Modifiers{}, gg.Pt(230, 140))
	assert.Equal(t, []*scene.Node{c1, star}, h.sel.SelectedNodes(), "clicking a selected item keeps the selection")

	h.click(Modifiers{Shift: true}, gg.Pt(160, 140))
	assert.Equal(t, []*scene.Node{star}, h.sel.SelectedNodes())
	assert.Equal(t, ModeNone, h.tool.Mode())
}

func TestMoveDragsSelection(t *testing.T) {
	h, sq := squareHarness(t)

	h.pointer.Down(Pointer{Point: gg.Pt(0, 50)})
	assert.Equal(t, ModeMove, h.tool.Mode())
	_, shown := h.tool.Bounds()
	assert.False(t, shown, "bounds hide while grabbing")

	h.pointer.Drag(Pointer{Point: gg.Pt(10, 55)})
	h.pointer.Drag(Pointer{Point: gg.Pt(20, 50)})
	h.pointer.Up(Pointer{Point: gg.Pt(20, 50)})

	b, _ := sq.Bounds()
	assert.InDelta(t, 20, b.X, 1e-9)
	assert.InDelta(t, 0, b.Y, 1e-9)
	assert.Equal(t, ModeNone, h.tool.Mode())
	bounds, shown := h.tool.Bounds()
	require.True(t, shown)
	assert.InDelta(t, 20, bounds.Rect.X, 1e-9)
	assert.Empty(t, h.snapshots)
}

func TestAltDragClonesSelection(t *testing.T) {
	h, items := sampleHarness(t)
	c1, c2 := items[0], items[1]
	h.sel.SetSelection(c1, true)
	h.sel.SetSelection(c2, true)
	require.NoError(t, h.registry.Switch(SelectToolID, true, false))
	before := h.graph.Count()

	h.pointer.Down(Pointer{Point: gg.Pt(160, 140), Modifiers: Modifiers{Alt: true}})
	assert.Equal(t, ModeCloneMove, h.tool.Mode())
	h.pointer.Drag(Pointer{Point: gg.Pt(170, 150), Modifiers: Modifiers{Alt: true}})
	h.pointer.Up(Pointer{Point: gg.Pt(170, 150)})

	sel := h.sel.SelectedNodes()
	assert.Len(t, sel, 2)
	assert.Equal(t, before+2, h.graph.Count())
	assert.False(t, c1.Selected())
	assert.False(t, c2.Selected())
	assert.NotContains(t, sel, c1)
	assert.Equal(t, []string{"cloneSelection"}, h.snapshots)

	orig, _ := c1.Bounds()
	moved, _ := sel[0].Bounds()
	assert.InDelta(t, orig.X+10, moved.X, 1e-9)
	assert.InDelta(t, orig.Y+10, moved.Y, 1e-9)
}

func TestMarqueeFromEmptyCanvas(t *testing.T) {
	h, items := sampleHarness(t)
	star := items[2]
	h.sel.SetSelection(star, true)

	h.pointer.Down(Pointer{Point: gg.Pt(100, 100)})
	assert.Equal(t, ModeRectSelection, h.tool.Mode())
	assert.Empty(t, h.sel.SelectedNodes(), "pressing on empty canvas clears the selection")

	h.pointer.Drag(Pointer{Point: gg.Pt(130, 120)})
	r, active := h.tool.Marquee()
	require.True(t, active)
	assert.Equal(t, scene.Rect{X: 100, Y: 100, Width: 30, Height: 20}, r)

	h.pointer.Drag(Pointer{Point: gg.Pt(165, 150)})
	h.pointer.Up(Pointer{Point: gg.Pt(165, 150)})

	assert.Equal(t, []*scene.Node{items[0]}, h.sel.SelectedNodes())
	_, active = h.tool.Marquee()
	assert.False(t, active)
	_, shown := h.tool.Bounds()
	assert.True(t, shown)
}

func TestShiftMarqueeInvertsAndKeepsSelection(t *testing.T) {
	h, items := sampleHarness(t)
	c1, star := items[0], items[2]
	h.sel.SetSelection(c1, true)
	h.sel.SetSelection(star, true)

	h.drag(Modifiers{Shift: true}, gg.Pt(100, 100), gg.Pt(165, 150))

	assert.Equal(t, []*scene.Node{star}, h.sel.SelectedNodes())
}

func TestClickWithoutDragSelectsNothing(t *testing.T) {
	h, _ := sampleHarness(t)
	h.click(Modifiers{}, gg.Pt(10, 10))
	assert.Empty(t, h.sel.SelectedNodes())
	assert.Equal(t, ModeNone, h.tool.Mode())
}

func TestScaleHandle(t *testing.T) {
	h, sq := squareHarness(t)
	h.sel.SetSelection(sq, true)
	h.tool.RefreshBounds()

	h.pointer.Down(Pointer{Point: gg.Pt(101, 99)})
	assert.Equal(t, ModeScale, h.tool.Mode())
	layer := sq.Parent()
	h.pointer.Drag(Pointer{Point: gg.Pt(151, 99), Modifiers: Modifiers{Shift: true}})
	assert.True(t, sq.Parent().IsHelper())
	h.pointer.Up(Pointer{Point: gg.Pt(151, 99)})

	assert.Same(t, layer, sq.Parent(), "the item is back in its layer")
	b, _ := sq.Bounds()
	assert.InDelta(t, 150, b.Width, 1e-9)
	assert.InDelta(t, 150, b.Height, 1e-9)
	assert.Equal(t, 1, h.graph.Count())
}

func TestSecondaryButtonDuringScaleIsIgnored(t *testing.T) {
	h, sq := squareHarness(t)
	h.sel.SetSelection(sq, true)
	h.tool.RefreshBounds()
	layer := sq.Parent()

	h.pointer.Down(Pointer{Point: gg.Pt(101, 99)})
	h.pointer.Drag(Pointer{Point: gg.Pt(121, 99)})
	h.pointer.Down(Pointer{Point: gg.Pt(300, 300), Button: 2})
	h.pointer.Drag(Pointer{Point: gg.Pt(320, 300), Button: 2})
	h.pointer.Up(Pointer{Point: gg.Pt(320, 300), Button: 2})
	assert.Equal(t, ModeScale, h.tool.Mode())

	h.pointer.Drag(Pointer{Point: gg.Pt(151, 99)})
	h.pointer.Up(Pointer{Point: gg.Pt(151, 99)})

	assert.Equal(t, ModeNone, h.tool.Mode())
	assert.Same(t, layer, sq.Parent())
	b, _ := sq.Bounds()
	assert.InDelta(t, 150, b.Width, 1e-9)
	assert.InDelta(t, 100, b.Height, 1e-9)
}

func TestMouseDownClosesOpenSession(t *testing.T) {
	h, sq := squareHarness(t)
	h.sel.SetSelection(sq, true)
	h.tool.RefreshBounds()
	layer := sq.Parent()

	h.tool.MouseDown(MouseEvent{Point: gg.Pt(101, 99)})
	require.Equal(t, ModeScale, h.tool.Mode())
	h.tool.MouseDrag(MouseEvent{Point: gg.Pt(121, 99), Delta: gg.Pt(20, 0)})
	require.True(t, sq.Parent().IsHelper())

	h.tool.MouseDown(MouseEvent{Point: gg.Pt(500, 500)})
	assert.Same(t, layer, sq.Parent())
	assert.Equal(t, 1, h.graph.Count())
	b, _ := sq.Bounds()
	assert.InDelta(t, 120, b.Width, 1e-9)
}

func TestRotateHandleSnaps(t *testing.T) {
	h, sq := squareHarness(t)
	h.sel.SetSelection(sq, true)
	h.tool.RefreshBounds()
	b, _ := h.tool.Bounds()
	assert.Equal(t, gg.Pt(50, 110), b.RotPoint)

	h.pointer.Down(Pointer{Point: gg.Pt(50, 109)})
	assert.Equal(t, ModeRotate, h.tool.Mode())
	h.pointer.Drag(Pointer{Point: gg.Pt(-9, 109), Modifiers: Modifiers{Shift: true}})
	assert.InDelta(t, 45, sq.Rotation(), 1e-9)
	h.pointer.Up(Pointer{Point: gg.Pt(-9, 109)})

	assert.True(t, sq.ApplyMatrix())
	assert.True(t, scene.IsIdentity(sq.Matrix()))
	got, _ := sq.Bounds()
	assert.InDelta(t, 100*1.4142135623730951, got.Width, 1e-6)
}

func TestRotationHandleWinsOverItemHit(t *testing.T) {
	h, sq := squareHarness(t)
	sq.Fill = "#ff0000"
	h.sel.SetSelection(sq, true)
	h.view.SetZoom(0.5)
	h.tool.RefreshBounds()

	b, _ := h.tool.Bounds()
	assert.Equal(t, gg.Pt(50, 120), b.RotPoint)
	h.pointer.Down(Pointer{Point: gg.Pt(50, 105)})
	assert.Equal(t, 16.0, h.tool.Tolerance())
	assert.Equal(t, ModeRotate, h.tool.Mode())
	h.pointer.Up(Pointer{Point: gg.Pt(50, 105)})
}

func TestSecondaryButtonIsIgnored(t *testing.T) {
	h, sq := squareHarness(t)
	h.pointer.Down(Pointer{Point: gg.Pt(0, 50), Button: 2})
	h.pointer.Drag(Pointer{Point: gg.Pt(40, 50), Button: 2})
	h.pointer.Up(Pointer{Point: gg.Pt(40, 50), Button: 2})

	assert.Empty(t, h.sel.SelectedNodes())
	b, _ := sq.Bounds()
	assert.Equal(t, 0.0, b.X)
}

func TestDoubleClickEditsSegments(t *testing.T) {
	h, sq := squareHarness(t)
	at := time.Unix(100, 0)

	h.pointer.Down(Pointer{Point: gg.Pt(0, 50), Time: at})
	h.pointer.Up(Pointer{Point: gg.Pt(0, 50), Time: at})
	h.pointer.Down(Pointer{Point: gg.Pt(0, 50), Time: at.Add(100 * time.Millisecond)})
	h.pointer.Up(Pointer{Point: gg.Pt(0, 50), Time: at.Add(100 * time.Millisecond)})

	assert.True(t, sq.FullySelected())
	assert.Equal(t, "Segment", h.sel.Kind())
}

func TestDeleteHidesBoundsWhileActive(t *testing.T) {
	h, sq := squareHarness(t)
	h.sel.SetSelection(sq, true)
	h.tool.RefreshBounds()

	require.NoError(t, h.registry.Keymap().Run("select.delete"))

	_, shown := h.tool.Bounds()
	assert.False(t, shown)
	assert.Zero(t, h.graph.Count())
	assert.Equal(t, []string{"deleteSelection"}, h.snapshots)
}

func TestDeactivateUnsubscribes(t *testing.T) {
	h, sq := squareHarness(t)
	h.sel.SetSelection(sq, true)
	h.tool.RefreshBounds()
	require.NoError(t, h.registry.Register(newFakeTool("other")))
	require.NoError(t, h.registry.Switch("other", false, true))

	h.bus.Emit(trigger.DeleteItems)
	_, shown := h.tool.Bounds()
	assert.True(t, shown)
	assert.Same(t, h.tool, h.registry.Ducked())
}

func TestKeyboardActions(t *testing.T) {
	h, items := sampleHarness(t)
	keys := h.registry.Keymap()

	assert.True(t, keys.Press("ctrl-a"))
	assert.Len(t, h.sel.SelectedNodes(), 3)
	_, shown := h.tool.Bounds()
	assert.True(t, shown)

	h.sel.Clear()
	h.sel.SetSelection(items[0], true)
	assert.True(t, keys.Press("ctrl-i"))
	assert.Equal(t, items[1:], h.sel.SelectedNodes())

	assert.True(t, keys.Press("ctrl-d"))
	assert.Equal(t, 5, h.graph.Count())

	for _, name := range []string{
		"select.splitAtSelected", "select.removeSelectedSegments",
		"select.smoothHandles", "select.selectAllSegments",
	} {
		assert.NoError(t, keys.Run(name))
	}
	assert.Equal(t, "Segment", h.sel.Kind())
}

func TestDrawImmediate(t *testing.T) {
	h, sq := squareHarness(t)
	h.sel.SetSelection(sq, true)
	h.view.SetZoom(2)
	h.tool.RefreshBounds()

	h.pointer.Down(Pointer{Point: gg.Pt(200, 200)})
	h.pointer.Drag(Pointer{Point: gg.Pt(220, 230)})
	rec := NewRecorder()
	h.pointer.Draw(rec)

	require.NotEmpty(t, rec.Commands)
	marquee := rec.Commands[0]
	assert.Equal(t, "strokeRect", marquee.Op)
	assert.Equal(t, []float64{1.5, 1.5}, marquee.Dash)
	assert.Equal(t, DefaultGuideColor, marquee.Color)
	h.pointer.Up(Pointer{Point: gg.Pt(220, 230)})
}

func TestDrawImmediateBounds(t *testing.T) {
	h, sq := squareHarness(t)
	h.sel.SetSelection(sq, true)
	h.view.SetZoom(2)
	h.tool.RefreshBounds()

	rec := NewRecorder()
	h.tool.DrawImmediate(rec)

	require.Len(t, rec.Commands, 11)
	assert.Equal(t, DrawCommand{Op: "strokeRect", Width: 100, Height: 100, Color: DefaultGuideColor}, rec.Commands[0])
	assert.Equal(t, DrawCommand{Op: "strokeCircle", X: 50, Y: 105, Radius: 2.5, Color: DefaultGuideColor}, rec.Commands[1])
	assert.Equal(t, DrawCommand{Op: "fillCircle", X: 50, Y: 105, Radius: 2.5, Color: "#ffffff"}, rec.Commands[2])

	corner, edge := rec.Commands[3], rec.Commands[4]
	assert.Equal(t, "fillRect", corner.Op)
	assert.Equal(t, 3.0, corner.Width)
	assert.Equal(t, 2.0, edge.Width)
	assert.Equal(t, -1.5, corner.X)
	assert.Equal(t, 98.5, corner.Y)

	out, err := rec.JSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"op":"fillCircle"`)
}

func TestGGCanvasPaintsHandles(t *testing.T) {
	dc := gg.NewContext(64, 64)
	c := NewGGCanvas(dc)
	c.SetFillStyle(DefaultGuideColor)
	c.FillRect(scene.Rect{X: 10, Y: 10, Width: 20, Height: 20})

	got := color.RGBAModel.Convert(dc.Image().At(20, 20)).(color.RGBA)
	assert.InDelta(t, 0x92, int(got.R), 1)
	assert.InDelta(t, 0x57, int(got.G), 1)
	assert.InDelta(t, 0xf7, int(got.B), 1)
	assert.Equal(t, uint8(0xff), got.A)

	empty := color.RGBAModel.Convert(dc.Image().At(50, 50)).(color.RGBA)
	assert.Zero(t, empty.A)
}
