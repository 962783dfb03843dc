package selection

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/trigger"
)

type fixture struct {
	graph     *scene.Graph
	model     *Model
	events    []trigger.Name
	snapshots []string
	redraws   int
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{graph: scene.NewGraph()}
	bus := trigger.New()
	for _, name := range []trigger.Name{trigger.SelectionChanged, trigger.DeleteItems, trigger.LayersChanged} {
		bus.On(name, func(n trigger.Name) { f.events = append(f.events, n) })
	}
	opts = append([]Option{
		WithSnapshotter(func(label string) { f.snapshots = append(f.snapshots, label) }),
		WithRedraw(func() { f.redraws++ }),
	}, opts...)
	f.model = New(f.graph, bus, opts...)
	return f
}

func (f *fixture) add(nodes ...*scene.Node) {
	f.graph.ActiveLayer().AddChildren(nodes...)
}

func square(x, y, size float64) *scene.Node {
	return scene.NewRectanglePath(scene.Rect{X: x, Y: y, Width: size, Height: size})
}

func TestSetSelectionRedirectsToTopGroup(t *testing.T) {
	f := newFixture(t)
	a, b := square(0, 0, 10), square(20, 0, 10)
	inner := scene.NewGroup(b)
	outer := scene.NewGroup(a, inner)
	f.add(outer)

	f.model.SetSelection(b, true)
	assert.True(t, outer.Selected())
	assert.False(t, inner.Selected())
	assert.False(t, b.Selected())
	assert.Equal(t, []*scene.Node{outer}, f.model.SelectedNodes())

	f.model.SetSelection(a, true)
	assert.Equal(t, []*scene.Node{outer}, f.model.SelectedNodes(), "selecting a child of a selected group changes nothing")
	assert.Contains(t, f.events, trigger.SelectionChanged)
}

func TestSetSelectionClearsChildrenOfSelectedGroup(t *testing.T) {
	f := newFixture(t)
	a := square(0, 0, 10)
	g := scene.NewGroup(a)
	f.add(g)
	a.SetSelected(true)

	f.model.SetSelection(g, true)
	assert.False(t, a.Selected())
	assert.Equal(t, []*scene.Node{g}, f.model.SelectedNodes())
}

func TestSetSelectionSkipsInvalidTargets(t *testing.T) {
	f := newFixture(t)
	locked := square(0, 0, 10)
	locked.Data[scene.DataNoSelect] = true
	f.add(locked)

	other := scene.NewLayer("Other")
	f.graph.AddLayer(other)
	elsewhere := square(0, 0, 10)
	other.AddChildren(elsewhere)

	f.model.SetSelection(locked, true)
	f.model.SetSelection(elsewhere, true)
	f.model.SetSelection(nil, true)

	assert.False(t, locked.Selected())
	assert.False(t, elsewhere.Selected())
	assert.Empty(t, f.events)
}

func TestSetSelectionResetsSegmentSelection(t *testing.T) {
	f := newFixture(t)
	p := square(0, 0, 10)
	f.add(p)
	p.Segments()[2].SetSelected(true)

	f.model.SetSelection(p, true)
	assert.True(t, p.Selected())
	assert.False(t, p.HasSelectedSegments())
}

func TestSelectedNodesPaintOrderAndFilters(t *testing.T) {
	f := newFixture(t)
	p1, p2, p3 := square(0, 0, 1), square(2, 0, 1), square(4, 0, 1)
	bound := square(6, 0, 1)
	bound.Data[scene.DataSelectionBound] = true
	f.add(p1, p2, p3, bound)

	f.model.SetSelection(p3, true)
	f.model.SetSelection(p1, true)
	bound.SetSelected(true)

	assert.Equal(t, []*scene.Node{p1, p3}, f.model.SelectedNodes())
	assert.Equal(t, []*scene.Node{p1, p3}, f.model.SelectedPaths())
}

func TestSelectedNodesNeverContainGroupAndDescendant(t *testing.T) {
	f := newFixture(t)
	a, b := square(0, 0, 1), square(2, 0, 1)
	g := scene.NewGroup(a, b)
	f.add(g)
	g.SetSelected(true)
	a.SetSelected(true)
	b.Segments()[0].SetSelected(true)

	assert.Equal(t, []*scene.Node{g}, f.model.SelectedNodes())
}

func TestKind(t *testing.T) {
	f := newFixture(t)
	p := square(0, 0, 10)
	raster := scene.NewBoundsItem(scene.KindRaster, scene.Rect{Width: 5, Height: 5})
	f.add(p, raster)

	assert.Equal(t, "", f.model.Kind())
	f.model.SetSelection(p, true)
	assert.Equal(t, "Path", f.model.Kind())
	f.model.SetSelection(raster, true)
	assert.Equal(t, "Mixed", f.model.Kind())

	f.model.Clear()
	p.Segments()[0].SetSelected(true)
	assert.Equal(t, "Segment", f.model.Kind())
}

func TestClearReachesEveryLayer(t *testing.T) {
	f := newFixture(t)
	p := square(0, 0, 1)
	f.add(p)
	other := scene.NewLayer("Other")
	f.graph.AddLayer(other)
	q := square(0, 0, 1)
	other.AddChildren(q)
	p.SetSelected(true)
	q.SetFullySelected(true)

	f.model.Clear()
	assert.False(t, p.Selected())
	assert.False(t, q.HasSelection())
	assert.Equal(t, []trigger.Name{trigger.SelectionChanged}, f.events)
}

func TestInvert(t *testing.T) {
	f := newFixture(t)
	a, b := square(0, 0, 1), square(2, 0, 1)
	g := scene.NewGroup(square(4, 0, 1))
	f.add(a, b, g)
	f.model.SetSelection(a, true)

	f.model.Invert()
	assert.Equal(t, []*scene.Node{b, g}, f.model.SelectedNodes())
}

func TestSelectAllAndRandom(t *testing.T) {
	f := newFixture(t)
	a, b := square(0, 0, 1), square(2, 0, 1)
	inner := square(4, 0, 1)
	g := scene.NewGroup(inner)
	f.add(a, b, g)

	f.model.SelectAll()
	assert.Equal(t, []*scene.Node{a, b, g}, f.model.SelectedNodes())

	none := newFixture(t, WithRand(rand.New(constSource(0))))
	none.add(square(0, 0, 1), square(2, 0, 1))
	none.model.SelectRandom()
	assert.Empty(t, none.model.SelectedNodes())

	all := newFixture(t, WithRand(rand.New(constSource(math.MaxUint64))))
	all.add(square(0, 0, 1), square(2, 0, 1))
	all.model.SelectRandom()
	assert.Len(t, all.model.SelectedNodes(), 2)
}

type constSource uint64

func (c constSource) Uint64() uint64 { return uint64(c) }

func TestFocusActivatesLayer(t *testing.T) {
	f := newFixture(t)
	f.add(square(0, 0, 1))
	other := scene.NewLayer("Other")
	f.graph.AddLayer(other)
	p := square(10, 10, 10)
	other.AddChildren(p)

	center := f.model.Focus(p)

	assert.Equal(t, gg.Pt(15, 15), center)
	assert.Same(t, other, f.graph.ActiveLayer())
	assert.Equal(t, []trigger.Name{trigger.LayersChanged, trigger.SelectionChanged}, f.events)
	assert.Equal(t, []*scene.Node{p}, f.model.SelectedNodes())
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	a, b := square(0, 0, 1), square(2, 0, 1)
	f.add(a, b)
	f.model.SetSelection(a, true)
	f.events = nil

	f.model.Delete()

	assert.Equal(t, 1, f.graph.Count())
	assert.Nil(t, a.Parent())
	assert.Equal(t, []trigger.Name{trigger.DeleteItems, trigger.SelectionChanged}, f.events)
	assert.Equal(t, []string{"deleteSelection"}, f.snapshots)
	assert.Equal(t, 1, f.redraws)
}

func TestCloneKeepsCopiesSelected(t *testing.T) {
	f := newFixture(t)
	c1 := document.NewCircle(gg.Pt(160, 160), 20)
	c2 := document.NewCircle(gg.Pt(190, 170), 20)
	c1.Data["meta"] = map[string]any{"n": 1}
	f.add(c1, c2)
	f.model.SetSelection(c1, true)
	f.model.SetSelection(c2, true)

	clones := f.model.Clone()

	require.Len(t, clones, 2)
	assert.Equal(t, 4, f.graph.Count())
	assert.Equal(t, clones, f.model.SelectedNodes())
	assert.False(t, c1.Selected())
	assert.False(t, c2.Selected())
	assert.Equal(t, []string{"cloneSelection"}, f.snapshots)

	clones[0].Data["meta"].(map[string]any)["n"] = 2
	assert.Equal(t, 1, c1.Data["meta"].(map[string]any)["n"])
}
