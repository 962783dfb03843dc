// Package selection owns the notion of "current selection" over a scene
// graph. The selection is never stored on its own: it is recomputed from
// the selection flags of nodes in the active layer.
package selection

import (
	"log/slog"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/trigger"
)

// Model mutates and queries selection state of a scene graph.
type Model struct {
	graph *scene.Graph
	bus   *trigger.Bus
	opts  modelOptions
}

// New creates a selection model over graph, emitting notifications on bus.
func New(graph *scene.Graph, bus *trigger.Bus, opts ...Option) *Model {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Model{graph: graph, bus: bus, opts: o}
}

// Graph returns the scene graph the model works on.
func (m *Model) Graph() *scene.Graph { return m.graph }

// SetGraph switches to another scene graph, e.g. after a document load.
func (m *Model) SetGraph(g *scene.Graph) { m.graph = g }

func (m *Model) emit(names ...trigger.Name) {
	if m.bus != nil {
		m.bus.EmitAll(names...)
	}
}

func (m *Model) inActiveLayer(n *scene.Node) bool {
	active := m.graph.ActiveLayer()
	return active != nil && n.Layer() == active
}

func (m *Model) selectable(n *scene.Node) bool {
	return n.Data != nil && !n.IsHelper() && m.inActiveLayer(n)
}

// SelectableItems returns every node of the active layer, at any depth,
// that carries data and is not an engine helper.
func (m *Model) SelectableItems() []*scene.Node {
	return m.graph.Items(m.selectable)
}

// topLevelSelectable returns the selectable direct children of the active layer.
func (m *Model) topLevelSelectable() []*scene.Node {
	active := m.graph.ActiveLayer()
	if active == nil {
		return nil
	}
	var out []*scene.Node
	for _, n := range active.Children() {
		if m.selectable(n) {
			out = append(out, n)
		}
	}
	return out
}

// SelectAll selects every selectable item.
func (m *Model) SelectAll() {
	for _, n := range m.SelectableItems() {
		m.SetSelection(n, true)
	}
}

// SelectRandom selects each selectable item with a probability of one half.
func (m *Model) SelectRandom() {
	for _, n := range m.SelectableItems() {
		if m.randFloat() > 0.5 {
			m.SetSelection(n, true)
		}
	}
}

func (m *Model) randFloat() float64 {
	if m.opts.rand != nil {
		return m.opts.rand.Float64()
	}
	return rand.Float64()
}

// Clear deselects every node of the scene, not only the active layer.
func (m *Model) Clear() {
	m.graph.DeselectAll()
	m.emit(trigger.SelectionChanged)
}

// Target returns the node that selecting n actually selects: n itself, or
// its top-most group or compound path ancestor.
func Target(n *scene.Node) *scene.Node {
	target := n
	for p := n.Parent(); p != nil && p.IsContainer(); p = p.Parent() {
		target = p
	}
	return target
}

// SetSelection selects or deselects a node. Nodes inside groups redirect to
// the top-most group. Nodes outside the active layer and nodes flagged
// no-select are left alone.
func (m *Model) SetSelection(n *scene.Node, state bool) {
	if n == nil || !m.inActiveLayer(n) {
		return
	}
	target := Target(n)
	if target.NoSelect() {
		return
	}
	if target.IsPath() {
		target.SetFullySelected(false)
	}
	target.SetSelected(state)
	if target.IsContainer() {
		for _, c := range target.Children() {
			c.SetSelected(false)
		}
	}
	m.emit(trigger.SelectionChanged)
}

// SelectedNodes returns the top-level selection of the active layer in
// paint order (bottom first). Descendants of selected groups, helpers and
// selection-bound markers are not reported. Paths with selected segments
// count as selected.
func (m *Model) SelectedNodes() []*scene.Node {
	active := m.graph.ActiveLayer()
	if active == nil {
		return nil
	}
	var out []*scene.Node
	active.Walk(func(n *scene.Node) bool {
		if n.IsHelper() {
			return true
		}
		if !n.HasSelection() || n.Data.Flag(scene.DataSelectionBound) {
			return true
		}
		out = append(out, n)
		return !(n.Selected() && n.IsContainer())
	})
	return out
}

// SelectedPaths returns the selected nodes that are plain paths.
func (m *Model) SelectedPaths() []*scene.Node {
	var out []*scene.Node
	for _, n := range m.SelectedNodes() {
		if n.IsPath() {
			out = append(out, n)
		}
	}
	return out
}

// Kind describes the current selection for UI affordances: empty when
// nothing is selected, "Segment" when the first item has selected
// segments, "Mixed" for differing kinds, otherwise the shared kind name.
func (m *Model) Kind() string {
	sel := m.SelectedNodes()
	if len(sel) == 0 {
		return ""
	}
	first := sel[0]
	if first.IsPath() && first.HasSelectedSegments() {
		return "Segment"
	}
	for _, n := range sel[1:] {
		if n.Kind() != first.Kind() {
			return "Mixed"
		}
	}
	return first.Kind().String()
}

// Invert flips the selection of the top-level selectable items.
func (m *Model) Invert() {
	for _, n := range m.topLevelSelectable() {
		if n.NoSelect() {
			continue
		}
		state := !n.Selected()
		if n.IsPath() {
			n.SetFullySelected(false)
		}
		n.SetSelected(state)
		if state && n.IsContainer() {
			for _, c := range n.Children() {
				c.SetSelected(false)
			}
		}
	}
	m.emit(trigger.SelectionChanged)
}

// Focus selects n alone, activating its layer when needed, and returns the
// center of its bounds for the host view to pan to.
func (m *Model) Focus(n *scene.Node) gg.Point {
	m.graph.DeselectAll()
	if layer := n.Layer(); layer != nil && m.graph.ActivateLayer(layer) {
		m.emit(trigger.LayersChanged)
	}
	n.SetSelected(true)
	m.emit(trigger.SelectionChanged)
	b, _ := n.Bounds()
	return b.Center()
}

// Delete removes every selected node from the scene.
func (m *Model) Delete() {
	sel := m.SelectedNodes()
	for _, n := range sel {
		n.Remove()
	}
	slog.Debug("deleted selection", "count", len(sel))
	m.emit(trigger.DeleteItems, trigger.SelectionChanged)
	m.opts.redraw()
	m.opts.snapshot("deleteSelection")
}

// Clone duplicates every selected node directly above the original. The
// copies stay selected and the originals are deselected, so a following
// move drags the copies.
func (m *Model) Clone() []*scene.Node {
	sel := m.SelectedNodes()
	clones := make([]*scene.Node, 0, len(sel))
	for _, n := range sel {
		clones = append(clones, n.Clone(m.opts.copyData))
		n.SetFullySelected(false)
	}
	m.emit(trigger.SelectionChanged)
	m.opts.snapshot("cloneSelection")
	return clones
}
