package scene

// Graph is the retained scene graph the editor interacts with.
// Layers are painted in order; exactly one layer is active at a time.
type Graph struct {
	layers []*Node
	active *Node
}

// NewGraph creates a scene graph with a single active layer.
func NewGraph() *Graph {
	g := &Graph{}
	g.AddLayer(NewLayer("Layer 1"))
	return g
}

// Layers returns the layers in paint order. The slice must not be mutated.
func (g *Graph) Layers() []*Node {
	return g.layers
}

// AddLayer appends a layer on top of the others. The first layer added
// becomes the active one.
func (g *Graph) AddLayer(layer *Node) {
	if layer == nil || layer.kind != KindLayer {
		return
	}
	layer.graph = g
	g.layers = append(g.layers, layer)
	if g.active == nil {
		g.active = layer
	}
}

// RemoveLayer removes a layer. If it was active, the topmost remaining
// layer becomes active.
func (g *Graph) RemoveLayer(layer *Node) {
	for i, l := range g.layers {
		if l != layer {
			continue
		}
		g.layers = append(g.layers[:i], g.layers[i+1:]...)
		layer.graph = nil
		if g.active == layer {
			g.active = nil
			if len(g.layers) > 0 {
				g.active = g.layers[len(g.layers)-1]
			}
		}
		return
	}
}

// ActiveLayer returns the layer that receives selection and new items.
func (g *Graph) ActiveLayer() *Node {
	return g.active
}

// ActivateLayer makes the given layer active. It reports whether the
// active layer changed.
func (g *Graph) ActivateLayer(layer *Node) bool {
	if layer == nil || layer.graph != g || g.active == layer {
		return false
	}
	g.active = layer
	return true
}

// Clear removes every layer.
func (g *Graph) Clear() {
	for _, l := range g.layers {
		l.graph = nil
	}
	g.layers = nil
	g.active = nil
}

// Walk visits every non-layer node in paint order (pre-order, bottom to
// top). Returning false from fn skips the node's children.
func (g *Graph) Walk(fn func(*Node) bool) {
	for _, l := range g.layers {
		for _, c := range l.children {
			c.walk(fn)
		}
	}
}

// Items returns all non-layer nodes matching the predicate, in paint order.
func (g *Graph) Items(match func(*Node) bool) []*Node {
	var out []*Node
	g.Walk(func(n *Node) bool {
		if match == nil || match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// SelectedItems returns every node carrying any selection state
// (item flag or selected segments), in paint order.
func (g *Graph) SelectedItems() []*Node {
	return g.Items(func(n *Node) bool { return n.HasSelection() })
}

// DeselectAll clears item and segment selection on every node of every layer.
func (g *Graph) DeselectAll() {
	for _, l := range g.layers {
		l.selected = false
	}
	g.Walk(func(n *Node) bool {
		n.selected = false
		for _, s := range n.segments {
			s.selected = false
		}
		return true
	})
}

// NodeByID finds a node (layers included) by its id.
func (g *Graph) NodeByID(id string) *Node {
	for _, l := range g.layers {
		if l.ID == id {
			return l
		}
	}
	var found *Node
	g.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count returns the number of non-layer nodes.
func (g *Graph) Count() int {
	count := 0
	g.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
