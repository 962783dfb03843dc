package scene

import (
	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/typeid"
)

// Kind classifies a node by capability.
type Kind int

const (
	KindLayer Kind = iota
	KindGroup
	KindCompoundPath
	KindPath
	KindShape
	KindRaster
	KindPointText
	KindSymbolItem
)

func (k Kind) String() string {
	switch k {
	case KindLayer:
		return "Layer"
	case KindGroup:
		return "Group"
	case KindCompoundPath:
		return "CompoundPath"
	case KindPath:
		return "Path"
	case KindShape:
		return "Shape"
	case KindRaster:
		return "Raster"
	case KindPointText:
		return "PointText"
	case KindSymbolItem:
		return "SymbolItem"
	default:
		return "Unknown"
	}
}

// IsBoundsOnly reports whether nodes of this kind are selectable only
// through their bounding box.
func (k Kind) IsBoundsOnly() bool {
	switch k {
	case KindShape, KindRaster, KindPointText, KindSymbolItem:
		return true
	}
	return false
}

// Well-known keys of the per-node data payload.
const (
	DataNoSelect       = "noSelect"
	DataHelperItem     = "isHelperItem"
	DataSelectionBound = "isSelectionBound"
)

// Data is the opaque per-node payload. A nil payload marks a node that
// carries no semantic data and is therefore not selectable.
type Data map[string]any

// Flag returns the boolean stored under key, false when absent.
func (d Data) Flag(key string) bool {
	v, ok := d[key].(bool)
	return ok && v
}

// Node is an element of the scene graph.
type Node struct {
	ID   string
	Name string

	kind     Kind
	graph    *Graph // set on layers only
	parent   *Node
	children []*Node

	// Path content
	segments []*Segment
	closed   bool

	// Content rect of bounds-only items, in local coordinates
	content Rect

	// Transform state
	matrix        gg.Matrix
	applyMatrix   bool
	strokeScaling bool
	pivot         *gg.Point // local coordinates

	selected bool

	Visible     bool
	Guide       bool
	Fill        string
	Stroke      string
	StrokeWidth float64
	Data        Data
}

func newNode(kind Kind) *Node {
	return &Node{
		ID:            typeid.NewNodeID(),
		kind:          kind,
		matrix:        gg.Identity(),
		applyMatrix:   !kind.IsBoundsOnly(),
		strokeScaling: true,
		Visible:       true,
		Data:          Data{},
	}
}

// NewLayer creates an empty layer.
func NewLayer(name string) *Node {
	n := newNode(KindLayer)
	n.ID = typeid.NewLayerID()
	n.Name = name
	return n
}

// NewGroup creates a group owning the given children.
func NewGroup(children ...*Node) *Node {
	n := newNode(KindGroup)
	n.AddChildren(children...)
	return n
}

// NewCompoundPath creates a compound path from child paths.
func NewCompoundPath(children ...*Node) *Node {
	n := newNode(KindCompoundPath)
	n.AddChildren(children...)
	return n
}

// NewPath creates a path from segments.
func NewPath(segments []*Segment, closed bool) *Node {
	n := newNode(KindPath)
	n.closed = closed
	n.AddSegments(segments...)
	return n
}

// NewPolyline creates a path with straight segments through the points.
func NewPolyline(closed bool, points ...gg.Point) *Node {
	segs := make([]*Segment, len(points))
	for i, p := range points {
		segs[i] = NewSegment(p, gg.Point{}, gg.Point{})
	}
	return NewPath(segs, closed)
}

// NewRectanglePath creates a closed path tracing the rect.
func NewRectanglePath(r Rect) *Node {
	o := r.Outline()
	return NewPolyline(true, o[0], o[1], o[2], o[3])
}

// NewBoundsItem creates a bounds-only item (shape, raster, text, symbol)
// whose local content is the given rect.
func NewBoundsItem(kind Kind, content Rect) *Node {
	if !kind.IsBoundsOnly() {
		kind = KindRaster
	}
	n := newNode(kind)
	n.content = content
	return n
}

// Kind returns the node's classification.
func (n *Node) Kind() Kind { return n.kind }

func (n *Node) IsLayer() bool        { return n.kind == KindLayer }
func (n *Node) IsGroup() bool        { return n.kind == KindGroup }
func (n *Node) IsCompoundPath() bool { return n.kind == KindCompoundPath }
func (n *Node) IsPath() bool         { return n.kind == KindPath }
func (n *Node) IsBoundsOnly() bool   { return n.kind.IsBoundsOnly() }

// IsContainer reports whether the node is a group or compound path.
func (n *Node) IsContainer() bool {
	return n.kind == KindGroup || n.kind == KindCompoundPath
}

// IsHelper reports whether the node is an engine-internal helper.
func (n *Node) IsHelper() bool { return n.Data.Flag(DataHelperItem) }

// NoSelect reports whether the node refuses selection.
func (n *Node) NoSelect() bool { return n.Data.Flag(DataNoSelect) }

// Content returns the local content rect of a bounds-only item.
func (n *Node) Content() Rect { return n.content }

// --- Hierarchy ---

// Parent returns the parent node, nil for layers and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in paint order. The slice must not be mutated.
func (n *Node) Children() []*Node { return n.children }

// Graph returns the scene graph the node is attached to, if any.
func (n *Node) Graph() *Graph {
	if l := n.Layer(); l != nil {
		return l.graph
	}
	return nil
}

// Layer returns the layer containing the node (the node itself for layers).
func (n *Node) Layer() *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.kind == KindLayer {
			return cur
		}
	}
	return nil
}

// Index returns the node's position within its parent, -1 if detached.
func (n *Node) Index() int {
	if n.parent == nil {
		if n.graph != nil {
			for i, l := range n.graph.layers {
				if l == n {
					return i
				}
			}
		}
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// AddChildren appends children on top, detaching them from previous parents.
func (n *Node) AddChildren(children ...*Node) {
	for _, c := range children {
		n.InsertChild(len(n.children), c)
	}
}

// InsertChild inserts a child at index, clamped to the valid range.
func (n *Node) InsertChild(index int, child *Node) {
	if child == nil || child == n || child.kind == KindLayer {
		return
	}
	child.Remove()
	index = max(0, min(index, len(n.children)))
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
}

// InsertAbove inserts the node directly above other in other's parent.
func (n *Node) InsertAbove(other *Node) bool {
	if other == nil || other.parent == nil {
		return false
	}
	parent := other.parent
	n.Remove()
	parent.InsertChild(other.Index()+1, n)
	return true
}

// Remove detaches the node from its parent. It reports whether the node was attached.
func (n *Node) Remove() bool {
	if n.kind == KindLayer && n.graph != nil {
		n.graph.RemoveLayer(n)
		return true
	}
	if n.parent == nil {
		return false
	}
	p := n.parent
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	return true
}

// IsDescendantOf reports whether the node sits below ancestor.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for cur := n.parent; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Walk visits the node's descendants in paint order.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, c := range n.children {
		c.walk(fn)
	}
}

func (n *Node) walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}

// --- Selection flags ---

// Selected returns the item-level selection flag.
func (n *Node) Selected() bool { return n.selected }

// SetSelected sets the item-level selection flag only.
func (n *Node) SetSelected(state bool) { n.selected = state }

// HasSelectedSegments reports whether any segment of the path is selected.
func (n *Node) HasSelectedSegments() bool {
	for _, s := range n.segments {
		if s.selected {
			return true
		}
	}
	return false
}

// HasSelection reports whether the node carries item or segment selection.
func (n *Node) HasSelection() bool {
	return n.selected || n.HasSelectedSegments()
}

// FullySelected reports whether the path is selected with all of its segments.
func (n *Node) FullySelected() bool {
	if !n.selected || len(n.segments) == 0 {
		return false
	}
	for _, s := range n.segments {
		if !s.selected {
			return false
		}
	}
	return true
}

// SetFullySelected selects or deselects the item together with every segment.
func (n *Node) SetFullySelected(state bool) {
	for _, s := range n.segments {
		s.selected = state
	}
	n.selected = state
}

// --- Clone ---

// Clone deep-copies the node (children and segments included, selection
// state preserved) and inserts the copy directly above the original.
// copyData duplicates the data payload; nil shares nothing and leaves the
// copy without payload.
func (n *Node) Clone(copyData func(Data) Data) *Node {
	c := n.clone(copyData)
	c.InsertAbove(n)
	return c
}

func (n *Node) clone(copyData func(Data) Data) *Node {
	c := n.cloneAttributes(copyData)
	c.selected = n.selected
	for _, s := range n.segments {
		cs := s.Clone()
		cs.selected = s.selected
		c.AddSegments(cs)
	}
	for _, child := range n.children {
		c.AddChildren(child.clone(copyData))
	}
	return c
}

// cloneAttributes copies everything except content, hierarchy and selection.
func (n *Node) cloneAttributes(copyData func(Data) Data) *Node {
	c := newNode(n.kind)
	c.Name = n.Name
	c.closed = n.closed
	c.content = n.content
	c.matrix = n.matrix
	c.applyMatrix = n.applyMatrix
	c.strokeScaling = n.strokeScaling
	if n.pivot != nil {
		p := *n.pivot
		c.pivot = &p
	}
	c.Visible = n.Visible
	c.Guide = n.Guide
	c.Fill = n.Fill
	c.Stroke = n.Stroke
	c.StrokeWidth = n.StrokeWidth
	c.Data = nil
	if copyData != nil && n.Data != nil {
		c.Data = copyData(n.Data)
	}
	return c
}
