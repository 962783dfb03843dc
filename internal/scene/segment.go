package scene

import (
	"github.com/gogpu/gg"
)

// Segment is an anchor of a path with its two bezier handles. Handles are
// stored relative to the anchor point.
type Segment struct {
	Point     gg.Point
	HandleIn  gg.Point
	HandleOut gg.Point

	selected bool
	path     *Node
	index    int
}

// NewSegment creates a detached segment.
func NewSegment(point, handleIn, handleOut gg.Point) *Segment {
	return &Segment{Point: point, HandleIn: handleIn, HandleOut: handleOut, index: -1}
}

// Clone copies the geometry of the segment. The copy is detached and unselected.
func (s *Segment) Clone() *Segment {
	return NewSegment(s.Point, s.HandleIn, s.HandleOut)
}

func (s *Segment) Selected() bool         { return s.selected }
func (s *Segment) SetSelected(state bool) { s.selected = state }

// Path returns the owning path, nil when detached.
func (s *Segment) Path() *Node { return s.path }

// Index returns the segment's position within its path.
func (s *Segment) Index() int { return s.index }

// Next returns the following segment, wrapping around on closed paths.
func (s *Segment) Next() *Segment {
	if s.path == nil {
		return nil
	}
	segs := s.path.segments
	if s.index+1 < len(segs) {
		return segs[s.index+1]
	}
	if s.path.closed && len(segs) > 1 {
		return segs[0]
	}
	return nil
}

// Previous returns the preceding segment, wrapping around on closed paths.
func (s *Segment) Previous() *Segment {
	if s.path == nil {
		return nil
	}
	segs := s.path.segments
	if s.index > 0 {
		return segs[s.index-1]
	}
	if s.path.closed && len(segs) > 1 {
		return segs[len(segs)-1]
	}
	return nil
}

// IsLinear reports whether both handles are collapsed onto the anchor.
func (s *Segment) IsLinear() bool {
	return s.HandleIn == (gg.Point{}) && s.HandleOut == (gg.Point{})
}

// Linearize collapses both handles.
func (s *Segment) Linearize() {
	s.HandleIn = gg.Point{}
	s.HandleOut = gg.Point{}
}

// Smooth sets the handles tangent to the line through the neighbouring
// anchors, each a third of the distance to its neighbour. End segments of
// open paths use the single neighbour they have.
func (s *Segment) Smooth() {
	prev, next := s.Previous(), s.Next()
	if prev == nil && next == nil {
		return
	}
	var dir gg.Point
	switch {
	case prev == nil:
		dir = next.Point.Sub(s.Point)
	case next == nil:
		dir = s.Point.Sub(prev.Point)
	default:
		dir = next.Point.Sub(prev.Point)
	}
	dir = dir.Normalize()
	if prev != nil {
		s.HandleIn = dir.Mul(-s.Point.Distance(prev.Point) / 3)
	} else {
		s.HandleIn = gg.Point{}
	}
	if next != nil {
		s.HandleOut = dir.Mul(s.Point.Distance(next.Point) / 3)
	} else {
		s.HandleOut = gg.Point{}
	}
}

func (s *Segment) transform(m gg.Matrix) {
	s.Point = m.TransformPoint(s.Point)
	s.HandleIn = m.TransformVector(s.HandleIn)
	s.HandleOut = m.TransformVector(s.HandleOut)
}

// Curve is the bezier between two consecutive segments of a path.
type Curve struct {
	path  *Node
	index int
}

// Path returns the owning path.
func (c *Curve) Path() *Node { return c.path }

// Index returns the curve's position, equal to the index of its first segment.
func (c *Curve) Index() int { return c.index }

// Segment1 returns the segment the curve starts at.
func (c *Curve) Segment1() *Segment { return c.path.segments[c.index] }

// Segment2 returns the segment the curve ends at.
func (c *Curve) Segment2() *Segment {
	return c.path.segments[(c.index+1)%len(c.path.segments)]
}

// Bez returns the curve's control polygon mapped through m.
func (c *Curve) Bez(m gg.Matrix) gg.CubicBez {
	s1, s2 := c.Segment1(), c.Segment2()
	return gg.NewCubicBez(
		m.TransformPoint(s1.Point),
		m.TransformPoint(s1.Point.Add(s1.HandleOut)),
		m.TransformPoint(s2.Point.Add(s2.HandleIn)),
		m.TransformPoint(s2.Point),
	)
}

// IsStraight reports whether the curve has no handles.
func (c *Curve) IsStraight() bool {
	return c.Segment1().HandleOut == (gg.Point{}) && c.Segment2().HandleIn == (gg.Point{})
}

// Selected reports whether both end segments are selected.
func (c *Curve) Selected() bool {
	return c.Segment1().selected && c.Segment2().selected
}

// SetSelected selects or deselects both end segments.
func (c *Curve) SetSelected(state bool) {
	c.Segment1().selected = state
	c.Segment2().selected = state
}

// --- Path content ---

// Segments returns the path's segments. The slice must not be mutated.
func (n *Node) Segments() []*Segment { return n.segments }

// Closed reports whether the path is closed.
func (n *Node) Closed() bool { return n.closed }

// SetClosed opens or closes the path.
func (n *Node) SetClosed(closed bool) { n.closed = closed }

// AddSegments appends segments to a path. Segments owned by another path are copied.
func (n *Node) AddSegments(segs ...*Segment) {
	n.InsertSegments(len(n.segments), segs...)
}

// InsertSegments inserts segments at index.
func (n *Node) InsertSegments(index int, segs ...*Segment) {
	if n.kind != KindPath || len(segs) == 0 {
		return
	}
	index = max(0, min(index, len(n.segments)))
	owned := make([]*Segment, len(segs))
	for i, s := range segs {
		if s.path != nil && s.path != n {
			sel := s.selected
			s = s.Clone()
			s.selected = sel
		}
		s.path = n
		owned[i] = s
	}
	rest := append([]*Segment(nil), n.segments[index:]...)
	n.segments = append(append(n.segments[:index], owned...), rest...)
	n.reindex()
}

// RemoveSegment removes the segment at index and reports whether it existed.
func (n *Node) RemoveSegment(index int) bool {
	if index < 0 || index >= len(n.segments) {
		return false
	}
	s := n.segments[index]
	n.segments = append(n.segments[:index], n.segments[index+1:]...)
	s.path = nil
	s.index = -1
	n.reindex()
	return true
}

func (n *Node) reindex() {
	for i, s := range n.segments {
		s.index = i
	}
}

// CurveCount returns the number of curves: one per segment on closed
// paths, one fewer on open ones.
func (n *Node) CurveCount() int {
	if len(n.segments) < 2 {
		return 0
	}
	if n.closed {
		return len(n.segments)
	}
	return len(n.segments) - 1
}

// Curves returns the path's curves in order.
func (n *Node) Curves() []*Curve {
	count := n.CurveCount()
	out := make([]*Curve, count)
	for i := range count {
		out[i] = &Curve{path: n, index: i}
	}
	return out
}

// Curve returns the curve at index, nil when out of range.
func (n *Node) Curve(index int) *Curve {
	if index < 0 || index >= n.CurveCount() {
		return nil
	}
	return &Curve{path: n, index: index}
}

// splitEpsilon bounds the curve times treated as the curve ends.
const splitEpsilon = 1e-8

// SplitAt cuts the path at curve index and time t and returns the path
// holding the part after the cut, nil when the cut is out of range.
//
// A closed path is opened in place so that it starts and ends at the cut,
// and the path itself is returned. An open path keeps everything before
// the cut and a new path, inserted directly above it, receives the rest.
// The new path carries no data payload. Segment copies created at the cut
// are unselected.
func (n *Node) SplitAt(index int, t float64) *Node {
	if n.kind != KindPath {
		return nil
	}
	if t >= 1-splitEpsilon {
		index++
		t = 0
	}
	if index < 0 || index >= n.CurveCount() {
		return nil
	}
	if t > splitEpsilon {
		n.divideCurve(index, t)
		index++
	}

	segs := n.segments
	if n.closed {
		reordered := append(append([]*Segment(nil), segs[index:]...), segs[:index]...)
		n.segments = nil
		n.closed = false
		n.InsertSegments(0, append(reordered, segs[index].Clone())...)
		return n
	}

	tail := append([]*Segment(nil), segs[index:]...)
	end := segs[index].Clone()
	n.segments = append(segs[:index:index], end)
	end.path = n
	n.reindex()

	split := n.cloneAttributes(nil)
	for _, s := range tail {
		s.path = nil
	}
	split.AddSegments(tail...)
	if n.parent != nil {
		split.InsertAbove(n)
	}
	return split
}

// divideCurve inserts a segment at time t of the curve using de Casteljau
// subdivision, adjusting the neighbouring handles.
func (n *Node) divideCurve(index int, t float64) {
	c := n.Curve(index)
	b := c.Bez(gg.Identity())
	s1, s2 := c.Segment1(), c.Segment2()

	p01 := b.P0.Lerp(b.P1, t)
	p12 := b.P1.Lerp(b.P2, t)
	p23 := b.P2.Lerp(b.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	mid := p012.Lerp(p123, t)

	s1.HandleOut = p01.Sub(b.P0)
	s2.HandleIn = p23.Sub(b.P3)
	seg := NewSegment(mid, p012.Sub(mid), p123.Sub(mid))
	if c.IsStraight() {
		seg.Linearize()
	}
	seg.selected = s1.selected && s2.selected
	n.InsertSegments(index+1, seg)
}
