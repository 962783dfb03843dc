package transform

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// minScaleExtent is the reference size below which an axis keeps a factor of 1.
const minScaleExtent = 1e-7

// Scale scales items from a grabbed handle, either about the opposite
// handle or about the original center. Each frame recomputes the total
// factor from the gesture's baseline, so frames never compound.
type Scale struct {
	items      []*scene.Node
	corner     gg.Point
	origPivot  gg.Point
	origSize   gg.Point
	origCenter gg.Point

	group   *scene.Node
	origins []origin
}

// origin remembers where an item lived before the gesture borrowed it.
type origin struct {
	node   *scene.Node
	parent *scene.Node
	index  int
}

// NewScale starts a scale gesture. center is the center of the selection
// bounds and handle the grabbed handle point; the pivot is the handle
// diametrically opposite to it.
func NewScale(items []*scene.Node, center, handle gg.Point) *Scale {
	pivot := center.Sub(handle.Sub(center))
	return &Scale{
		items:      items,
		corner:     handle,
		origPivot:  pivot,
		origSize:   handle.Sub(pivot),
		origCenter: center,
	}
}

// Pivot returns the pivot used when not scaling around the center.
func (s *Scale) Pivot() gg.Point { return s.origPivot }

// Update adds delta to the dragged corner and applies the resulting total
// scale. proportional locks the aspect ratio, keeping each axis' sign;
// aroundCenter scales symmetrically about the original center. It returns
// the applied factors.
func (s *Scale) Update(delta gg.Point, proportional, aroundCenter bool) (float64, float64) {
	if s.group == nil {
		s.wrap()
	} else {
		s.group.ResetMatrix()
	}

	pivot, ref := s.origPivot, s.origSize
	if aroundCenter {
		pivot, ref = s.origCenter, s.origSize.Mul(0.5)
	}

	s.corner = s.corner.Add(delta)
	size := s.corner.Sub(pivot)
	sx, sy := 1.0, 1.0
	if math.Abs(ref.X) > minScaleExtent {
		sx = size.X / ref.X
	}
	if math.Abs(ref.Y) > minScaleExtent {
		sy = size.Y / ref.Y
	}

	if proportional {
		f := math.Max(math.Abs(sx), math.Abs(sy))
		sx, sy = f*signOf(sx), f*signOf(sy)
	}

	if s.group != nil {
		s.group.Scale(sx, sy, pivot)
	}
	return sx, sy
}

// signOf maps non-positive values to -1 so that a collapsed axis flips.
func signOf(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}

// wrap moves the items into a helper group that carries the shared
// transform for the gesture. The group takes the place of the first item.
func (s *Scale) wrap() {
	if len(s.items) == 0 {
		return
	}
	s.origins = make([]origin, 0, len(s.items))
	for _, n := range s.items {
		if n.Parent() == nil {
			continue
		}
		s.origins = append(s.origins, origin{node: n, parent: n.Parent(), index: n.Index()})
	}
	if len(s.origins) == 0 {
		return
	}

	g := scene.NewGroup()
	g.Data[scene.DataHelperItem] = true
	g.SetApplyMatrix(false)
	first := s.origins[0]
	first.parent.InsertChild(first.index, g)
	for _, o := range s.origins {
		g.AddChildren(o.node)
	}
	g.SetStrokeScaling(false)
	s.group = g
}

// End bakes the gesture's transform into the items and hands them back to
// their original parents at their original positions. It is a no-op when
// no frame was applied.
func (s *Scale) End() {
	if s.group == nil {
		return
	}
	g := s.group
	s.group = nil

	g.SetStrokeScaling(true)
	g.SetApplyMatrix(true)
	g.Remove()

	slices.SortStableFunc(s.origins, func(a, b origin) int {
		return cmp.Compare(a.index, b.index)
	})
	for _, o := range s.origins {
		o.parent.InsertChild(o.index, o.node)
	}
	slog.Debug("scale gesture ended", "items", len(s.origins))
}
