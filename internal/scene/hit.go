package scene

import (
	"math"

	"github.com/gogpu/gg"
)

// HitOptions selects what a hit test considers.
type HitOptions struct {
	Segments  bool // anchor points of paths
	Stroke    bool // stroked outlines, widened by half the stroke width
	Curves    bool // path outlines regardless of stroke
	Fill      bool // interiors of filled closed paths
	Guides    bool // include items flagged as guides
	Tolerance float64
}

// HitType names what part of a node was hit.
type HitType string

const (
	HitSegment HitType = "segment"
	HitStroke  HitType = "stroke"
	HitCurve   HitType = "curve"
	HitFill    HitType = "fill"
	HitBounds  HitType = "bounds"
)

// HitResult describes the frontmost hit.
type HitResult struct {
	Type    HitType
	Node    *Node
	Point   gg.Point
	Segment *Segment // set for HitSegment
	Curve   *Curve   // set for HitStroke and HitCurve
}

// flattenTolerance is the chord error used when turning curves into polylines.
const flattenTolerance = 0.1

// HitTest returns the frontmost leaf node at point p, testing layers and
// children front to back, or nil when nothing is hit.
func (g *Graph) HitTest(p gg.Point, opts HitOptions) *HitResult {
	for i := len(g.layers) - 1; i >= 0; i-- {
		l := g.layers[i]
		if !l.Visible {
			continue
		}
		if hit := hitTestChildren(l, p, opts); hit != nil {
			return hit
		}
	}
	return nil
}

// HitTest tests the node and its descendants at point p.
func (n *Node) HitTest(p gg.Point, opts HitOptions) *HitResult {
	return hitTestNode(n, p, opts)
}

func hitTestChildren(n *Node, p gg.Point, opts HitOptions) *HitResult {
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit := hitTestNode(n.children[i], p, opts); hit != nil {
			return hit
		}
	}
	return nil
}

func hitTestNode(n *Node, p gg.Point, opts HitOptions) *HitResult {
	if n == nil || !n.Visible || (n.Guide && !opts.Guides) {
		return nil
	}
	switch {
	case n.kind == KindPath:
		return hitTestPath(n, p, opts)
	case n.kind.IsBoundsOnly():
		r, _ := n.Bounds()
		if r.Expand(opts.Tolerance).Contains(p) {
			return &HitResult{Type: HitBounds, Node: n, Point: p}
		}
		return nil
	default:
		return hitTestChildren(n, p, opts)
	}
}

func hitTestPath(n *Node, p gg.Point, opts HitOptions) *HitResult {
	m := n.GlobalMatrix()
	tol := opts.Tolerance

	if opts.Segments {
		for _, s := range n.segments {
			sp := m.TransformPoint(s.Point)
			if sp.Distance(p) <= tol {
				return &HitResult{Type: HitSegment, Node: n, Point: sp, Segment: s}
			}
		}
	}

	if opts.Stroke || opts.Curves {
		strokeTol := tol
		if opts.Stroke && n.Stroke != "" {
			strokeTol += n.StrokeWidth / 2
		}
		for _, c := range n.Curves() {
			d, at := curveDistance(c.Bez(m), p)
			switch {
			case opts.Stroke && n.Stroke != "" && d <= strokeTol:
				return &HitResult{Type: HitStroke, Node: n, Point: at, Curve: c}
			case opts.Curves && d <= tol:
				return &HitResult{Type: HitCurve, Node: n, Point: at, Curve: c}
			}
		}
	}

	if opts.Fill && n.Fill != "" && n.closed && n.GGPath(m).Contains(p) {
		return &HitResult{Type: HitFill, Node: n, Point: p}
	}
	return nil
}

// curveDistance returns the distance from p to the flattened curve and
// the closest point on it.
func curveDistance(b gg.CubicBez, p gg.Point) (float64, gg.Point) {
	pts := flattenCurve(b)
	best := math.Inf(1)
	var at gg.Point
	for i := 1; i < len(pts); i++ {
		q := closestOnSegment(pts[i-1], pts[i], p)
		if d := q.Distance(p); d < best {
			best, at = d, q
		}
	}
	return best, at
}

func flattenCurve(b gg.CubicBez) []gg.Point {
	if b.P0 == b.P1 && b.P2 == b.P3 {
		return []gg.Point{b.P0, b.P3}
	}
	path := gg.NewPath()
	path.MoveTo(b.P0.X, b.P0.Y)
	path.CubicTo(b.P1.X, b.P1.Y, b.P2.X, b.P2.Y, b.P3.X, b.P3.Y)
	pts := path.Flatten(flattenTolerance)
	if len(pts) < 2 {
		return []gg.Point{b.P0, b.P3}
	}
	return pts
}

func closestOnSegment(a, b, p gg.Point) gg.Point {
	ab := b.Sub(a)
	l2 := ab.LengthSquared()
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t))
}
