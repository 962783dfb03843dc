package scene

import (
	"math"
	"sort"

	"github.com/gogpu/gg"
)

// Intersection is a crossing of a node's outline with another outline.
type Intersection struct {
	Curve *Curve   // curve of the receiving path
	Point gg.Point // project coordinates
	Time  float64  // curve time in [0, 1]
}

// curveSamples is the number of pieces a non-straight curve is cut into
// for intersection tests.
const curveSamples = 32

// samePointEpsilon merges crossings reported at a shared vertex.
const samePointEpsilon = 1e-7

type polyline struct {
	curve *Curve
	pts   []gg.Point
}

// Intersections returns the points where the outline of n crosses the
// outline of other, ordered by curve index and time. Only paths and
// compound paths have outlines; anything else yields nil.
func (n *Node) Intersections(other *Node) []Intersection {
	a := n.polylines()
	b := other.polylines()
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	var out []Intersection
	for _, pa := range a {
		pieces := len(pa.pts) - 1
		for i := 0; i < pieces; i++ {
			for _, pb := range b {
				for j := 0; j+1 < len(pb.pts); j++ {
					u, ok := segmentIntersection(pa.pts[i], pa.pts[i+1], pb.pts[j], pb.pts[j+1])
					if !ok {
						continue
					}
					out = append(out, Intersection{
						Curve: pa.curve,
						Point: pa.pts[i].Lerp(pa.pts[i+1], u),
						Time:  (float64(i) + u) / float64(pieces),
					})
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Curve, out[j].Curve
		if ci.path != cj.path {
			return ci.path.Index() < cj.path.Index()
		}
		if ci.index != cj.index {
			return ci.index < cj.index
		}
		return out[i].Time < out[j].Time
	})
	return dedupeIntersections(out)
}

func dedupeIntersections(in []Intersection) []Intersection {
	var out []Intersection
	for _, x := range in {
		if len(out) > 0 && out[len(out)-1].Point.Distance(x.Point) < samePointEpsilon {
			continue
		}
		out = append(out, x)
	}
	// a crossing exactly at the start of a closed path also shows up at the end
	if len(out) > 1 && out[0].Point.Distance(out[len(out)-1].Point) < samePointEpsilon {
		out = out[:len(out)-1]
	}
	return out
}

// polylines samples every curve of the node in project coordinates.
func (n *Node) polylines() []polyline {
	switch n.kind {
	case KindPath:
		m := n.GlobalMatrix()
		curves := n.Curves()
		out := make([]polyline, 0, len(curves))
		for _, c := range curves {
			out = append(out, polyline{curve: c, pts: sampleCurve(c.Bez(m), c.IsStraight())})
		}
		return out
	case KindCompoundPath:
		var out []polyline
		for _, c := range n.children {
			out = append(out, c.polylines()...)
		}
		return out
	}
	return nil
}

func sampleCurve(b gg.CubicBez, straight bool) []gg.Point {
	if straight {
		return []gg.Point{b.P0, b.P3}
	}
	pts := make([]gg.Point, curveSamples+1)
	for i := range pts {
		pts[i] = b.Eval(float64(i) / curveSamples)
	}
	return pts
}

// segmentIntersection returns the parameter along p1-p2 at which it
// crosses q1-q2. Parallel segments never intersect.
func segmentIntersection(p1, p2, q1, q2 gg.Point) (float64, bool) {
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	denom := r.Cross(s)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	qp := q1.Sub(p1)
	u := qp.Cross(s) / denom
	v := qp.Cross(r) / denom
	const eps = 1e-9
	if u < -eps || u > 1+eps || v < -eps || v > 1+eps {
		return 0, false
	}
	return math.Max(0, math.Min(1, u)), true
}
