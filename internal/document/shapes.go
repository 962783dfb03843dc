package document

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// kappa places bezier handles so that four cubic curves approximate an
// ellipse: 4 * (sqrt(2) - 1) / 3.
const kappa = 0.5522847498

// NewRectangle builds a closed straight path tracing r.
func NewRectangle(r scene.Rect) *scene.Node {
	return scene.NewRectanglePath(r)
}

// NewEllipse builds a closed four-segment path approximating an ellipse,
// starting at the rightmost point and running clockwise on screen.
func NewEllipse(center gg.Point, rx, ry float64) *scene.Node {
	kx, ky := rx*kappa, ry*kappa
	segs := []*scene.Segment{
		scene.NewSegment(gg.Pt(rx, 0), gg.Pt(0, -ky), gg.Pt(0, ky)),
		scene.NewSegment(gg.Pt(0, ry), gg.Pt(kx, 0), gg.Pt(-kx, 0)),
		scene.NewSegment(gg.Pt(-rx, 0), gg.Pt(0, ky), gg.Pt(0, -ky)),
		scene.NewSegment(gg.Pt(0, -ry), gg.Pt(-kx, 0), gg.Pt(kx, 0)),
	}
	for _, s := range segs {
		s.Point = s.Point.Add(center)
	}
	return scene.NewPath(segs, true)
}

// NewCircle builds a circular path.
func NewCircle(center gg.Point, radius float64) *scene.Node {
	return NewEllipse(center, radius, radius)
}

// NewStar builds a closed star with the given number of points,
// alternating between radius1 and radius2 and starting straight up.
func NewStar(center gg.Point, points int, radius1, radius2 float64) *scene.Node {
	if points < 2 {
		points = 2
	}
	n := points * 2
	step := 360.0 / float64(n)
	pts := make([]gg.Point, n)
	for i := range pts {
		r := radius1
		if i%2 == 1 {
			r = radius2
		}
		a := scene.Radians(step*float64(i) - 90)
		pts[i] = center.Add(gg.Pt(math.Cos(a)*r, math.Sin(a)*r))
	}
	return scene.NewPolyline(true, pts...)
}
