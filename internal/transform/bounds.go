package transform

import (
	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// DefaultRotationHandleDistance is the screen distance between the bottom
// edge of the bounds and the rotation handle.
const DefaultRotationHandleDistance = 10.0

// Bounds is the selection frame with its handles.
type Bounds struct {
	Rect scene.Rect
	// ScalePoints run bottom-left, left-center, top-left, top-center,
	// top-right, right-center, bottom-right, bottom-center. Even indices
	// are corners.
	ScalePoints [8]gg.Point
	RotPoint    gg.Point
}

// Handle identifies what a pointer-down grabbed.
type Handle int

const (
	HandleNone Handle = iota
	HandleRotate
	HandleScale
)

// ComputeBounds unions the bounds of items and places the handles. The
// rotation handle sits distance/zoom beyond the bottom edge, on the ray
// from the center through the bottom-center. It reports false when no
// item has geometry.
func ComputeBounds(items []*scene.Node, zoom, distance float64) (Bounds, bool) {
	var rect scene.Rect
	found := false
	for _, n := range items {
		b, ok := n.Bounds()
		if !ok {
			continue
		}
		if !found {
			rect, found = b, true
			continue
		}
		rect = rect.Union(b)
	}
	if !found {
		return Bounds{}, false
	}
	if zoom <= 0 {
		zoom = 1
	}

	bc := rect.BottomCenter()
	dir := bc.Sub(rect.Center()).Normalize()
	if dir == (gg.Point{}) {
		dir = gg.Pt(0, 1)
	}
	return Bounds{
		Rect: rect,
		ScalePoints: [8]gg.Point{
			rect.BottomLeft(),
			rect.LeftCenter(),
			rect.TopLeft(),
			rect.TopCenter(),
			rect.TopRight(),
			rect.RightCenter(),
			rect.BottomRight(),
			rect.BottomCenter(),
		},
		RotPoint: bc.Add(dir.Mul(distance / zoom)),
	}, true
}

// HitHandle finds the handle within tolerance of p. The rotation handle
// wins over scale handles, and scale handles are tried in order.
func (b Bounds) HitHandle(p gg.Point, tolerance float64) (Handle, gg.Point) {
	if b.RotPoint.Distance(p) <= tolerance {
		return HandleRotate, b.RotPoint
	}
	for _, sp := range b.ScalePoints {
		if sp.Distance(p) <= tolerance {
			return HandleScale, sp
		}
	}
	return HandleNone, gg.Point{}
}
