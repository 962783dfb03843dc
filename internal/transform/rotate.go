package transform

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// DefaultSnapAngle is the snapping increment in degrees.
const DefaultSnapAngle = 45.0

// Rotate turns items around the center of their bounds, following the
// pointer. Free rotation is applied incrementally so existing rotations are
// preserved; snapped rotation is set as an absolute angle.
type Rotate struct {
	snapAngle float64
	items     []*scene.Node
	pivot     gg.Point
	prev      []float64
}

// NewRotate starts a rotate gesture grabbed at point. A non-positive
// snapAngle selects DefaultSnapAngle.
func NewRotate(items []*scene.Node, center, point gg.Point, snapAngle float64) *Rotate {
	if snapAngle <= 0 {
		snapAngle = DefaultSnapAngle
	}
	r := &Rotate{
		snapAngle: snapAngle,
		items:     items,
		pivot:     center,
		prev:      make([]float64, len(items)),
	}
	start := scene.Angle(point.Sub(center))
	for i := range r.prev {
		r.prev[i] = start
	}
	return r
}

// Pivot returns the rotation center.
func (r *Rotate) Pivot() gg.Point { return r.pivot }

// Update rotates toward point and returns the pointer angle used, snapped
// when snap is set.
func (r *Rotate) Update(point gg.Point, snap bool) float64 {
	angle := scene.Angle(point.Sub(r.pivot))
	if snap {
		angle = math.Round(angle/r.snapAngle) * r.snapAngle
	}
	for i, n := range r.items {
		if snap {
			n.SetApplyMatrix(false)
			n.SetPivot(r.pivot)
			// The rotation handle sits below the center, at 90 degrees.
			n.SetRotation(angle - 90)
		} else {
			n.Rotate(angle-r.prev[i], r.pivot)
		}
		r.prev[i] = angle
	}
	return angle
}

// End bakes the rotation of every touched item.
func (r *Rotate) End() {
	for _, n := range r.items {
		n.SetApplyMatrix(true)
	}
}
