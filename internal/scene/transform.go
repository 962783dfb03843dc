package scene

import (
	"github.com/gogpu/gg"
)

// Matrix returns the node's local transform (identity once baked).
func (n *Node) Matrix() gg.Matrix { return n.matrix }

// SetMatrix replaces the local transform without baking it.
func (n *Node) SetMatrix(m gg.Matrix) { n.matrix = m }

// ResetMatrix sets the local transform back to identity.
func (n *Node) ResetMatrix() { n.matrix = gg.Identity() }

// GlobalMatrix returns the transform from local to project coordinates.
func (n *Node) GlobalMatrix() gg.Matrix {
	m := n.matrix
	for p := n.parent; p != nil; p = p.parent {
		m = p.matrix.Multiply(m)
	}
	return m
}

// ApplyMatrix reports whether transforms are baked into the content.
func (n *Node) ApplyMatrix() bool { return n.applyMatrix }

// SetApplyMatrix toggles baking. Switching it on bakes the pending local
// matrix into segments or children. Bounds-only items always keep their matrix.
func (n *Node) SetApplyMatrix(apply bool) {
	if !n.canBake() {
		return
	}
	n.applyMatrix = apply
	if apply {
		n.bake()
	}
}

// StrokeScaling reports whether strokes scale with the node's transform.
func (n *Node) StrokeScaling() bool { return n.strokeScaling }

// SetStrokeScaling sets stroke scaling on the node and all descendants.
func (n *Node) SetStrokeScaling(scaling bool) {
	n.strokeScaling = scaling
	for _, c := range n.children {
		c.SetStrokeScaling(scaling)
	}
}

func (n *Node) canBake() bool {
	return !n.kind.IsBoundsOnly()
}

// bake pushes the local matrix into the content and resets it to identity.
func (n *Node) bake() {
	if !n.canBake() || IsIdentity(n.matrix) {
		return
	}
	m := n.matrix
	n.matrix = gg.Identity()
	switch n.kind {
	case KindPath:
		for _, s := range n.segments {
			s.transform(m)
		}
	default:
		for _, c := range n.children {
			c.Transform(m)
		}
	}
	if n.pivot != nil {
		p := m.TransformPoint(*n.pivot)
		n.pivot = &p
	}
}

// Transform applies m in parent coordinates.
func (n *Node) Transform(m gg.Matrix) {
	n.matrix = m.Multiply(n.matrix)
	if n.applyMatrix {
		n.bake()
	}
}

// Translate moves the node by delta.
func (n *Node) Translate(delta gg.Point) {
	n.Transform(gg.Translate(delta.X, delta.Y))
}

// Rotate rotates the node by degrees around pivot.
func (n *Node) Rotate(degrees float64, pivot gg.Point) {
	n.Transform(RotateAbout(degrees, pivot))
}

// Scale scales the node around pivot.
func (n *Node) Scale(sx, sy float64, pivot gg.Point) {
	n.Transform(ScaleAbout(sx, sy, pivot))
}

// Rotation returns the rotation held by the local matrix, in degrees.
// Baked rotations are not reported.
func (n *Node) Rotation() float64 {
	return Rotation(n.matrix)
}

// SetRotation rotates the node around its position so that the local
// matrix holds exactly the given rotation.
func (n *Node) SetRotation(degrees float64) {
	n.Rotate(degrees-n.Rotation(), n.Position())
}

// Pivot returns the pivot in parent coordinates, or false if none is set.
func (n *Node) Pivot() (gg.Point, bool) {
	if n.pivot == nil {
		return gg.Point{}, false
	}
	return n.matrix.TransformPoint(*n.pivot), true
}

// SetPivot sets the point, in parent coordinates, that Position reports
// and that absolute rotations turn around.
func (n *Node) SetPivot(p gg.Point) {
	local := n.matrix.Invert().TransformPoint(p)
	n.pivot = &local
}

// Position returns the pivot if set, otherwise the center of the node's
// bounds in parent coordinates.
func (n *Node) Position() gg.Point {
	if p, ok := n.Pivot(); ok {
		return p
	}
	r, _ := n.boundsIn(n.matrix)
	return r.Center()
}

// SetPosition moves the node so that Position returns p.
func (n *Node) SetPosition(p gg.Point) {
	n.Translate(p.Sub(n.Position()))
}

// Bounds returns the node's bounding box in project coordinates, stroke
// excluded. The flag is false when the node has no geometry.
func (n *Node) Bounds() (Rect, bool) {
	return n.boundsIn(n.GlobalMatrix())
}

// boundsIn computes the bounds of the content mapped through m, where m
// already includes the node's own matrix.
func (n *Node) boundsIn(m gg.Matrix) (Rect, bool) {
	switch {
	case n.kind == KindPath:
		if len(n.segments) == 0 {
			return Rect{}, false
		}
		return FromGG(n.GGPath(m).BoundingBox()), true
	case n.kind.IsBoundsOnly():
		return TransformRect(m, n.content), true
	}

	var out Rect
	found := false
	for _, c := range n.children {
		r, ok := c.boundsIn(m.Multiply(c.matrix))
		if !ok {
			continue
		}
		if !found {
			out, found = r, true
		} else {
			out = out.Union(r)
		}
	}
	return out, found
}

// GGPath builds the outline of a path (or the union of a compound path's
// children) mapped through m, where m includes the node's own matrix.
func (n *Node) GGPath(m gg.Matrix) *gg.Path {
	p := gg.NewPath()
	n.appendOutline(p, m)
	return p
}

func (n *Node) appendOutline(p *gg.Path, m gg.Matrix) {
	if n.kind != KindPath {
		for _, c := range n.children {
			c.appendOutline(p, m.Multiply(c.matrix))
		}
		return
	}
	if len(n.segments) == 0 {
		return
	}
	first := m.TransformPoint(n.segments[0].Point)
	p.MoveTo(first.X, first.Y)
	for _, c := range n.Curves() {
		b := c.Bez(m)
		if c.IsStraight() {
			p.LineTo(b.P3.X, b.P3.Y)
			continue
		}
		p.CubicTo(b.P1.X, b.P1.Y, b.P2.X, b.P2.Y, b.P3.X, b.P3.Y)
	}
	if n.closed {
		p.Close()
	}
}
