package scene

import (
	"math"

	"github.com/gogpu/gg"
)

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRect creates the rect spanned by two corner points, in any order.
func NewRect(a, b gg.Point) Rect {
	minX, minY := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	return Rect{
		X:      minX,
		Y:      minY,
		Width:  math.Max(a.X, b.X) - minX,
		Height: math.Max(a.Y, b.Y) - minY,
	}
}

// FromGG converts a gg rectangle.
func FromGG(r gg.Rect) Rect {
	return NewRect(r.Min, r.Max)
}

// Contains checks if a point is inside the rect. Edges count as inside.
func (r Rect) Contains(p gg.Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether the interiors of both rects overlap.
func (r Rect) Intersects(other Rect) bool {
	return other.X+other.Width > r.X &&
		other.Y+other.Height > r.Y &&
		other.X < r.X+r.Width &&
		other.Y < r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
// Degenerate rects (zero width or height) still contribute their extent.
func (r Rect) Union(other Rect) Rect {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the rect.
func (r Rect) Center() gg.Point {
	return gg.Pt(r.X+r.Width/2, r.Y+r.Height/2)
}

func (r Rect) TopLeft() gg.Point      { return gg.Pt(r.X, r.Y) }
func (r Rect) TopCenter() gg.Point    { return gg.Pt(r.X+r.Width/2, r.Y) }
func (r Rect) TopRight() gg.Point     { return gg.Pt(r.X+r.Width, r.Y) }
func (r Rect) RightCenter() gg.Point  { return gg.Pt(r.X+r.Width, r.Y+r.Height/2) }
func (r Rect) BottomRight() gg.Point  { return gg.Pt(r.X+r.Width, r.Y+r.Height) }
func (r Rect) BottomCenter() gg.Point { return gg.Pt(r.X+r.Width/2, r.Y+r.Height) }
func (r Rect) BottomLeft() gg.Point   { return gg.Pt(r.X, r.Y+r.Height) }
func (r Rect) LeftCenter() gg.Point   { return gg.Pt(r.X, r.Y+r.Height/2) }

// Outline returns the rect corners clockwise from the top-left.
func (r Rect) Outline() [4]gg.Point {
	return [4]gg.Point{r.TopLeft(), r.TopRight(), r.BottomRight(), r.BottomLeft()}
}

// Expand grows the rect by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}
