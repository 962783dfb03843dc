package scene

import (
	"math"

	"github.com/gogpu/gg"
)

// Affine helpers on top of gg.Matrix. gg stores the transform as
//
//	| A  B  C |
//	| D  E  F |
//
// so x' = A*x + B*y + C and y' = D*x + E*y + F. Angles are in degrees,
// measured clockwise on screen because the y axis points down.

// ScaleAbout returns a matrix scaling by (sx, sy) around the given pivot.
func ScaleAbout(sx, sy float64, pivot gg.Point) gg.Matrix {
	return gg.Translate(pivot.X, pivot.Y).
		Multiply(gg.Scale(sx, sy)).
		Multiply(gg.Translate(-pivot.X, -pivot.Y))
}

// RotateAbout returns a matrix rotating by degrees around the given pivot.
func RotateAbout(degrees float64, pivot gg.Point) gg.Matrix {
	return gg.Translate(pivot.X, pivot.Y).
		Multiply(gg.Rotate(Radians(degrees))).
		Multiply(gg.Translate(-pivot.X, -pivot.Y))
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Angle returns the direction of the vector in degrees, in (-180, 180].
func Angle(v gg.Point) float64 {
	return math.Atan2(v.Y, v.X) * 180.0 / math.Pi
}

// Rotation extracts the rotation component of the matrix in degrees.
func Rotation(m gg.Matrix) float64 {
	return math.Atan2(m.D, m.A) * 180.0 / math.Pi
}

// MatrixFromSlice builds a matrix from canvas order [a, b, c, d, e, f]:
// | a  c  e |
// | b  d  f |
// Anything that is not six values yields the identity.
func MatrixFromSlice(v []float64) gg.Matrix {
	if len(v) != 6 {
		return gg.Identity()
	}
	return gg.Matrix{
		A: v[0], B: v[2], C: v[4],
		D: v[1], E: v[3], F: v[5],
	}
}

// MatrixToSlice returns the matrix in canvas order for JSON serialization.
func MatrixToSlice(m gg.Matrix) []float64 {
	return []float64{m.A, m.D, m.B, m.E, m.C, m.F}
}

// TransformRect transforms a rectangle and returns its axis-aligned bounding box.
func TransformRect(m gg.Matrix, r Rect) Rect {
	corners := r.Outline()
	out := Rect{}
	for i, c := range corners {
		p := m.TransformPoint(c)
		if i == 0 {
			out = Rect{X: p.X, Y: p.Y}
			continue
		}
		out = out.Union(Rect{X: p.X, Y: p.Y})
	}
	return out
}

// IsIdentity checks if the matrix is the identity (within epsilon).
func IsIdentity(m gg.Matrix) bool {
	const eps = 1e-10
	return math.Abs(m.A-1) < eps &&
		math.Abs(m.B) < eps &&
		math.Abs(m.C) < eps &&
		math.Abs(m.D) < eps &&
		math.Abs(m.E-1) < eps &&
		math.Abs(m.F) < eps
}
