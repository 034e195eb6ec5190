// Package transform wraps the affine matrix math behind geometry-delta
// re-projection: inverses, delta composition and parsing of SVG
// transform attributes into Mtransform matrices.
package transform

import (
	"math"

	mt "github.com/rustyoz/Mtransform"
)

const epsilon = 1e-9

// Translation builds a pure translation matrix.
func Translation(dx, dy float64) mt.Transform {
	t := mt.Identity()
	t[0][2] = dx
	t[1][2] = dy
	return t
}

// Rotation builds a rotation (degrees) about the given center.
func Rotation(angleDeg, cx, cy float64) mt.Transform {
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	r := mt.Identity()
	r[0][0], r[0][1] = cos, -sin
	r[1][0], r[1][1] = sin, cos
	if cx == 0 && cy == 0 {
		return r
	}
	return mt.MultiplyTransforms(mt.MultiplyTransforms(Translation(cx, cy), r), Translation(-cx, -cy))
}

// Scaling builds a scale matrix.
func Scaling(sx, sy float64) mt.Transform {
	t := mt.Identity()
	t[0][0] = sx
	t[1][1] = sy
	return t
}

// Invert returns the inverse of an affine matrix. ok is false for
// degenerate matrices (determinant ~ 0), which callers must skip.
func Invert(t mt.Transform) (mt.Transform, bool) {
	a, b, e := t[0][0], t[0][1], t[0][2]
	c, d, f := t[1][0], t[1][1], t[1][2]
	det := a*d - b*c
	if math.Abs(det) < epsilon {
		return mt.Identity(), false
	}
	inv := mt.Identity()
	inv[0][0] = d / det
	inv[0][1] = -b / det
	inv[1][0] = -c / det
	inv[1][1] = a / det
	inv[0][2] = -(inv[0][0]*e + inv[0][1]*f)
	inv[1][2] = -(inv[1][0]*e + inv[1][1]*f)
	return inv, true
}

// Delta composes after * inverse(before): the matrix describing how
// much an element moved between two edits. ok is false when before is
// not invertible.
func Delta(before, after mt.Transform) (mt.Transform, bool) {
	inv, ok := Invert(before)
	if !ok {
		return mt.Identity(), false
	}
	return mt.MultiplyTransforms(after, inv), true
}

// IsIdentity reports whether the matrix is the identity within
// floating-point tolerance.
func IsIdentity(t mt.Transform) bool {
	id := mt.Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(t[i][j]-id[i][j]) > epsilon {
				return false
			}
		}
	}
	return true
}

// TranslationOf extracts the pure-translation component.
func TranslationOf(t mt.Transform) (dx, dy float64) {
	return t[0][2], t[1][2]
}

// Apply maps a point through the matrix.
func Apply(t mt.Transform, x, y float64) (float64, float64) {
	return t.Apply(x, y)
}
