package rowan

import (
	"errors"
	"math"
)

// Mat4 is a 4x4 affine transformation matrix stored row-major: element
// (col, row) lives at index row*4 + col. The last column is always
// [0, 0, 0, 1], so points transform as row vectors with an implicit w=1.
type Mat4 [16]float64

// Mat4Identity is the identity matrix.
var Mat4Identity = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// ErrNotInvertible is returned when a matrix inverse is requested but the
// determinant is numerically indistinguishable from zero, e.g. after a node
// has been scaled to zero on some axis.
var ErrNotInvertible = errors.New("rowan: matrix is not invertible")

const degToRad = math.Pi / 180

// translationMat4 returns the matrix that translates by (x, y, z).
func translationMat4(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// scalingMat4 returns the matrix that scales by (x, y, z).
func scalingMat4(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// rotationMat4 returns the axis-angle (Rodrigues) rotation matrix for the
// given angle in degrees about the axis (x, y, z). The axis must be a unit
// vector; the result for non-unit axes is whatever the formula produces.
func rotationMat4(angle, x, y, z float64) Mat4 {
	c := math.Cos(angle * degToRad)
	s := math.Sin(angle * degToRad)
	d := 1 - c
	xs := x * s
	ys := y * s
	zs := z * s
	xd := x * d
	yd := y * d
	zd := z * d
	return Mat4{
		x*xd + c, y*xd + zs, x*zd - ys, 0,
		x*yd - zs, y*yd + c, y*zd + xs, 0,
		x*zd + ys, y*zd - xs, z*zd + c, 0,
		0, 0, 0, 1,
	}
}

// mat4Multiply returns a · b in row-major convention.
func mat4Multiply(a, b Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		r := row * 4
		a0, a1, a2, a3 := a[r], a[r+1], a[r+2], a[r+3]
		out[r] = a0*b[0] + a1*b[4] + a2*b[8] + a3*b[12]
		out[r+1] = a0*b[1] + a1*b[5] + a2*b[9] + a3*b[13]
		out[r+2] = a0*b[2] + a1*b[6] + a2*b[10] + a3*b[14]
		out[r+3] = a0*b[3] + a1*b[7] + a2*b[11] + a3*b[15]
	}
	return out
}

// mat4Inverse computes the inverse of an affine matrix (last column
// [0 0 0 1]) by cofactor expansion of the upper-left 3x3 block. It is not a
// general 4x4 inversion. The determinant is accumulated into separate
// positive and negative sums so near-cancellation can be detected: when the
// determinant magnitude is negligible relative to the magnitude of its
// partial sums, ErrNotInvertible is returned.
func mat4Inverse(m Mat4) (Mat4, error) {
	var pos, neg float64
	acc := func(t float64) {
		if t > 0 {
			pos += t
		} else {
			neg += t
		}
	}
	acc(m[0] * m[5] * m[10])
	acc(m[1] * m[6] * m[8])
	acc(m[2] * m[4] * m[9])
	acc(-m[2] * m[5] * m[8])
	acc(-m[1] * m[4] * m[10])
	acc(-m[0] * m[6] * m[9])

	det := pos + neg
	if det == 0 || math.Abs(det/(pos-neg)) < 2e-17 {
		return Mat4{}, ErrNotInvertible
	}

	inv := 1 / det
	var out Mat4
	out[0] = (m[5]*m[10] - m[6]*m[9]) * inv
	out[1] = -(m[1]*m[10] - m[2]*m[9]) * inv
	out[2] = (m[1]*m[6] - m[2]*m[5]) * inv
	out[4] = -(m[4]*m[10] - m[6]*m[8]) * inv
	out[5] = (m[0]*m[10] - m[2]*m[8]) * inv
	out[6] = -(m[0]*m[6] - m[2]*m[4]) * inv
	out[8] = (m[4]*m[9] - m[5]*m[8]) * inv
	out[9] = -(m[0]*m[9] - m[1]*m[8]) * inv
	out[10] = (m[0]*m[5] - m[1]*m[4]) * inv
	out[15] = 1
	out[12] = -(m[12]*out[0] + m[13]*out[4] + m[14]*out[8])
	out[13] = -(m[12]*out[1] + m[13]*out[5] + m[14]*out[9])
	out[14] = -(m[12]*out[2] + m[13]*out[6] + m[14]*out[10])
	return out, nil
}

// mat4Apply transforms the point (x, y, z) by m, treating the point as a row
// vector with an implicit w=1.
func mat4Apply(m Mat4, x, y, z float64) (float64, float64, float64) {
	return x*m[0] + y*m[4] + z*m[8] + m[12],
		x*m[1] + y*m[5] + z*m[9] + m[13],
		x*m[2] + y*m[6] + z*m[10] + m[14]
}
