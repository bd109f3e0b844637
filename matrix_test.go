package rowan

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMat4(t *testing.T, name string, got, want Mat4) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
			return
		}
	}
}

func assertPoint(t *testing.T, name string, gx, gy, gz, wx, wy, wz float64) {
	t.Helper()
	if math.Abs(gx-wx) > epsilon || math.Abs(gy-wy) > epsilon || math.Abs(gz-wz) > epsilon {
		t.Errorf("%s = (%v, %v, %v), want (%v, %v, %v)", name, gx, gy, gz, wx, wy, wz)
	}
}

// --- basic matrices ---

func TestTranslationMat4(t *testing.T) {
	m := translationMat4(5, 6, 7)
	x, y, z := mat4Apply(m, 1, 2, 3)
	assertPoint(t, "translated", x, y, z, 6, 8, 10)
}

func TestScalingMat4(t *testing.T) {
	m := scalingMat4(2, 3, 4)
	x, y, z := mat4Apply(m, 1, 1, 1)
	assertPoint(t, "scaled", x, y, z, 2, 3, 4)
}

func TestRotationMat4Z90(t *testing.T) {
	m := rotationMat4(90, 0, 0, 1)
	// Row-vector convention: +x turns toward +y.
	x, y, z := mat4Apply(m, 1, 0, 0)
	assertPoint(t, "rotated x-axis", x, y, z, 0, 1, 0)
	x, y, z = mat4Apply(m, 0, 1, 0)
	assertPoint(t, "rotated y-axis", x, y, z, -1, 0, 0)
}

func TestRotationMat4ArbitraryAxisFullTurn(t *testing.T) {
	s := 1 / math.Sqrt(3)
	m := rotationMat4(360, s, s, s)
	assertMat4(t, "full turn", m, Mat4Identity)
}

func TestMat4MultiplyIdentity(t *testing.T) {
	m := mat4Multiply(translationMat4(1, 2, 3), rotationMat4(30, 0, 0, 1))
	assertMat4(t, "m*I", mat4Multiply(m, Mat4Identity), m)
	assertMat4(t, "I*m", mat4Multiply(Mat4Identity, m), m)
}

func TestMat4MultiplyOrderMatters(t *testing.T) {
	tr := translationMat4(10, 0, 0)
	rot := rotationMat4(90, 0, 0, 1)

	// Translate first, then rotate: the offset rotates too.
	x, y, _ := mat4Apply(mat4Multiply(tr, rot), 0, 0, 0)
	assertPoint(t, "translate-then-rotate", x, y, 0, 0, 10, 0)

	// Rotate first, then translate: the offset stays put.
	x, y, _ = mat4Apply(mat4Multiply(rot, tr), 0, 0, 0)
	assertPoint(t, "rotate-then-translate", x, y, 0, 10, 0, 0)
}

// --- inversion ---

func TestMat4InverseRoundTrip(t *testing.T) {
	m := mat4Multiply(scalingMat4(2, 3, 1),
		mat4Multiply(rotationMat4(37, 0, 0, 1), translationMat4(5, -6, 7)))
	inv, err := mat4Inverse(m)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	assertMat4(t, "m*inv", mat4Multiply(m, inv), Mat4Identity)
	assertMat4(t, "inv*m", mat4Multiply(inv, m), Mat4Identity)

	inv2, err := mat4Inverse(inv)
	if err != nil {
		t.Fatalf("double inverse: %v", err)
	}
	assertMat4(t, "inv(inv)", inv2, m)

	px, py, pz := mat4Apply(inv, 7, -8, 9)
	x, y, z := mat4Apply(m, px, py, pz)
	assertPoint(t, "point round trip", x, y, z, 7, -8, 9)
}

func TestMat4InverseTranslationOnly(t *testing.T) {
	inv, err := mat4Inverse(translationMat4(5, 6, 7))
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	assertMat4(t, "inverse translation", inv, translationMat4(-5, -6, -7))
}

func TestMat4InverseSingular(t *testing.T) {
	if _, err := mat4Inverse(scalingMat4(0, 1, 1)); err != ErrNotInvertible {
		t.Errorf("zero x scale: err = %v, want ErrNotInvertible", err)
	}
	if _, err := mat4Inverse(Mat4{}); err != ErrNotInvertible {
		t.Errorf("zero matrix: err = %v, want ErrNotInvertible", err)
	}
}

func TestMat4InverseNearSingular(t *testing.T) {
	// The two rows are almost linearly dependent; the determinant survives
	// as rounding noise only, which the partial-sum check must catch.
	m := Mat4Identity
	m[0], m[1] = 1, 1
	m[4], m[5] = 1, 1+1e-18
	if _, err := mat4Inverse(m); err != ErrNotInvertible {
		t.Errorf("near-singular: err = %v, want ErrNotInvertible", err)
	}
}
