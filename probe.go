package rowan

import "math"

// PointProbe tracks how a single point maps under a sequence of transform
// operations without materializing the accumulated matrix. Each operation
// moves the tracked point into the new local frame, so after replaying a
// node's transform chain the probe holds the point's local coordinates.
// This is the cheap path hit testing takes for every event.
//
// Translate, scale, and z-axis rotation have closed forms; everything else
// falls back to Premultiply, which applies the inverse of the given matrix
// to the point (the same result a full MatrixTransform's TransformPoint
// would produce).
type PointProbe struct {
	x, y, z    float64
	ox, oy, oz float64
	stack      [][3]float64
}

// NewPointProbe returns a probe tracking the given point.
func NewPointProbe(x, y, z float64) *PointProbe {
	return &PointProbe{x: x, y: y, z: z, ox: x, oy: y, oz: z}
}

// Point returns the tracked point's current coordinates.
func (p *PointProbe) Point() (x, y, z float64) {
	return p.x, p.y, p.z
}

// Reset restores the original point. The stack is untouched.
func (p *PointProbe) Reset() {
	p.x, p.y, p.z = p.ox, p.oy, p.oz
}

// Push saves the tracked point.
func (p *PointProbe) Push() {
	p.stack = append(p.stack, [3]float64{p.x, p.y, p.z})
}

// Pop restores the most recently pushed point.
func (p *PointProbe) Pop() {
	if len(p.stack) == 0 {
		panic("rowan: point probe stack underflow")
	}
	pt := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.x, p.y, p.z = pt[0], pt[1], pt[2]
}

// Translate moves the point into the translated frame.
func (p *PointProbe) Translate(x, y, z float64) {
	p.x -= x
	p.y -= y
	p.z -= z
}

// Scale moves the point into the scaled frame. Scaling by zero on any axis
// is a domain error and panics; callers that may encounter degenerate scale
// must check for it first and treat the point as unmappable.
func (p *PointProbe) Scale(x, y, z float64) {
	if x == 0 || y == 0 || z == 0 {
		panic("rowan: point probe scaled by zero")
	}
	p.x /= x
	p.y /= y
	p.z /= z
}

// Rotate moves the point into the rotated frame. Rotation about the pure z
// axis uses the closed-form 2D rotation; any other axis falls back to the
// general Premultiply path.
func (p *PointProbe) Rotate(angle, ax, ay, az float64) error {
	if angle == 0 {
		return nil
	}
	if ax == 0 && ay == 0 && az == 1 {
		c := math.Cos(angle * degToRad)
		s := math.Sin(angle * degToRad)
		p.x, p.y = p.x*c+p.y*s, p.y*c-p.x*s
		return nil
	}
	return p.Premultiply(rotationMat4(angle, ax, ay, az))
}

// Premultiply moves the point into the frame reached by premultiplying m,
// by applying m's inverse to the point directly. Returns ErrNotInvertible
// when m is singular; the point is left unchanged in that case.
func (p *PointProbe) Premultiply(m Mat4) error {
	inv, err := mat4Inverse(m)
	if err != nil {
		return err
	}
	p.x, p.y, p.z = mat4Apply(inv, p.x, p.y, p.z)
	return nil
}
