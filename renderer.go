package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Renderer is the drawing backend. It owns its own matrix stack — the
// RendererTransform used during a draw pass forwards every transform
// operation here immediately — and receives a draw primitive per visible
// leaf node, to be placed under whatever matrix has accumulated.
type Renderer interface {
	// Reset restores the identity matrix.
	Reset()
	// Push saves the current matrix; Pop restores it. Popping with nothing
	// pushed is a programmer error.
	Push()
	Pop()
	Translate(x, y, z float64)
	Scale(x, y, z float64)
	Rotate(angle, ax, ay, az float64)
	Premultiply(m Mat4)

	// Quad fills the unit square under the current matrix. Rectangle nodes
	// scale the matrix by their size first, so the quad lands at
	// [0, W) x [0, H) in node-local terms.
	Quad(c Color, opacity float64)
	// Image draws img at its pixel size under the current matrix.
	Image(img *ebiten.Image, c Color, opacity float64)
	// Text draws a text run under the current matrix.
	Text(face text.Face, s string, c Color, opacity float64)
}

// EbitenRenderer renders to an ebiten image. The z parts of the matrix are
// carried through the stack but only the 2D affine part reaches the screen;
// content off the z=0 plane needs a camera of its own, which this backend
// does not provide.
type EbitenRenderer struct {
	target *ebiten.Image
	matrix Mat4
	stack  []Mat4
}

// NewEbitenRenderer returns a renderer with an identity matrix and no
// target. Call Begin before drawing a frame.
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{matrix: Mat4Identity}
}

// Begin points the renderer at a frame's target image and clears the matrix
// state left over from the previous frame.
func (r *EbitenRenderer) Begin(target *ebiten.Image) {
	r.target = target
	r.matrix = Mat4Identity
	r.stack = r.stack[:0]
}

func (r *EbitenRenderer) Reset() {
	r.matrix = Mat4Identity
}

func (r *EbitenRenderer) Push() {
	r.stack = append(r.stack, r.matrix)
}

func (r *EbitenRenderer) Pop() {
	if len(r.stack) == 0 {
		panic("rowan: renderer matrix stack underflow")
	}
	r.matrix = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *EbitenRenderer) Premultiply(m Mat4) {
	r.matrix = mat4Multiply(m, r.matrix)
}

func (r *EbitenRenderer) Translate(x, y, z float64) {
	r.Premultiply(translationMat4(x, y, z))
}

func (r *EbitenRenderer) Scale(x, y, z float64) {
	r.Premultiply(scalingMat4(x, y, z))
}

func (r *EbitenRenderer) Rotate(angle, ax, ay, az float64) {
	if angle == 0 {
		return
	}
	r.Premultiply(rotationMat4(angle, ax, ay, az))
}

// Matrix returns the current matrix value.
func (r *EbitenRenderer) Matrix() Mat4 {
	return r.matrix
}

// geoM extracts the 2D affine part of the current matrix as an ebiten.GeoM.
func (r *EbitenRenderer) geoM() ebiten.GeoM {
	m := r.matrix
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[4])
	g.SetElement(0, 2, m[12])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[5])
	g.SetElement(1, 2, m[13])
	return g
}

func (r *EbitenRenderer) Quad(c Color, opacity float64) {
	r.Image(WhitePixel, c, opacity)
}

func (r *EbitenRenderer) Image(img *ebiten.Image, c Color, opacity float64) {
	if r.target == nil || img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = r.geoM()
	a := float32(opacity)
	op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	r.target.DrawImage(img, op)
}

func (r *EbitenRenderer) Text(face text.Face, s string, c Color, opacity float64) {
	if r.target == nil || face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM = r.geoM()
	a := float32(opacity)
	op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	m := face.Metrics()
	op.LineSpacing = m.HAscent + m.HDescent + m.HLineGap
	text.Draw(r.target, s, face, op)
}
