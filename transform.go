package rowan

// Transform is the operation set shared by every transform variant. A node's
// applyTransform mutates one of these; composition is always premultiplication
// (a new operation combines on the left of the accumulated matrix), which
// makes translate/rotate/scale calls chain in parent-then-child order.
//
// Push and pop must be balanced on every exit path — use WithState rather
// than calling them by hand.
type Transform interface {
	// Reset restores the identity state.
	Reset()
	// Push saves the current state; the matching Pop restores it.
	Push()
	// Pop restores the most recently pushed state. Popping with nothing
	// pushed is a programmer error and panics.
	Pop()
	// Translate premultiplies a translation by (x, y, z).
	Translate(x, y, z float64)
	// Scale premultiplies a scale by (x, y, z).
	Scale(x, y, z float64)
	// Rotate premultiplies a rotation of angle degrees about the unit axis
	// (ax, ay, az). A zero angle is a no-op.
	Rotate(angle, ax, ay, az float64)
	// Premultiply combines an arbitrary affine matrix: current = m · current.
	Premultiply(m Mat4)
}

// WithState runs fn inside a push/pop scope on t. The pop happens on every
// exit path, including a panic escaping fn, so a failure mid-traversal never
// leaves siblings drawing with a corrupted matrix.
func WithState(t Transform, fn func()) {
	t.Push()
	defer t.Pop()
	fn()
}

// --- MatrixTransform ---

// MatrixTransform keeps an explicit matrix and therefore supports inversion
// and point mapping. It is the variant used wherever the accumulated
// transform must be inspected: hit testing and coordinate conversion.
type MatrixTransform struct {
	matrix Mat4
	stack  []Mat4
}

// NewMatrixTransform returns an identity MatrixTransform.
func NewMatrixTransform() *MatrixTransform {
	return &MatrixTransform{matrix: Mat4Identity}
}

// Reset restores the identity matrix. The stack is untouched.
func (t *MatrixTransform) Reset() {
	t.matrix = Mat4Identity
}

// Push saves the current matrix.
func (t *MatrixTransform) Push() {
	t.stack = append(t.stack, t.matrix)
}

// Pop restores the most recently pushed matrix.
func (t *MatrixTransform) Pop() {
	if len(t.stack) == 0 {
		panic("rowan: transform stack underflow")
	}
	t.matrix = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

// Premultiply combines m on the left of the current matrix.
func (t *MatrixTransform) Premultiply(m Mat4) {
	t.matrix = mat4Multiply(m, t.matrix)
}

// Translate premultiplies a translation.
func (t *MatrixTransform) Translate(x, y, z float64) {
	t.Premultiply(translationMat4(x, y, z))
}

// Scale premultiplies a scale.
func (t *MatrixTransform) Scale(x, y, z float64) {
	t.Premultiply(scalingMat4(x, y, z))
}

// Rotate premultiplies a rotation of angle degrees about (ax, ay, az).
func (t *MatrixTransform) Rotate(angle, ax, ay, az float64) {
	if angle == 0 {
		return
	}
	t.Premultiply(rotationMat4(angle, ax, ay, az))
}

// Matrix returns the current matrix value.
func (t *MatrixTransform) Matrix() Mat4 {
	return t.matrix
}

// At returns the matrix element at flat index i (0..15, row-major).
func (t *MatrixTransform) At(i int) float64 {
	return t.matrix[i]
}

// AtColRow returns the matrix element at (col, row), i.e. index row*4 + col.
func (t *MatrixTransform) AtColRow(col, row int) float64 {
	return t.matrix[row*4+col]
}

// Inverse returns the inverse of the current matrix, or ErrNotInvertible
// when the matrix is singular.
func (t *MatrixTransform) Inverse() (Mat4, error) {
	return mat4Inverse(t.matrix)
}

// TransformPoint maps a point given in the space the accumulated operations
// started from (parent/world space) into the current local space, i.e. it
// applies the inverse of the current matrix. Returns ErrNotInvertible when
// the matrix is singular.
func (t *MatrixTransform) TransformPoint(x, y, z float64) (float64, float64, float64, error) {
	inv, err := mat4Inverse(t.matrix)
	if err != nil {
		return 0, 0, 0, err
	}
	px, py, pz := mat4Apply(inv, x, y, z)
	return px, py, pz, nil
}

// --- RendererTransform ---

// RendererTransform forwards every operation straight to a Renderer, which
// owns the actual matrix state on the backend's side. It stores nothing
// locally and cannot be inverted or queried; use a MatrixTransform when the
// result must be inspected.
type RendererTransform struct {
	r Renderer
}

// NewRendererTransform returns a transform forwarding to r.
func NewRendererTransform(r Renderer) *RendererTransform {
	return &RendererTransform{r: r}
}

func (t *RendererTransform) Reset()                    { t.r.Reset() }
func (t *RendererTransform) Push()                     { t.r.Push() }
func (t *RendererTransform) Pop()                      { t.r.Pop() }
func (t *RendererTransform) Translate(x, y, z float64) { t.r.Translate(x, y, z) }
func (t *RendererTransform) Scale(x, y, z float64)     { t.r.Scale(x, y, z) }
func (t *RendererTransform) Rotate(a, x, y, z float64) { t.r.Rotate(a, x, y, z) }
func (t *RendererTransform) Premultiply(m Mat4)        { t.r.Premultiply(m) }
