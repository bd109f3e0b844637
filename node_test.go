package rowan

import (
	"strings"
	"testing"
)

// --- Constructor defaults ---

func TestNewLayerDefaults(t *testing.T) {
	n := NewLayer(nil, "root", nil)
	assertNodeDefaults(t, n, "root", NodeTypeLayer)
	if n.Parent != nil {
		t.Error("parentless layer should have nil Parent")
	}
}

func TestNewRectangleDefaults(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	n := NewRectangle(root, "box", nil)
	assertNodeDefaults(t, n, "box", NodeTypeRectangle)
	if n.Parent != root {
		t.Error("Parent not set")
	}
	if len(root.Children()) != 1 || root.Children()[0] != n {
		t.Error("child not appended to parent")
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %v, want %v", n.Type, typ)
	}
	if n.ScaleX != 1 || n.ScaleY != 1 || n.ScaleZ != 1 {
		t.Errorf("scale = (%v, %v, %v), want (1, 1, 1)", n.ScaleX, n.ScaleY, n.ScaleZ)
	}
	if n.Opacity != 1 {
		t.Errorf("Opacity = %v, want 1", n.Opacity)
	}
	if n.Color != ColorWhite {
		t.Errorf("Color = %v, want white", n.Color)
	}
	if !n.Interactive {
		t.Error("Interactive should default to true")
	}
	if n.Dead() {
		t.Error("new node should not be dead")
	}
}

// --- Props ---

func TestPropsAssignment(t *testing.T) {
	n := NewRectangle(nil, "box", Props{
		"position": []float64{10, 20, 30},
		"size":     []float64{64, 48},
		"scale":    2.0,
		"rotation": 45,
		"opacity":  0.5,
		"color":    []float64{0.1, 0.2, 0.3},
	})
	assertNear(t, "X", n.X, 10)
	assertNear(t, "Y", n.Y, 20)
	assertNear(t, "Z", n.Z, 30)
	assertNear(t, "Width", n.Width, 64)
	assertNear(t, "Height", n.Height, 48)
	assertNear(t, "ScaleX", n.ScaleX, 2)
	assertNear(t, "ScaleY", n.ScaleY, 2)
	assertNear(t, "ScaleZ", n.ScaleZ, 2)
	assertNear(t, "Rotation", n.Rotation, 45)
	assertNear(t, "Opacity", n.Opacity, 0.5)
	assertNear(t, "Color.G", n.Color.G, 0.2)
}

func TestPropsUnknownNamesBatched(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("unknown props did not panic")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("panic value %v, want string", r)
		}
		// All unknown names reported, sorted.
		if !strings.Contains(msg, "bogus, wobble") {
			t.Errorf("panic %q does not list unknown names in order", msg)
		}
	}()
	NewRectangle(nil, "box", Props{
		"wobble": 1.0,
		"x":      5.0,
		"bogus":  2.0,
	})
}

func TestPropsBadValuePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("bad prop value did not panic")
		}
	}()
	NewRectangle(nil, "box", Props{"position": "not a vector"})
}

// --- Reparent ---

func TestReparentOrder(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	a := NewRectangle(root, "a", nil)
	b := NewRectangle(root, "b", nil)
	c := NewRectangle(nil, "c", nil)

	c.Reparent(root, false)
	assertChildOrder(t, root, "a", "b", "c")

	// Front node moved to back draws first again.
	c.Reparent(root, true)
	assertChildOrder(t, root, "c", "a", "b")

	// Moving between layers detaches first.
	sub := NewLayer(root, "sub", nil)
	a.Reparent(sub, false)
	assertChildOrder(t, root, "c", "b", "sub")
	assertChildOrder(t, sub, "a")
	if a.Parent != sub {
		t.Error("Parent not updated on reparent")
	}
	_ = b
}

func TestReparentToNilDetaches(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	a := NewRectangle(root, "a", nil)
	a.Reparent(nil, false)
	if a.Parent != nil {
		t.Error("Parent should be nil after detach")
	}
	if len(root.Children()) != 0 {
		t.Error("child list should be empty after detach")
	}
}

func TestReparentToSelfPanics(t *testing.T) {
	n := NewLayer(nil, "n", nil)
	defer func() {
		if recover() == nil {
			t.Error("reparent to self did not panic")
		}
	}()
	n.Reparent(n, false)
}

func TestReparentCyclePanics(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	child := NewLayer(root, "child", nil)
	grandchild := NewLayer(child, "grandchild", nil)
	defer func() {
		if recover() == nil {
			t.Error("reparent into own subtree did not panic")
		}
	}()
	root.Reparent(grandchild, false)
}

func assertChildOrder(t *testing.T, layer *Node, names ...string) {
	t.Helper()
	kids := layer.Children()
	if len(kids) != len(names) {
		t.Fatalf("child count = %d, want %d", len(kids), len(names))
	}
	for i, want := range names {
		if kids[i].Name != want {
			t.Errorf("child[%d] = %q, want %q", i, kids[i].Name, want)
		}
	}
}

// --- Death ---

func TestDiePropagates(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	child := NewLayer(root, "child", nil)
	grandchild := NewRectangle(child, "grandchild", nil)

	child.Die()
	if !child.Dead() || !grandchild.Dead() {
		t.Error("death should propagate to descendants immediately")
	}
	if child.Parent != nil {
		t.Error("dead node should drop its parent pointer")
	}
	// The parent's list still holds the corpse until the next draw pass.
	if len(root.Children()) != 1 {
		t.Error("dead child pruned too early")
	}
}

func TestDrawPrunesDeadChildren(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	a := NewRectangle(root, "a", Props{"size": []float64{10, 10}})
	b := NewRectangle(root, "b", Props{"size": []float64{10, 10}})
	a.Die()

	r := newRecordRenderer()
	root.Draw(r, r)

	assertChildOrder(t, root, "b")
	if len(r.quads) != 1 {
		t.Fatalf("drew %d quads, want 1", len(r.quads))
	}
	_ = b
}

// --- Drawing ---

func TestDrawHiddenSkipsSubtree(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	sub := NewLayer(root, "sub", nil)
	NewRectangle(sub, "box", Props{"size": []float64{10, 10}})
	sub.Hidden = true

	r := newRecordRenderer()
	root.Draw(r, r)
	if len(r.quads) != 0 {
		t.Error("hidden subtree should not draw")
	}
	assertChildOrder(t, root, "sub")
}

func TestDrawZeroScaleSkips(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	box := NewRectangle(root, "box", Props{"size": []float64{10, 10}})
	box.ScaleX = 0

	r := newRecordRenderer()
	root.Draw(r, r)
	if len(r.quads) != 0 {
		t.Error("zero-scaled node should not draw")
	}
	if box.Dead() {
		t.Error("zero-scaled node should stay alive")
	}
}

func TestDrawQuadMatrix(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	NewRectangle(root, "box", Props{
		"position": []float64{100, 50},
		"size":     []float64{8, 4},
	})

	r := newRecordRenderer()
	root.Draw(r, r)
	if len(r.quads) != 1 {
		t.Fatalf("drew %d quads, want 1", len(r.quads))
	}
	// The unit quad corner (1, 1) lands at position + size.
	x, y, _ := mat4Apply(r.quads[0].matrix, 1, 1, 0)
	assertPoint(t, "quad far corner", x, y, 0, 108, 54, 0)
}

func TestDrawBalancesTransformStack(t *testing.T) {
	root := NewLayer(nil, "root", nil)
	sub := NewLayer(root, "sub", Props{"position": []float64{5, 5}})
	NewRectangle(sub, "box", Props{"size": []float64{2, 2}})

	r := newRecordRenderer()
	before := r.Matrix()
	root.Draw(r, r)
	assertMat4(t, "stack balanced", r.Matrix(), before)
}

// --- Anchor and size ---

func TestRelativeAnchorDerivation(t *testing.T) {
	n := NewRectangle(nil, "box", Props{
		"size":            []float64{100, 40},
		"relative_anchor": []float64{0.5, 1},
	})
	ax, ay, az := n.Anchor()
	assertPoint(t, "derived anchor", ax, ay, az, 50, 40, 0)

	// Tracks size changes while no explicit anchor is set.
	n.Width = 10
	ax, _, _ = n.Anchor()
	assertNear(t, "anchor after resize", ax, 5)
}

func TestSetAnchorPins(t *testing.T) {
	n := NewRectangle(nil, "box", Props{
		"size":            []float64{100, 40},
		"relative_anchor": []float64{0.5, 0.5},
	})
	n.SetAnchor(7, 8, 0)
	n.Width = 500
	ax, ay, az := n.Anchor()
	assertPoint(t, "pinned anchor", ax, ay, az, 7, 8, 0)
}

// --- Transform application ---

func TestApplyTransformOrder(t *testing.T) {
	n := NewRectangle(nil, "box", nil)
	n.X, n.Y = 100, 200
	n.Rotation = 90
	n.ScaleX, n.ScaleY = 2, 2
	n.SetAnchor(10, 0, 0)

	tr := NewMatrixTransform()
	n.applyTransform(tr)

	// The anchor point maps to the node position; a point 5 right of the
	// anchor scales to 10 and rotates onto +y.
	x, y, z, err := tr.TransformPoint(100, 200, 0)
	if err != nil {
		t.Fatalf("TransformPoint: %v", err)
	}
	assertPoint(t, "anchor at position", x, y, z, 10, 0, 0)

	x, y, _ = mat4Apply(tr.Matrix(), 15, 0, 0)
	assertPoint(t, "rotated offset", x, y, 0, 100, 210, 0)
}

func TestProbeTransformMatchesApplyTransform(t *testing.T) {
	n := NewRectangle(nil, "box", nil)
	n.X, n.Y = 30, -10
	n.Rotation = 25
	n.ScaleX, n.ScaleY = 3, 0.5
	n.SetAnchor(4, 4, 0)

	p := NewPointProbe(12, 34, 0)
	if err := n.probeTransform(p); err != nil {
		t.Fatalf("probeTransform: %v", err)
	}
	x, y, z := p.Point()

	tr := NewMatrixTransform()
	n.applyTransform(tr)
	wx, wy, wz, err := tr.TransformPoint(12, 34, 0)
	if err != nil {
		t.Fatalf("TransformPoint: %v", err)
	}
	assertPoint(t, "probe vs matrix", x, y, z, wx, wy, wz)
}

func TestProbeTransformZeroScale(t *testing.T) {
	n := NewRectangle(nil, "box", nil)
	n.ScaleY = 0
	p := NewPointProbe(1, 2, 0)
	if err := n.probeTransform(p); err != ErrNotInvertible {
		t.Errorf("err = %v, want ErrNotInvertible", err)
	}
}

// --- Hit testing ---

func TestHitTestEdges(t *testing.T) {
	n := NewRectangle(nil, "box", Props{"size": []float64{10, 20}})
	cases := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},    // top-left corner inclusive
		{9.999, 19.999, true},
		{10, 0, false},  // right edge exclusive
		{0, 20, false},  // bottom edge exclusive
		{-0.001, 0, false},
		{5, 10, true},
	}
	for _, c := range cases {
		if got := n.hitTest(c.x, c.y, 0); got != c.want {
			t.Errorf("hitTest(%v, %v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestHitTestLayerAlwaysHits(t *testing.T) {
	n := NewLayer(nil, "layer", nil)
	if !n.hitTest(-1000, 99999, 0) {
		t.Error("layers should hit everywhere")
	}
}

func TestHitShapeOverride(t *testing.T) {
	n := NewRectangle(nil, "box", Props{"size": []float64{10, 10}})
	n.HitShape = HitCircle{CenterX: 5, CenterY: 5, Radius: 2}
	if n.hitTest(1, 1, 0) {
		t.Error("point outside circle should miss despite rect bounds")
	}
	if !n.hitTest(5, 6.5, 0) {
		t.Error("point inside circle should hit")
	}
}

// --- Text ---

func TestDisplayedText(t *testing.T) {
	n := NewText(nil, "hello", nil, "t", nil)
	if got := n.displayedText(); got != "hello" {
		t.Errorf("default = %q, want full text", got)
	}
	n.CharactersDisplayed = 2
	if got := n.displayedText(); got != "he" {
		t.Errorf("limited = %q, want %q", got, "he")
	}
	n.CharactersDisplayed = 99
	if got := n.displayedText(); got != "hello" {
		t.Errorf("over-limit = %q, want full text", got)
	}
}
