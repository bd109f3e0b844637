package rowan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// NodeType distinguishes drawing and hit-testing behavior for a Node.
type NodeType uint8

const (
	NodeTypeLayer     NodeType = iota // container; draws children, hits everywhere
	NodeTypeRectangle                 // solid color quad of Width x Height
	NodeTypeSprite                    // image stretched to Width x Height
	NodeTypeText                      // text run; natural size from font metrics
)

// Node is the scene graph element: a positionable, scalable, rotatable
// object carrying a local affine transform relative to its parent. Layers
// own an ordered child list (later children draw on top); other types are
// drawable leaves.
//
// All transform fields are plain values read each frame, so they can be
// driven directly or through a TweenGroup.
type Node struct {
	Name string
	Type NodeType

	// Parent is a non-owning back-pointer; the parent's child list owns the
	// node. Nil for a root or a dead node.
	Parent   *Node
	children []*Node

	// Local transform. Position offsets the parent's frame; rotation is in
	// degrees about the local z axis; the anchor is the local point about
	// which rotation and scale apply.
	X, Y, Z                   float64
	AnchorX, AnchorY, AnchorZ float64
	anchorSet                 bool
	// Relative anchor as a fraction of natural size; derives the anchor
	// while no explicit anchor has been set.
	RelativeAnchorX, RelativeAnchorY, RelativeAnchorZ float64
	ScaleX, ScaleY, ScaleZ                            float64
	Rotation                                          float64

	// Natural size. Text nodes ignore these and measure their content.
	Width, Height float64

	Opacity float64
	Color   Color

	// Hidden excludes the subtree from drawing and hit-testing without
	// detaching it.
	Hidden bool
	// Interactive gates pointer and keyboard routing for the subtree;
	// drawing is unaffected. A decoration layer is a layer with
	// Interactive set to false.
	Interactive bool

	dead bool

	// Sprite image.
	Image *ebiten.Image

	// Text content. CharactersDisplayed limits how many characters draw;
	// negative means all. The natural size always measures the full text.
	Text                string
	Face                text.Face
	CharactersDisplayed int

	// HitShape overrides the default hit region when non-nil.
	HitShape HitShape

	// Pointer handlers. A nil handler neither receives the event nor
	// claims it; returning true claims the event and stops propagation to
	// nodes further back.
	OnMotion  func(PointerEvent) bool
	OnPress   func(PointerEvent) bool
	OnRelease func(PointerEvent) bool
	OnDrag    func(PointerEvent) bool
	OnLeave   func(PointerEvent) bool
	OnScroll  func(PointerEvent) bool

	// Keyboard handlers.
	OnKeyPress   func(KeyEvent) bool
	OnKeyRelease func(KeyEvent) bool
	OnTextInput  func(KeyEvent) bool

	// Event routing state, layers only (see pointer.go).
	hover   map[int]map[*Node]struct{}
	capture map[int]map[MouseButton]*Node
}

// nodeDefaults sets the field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ScaleX = 1
	n.ScaleY = 1
	n.ScaleZ = 1
	n.Opacity = 1
	n.Color = ColorWhite
	n.Interactive = true
	n.CharactersDisplayed = -1
}

// NewLayer creates a container node and attaches it to parent (which may be
// nil for a root layer). Props initialize animatable properties by name.
func NewLayer(parent *Node, name string, props Props) *Node {
	n := &Node{Name: name, Type: NodeTypeLayer}
	nodeDefaults(n)
	n.Reparent(parent, false)
	applyProps(n, props)
	return n
}

// NewRectangle creates a solid-color quad node.
func NewRectangle(parent *Node, name string, props Props) *Node {
	n := &Node{Name: name, Type: NodeTypeRectangle}
	nodeDefaults(n)
	n.Reparent(parent, false)
	applyProps(n, props)
	return n
}

// NewSprite creates an image node. Its natural size defaults to the image
// size unless props override it.
func NewSprite(parent *Node, img *ebiten.Image, name string, props Props) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Image: img}
	nodeDefaults(n)
	if img != nil {
		b := img.Bounds()
		n.Width = float64(b.Dx())
		n.Height = float64(b.Dy())
	}
	n.Reparent(parent, false)
	applyProps(n, props)
	return n
}

// NewText creates a text node. The natural size is measured from the face.
func NewText(parent *Node, content string, face text.Face, name string, props Props) *Node {
	n := &Node{Name: name, Type: NodeTypeText, Text: content, Face: face}
	nodeDefaults(n)
	n.Reparent(parent, false)
	applyProps(n, props)
	return n
}

// --- Animatable property construction ---

// Props assigns initial values to animatable properties by name, the same
// set a TweenGroup can drive. Scalar properties take a float64, vector
// properties a []float64. Unknown names are rejected in one batch.
type Props map[string]any

type propSetter struct {
	minLen, maxLen int
	set            func(n *Node, v []float64)
}

// nodeProps is the static table of animatable property names. Construction
// validates against it; there is no dynamic attribute lookup.
var nodeProps = map[string]propSetter{
	"position": {2, 3, func(n *Node, v []float64) {
		n.X, n.Y = v[0], v[1]
		if len(v) > 2 {
			n.Z = v[2]
		}
	}},
	"x": {1, 1, func(n *Node, v []float64) { n.X = v[0] }},
	"y": {1, 1, func(n *Node, v []float64) { n.Y = v[0] }},
	"z": {1, 1, func(n *Node, v []float64) { n.Z = v[0] }},
	"anchor": {2, 3, func(n *Node, v []float64) {
		az := 0.0
		if len(v) > 2 {
			az = v[2]
		}
		n.SetAnchor(v[0], v[1], az)
	}},
	"anchor_x": {1, 1, func(n *Node, v []float64) { n.SetAnchor(v[0], n.AnchorY, n.AnchorZ) }},
	"anchor_y": {1, 1, func(n *Node, v []float64) { n.SetAnchor(n.AnchorX, v[0], n.AnchorZ) }},
	"anchor_z": {1, 1, func(n *Node, v []float64) { n.SetAnchor(n.AnchorX, n.AnchorY, v[0]) }},
	"relative_anchor": {2, 3, func(n *Node, v []float64) {
		n.RelativeAnchorX, n.RelativeAnchorY = v[0], v[1]
		if len(v) > 2 {
			n.RelativeAnchorZ = v[2]
		}
	}},
	"scale": {1, 3, func(n *Node, v []float64) {
		switch len(v) {
		case 1:
			n.ScaleX, n.ScaleY, n.ScaleZ = v[0], v[0], v[0]
		case 2:
			n.ScaleX, n.ScaleY = v[0], v[1]
		default:
			n.ScaleX, n.ScaleY, n.ScaleZ = v[0], v[1], v[2]
		}
	}},
	"scale_x":  {1, 1, func(n *Node, v []float64) { n.ScaleX = v[0] }},
	"scale_y":  {1, 1, func(n *Node, v []float64) { n.ScaleY = v[0] }},
	"scale_z":  {1, 1, func(n *Node, v []float64) { n.ScaleZ = v[0] }},
	"rotation": {1, 1, func(n *Node, v []float64) { n.Rotation = v[0] }},
	"size": {2, 2, func(n *Node, v []float64) {
		n.Width, n.Height = v[0], v[1]
	}},
	"width":   {1, 1, func(n *Node, v []float64) { n.Width = v[0] }},
	"height":  {1, 1, func(n *Node, v []float64) { n.Height = v[0] }},
	"opacity": {1, 1, func(n *Node, v []float64) { n.Opacity = v[0] }},
	"color": {3, 3, func(n *Node, v []float64) {
		n.Color = Color{v[0], v[1], v[2]}
	}},
}

// applyProps validates and assigns construction props. Unknown names are
// collected and reported together in one panic rather than first-only.
func applyProps(n *Node, props Props) {
	if len(props) == 0 {
		return
	}
	var unknown []string
	for name, raw := range props {
		setter, ok := nodeProps[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		v, ok := propValues(raw)
		if !ok || len(v) < setter.minLen || len(v) > setter.maxLen {
			panic(fmt.Sprintf("rowan: bad value for property %q: %v", name, raw))
		}
		setter.set(n, v)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		panic("rowan: unknown properties: " + strings.Join(unknown, ", "))
	}
}

// propValues normalizes a prop value to a float64 slice.
func propValues(raw any) ([]float64, bool) {
	switch v := raw.(type) {
	case float64:
		return []float64{v}, true
	case int:
		return []float64{float64(v)}, true
	case []float64:
		return v, true
	case Color:
		return []float64{v.R, v.G, v.B}, true
	default:
		return nil, false
	}
}

// --- Tree manipulation ---

// Reparent detaches the node from its current parent, if any, and attaches
// it to newParent (nil leaves it detached). By default the node is appended
// to the child list and thus draws in front of its existing siblings; with
// toBack it is prepended and draws behind them.
// Reparenting a node to itself or into its own subtree panics.
func (n *Node) Reparent(newParent *Node, toBack bool) {
	if newParent == n {
		panic("rowan: cannot reparent node to itself")
	}
	if newParent != nil && isAncestor(n, newParent) {
		panic("rowan: reparenting would create a cycle")
	}
	if n.Parent != nil {
		n.Parent.removeChild(n)
		n.Parent = nil
	}
	if newParent != nil {
		if toBack {
			newParent.children = append(newParent.children, nil)
			copy(newParent.children[1:], newParent.children)
			newParent.children[0] = n
		} else {
			newParent.children = append(newParent.children, n)
		}
		n.Parent = newParent
	}
}

// Children returns the child list. The returned slice must not be mutated.
func (n *Node) Children() []*Node {
	return n.children
}

// Dead reports whether Die has been called on the node or an ancestor.
func (n *Node) Dead() bool {
	return n.dead
}

// Die marks the node dead and recursively kills its children in the same
// step, so a dead subtree is inert for event routing immediately. The node
// stays in its former parent's child list until that parent's next draw
// pass prunes it; dead is never cleared.
func (n *Node) Die() {
	n.dead = true
	n.Parent = nil
	for _, c := range n.children {
		if !c.dead {
			c.Die()
		}
	}
}

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChild removes child from n.children without touching child.Parent.
func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// --- Anchor and size ---

// SetAnchor sets an explicit anchor point. Once set, the relative anchor no
// longer derives it.
func (n *Node) SetAnchor(x, y, z float64) {
	n.AnchorX, n.AnchorY, n.AnchorZ = x, y, z
	n.anchorSet = true
}

// Anchor returns the effective anchor: the explicit one if set, otherwise
// the relative anchor applied to the natural size.
func (n *Node) Anchor() (x, y, z float64) {
	if n.anchorSet {
		return n.AnchorX, n.AnchorY, n.AnchorZ
	}
	w, h := n.Size()
	return w * n.RelativeAnchorX, h * n.RelativeAnchorY, 0
}

// Size returns the node's natural size. Text nodes measure their full
// content; other types report the Width and Height fields.
func (n *Node) Size() (w, h float64) {
	if n.Type == NodeTypeText && n.Face != nil {
		m := n.Face.Metrics()
		return text.Measure(n.Text, n.Face, m.HAscent+m.HDescent+m.HLineGap)
	}
	return n.Width, n.Height
}

// displayedText returns the text actually drawn, honoring the
// CharactersDisplayed limit.
func (n *Node) displayedText() string {
	if n.CharactersDisplayed < 0 || n.CharactersDisplayed >= len(n.Text) {
		return n.Text
	}
	return n.Text[:n.CharactersDisplayed]
}

// --- Transform application ---

// applyTransform mutates t with this node's local transform. The order is
// significant: combined with premultiplication it yields "scale and rotate
// about the anchor, then place at position". No push/pop happens here; the
// caller owns the scope.
func (n *Node) applyTransform(t Transform) {
	t.Translate(n.X, n.Y, n.Z)
	t.Rotate(n.Rotation, 0, 0, 1)
	t.Scale(n.ScaleX, n.ScaleY, n.ScaleZ)
	ax, ay, az := n.Anchor()
	t.Translate(-ax, -ay, -az)
}

// probeTransform replays applyTransform on a point probe, mapping the
// probe's point into this node's local frame. Degenerate scale is reported
// as ErrNotInvertible instead of panicking the probe, so event routing can
// treat the point as undefined.
func (n *Node) probeTransform(p *PointProbe) error {
	p.Translate(n.X, n.Y, n.Z)
	if err := p.Rotate(n.Rotation, 0, 0, 1); err != nil {
		return err
	}
	if n.ScaleX == 0 || n.ScaleY == 0 || n.ScaleZ == 0 {
		return ErrNotInvertible
	}
	p.Scale(n.ScaleX, n.ScaleY, n.ScaleZ)
	ax, ay, az := n.Anchor()
	p.Translate(-ax, -ay, -az)
	return nil
}

// --- Hit testing ---

// hitTest reports whether a point already expressed in this node's local
// coordinates is inside the node. Layers hit everywhere; sized leaves use
// their natural bounds with the right and bottom edges exclusive (the unit
// quad scales to [0, W) x [0, H)). A HitShape overrides both.
func (n *Node) hitTest(x, y, z float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(x, y, z)
	}
	if n.Type == NodeTypeLayer {
		return true
	}
	w, h := n.Size()
	return x >= 0 && x < w && y >= 0 && y < h
}

// --- Drawing ---

// Draw draws the subtree rooted at n under the accumulated transform t,
// emitting primitives to r. For on-screen drawing t is a RendererTransform
// over the same r, so matrix state flows straight to the backend.
//
// Returns false when the node is dead, which tells the parent layer to drop
// it from the child list. Hidden or zero-scaled nodes are skipped without
// any matrix work but stay attached.
func (n *Node) Draw(t Transform, r Renderer) bool {
	if n.dead {
		return false
	}
	if n.Hidden || n.ScaleX == 0 || n.ScaleY == 0 || n.ScaleZ == 0 {
		return true
	}
	WithState(t, func() {
		n.applyTransform(t)
		n.drawSelf(t, r)
	})
	return true
}

func (n *Node) drawSelf(t Transform, r Renderer) {
	switch n.Type {
	case NodeTypeLayer:
		ax, ay, az := n.Anchor()
		t.Translate(ax, ay, az)
		// Children draw in list order (last on top). Children that report
		// death are filtered out after the pass, not during.
		kept := n.children[:0]
		for _, c := range n.children {
			if c.Draw(t, r) {
				kept = append(kept, c)
			}
		}
		for i := len(kept); i < len(n.children); i++ {
			n.children[i] = nil
		}
		n.children = kept
	case NodeTypeRectangle:
		t.Scale(n.Width, n.Height, 1)
		r.Quad(n.Color, n.Opacity)
	case NodeTypeSprite:
		if n.Image == nil {
			return
		}
		b := n.Image.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			return
		}
		t.Scale(n.Width/float64(b.Dx()), n.Height/float64(b.Dy()), 1)
		r.Image(n.Image, n.Color, n.Opacity)
	case NodeTypeText:
		if n.Face == nil {
			return
		}
		r.Text(n.Face, n.displayedText(), n.Color, n.Opacity)
	}
}
