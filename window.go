package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// RunConfig configures the window Run opens.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ClearColor fills the screen before each draw pass.
	ClearColor Color
	// OnUpdate, when set, runs once per frame before input dispatch with
	// the frame delta in seconds. Drive TweenGroups and game logic here.
	OnUpdate func(dt float64)
}

// Run opens a window showing the given root layer and blocks until the
// window closes. The root's scale is adjusted to fit the window (its
// natural size maps to the full window), raw pointer and keyboard input is
// translated into events entering the root layer, and the tree is drawn
// through an EbitenRenderer each frame.
//
// For full control implement ebiten.Game yourself and call Node.Draw and
// Node.DoPointerEvent directly.
func Run(root *Node, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&game{
		root:     root,
		cfg:      cfg,
		renderer: NewEbitenRenderer(),
	})
}

type touchState struct {
	used bool
	id   ebiten.TouchID
	x, y float64
}

type game struct {
	root     *Node
	cfg      RunConfig
	renderer *EbitenRenderer

	w, h int

	mouseX, mouseY float64
	mouseInit      bool
	cursorIn       bool
	buttons        [3]bool

	touches    [maxPointers]touchState
	touchIDBuf []ebiten.TouchID
	keyBuf     []ebiten.Key
	charBuf    []rune
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		g.fitRoot()
	}
	return outsideWidth, outsideHeight
}

// fitRoot scales the root layer so its natural size fills the window.
func (g *game) fitRoot() {
	w, h := g.root.Size()
	if w > 0 && h > 0 {
		g.root.ScaleX = float64(g.w) / w
		g.root.ScaleY = float64(g.h) / h
	}
}

func (g *game) Update() error {
	if g.cfg.OnUpdate != nil {
		g.cfg.OnUpdate(1 / float64(ebiten.TPS()))
	}
	mods := readModifiers()
	g.processMouse(mods)
	g.processTouches(mods)
	g.processKeyboard(mods)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.ClearColor.toRGBA())
	g.renderer.Begin(screen)
	g.root.Draw(NewRendererTransform(g.renderer), g.renderer)
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

var mouseButtons = [3]ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// processMouse turns mouse state changes into events for pointer 0. Every
// move enters the tree as motion — the layer routing turns it into drags for
// captured nodes while still hit-testing everything else, so hover keeps
// tracking during a drag. Buttonless moves outside the window are dropped;
// the cursor leaving the window produces a top-level leave.
func (g *game) processMouse(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	fx, fy := float64(mx), float64(my)
	in := fx >= 0 && fy >= 0 && fx < float64(g.w) && fy < float64(g.h)

	base := PointerEvent{Pointer: 0, GlobalX: fx, GlobalY: fy, Modifiers: mods}

	if g.cursorIn && !in {
		g.root.DoPointerEvent(PointerLeave, base)
	}
	g.cursorIn = in

	var dx, dy float64
	moved := false
	if g.mouseInit {
		dx, dy = fx-g.mouseX, fy-g.mouseY
		moved = dx != 0 || dy != 0
	}
	g.mouseX, g.mouseY = fx, fy
	g.mouseInit = true

	for i, eb := range mouseButtons {
		now := ebiten.IsMouseButtonPressed(eb)
		if now == g.buttons[i] {
			continue
		}
		g.buttons[i] = now
		ev := base
		ev.Button = MouseButton(i)
		if now {
			g.root.DoPointerEvent(PointerPress, ev)
		} else {
			g.root.DoPointerEvent(PointerRelease, ev)
		}
	}

	if moved {
		anyHeld := false
		for i := range g.buttons {
			if g.buttons[i] {
				anyHeld = true
			}
		}
		// With a button held, moves matter even outside the window so
		// captured nodes keep dragging.
		if anyHeld || in {
			ev := base
			ev.DX, ev.DY = dx, dy
			g.root.DoPointerEvent(PointerMotion, ev)
		}
	}

	if sx, sy := ebiten.Wheel(); (sx != 0 || sy != 0) && in {
		ev := base
		ev.ScrollX, ev.ScrollY = sx, sy
		g.root.DoPointerEvent(PointerScroll, ev)
	}
}

// processTouches maps touches onto pointer slots 1-9. A new touch presses,
// a moving touch enters as motion (the routing turns it into drags for the
// captured node), a lifted touch releases at its last position.
func (g *game) processTouches(mods KeyModifiers) {
	g.touchIDBuf = ebiten.AppendTouchIDs(g.touchIDBuf[:0])

	var active [maxPointers]bool
	for _, id := range g.touchIDBuf {
		slot, fresh := g.touchSlot(id)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(id)
		fx, fy := float64(tx), float64(ty)
		ts := &g.touches[slot]
		ev := PointerEvent{
			Pointer: slot, Button: MouseButtonLeft,
			GlobalX: fx, GlobalY: fy, Modifiers: mods,
		}
		if fresh {
			g.root.DoPointerEvent(PointerPress, ev)
		} else if fx != ts.x || fy != ts.y {
			ev.DX, ev.DY = fx-ts.x, fy-ts.y
			g.root.DoPointerEvent(PointerMotion, ev)
		}
		ts.x, ts.y = fx, fy
	}

	for slot := 1; slot < maxPointers; slot++ {
		ts := &g.touches[slot]
		if ts.used && !active[slot] {
			g.root.DoPointerEvent(PointerRelease, PointerEvent{
				Pointer: slot, Button: MouseButtonLeft,
				GlobalX: ts.x, GlobalY: ts.y, Modifiers: mods,
			})
			ts.used = false
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9), allocating one
// for unseen IDs. Returns -1 when all slots are taken.
func (g *game) touchSlot(id ebiten.TouchID) (slot int, fresh bool) {
	for i := 1; i < maxPointers; i++ {
		if g.touches[i].used && g.touches[i].id == id {
			return i, false
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !g.touches[i].used {
			g.touches[i] = touchState{used: true, id: id}
			return i, true
		}
	}
	return -1, false
}

func (g *game) processKeyboard(mods KeyModifiers) {
	g.keyBuf = inpututil.AppendJustPressedKeys(g.keyBuf[:0])
	for _, k := range g.keyBuf {
		g.root.DoKeyboardEvent(KeyPress, KeyEvent{Key: k, Modifiers: mods})
	}
	g.keyBuf = inpututil.AppendJustReleasedKeys(g.keyBuf[:0])
	for _, k := range g.keyBuf {
		g.root.DoKeyboardEvent(KeyRelease, KeyEvent{Key: k, Modifiers: mods})
	}
	g.charBuf = ebiten.AppendInputChars(g.charBuf[:0])
	if len(g.charBuf) > 0 {
		g.root.DoKeyboardEvent(KeyText, KeyEvent{Text: string(g.charBuf), Modifiers: mods})
	}
}
