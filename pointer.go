package rowan

// PointerEventKind identifies a kind of pointer event.
type PointerEventKind uint8

const (
	PointerMotion  PointerEventKind = iota // pointer moved with no button held
	PointerPress                           // button pressed
	PointerRelease                         // button released
	PointerDrag                            // captured-node move; layers synthesize it from motion
	PointerLeave                           // pointer left the window or a node
	PointerScroll                          // scroll wheel
)

// PointerEvent carries pointer event data. Global coordinates are in the
// space the event entered the tree in (window pixels at the root); local
// coordinates are in the receiving node's own frame and are only meaningful
// when LocalValid is set — a singular transform along the way (a node scaled
// to zero, say) leaves them at the zero sentinel.
type PointerEvent struct {
	Kind    PointerEventKind
	Pointer int
	Button  MouseButton

	GlobalX, GlobalY       float64
	LocalX, LocalY, LocalZ float64
	LocalValid             bool

	// Motion/drag delta in global coordinates.
	DX, DY float64
	// Scroll amounts, PointerScroll only.
	ScrollX, ScrollY float64

	Modifiers KeyModifiers
	Node      *Node
}

// mappedPoint is a child-local point recorded during the hit-test pass, for
// hover-exit bookkeeping. ok is false when the mapping was singular.
type mappedPoint struct {
	x, y, z float64
	ok      bool
}

// DoPointerEvent routes a pointer event into the subtree rooted at n. The
// event's global coordinates are interpreted in n's parent frame (window
// coordinates when n is the root layer); n's own transform is applied before
// any routing. The return value reports whether some node claimed the event.
func (n *Node) DoPointerEvent(kind PointerEventKind, ev PointerEvent) bool {
	if n.dead || n.Hidden || !n.Interactive {
		return false
	}
	ev.Kind = kind
	ev.Node = n
	probe := NewPointProbe(ev.GlobalX, ev.GlobalY, 0)
	if err := n.probeTransform(probe); err != nil {
		// The root mapping is singular; only the kinds that tear down
		// state still route, with the unknown-point sentinel.
		ev.LocalX, ev.LocalY, ev.LocalZ, ev.LocalValid = 0, 0, 0, false
		switch kind {
		case PointerDrag, PointerRelease, PointerLeave:
			return n.receivePointer(kind, ev, probe, false)
		}
		return false
	}
	ev.LocalX, ev.LocalY, ev.LocalZ = probe.Point()
	ev.LocalValid = true
	return n.receivePointer(kind, ev, probe, true)
}

// receivePointer delivers an event to n. The probe holds the event point in
// n's local frame when valid. Layers route to their children first — inside
// the anchor-translated frame children draw in — and fall back to their own
// handler when no child claims, so a layer behaves like the hindmost hit
// candidate of its own subtree.
func (n *Node) receivePointer(kind PointerEventKind, ev PointerEvent, probe *PointProbe, valid bool) bool {
	claim := false
	if n.Type == NodeTypeLayer {
		if valid {
			probe.Push()
			ax, ay, az := n.Anchor()
			probe.Translate(ax, ay, az)
			claim = n.routeChildren(kind, ev, probe, true)
			probe.Pop()
		} else {
			claim = n.routeChildren(kind, ev, probe, false)
		}
	}
	if !claim {
		claim = n.callPointerHandler(kind, ev)
	}
	return claim
}

// routeChildren runs the per-kind routing algorithm over n's children. The
// probe holds the event point in n's child frame when valid; the hit-testing
// kinds cannot route without a point, while the state-teardown kinds proceed
// with the sentinel.
func (n *Node) routeChildren(kind PointerEventKind, ev PointerEvent, probe *PointProbe, valid bool) bool {
	switch kind {
	case PointerMotion:
		if !valid {
			return false
		}
		return n.routeMotion(ev, probe)
	case PointerPress:
		if !valid {
			return false
		}
		return n.routePress(ev, probe)
	case PointerScroll:
		if !valid {
			return false
		}
		return n.routeScroll(ev, probe)
	case PointerDrag:
		return n.routeDrag(ev, probe, valid)
	case PointerRelease:
		return n.routeRelease(ev, probe, valid)
	case PointerLeave:
		return n.routeLeave(ev, probe, valid)
	}
	return false
}

// dispatchMapped maps the event point into child's frame and delivers the
// event there. With valid false, or when the child's own transform turns out
// singular, the child receives the unknown-point sentinel instead.
func (n *Node) dispatchMapped(child *Node, kind PointerEventKind, ev PointerEvent, probe *PointProbe, valid bool) bool {
	ev.Kind = kind
	ev.Node = child
	if !valid {
		ev.LocalX, ev.LocalY, ev.LocalZ, ev.LocalValid = 0, 0, 0, false
		return child.receivePointer(kind, ev, probe, false)
	}
	probe.Push()
	defer probe.Pop()
	if err := child.probeTransform(probe); err != nil {
		ev.LocalX, ev.LocalY, ev.LocalZ, ev.LocalValid = 0, 0, 0, false
		return child.receivePointer(kind, ev, probe, false)
	}
	ev.LocalX, ev.LocalY, ev.LocalZ = probe.Point()
	ev.LocalValid = true
	return child.receivePointer(kind, ev, probe, true)
}

// routeMotion is the full motion algorithm: drag continuation to captured
// children, a reverse-order hit-test pass dispatching motion until a claim,
// leave events for children that dropped out of the hover set, and finally
// the hover-set swap.
func (n *Node) routeMotion(ev PointerEvent, probe *PointProbe) bool {
	// Captured children keep receiving drag wherever the pointer is, as
	// long as they are live and still attached here.
	for btn, child := range n.capture[ev.Pointer] {
		if child.dead || child.Parent != n {
			continue
		}
		dev := ev
		dev.Button = btn
		n.dispatchMapped(child, PointerDrag, dev, probe, true)
	}

	prev := n.hover[ev.Pointer]

	// Hit-test pass: topmost drawn child first. Children whose mapping is
	// singular have no usable point but still matter for leave bookkeeping.
	var claim bool
	var newHover map[*Node]struct{}
	var mapped map[*Node]mappedPoint
	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		if c.dead || c.Hidden || !c.Interactive {
			continue
		}
		probe.Push()
		var mp mappedPoint
		if err := c.probeTransform(probe); err == nil {
			mp.x, mp.y, mp.z = probe.Point()
			mp.ok = true
		}
		if prev != nil {
			if mapped == nil {
				mapped = make(map[*Node]mappedPoint)
			}
			mapped[c] = mp
		}
		if mp.ok && !claim && c.hitTest(mp.x, mp.y, mp.z) {
			mev := ev
			mev.Node = c
			mev.LocalX, mev.LocalY, mev.LocalZ, mev.LocalValid = mp.x, mp.y, mp.z, true
			if c.receivePointer(PointerMotion, mev, probe, true) {
				claim = true
			}
			if newHover == nil {
				newHover = make(map[*Node]struct{})
			}
			newHover[c] = struct{}{}
		}
		probe.Pop()
	}

	// Hover exit: anything hovered before but not now gets a leave, at its
	// freshly mapped point or the sentinel when the mapping went singular.
	for child := range prev {
		if _, still := newHover[child]; still {
			continue
		}
		if child.dead || child.Hidden {
			continue
		}
		mp := mapped[child]
		n.dispatchMapped(child, PointerLeave, ev, probe, mp.ok && child.Parent == n)
	}

	if len(newHover) > 0 {
		n.hoverTable()[ev.Pointer] = newHover
	} else if n.hover != nil {
		delete(n.hover, ev.Pointer)
	}
	return claim
}

// routePress hit-tests children in reverse order and dispatches press to
// each hit child until one claims; the claiming child captures subsequent
// drag/release for this pointer+button.
func (n *Node) routePress(ev PointerEvent, probe *PointProbe) bool {
	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		if c.dead || c.Hidden || !c.Interactive {
			continue
		}
		probe.Push()
		claimed := false
		if err := c.probeTransform(probe); err == nil {
			x, y, z := probe.Point()
			if c.hitTest(x, y, z) {
				pev := ev
				pev.Node = c
				pev.LocalX, pev.LocalY, pev.LocalZ, pev.LocalValid = x, y, z, true
				if c.receivePointer(PointerPress, pev, probe, true) {
					n.captureTable(ev.Pointer)[ev.Button] = c
					claimed = true
				}
			}
		}
		probe.Pop()
		if claimed {
			return true
		}
	}
	return false
}

// routeDrag forwards a drag to the child captured for this pointer+button.
func (n *Node) routeDrag(ev PointerEvent, probe *PointProbe, valid bool) bool {
	child, ok := n.capture[ev.Pointer][ev.Button]
	if !ok || child.dead || child.Parent != n {
		return false
	}
	return n.dispatchMapped(child, PointerDrag, ev, probe, valid)
}

// routeRelease delivers the release to the captured child if it is still
// live and attached, then clears the capture entry unconditionally.
func (n *Node) routeRelease(ev PointerEvent, probe *PointProbe, valid bool) bool {
	caps := n.capture[ev.Pointer]
	child, ok := caps[ev.Button]
	if !ok {
		return false
	}
	var claim bool
	if !child.dead && child.Parent == n {
		claim = n.dispatchMapped(child, PointerRelease, ev, probe, valid)
	}
	delete(caps, ev.Button)
	if len(caps) == 0 {
		delete(n.capture, ev.Pointer)
	}
	return claim
}

// routeLeave sends a synthetic leave to every hovered child for this pointer
// with best-effort remapped coordinates, then clears the hover entry.
func (n *Node) routeLeave(ev PointerEvent, probe *PointProbe, valid bool) bool {
	for child := range n.hover[ev.Pointer] {
		if child.dead || child.Hidden {
			continue
		}
		n.dispatchMapped(child, PointerLeave, ev, probe, valid && child.Parent == n)
	}
	if n.hover != nil {
		delete(n.hover, ev.Pointer)
	}
	return false
}

// routeScroll hit-tests children in reverse order and dispatches scroll to
// each hit child until a claim. No hover or capture bookkeeping.
func (n *Node) routeScroll(ev PointerEvent, probe *PointProbe) bool {
	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		if c.dead || c.Hidden || !c.Interactive {
			continue
		}
		probe.Push()
		claimed := false
		if err := c.probeTransform(probe); err == nil {
			x, y, z := probe.Point()
			if c.hitTest(x, y, z) {
				sev := ev
				sev.Node = c
				sev.LocalX, sev.LocalY, sev.LocalZ, sev.LocalValid = x, y, z, true
				claimed = c.receivePointer(PointerScroll, sev, probe, true)
			}
		}
		probe.Pop()
		if claimed {
			return true
		}
	}
	return false
}

func (n *Node) callPointerHandler(kind PointerEventKind, ev PointerEvent) bool {
	var h func(PointerEvent) bool
	switch kind {
	case PointerMotion:
		h = n.OnMotion
	case PointerPress:
		h = n.OnPress
	case PointerRelease:
		h = n.OnRelease
	case PointerDrag:
		h = n.OnDrag
	case PointerLeave:
		h = n.OnLeave
	case PointerScroll:
		h = n.OnScroll
	}
	if h == nil {
		return false
	}
	return h(ev)
}

// hoverTable returns the lazily created hover table.
func (n *Node) hoverTable() map[int]map[*Node]struct{} {
	if n.hover == nil {
		n.hover = make(map[int]map[*Node]struct{})
	}
	return n.hover
}

// captureTable returns the lazily created capture table for a pointer.
func (n *Node) captureTable(pointer int) map[MouseButton]*Node {
	if n.capture == nil {
		n.capture = make(map[int]map[MouseButton]*Node)
	}
	caps := n.capture[pointer]
	if caps == nil {
		caps = make(map[MouseButton]*Node)
		n.capture[pointer] = caps
	}
	return caps
}
