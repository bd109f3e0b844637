package rowan

import "github.com/hajimehoshi/ebiten/v2"

// KeyEventKind identifies a kind of keyboard event.
type KeyEventKind uint8

const (
	KeyPress   KeyEventKind = iota // key pressed
	KeyRelease                     // key released
	KeyText                        // text typed (Text field holds the input)
)

// KeyEvent carries keyboard event data.
type KeyEvent struct {
	Kind      KeyEventKind
	Key       ebiten.Key
	Text      string
	Modifiers KeyModifiers
	Node      *Node
}

// DoKeyboardEvent routes a keyboard event through the subtree rooted at n.
// The node's own handler runs first; if it does not claim the event, the
// children get it in reverse list order (topmost drawn child first),
// stopping at the first claim. Hidden and dead subtrees never receive
// keyboard events.
func (n *Node) DoKeyboardEvent(kind KeyEventKind, ev KeyEvent) bool {
	if n.dead || n.Hidden || !n.Interactive {
		return false
	}
	ev.Kind = kind
	ev.Node = n
	if h := n.keyHandler(kind); h != nil && h(ev) {
		return true
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if n.children[i].DoKeyboardEvent(kind, ev) {
			return true
		}
	}
	return false
}

func (n *Node) keyHandler(kind KeyEventKind) func(KeyEvent) bool {
	switch kind {
	case KeyPress:
		return n.OnKeyPress
	case KeyRelease:
		return n.OnKeyRelease
	case KeyText:
		return n.OnTextInput
	}
	return nil
}
