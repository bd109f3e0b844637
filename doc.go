// Package rowan is a retained-mode scene graph for [Ebitengine].
//
// Rowan provides the node tree, transform hierarchy, point mapping, and
// pointer/keyboard event routing that a retained-mode 2D application needs,
// plus simple rectangle, sprite, and text leaves drawn through Ebitengine.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	root := rowan.NewLayer(nil, "root", rowan.Props{"size": []float64{640, 480}})
//	// ... add nodes ...
//	rowan.Run(root, rowan.RunConfig{
//		Title: "My App", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and call [Node.Draw],
// [Node.DoPointerEvent], and [Node.DoKeyboardEvent] directly.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at a [NewLayer]
// layer with no parent. Children inherit their parent's transform and
// opacity. Later siblings draw on top of earlier ones; pointer events visit
// them in the opposite order, topmost first.
//
// Create nodes with typed constructors: [NewLayer], [NewRectangle],
// [NewSprite], and [NewText]. Each takes a parent, a name, and an optional
// [Props] map of initial property values:
//
//	ui := rowan.NewLayer(root, "ui", nil)
//
//	box := rowan.NewRectangle(ui, "box", rowan.Props{
//		"position": []float64{100, 50},
//		"size":     []float64{80, 40},
//		"color":    []float64{0.3, 0.7, 1},
//	})
//
// A node leaves the tree through [Node.Die], which kills its whole subtree,
// or by [Node.Reparent] to a different layer.
//
// # Transforms
//
// Each node positions itself by translating to its position, rotating,
// scaling, and translating back by its anchor. The same sequence shapes both
// drawing (through a [Transform]) and event delivery (through a
// [PointProbe], which carries a point down the tree into each node's local
// coordinates). [MatrixTransform] records the composed matrix on a stack and
// can invert it; [RendererTransform] forwards the operations straight to a
// [Renderer].
//
// # Input
//
// Pointer events enter the tree at the root via [Node.DoPointerEvent] and
// descend through layers to the topmost interested leaf. A handler returning
// true claims the event: presses then capture the pointer's button, so drags
// and the release reach the same node even outside its bounds. Hover is
// tracked per layer, and nodes with an [Node.OnLeave] handler hear when the
// pointer moves off them. Keyboard events try the focused node itself before
// its children.
//
// Tweens (via [gween]) animate node fields through [TweenGroup]; see
// [TweenPosition] and friends.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package rowan
