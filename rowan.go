package rowan

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color is an RGB tint with components in [0, 1]. Opacity is carried
// separately on the node, so alpha is not part of the color value.
type Color struct {
	R, G, B float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(c.R * 255),
		G: uint8(c.G * 255),
		B: uint8(c.B * 255),
		A: 255,
	}
}

// WhitePixel is a 1x1 white image; the unit quad behind Rectangle nodes.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button
)

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// HitShape overrides a node's default hit region. Contains receives a point
// in the node's own local coordinate space.
type HitShape interface {
	Contains(x, y, z float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
// Matching the default node bounds, the right and bottom edges are exclusive.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y, _ float64) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y, _ float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}
