package rowan

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// LoadTTFFont parses TTF/OTF font data and returns a face at the given size
// in pixels, suitable for NewText.
func LoadTTFFont(ttf []byte, size float64) (text.Face, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, err
	}
	return &text.GoTextFace{Source: src, Size: size}, nil
}
