package payload

import (
	"image"
	"image/png"
	"io"
)

// PNG stores image frames losslessly.
type PNG struct{}

func (PNG) Extension() string { return "png" }

func (PNG) Encode(w io.Writer, v image.Image) error {
	return png.Encode(w, v)
}

func (PNG) Decode(r io.Reader) (image.Image, error) {
	return png.Decode(r)
}
