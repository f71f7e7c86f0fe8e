package source

import (
	"image"
	"image/color"
	"math"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Gradient renders small frames whose hue drifts a little every capture.
type Gradient struct {
	mu   sync.Mutex
	w, h int
	hue  float64
	step float64
}

func NewGradient(w, h int, step float64) *Gradient {
	return &Gradient{w: max(w, 1), h: max(h, 1), step: step}
}

func (g *Gradient) Capture() (image.Image, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	from := colorful.Hsv(g.hue, 0.8, 0.9)
	to := colorful.Hsv(math.Mod(g.hue+120, 360), 0.8, 0.4)
	img := image.NewRGBA(image.Rect(0, 0, g.w, g.h))
	for x := 0; x < g.w; x++ {
		c := from.BlendLab(to, float64(x)/float64(max(g.w-1, 1))).Clamped()
		r, gg, b := c.RGB255()
		for y := 0; y < g.h; y++ {
			img.Set(x, y, color.RGBA{r, gg, b, 255})
		}
	}
	g.hue += g.step
	for g.hue >= 360 {
		g.hue -= 360
	}
	return img, true
}

// DominantHex returns the colour at the centre of img as "#rrggbb".
func DominantHex(img image.Image) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	c, ok := colorful.MakeColor(img.At((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2))
	if !ok {
		return ""
	}
	return c.Hex()
}
