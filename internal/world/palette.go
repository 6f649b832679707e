package world

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette maps class ids to display colors spread evenly around the hue circle
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		h := float64(i) / float64(n) * 360
		r, g, b := colorful.Hsv(h, 0.85, 1).Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}
