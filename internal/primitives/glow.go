package primitives

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// GlowImage renders the platform glow: a white disk whose alpha falls off from a bright core
// to nothing at the rim, softened with a Gaussian blur of the given radius in pixels.
// The image is premultiplied, ready for additive blending.
func GlowImage(size int, softness float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Distance from the center in UV units: 0 at the center, 0.5 at the rim.
			d := math.Hypot(float64(x)+0.5-half, float64(y)+0.5-half) / float64(size)
			a := (smoothstep(0.5, 0.05, d) + 0.35*smoothstep(0.25, 0, d)) * 0.65
			v := uint8(math.Round(math.Min(a, 1) * 255))
			img.SetRGBA(x, y, color.RGBA{v, v, v, v})
		}
	}
	if softness <= 0 {
		return img
	}
	return blur.Gaussian(img, softness)
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := math.Min(math.Max((x-edge0)/(edge1-edge0), 0), 1)
	return t * t * (3 - 2*t)
}
