// Package paint holds the color value shared by the catalog, the classifier and the renderer.
package paint

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// Color is an sRGB color with channels in [0, 1]. Alpha lives with the material, not here.
type Color struct {
	R, G, B float32
}

// RGB builds a Color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// Gray returns a neutral color with all channels set to v.
func Gray(v float32) Color {
	return Color{R: v, G: v, B: v}
}

// ParseHex parses #RGB or #RRGGBB (leading # optional). Returns false on any malformed input.
func ParseHex(s string) (Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		for _, c := range []byte(s) {
			if !isHex(c) {
				return Color{}, false
			}
		}
		r = hexByte(s[0]) * 17
		g = hexByte(s[1]) * 17
		b = hexByte(s[2]) * 17
	case 6:
		for _, c := range []byte(s) {
			if !isHex(c) {
				return Color{}, false
			}
		}
		r = hexByte(s[0])<<4 + hexByte(s[1])
		g = hexByte(s[2])<<4 + hexByte(s[3])
		b = hexByte(s[4])<<4 + hexByte(s[5])
	default:
		return Color{}, false
	}
	return RGB(r, g, b), true
}

// MustHex is ParseHex for literals known to be valid; it panics otherwise.
func MustHex(s string) Color {
	c, ok := ParseHex(s)
	if !ok {
		panic(fmt.Sprintf("paint: invalid hex color %q", s))
	}
	return c
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexByte(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// RGBA8 returns the color as 8-bit channels, clamped and rounded.
func (c Color) RGBA8() (r, g, b uint8) {
	return to8(c.R), to8(c.G), to8(c.B)
}

func to8(v float32) uint8 {
	v = math32.Max(0, math32.Min(1, v))
	return uint8(math32.Round(v * 255))
}

// Hex formats the color as #RRGGBB (upper case, matching the catalog).
func (c Color) Hex() string {
	r, g, b := c.RGBA8()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Lightness is the HSL lightness, (max+min)/2 of the channels.
func (c Color) Lightness() float32 {
	hi := math32.Max(c.R, math32.Max(c.G, c.B))
	lo := math32.Min(c.R, math32.Min(c.G, c.B))
	return (hi + lo) / 2
}

// FromLinear converts linear-light channels (glTF baseColorFactor) to sRGB.
func FromLinear(r, g, b float32) Color {
	return Color{R: linearToSRGB(r), G: linearToSRGB(g), B: linearToSRGB(b)}
}

func linearToSRGB(v float32) float32 {
	v = math32.Max(0, math32.Min(1, v))
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math32.Pow(v, 1/2.4) - 0.055
}
