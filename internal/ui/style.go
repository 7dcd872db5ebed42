package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/paint"
)

// Selector is a single .class or #id selector, optionally limited to the hovered state.
type Selector struct {
	Name  string
	ID    bool
	Hover bool
}

// Matches reports whether the selector applies to n in the given hover state.
func (s Selector) Matches(n *Node, hovered bool) bool {
	if s.Hover && !hovered {
		return false
	}
	if s.ID {
		return n.ID == s.Name
	}
	return n.HasClass(s.Name)
}

// Rule is one selector with its raw property values.
type Rule struct {
	Selector Selector
	Props    map[string]string
}

// Stylesheet is an ordered rule list; later rules win.
type Stylesheet struct {
	Rules []Rule
}

// Align is horizontal text alignment inside a node.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ComputedStyle holds resolved values used for drawing.
// LeftPct/TopPct: 0–100 for percentage positioning; -1 means use Left/Top as pixels.
type ComputedStyle struct {
	Background rl.Color
	Color      rl.Color
	Border     rl.Color
	HasBorder  bool
	Accent     rl.Color // bar fill
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	LeftPct    int32
	TopPct     int32
	Padding    int32
	FontSize   int32
	Radius     float32 // corner roundness 0..1
	Align      Align
}

// DefaultComputedStyle returns white text on a transparent background.
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Background: rl.NewColor(0, 0, 0, 0),
		Color:      rl.White,
		Border:     rl.Black,
		Accent:     rl.White,
		LeftPct:    -1,
		TopPct:     -1,
		Padding:    4,
		FontSize:   defaultFontSize,
	}
}

// ParseColor parses #RGB, #RRGGBB or #RRGGBBAA, and "transparent".
func ParseColor(s string) (rl.Color, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return rl.NewColor(0, 0, 0, 0), true
	}
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return rl.Black, false
		}
		alpha, s = uint8(a), s[:7]
	}
	c, ok := paint.ParseHex(s)
	if !ok {
		return rl.Black, false
	}
	r, g, b := c.RGBA8()
	return rl.NewColor(r, g, b, alpha), true
}

// ParsePx parses a number with optional "px" suffix.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" with N in 0–100.
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	num, ok := strings.CutSuffix(s, "%")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}

// ResolveProps builds a ComputedStyle from merged properties.
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	for k, v := range props {
		switch k {
		case "background":
			if c, ok := ParseColor(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := ParseColor(v); ok {
				out.Color = c
			}
		case "accent", "accent-color":
			if c, ok := ParseColor(v); ok {
				out.Accent = c
			}
		case "border":
			if c, ok := ParseColor(v); ok {
				out.Border, out.HasBorder = c, c.A > 0
			}
		case "width":
			if n, ok := ParsePx(v); ok {
				out.Width = n
			}
		case "height":
			if n, ok := ParsePx(v); ok {
				out.Height = n
			}
		case "left", "x":
			if pct, ok := ParsePct(v); ok {
				out.LeftPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Left = n
			}
		case "top", "y":
			if pct, ok := ParsePct(v); ok {
				out.TopPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Top = n
			}
		case "padding":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "font-size":
			if n, ok := ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		case "border-radius", "radius":
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 32); err == nil && f >= 0 {
				out.Radius = min(float32(f), 1)
			}
		case "text-align":
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "center":
				out.Align = AlignCenter
			case "right":
				out.Align = AlignRight
			default:
				out.Align = AlignLeft
			}
		}
	}
	return out
}
