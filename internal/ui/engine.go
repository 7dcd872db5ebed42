package ui

import (
	_ "embed"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/phase"
)

const defaultFontSize = 20

//go:embed overlay.css
var defaultCSS string

type styleKey struct {
	class, id string
	hovered   bool
}

// Engine draws overlay nodes with a stylesheet and routes clicks to them. Styles are
// cached per class/id/hover combination and dropped when the stylesheet changes.
type Engine struct {
	sheet   *Stylesheet
	nodes   []*Node
	styles  map[styleKey]ComputedStyle
	font    rl.Font
	hovered *Node
}

// New returns an engine using the built-in overlay stylesheet.
func New() *Engine {
	sheet, _ := ParseCSS(defaultCSS)
	return &Engine{sheet: sheet, styles: make(map[styleKey]ComputedStyle)}
}

// LoadCSS replaces the stylesheet with the file at path.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly.
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	clear(e.styles)
}

// Stylesheet returns the current stylesheet.
func (e *Engine) Stylesheet() *Stylesheet { return e.sheet }

// LoadFont loads a TTF font for text. Call after the window exists.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFontEx(path, 48, nil)
	if f.Texture.ID == 0 {
		return os.ErrNotExist
	}
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
	}
	e.font = f
	rl.SetTextureFilter(e.font.Texture, rl.FilterBilinear)
	return nil
}

// Font returns the loaded font; zero when the raylib default is in use.
func (e *Engine) Font() rl.Font { return e.font }

// SetNodes replaces the node list. Nodes are drawn in order; later nodes are on top.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
	e.hovered = nil
}

// Nodes returns the current node list.
func (e *Engine) Nodes() []*Node { return e.nodes }

// Style returns the computed style of n.
func (e *Engine) Style(n *Node, hovered bool) ComputedStyle {
	key := styleKey{n.Class, n.ID, hovered}
	if s, ok := e.styles[key]; ok {
		return s
	}
	merged := make(map[string]string)
	if e.sheet != nil {
		for _, rule := range e.sheet.Rules {
			if rule.Selector.Matches(n, hovered) {
				for k, v := range rule.Props {
					merged[k] = v
				}
			}
		}
	}
	s := ResolveProps(merged)
	e.styles[key] = s
	return s
}

// Layout gives nodes without explicit bounds their stylesheet position and size.
func (e *Engine) Layout(screenW, screenH int32) {
	for _, n := range e.nodes {
		if n.Bounds.Width > 0 {
			continue
		}
		s := e.Style(n, false)
		x, y := s.Left, s.Top
		if s.LeftPct >= 0 {
			x = (screenW - s.Width) * s.LeftPct / 100
		}
		if s.TopPct >= 0 {
			y = (screenH - s.Height) * s.TopPct / 100
		}
		n.At(float32(x), float32(y), float32(s.Width), float32(s.Height))
	}
}

// Pick returns the topmost clickable node under the point, or nil.
func (e *Engine) Pick(x, y float32) *Node {
	for i := len(e.nodes) - 1; i >= 0; i-- {
		if n := e.nodes[i]; n.OnClick != nil && n.Contains(x, y) {
			return n
		}
	}
	return nil
}

// Blocks reports whether the point is over any visible overlay element, so the 3D scene
// should not react to it.
func (e *Engine) Blocks(x, y float32) bool {
	for _, n := range e.nodes {
		if n.Contains(x, y) && (n.OnClick != nil || e.Style(n, false).Background.A > 0) {
			return true
		}
	}
	return false
}

// Hover updates the hovered node from the pointer position.
func (e *Engine) Hover(x, y float32) {
	e.hovered = e.Pick(x, y)
}

// Click runs the clicked node's action against store. Returns whether a node took the click.
func (e *Engine) Click(x, y float32, store *phase.Store) bool {
	n := e.Pick(x, y)
	if n == nil {
		return false
	}
	n.OnClick(store)
	return true
}

// Draw draws all nodes.
func (e *Engine) Draw() {
	for _, n := range e.nodes {
		s := e.Style(n, n == e.hovered)
		b := n.Bounds
		if s.Background.A > 0 {
			if s.Radius > 0 {
				rl.DrawRectangleRounded(b, s.Radius, 6, s.Background)
			} else {
				rl.DrawRectangleRec(b, s.Background)
			}
		}
		if n.Type == "bar" {
			fill := b
			fill.Width *= min(max(n.Fill, 0), 1)
			rl.DrawRectangleRec(fill, s.Accent)
		}
		if s.HasBorder && b.Width > 0 && b.Height > 0 {
			if s.Radius > 0 {
				rl.DrawRectangleRoundedLinesEx(b, s.Radius, 6, 1, s.Border)
			} else {
				rl.DrawRectangleLinesEx(b, 1, s.Border)
			}
		}
		textX := b.X + float32(s.Padding)
		if n.HasSwatch {
			chip := float32(s.FontSize)
			rl.DrawRectangleRounded(rl.NewRectangle(textX, b.Y+(b.Height-chip)/2, chip, chip), 0.5, 6, n.Swatch)
			textX += chip + float32(s.Padding)
		}
		if n.Text != "" {
			e.drawText(n.Text, textX, b, s)
		}
	}
}

func (e *Engine) drawText(text string, x float32, b rl.Rectangle, s ComputedStyle) {
	size := float32(s.FontSize)
	var w float32
	if e.font.Texture.ID != 0 {
		w = rl.MeasureTextEx(e.font, text, size, 1).X
	} else {
		w = float32(rl.MeasureText(text, s.FontSize))
	}
	switch s.Align {
	case AlignCenter:
		x = b.X + (b.Width-w)/2
	case AlignRight:
		x = b.X + b.Width - w - float32(s.Padding)
	}
	y := b.Y + float32(s.Padding)
	if b.Height > 0 {
		y = b.Y + (b.Height-size)/2
	}
	if e.font.Texture.ID != 0 {
		rl.DrawTextEx(e.font, text, rl.NewVector2(x, y), size, 1, s.Color)
		return
	}
	rl.DrawText(text, int32(x), int32(y), s.FontSize, s.Color)
}
