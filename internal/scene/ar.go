package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// AR preview chrome.
const (
	arGridSlices  = 24
	arGridSpacing = 1
	arBracket     = 32
	arInset       = 24
	arLineWidth   = 2
)

var (
	arGold  = rl.NewColor(0xC9, 0xA8, 0x4C, 255)
	arClear = rl.NewColor(0xC9, 0xA8, 0x4C, 0)
)

// drawARGrid marks the simulated floor the vehicle is placed on. Call inside Mode3D.
func drawARGrid() {
	rl.DrawGrid(arGridSlices, arGridSpacing)
}

// drawARChrome draws the sweeping scan line and the corner brackets of the AR preview.
func (s *Scene) drawARChrome() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	y := int32(s.stage.ScanLine() * h)
	half := int32(w / 2)
	line := rl.Fade(arGold, 0.6)
	rl.DrawRectangleGradientH(0, y, half, 1, arClear, line)
	rl.DrawRectangleGradientH(half, y, int32(w)-half, 1, line, arClear)

	bracket := rl.Fade(arGold, 0.7)
	for _, c := range arCorners(w, h) {
		rl.DrawLineEx(c[0], c[1], arLineWidth, bracket)
		rl.DrawLineEx(c[1], c[2], arLineWidth, bracket)
	}
}

// arCorners returns the four L-shaped brackets inset from the screen corners, each as
// end, corner, end.
func arCorners(w, h float32) [4][3]rl.Vector2 {
	l, r := float32(arInset), w-arInset
	t, b := float32(arInset), h-arInset
	return [4][3]rl.Vector2{
		{rl.NewVector2(l, t+arBracket), rl.NewVector2(l, t), rl.NewVector2(l+arBracket, t)},
		{rl.NewVector2(r-arBracket, t), rl.NewVector2(r, t), rl.NewVector2(r, t+arBracket)},
		{rl.NewVector2(l, b-arBracket), rl.NewVector2(l, b), rl.NewVector2(l+arBracket, b)},
		{rl.NewVector2(r-arBracket, b), rl.NewVector2(r, b), rl.NewVector2(r, b-arBracket)},
	}
}
