package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

var (
	statColor    = rl.Green
	cameraColor  = rl.NewColor(0x9A, 0xC8, 0xFF, 255)
	loadingColor = rl.NewColor(0xE8, 0xE4, 0xDF, 255)
)

// Debug draws the developer overlays in the top-right corner. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowCamera   bool

	// Camera describes the live camera; read when ShowCamera is set.
	Camera func() string

	// Pending reports how many assets are still loading; a spinner is drawn while it is non-zero.
	Pending func() int

	font       rl.Font
	frameCount uint32
	fpsText    string
	memText    string
	camText    string
	memStats   runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetFont sets the font used for the overlays. Zero texture ID = raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// refresh recomputes the cached texts every updateInterval frames, or right away when an
// overlay was just switched on.
func (d *Debug) refresh() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	update = update || (d.ShowFPS && d.fpsText == "") || (d.ShowMemAlloc && d.memText == "") ||
		(d.ShowCamera && d.camText == "")
	if !update {
		return
	}
	if d.ShowFPS {
		d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.memStats)
		d.memText = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
	}
	if d.ShowCamera && d.Camera != nil {
		d.camText = d.Camera()
	}
}

// Draw renders any enabled overlays. Call last in the draw loop.
func (d *Debug) Draw() {
	d.refresh()
	y := float32(padding)
	if d.ShowFPS && d.fpsText != "" {
		d.right(d.fpsText, y, statColor)
		y += lineHeight
	}
	if d.ShowMemAlloc && d.memText != "" {
		d.right(d.memText, y, statColor)
		y += lineHeight
	}
	if d.ShowCamera && d.camText != "" {
		d.right(d.camText, y, cameraColor)
		y += lineHeight
	}
	if d.Pending != nil {
		if n := d.Pending(); n > 0 {
			d.spinner(n)
		}
	}
}

// spinner is a rotating arc with the number of loads in flight, bottom-right.
func (d *Debug) spinner(n int) {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	center := rl.NewVector2(w-padding-14, h-padding-14)
	start := float32(rl.GetTime()*360) - 90
	rl.DrawRing(center, 9, 12, start, start+270, 24, loadingColor)
	text := fmt.Sprintf("loading %d", n)
	tw := d.measure(text)
	d.text(text, rl.NewVector2(center.X-20-tw, center.Y-fontSize/2), loadingColor)
}

func (d *Debug) right(text string, y float32, c rl.Color) {
	x := float32(rl.GetScreenWidth()) - d.measure(text) - padding
	d.text(text, rl.NewVector2(x, y), c)
}

func (d *Debug) measure(text string) float32 {
	if d.font.Texture.ID != 0 {
		return rl.MeasureTextEx(d.font, text, fontSize, 1).X
	}
	return float32(rl.MeasureText(text, fontSize))
}

func (d *Debug) text(text string, pos rl.Vector2, c rl.Color) {
	if d.font.Texture.ID != 0 {
		rl.DrawTextEx(d.font, text, pos, fontSize, 1, c)
		return
	}
	rl.DrawText(text, int32(pos.X), int32(pos.Y), fontSize, c)
}
