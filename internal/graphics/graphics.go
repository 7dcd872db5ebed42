package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window describes the window Run opens.
type Window struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	TargetFPS  int
}

// Run opens the window and drives the main loop. Each frame it calls update with the frame
// time in seconds, then clears the screen and calls draw. ESC is left to the console; the
// window closes through its close button. cleanup, when non-nil, runs before the window and
// its GL context go away.
func Run(w Window, update func(dt float32), draw func(), cleanup func()) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	width, height := int32(w.Width), int32(w.Height)
	rl.InitWindow(width, height, w.Title)
	defer rl.CloseWindow()

	if w.Fullscreen {
		SetFullscreen(true, w)
	}
	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(int32(w.TargetFPS))

	if cleanup != nil {
		defer cleanup()
	}

	for !rl.WindowShouldClose() {
		update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
}

// SetFullscreen switches between a monitor-sized fullscreen window and a windowed one of
// the size in windowed.
func SetFullscreen(on bool, windowed Window) {
	if rl.IsWindowFullscreen() == on {
		return
	}
	if on {
		m := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(m), rl.GetMonitorHeight(m))
		rl.ToggleFullscreen()
		return
	}
	rl.ToggleFullscreen()
	rl.SetWindowSize(windowed.Width, windowed.Height)
}
