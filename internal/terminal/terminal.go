package terminal

import (
	"strings"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/commands"
	"configurator/internal/logger"
)

const (
	BarHeight = 40
	// Windowed mode lifts the bar so window decorations don't clip it.
	WindowedBarOffset = 56
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	maxLinesOnScreen  = 14
	lineHeight        = fontSize + 4
	maxLineChars      = 200
	maxHistory        = 50
)

var (
	barColor    = rl.NewColor(18, 18, 22, 245)
	edgeColor   = rl.NewColor(90, 90, 100, 255)
	backdrop    = rl.NewColor(6, 6, 10, 225)
	warnColor   = rl.NewColor(230, 180, 90, 255)
	errorColor  = rl.NewColor(230, 95, 95, 255)
	normalColor = rl.LightGray
)

// Terminal is the console overlay, toggled with ESC. Lines starting with "cmd " run through
// the command registry on the render thread; anything else goes to OnNaturalLanguage in a
// goroutine together with the ViewContext snapshot taken at submit time.
type Terminal struct {
	log  *logger.Logger
	reg  *commands.Registry
	font rl.Font

	input   string
	open    bool
	history []string
	recall  int // index into history while browsing with up/down; len(history) when not

	ViewContext       func() string
	OnNaturalLanguage func(line, viewContext string)
}

// New returns a closed terminal.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen reports whether the terminal captures the keyboard.
func (t *Terminal) IsOpen() bool { return t.open }

// SetOpen shows or hides the terminal.
func (t *Terminal) SetOpen(open bool) { t.open = open }

// SetFont sets the font used to draw. A zero texture ID means the raylib default font.
func (t *Terminal) SetFont(font rl.Font) { t.font = font }

// Input returns the line being typed.
func (t *Terminal) Input() string { return t.input }

// Submit handles one entered line. Empty lines are ignored.
func (t *Terminal) Submit(line string) {
	if line == "" {
		return
	}
	t.remember(line)
	t.log.Log(prompt + line)

	if args, isCmd := commands.Parse(line); isCmd {
		if err := t.reg.Execute(args); err != nil {
			t.log.Error(err, "command failed")
		}
		return
	}
	if t.OnNaturalLanguage == nil {
		t.log.Warn("no assistant configured; try \"cmd help\"")
		return
	}
	view := ""
	if t.ViewContext != nil {
		view = t.ViewContext()
	}
	go t.OnNaturalLanguage(line, view)
}

func (t *Terminal) remember(line string) {
	if n := len(t.history); n == 0 || t.history[n-1] != line {
		t.history = append(t.history, line)
		if len(t.history) > maxHistory {
			t.history = t.history[len(t.history)-maxHistory:]
		}
	}
	t.recall = len(t.history)
}

// Recall steps through submitted lines: -1 for older, +1 for newer. Stepping past the newest
// entry clears the input.
func (t *Terminal) Recall(delta int) {
	if len(t.history) == 0 {
		return
	}
	t.recall += delta
	if t.recall < 0 {
		t.recall = 0
	}
	if t.recall >= len(t.history) {
		t.recall = len(t.history)
		t.input = ""
		return
	}
	t.input = t.history[t.recall]
}

// Type appends text to the input line.
func (t *Terminal) Type(s string) { t.input += s }

// Backspace removes the last rune of the input line.
func (t *Terminal) Backspace() {
	if t.input == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(t.input)
	t.input = t.input[:len(t.input)-size]
}

// Update reads the keyboard. Call once per frame before the scene handles input.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	mod := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if mod && rl.IsKeyPressed(rl.KeyV) {
		t.Type(rl.GetClipboardText())
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.Type(string(rune(c)))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		t.Backspace()
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		t.Recall(-1)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		t.Recall(1)
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		line := t.input
		t.input = ""
		t.Submit(line)
	}
}

// Draw renders the log backdrop and the input bar when open.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	barY := int32(rl.GetScreenHeight()) - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}

	logH := int32(maxLinesOnScreen * lineHeight)
	logY := barY - logH
	if logY < 0 {
		logH, logY = barY, 0
	}
	if logH > 0 {
		rl.DrawRectangle(0, logY, screenW, logH, backdrop)
	}
	lines := t.log.Lines()
	if len(lines) > maxLinesOnScreen {
		lines = lines[len(lines)-maxLinesOnScreen:]
	}
	for i, line := range lines {
		y := logY + int32(i*lineHeight) + padding
		t.text(clip(line), padding, y, colorFor(line))
	}

	rl.DrawRectangle(0, barY, screenW, BarHeight, barColor)
	rl.DrawRectangle(0, barY, screenW, 1, edgeColor)
	t.text(prompt+t.input+"|", padding, barY+padding, rl.White)
}

func (t *Terminal) text(s string, x, y int32, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), fontSize, 1, c)
		return
	}
	rl.DrawText(s, x, y, fontSize, c)
}

func clip(line string) string {
	if len(line) <= maxLineChars {
		return line
	}
	cut := maxLineChars - 3
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + "..."
}

// colorFor picks a tint from the logger's console prefixes.
func colorFor(line string) rl.Color {
	if i := strings.Index(line, "] "); i >= 0 && strings.HasPrefix(line, "[") {
		line = line[i+2:]
	}
	switch {
	case strings.HasPrefix(line, "error:"):
		return errorColor
	case strings.HasPrefix(line, "warn:"):
		return warnColor
	}
	return normalColor
}
