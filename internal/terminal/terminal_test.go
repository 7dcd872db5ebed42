package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configurator/internal/commands"
	"configurator/internal/logger"
)

func newTerminal(t *testing.T) (*Terminal, *[]string) {
	t.Helper()
	reg := commands.NewRegistry()
	var ran []string
	fs := commands.NewFlagSet("ping")
	reg.Register("ping", "ping <word>", fs, func() error {
		ran = append(ran, strings.Join(fs.Args(), " "))
		return nil
	})
	return New(logger.NewWithWriter(&bytes.Buffer{}), reg), &ran
}

func lastLine(t *Terminal) string {
	lines := t.log.Lines()
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func TestSubmitRunsCommands(t *testing.T) {
	term, ran := newTerminal(t)
	term.Submit("cmd ping pong")
	assert.Equal(t, []string{"pong"}, *ran)
	assert.Contains(t, lastLine(term), "> cmd ping pong")

	term.Submit("cmd nope")
	assert.Contains(t, lastLine(term), "error: command failed")
	assert.Contains(t, lastLine(term), "unknown command: nope")
}

func TestSubmitNaturalLanguage(t *testing.T) {
	term, ran := newTerminal(t)
	term.Submit("show me the taycan")
	assert.Contains(t, lastLine(term), "warn: no assistant configured")

	type call struct{ line, view string }
	got := make(chan call, 1)
	term.ViewContext = func() string { return "phase=selection" }
	term.OnNaturalLanguage = func(line, view string) { got <- call{line, view} }
	term.Submit("show me the taycan")

	c := <-got
	assert.Equal(t, "show me the taycan", c.line)
	assert.Equal(t, "phase=selection", c.view)
	assert.Empty(t, *ran)
}

func TestSubmitIgnoresEmpty(t *testing.T) {
	term, _ := newTerminal(t)
	term.Submit("")
	assert.Empty(t, term.log.Lines())
	assert.Empty(t, term.history)
}

func TestEditing(t *testing.T) {
	term, _ := newTerminal(t)
	term.Type("héé")
	term.Backspace()
	assert.Equal(t, "hé", term.Input())
	term.Backspace()
	term.Backspace()
	term.Backspace()
	assert.Equal(t, "", term.Input())
}

func TestRecall(t *testing.T) {
	term, _ := newTerminal(t)
	term.Recall(-1)
	assert.Equal(t, "", term.Input(), "no history yet")

	term.Submit("cmd ping a")
	term.Submit("cmd ping b")
	term.Submit("cmd ping b")
	require.Len(t, term.history, 2, "repeats collapse")

	term.Recall(-1)
	assert.Equal(t, "cmd ping b", term.Input())
	term.Recall(-1)
	term.Recall(-1)
	assert.Equal(t, "cmd ping a", term.Input(), "stops at the oldest")
	term.Recall(1)
	assert.Equal(t, "cmd ping b", term.Input())
	term.Recall(1)
	assert.Equal(t, "", term.Input())
}

func TestClip(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, clip(short))

	long := strings.Repeat("é", maxLineChars)
	out := clip(long)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, len(out), maxLineChars)
	assert.True(t, strings.HasPrefix(out, "é"))
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, errorColor, colorFor("[10:00:00] error: boom"))
	assert.Equal(t, warnColor, colorFor("[10:00:00] warn: careful"))
	assert.Equal(t, normalColor, colorFor("[10:00:00] > cmd help"))
	assert.Equal(t, normalColor, colorFor("plain"))
}
