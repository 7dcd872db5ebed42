package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLogger(buf *bytes.Buffer) *Logger {
	l := NewWithWriter(buf)
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	return l
}

func TestLinesAreStampedAndFormatted(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf)

	l.Log("cmd select 911")
	l.Info("asset ready", "ref", "911.glb", "scale", 1.5)
	l.Warn("asset failed", "ref", "x.glb")
	l.Error(errors.New("boom"), "decode")

	assert.Equal(t, []string{
		"[12:30:00] cmd select 911",
		"[12:30:00] asset ready ref=911.glb scale=1.5",
		"[12:30:00] warn: asset failed ref=x.glb",
		"[12:30:00] error: decode err=boom",
	}, l.Lines())
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf)
	l.Warn("asset failed", "ref", "x.glb")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "asset failed", entry["message"])
	assert.Equal(t, "x.glb", entry["ref"])
}

func TestLinesAreCapped(t *testing.T) {
	l := Discard()
	for i := 0; i < maxLines+20; i++ {
		l.Log(fmt.Sprintf("line %d", i))
	}
	lines := l.Lines()
	require.Len(t, lines, maxLines)
	assert.True(t, strings.HasSuffix(lines[0], "line 20"))
}

func TestLinesReturnsCopy(t *testing.T) {
	l := Discard()
	l.Log("a")
	lines := l.Lines()
	lines[0] = "changed"
	assert.True(t, strings.HasSuffix(l.Lines()[0], "a"))
	assert.NoError(t, l.Close())
}
