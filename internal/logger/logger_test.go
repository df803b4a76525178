package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerBeforeInitDiscards(t *testing.T) {
	l := NewLogger("nobody")
	assert.NotPanics(t, func() {
		l.Info("dropped")
		l.Error("dropped too")
	})
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	m, err := newManager(false, dir, nil)
	require.NoError(t, err)

	l := m.newLogger("server")
	l.Info("Listening on", ":5000")
	l.Error("Provider failed:", "boom")
	require.NoError(t, m.close())

	files, err := filepath.Glob(filepath.Join(dir, "roastbattle_log_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "server")
	assert.Contains(t, out, "Listening on :5000")
	assert.Contains(t, out, "Provider failed: boom")
}

func TestDebugConsole(t *testing.T) {
	view := tview.NewTextView().SetDynamicColors(true)
	m, err := newManager(true, "", view)
	require.NoError(t, err)

	m.newLogger("views").Warn("careful now")

	text := view.GetText(true)
	assert.Contains(t, text, "DEBUG (views): careful now")
}

func TestBadLogPath(t *testing.T) {
	_, err := newManager(false, filepath.Join(t.TempDir(), "missing", "dir"), nil)
	assert.Error(t, err)
}
