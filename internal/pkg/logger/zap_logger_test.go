package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.log")
	l := NewFileLogger(path)

	l.Info("NoteStore", "note saved", map[string]interface{}{"model_hash": "abc"})
	l.Debug("NoteStore", "below file level", nil)
	l.Error("NoteStore", "statement failed", map[string]interface{}{"error": "boom"})
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"module":"NoteStore"`)
	assert.Contains(t, lines[0], `"model_hash":"abc"`)
	assert.Contains(t, lines[1], `"level":"ERROR"`)
	assert.Contains(t, lines[1], `"error_ref":"boom"`)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Warn("x", "y", nil)
		_ = l.Sync()
	})
}
