package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerAppendsToFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "blecmd.log")

	l, err := NewLogger(filename, false)
	require.NoError(t, err)
	l.Info("registered command", "name", "scan")
	l.Debug("hidden at info level")
	l.Close()

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "registered command")
	assert.Contains(t, string(data), "name=scan")
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestRotateReopensFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "blecmd.log")

	l, err := NewLogger(filename, true)
	require.NoError(t, err)
	defer l.Close()

	l.Info("before")
	require.NoError(t, os.Rename(filename, filename+".1"))
	require.NoError(t, l.Rotate())
	l.Info("after")

	rotated, err := os.ReadFile(filename + ".1")
	require.NoError(t, err)
	current, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(rotated), "before")
	assert.Contains(t, string(current), "after")
	assert.NotContains(t, string(current), "before")
}

func TestRotateWithoutFileIsNoop(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	assert.NoError(t, l.Rotate())
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Debug("first")
	l.SetDebug(true)
	l.Debug("second")

	out := buf.String()
	assert.False(t, strings.Contains(out, "first"))
	assert.True(t, strings.Contains(out, "second"))
}

func TestGetLoggerDefaultsToDiscard(t *testing.T) {
	SetLogger(nil)
	l := GetLogger()
	require.NotNil(t, l)
	l.Error("nobody listens")
}
