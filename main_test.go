package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"blecmd/config"
	"blecmd/console"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineScript struct {
	lines []string
	err   error
	out   *bytes.Buffer
}

func (s *lineScript) ReadLine(string) (console.ReadResult, error) {
	if len(s.lines) == 0 {
		if s.err != nil {
			return console.ReadResult{}, s.err
		}
		return console.ReadResult{Kind: console.ReadEndOfInput}, nil
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return console.ReadResult{Kind: console.ReadLine, Text: line}, nil
}

func (s *lineScript) Stdout() io.Writer { return s.out }
func (s *lineScript) Close() error      { return nil }

func testConfig(t *testing.T) *config.Config {
	cfg := config.NewConfig()
	cfg.Color = "never"
	cfg.History.File = filepath.Join(t.TempDir(), "history")
	cfg.Device.Adapters = []config.SimulatedAdapter{{Name: "hci0", Address: "00:1A:7D:DA:71:13"}}
	cfg.Device.Simulated = []config.SimulatedDevice{
		{MAC: "C4:BE:84:11:22:33", Name: "Desk", Kind: "rgb", Supported: true},
	}
	return cfg
}

func runScript(t *testing.T, cfg *config.Config, script *lineScript) (string, error) {
	t.Helper()
	script.out = &bytes.Buffer{}
	err := run(context.Background(), cfg, io.NopCloser(strings.NewReader("")), &bytes.Buffer{}, &bytes.Buffer{},
		console.WithTerminalFactory(func(console.TerminalConfig) (console.LineReader, error) {
			return script, nil
		}))
	return script.out.String(), err
}

func TestRunSession(t *testing.T) {
	out, err := runScript(t, testConfig(t), &lineScript{lines: []string{
		"help exit",
		"showDevices",
		"exit",
		"help",
	}})
	require.NoError(t, err)

	assert.Contains(t, out, "Using hci0 [00:1A:7D:DA:71:13] as bluetooth adapter")
	assert.Contains(t, out, "No suitable devices found.")
	assert.Contains(t, out, "Closed bluetooth session")
	assert.NotContains(t, out, "Supported Commands:", "lines after exit are not read")
}

func TestRunWithoutAdapter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Device.Adapters = nil

	out, err := runScript(t, cfg, &lineScript{})
	require.Error(t, err)
	assert.Contains(t, out, "No bluetooth adapter installed")
}

func TestRunReaderFailure(t *testing.T) {
	broken := errors.New("terminal gone")
	_, err := runScript(t, testConfig(t), &lineScript{err: broken})

	var fatal *console.FatalSessionError
	require.ErrorAs(t, err, &fatal)
	assert.ErrorIs(t, err, broken)
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"config", "debug", "log", "prompt", "history", "color", "help-width"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
