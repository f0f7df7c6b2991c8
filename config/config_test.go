package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", `
debug = true
prompt = "ble> "
color = "never"

[log]
filename = "custom.log"

[help]
width = 120

[device]
scan_timeout = 3
default_password = "1234"

[[device.adapters]]
name = "hci0"
address = "00:1A:7D:DA:71:13"

[[device.simulated]]
mac = "C4:BE:84:11:22:33"
name = "Living room"
kind = "rgb"
supported = true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "ble> ", cfg.Prompt)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "custom.log", cfg.Log.Filename)
	assert.Equal(t, 120, cfg.Help.Width)
	assert.Equal(t, 3, cfg.Device.ScanTimeout)
	assert.Equal(t, "1234", cfg.Device.DefaultPassword)
	require.Len(t, cfg.Device.Adapters, 1)
	assert.Equal(t, "hci0", cfg.Device.Adapters[0].Name)
	require.Len(t, cfg.Device.Simulated, 1)
	assert.Equal(t, SimulatedDevice{MAC: "C4:BE:84:11:22:33", Name: "Living room", Kind: "rgb", Supported: true}, cfg.Device.Simulated[0])
	// untouched keys keep their defaults
	assert.Equal(t, 500, cfg.History.Limit)
}

func TestLoadConfigDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "broken toml", content: "debug = = true"},
		{name: "bad color", content: `color = "sometimes"`},
		{name: "narrow help", content: "[help]\nwidth = 40"},
		{name: "zero scan timeout", content: "[device]\nscan_timeout = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".toml", tt.content)
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestApplyCommandLineArgs(t *testing.T) {
	fs := pflag.NewFlagSet("blecmd", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--prompt", "> ", "--debug", "--help-width=90"}))

	args, err := ArgsFromFlags(fs)
	require.NoError(t, err)
	assert.True(t, args.PromptSpecified)
	assert.True(t, args.DebugSpecified)
	assert.True(t, args.HelpWidthSpecified)
	assert.False(t, args.LogFilenameSpecified)
	assert.False(t, args.ConfigSpecified)

	cfg := NewConfig()
	cfg.Log.Filename = "from-file.log"
	cfg.ApplyCommandLineArgs(args)

	assert.Equal(t, "> ", cfg.Prompt)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 90, cfg.Help.Width)
	// not given on the command line, so the file value wins
	assert.Equal(t, "from-file.log", cfg.Log.Filename)
}
