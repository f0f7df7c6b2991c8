package console

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx *Context, args []string) ([]string, error) {
	return nil, nil
}

func runCommand(t *testing.T, r *Registry, key string, args ...string) []string {
	t.Helper()
	cmd, ok := r.Lookup(key)
	require.True(t, ok, "command %s", key)
	lines, err := cmd.Execute(NewContext(context.Background(), nil), args)
	require.NoError(t, err)
	return lines
}

func TestNewRegistryHasBuiltins(t *testing.T) {
	r := NewRegistry()
	commands := r.Commands()

	for _, key := range []string{"help", "h", "?", "man"} {
		assert.Equal(t, "help", commands[key].Name, key)
	}
	for _, key := range []string{"exit", "quit"} {
		assert.Equal(t, "exit", commands[key].Name, key)
	}
	assert.Len(t, commands, 6)
}

func TestRegisterErrors(t *testing.T) {
	var nilCommand *Command

	tests := []struct {
		name  string
		entry Entry
	}{
		{name: "nil entry", entry: nil},
		{name: "nil command", entry: nilCommand},
		{name: "blank name", entry: &Command{Name: "  ", Execute: noop}},
		{name: "no handler", entry: &Command{Name: "scan"}},
		{name: "builtin name", entry: &Command{Name: "help", Execute: noop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Register(tt.entry)
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	r := NewRegistry()
	first := &Command{Name: "scan", Execute: noop}
	second := &Command{Name: "scan", Aliases: []string{"s"}, Execute: noop}

	require.NoError(t, r.Register(first))
	err := r.Register(second)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "scan", cfgErr.Command)

	commands := r.Commands()
	assert.Same(t, first, commands["scan"])
	assert.NotContains(t, commands, "s")
	assert.Len(t, r.Completer().chains, 3)
}

func TestRegisterAliasCollisionKeepsFirst(t *testing.T) {
	r := NewRegistry()
	first := &Command{Name: "showDevices", Aliases: []string{"ls"}, Execute: noop}
	second := &Command{Name: "listAdapters", Aliases: []string{"ls", "la", "h"}, Execute: noop}

	require.NoError(t, r.Register(first))
	require.NoError(t, r.Register(second))

	commands := r.Commands()
	assert.Same(t, first, commands["ls"])
	assert.Same(t, second, commands["la"])
	assert.Equal(t, "help", commands["h"].Name)
}

func TestRegisterLifecycleIsSkipped(t *testing.T) {
	r := NewRegistry()
	before := r.Commands()

	assert.NoError(t, r.Register(&Lifecycle{Execute: func(ctx *Context) ([]string, error) { return nil, nil }}))
	assert.Equal(t, before, r.Commands())
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	cmd := &Command{Name: "showDevices", Aliases: []string{"ls", "devices"}, Execute: noop}
	require.NoError(t, r.Register(cmd))

	// an alias goes alone
	assert.True(t, r.Unregister("devices"))
	_, ok := r.Lookup("devices")
	assert.False(t, ok)
	_, ok = r.Lookup("ls")
	assert.True(t, ok)

	// the primary name takes the remaining aliases along
	assert.True(t, r.Unregister("showDevices"))
	_, ok = r.Lookup("ls")
	assert.False(t, ok)

	assert.False(t, r.Unregister("showDevices"))
	assert.False(t, r.UnregisterCommand(cmd))
	assert.False(t, r.UnregisterCommand(nil))
}

func TestUnregisterBuiltin(t *testing.T) {
	r := NewRegistry()
	exit, _ := r.Lookup("exit")

	assert.True(t, r.UnregisterCommand(exit))
	assert.Len(t, r.Commands(), 4)
}

func TestCommandsIsSnapshot(t *testing.T) {
	r := NewRegistry()
	snapshot := r.Commands()
	delete(snapshot, "help")
	snapshot["bogus"] = &Command{Name: "bogus"}

	_, ok := r.Lookup("help")
	assert.True(t, ok)
	_, ok = r.Lookup("bogus")
	assert.False(t, ok)
}

func TestHelpTable(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Command{
		Name:        "greet",
		Description: "Say hello",
		Args:        []ArgSpec{{Name: "name", Required: true}, {Name: "greeting"}},
		Execute:     noop,
	}))

	lines := runCommand(t, r, "help")

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "", lines[0])
	assert.Equal(t, "Supported Commands:", lines[1])
	assert.Equal(t, strings.Repeat("=", 105), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Command"))
	assert.Equal(t, strings.Repeat("-", 105), lines[4])
	assert.Equal(t, "Use help [command] to get additional help for each command", lines[len(lines)-1])

	rows := map[string]string{}
	for _, line := range lines[5 : len(lines)-1] {
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}
		name := strings.Fields(line)[0]
		assert.NotContains(t, rows, name, "one row per command")
		rows[name] = line
	}
	assert.Len(t, rows, 3)
	for _, alias := range []string{"h", "?", "man", "quit"} {
		assert.NotContains(t, rows, alias)
	}

	assert.Contains(t, rows["help"], "[h, ?, man]")
	assert.Contains(t, rows["exit"], "[quit]")
	assert.Contains(t, rows["greet"], "name, [greeting]")
	assert.Contains(t, rows["greet"], "Say hello")

	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 105, line)
	}
}

func TestHelpRowsSortedByName(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha"} {
		require.NoError(t, r.Register(&Command{Name: name, Execute: noop}))
	}

	var names []string
	for _, cmd := range r.PrimaryCommands() {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"alpha", "exit", "help", "zeta"}, names)
}

func TestHelpWrapsLongDescription(t *testing.T) {
	r := NewRegistry()
	description := strings.Repeat("word ", 20)
	require.NoError(t, r.Register(&Command{Name: "long", Description: description, Execute: noop}))

	lines := runCommand(t, r, "help")
	var continuation int
	for _, line := range lines {
		if strings.HasPrefix(line, strings.Repeat(" ", 67)+"word") {
			continuation++
		}
	}
	assert.Greater(t, continuation, 0)
}

func TestHelpKeepsLongNamesWhole(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Command{Name: "setDefaultDevicePassword", Description: "Set the default password", Execute: noop}))

	lines := runCommand(t, r, "help")
	var row string
	for _, line := range lines {
		if strings.HasPrefix(line, "setDefault") {
			row = line
		}
	}
	require.NotEmpty(t, row)
	assert.True(t, strings.HasPrefix(row, "setDefaultDevicePassword "), row)
	assert.Contains(t, row, "Set the default password")
	for _, line := range lines {
		assert.NotEqual(t, "word", strings.TrimSpace(line))
	}
}

func TestHelpListsOnlyReachableAliases(t *testing.T) {
	r := NewRegistry()
	first := &Command{Name: "showDevices", Aliases: []string{"ls"}, Execute: noop}
	second := &Command{Name: "listAdapters", Aliases: []string{"ls", "la", "h", "x"}, Execute: noop}
	require.NoError(t, r.Register(first))
	require.NoError(t, r.Register(second))
	require.NoError(t, r.Register(&Command{Name: "x", Execute: noop}))

	rows := map[string]string{}
	for _, line := range runCommand(t, r, "help") {
		if fields := strings.Fields(line); len(fields) > 0 {
			rows[fields[0]] = line
		}
	}
	assert.Contains(t, rows["showDevices"], "[ls]")
	assert.Contains(t, rows["listAdapters"], "[la]")
	assert.NotContains(t, rows["listAdapters"], "ls")
	assert.NotContains(t, rows["listAdapters"], "x]")
	assert.Contains(t, rows["help"], "[h, ?, man]")
}

func TestHelpForCommand(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Command{
		Name:    "greet",
		Aliases: []string{"hi"},
		Execute: noop,
		Help: func(ctx *Context) []string {
			return []string{"greet name", "Greets somebody"}
		},
	}))
	require.NoError(t, r.Register(&Command{Name: "bare", Execute: noop}))

	assert.Equal(t, []string{"greet name", "Greets somebody"}, runCommand(t, r, "help", "greet"))
	assert.Equal(t, runCommand(t, r, "help", "greet"), runCommand(t, r, "man", "hi"))
	assert.Equal(t, []string{"No additional help available."}, runCommand(t, r, "?", "bare"))
}

func TestHelpForUnknownCommand(t *testing.T) {
	r := NewRegistry()

	lines := runCommand(t, r, "help", "nope")
	require.Greater(t, len(lines), 3)
	assert.Equal(t, []string{"", "Unknown command nope", ""}, lines[:3])
	assert.Equal(t, "Supported Commands:", lines[3])
}

func TestHelpWidth(t *testing.T) {
	r := NewRegistry(WithHelpWidth(120))
	lines := runCommand(t, r, "help")
	assert.Equal(t, strings.Repeat("=", 120), lines[2])
}

func TestExitIgnoresArguments(t *testing.T) {
	r := NewRegistry()
	for _, key := range []string{"exit", "quit"} {
		for _, args := range [][]string{nil, {"now", "please"}} {
			cmd, _ := r.Lookup(key)
			_, err := cmd.Execute(NewContext(context.Background(), nil), args)
			assert.ErrorIs(t, err, ErrExit)
			assert.True(t, IsTermination(err))
		}
	}
}

func TestCommandDefaults(t *testing.T) {
	cmd := &Command{Name: "x", Args: []ArgSpec{{Name: "a", Required: true}, {Name: "b"}, {Name: "c", Required: true}}}

	assert.Equal(t, "No description available", cmd.GetDescription())
	assert.Equal(t, GroupGeneral, cmd.GetGroup())
	assert.Equal(t, "x a [b] c", cmd.Usage())
	required := cmd.RequiredArgs()
	require.Len(t, required, 2)
	assert.Equal(t, "c", required[1].Name)
}
