package console

import (
	"io"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
)

const defaultHelpWidth = 105

// Registry maps command names and aliases to commands and owns the
// aggregate completer. It has no internal locking: register commands
// before the shell starts reading, or from the reading goroutine.
type Registry struct {
	commands  map[string]*Command
	completer *Completer
	helpWidth int
	logger    *charmlog.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithHelpWidth sets the total width of the help table
func WithHelpWidth(width int) RegistryOption {
	return func(r *Registry) {
		if width > 0 {
			r.helpWidth = width
		}
	}
}

// WithRegistryLogger sets the logger used for registration diagnostics
func WithRegistryLogger(logger *charmlog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a registry holding the built-in help and exit commands
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		commands:  make(map[string]*Command),
		helpWidth: defaultHelpWidth,
		logger:    charmlog.New(io.Discard),
	}
	r.completer = newCompleter(r.resolve)
	for _, opt := range opts {
		opt(r)
	}

	for _, builtin := range []*Command{r.helpCommand(), exitCommand()} {
		if err := r.Register(builtin); err != nil {
			panic(err) // built-ins are valid by construction
		}
	}
	return r
}

// HelpWidth returns the total width of the help table
func (r *Registry) HelpWidth() int {
	return r.helpWidth
}

// Register adds a command. Lifecycle hooks are skipped with a debug log.
// An alias that is already a key keeps its existing mapping.
func (r *Registry) Register(e Entry) error {
	switch entry := e.(type) {
	case nil:
		return &ConfigurationError{Reason: "command is nil"}
	case *Lifecycle:
		r.logger.Debug("lifecycle hook cannot be registered as a command, skipped")
		return nil
	case *Command:
		if entry == nil {
			return &ConfigurationError{Reason: "command is nil"}
		}
		return r.register(entry)
	default:
		return &ConfigurationError{Reason: "unsupported entry type"}
	}
}

// RegisterAll registers commands in order and stops at the first error
func (r *Registry) RegisterAll(entries ...Entry) error {
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) register(cmd *Command) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return &ConfigurationError{Reason: "command name is blank"}
	}
	if strings.ContainsAny(cmd.Name, " \t") {
		return &ConfigurationError{Command: cmd.Name, Reason: "command name contains whitespace"}
	}
	if cmd.Execute == nil {
		return &ConfigurationError{Command: cmd.Name, Reason: "command has no handler"}
	}
	if existing, ok := r.commands[cmd.Name]; ok && existing.Name == cmd.Name {
		return &ConfigurationError{Command: cmd.Name, Reason: "already registered"}
	}

	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		if _, exists := r.commands[alias]; exists {
			r.logger.Debug("alias already registered, keeping existing mapping", "command", cmd.Name, "alias", alias)
			continue
		}
		r.commands[alias] = cmd
	}
	r.completer.add(newCompleterChain(cmd))
	r.logger.Debug("command registered", "command", cmd.Name, "aliases", cmd.Aliases)
	return nil
}

// Unregister removes the entry for key. Removing a primary name also
// removes the aliases still pointing at that command.
func (r *Registry) Unregister(key string) bool {
	cmd, ok := r.commands[key]
	if !ok {
		r.logger.Debug("command not registered, nothing to remove", "command", key)
		return false
	}

	delete(r.commands, key)
	if cmd.Name != key {
		return true
	}
	for alias, target := range r.commands {
		if target == cmd {
			delete(r.commands, alias)
		}
	}
	r.completer.remove(cmd)
	r.logger.Debug("command unregistered", "command", key)
	return true
}

// UnregisterCommand removes cmd by its primary name
func (r *Registry) UnregisterCommand(cmd *Command) bool {
	if cmd == nil {
		return false
	}
	if r.commands[cmd.Name] != cmd {
		r.logger.Debug("command not registered, nothing to remove", "command", cmd.Name)
		return false
	}
	return r.Unregister(cmd.Name)
}

// Commands returns a copy of the name and alias mapping
func (r *Registry) Commands() map[string]*Command {
	snapshot := make(map[string]*Command, len(r.commands))
	for k, v := range r.commands {
		snapshot[k] = v
	}
	return snapshot
}

// Lookup finds a command by name or alias
func (r *Registry) Lookup(key string) (*Command, bool) {
	cmd, ok := r.commands[key]
	return cmd, ok
}

// PrimaryCommands returns each registered command once, sorted by name
func (r *Registry) PrimaryCommands() []*Command {
	var cmds []*Command
	for key, cmd := range r.commands {
		if key == cmd.Name {
			cmds = append(cmds, cmd)
		}
	}
	slices.SortFunc(cmds, func(a, b *Command) int {
		return strings.Compare(a.Name, b.Name)
	})
	return cmds
}

// Completer returns the aggregate completer of every registered command
func (r *Registry) Completer() *Completer {
	return r.completer
}

func (r *Registry) resolve(key string) *Command {
	return r.commands[key]
}
