package console

import (
	"context"
	"io"
	"strings"
	"sync"

	"blecmd/console/format"

	"github.com/c-bata/go-prompt"
	charmlog "github.com/charmbracelet/log"
)

const (
	// GroupGeneral is the group of commands that do not name one
	GroupGeneral = "General"

	defaultDescription = "No description available"
	defaultHelp        = "No additional help available."
)

// Context is handed to every handler
type Context struct {
	context.Context

	// Formatter styles output lines; it is plain when no terminal is bound
	Formatter *format.Formatter
	// Out receives output that must appear before the handler returns
	Out    io.Writer
	Logger *charmlog.Logger
	// Width is the total width available for tables
	Width int
}

// NewContext returns a Context with plain output, for use outside a shell
func NewContext(ctx context.Context, out io.Writer) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	return &Context{
		Context:   ctx,
		Formatter: format.Plain(),
		Out:       out,
		Logger:    charmlog.New(io.Discard),
		Width:     defaultHelpWidth,
	}
}

// Entry is implemented by *Command and *Lifecycle
type Entry interface {
	entry()
}

// Command is a named command invoked from the input line
type Command struct {
	Name        string
	Aliases     []string
	Description string // "No description available" when empty
	Group       string // GroupGeneral when empty
	Args        []ArgSpec

	// Execute runs the command. Returned lines are printed in order.
	// A validation problem belongs in the returned lines; a returned error ends the session.
	Execute func(ctx *Context, args []string) ([]string, error)

	// Help returns the extended help shown by "help <name>"
	Help func(ctx *Context) []string
}

func (*Command) entry() {}

// Lifecycle is a nameless hook run once when a session starts or closes
type Lifecycle struct {
	Execute func(ctx *Context) ([]string, error)
}

func (*Lifecycle) entry() {}

// GetDescription returns the description or its default
func (c *Command) GetDescription() string {
	if strings.TrimSpace(c.Description) == "" {
		return defaultDescription
	}
	return c.Description
}

// GetGroup returns the group or GroupGeneral
func (c *Command) GetGroup() string {
	if strings.TrimSpace(c.Group) == "" {
		return GroupGeneral
	}
	return c.Group
}

// ExtendedHelp returns the extended help lines or the default notice
func (c *Command) ExtendedHelp(ctx *Context) []string {
	if c.Help == nil {
		return []string{defaultHelp}
	}
	return c.Help(ctx)
}

// RequiredArgs returns the specs marked as required, in order
func (c *Command) RequiredArgs() []ArgSpec {
	var required []ArgSpec
	for _, a := range c.Args {
		if a.Required {
			required = append(required, a)
		}
	}
	return required
}

// Usage returns the command name followed by its argument signature
func (c *Command) Usage() string {
	parts := []string{c.Name}
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// ArgSpec describes one positional argument
type ArgSpec struct {
	Name     string
	Required bool
	// Source provides completion candidates; nil means free text
	Source CandidateSource
}

// String renders required names bare and optional names in brackets
func (a ArgSpec) String() string {
	if a.Required {
		return a.Name
	}
	return "[" + a.Name + "]"
}

// Candidates returns the completion candidates for this argument
func (a ArgSpec) Candidates() []prompt.Suggest {
	if a.Source == nil {
		return nil
	}
	return a.Source.Candidates()
}

// CandidateSource produces completion candidates.
// It is implemented by StaticList, EveryTime and CachedOnce.
type CandidateSource interface {
	Candidates() []prompt.Suggest
}

// StaticList is a fixed set of candidates
type StaticList []prompt.Suggest

// Values creates a StaticList from plain strings
func Values(values ...string) StaticList {
	list := make(StaticList, 0, len(values))
	for _, v := range values {
		list = append(list, prompt.Suggest{Text: v})
	}
	return list
}

func (l StaticList) Candidates() []prompt.Suggest {
	return l
}

// EveryTime calls its generator on every completion request
type EveryTime func() []prompt.Suggest

func (f EveryTime) Candidates() []prompt.Suggest {
	if f == nil {
		return nil
	}
	return f()
}

// CachedOnce calls its generator on the first completion request
// and returns that result from then on
type CachedOnce struct {
	generate func() []prompt.Suggest

	once  sync.Once
	cache []prompt.Suggest
}

// NewCachedOnce creates a source whose generator runs at most once
func NewCachedOnce(generate func() []prompt.Suggest) *CachedOnce {
	return &CachedOnce{generate: generate}
}

func (c *CachedOnce) Candidates() []prompt.Suggest {
	c.once.Do(func() {
		if c.generate != nil {
			c.cache = c.generate()
		}
	})
	return c.cache
}
