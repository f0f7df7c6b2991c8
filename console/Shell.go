package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"blecmd/console/format"

	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// DefaultPrompt is shown when Start is given an empty prompt
const DefaultPrompt = "bleCmd > "

// releaseTimeout bounds how long Close waits for the terminal to be released
const releaseTimeout = 2 * time.Second

// State is the lifecycle state of a Shell
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Shell reads command lines from a terminal and dispatches them to a Registry.
// A Shell is driven from a single goroutine.
type Shell struct {
	registry *Registry
	in       io.ReadCloser
	out      io.Writer
	errOut   io.Writer

	factory      TerminalFactory
	historyFile  string
	historyLimit int
	colorMode    format.ColorMode
	logger       *charmlog.Logger

	reader      LineReader
	closeOnce   *sync.Once
	output      io.Writer
	formatter   *format.Formatter
	deinit      *Lifecycle
	state       State
	dispatching bool
}

// ShellOption configures a Shell
type ShellOption func(*Shell)

// WithTerminalFactory replaces the readline terminal, mainly for tests
func WithTerminalFactory(factory TerminalFactory) ShellOption {
	return func(s *Shell) {
		if factory != nil {
			s.factory = factory
		}
	}
}

// WithHistoryFile sets the history file of the line editor
func WithHistoryFile(path string) ShellOption {
	return func(s *Shell) {
		s.historyFile = path
	}
}

// WithHistoryLimit sets the number of history entries kept by the line editor
func WithHistoryLimit(limit int) ShellOption {
	return func(s *Shell) {
		s.historyLimit = limit
	}
}

// WithColor selects when output is styled
func WithColor(mode format.ColorMode) ShellOption {
	return func(s *Shell) {
		s.colorMode = mode
	}
}

// WithLogger sets the logger of the shell
func WithLogger(logger *charmlog.Logger) ShellOption {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewShell creates a shell bound to the given streams. errOut defaults to out.
func NewShell(registry *Registry, in io.ReadCloser, out, errOut io.Writer, opts ...ShellOption) (*Shell, error) {
	if registry == nil {
		return nil, errors.New("shell needs a command registry")
	}
	if in == nil || out == nil {
		return nil, errors.New("shell needs input and output streams")
	}
	if errOut == nil {
		errOut = out
	}

	s := &Shell{
		registry:     registry,
		in:           in,
		out:          out,
		errOut:       errOut,
		factory:      NewReadlineTerminal,
		historyLimit: 500,
		colorMode:    format.ColorAuto,
		logger:       charmlog.New(io.Discard),
		state:        StateUninitialized,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the lifecycle state
func (s *Shell) State() State {
	return s.state
}

// Initialize opens the terminal, stores deinit for Close and runs init.
// When init fails the terminal is released and the shell stays uninitialized.
func (s *Shell) Initialize(ctx context.Context, init, deinit *Lifecycle) error {
	if s.state != StateUninitialized {
		return ErrAlreadyInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := s.factory(TerminalConfig{
		Stdin:        s.in,
		Stdout:       s.out,
		Stderr:       s.errOut,
		HistoryFile:  historyFilePath(s.historyFile, s.logger),
		HistoryLimit: s.historyLimit,
		Completer:    s.registry.Completer(),
	})
	if err != nil {
		return fmt.Errorf("could not open terminal: %w", err)
	}

	s.reader = reader
	s.closeOnce = new(sync.Once)
	s.output = reader.Stdout()
	if s.output == nil {
		s.output = s.out
	}
	s.formatter = s.newFormatter()

	if init != nil && init.Execute != nil {
		lines, err := init.Execute(s.context(ctx))
		s.print(lines)
		if err != nil {
			s.closeReader()
			s.reader = nil
			return fmt.Errorf("initialize hook failed: %w", err)
		}
	}

	s.deinit = deinit
	s.state = StateReady
	s.logger.Debug("shell initialized")
	return nil
}

func (s *Shell) newFormatter() *format.Formatter {
	switch s.colorMode {
	case format.ColorNever:
		return format.Plain()
	case format.ColorAlways:
		profile := termenv.NewOutput(s.out).EnvColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI
		}
		return format.ForTerminal(s.output, profile)
	default:
		if !isTerminal(s.out) {
			return format.Plain()
		}
		return format.ForTerminal(s.output, termenv.NewOutput(s.out).EnvColorProfile())
	}
}

// RegisterCommand adds a command to the registry of an initialized shell.
// It fails with ErrBusy when called from a running handler.
func (s *Shell) RegisterCommand(e Entry) error {
	if s.state == StateUninitialized || s.state == StateClosed {
		return ErrNotInitialized
	}
	if s.dispatching {
		return ErrBusy
	}
	return s.registry.Register(e)
}

// Start reads and dispatches lines until a termination signal or a failure.
// It returns ErrEndOfInput, ErrInterrupted or ErrExit for a normal end,
// the context error on cancellation and a *FatalSessionError otherwise.
func (s *Shell) Start(ctx context.Context, prompt string) error {
	switch s.state {
	case StateUninitialized, StateClosed:
		return ErrNotInitialized
	case StateRunning:
		return ErrBusy
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}

	s.state = StateRunning
	defer func() {
		if s.state == StateRunning {
			s.state = StateReady
		}
	}()

	// a blocked read returns once the input stream and the terminal are closed
	stop := context.AfterFunc(ctx, s.cancelRead)
	defer stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := s.reader.ReadLine(prompt)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.logger.Error("reading input failed", "err", err)
			return &FatalSessionError{Err: err}
		}

		switch result.Kind {
		case ReadEndOfInput:
			s.logger.Debug("end of input")
			return ErrEndOfInput
		case ReadInterrupted:
			s.logger.Debug("interrupted by user")
			return ErrInterrupted
		}

		if err := s.dispatch(ctx, result.Text); err != nil {
			if IsTermination(err) {
				s.logger.Debug("session terminated", "reason", err)
				return err
			}
			s.logger.Error("command failed", "line", result.Text, "err", err)
			return &FatalSessionError{Line: strings.TrimSpace(result.Text), Err: err}
		}
	}
}

// dispatch runs one input line. Validation problems are printed, not returned.
func (s *Shell) dispatch(ctx context.Context, line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}

	name, args := tokens[0], tokens[1:]
	cmd, ok := s.registry.Lookup(name)
	if !ok {
		s.print([]string{"Unknown command: " + name})
		return nil
	}

	if required := cmd.RequiredArgs(); len(args) < len(required) {
		missing := make([]string, 0, len(required)-len(args))
		for _, a := range required[len(args):] {
			missing = append(missing, a.Name)
		}
		s.print(s.formatter.Errorf("Missing required arguments: %s", strings.Join(missing, ", ")))
		s.print([]string{"Usage: " + cmd.Usage()})
		return nil
	}

	s.logger.Debug("dispatching command", "command", cmd.Name, "args", args)
	lines, err := s.execute(ctx, cmd, args)
	s.print(lines)
	return err
}

// execute runs the handler of cmd. A panic is turned into an error.
func (s *Shell) execute(ctx context.Context, cmd *Command, args []string) (lines []string, err error) {
	s.dispatching = true
	defer func() {
		s.dispatching = false
		if r := recover(); r != nil {
			s.logger.Error("command panicked", "command", cmd.Name, "panic", r)
			err = fmt.Errorf("command %s panicked: %v", cmd.Name, r)
		}
	}()
	return cmd.Execute(s.context(ctx), args)
}

// Close runs the deinitialize hook and releases the terminal.
// The terminal is released even when the hook fails. Close is idempotent.
func (s *Shell) Close() error {
	if s.state == StateClosed {
		return nil
	}

	var hookErr error
	if s.state != StateUninitialized && s.deinit != nil && s.deinit.Execute != nil {
		lines, err := s.deinit.Execute(s.context(context.Background()))
		s.print(lines)
		if err != nil {
			s.logger.Error("deinitialize hook failed", "err", err)
			hookErr = fmt.Errorf("deinitialize hook failed: %w", err)
		}
	}

	if s.reader != nil {
		s.releaseReader()
	}
	s.state = StateClosed
	s.logger.Debug("shell closed")
	return hookErr
}

// Run starts the shell and closes it when the session ends.
// Termination signals are returned as they are; a Close failure is returned
// only when the session itself ended without error.
func (s *Shell) Run(ctx context.Context, prompt string) (err error) {
	defer func() {
		if closeErr := s.Close(); err == nil {
			err = closeErr
		}
	}()
	return s.Start(ctx, prompt)
}

// cancelRead unblocks a pending read. readline keeps reading the
// underlying stream until it is closed.
func (s *Shell) cancelRead() {
	if err := s.in.Close(); err != nil {
		s.logger.Debug("closing input failed", "err", err)
	}
	s.closeReader()
}

// releaseReader closes the terminal, waiting at most releaseTimeout
// for a release already in progress.
func (s *Shell) releaseReader() {
	done := make(chan struct{})
	go func() {
		s.closeReader()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(releaseTimeout):
		s.logger.Warn("terminal release timed out", "timeout", releaseTimeout)
	}
}

func (s *Shell) closeReader() {
	if s.closeOnce == nil {
		return
	}
	reader := s.reader
	s.closeOnce.Do(func() {
		if err := reader.Close(); err != nil {
			s.logger.Warn("closing terminal failed", "err", err)
		}
	})
}

func (s *Shell) context(ctx context.Context) *Context {
	return &Context{
		Context:   ctx,
		Formatter: s.formatter,
		Out:       s.output,
		Logger:    s.logger,
		Width:     s.registry.HelpWidth(),
	}
}

func (s *Shell) print(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(s.output, line)
	}
}
