package console

import (
	"errors"
	"io"
	"os"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// ReadKind tells what a read produced
type ReadKind int

const (
	// ReadLine carries one line of input
	ReadLine ReadKind = iota
	// ReadEndOfInput means the input stream is exhausted
	ReadEndOfInput
	// ReadInterrupted means the operator cancelled input
	ReadInterrupted
)

// ReadResult is the outcome of one LineReader.ReadLine call
type ReadResult struct {
	Kind ReadKind
	Text string
}

// LineReader is the terminal resource owned by a Shell
type LineReader interface {
	// ReadLine shows prompt and blocks until a line, end of input or an interrupt.
	// Errors are reserved for failures of the terminal itself.
	ReadLine(prompt string) (ReadResult, error)
	// Stdout is where command output is written
	Stdout() io.Writer
	Close() error
}

// TerminalConfig carries what a TerminalFactory needs to build a LineReader
type TerminalConfig struct {
	Stdin        io.ReadCloser
	Stdout       io.Writer
	Stderr       io.Writer
	HistoryFile  string
	HistoryLimit int
	Completer    readline.AutoCompleter
}

// TerminalFactory creates the LineReader of a Shell
type TerminalFactory func(cfg TerminalConfig) (LineReader, error)

// NewReadlineTerminal is the default TerminalFactory, backed by chzyer/readline
func NewReadlineTerminal(cfg TerminalConfig) (LineReader, error) {
	rlConfig := &readline.Config{
		HistoryFile:     cfg.HistoryFile,
		HistoryLimit:    cfg.HistoryLimit,
		AutoComplete:    cfg.Completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           cfg.Stdin,
		Stdout:          cfg.Stdout,
		Stderr:          cfg.Stderr,
		FuncGetWidth: func() int {
			return terminalWidth(cfg.Stdout)
		},
	}
	if !isTerminal(cfg.Stdin) {
		rlConfig.FuncIsTerminal = func() bool { return false }
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return nil, err
	}
	return &readlineTerminal{rl: rl}, nil
}

type readlineTerminal struct {
	rl *readline.Instance
}

func (t *readlineTerminal) ReadLine(prompt string) (ReadResult, error) {
	t.rl.SetPrompt(prompt)
	line, err := t.rl.Readline()
	switch {
	case err == nil:
		return ReadResult{Kind: ReadLine, Text: line}, nil
	case errors.Is(err, readline.ErrInterrupt):
		return ReadResult{Kind: ReadInterrupted}, nil
	case errors.Is(err, io.EOF):
		return ReadResult{Kind: ReadEndOfInput}, nil
	default:
		return ReadResult{}, err
	}
}

func (t *readlineTerminal) Stdout() io.Writer {
	return t.rl.Stdout()
}

func (t *readlineTerminal) Close() error {
	return t.rl.Close()
}

// isTerminal reports whether v is an *os.File attached to a terminal
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of w, or 80 when it is not a terminal
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}
