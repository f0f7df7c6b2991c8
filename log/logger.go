package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Logger is a file-backed structured logger.
// The shell owns the terminal, so log output never goes to stdout.
type Logger struct {
	*charmlog.Logger

	logFile  *os.File
	logMutex sync.Mutex
}

var (
	logger     *Logger
	loggerLock sync.Mutex
)

// GetLogger returns the process logger. When none has been set, a logger that
// discards everything is returned so callers never have to nil-check.
func GetLogger() *Logger {
	loggerLock.Lock()
	defer loggerLock.Unlock()
	if logger == nil {
		return Discard()
	}
	return logger
}

// SetLogger replaces the process logger, closing the previous one.
// Passing nil closes the current logger.
func SetLogger(l *Logger) {
	loggerLock.Lock()
	defer loggerLock.Unlock()
	if logger != nil && logger != l {
		logger.Close()
	}
	logger = l
}

// NewLogger creates a new logger that appends to the specified file
func NewLogger(filename string, debug bool) (*Logger, error) {
	logFile, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}

	l := New(logFile, debug)
	l.logFile = logFile
	return l, nil
}

// New creates a logger writing to w. Used by tests and by NewLogger.
func New(w io.Writer, debug bool) *Logger {
	level := charmlog.InfoLevel
	if debug {
		level = charmlog.DebugLevel
	}
	return &Logger{
		Logger: charmlog.NewWithOptions(w, charmlog.Options{
			Prefix:          "blecmd",
			ReportTimestamp: true,
			TimeFormat:      "2006/01/02 15:04:05.000000",
			Level:           level,
		}),
	}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return New(io.Discard, false)
}

// SetDebug switches between debug and info level
func (l *Logger) SetDebug(debug bool) {
	if debug {
		l.SetLevel(charmlog.DebugLevel)
	} else {
		l.SetLevel(charmlog.InfoLevel)
	}
}

func (l *Logger) Close() {
	l.logMutex.Lock()
	defer l.logMutex.Unlock()

	if l.logFile != nil {
		_ = l.logFile.Close()
		l.logFile = nil
	}
}

// Rotate closes and reopens the log file
func (l *Logger) Rotate() error {
	l.logMutex.Lock()
	defer l.logMutex.Unlock()

	if l.logFile == nil {
		return nil // No log file to rotate
	}

	currentLogPath := l.logFile.Name()
	_ = l.logFile.Close()

	logFile, err := os.OpenFile(currentLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		l.logFile = nil
		return fmt.Errorf("could not reopen log file: %w", err)
	}

	l.SetOutput(logFile)
	l.logFile = logFile

	return nil
}
