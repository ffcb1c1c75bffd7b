// Package logging provides the leveled, timestamped logger used across
// forestctl. Lines are written as `[YYYY-MM-DD HH:MM:SS] [LEVEL] message`;
// DEBUG, INFO, and SUCCESS go to stdout, WARN and ERROR to stderr, and every
// line is mirrored to an optional append-only file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/forestctl/forestctl/internal/messages"
)

// Level identifies a log severity.
type Level string

const (
	LevelDebug   Level = "DEBUG"
	LevelInfo    Level = "INFO"
	LevelSuccess Level = "SUCCESS"
	LevelWarn    Level = "WARN"
	LevelError   Level = "ERROR"
)

const timestampLayout = "2006-01-02 15:04:05"

var levelColors = map[Level]*color.Color{
	LevelSuccess: color.New(color.FgGreen),
	LevelWarn:    color.New(color.FgYellow),
	LevelError:   color.New(color.FgRed),
}

// Options controls logger construction.
type Options struct {
	// Verbose enables DEBUG output on the console. File sinks always
	// receive DEBUG lines.
	Verbose bool
	// FilePath, when non-empty, appends every line to the named file.
	FilePath string
}

// Logger writes leveled, timestamped lines to injected writers.
// Secret values must never be passed through the logger.
type Logger struct {
	mu      sync.Mutex
	stdout  io.Writer
	stderr  io.Writer
	file    io.WriteCloser
	verbose bool
	runID   string
	now     func() time.Time
}

// New builds a Logger writing to stdout/stderr, opening the file sink when
// opts.FilePath is set. The returned logger carries a short run ID for
// correlating console output with the file log.
func New(stdout, stderr io.Writer, opts Options) (*Logger, error) {
	l := &Logger{
		stdout:  stdout,
		stderr:  stderr,
		verbose: opts.Verbose,
		runID:   uuid.NewString()[:8],
		now:     time.Now,
	}
	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf(messages.LogOpenFileFmt, opts.FilePath, err)
		}
		l.file = f
	}
	l.Debugf("run %s started", l.runID)
	return l, nil
}

// RunID returns the short correlation ID for this logger.
func (l *Logger) RunID() string {
	return l.runID
}

// Close releases the file sink, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) Debugf(format string, args ...any)   { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)    { l.logf(LevelInfo, format, args...) }
func (l *Logger) Successf(format string, args ...any) { l.logf(LevelSuccess, format, args...) }
func (l *Logger) Warnf(format string, args ...any)    { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any)   { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := l.now().Format(timestampLayout)
	message := fmt.Sprintf(format, args...)

	if l.file != nil {
		_, _ = fmt.Fprintf(l.file, "[%s] [%s] %s\n", timestamp, level, message)
	}

	if level == LevelDebug && !l.verbose {
		return
	}

	label := string(level)
	if c, ok := levelColors[level]; ok {
		label = c.Sprint(label)
	}
	out := l.stdout
	if level == LevelWarn || level == LevelError {
		out = l.stderr
	}
	_, _ = fmt.Fprintf(out, "[%s] [%s] %s\n", timestamp, label, message)
}
