package sage

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Logger is the interface host programs can supply to redirect println
// output away from stdout -- into a test buffer, a structured log sink,
// wherever embedding code wants it.
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

type stdoutLogger struct{}

func (stdoutLogger) Log(values ...any)     { fmt.Print(formatLogValues(values...)) }
func (stdoutLogger) LogLine(values ...any) { fmt.Println(formatLogValues(values...)) }

// StdoutLogger returns the default logger a new Interpreter starts with.
func StdoutLogger() Logger { return stdoutLogger{} }

type writerLogger struct{ w io.Writer }

func (l *writerLogger) Log(values ...any)     { fmt.Fprint(l.w, formatLogValues(values...)) }
func (l *writerLogger) LogLine(values ...any) { fmt.Fprintln(l.w, formatLogValues(values...)) }

// WriterLogger returns a logger that writes to w.
func WriterLogger(w io.Writer) Logger { return &writerLogger{w: w} }

// BufferedLogger captures output in memory, for embedding code that wants
// to inspect what a script printed rather than let it reach a terminal.
type BufferedLogger struct {
	mu    sync.Mutex
	lines []string
	buf   strings.Builder
}

// NewBufferedLogger returns an empty BufferedLogger.
func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (l *BufferedLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.WriteString(formatLogValues(values...))
}

func (l *BufferedLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := l.buf.String() + formatLogValues(values...)
	l.lines = append(l.lines, line)
	l.buf.Reset()
}

// String returns everything logged so far as one newline-joined string.
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := strings.Join(l.lines, "\n")
	if len(l.lines) > 0 {
		result += "\n"
	}
	return result + l.buf.String()
}

// Lines returns a copy of the completed log lines.
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// interpreterWriter adapts an Interpreter's current logger to io.Writer, so
// core builtins (prn, println) can write through it without needing to know
// about Logger at all. The indirection through the Interpreter, rather than
// capturing a Logger directly, lets SetLogger take effect retroactively on
// already-installed builtins.
type interpreterWriter struct{ interp *Interpreter }

func (w *interpreterWriter) Write(p []byte) (int, error) {
	w.interp.logger.Log(string(p))
	return len(p), nil
}

type nullLogger struct{}

func (nullLogger) Log(values ...any)     {}
func (nullLogger) LogLine(values ...any) {}

// NullLogger discards everything logged to it.
func NullLogger() Logger { return nullLogger{} }

func formatLogValues(values ...any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
