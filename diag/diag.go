// Package diag is the logger's line-oriented diagnostic stream: peripheral
// status at startup, one summary per cycle, fault reports. Lines fan out to
// every configured sink.
package diag

import (
	"fmt"
	"io"
)

// Logger writes prefixed lines to its sinks. A nil Logger discards.
type Logger struct {
	sinks []io.Writer
}

// New builds a Logger. With no sinks, lines fall back to the runtime
// console (USB CDC on device builds).
func New(sinks ...io.Writer) *Logger { return &Logger{sinks: sinks} }

// Info emits one informational line, space-separated like println.
func (l *Logger) Info(args ...any) { l.emit("Info:", args) }

// Error emits one error line.
func (l *Logger) Error(args ...any) { l.emit("Error:", args) }

func (l *Logger) emit(prefix string, args []any) {
	if l == nil {
		return
	}
	line := fmt.Sprintln(append([]any{prefix}, args...)...)
	if len(l.sinks) == 0 {
		print(line)
		return
	}
	for _, w := range l.sinks {
		_, _ = io.WriteString(w, line)
	}
}

// Console returns a sink writing through the runtime console. Device builds
// reach the USB CDC monitor; host builds reach stderr.
func Console() io.Writer { return consoleWriter{} }

type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	print(string(p))
	return len(p), nil
}
