// Package diag provides sinks for shader diagnostics.
//
// Every sink implements shadercheck.Sink: it accepts a formatted message and
// emits it somewhere observable. Sinks never fail and never retry.
package diag

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// ColorMode selects whether Console emits ANSI styling.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return 0, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// WriterSink writes each message to an io.Writer, newline terminated.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// Writer returns a sink writing plain messages to w.
func Writer(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Report writes message followed by a newline. Write errors are dropped.
func (s *WriterSink) Report(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, withNewline(message))
}

// ConsoleSink writes messages to a terminal, styling the header line.
type ConsoleSink struct {
	mu  sync.Mutex
	w   io.Writer
	out *termenv.Output
}

// Console returns a sink that renders the "ERROR::..." header of each
// message in bold red when mode and the terminal allow it.
func Console(w io.Writer, mode ColorMode) *ConsoleSink {
	var opts []termenv.OutputOption
	switch mode {
	case ColorAlways:
		opts = append(opts, termenv.WithProfile(termenv.ANSI))
	case ColorNever:
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &ConsoleSink{w: w, out: termenv.NewOutput(w, opts...)}
}

// Report writes message with its first line styled.
func (s *ConsoleSink) Report(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	header, body, hasBody := strings.Cut(message, "\n")
	styled := s.out.String(header).Foreground(s.out.Color("1")).Bold().String()
	if hasBody {
		styled += "\n" + body
	}
	_, _ = io.WriteString(s.w, withNewline(styled))
}

// LoggerSink logs each message at error level.
type LoggerSink struct {
	l *slog.Logger
}

// Logger returns a sink that logs through l, or slog.Default() when l is nil.
func Logger(l *slog.Logger) *LoggerSink {
	if l == nil {
		l = slog.Default()
	}
	return &LoggerSink{l: l}
}

// Report logs message. The header line becomes the log message, the rest
// the "log" attribute.
func (s *LoggerSink) Report(message string) {
	header, body, _ := strings.Cut(message, "\n")
	s.l.Error(header, slog.String("log", strings.TrimRight(body, "\n")))
}

// Recorder keeps every message in memory. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Report records message.
func (r *Recorder) Report(message string) {
	r.mu.Lock()
	r.messages = append(r.messages, message)
	r.mu.Unlock()
}

// Messages returns a copy of the recorded messages in report order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Len returns the number of recorded messages.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// Reset drops all recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}

// Reporter is the single-method sink contract, repeated here so this
// package does not import shadercheck.
type Reporter interface {
	Report(message string)
}

type multi []Reporter

func (m multi) Report(message string) {
	for _, s := range m {
		s.Report(message)
	}
}

// Multi fans every message out to all sinks, in order. Nil sinks are skipped.
func Multi(sinks ...Reporter) Reporter {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type discard struct{}

func (discard) Report(string) {}

// Discard drops every message.
var Discard Reporter = discard{}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
