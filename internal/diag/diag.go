// Package diag carries structured diagnostic events for the engine's
// best-effort fallback paths. The engine never turns a malformed value
// into an error; it reports the fallback here instead so the failure
// model stays observable and testable.
package diag

import (
	"io"
	"log/slog"
	"os"
)

// Event kinds emitted by the engine.
const (
	KindBadClockValue    = "bad-clock-value"
	KindBadNumber        = "bad-number"
	KindDegenerateDelta  = "degenerate-delta"
	KindChainTailBlocked = "chain-tail-blocked"
	KindUnknownAnimation = "unknown-animation"
	KindUnsupportedPath  = "unsupported-path-command"
	KindMissingTarget    = "missing-target"
	KindPrunedAnimation  = "pruned-animation"
	KindNoTimeControl    = "no-time-control"
)

// Event describes one fallback: what kind of value misbehaved and the
// offending input, plus the animation it belongs to when known.
type Event struct {
	Kind        string
	AnimationID string
	Value       string
	Detail      string
}

// Sink receives diagnostic events. Implementations must be safe for
// use from the playback tick goroutine.
type Sink interface {
	Emit(e Event)
}

// Logger adapts a slog.Logger into a Sink.
type Logger struct {
	l *slog.Logger
}

// New creates the standard engine logger sink. It writes to stderr so
// serialized markup on stdout stays clean.
func New(level slog.Level) *Logger {
	return &Logger{l: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NewNop returns a sink that discards everything.
func NewNop() *Logger {
	return &Logger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Emit implements Sink.
func (s *Logger) Emit(e Event) {
	s.l.Warn("fallback",
		slog.String("kind", e.Kind),
		slog.String("animation", e.AnimationID),
		slog.String("value", e.Value),
		slog.String("detail", e.Detail),
	)
}

// Recorder is a Sink that keeps every event, for tests.
type Recorder struct {
	Events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Kinds returns the recorded event kinds in order.
func (r *Recorder) Kinds() []string {
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Kind
	}
	return out
}
