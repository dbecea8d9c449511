// Package diag carries warning-level diagnostics out of the monitoring
// core without binding it to a global logger. Callers inject an
// Observer and decide whether warnings are logged, collected or
// dropped.
package diag

import "log/slog"

// Observer receives warning diagnostics as a message plus slog-style
// key/value pairs.
type Observer interface {
	Warn(msg string, args ...any)
}

type slogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver forwards warnings to the given slog logger. A nil
// logger means slog.Default().
func NewSlogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogObserver{logger: logger}
}

func (o *slogObserver) Warn(msg string, args ...any) {
	o.logger.Warn(msg, args...)
}

type discardObserver struct{}

// Discard drops all diagnostics.
func Discard() Observer { return discardObserver{} }

func (discardObserver) Warn(string, ...any) {}

// Recorder collects warnings in memory, mainly for tests and for
// callers that surface diagnostics out of band.
type Recorder struct {
	Warnings []string
}

func (r *Recorder) Warn(msg string, args ...any) {
	r.Warnings = append(r.Warnings, msg)
}

// Len reports the number of recorded warnings.
func (r *Recorder) Len() int { return len(r.Warnings) }
