package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Progress is one update emitted by the walker after each examined entry.
type Progress struct {
	Message   string
	Increment float64 // percentage points
	Scanned   int
	Total     int
}

// ProgressReporter receives progress updates inline with the traversal.
type ProgressReporter interface {
	Report(p Progress) error
}

// ProgressFunc adapts a function to ProgressReporter.
type ProgressFunc func(p Progress) error

func (f ProgressFunc) Report(p Progress) error { return f(p) }

// reportProgress delivers p on a best-effort basis: errors and panics from the
// reporter are logged and dropped.
func reportProgress(r ProgressReporter, p Progress, logger *zap.Logger) {
	if r == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.Debug("Progress reporter panicked", zap.Any("panic", rec))
		}
	}()
	if err := r.Report(p); err != nil {
		logger.Debug("Progress reporter failed", zap.Error(err))
	}
}

// TerminalProgress renders a single updating status line.
type TerminalProgress struct {
	w       io.Writer
	percent float64
	label   *color.Color
}

// NewTerminalProgress returns a reporter writing to stderr, or nil when stderr
// is not a terminal.
func NewTerminalProgress() *TerminalProgress {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return newTerminalProgress(os.Stderr)
}

func newTerminalProgress(w io.Writer) *TerminalProgress {
	return &TerminalProgress{w: w, label: color.New(color.FgCyan)}
}

// Report implements ProgressReporter.
func (t *TerminalProgress) Report(p Progress) error {
	t.percent += p.Increment
	if t.percent > 100 {
		t.percent = 100
	}
	_, err := fmt.Fprintf(t.w, "\r\x1b[2K%s %s", t.label.Sprintf("[%5.1f%%]", t.percent), p.Message)
	return err
}

// Done terminates the status line.
func (t *TerminalProgress) Done() {
	fmt.Fprintln(t.w)
}
