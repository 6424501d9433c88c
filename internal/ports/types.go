// internal/ports/types.go
package ports

import (
	"context"
	"time"
)

// Outcome is how a wait for a device ended.
type Outcome uint8

const (
	// Ready means the expected device is enumerable.
	Ready Outcome = iota + 1

	// Cancelled means the user abandoned the wait.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Ready:
		return "ready"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// CancelWatcher reports a user cancel request.
//
// PollCancel blocks for at most timeout and reports whether a cancel
// input arrived in that window.
type CancelWatcher interface {
	PollCancel(timeout time.Duration) (bool, error)
}

// CancelWatcherFunc adapts a function to CancelWatcher.
type CancelWatcherFunc func(timeout time.Duration) (bool, error)

func (f CancelWatcherFunc) PollCancel(timeout time.Duration) (bool, error) { return f(timeout) }

// Chooser presents device identifiers and returns the one picked,
// or "" when the user declines.
type Chooser interface {
	Choose(ctx context.Context, ids []string) (string, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, ids []string) (string, error)

func (f ChooserFunc) Choose(ctx context.Context, ids []string) (string, error) { return f(ctx, ids) }

// Indicator renders a transient progress line.
// A nil Indicator shows nothing.
type Indicator interface {
	Show(msg string)
	Clear()
}

func show(ind Indicator, msg string) {
	if ind != nil {
		ind.Show(msg)
	}
}

func hide(ind Indicator) {
	if ind != nil {
		ind.Clear()
	}
}
