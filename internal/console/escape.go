// internal/console/escape.go
package console

import (
	"context"
	"time"

	"golang.org/x/term"
)

const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03
)

// EscapeWatcher turns an Escape key press into a wait cancellation.
//
// While polling, the terminal on Fd is switched to raw mode so single
// keys arrive unbuffered. Raw mode swallows the interrupt signal, so a
// Ctrl+C byte calls Interrupt instead.
type EscapeWatcher struct {
	In *Input

	// Fd is the terminal file descriptor. A non-terminal Fd is read
	// in whatever mode it is in.
	Fd int

	// Interrupt is called on Ctrl+C, typically the run's cancel func.
	// Without it Ctrl+C cancels like Escape.
	Interrupt func()
}

// PollCancel implements the wait's cancel watcher.
func (w EscapeWatcher) PollCancel(timeout time.Duration) (bool, error) {
	if term.IsTerminal(w.Fd) {
		st, err := term.MakeRaw(w.Fd)
		if err != nil {
			return false, err
		}
		defer term.Restore(w.Fd, st)
	}

	deadline := time.Now().Add(timeout)
	for {
		left := time.Until(deadline)
		if left <= 0 {
			return false, nil
		}

		b, ok, err := w.In.next(context.Background(), left)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		switch b {
		case keyEscape:
			return true, nil
		case keyCtrlC:
			if w.Interrupt == nil {
				return true, nil
			}
			w.Interrupt()
		}
	}
}
