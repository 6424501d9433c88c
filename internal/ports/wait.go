// internal/ports/wait.go
package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/bootcom/internal/serialport"
)

// Defaults for WaitConfig.
const (
	DefaultWaitInterval = 2 * time.Second
	DefaultCancelPoll   = 500 * time.Millisecond
)

// WaitConfig is the runtime config of a Waiter.
type WaitConfig struct {
	Enumerator serialport.Enumerator

	// Watcher reports cancel input. Nil makes waits uncancellable.
	Watcher CancelWatcher

	// Interval is the pause between enumerations.
	Interval time.Duration

	// CancelPoll bounds each Watcher.PollCancel call.
	CancelPoll time.Duration

	Indicator Indicator
	Logger    zerolog.Logger
}

// Waiter blocks until a named device shows up or the user cancels.
type Waiter struct {
	cfg WaitConfig
}

// NewWaiter creates a waiter. Zero durations take the defaults.
func NewWaiter(cfg WaitConfig) (*Waiter, error) {
	if cfg.Enumerator == nil {
		return nil, errors.New("ports: enumerator required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultWaitInterval
	}
	if cfg.CancelPoll <= 0 {
		cfg.CancelPoll = DefaultCancelPoll
	}
	return &Waiter{cfg: cfg}, nil
}

// Wait polls enumeration until an identifier has path as its prefix.
//
// The caller polls while a second goroutine watches for cancel input.
// The watcher is always told to stop and joined before Wait returns.
// A device found in the same iteration as a cancel wins.
func (w *Waiter) Wait(ctx context.Context, path string) (Outcome, error) {
	if path == "" {
		return 0, errors.New("ports: wait requires a device path")
	}

	done := make(chan struct{}, 1)
	cancel := make(chan struct{}, 1)

	var g errgroup.Group
	g.Go(func() error { return w.watch(done, cancel) })

	outcome, err := w.poll(ctx, path, cancel)
	hide(w.cfg.Indicator)

	done <- struct{}{}
	if werr := g.Wait(); werr != nil {
		w.cfg.Logger.Warn().Err(werr).Msg("cancel watcher stopped; wait was not cancellable")
	}

	return outcome, err
}

func (w *Waiter) poll(ctx context.Context, path string, cancel <-chan struct{}) (Outcome, error) {
	msg := fmt.Sprintf("Waiting for %s (ESC to cancel)", path)

	for attempt := 1; ; attempt++ {
		ids, err := list(w.cfg.Enumerator)
		if err != nil {
			w.cfg.Logger.Warn().Err(err).Msg("enumeration failed")
		}
		w.cfg.Logger.Trace().Int("attempt", attempt).Strs("ids", ids).Msg("enumerated")

		if Present(ids, path) {
			return Ready, nil
		}
		show(w.cfg.Indicator, msg)

		timer := time.NewTimer(w.cfg.Interval)
		select {
		case <-cancel:
			timer.Stop()
			return Cancelled, nil
		case <-ctx.Done():
			timer.Stop()
			return Cancelled, ctx.Err()
		case <-timer.C:
		}
	}
}

// watch runs on its own goroutine until done is signalled, a cancel is
// seen, or the watcher fails.
func (w *Waiter) watch(done <-chan struct{}, cancel chan<- struct{}) error {
	if w.cfg.Watcher == nil {
		<-done
		return nil
	}

	for {
		select {
		case <-done:
			return nil
		default:
		}

		hit, err := w.cfg.Watcher.PollCancel(w.cfg.CancelPoll)
		if err != nil {
			return fmt.Errorf("ports: cancel watcher: %w", err)
		}
		if hit {
			cancel <- struct{}{}
			return nil
		}
	}
}
