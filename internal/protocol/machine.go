// internal/protocol/machine.go
package protocol

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/bootcom/internal/kernel"
	"github.com/tamzrod/bootcom/internal/serialport"
	"github.com/tamzrod/bootcom/internal/settings"
	"github.com/tamzrod/bootcom/internal/status"
)

// Observer is told about every transition.
type Observer func(from, to Kind)

// Config is everything a session needs besides its Settings.
type Config struct {
	Opener serialport.Opener
	Source kernel.Source

	// Output receives the relayed terminal bytes. Nil discards them.
	Output io.Writer

	// Console receives user-facing notices. Nil discards them.
	Console io.Writer

	Progress ProgressFunc
	Timing   Timing
	Status   *status.Tracker
	Logger   zerolog.Logger
	Observer Observer
}

// Session is one run of the boot protocol over a single open port.
// It is created per connection and discarded after Run returns.
type Session struct {
	cfg    Config
	timing Timing
	out    io.Writer
	con    io.Writer
	log    zerolog.Logger

	state state
}

// New creates a session in the Init state.
// It panics if s has no device path.
func New(s settings.Settings, cfg Config) *Session {
	if !s.HasPath() {
		panic("protocol: session requires a device path")
	}
	if cfg.Opener == nil {
		panic("protocol: session requires an opener")
	}

	sess := &Session{
		cfg:    cfg,
		timing: cfg.Timing.withDefaults(),
		out:    cfg.Output,
		con:    cfg.Console,
		log:    cfg.Logger.With().Str("port", s.Path).Logger(),
		state:  initState{settings: s},
	}
	if sess.out == nil {
		sess.out = io.Discard
	}
	if sess.con == nil {
		sess.con = io.Discard
	}
	return sess
}

// Kind reports the current state.
func (s *Session) Kind() Kind { return s.state.kind() }

// Run steps the session until it exits and returns its status:
// status.ExitOK after a clean end, status.ExitError otherwise.
func (s *Session) Run(ctx context.Context) int {
	for s.Step(ctx) != KindExit {
	}
	if s.state.(doneState).withError {
		return status.ExitError
	}
	return status.ExitOK
}

// Step runs the activity of the current state, applies the resulting
// transition and returns the new state. It is a no-op once exited.
func (s *Session) Step(ctx context.Context) Kind {
	from := s.state.kind()
	if from == KindExit {
		return from
	}

	next := transition(s.state, s.activity(ctx))
	s.state = next

	to := next.kind()
	s.log.Info().Msgf("=> %s", to)
	if s.cfg.Observer != nil {
		s.cfg.Observer(from, to)
	}
	return to
}

func (s *Session) activity(ctx context.Context) event {
	switch st := s.state.(type) {
	case initState:
		return s.open(ctx, st)
	case terminalState:
		return s.terminal(ctx, st)
	case kernelSendState:
		return s.kernelSend(ctx, st)
	case doneState:
		return s.done(st)
	}
	panic(fmt.Sprintf("protocol: unknown state %T", s.state))
}

// ---- INIT ----

func (s *Session) open(ctx context.Context, st initState) event {
	var lastErr error

	for attempt := 1; attempt <= s.timing.OpenAttempts; attempt++ {
		p, err := s.cfg.Opener.Open(st.settings)
		if err == nil {
			if err = p.Reconfigure(st.settings); err == nil {
				s.cfg.Status.SessionStarted()
				s.log.Info().Str("settings", st.settings.String()).Msg("port opened")
				return portOpened{settings: st.settings, port: p}
			}
			p.Close()
		}

		lastErr = err
		s.log.Warn().Err(err).Int("attempt", attempt).Int("of", s.timing.OpenAttempts).Msg("open failed")

		if attempt < s.timing.OpenAttempts && !sleep(ctx, s.timing.OpenRetryDelay) {
			break
		}
	}

	s.cfg.Status.PortFailed(lastErr)
	return openFailed{}
}

// ---- DONE ----

func (s *Session) done(st doneState) event {
	if st.withError {
		s.log.Error().Msg("session ended with error")
		fmt.Fprint(s.con, "\r\nUnrecoverable error on the serial port!\r\nDisconnect and reconnect the device!\r\n")
	} else {
		s.log.Info().Msg("session ended")
	}
	return exitEvent{}
}

// sleep pauses for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
