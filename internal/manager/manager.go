// internal/manager/manager.go
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tamzrod/bootcom/internal/ports"
	"github.com/tamzrod/bootcom/internal/settings"
	"github.com/tamzrod/bootcom/internal/status"
)

// Waiter blocks until the device at path is enumerable or the user
// cancels. *ports.Waiter implements it.
type Waiter interface {
	Wait(ctx context.Context, path string) (ports.Outcome, error)
}

// Selector asks the user for a device. It returns "" for no pick.
// *ports.Selector implements it.
type Selector interface {
	Select(ctx context.Context) (string, error)
}

// Session is one boot protocol run. *protocol.Session implements it.
// Run returns status.ExitOK after a clean end.
type Session interface {
	Run(ctx context.Context) int
}

// SessionFactory creates a fresh session for a ready device.
type SessionFactory func(s settings.Settings) Session

// Observer is told about every transition.
type Observer func(from, to Kind)

// Config wires the manager to its collaborators.
type Config struct {
	Waiter   Waiter
	Selector Selector
	Sessions SessionFactory

	// Console receives user-facing notices. Nil discards them.
	Console io.Writer

	Status   *status.Tracker
	Logger   zerolog.Logger
	Observer Observer
}

// Manager owns the Settings and decides which device to serve.
// It is driven from a single goroutine.
type Manager struct {
	cfg   Config
	con   io.Writer
	state state
}

// New creates a manager in the Init state.
func New(s settings.Settings, cfg Config) (*Manager, error) {
	if cfg.Waiter == nil {
		return nil, errors.New("manager: waiter required")
	}
	if cfg.Selector == nil {
		return nil, errors.New("manager: selector required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("manager: session factory required")
	}

	m := &Manager{cfg: cfg, con: cfg.Console, state: initState{settings: s}}
	if m.con == nil {
		m.con = io.Discard
	}
	return m, nil
}

// Kind reports the current state.
func (m *Manager) Kind() Kind { return m.state.kind() }

// Settings returns the settings held by the current state.
// Done states hold none and return the zero value.
func (m *Manager) Settings() settings.Settings {
	switch st := m.state.(type) {
	case initState:
		return st.settings
	case waitState:
		return st.settings
	case selectState:
		return st.settings
	case serviceState:
		return st.settings
	}
	return settings.Settings{}
}

// Run steps the manager until it exits and returns the process status.
func (m *Manager) Run(ctx context.Context) int {
	for m.Step(ctx) != KindExit {
	}
	if m.state.(doneState).withError {
		return status.ExitError
	}
	return status.ExitOK
}

// Step runs the activity of the current state, applies the resulting
// transition and returns the new state. It is a no-op once exited.
func (m *Manager) Step(ctx context.Context) Kind {
	from := m.state.kind()
	if from == KindExit {
		return from
	}

	next := transition(m.state, m.activity(ctx))
	m.state = next

	to := next.kind()
	m.cfg.Logger.Info().Msgf("=> %s", to)
	if m.cfg.Observer != nil {
		m.cfg.Observer(from, to)
	}
	return to
}

func (m *Manager) activity(ctx context.Context) event {
	switch st := m.state.(type) {
	case initState:
		if st.settings.HasPath() {
			return pathKnown{settings: st.settings}
		}
		return pathUnknown{settings: st.settings}
	case waitState:
		return m.wait(ctx, st)
	case selectState:
		return m.pick(ctx, st)
	case serviceState:
		return m.serve(ctx, st)
	case doneState:
		return m.done(st)
	}
	panic(fmt.Sprintf("manager: unknown state %T", m.state))
}

// ---- ACTIVITIES ----

func (m *Manager) wait(ctx context.Context, st waitState) event {
	m.cfg.Logger.Info().Str("port", st.settings.Path).Msg("waiting for device")

	outcome, err := m.cfg.Waiter.Wait(ctx, st.settings.Path)
	if err != nil {
		return m.abort(err)
	}
	if outcome == ports.Cancelled {
		m.cfg.Logger.Info().Msg("wait cancelled by user")
		return waitCancelled{settings: st.settings}
	}
	return portReady{settings: st.settings}
}

func (m *Manager) pick(ctx context.Context, st selectState) event {
	path, err := m.cfg.Selector.Select(ctx)
	if err != nil {
		return m.abort(err)
	}
	if path == "" {
		return noSelection{settings: st.settings}
	}
	m.cfg.Logger.Info().Str("port", path).Msg("device selected")
	return portReady{settings: st.settings.WithPath(path)}
}

func (m *Manager) serve(ctx context.Context, st serviceState) event {
	code := m.cfg.Sessions(st.settings).Run(ctx)

	if err := ctx.Err(); err != nil {
		return m.abort(err)
	}
	if code != status.ExitOK {
		fmt.Fprintf(m.con, "\r\nWaiting for %s to come back...\r\n", st.settings.Path)
		return portFailed{settings: st.settings}
	}
	return serviceEnded{}
}

func (m *Manager) abort(err error) event {
	if errors.Is(err, context.Canceled) {
		m.cfg.Logger.Warn().Msg("interrupted")
	} else {
		m.cfg.Logger.Error().Err(err).Msg("aborting")
	}
	return aborted{err: err}
}

func (m *Manager) done(st doneState) event {
	snap := m.cfg.Status.Snapshot()
	if st.withError {
		m.cfg.Logger.Error().Object("status", snap).Msg("finished with error")
	} else {
		m.cfg.Logger.Info().Object("status", snap).Msg("finished")
	}
	return exitEvent{}
}
