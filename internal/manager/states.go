// internal/manager/states.go
package manager

import (
	"fmt"

	"github.com/tamzrod/bootcom/internal/settings"
)

// Kind identifies a manager state.
type Kind uint8

const (
	KindInit Kind = iota
	KindWaitForPort
	KindSelectPort
	KindService
	KindDone

	// KindExit is the terminal Done phase. Run stops here.
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "Init"
	case KindWaitForPort:
		return "WaitForPort"
	case KindSelectPort:
		return "SelectPort"
	case KindService:
		return "Service"
	case KindDone:
		return "Done"
	case KindExit:
		return "Exit"
	}
	return "Unknown"
}

// TransitionError is raised (as a panic value) when an event reaches a
// state that has no transition for it.
type TransitionError struct {
	From  Kind
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("manager: no transition from %s on %s", e.From, e.Event)
}

// ---- STATES ----

// States carry only Settings. The port never leaves the session.
type state interface {
	kind() Kind
}

type initState struct{ settings settings.Settings }
type waitState struct{ settings settings.Settings }
type selectState struct{ settings settings.Settings }
type serviceState struct{ settings settings.Settings }

type doneState struct {
	withError  bool
	shouldExit bool
}

func (initState) kind() Kind    { return KindInit }
func (waitState) kind() Kind    { return KindWaitForPort }
func (selectState) kind() Kind  { return KindSelectPort }
func (serviceState) kind() Kind { return KindService }

func (d doneState) kind() Kind {
	if d.shouldExit {
		return KindExit
	}
	return KindDone
}

// ---- EVENTS ----

type event interface {
	name() string
}

type pathKnown struct{ settings settings.Settings }
type pathUnknown struct{ settings settings.Settings }
type portReady struct{ settings settings.Settings }
type waitCancelled struct{ settings settings.Settings }
type noSelection struct{ settings settings.Settings }
type portFailed struct{ settings settings.Settings }
type serviceEnded struct{}

// aborted ends the run with an error: an interrupt or an unusable
// collaborator.
type aborted struct{ err error }

type exitEvent struct{}

func (pathKnown) name() string     { return "PathKnown" }
func (pathUnknown) name() string   { return "PathUnknown" }
func (portReady) name() string     { return "PortReady" }
func (waitCancelled) name() string { return "WaitCancelled" }
func (noSelection) name() string   { return "NoSelection" }
func (portFailed) name() string    { return "PortFailed" }
func (serviceEnded) name() string  { return "ServiceEnded" }
func (aborted) name() string       { return "Aborted" }
func (exitEvent) name() string     { return "Exit" }

// transition is the complete table of legal transitions.
// Any other pair panics with *TransitionError.
func transition(st state, ev event) state {
	switch s := st.(type) {
	case initState:
		switch e := ev.(type) {
		case pathKnown:
			return waitState{settings: e.settings}
		case pathUnknown:
			return selectState{settings: e.settings}
		}

	case waitState:
		switch e := ev.(type) {
		case portReady:
			return serviceState{settings: e.settings}
		case waitCancelled:
			return selectState{settings: e.settings}
		case aborted:
			return doneState{withError: true}
		}

	case selectState:
		switch e := ev.(type) {
		case portReady:
			return serviceState{settings: e.settings}
		case noSelection:
			return selectState{settings: e.settings}
		case aborted:
			return doneState{withError: true}
		}

	case serviceState:
		switch e := ev.(type) {
		case serviceEnded:
			return doneState{withError: false}
		case portFailed:
			return waitState{settings: e.settings}
		case aborted:
			return doneState{withError: true}
		}

	case doneState:
		if _, ok := ev.(exitEvent); ok && !s.shouldExit {
			return doneState{withError: s.withError, shouldExit: true}
		}
	}

	panic(&TransitionError{From: st.kind(), Event: ev.name()})
}
