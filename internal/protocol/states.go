// internal/protocol/states.go
package protocol

import (
	"github.com/tamzrod/bootcom/internal/serialport"
	"github.com/tamzrod/bootcom/internal/settings"
)

// Kind identifies a session state.
type Kind uint8

const (
	KindInit Kind = iota
	KindTerminalMode
	KindKernelSendMode
	KindDone

	// KindExit is the terminal Done phase. Run stops here.
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "Init"
	case KindTerminalMode:
		return "TerminalMode"
	case KindKernelSendMode:
		return "KernelSendMode"
	case KindDone:
		return "Done"
	case KindExit:
		return "Exit"
	}
	return "Unknown"
}

// ---- STATES ----

// Each state holds only what its originating event delivered. Only
// terminalState and kernelSendState hold the port.
type state interface {
	kind() Kind
}

type initState struct {
	settings settings.Settings
}

type terminalState struct {
	settings settings.Settings
	port     serialport.Port
}

type kernelSendState struct {
	settings settings.Settings
	port     serialport.Port
}

type doneState struct {
	withError  bool
	shouldExit bool
}

func (initState) kind() Kind       { return KindInit }
func (terminalState) kind() Kind   { return KindTerminalMode }
func (kernelSendState) kind() Kind { return KindKernelSendMode }

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

// portOpened moves the freshly opened port into terminal mode.
type portOpened struct {
	settings settings.Settings
	port     serialport.Port
}

// openFailed means every open attempt failed.
type openFailed struct{}

// triggerSeen moves the port into kernel send mode.
type triggerSeen struct {
	settings settings.Settings
	port     serialport.Port
}

// kernelDone moves the port back into terminal mode.
type kernelDone struct {
	settings settings.Settings
	port     serialport.Port
}

// sessionEnded is fired after the port was closed.
type sessionEnded struct {
	withError bool
}

type exitEvent struct{}

func (portOpened) name() string   { return "PortOpened" }
func (openFailed) name() string   { return "OpenFailed" }
func (triggerSeen) name() string  { return "TriggerSeen" }
func (kernelDone) name() string   { return "KernelDone" }
func (sessionEnded) name() string { return "SessionEnded" }
func (exitEvent) name() string    { return "Exit" }

// transition is the complete table of legal transitions.
// Any other pair panics with *TransitionError.
func transition(st state, ev event) state {
	switch s := st.(type) {
	case initState:
		switch e := ev.(type) {
		case portOpened:
			return terminalState{settings: e.settings, port: e.port}
		case openFailed:
			return doneState{withError: true}
		}

	case terminalState:
		switch e := ev.(type) {
		case triggerSeen:
			return kernelSendState{settings: e.settings, port: e.port}
		case sessionEnded:
			return doneState{withError: e.withError}
		}

	case kernelSendState:
		switch e := ev.(type) {
		case kernelDone:
			return terminalState{settings: e.settings, port: e.port}
		}

	case doneState:
		if _, ok := ev.(exitEvent); ok && !s.shouldExit {
			return doneState{withError: s.withError, shouldExit: true}
		}
	}

	panic(&TransitionError{From: st.kind(), Event: ev.name()})
}
