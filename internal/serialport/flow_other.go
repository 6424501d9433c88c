// internal/serialport/flow_other.go

//go:build !linux

package serialport

import "github.com/tamzrod/bootcom/internal/settings"

// flowControl only accepts the drivers' own setting (none) off Linux.
type flowControl struct {
	backend Backend
}

func openFlowControl(b Backend, _ string) (*flowControl, error) {
	return &flowControl{backend: b}, nil
}

func (c *flowControl) apply(f settings.FlowControl) error { return supportsFlow(c.backend, f) }

func (c *flowControl) Close() error { return nil }

func supportsFlow(b Backend, f settings.FlowControl) error {
	if f != settings.FlowNone {
		return &UnsupportedError{Backend: string(b), Feature: "flow control " + f.String()}
	}
	return nil
}
