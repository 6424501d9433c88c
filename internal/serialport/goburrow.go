// internal/serialport/goburrow.go
package serialport

import (
	"errors"
	"fmt"
	"time"

	goserial "github.com/goburrow/serial"

	"github.com/tamzrod/bootcom/internal/settings"
)

// GoburrowOpener opens ports with github.com/goburrow/serial.
//
// The driver has no input flush, so ClearInput only drops host-side
// buffered bytes. Line settings other than flow control are fixed once
// the port is open.
type GoburrowOpener struct {
	// Timeout is the per-read device timeout. Zero means DefaultReadTimeout.
	Timeout time.Duration
}

func (o GoburrowOpener) Open(s settings.Settings) (Port, error) {
	cfg, err := goburrowConfig(s, o.Timeout)
	if err != nil {
		return nil, err
	}

	fc, err := openFlowControl(BackendGoburrow, s.Path)
	if err != nil {
		return nil, err
	}

	p, err := goserial.Open(cfg)
	if err != nil {
		_ = fc.Close()
		return nil, fmt.Errorf("serialport: open %s: %w", s.Path, err)
	}
	if err := fc.apply(s.FlowControl); err != nil {
		_ = p.Close()
		_ = fc.Close()
		return nil, fmt.Errorf("serialport: configure %s: %w", s.Path, err)
	}

	opened := *cfg
	return newBufferedPort(s.Path, p, hooks{
		reconfigure: func(s settings.Settings) error {
			next, err := goburrowConfig(s, o.Timeout)
			if err != nil {
				return err
			}
			if !sameLine(*next, opened) {
				return &UnsupportedError{Backend: string(BackendGoburrow), Feature: "reconfiguring an open port"}
			}
			return fc.apply(s.FlowControl)
		},
		timeout: func(err error) bool { return errors.Is(err, goserial.ErrTimeout) },
		close:   fc.Close,
	}), nil
}

func goburrowConfig(s settings.Settings, timeout time.Duration) (*goserial.Config, error) {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	cfg := &goserial.Config{
		Address:  s.Path,
		BaudRate: s.BaudRate,
		DataBits: int(s.DataBits),
		StopBits: int(s.StopBits),
		Timeout:  timeout,
	}

	switch s.Parity {
	case settings.ParityNone:
		cfg.Parity = "N"
	case settings.ParityOdd:
		cfg.Parity = "O"
	case settings.ParityEven:
		cfg.Parity = "E"
	default:
		return nil, &UnsupportedError{Backend: string(BackendGoburrow), Feature: "parity " + s.Parity.String()}
	}

	return cfg, nil
}

func sameLine(a, b goserial.Config) bool {
	return a.Address == b.Address &&
		a.BaudRate == b.BaudRate &&
		a.DataBits == b.DataBits &&
		a.StopBits == b.StopBits &&
		a.Parity == b.Parity
}
