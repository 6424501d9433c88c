// internal/serialport/bugst.go
package serialport

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/tamzrod/bootcom/internal/settings"
)

// DefaultReadTimeout bounds each device read so a closed port is noticed.
const DefaultReadTimeout = 100 * time.Millisecond

// BugstOpener opens ports with go.bug.st/serial.
type BugstOpener struct {
	// ReadTimeout is the per-read device timeout. Zero means DefaultReadTimeout.
	ReadTimeout time.Duration
}

func (o BugstOpener) Open(s settings.Settings) (Port, error) {
	mode, err := bugstMode(s)
	if err != nil {
		return nil, err
	}

	// Opened first: the driver locks the tty against further opens.
	fc, err := openFlowControl(BackendBugst, s.Path)
	if err != nil {
		return nil, err
	}

	p, err := serial.Open(s.Path, mode)
	if err != nil {
		_ = fc.Close()
		return nil, fmt.Errorf("serialport: open %s: %w", s.Path, err)
	}

	timeout := o.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	if err := p.SetReadTimeout(timeout); err != nil {
		_ = p.Close()
		_ = fc.Close()
		return nil, fmt.Errorf("serialport: set read timeout %s: %w", s.Path, err)
	}
	// The driver always opens without flow control.
	if err := fc.apply(s.FlowControl); err != nil {
		_ = p.Close()
		_ = fc.Close()
		return nil, fmt.Errorf("serialport: configure %s: %w", s.Path, err)
	}

	return newBufferedPort(s.Path, p, hooks{
		reconfigure: func(s settings.Settings) error {
			m, err := bugstMode(s)
			if err != nil {
				return err
			}
			if err := p.SetMode(m); err != nil {
				return err
			}
			return fc.apply(s.FlowControl)
		},
		resetInput: p.ResetInputBuffer,
		close:      fc.Close,
	}), nil
}

// bugstMode converts settings into a go.bug.st/serial mode. The mode has
// no flow control field; see flowControl.
func bugstMode(s settings.Settings) (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: s.BaudRate,
		DataBits: int(s.DataBits),
	}

	switch s.Parity {
	case settings.ParityNone:
		mode.Parity = serial.NoParity
	case settings.ParityOdd:
		mode.Parity = serial.OddParity
	case settings.ParityEven:
		mode.Parity = serial.EvenParity
	default:
		return nil, &UnsupportedError{Backend: string(BackendBugst), Feature: "parity " + s.Parity.String()}
	}

	switch s.StopBits {
	case settings.StopBits1:
		mode.StopBits = serial.OneStopBit
	case settings.StopBits2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, &UnsupportedError{Backend: string(BackendBugst), Feature: "stop bits " + s.StopBits.String()}
	}

	return mode, nil
}
