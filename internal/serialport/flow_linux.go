// internal/serialport/flow_linux.go
package serialport

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/tamzrod/bootcom/internal/settings"
)

// flowControl sets termios flow control through a second descriptor on
// the tty. Line settings are per device, so they reach the driver's own
// descriptor too. The descriptor is opened before the driver takes
// exclusive access.
type flowControl struct {
	fd int
}

func openFlowControl(_ Backend, path string) (*flowControl, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", path, err)
	}
	return &flowControl{fd: fd}, nil
}

func (c *flowControl) apply(f settings.FlowControl) error {
	t, err := unix.IoctlGetTermios(c.fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("serialport: get termios: %w", err)
	}
	setFlow(t, f)
	if err := unix.IoctlSetTermios(c.fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("serialport: set flow control %s: %w", f, err)
	}
	return nil
}

func (c *flowControl) Close() error {
	return unix.Close(c.fd)
}

func setFlow(t *unix.Termios, f settings.FlowControl) {
	t.Cflag &^= unix.CRTSCTS
	t.Iflag &^= unix.IXON | unix.IXOFF | unix.IXANY

	switch f {
	case settings.FlowSoftware:
		t.Iflag |= unix.IXON | unix.IXOFF
	case settings.FlowHardware:
		t.Cflag |= unix.CRTSCTS
	}
}

func supportsFlow(Backend, settings.FlowControl) error { return nil }
