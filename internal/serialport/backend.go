// internal/serialport/backend.go
package serialport

import (
	"fmt"
	"time"

	"github.com/tamzrod/bootcom/internal/settings"
)

// Backend names a serial driver implementation.
type Backend string

const (
	BackendBugst    Backend = "bugst"
	BackendGoburrow Backend = "goburrow"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = BackendBugst

// ParseBackend accepts a backend name; empty means DefaultBackend.
func ParseBackend(v string) (Backend, error) {
	switch Backend(v) {
	case "":
		return DefaultBackend, nil
	case BackendBugst, BackendGoburrow:
		return Backend(v), nil
	}
	return "", fmt.Errorf("serialport: unknown backend %q (want %s or %s)", v, BackendBugst, BackendGoburrow)
}

// Supports reports whether the backend can open a port with s.
func (b Backend) Supports(s settings.Settings) error {
	var err error
	switch b {
	case BackendBugst:
		_, err = bugstMode(s)
	case BackendGoburrow:
		_, err = goburrowConfig(s, 0)
	default:
		return fmt.Errorf("serialport: unknown backend %q", string(b))
	}
	if err != nil {
		return err
	}
	return supportsFlow(b, s.FlowControl)
}

// Opener returns the Opener for the backend.
func (b Backend) Opener(readTimeout time.Duration) (Opener, error) {
	switch b {
	case BackendBugst:
		return BugstOpener{ReadTimeout: readTimeout}, nil
	case BackendGoburrow:
		return GoburrowOpener{Timeout: readTimeout}, nil
	}
	return nil, fmt.Errorf("serialport: unknown backend %q", string(b))
}
