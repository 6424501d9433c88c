// internal/serialport/errors.go
package serialport

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrTimeout marks an operation that timed out and may be retried.
	ErrTimeout = errors.New("serialport: timeout")

	// ErrClosed is returned by operations on a closed port.
	ErrClosed = errors.New("serialport: port closed")
)

// UnsupportedError reports a setting a backend cannot honour.
type UnsupportedError struct {
	Backend string
	Feature string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("serialport: %s backend does not support %s", e.Backend, e.Feature)
}

// IsTimeout reports whether err is a timeout condition.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return false
}
