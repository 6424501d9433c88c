// internal/serialport/port.go
package serialport

import (
	"fmt"
	"io"
	"strings"

	"github.com/tamzrod/bootcom/internal/settings"
)

// Port is the serial capability a boot session needs.
//
// A Port has exactly one owner at a time. It is moved between protocol
// states, never shared.
type Port interface {
	io.ReadWriteCloser

	// Name is the device path the port was opened with.
	Name() string

	// BytesToRead returns the number of bytes that can be read without
	// blocking.
	BytesToRead() (int, error)

	// ClearInput discards pending input bytes.
	ClearInput() error

	// Reconfigure applies line settings to the open port.
	Reconfigure(s settings.Settings) error
}

// Opener opens a Port for the device named in s.Path.
type Opener interface {
	Open(s settings.Settings) (Port, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(s settings.Settings) (Port, error)

func (f OpenerFunc) Open(s settings.Settings) (Port, error) { return f(s) }

// ---- ENUMERATION ----

// Device describes one attached serial device.
type Device struct {
	Path         string
	USB          bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// metadataSep separates the raw path from the descriptive suffix in ID.
const metadataSep = ": ("

// ID is the display identifier: the raw path, decorated with USB
// details when available. The raw path is always a prefix of ID.
func (d Device) ID() string {
	if !d.USB {
		return d.Path
	}
	return fmt.Sprintf("%s%s%s:%s / %s)", d.Path, metadataSep, d.VID, d.PID, d.Product)
}

// StripMetadata returns the raw path of an identifier produced by ID.
func StripMetadata(id string) string {
	if i := strings.Index(id, metadataSep); i >= 0 {
		return id[:i]
	}
	return id
}

// Enumerator lists the currently attached serial devices.
// Every call enumerates afresh.
type Enumerator interface {
	List() ([]Device, error)
}

// EnumeratorFunc adapts a function to Enumerator.
type EnumeratorFunc func() ([]Device, error)

func (f EnumeratorFunc) List() ([]Device, error) { return f() }

// IDs renders the identifiers of devs, in order.
func IDs(devs []Device) []string {
	out := make([]string, 0, len(devs))
	for _, d := range devs {
		out = append(out, d.ID())
	}
	return out
}
