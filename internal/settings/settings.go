// internal/settings/settings.go
package settings

import (
	"errors"
	"fmt"
)

// Defaults used when a field is not set explicitly.
const (
	DefaultBaudRate    = 230400
	DefaultDataBits    = DataBits8
	DefaultStopBits    = StopBits1
	DefaultParity      = ParityNone
	DefaultFlowControl = FlowNone
)

// Settings groups everything a boot session needs to know about the
// serial link and the kernel image.
//
// Settings is a value: it is copied on every state transition and never
// shared mutably.
type Settings struct {
	// Path is the serial device path. Empty means the device must be
	// selected interactively.
	Path string

	BaudRate    int
	DataBits    DataBits
	StopBits    StopBits
	Parity      Parity
	FlowControl FlowControl

	// KernelImage is the image to push. Empty means the default file
	// name, falling back to an interactive pick.
	KernelImage string
}

// Option sets one field of Settings.
type Option func(*Settings)

// New builds Settings from defaults and the given options.
// Options touch independent fields, so their order does not matter.
func New(opts ...Option) Settings {
	s := Settings{
		BaudRate:    DefaultBaudRate,
		DataBits:    DefaultDataBits,
		StopBits:    DefaultStopBits,
		Parity:      DefaultParity,
		FlowControl: DefaultFlowControl,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func WithPath(path string) Option {
	return func(s *Settings) { s.Path = path }
}

func WithBaudRate(baud int) Option {
	return func(s *Settings) { s.BaudRate = baud }
}

func WithDataBits(bits DataBits) Option {
	return func(s *Settings) { s.DataBits = bits }
}

func WithStopBits(bits StopBits) Option {
	return func(s *Settings) { s.StopBits = bits }
}

func WithParity(p Parity) Option {
	return func(s *Settings) { s.Parity = p }
}

func WithFlowControl(f FlowControl) Option {
	return func(s *Settings) { s.FlowControl = f }
}

func WithKernelImage(path string) Option {
	return func(s *Settings) { s.KernelImage = path }
}

// HasPath reports whether a device path is set.
func (s Settings) HasPath() bool { return s.Path != "" }

// WithPath returns a copy of s using the given device path.
func (s Settings) WithPath(path string) Settings {
	s.Path = path
	return s
}

// Validate checks that every field holds a supported value.
func (s Settings) Validate() error {
	if s.BaudRate <= 0 {
		return fmt.Errorf("settings: baud rate must be > 0, got %d", s.BaudRate)
	}
	if !s.DataBits.valid() {
		return fmt.Errorf("settings: unsupported data bits %d", int(s.DataBits))
	}
	if !s.StopBits.valid() {
		return fmt.Errorf("settings: unsupported stop bits %d", int(s.StopBits))
	}
	if !s.Parity.valid() {
		return errors.New("settings: unsupported parity")
	}
	if !s.FlowControl.valid() {
		return errors.New("settings: unsupported flow control")
	}
	return nil
}

func (s Settings) String() string {
	path := s.Path
	if path == "" {
		path = "<select>"
	}
	return fmt.Sprintf("%s %d %d%s%d flow=%s", path, s.BaudRate,
		int(s.DataBits), s.Parity.letter(), int(s.StopBits), s.FlowControl)
}
