// internal/protocol/errors.go
package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAck is returned when the bootloader does not acknowledge the
	// size header within the configured attempts.
	ErrNoAck = errors.New("protocol: no acknowledgment from bootloader")

	// ErrShortImage is returned when the image stream ends before its
	// declared size.
	ErrShortImage = errors.New("protocol: image ended before its declared size")
)

// ImageTooLargeError reports an image whose size does not fit the
// 32-bit size header.
type ImageTooLargeError struct {
	Name string
	Size int64
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("protocol: image %s is %d bytes, larger than the 32-bit size header allows", e.Name, e.Size)
}

// AckError reports an acknowledgment other than "OK".
type AckError struct {
	Got []byte
}

func (e *AckError) Error() string {
	return fmt.Sprintf("protocol: unexpected acknowledgment %q (% x)", e.Got, e.Got)
}

// TransitionError is raised (as a panic value) when an event reaches a
// state that has no transition for it. It is a logic defect.
type TransitionError struct {
	From  Kind
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("protocol: no transition from %s on %s", e.From, e.Event)
}
