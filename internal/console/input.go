// internal/console/input.go
package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// Input pumps bytes from a reader on one goroutine so that reads can be
// abandoned on timeout or context end without losing bytes.
type Input struct {
	bytes chan byte
	done  chan struct{}
	err   error
}

// NewInput starts pumping r. The pump runs until r fails.
func NewInput(r io.Reader) *Input {
	in := &Input{
		bytes: make(chan byte, 256),
		done:  make(chan struct{}),
	}
	go in.pump(r)
	return in
}

func (in *Input) pump(r io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			in.bytes <- buf[0]
		}
		if err != nil {
			in.err = err
			close(in.done)
			return
		}
	}
}

// next returns the next byte, waiting at most timeout (forever when
// timeout <= 0). ok is false when the wait timed out.
func (in *Input) next(ctx context.Context, timeout time.Duration) (byte, bool, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case b := <-in.bytes:
		return b, true, nil
	case <-in.done:
		select {
		case b := <-in.bytes:
			return b, true, nil
		default:
		}
		return 0, false, in.err
	case <-ctx.Done():
		return 0, false, ctx.Err()
	case <-expired:
		return 0, false, nil
	}
}

// ReadLine returns the next line without its line ending.
// A final line without a newline is returned before io.EOF.
func (in *Input) ReadLine(ctx context.Context) (string, error) {
	var sb strings.Builder
	for {
		b, _, err := in.next(ctx, 0)
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		switch b {
		case '\n':
			return strings.TrimSuffix(sb.String(), "\r"), nil
		default:
			sb.WriteByte(b)
		}
	}
}
