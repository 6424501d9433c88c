// internal/protocol/fake_test.go
package protocol

import (
	"bytes"
	"errors"
	"time"

	"github.com/tamzrod/bootcom/internal/serialport"
	"github.com/tamzrod/bootcom/internal/settings"
)

// fakePort replays scripted inbound chunks and records writes.
// It is used from the session goroutine only.
type fakePort struct {
	name string

	chunks [][]byte // delivered one at a time once the input is drained
	in     []byte

	// endErr is returned by BytesToRead once the script is exhausted.
	// Nil keeps reporting no input.
	endErr error

	// ack, when set, becomes readable after the 4-byte size header.
	ack   []byte
	acked bool

	out           bytes.Buffer
	writes        int
	maxWrite      int // bytes accepted per Write; 0 means all
	writeTimeouts int // leading writes that time out
	writeErr      error

	clears   int
	closes   int
	reconfig int
}

var errUnplugged = errors.New("fake: device unplugged")

func (p *fakePort) Name() string { return p.name }

func (p *fakePort) BytesToRead() (int, error) {
	if p.closes > 0 {
		return 0, serialport.ErrClosed
	}
	if len(p.in) == 0 && len(p.chunks) > 0 {
		p.in = append(p.in, p.chunks[0]...)
		p.chunks = p.chunks[1:]
	}
	if len(p.in) == 0 && p.endErr != nil {
		return 0, p.endErr
	}
	return len(p.in), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.closes > 0 {
		return 0, serialport.ErrClosed
	}
	n := copy(b, p.in)
	p.in = p.in[n:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.closes > 0 {
		return 0, serialport.ErrClosed
	}
	p.writes++
	if p.writeTimeouts > 0 {
		p.writeTimeouts--
		return 0, serialport.ErrTimeout
	}
	if p.writeErr != nil {
		return 0, p.writeErr
	}

	n := len(b)
	if p.maxWrite > 0 && n > p.maxWrite {
		n = p.maxWrite
	}
	p.out.Write(b[:n])

	if p.ack != nil && !p.acked && p.out.Len() >= 4 {
		p.acked = true
		p.in = append(p.in, p.ack...)
	}
	return n, nil
}

func (p *fakePort) ClearInput() error {
	p.clears++
	p.in = nil
	return nil
}

func (p *fakePort) Reconfigure(settings.Settings) error {
	p.reconfig++
	return nil
}

func (p *fakePort) Close() error {
	p.closes++
	return nil
}

// fakeOpener fails the first failures opens, then hands out port.
type fakeOpener struct {
	port     *fakePort
	failures int
	opens    int
	got      []settings.Settings
}

func (o *fakeOpener) Open(s settings.Settings) (serialport.Port, error) {
	o.opens++
	o.got = append(o.got, s)
	if o.opens <= o.failures {
		return nil, errors.New("fake: no such device")
	}
	return o.port, nil
}

func fastTiming() Timing {
	return Timing{
		OpenAttempts:    3,
		OpenRetryDelay:  time.Millisecond,
		IdlePoll:        time.Millisecond,
		ReadChunkSize:   4096,
		AckAttempts:     4,
		AckInterval:     time.Millisecond,
		ChunkSize:       4,
		WriteRetryDelay: time.Millisecond,
		PushRetryDelay:  time.Millisecond,
	}
}
