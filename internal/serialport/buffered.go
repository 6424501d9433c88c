// internal/serialport/buffered.go
package serialport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tamzrod/bootcom/internal/settings"
)

// readBufSize is the size of one read from the underlying device.
const readBufSize = 1024

// hooks are the backend-specific operations of a bufferedPort.
type hooks struct {
	// reconfigure applies settings to the device. Required.
	reconfigure func(settings.Settings) error
	// resetInput flushes the driver input queue. Optional.
	resetInput func() error
	// timeout classifies backend read errors that only mean "no data yet".
	timeout func(error) bool
	// close releases backend resources after the device is closed. Optional.
	close func() error
}

// bufferedPort turns a blocking device into a Port with a byte count.
//
// One reader goroutine moves device input into an in-memory buffer;
// BytesToRead reports the buffer size and Read drains it. The device must
// return from Read periodically (read timeout) so Close can stop the
// goroutine.
type bufferedPort struct {
	name  string
	raw   io.ReadWriteCloser
	hooks hooks

	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	gen     uint64 // bumped by ClearInput
	reading uint64 // gen of the device read in flight
	err     error  // terminal read error, sticky
	closed bool

	done chan struct{}
}

func newBufferedPort(name string, raw io.ReadWriteCloser, h hooks) *bufferedPort {
	p := &bufferedPort{
		name:  name,
		raw:   raw,
		hooks: h,
		done:  make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	go p.readLoop()
	return p
}

func (p *bufferedPort) Name() string { return p.name }

func (p *bufferedPort) readLoop() {
	defer close(p.done)

	chunk := make([]byte, readBufSize)
	for {
		p.mu.Lock()
		gen := p.gen
		p.reading = gen
		p.cond.Broadcast()
		p.mu.Unlock()

		n, err := p.raw.Read(chunk)

		p.mu.Lock()
		// A read that started before ClearInput may carry flushed bytes.
		if gen != p.gen {
			n = 0
		}
		if n > 0 {
			p.buf.Write(chunk[:n])
		}
		switch {
		case p.closed:
			p.err = ErrClosed
		case err != nil && !p.isTimeout(err):
			p.err = fmt.Errorf("serialport: read %s: %w", p.name, err)
		}
		stop := p.err != nil
		if n > 0 || stop {
			p.cond.Broadcast()
		}
		p.mu.Unlock()

		if stop {
			return
		}
	}
}

func (p *bufferedPort) isTimeout(err error) bool {
	if p.hooks.timeout != nil && p.hooks.timeout(err) {
		return true
	}
	return IsTimeout(err)
}

// BytesToRead returns the number of buffered bytes. Once the buffer is
// empty, a terminal read error is reported.
func (p *bufferedPort) BytesToRead() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := p.buf.Len(); n > 0 {
		return n, nil
	}
	return 0, p.err
}

// Read blocks until buffered data or a terminal error is available.
func (p *bufferedPort) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for p.buf.Len() == 0 && p.err == nil {
		p.cond.Wait()
	}
	if p.buf.Len() > 0 {
		return p.buf.Read(b)
	}
	return 0, p.err
}

func (p *bufferedPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}

	n, err := p.raw.Write(b)
	if err != nil {
		if p.isTimeout(err) {
			return n, errors.Join(ErrTimeout, err)
		}
		return n, fmt.Errorf("serialport: write %s: %w", p.name, err)
	}
	return n, nil
}

// ClearInput flushes the driver queue and the buffer. It returns once
// the reader has started a read after the flush, so no earlier byte can
// be buffered later.
func (p *bufferedPort) ClearInput() error {
	if p.hooks.resetInput != nil {
		if err := p.hooks.resetInput(); err != nil {
			return fmt.Errorf("serialport: clear input %s: %w", p.name, err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	p.buf.Reset()
	for p.reading != p.gen && p.err == nil {
		p.cond.Wait()
	}
	return nil
}

func (p *bufferedPort) Reconfigure(s settings.Settings) error {
	if err := p.hooks.reconfigure(s); err != nil {
		return fmt.Errorf("serialport: configure %s: %w", p.name, err)
	}
	return nil
}

// Close closes the device and waits for the reader goroutine to exit.
func (p *bufferedPort) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	err := p.raw.Close()
	<-p.done
	if p.hooks.close != nil {
		if cerr := p.hooks.close(); err == nil {
			err = cerr
		}
	}
	return err
}
