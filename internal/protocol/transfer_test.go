// internal/protocol/transfer_test.go
package protocol

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/tamzrod/bootcom/internal/kernel"
	"github.com/tamzrod/bootcom/internal/settings"
)

func memImage(t *testing.T, data []byte) *kernel.Image {
	t.Helper()
	img, err := kernel.MemorySource{Name: "test.img", Data: data}.Resolve(settings.New())
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	return img
}

func TestTransfer_StreamIndependentOfChunking(t *testing.T) {
	image := make([]byte, 37)
	for i := range image {
		image[i] = byte(i * 7)
	}
	want := append(sizeHeader(len(image)), image...)

	for _, chunk := range []int{1, 3, 4, 7, 36, 37, 1024} {
		for _, maxWrite := range []int{0, 2, 5} {
			t.Run(fmt.Sprintf("chunk=%d/max=%d", chunk, maxWrite), func(t *testing.T) {
				port := &fakePort{ack: []byte("OK"), maxWrite: maxWrite, writeTimeouts: 2}
				tm := fastTiming()
				tm.ChunkSize = chunk

				n, err := transfer(context.Background(), port, memImage(t, image), tm, nil, zerolog.Nop())
				if err != nil {
					t.Fatalf("transfer err=%v", err)
				}
				if n != int64(len(image)) {
					t.Fatalf("transfer wrote %d bytes", n)
				}
				if diff := cmp.Diff(want, port.out.Bytes()); diff != "" {
					t.Fatalf("written stream (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestTransfer_EmptyImage(t *testing.T) {
	port := &fakePort{ack: []byte("OK")}
	n, err := transfer(context.Background(), port, memImage(t, nil), fastTiming(), nil, zerolog.Nop())
	if err != nil || n != 0 {
		t.Fatalf("transfer = %d, %v", n, err)
	}
	if !bytes.Equal(port.out.Bytes(), sizeHeader(0)) {
		t.Fatalf("written %v", port.out.Bytes())
	}
}

func TestTransfer_NoAckWritesNoImage(t *testing.T) {
	polls := 0
	port := &fakePort{}
	tm := fastTiming()

	_, err := transfer(context.Background(), &pollCounter{fakePort: port, polls: &polls}, memImage(t, []byte("data")), tm, nil, zerolog.Nop())
	if !errors.Is(err, ErrNoAck) {
		t.Fatalf("expected ErrNoAck, got %v", err)
	}
	if polls != tm.AckAttempts {
		t.Fatalf("polled %d times, want %d", polls, tm.AckAttempts)
	}
	if !bytes.Equal(port.out.Bytes(), sizeHeader(4)) {
		t.Fatalf("expected only the size header, got %v", port.out.Bytes())
	}
}

func TestTransfer_StaleInputCleared(t *testing.T) {
	// Stale input must not count as the acknowledgment.
	port := &fakePort{in: []byte("OK")}

	_, err := transfer(context.Background(), port, memImage(t, []byte("x")), fastTiming(), nil, zerolog.Nop())
	if !errors.Is(err, ErrNoAck) {
		t.Fatalf("expected ErrNoAck after clearing stale input, got %v", err)
	}
	if port.clears != 1 {
		t.Fatalf("input cleared %d times", port.clears)
	}
}

func TestTransfer_WrongAck(t *testing.T) {
	port := &fakePort{ack: []byte("NO")}
	_, err := transfer(context.Background(), port, memImage(t, []byte("data")), fastTiming(), nil, zerolog.Nop())
	var ackErr *AckError
	if !errors.As(err, &ackErr) || string(ackErr.Got) != "NO" {
		t.Fatalf("expected AckError, got %v", err)
	}
	if !bytes.Equal(port.out.Bytes(), sizeHeader(4)) {
		t.Fatalf("wrote image after bad ack: %v", port.out.Bytes())
	}
}

func TestTransfer_ImageTooLarge(t *testing.T) {
	port := &fakePort{ack: []byte("OK")}
	img := &kernel.Image{Name: "huge.img", Size: math.MaxUint32 + 1, ReadCloser: io.NopCloser(bytes.NewReader(nil))}

	_, err := transfer(context.Background(), port, img, fastTiming(), nil, zerolog.Nop())
	var tooLarge *ImageTooLargeError
	if !errors.As(err, &tooLarge) || tooLarge.Size != math.MaxUint32+1 {
		t.Fatalf("expected ImageTooLargeError, got %v", err)
	}
	if port.writes != 0 || port.clears != 0 {
		t.Fatalf("oversized image touched the port: writes=%d clears=%d", port.writes, port.clears)
	}
}

func TestTransfer_ShortImage(t *testing.T) {
	port := &fakePort{ack: []byte("OK")}
	img := &kernel.Image{Name: "short.img", Size: 10, ReadCloser: io.NopCloser(bytes.NewReader([]byte("123456")))}

	n, err := transfer(context.Background(), port, img, fastTiming(), nil, zerolog.Nop())
	if !errors.Is(err, ErrShortImage) {
		t.Fatalf("expected ErrShortImage, got %v", err)
	}
	if n != 4 {
		t.Fatalf("expected one full chunk written before the short read, got %d", n)
	}
}

func TestTransfer_WriteErrorFailsAttempt(t *testing.T) {
	boom := errors.New("fake: write failed")
	port := &fakePort{ack: []byte("OK")}
	tm := fastTiming()

	// Let the header through, then fail.
	w := &failAfter{fakePort: port, allowed: 1, err: boom}
	_, err := transfer(context.Background(), w, memImage(t, []byte("data")), tm, nil, zerolog.Nop())
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}

// pollCounter counts BytesToRead calls.
type pollCounter struct {
	*fakePort
	polls *int
}

func (p *pollCounter) BytesToRead() (int, error) {
	*p.polls++
	return p.fakePort.BytesToRead()
}

// failAfter fails every write after the first allowed ones.
type failAfter struct {
	*fakePort
	allowed int
	err     error
}

func (f *failAfter) Write(b []byte) (int, error) {
	if f.allowed == 0 {
		return 0, f.err
	}
	f.allowed--
	return f.fakePort.Write(b)
}
