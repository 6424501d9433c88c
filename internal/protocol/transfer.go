// internal/protocol/transfer.go
package protocol

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/bootcom/internal/kernel"
	"github.com/tamzrod/bootcom/internal/serialport"
	"github.com/tamzrod/bootcom/internal/settings"
)

// ackWord is the bootloader's reply to the size header.
var ackWord = []byte("OK")

// Progress describes a kernel push in flight.
type Progress struct {
	Image   string
	Written int64
	Total   int64
}

// ProgressFunc receives progress after every written chunk.
type ProgressFunc func(Progress)

// kernelSend retries the transfer until it succeeds, pausing between
// attempts. An image that cannot fit the size header is abandoned. The
// port always returns to terminal mode.
func (s *Session) kernelSend(ctx context.Context, st kernelSendState) event {
	back := kernelDone{settings: st.settings, port: st.port}

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return back
		}

		n, err := s.push(ctx, st.port, st.settings)
		switch {
		case err == nil:
			s.cfg.Status.Pushed(n)
			s.log.Info().Int64("bytes", n).Int("attempt", attempt).Msg("kernel sent")
			fmt.Fprintf(s.con, "\r\nKernel sent (%d bytes)\r\n", n)
			return back

		case errors.Is(err, kernel.ErrCancelled):
			s.log.Info().Msg("kernel selection cancelled")
			return back

		case ctx.Err() != nil:
			return back
		}

		s.cfg.Status.PushFailed(err)
		s.log.Error().Err(err).Int("attempt", attempt).Msg("kernel push failed")
		fmt.Fprintf(s.con, "\r\nKernel push failed: %v\r\n", err)

		var tooLarge *ImageTooLargeError
		if errors.As(err, &tooLarge) {
			return back
		}
		if !sleep(ctx, s.timing.PushRetryDelay) {
			return back
		}
	}
}

// push runs one full transfer attempt.
func (s *Session) push(ctx context.Context, port serialport.Port, st settings.Settings) (int64, error) {
	if s.cfg.Source == nil {
		return 0, kernel.ErrNoImage
	}

	img, err := s.cfg.Source.Resolve(st)
	if err != nil {
		return 0, err
	}
	defer img.Close()

	return transfer(ctx, port, img, s.timing, s.cfg.Progress, s.log)
}

// transfer writes the size header, waits for the acknowledgment and
// streams the image.
func transfer(ctx context.Context, port serialport.Port, img *kernel.Image, t Timing, progress ProgressFunc, log zerolog.Logger) (int64, error) {
	if img.Size < 0 {
		return 0, fmt.Errorf("protocol: image %s has negative size %d", img.Name, img.Size)
	}
	if img.Size > math.MaxUint32 {
		return 0, &ImageTooLargeError{Name: img.Name, Size: img.Size}
	}

	if err := port.ClearInput(); err != nil {
		return 0, fmt.Errorf("protocol: clear input: %w", err)
	}

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(img.Size))
	if err := writeAll(ctx, port, header[:], t.WriteRetryDelay); err != nil {
		return 0, fmt.Errorf("protocol: write size header: %w", err)
	}
	log.Debug().Str("image", img.Name).Int64("size", img.Size).Msg("size header sent")

	if err := waitAck(ctx, port, t, log); err != nil {
		return 0, err
	}

	buf := make([]byte, t.ChunkSize)
	var written int64
	for written < img.Size {
		want := min(int64(len(buf)), img.Size-written)

		n, err := io.ReadFull(img, buf[:want])
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return written, fmt.Errorf("%w: %d of %d bytes", ErrShortImage, written+int64(n), img.Size)
			}
			return written, fmt.Errorf("protocol: read image: %w", err)
		}

		if err := writeAll(ctx, port, buf[:n], t.WriteRetryDelay); err != nil {
			return written, fmt.Errorf("protocol: write image at offset %d: %w", written, err)
		}
		written += int64(n)

		log.Trace().Int64("written", written).Int64("total", img.Size).Msg("chunk sent")
		if progress != nil {
			progress(Progress{Image: img.Name, Written: written, Total: img.Size})
		}
	}

	return written, nil
}

// waitAck polls for the two acknowledgment bytes.
// No image byte may be written unless it returns nil.
func waitAck(ctx context.Context, port serialport.Port, t Timing, log zerolog.Logger) error {
	for attempt := 1; attempt <= t.AckAttempts; attempt++ {
		n, err := port.BytesToRead()
		if err != nil {
			return fmt.Errorf("protocol: wait for acknowledgment: %w", err)
		}

		if n >= len(ackWord) {
			got := make([]byte, len(ackWord))
			if _, err := io.ReadFull(port, got); err != nil {
				return fmt.Errorf("protocol: read acknowledgment: %w", err)
			}
			if e := log.Debug(); e.Enabled() {
				e.Str("hex", hex.Dump(got)).Msg("acknowledgment")
			}
			if !bytes.Equal(got, ackWord) {
				return &AckError{Got: got}
			}
			return nil
		}

		log.Debug().Int("attempt", attempt).Int("of", t.AckAttempts).Msg("waiting for acknowledgment")
		if attempt < t.AckAttempts && !sleep(ctx, t.AckInterval) {
			return ctx.Err()
		}
	}
	return ErrNoAck
}

// writeAll writes p, retrying the unwritten remainder after a timeout.
func writeAll(ctx context.Context, port serialport.Port, p []byte, retryDelay time.Duration) error {
	for len(p) > 0 {
		n, err := port.Write(p)
		p = p[n:]

		switch {
		case err == nil && n == 0:
			return io.ErrShortWrite
		case err == nil:
		case serialport.IsTimeout(err):
			if !sleep(ctx, retryDelay) {
				return ctx.Err()
			}
		default:
			return err
		}
	}
	return nil
}
