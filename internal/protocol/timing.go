// internal/protocol/timing.go
package protocol

import "time"

// Timing holds the retry bounds and poll intervals of a session.
// Zero fields take the defaults of DefaultTiming.
type Timing struct {
	// OpenAttempts bounds how often opening the port is tried.
	OpenAttempts   int
	OpenRetryDelay time.Duration

	// IdlePoll is the pause in terminal mode when nothing is pending.
	IdlePoll time.Duration

	// ReadChunkSize bounds a single terminal read.
	ReadChunkSize int

	// AckAttempts bounds the polls for the "OK" acknowledgment.
	AckAttempts int
	AckInterval time.Duration

	// ChunkSize is the image write size.
	ChunkSize int

	// WriteRetryDelay is the pause before retrying a timed-out write.
	WriteRetryDelay time.Duration

	// PushRetryDelay is the pause between failed kernel push attempts.
	PushRetryDelay time.Duration
}

// DefaultTiming returns the timing used by the CLI.
func DefaultTiming() Timing {
	return Timing{
		OpenAttempts:    5,
		OpenRetryDelay:  time.Second,
		IdlePoll:        100 * time.Millisecond,
		ReadChunkSize:   4096,
		AckAttempts:     9,
		AckInterval:     time.Second,
		ChunkSize:       1024,
		WriteRetryDelay: 50 * time.Millisecond,
		PushRetryDelay:  time.Second,
	}
}

func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.OpenAttempts <= 0 {
		t.OpenAttempts = d.OpenAttempts
	}
	if t.OpenRetryDelay <= 0 {
		t.OpenRetryDelay = d.OpenRetryDelay
	}
	if t.IdlePoll <= 0 {
		t.IdlePoll = d.IdlePoll
	}
	if t.ReadChunkSize <= 0 {
		t.ReadChunkSize = d.ReadChunkSize
	}
	if t.AckAttempts <= 0 {
		t.AckAttempts = d.AckAttempts
	}
	if t.AckInterval <= 0 {
		t.AckInterval = d.AckInterval
	}
	if t.ChunkSize <= 0 {
		t.ChunkSize = d.ChunkSize
	}
	if t.WriteRetryDelay <= 0 {
		t.WriteRetryDelay = d.WriteRetryDelay
	}
	if t.PushRetryDelay <= 0 {
		t.PushRetryDelay = d.PushRetryDelay
	}
	return t
}
