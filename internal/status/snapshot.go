// internal/status/snapshot.go
package status

import "github.com/rs/zerolog"

// Snapshot is a point-in-time copy of the session counters.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health       uint16
	Sessions     int
	PortFailures int
	KernelPushes int
	FailedPushes int
	BytesPushed  int64
	LastError    string
}

// MarshalZerologObject renders the snapshot as a log object.
func (s Snapshot) MarshalZerologObject(e *zerolog.Event) {
	e.Str("health", HealthName(s.Health)).
		Int("sessions", s.Sessions).
		Int("port_failures", s.PortFailures).
		Int("kernel_pushes", s.KernelPushes).
		Int("failed_pushes", s.FailedPushes).
		Int64("bytes_pushed", s.BytesPushed)
	if s.LastError != "" {
		e.Str("last_error", s.LastError)
	}
}
