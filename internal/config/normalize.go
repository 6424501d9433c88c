// internal/config/normalize.go
package config

import (
	"strings"
	"time"

	"github.com/tamzrod/bootcom/internal/ports"
	"github.com/tamzrod/bootcom/internal/protocol"
	"github.com/tamzrod/bootcom/internal/serialport"
	"github.com/tamzrod/bootcom/internal/settings"
)

// DefaultLogLevel is used when log.level is empty.
const DefaultLogLevel = "warn"

// Normalize fills unset fields with defaults and canonicalizes names.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ---- serial ----
	s := &cfg.Serial
	s.Parity = canon(s.Parity, settings.DefaultParity.String())
	s.FlowControl = canon(s.FlowControl, settings.DefaultFlowControl.String())
	s.Backend = canon(s.Backend, string(serialport.DefaultBackend))
	if s.BaudRate == 0 {
		s.BaudRate = settings.DefaultBaudRate
	}
	if s.DataBits == 0 {
		s.DataBits = int(settings.DefaultDataBits)
	}
	if s.StopBits == 0 {
		s.StopBits = int(settings.DefaultStopBits)
	}
	if s.ReadTimeoutMs == 0 {
		s.ReadTimeoutMs = ms(serialport.DefaultReadTimeout)
	}

	// soft/hard are accepted spellings; store the short form.
	if fc, err := settings.ParseFlowControl(s.FlowControl); err == nil {
		s.FlowControl = fc.String()
	}

	// ---- timing ----
	d := protocol.DefaultTiming()
	t := &cfg.Timing
	fill(&t.WaitIntervalMs, ms(ports.DefaultWaitInterval))
	fill(&t.SelectIntervalMs, ms(ports.DefaultSelectInterval))
	fill(&t.CancelPollMs, ms(ports.DefaultCancelPoll))
	fill(&t.OpenAttempts, d.OpenAttempts)
	fill(&t.OpenRetryMs, ms(d.OpenRetryDelay))
	fill(&t.IdlePollMs, ms(d.IdlePoll))
	fill(&t.ReadChunkSize, d.ReadChunkSize)
	fill(&t.AckAttempts, d.AckAttempts)
	fill(&t.AckIntervalMs, ms(d.AckInterval))
	fill(&t.ChunkSize, d.ChunkSize)
	fill(&t.WriteRetryMs, ms(d.WriteRetryDelay))
	fill(&t.PushRetryMs, ms(d.PushRetryDelay))

	// ---- log ----
	cfg.Log.Level = canon(cfg.Log.Level, DefaultLogLevel)
}

func canon(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}

func fill(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func ms(d time.Duration) int { return int(d / time.Millisecond) }
