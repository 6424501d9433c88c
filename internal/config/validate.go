// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tamzrod/bootcom/internal/serialport"
	"github.com/tamzrod/bootcom/internal/settings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	// ------------------------------------------------------------
	// SERIAL LINE
	// ------------------------------------------------------------

	s := cfg.Serial
	if s.BaudRate < 0 {
		return fmt.Errorf("serial.baud_rate must be >= 0 (0 = default), got %d", s.BaudRate)
	}
	if s.DataBits != 0 {
		if _, err := settings.ParseDataBits(strconv.Itoa(s.DataBits)); err != nil {
			return fmt.Errorf("serial.data_bits: %w", err)
		}
	}
	if s.StopBits != 0 {
		if _, err := settings.ParseStopBits(strconv.Itoa(s.StopBits)); err != nil {
			return fmt.Errorf("serial.stop_bits: %w", err)
		}
	}
	if _, err := settings.ParseParity(s.Parity); err != nil {
		return fmt.Errorf("serial.parity: %w", err)
	}
	if _, err := settings.ParseFlowControl(s.FlowControl); err != nil {
		return fmt.Errorf("serial.flow_control: %w", err)
	}
	if _, err := serialport.ParseBackend(canon(s.Backend, "")); err != nil {
		return fmt.Errorf("serial.backend: %w", err)
	}
	if s.ReadTimeoutMs < 0 {
		return fmt.Errorf("serial.read_timeout_ms must be >= 0, got %d", s.ReadTimeoutMs)
	}

	// ------------------------------------------------------------
	// TIMING (zero means default)
	// ------------------------------------------------------------

	t := cfg.Timing
	for _, f := range []struct {
		name string
		v    int
	}{
		{"wait_interval_ms", t.WaitIntervalMs},
		{"select_interval_ms", t.SelectIntervalMs},
		{"cancel_poll_ms", t.CancelPollMs},
		{"open_attempts", t.OpenAttempts},
		{"open_retry_ms", t.OpenRetryMs},
		{"idle_poll_ms", t.IdlePollMs},
		{"read_chunk_size", t.ReadChunkSize},
		{"ack_attempts", t.AckAttempts},
		{"ack_interval_ms", t.AckIntervalMs},
		{"chunk_size", t.ChunkSize},
		{"write_retry_ms", t.WriteRetryMs},
		{"push_retry_ms", t.PushRetryMs},
	} {
		if f.v < 0 {
			return fmt.Errorf("timing.%s must be >= 0, got %d", f.name, f.v)
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if lvl := canon(cfg.Log.Level, ""); lvl != "" {
		if _, err := zerolog.ParseLevel(lvl); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	// ------------------------------------------------------------
	// BACKEND CAPABILITIES (checked against the effective settings)
	// ------------------------------------------------------------

	eff := *cfg
	Normalize(&eff)

	line, err := eff.Settings()
	if err != nil {
		return err
	}
	backend, err := eff.Backend()
	if err != nil {
		return err
	}
	if err := backend.Supports(line); err != nil {
		return fmt.Errorf("serial: %w", err)
	}

	return nil
}
