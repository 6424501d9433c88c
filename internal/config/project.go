// internal/config/project.go
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/bootcom/internal/protocol"
	"github.com/tamzrod/bootcom/internal/serialport"
	"github.com/tamzrod/bootcom/internal/settings"
)

// Settings projects the serial and kernel sections into session
// Settings.
func (c *Config) Settings() (settings.Settings, error) {
	s := c.Serial
	opts := []settings.Option{
		settings.WithPath(s.Device),
		settings.WithKernelImage(c.Kernel.Image),
	}
	if s.BaudRate != 0 {
		opts = append(opts, settings.WithBaudRate(s.BaudRate))
	}
	if s.DataBits != 0 {
		db, err := settings.ParseDataBits(strconv.Itoa(s.DataBits))
		if err != nil {
			return settings.Settings{}, fmt.Errorf("config: %w", err)
		}
		opts = append(opts, settings.WithDataBits(db))
	}
	if s.StopBits != 0 {
		sb, err := settings.ParseStopBits(strconv.Itoa(s.StopBits))
		if err != nil {
			return settings.Settings{}, fmt.Errorf("config: %w", err)
		}
		opts = append(opts, settings.WithStopBits(sb))
	}

	p, err := settings.ParseParity(s.Parity)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("config: %w", err)
	}
	fc, err := settings.ParseFlowControl(s.FlowControl)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("config: %w", err)
	}
	opts = append(opts, settings.WithParity(p), settings.WithFlowControl(fc))

	out := settings.New(opts...)
	if err := out.Validate(); err != nil {
		return settings.Settings{}, fmt.Errorf("config: %w", err)
	}
	return out, nil
}

// Backend returns the configured serial backend.
func (c *Config) Backend() (serialport.Backend, error) {
	b, err := serialport.ParseBackend(canon(c.Serial.Backend, ""))
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return b, nil
}

// ReadTimeout is the serial driver read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return millis(c.Serial.ReadTimeoutMs)
}

// LogLevel returns the base log level.
func (c *Config) LogLevel() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(canon(c.Log.Level, DefaultLogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: %w", err)
	}
	return lvl, nil
}

// Protocol returns the session timing.
func (t TimingConfig) Protocol() protocol.Timing {
	return protocol.Timing{
		OpenAttempts:    t.OpenAttempts,
		OpenRetryDelay:  millis(t.OpenRetryMs),
		IdlePoll:        millis(t.IdlePollMs),
		ReadChunkSize:   t.ReadChunkSize,
		AckAttempts:     t.AckAttempts,
		AckInterval:     millis(t.AckIntervalMs),
		ChunkSize:       t.ChunkSize,
		WriteRetryDelay: millis(t.WriteRetryMs),
		PushRetryDelay:  millis(t.PushRetryMs),
	}
}

func (t TimingConfig) WaitInterval() time.Duration   { return millis(t.WaitIntervalMs) }
func (t TimingConfig) SelectInterval() time.Duration { return millis(t.SelectIntervalMs) }
func (t TimingConfig) CancelPoll() time.Duration     { return millis(t.CancelPollMs) }

func millis(n int) time.Duration { return time.Duration(n) * time.Millisecond }
