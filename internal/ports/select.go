// internal/ports/select.go
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/bootcom/internal/serialport"
)

// DefaultSelectInterval is the pause between enumerations while no
// device is attached.
const DefaultSelectInterval = time.Second

// SelectConfig is the runtime config of a Selector.
type SelectConfig struct {
	Enumerator serialport.Enumerator
	Chooser    Chooser
	Interval   time.Duration
	Indicator  Indicator
	Logger     zerolog.Logger
}

// Selector lets the user pick one of the attached devices.
type Selector struct {
	cfg SelectConfig
}

// NewSelector creates a selector. A zero Interval takes the default.
func NewSelector(cfg SelectConfig) (*Selector, error) {
	if cfg.Enumerator == nil {
		return nil, errors.New("ports: enumerator required")
	}
	if cfg.Chooser == nil {
		return nil, errors.New("ports: chooser required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSelectInterval
	}
	return &Selector{cfg: cfg}, nil
}

// Select enumerates until at least one device is attached, then asks
// the Chooser. It returns the raw path of the pick, or "" when the user
// declined so the caller can enumerate again.
func (s *Selector) Select(ctx context.Context) (string, error) {
	for {
		ids, err := list(s.cfg.Enumerator)
		if err != nil {
			s.cfg.Logger.Warn().Err(err).Msg("enumeration failed")
		}

		if len(ids) > 0 {
			hide(s.cfg.Indicator)
			choice, err := s.cfg.Chooser.Choose(ctx, ids)
			if err != nil {
				return "", err
			}
			return serialport.StripMetadata(choice), nil
		}

		show(s.cfg.Indicator, "Waiting for USB serial controller to be connected...")

		timer := time.NewTimer(s.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			hide(s.cfg.Indicator)
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}
