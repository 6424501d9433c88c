// internal/console/status.go
package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tamzrod/bootcom/internal/protocol"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// Spinner draws a single self-overwriting status line.
type Spinner struct {
	Out io.Writer

	mu    sync.Mutex
	frame int
	shown bool
}

func (s *Spinner) Show(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.Out, "\r\033[K%s %s", spinnerFrames[s.frame%len(spinnerFrames)], msg)
	s.frame++
	s.shown = true
}

func (s *Spinner) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shown {
		fmt.Fprint(s.Out, "\r\033[K")
		s.shown = false
	}
}

// PushProgress returns a progress callback drawing
// "Pushing [elapsed] written/total" on one line.
func PushProgress(out io.Writer) protocol.ProgressFunc {
	var start time.Time
	return func(p protocol.Progress) {
		if start.IsZero() || p.Written <= 0 {
			start = time.Now()
		}
		pct := 100.0
		if p.Total > 0 {
			pct = float64(p.Written) * 100 / float64(p.Total)
		}
		fmt.Fprintf(out, "\r\033[KPushing %s [%s] %d/%d bytes (%.0f%%)",
			p.Image, time.Since(start).Round(100*time.Millisecond), p.Written, p.Total, pct)
		if p.Written >= p.Total {
			fmt.Fprint(out, "\r\n")
			start = time.Time{}
		}
	}
}
