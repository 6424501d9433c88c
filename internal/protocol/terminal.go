// internal/protocol/terminal.go
package protocol

import (
	"context"
	"encoding/hex"
)

// triggerByte is the sentinel the bootloader sends three times to ask
// for a kernel.
const (
	triggerByte = 0x03
	triggerLen  = 3
)

// splitTrigger reports whether chunk ends in exactly triggerLen
// sentinel bytes and returns the bytes to forward.
func splitTrigger(chunk []byte) ([]byte, bool) {
	run := 0
	for i := len(chunk) - 1; i >= 0 && chunk[i] == triggerByte; i-- {
		run++
	}
	if run != triggerLen {
		return chunk, false
	}
	return chunk[:len(chunk)-triggerLen], true
}

// terminal relays inbound bytes until the trigger, an I/O error, or the
// end of ctx. The port is closed unless it moves on to kernel mode.
func (s *Session) terminal(ctx context.Context, st terminalState) event {
	buf := make([]byte, s.timing.ReadChunkSize)

	end := func(err error) event {
		if err != nil {
			s.log.Error().Err(err).Msg("serial i/o failed")
			s.cfg.Status.PortFailed(err)
		}
		if cerr := st.port.Close(); cerr != nil {
			s.log.Debug().Err(cerr).Msg("close port")
		}
		return sessionEnded{withError: err != nil}
	}

	for {
		if ctx.Err() != nil {
			return end(nil)
		}

		pending, err := st.port.BytesToRead()
		if err != nil {
			return end(err)
		}
		if pending == 0 {
			if !sleep(ctx, s.timing.IdlePoll) {
				return end(nil)
			}
			continue
		}

		n, err := st.port.Read(buf[:min(pending, len(buf))])
		chunk := buf[:n]
		if n > 0 {
			s.log.Trace().Int("bytes", n).Msg("rx")
			if e := s.log.Debug(); e.Enabled() {
				e.Str("hex", hex.Dump(chunk)).Msg("rx chunk")
			}
		}

		data, triggered := splitTrigger(chunk)
		if len(data) > 0 {
			if _, werr := s.out.Write(data); werr != nil {
				s.log.Warn().Err(werr).Msg("forward terminal output")
			}
		}
		if err != nil {
			return end(err)
		}

		if triggered {
			s.log.Info().Msg("kernel request received")
			return triggerSeen{settings: st.settings, port: st.port}
		}
	}
}
