// internal/status/constants.go
package status

// Session health codes.
// These values are reported in logs and MUST stay stable.

// HealthUnknown represents the state before any session ran.
const HealthUnknown uint16 = 0

// HealthOK represents a session that is serving or ended cleanly.
const HealthOK uint16 = 1

// HealthError represents a session that ended on a port failure.
const HealthError uint16 = 2

// ---- EXIT STATUS ----

// ExitOK is the process status after a clean termination.
const ExitOK = 0

// ExitError is the process status after an unrecoverable error or an
// explicit user termination.
const ExitError = 1

// HealthName returns a short label for a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	}
	return "unknown"
}
