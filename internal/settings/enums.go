// internal/settings/enums.go
package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// ---- DATA BITS ----

// DataBits is the number of bits per character.
type DataBits int

const (
	DataBits5 DataBits = 5
	DataBits6 DataBits = 6
	DataBits7 DataBits = 7
	DataBits8 DataBits = 8
)

func (d DataBits) valid() bool { return d >= DataBits5 && d <= DataBits8 }

func (d DataBits) String() string { return strconv.Itoa(int(d)) }

// ParseDataBits accepts "5" to "8".
func ParseDataBits(v string) (DataBits, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || !DataBits(n).valid() {
		return 0, fmt.Errorf("settings: data bits must be one of 5, 6, 7, 8, got %q", v)
	}
	return DataBits(n), nil
}

// ---- STOP BITS ----

// StopBits is the number of stop bits per character.
type StopBits int

const (
	StopBits1 StopBits = 1
	StopBits2 StopBits = 2
)

func (s StopBits) valid() bool { return s == StopBits1 || s == StopBits2 }

func (s StopBits) String() string { return strconv.Itoa(int(s)) }

// ParseStopBits accepts "1" or "2".
func ParseStopBits(v string) (StopBits, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || !StopBits(n).valid() {
		return 0, fmt.Errorf("settings: stop bits must be 1 or 2, got %q", v)
	}
	return StopBits(n), nil
}

// ---- PARITY ----

// Parity is the parity checking mode.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) valid() bool { return p >= ParityNone && p <= ParityEven }

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	}
	return fmt.Sprintf("parity(%d)", int(p))
}

func (p Parity) letter() string {
	switch p {
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	}
	return "N"
}

// ParseParity accepts "none", "odd" or "even".
func ParseParity(v string) (Parity, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "":
		return ParityNone, nil
	case "odd":
		return ParityOdd, nil
	case "even":
		return ParityEven, nil
	}
	return 0, fmt.Errorf("settings: parity must be none, odd or even, got %q", v)
}

// ---- FLOW CONTROL ----

// FlowControl is the signalling used to control data transfer.
type FlowControl int

const (
	FlowNone FlowControl = iota
	FlowSoftware
	FlowHardware
)

func (f FlowControl) valid() bool { return f >= FlowNone && f <= FlowHardware }

func (f FlowControl) String() string {
	switch f {
	case FlowNone:
		return "none"
	case FlowSoftware:
		return "soft"
	case FlowHardware:
		return "hard"
	}
	return fmt.Sprintf("flow(%d)", int(f))
}

// ParseFlowControl accepts "none", "soft"/"software" or "hard"/"hardware".
func ParseFlowControl(v string) (FlowControl, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "":
		return FlowNone, nil
	case "soft", "software":
		return FlowSoftware, nil
	case "hard", "hardware":
		return FlowHardware, nil
	}
	return 0, fmt.Errorf("settings: flow control must be none, soft or hard, got %q", v)
}
