// internal/settings/settings_test.go
package settings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew_Defaults(t *testing.T) {
	got := New()
	want := Settings{
		BaudRate:    230400,
		DataBits:    DataBits8,
		StopBits:    StopBits1,
		Parity:      ParityNone,
		FlowControl: FlowNone,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if got.HasPath() {
		t.Fatalf("default settings must not carry a path")
	}
}

func TestNew_ExplicitValuesRoundTrip(t *testing.T) {
	want := Settings{
		Path:        "/dev/ttyUSB0",
		BaudRate:    96000,
		DataBits:    DataBits7,
		StopBits:    StopBits2,
		Parity:      ParityEven,
		FlowControl: FlowHardware,
		KernelImage: "test_kernel8.img",
	}

	opts := []Option{
		WithPath(want.Path),
		WithBaudRate(want.BaudRate),
		WithDataBits(want.DataBits),
		WithStopBits(want.StopBits),
		WithParity(want.Parity),
		WithFlowControl(want.FlowControl),
		WithKernelImage(want.KernelImage),
	}

	forward := New(opts...)
	if diff := cmp.Diff(want, forward); diff != "" {
		t.Fatalf("forward order mismatch (-want +got):\n%s", diff)
	}

	reversed := make([]Option, 0, len(opts))
	for i := len(opts) - 1; i >= 0; i-- {
		reversed = append(reversed, opts[i])
	}
	if diff := cmp.Diff(want, New(reversed...)); diff != "" {
		t.Fatalf("reverse order mismatch (-want +got):\n%s", diff)
	}
}

func TestWithPath_CopiesValue(t *testing.T) {
	orig := New()
	updated := orig.WithPath("/dev/ttyACM0")

	if orig.HasPath() {
		t.Fatalf("original settings mutated: %q", orig.Path)
	}
	if updated.Path != "/dev/ttyACM0" {
		t.Fatalf("expected updated path, got %q", updated.Path)
	}
}

func TestValidate(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	bad := []Settings{
		New(WithBaudRate(0)),
		New(WithDataBits(DataBits(9))),
		New(WithStopBits(StopBits(3))),
		New(WithParity(Parity(7))),
		New(WithFlowControl(FlowControl(-1))),
	}
	for i, s := range bad {
		if err := s.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, s)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if v, err := ParseDataBits("7"); err != nil || v != DataBits7 {
		t.Fatalf("ParseDataBits(7) = %v, %v", v, err)
	}
	if _, err := ParseDataBits("4"); err == nil {
		t.Fatalf("expected error for 4 data bits")
	}
	if v, err := ParseStopBits("2"); err != nil || v != StopBits2 {
		t.Fatalf("ParseStopBits(2) = %v, %v", v, err)
	}
	if _, err := ParseStopBits("1.5"); err == nil {
		t.Fatalf("expected error for 1.5 stop bits")
	}
	if v, err := ParseParity("Odd"); err != nil || v != ParityOdd {
		t.Fatalf("ParseParity(Odd) = %v, %v", v, err)
	}
	if _, err := ParseParity("mark"); err == nil {
		t.Fatalf("expected error for mark parity")
	}
	for in, want := range map[string]FlowControl{
		"none": FlowNone, "soft": FlowSoftware, "software": FlowSoftware,
		"hard": FlowHardware, "hardware": FlowHardware,
	} {
		got, err := ParseFlowControl(in)
		if err != nil || got != want {
			t.Fatalf("ParseFlowControl(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestString(t *testing.T) {
	got := New(WithPath("/dev/ttyUSB0"), WithParity(ParityEven)).String()
	if got != "/dev/ttyUSB0 230400 8E1 flow=none" {
		t.Fatalf("unexpected String(): %q", got)
	}
}
