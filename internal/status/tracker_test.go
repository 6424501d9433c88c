// internal/status/tracker_test.go
package status

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestTracker_Counters(t *testing.T) {
	tr := NewTracker()
	if got := tr.Snapshot().Health; got != HealthUnknown {
		t.Fatalf("expected unknown health, got %d", got)
	}

	tr.SessionStarted()
	tr.Pushed(10)
	tr.PushFailed(errors.New("no OK"))
	tr.Pushed(5)
	tr.PortFailed(errors.New("unplugged"))
	tr.SessionStarted()

	want := Snapshot{
		Health:       HealthOK,
		Sessions:     2,
		PortFailures: 1,
		KernelPushes: 2,
		FailedPushes: 1,
		BytesPushed:  15,
		LastError:    "unplugged",
	}
	if diff := cmp.Diff(want, tr.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestTracker_NilIsNoop(t *testing.T) {
	var tr *Tracker
	tr.SessionStarted()
	tr.PortFailed(nil)
	tr.Pushed(1)
	tr.PushFailed(nil)
	if diff := cmp.Diff(Snapshot{}, tr.Snapshot()); diff != "" {
		t.Fatalf("nil tracker snapshot (-want +got):\n%s", diff)
	}
}

func TestSnapshot_LogObject(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	log.Info().Object("status", Snapshot{Health: HealthError, PortFailures: 3}).Msg("done")

	var out struct {
		Status map[string]any `json:"status"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if out.Status["health"] != "error" {
		t.Fatalf("unexpected health field: %v", out.Status["health"])
	}
	if out.Status["port_failures"] != float64(3) {
		t.Fatalf("unexpected port_failures field: %v", out.Status["port_failures"])
	}
	if _, ok := out.Status["last_error"]; ok {
		t.Fatalf("empty last_error should be omitted")
	}
}
