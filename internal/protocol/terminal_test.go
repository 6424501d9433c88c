// internal/protocol/terminal_test.go
package protocol

import (
	"bytes"
	"testing"
)

func TestSplitTrigger(t *testing.T) {
	cases := []struct {
		name      string
		chunk     []byte
		forward   []byte
		triggered bool
	}{
		{"exactly three at end", []byte{'A', 'B', 3, 3, 3}, []byte{'A', 'B'}, true},
		{"only trigger", []byte{3, 3, 3}, []byte{}, true},
		{"two at end", []byte{'A', 3, 3}, []byte{'A', 3, 3}, false},
		{"four at end", []byte{'A', 3, 3, 3, 3}, []byte{'A', 3, 3, 3, 3}, false},
		{"three not at end", []byte{3, 3, 3, 'A'}, []byte{3, 3, 3, 'A'}, false},
		{"three in middle", []byte{'x', 3, 3, 3, 'y'}, []byte{'x', 3, 3, 3, 'y'}, false},
		{"empty", []byte{}, []byte{}, false},
		{"plain text", []byte("hello\r\n"), []byte("hello\r\n"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, trig := splitTrigger(tc.chunk)
			if trig != tc.triggered {
				t.Fatalf("triggered=%v, want %v", trig, tc.triggered)
			}
			if !bytes.Equal(got, tc.forward) {
				t.Fatalf("forward=%v, want %v", got, tc.forward)
			}
		})
	}
}
