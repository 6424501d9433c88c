// internal/console/chooser.go
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tamzrod/bootcom/internal/kernel"
)

// Chooser renders numbered lists and reads the answer as a line.
type Chooser struct {
	In  *Input
	Out io.Writer
}

// Choose lets the user pick a serial device. An empty or invalid
// answer returns "" so the caller enumerates again.
func (c Chooser) Choose(ctx context.Context, ids []string) (string, error) {
	fmt.Fprintln(c.Out, "Select a serial device:")
	for i, id := range ids {
		fmt.Fprintf(c.Out, "  %d) %s\n", i+1, id)
	}
	fmt.Fprint(c.Out, "Number (Enter to rescan): ")

	line, err := c.In.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return c.pick(line, ids), nil
}

// Picker returns a kernel.Picker reading answers under ctx.
func (c Chooser) Picker(ctx context.Context) kernel.Picker {
	return kernel.PickerFunc(func(candidates []string) (string, error) {
		return c.pickImage(ctx, candidates)
	})
}

func (c Chooser) pickImage(ctx context.Context, candidates []string) (string, error) {
	fmt.Fprintln(c.Out, "\r\nKernel image not found. Select an image:")
	if len(candidates) == 0 {
		fmt.Fprintln(c.Out, "  (no *.img files found)")
	}
	for i, p := range candidates {
		fmt.Fprintf(c.Out, "  %d) %s\n", i+1, p)
	}
	fmt.Fprintln(c.Out, "  c) cancel and go back")
	fmt.Fprint(c.Out, "Number (Enter to rescan): ")

	line, err := c.In.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if strings.EqualFold(strings.TrimSpace(line), "c") {
		return "", kernel.ErrCancelled
	}
	return c.pick(line, candidates), nil
}

func (c Chooser) pick(line string, items []string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(items) {
		fmt.Fprintf(c.Out, "Invalid choice %q\n", line)
		return ""
	}
	return items[n-1]
}
