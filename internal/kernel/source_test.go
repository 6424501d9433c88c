// internal/kernel/source_test.go
package kernel

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tamzrod/bootcom/internal/settings"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func readAll(t *testing.T, img *Image) []byte {
	t.Helper()
	defer img.Close()
	b, err := io.ReadAll(img)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	return b
}

func TestFileSource_DefaultImage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultImage, []byte("kernel"))

	img, err := FileSource{Dir: dir}.Resolve(settings.New())
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if img.Size != 6 {
		t.Fatalf("expected size 6, got %d", img.Size)
	}
	if got := readAll(t, img); string(got) != "kernel" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestFileSource_ExplicitImage(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "custom.bin", []byte{1, 2, 3})

	img, err := FileSource{}.Resolve(settings.New(settings.WithKernelImage(p)))
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if img.Name != p || img.Size != 3 {
		t.Fatalf("unexpected image %s/%d", img.Name, img.Size)
	}
	img.Close()
}

func TestFileSource_MissingWithoutPicker(t *testing.T) {
	_, err := FileSource{Dir: t.TempDir()}.Resolve(settings.New())
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestFileSource_PickerFallback(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.img", []byte("bb"))
	a := writeFile(t, dir, "a.img", []byte("a"))
	writeFile(t, dir, "notes.txt", []byte("x"))

	var offers [][]string
	calls := 0
	picker := PickerFunc(func(c []string) (string, error) {
		offers = append(offers, c)
		calls++
		switch calls {
		case 1:
			return "", nil // refresh
		case 2:
			return filepath.Join(dir, "gone.img"), nil // unopenable
		}
		return b, nil
	})

	img, err := FileSource{Dir: dir, Picker: picker}.Resolve(settings.New())
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if got := readAll(t, img); string(got) != "bb" {
		t.Fatalf("unexpected content %q", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 picker calls, got %d", calls)
	}
	for i, o := range offers {
		if diff := cmp.Diff([]string{a, b}, o); diff != "" {
			t.Fatalf("offer %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestFileSource_PickerCancel(t *testing.T) {
	picker := PickerFunc(func([]string) (string, error) { return "", ErrCancelled })
	_, err := FileSource{Dir: t.TempDir(), Picker: picker}.Resolve(settings.New())
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestFileSource_DirectoryRejected(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, DefaultImage), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := (FileSource{Dir: dir}).Resolve(settings.New()); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage for directory, got %v", err)
	}
}

func TestMemorySource(t *testing.T) {
	img, err := MemorySource{Data: []byte("0123456789")}.Resolve(settings.New())
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if img.Name != "memory" || img.Size != 10 {
		t.Fatalf("unexpected image %s/%d", img.Name, img.Size)
	}
	if got := readAll(t, img); string(got) != "0123456789" {
		t.Fatalf("unexpected content %q", got)
	}
}
