// internal/kernel/source.go
package kernel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tamzrod/bootcom/internal/settings"
)

// DefaultImage is the image file name used when Settings.KernelImage is empty.
const DefaultImage = "kernel8.img"

var (
	// ErrNoImage is returned when no image can be found or picked.
	ErrNoImage = errors.New("kernel: no image available")

	// ErrCancelled is returned when the user backs out of image selection.
	ErrCancelled = errors.New("kernel: selection cancelled")
)

// Image is an opened kernel image of known size.
// The caller owns it and must Close it.
type Image struct {
	Name string
	Size int64
	io.ReadCloser
}

// Source supplies the kernel image for one transfer attempt.
type Source interface {
	Resolve(s settings.Settings) (*Image, error)
}

// Picker asks the user to choose one of the candidate images.
//
// It returns the chosen path, "" to request a fresh listing, or
// ErrCancelled to abandon selection.
type Picker interface {
	PickImage(candidates []string) (string, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(candidates []string) (string, error)

func (f PickerFunc) PickImage(candidates []string) (string, error) { return f(candidates) }

// ---- FILE SOURCE ----

// FileSource opens images from the filesystem.
//
// The configured image (or DefaultImage) is tried first. When it cannot
// be opened and a Picker is set, the *.img files in Dir are offered
// until one opens or the user cancels.
type FileSource struct {
	// Dir is where relative image names and candidates are looked up.
	// Empty means the working directory.
	Dir string

	Picker Picker
	Logger zerolog.Logger
}

func (f FileSource) Resolve(s settings.Settings) (*Image, error) {
	name := s.KernelImage
	if name == "" {
		name = DefaultImage
	}

	img, err := f.open(name)
	if err == nil {
		return img, nil
	}
	f.Logger.Warn().Err(err).Str("image", name).Msg("kernel image not available")

	if f.Picker == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoImage, err)
	}

	for {
		candidates, err := f.candidates()
		if err != nil {
			return nil, err
		}

		choice, err := f.Picker.PickImage(candidates)
		if err != nil {
			return nil, err
		}
		if choice == "" {
			continue
		}

		img, err := f.open(choice)
		if err != nil {
			f.Logger.Warn().Err(err).Str("image", choice).Msg("picked image cannot be opened")
			continue
		}
		return img, nil
	}
}

func (f FileSource) path(name string) string {
	if filepath.IsAbs(name) || f.Dir == "" {
		return name
	}
	return filepath.Join(f.Dir, name)
}

func (f FileSource) open(name string) (*Image, error) {
	p := f.path(name)

	fh, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("kernel: open %s: %w", p, err)
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("kernel: stat %s: %w", p, err)
	}
	if info.IsDir() {
		fh.Close()
		return nil, fmt.Errorf("kernel: %s is a directory", p)
	}

	return &Image{Name: p, Size: info.Size(), ReadCloser: fh}, nil
}

// candidates lists the *.img files in Dir, sorted by name.
func (f FileSource) candidates() ([]string, error) {
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.img"))
	if err != nil {
		return nil, fmt.Errorf("kernel: list images: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// ---- MEMORY SOURCE ----

// MemorySource serves a fixed in-memory image.
// The zero Name reads as "memory".
type MemorySource struct {
	Name string
	Data []byte
}

func (m MemorySource) Resolve(settings.Settings) (*Image, error) {
	name := m.Name
	if name == "" {
		name = "memory"
	}
	return &Image{
		Name:       name,
		Size:       int64(len(m.Data)),
		ReadCloser: io.NopCloser(bytes.NewReader(m.Data)),
	}, nil
}

// SourceFunc adapts a function to Source.
type SourceFunc func(s settings.Settings) (*Image, error)

func (f SourceFunc) Resolve(s settings.Settings) (*Image, error) { return f(s) }
