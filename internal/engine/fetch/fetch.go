// Package fetch provides the asynchronous resource fetch layer consumed
// by the scene runtime. Each fetch reports success or failure exactly
// once via its callback; callbacks may run on any goroutine, so callers
// must marshal results back to their own update tick.
package fetch

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	// Decoders beyond the stdlib set; assets reference BMP and TIFF
	// images often enough to matter.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	_ "image/jpeg"
	_ "image/png"
)

// Fetcher is the asynchronous fetch surface. Implementations must call
// each callback exactly once. There is no cancellation: once issued, a
// fetch runs to success or failure.
type Fetcher interface {
	FetchBinary(path string, done func([]byte, error))
	FetchText(path string, done func(string, error))
	FetchImage(path string, done func(*image.RGBA, error))
}

// FileFetcher loads resources from a directory tree rooted at Root.
type FileFetcher struct {
	Root string
}

// NewFileFetcher returns a fetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Root: dir}
}

func (f *FileFetcher) resolve(path string) string {
	if filepath.IsAbs(path) || f.Root == "" {
		return path
	}
	return filepath.Join(f.Root, path)
}

// FetchBinary reads a file as raw bytes.
func (f *FileFetcher) FetchBinary(path string, done func([]byte, error)) {
	go func() {
		data, err := os.ReadFile(f.resolve(path))
		if err != nil {
			done(nil, fmt.Errorf("reading %s: %w", path, err))
			return
		}
		done(data, nil)
	}()
}

// FetchText reads a file as text.
func (f *FileFetcher) FetchText(path string, done func(string, error)) {
	go func() {
		data, err := os.ReadFile(f.resolve(path))
		if err != nil {
			done("", fmt.Errorf("reading %s: %w", path, err))
			return
		}
		done(string(data), nil)
	}()
}

// FetchImage reads and decodes an image file into RGBA pixels.
func (f *FileFetcher) FetchImage(path string, done func(*image.RGBA, error)) {
	go func() {
		file, err := os.Open(f.resolve(path))
		if err != nil {
			done(nil, fmt.Errorf("opening %s: %w", path, err))
			return
		}
		defer file.Close()

		img, _, err := image.Decode(file)
		if err != nil {
			done(nil, fmt.Errorf("decoding %s: %w", path, err))
			return
		}
		done(ToRGBA(img), nil)
	}()
}

// ToRGBA converts any decoded image to tightly packed RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}
