package wallpaper

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeMechanism counts calls and returns a fixed outcome.
type fakeMechanism struct {
	mu       sync.Mutex
	method   Method
	err      error
	panicVal interface{}
	calls    int
	paths    []string
}

func (f *fakeMechanism) mechanism() Mechanism {
	return Mechanism{
		Method: f.method,
		Attempt: func(_ context.Context, req Request) error {
			f.mu.Lock()
			f.calls++
			f.paths = append(f.paths, req.Path)
			f.mu.Unlock()
			if f.panicVal != nil {
				panic(f.panicVal)
			}
			return f.err
		},
	}
}

func (f *fakeMechanism) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func mechanisms(fakes ...*fakeMechanism) []Mechanism {
	ms := make([]Mechanism, len(fakes))
	for i, f := range fakes {
		ms[i] = f.mechanism()
	}
	return ms
}

// writePNG writes a small PNG into dir and returns its path.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		img.Set(x, x%4, color.RGBA{R: 30, G: 144, B: 255, A: 255})
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}
