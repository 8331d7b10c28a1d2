package wallpaper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareConvertsToBMP(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "wind.png")
	dst := filepath.Join(dir, "out", "wind.bmp")

	got, err := Prepare(src, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, got)

	info, err := Inspect(dst)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "bmp", Width: 8, Height: 4}, info)
	assert.NoFileExists(t, dst+".tmp")
}

func TestPrepareKeepsBMPAndEmptyTarget(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "wind.png")
	bmpPath := filepath.Join(dir, "wind.bmp")
	_, err := Prepare(src, bmpPath)
	require.NoError(t, err)

	got, err := Prepare(bmpPath, filepath.Join(dir, "again.bmp"))
	require.NoError(t, err)
	assert.Equal(t, bmpPath, got)
	assert.NoFileExists(t, filepath.Join(dir, "again.bmp"))

	got, err = Prepare(src, "")
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestPrepareRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, os.WriteFile(path, []byte("<html>not an image</html>"), 0644))

	_, err := Prepare(path, path+".bmp")
	assert.Error(t, err)
	assert.NoFileExists(t, path+".bmp")
}
