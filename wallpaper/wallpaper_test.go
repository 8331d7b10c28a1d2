package wallpaper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{ err error }

func (s failingSource) Fetch(context.Context) (string, error) { return "", s.err }

func testWallpaper(t *testing.T, fakes ...*fakeMechanism) (*Wallpaper, string) {
	t.Helper()
	dir := t.TempDir()
	c := &Config{
		Dir:        dir,
		ImagePath:  filepath.Join(dir, "wind.png"),
		Style:      StyleFit,
		ConvertBMP: true,
		SourceType: SourceFile,
		StatusPath: filepath.Join(dir, "status.json"),
	}
	w := &Wallpaper{
		Config:  c,
		Source:  NewSource(c),
		Applier: NewApplier(mechanisms(fakes...)...),
		Status:  &StatusStore{Path: c.StatusPath},
	}
	return w, dir
}

func TestUpdateConvertsAndApplies(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI}
	w, dir := testWallpaper(t, native)
	writePNG(t, dir, "wind.png")

	res, err := w.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{filepath.Join(dir, "wind.bmp")}, native.paths)

	st, err := w.Status.Load()
	require.NoError(t, err)
	assert.True(t, st.Success)
	assert.Equal(t, MethodNativeAPI, st.Method)
	assert.Equal(t, filepath.Join(dir, "wind.bmp"), st.Path)
}

func TestUpdateMissingImage(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI}
	w, _ := testWallpaper(t, native)

	res, err := w.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrFileNotFound)
	assert.Zero(t, native.Calls())

	st, err := w.Status.Load()
	require.NoError(t, err)
	assert.False(t, st.Success)
	assert.Contains(t, st.Error, "file not found")
}

func TestUpdateRejectsUndecodableImage(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI}
	w, dir := testWallpaper(t, native)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wind.png"), []byte("garbage"), 0644))

	_, err := w.Update(context.Background())
	assert.Error(t, err)
	assert.Zero(t, native.Calls())
}

func TestUpdateFetchError(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI}
	w, _ := testWallpaper(t, native)
	w.Source = failingSource{err: errors.New("connection refused")}

	_, err := w.Update(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	st, err := w.Status.Load()
	require.NoError(t, err)
	assert.Equal(t, "connection refused", st.Error)
}

func TestApplyFileWithoutConversion(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI, err: osFailure(MethodNativeAPI)}
	flags := &fakeMechanism{method: MethodNativeAPIWithFlags}
	w, _ := testWallpaper(t, native, flags)
	w.Config.ConvertBMP = false
	img := writePNG(t, t.TempDir(), "other.png")

	res, err := w.ApplyFile(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, MethodNativeAPIWithFlags, res.Method)
	assert.Equal(t, []string{img}, flags.paths)
}

func TestApplyFileDirectoryIsNotAFile(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI}
	w, _ := testWallpaper(t, native)

	res, err := w.ApplyFile(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.ErrorIs(t, res.Err, ErrFileNotFound)
	assert.Zero(t, native.Calls())
}

func TestUpdateDryRun(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI}
	w, dir := testWallpaper(t, native)
	w.DryRun = true
	writePNG(t, dir, "wind.png")

	res, err := w.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NoError(t, res.Err)
	assert.FileExists(t, filepath.Join(dir, "wind.bmp"))
	assert.Zero(t, native.Calls())

	_, err = w.Status.Load()
	assert.ErrorIs(t, err, ErrNoStatus)
}

func TestUpdateDryRunMissingImage(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI}
	w, _ := testWallpaper(t, native)
	w.DryRun = true

	res, err := w.Update(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, res.Err, ErrFileNotFound)
	assert.Zero(t, native.Calls())
}

func TestCheckAppliesTestImage(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI, err: osFailure(MethodNativeAPI)}
	flags := &fakeMechanism{method: MethodNativeAPIWithFlags}
	w, dir := testWallpaper(t, native, flags)
	check := filepath.Join(dir, checkImageName)

	res, err := w.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, MethodNativeAPIWithFlags, res.Method)
	assert.Equal(t, []string{check}, flags.paths)
	assert.NoFileExists(t, check)

	_, err = w.Status.Load()
	assert.ErrorIs(t, err, ErrNoStatus)
}

func TestCheckImageIsWhiteBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), checkImageName)
	require.NoError(t, writeCheckImage(path))

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "bmp", Width: 100, Height: 100}, info)
}

func TestCheckReportsFailure(t *testing.T) {
	native := &fakeMechanism{method: MethodNativeAPI, err: osFailure(MethodNativeAPI)}
	w, _ := testWallpaper(t, native)

	res, err := w.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrAllMethodsExhausted)
}
