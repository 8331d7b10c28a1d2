package wallpaper

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"windwall/logger"
)

// ImageInfo describes a decoded image header.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// Inspect checks that path is a raster image this program can decode.
func Inspect(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Prepare validates src and, when dst differs from src and src is not a
// BMP already, writes a BMP copy to dst. It returns the path to apply.
func Prepare(src, dst string) (string, error) {
	info, err := Inspect(src)
	if err != nil {
		return "", err
	}
	logger.Debugf("image %s: %s %dx%d", src, info.Format, info.Width, info.Height)
	if dst == "" || dst == src || info.Format == "bmp" {
		return src, nil
	}
	if err := convertBMP(src, dst); err != nil {
		return "", err
	}
	logger.Printf("[info image] converted %s to %s", filepath.Base(src), dst)
	return dst, nil
}

func convertBMP(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = bmp.Encode(out, img)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return os.Rename(tmp, dst)
}
