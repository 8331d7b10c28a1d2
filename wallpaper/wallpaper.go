package wallpaper

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	"windwall/logger"
)

const checkImageName = "windwall_check.bmp"

// Wallpaper runs one update: fetch from the source, prepare the image,
// apply it and record the outcome.
type Wallpaper struct {
	Config  *Config
	Source  Source
	Applier *Applier
	Status  *StatusStore
	// DryRun fetches and prepares the image but leaves the desktop alone.
	DryRun bool
}

// New wires a Wallpaper from c with the platform mechanisms.
func New(c *Config) *Wallpaper {
	return &Wallpaper{
		Config:  c,
		Source:  NewSource(c),
		Applier: NewApplier(DefaultMechanisms(c.Mechanisms())...),
		Status:  &StatusStore{Path: c.StatusPath},
	}
}

// Update fetches the image and applies it. The error is set when the image
// could not be fetched or prepared; apply failures are in the Result.
func (w *Wallpaper) Update(ctx context.Context) (Result, error) {
	path, err := w.Source.Fetch(ctx)
	if err != nil {
		logger.Printf("[err update] fetch: %v", err)
		w.record(w.Config.ImagePath, Result{}, err)
		return Result{}, err
	}
	return w.ApplyFile(ctx, path)
}

// ApplyFile prepares and applies path, bypassing the source. In a dry run
// the Result is empty unless the file is missing.
func (w *Wallpaper) ApplyFile(ctx context.Context, path string) (Result, error) {
	req, err := NewRequest(path, w.Config.Style)
	if err != nil {
		w.record(path, Result{}, err)
		return Result{}, err
	}

	// Missing, unreadable and directory paths go straight to the applier,
	// which reports FileNotFound.
	if checkFile(req.Path) == nil {
		prepared, err := Prepare(req.Path, w.Config.BMPTarget(req.Path))
		if err != nil {
			logger.Printf("[err update] prepare: %v", err)
			w.record(req.Path, Result{}, err)
			return Result{}, err
		}
		req.Path = prepared
	}

	if w.DryRun {
		if err := checkFile(req.Path); err != nil {
			return Result{Err: &ApplyError{Kind: ErrFileNotFound, Path: req.Path, Cause: err}}, nil
		}
		logger.Printf("[info update] dry run, prepared %s", req.Path)
		return Result{}, nil
	}

	res := w.Applier.Apply(ctx, req)
	if !res.Success {
		logger.Printf("[err update] %v", res.Err)
	}
	w.record(req.Path, res, nil)
	return res, nil
}

// Check applies a plain white BMP through the same mechanisms to find out
// whether the desktop can be changed at all. The image is written to the
// config directory and removed afterwards; no status is recorded.
func (w *Wallpaper) Check(ctx context.Context) (Result, error) {
	path := filepath.Join(w.Config.Dir, checkImageName)
	if err := writeCheckImage(path); err != nil {
		return Result{}, fmt.Errorf("write check image: %w", err)
	}
	defer os.Remove(path)

	res := w.Applier.Apply(ctx, Request{Path: path, Style: w.Config.Style})
	if res.Success {
		logger.Printf("[info check] wallpaper can be set via %s", res.Method)
	} else {
		logger.Printf("[err check] wallpaper cannot be set, check permissions: %v", res.Err)
	}
	return res, nil
}

func writeCheckImage(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (w *Wallpaper) record(path string, res Result, err error) {
	if w.Status == nil {
		return
	}
	if serr := w.Status.Save(NewStatus(path, res, err)); serr != nil {
		logger.Printf("[err status] %v", serr)
	}
}
