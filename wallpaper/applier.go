package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"windwall/logger"
)

// Mechanism is one way of changing the desktop background. Attempt returns
// an error wrapping ErrAPICallFailed when the OS reports failure; any other
// error is treated as the call having thrown.
type Mechanism struct {
	Method  Method
	Attempt func(ctx context.Context, req Request) error
}

// Applier runs mechanisms in order until one succeeds.
type Applier struct {
	mechanisms []Mechanism
}

// NewApplier returns an applier trying mechanisms in the given order.
func NewApplier(mechanisms ...Mechanism) *Applier {
	return &Applier{mechanisms: mechanisms}
}

// Methods lists the configured mechanisms in order.
func (a *Applier) Methods() []Method {
	methods := make([]Method, len(a.mechanisms))
	for i, m := range a.mechanisms {
		methods[i] = m.Method
	}
	return methods
}

// Apply sets req.Path as the desktop background. A relative path is made
// absolute first. Failures are reported in the Result and never returned as
// a panic or fatal error.
func (a *Applier) Apply(ctx context.Context, req Request) Result {
	if !filepath.IsAbs(req.Path) {
		abs, err := filepath.Abs(req.Path)
		if err != nil {
			return Result{Err: &ApplyError{Kind: ErrFileNotFound, Path: req.Path, Cause: err}}
		}
		req.Path = abs
	}
	logger.Printf("[info apply] %s (style %s)", req.Path, req.Style)
	if err := checkFile(req.Path); err != nil {
		logger.Printf("[err apply] %v", err)
		return Result{Err: &ApplyError{Kind: ErrFileNotFound, Path: req.Path, Cause: err}}
	}

	var attempts []Attempt
	for _, m := range a.mechanisms {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Method: m.Method, Kind: ErrAPICallThrew, Err: err})
			continue
		}
		err := attempt(ctx, m, req)
		if err == nil {
			logger.Printf("[info apply] %s succeeded", m.Method)
			return Result{Success: true, Method: m.Method, Attempts: attempts}
		}
		kind := ErrAPICallThrew
		if errors.Is(err, ErrAPICallFailed) {
			kind = ErrAPICallFailed
		}
		logger.Printf("[err apply] %s: %v", m.Method, err)
		attempts = append(attempts, Attempt{Method: m.Method, Kind: kind, Err: err})
	}

	return Result{
		Err:      &ApplyError{Kind: ErrAllMethodsExhausted, Path: req.Path, Attempts: attempts},
		Attempts: attempts,
	}
}

func attempt(ctx context.Context, m Mechanism, req Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return m.Attempt(ctx, req)
}

// checkFile opens and closes path so unreadable files fail before any
// mechanism touches the desktop.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
