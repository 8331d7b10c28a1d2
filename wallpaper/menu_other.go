//go:build !windows

package wallpaper

import (
	"errors"
	"fmt"
	"runtime"
)

func InstallMenu(exe, configPath string) error {
	return fmt.Errorf("desktop menu on %s: %w", runtime.GOOS, errors.ErrUnsupported)
}

func RemoveMenu() error {
	return fmt.Errorf("desktop menu on %s: %w", runtime.GOOS, errors.ErrUnsupported)
}
