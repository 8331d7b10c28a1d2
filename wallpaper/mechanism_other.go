//go:build !windows

package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

func unsupported(m Method) error {
	return fmt.Errorf("%s on %s: %w", m, runtime.GOOS, errors.ErrUnsupported)
}

func nativeAPI(context.Context, Request) error {
	return unsupported(MethodNativeAPI)
}

func nativeAPIWithFlags(context.Context, Request) error {
	return unsupported(MethodNativeAPIWithFlags)
}

func registryWrite(context.Context, Request) error {
	return unsupported(MethodRegistry)
}
