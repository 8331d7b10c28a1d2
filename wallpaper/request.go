package wallpaper

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Failure kinds. Use errors.Is against Result.Err or Attempt.Kind.
var (
	ErrFileNotFound        = errors.New("file not found")
	ErrAPICallFailed       = errors.New("api call failed")
	ErrAPICallThrew        = errors.New("api call threw")
	ErrAllMethodsExhausted = errors.New("all methods exhausted")
)

// Method names one wallpaper mechanism.
type Method string

const (
	MethodNativeAPI          Method = "native-api"
	MethodNativeAPIWithFlags Method = "native-api-with-flags"
	MethodRegistry           Method = "registry"
	MethodShellFallback      Method = "shell-fallback"
)

// Style is how the desktop shell lays the image out.
type Style string

const (
	StyleCenter  Style = "center"
	StyleTile    Style = "tile"
	StyleStretch Style = "stretch"
	StyleFit     Style = "fit"
	StyleFill    Style = "fill"
	StyleSpan    Style = "span"
)

// Styles lists every accepted style, in registry value order.
var Styles = []Style{StyleCenter, StyleTile, StyleStretch, StyleFit, StyleFill, StyleSpan}

// ParseStyle accepts a style name case-insensitively. Empty means fit.
func ParseStyle(s string) (Style, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StyleFit, nil
	}
	for _, st := range Styles {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown wallpaper style %q", s)
}

// RegistryValues returns the WallpaperStyle and TileWallpaper values for
// HKCU\Control Panel\Desktop.
func (s Style) RegistryValues() (style, tile string) {
	switch s {
	case StyleCenter:
		return "0", "0"
	case StyleTile:
		return "0", "1"
	case StyleStretch:
		return "2", "0"
	case StyleFill:
		return "10", "0"
	case StyleSpan:
		return "22", "0"
	default:
		return "6", "0"
	}
}

// Request asks for one image to become the desktop background.
type Request struct {
	Path  string
	Style Style
}

// NewRequest makes path absolute. It does not check the file.
func NewRequest(path string, style Style) (Request, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Request{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	if style == "" {
		style = StyleFit
	}
	return Request{Path: abs, Style: style}, nil
}

// Attempt records one failed mechanism.
type Attempt struct {
	Method Method
	// Kind is ErrAPICallFailed or ErrAPICallThrew.
	Kind error
	Err  error
}

func (a Attempt) String() string {
	return fmt.Sprintf("%s: %v", a.Method, a.Err)
}

// ApplyError is the failure carried by a Result.
type ApplyError struct {
	Kind     error
	Path     string
	Attempts []Attempt
	Cause    error
}

func (e *ApplyError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Cause)
	case len(e.Attempts) > 0:
		parts := make([]string, len(e.Attempts))
		for i, a := range e.Attempts {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%v: %s: %s", e.Kind, e.Path, strings.Join(parts, "; "))
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Path)
	}
}

func (e *ApplyError) Unwrap() error {
	return e.Kind
}

// Result is the outcome of Applier.Apply. Attempts holds every mechanism
// that failed before the one that succeeded, or all of them on failure.
type Result struct {
	Success  bool
	Method   Method
	Err      error
	Attempts []Attempt
}
