package wallpaper

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf16"
)

const powershell = "powershell"

// CommandRunner runs a process and reports its exit code. err is only set
// when the process could not be run at all.
type CommandRunner func(ctx context.Context, name string, args ...string) (code int, out []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) (int, []byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), out, nil
	}
	if err != nil {
		return -1, out, err
	}
	return 0, out, nil
}

type shellFallback struct {
	run     CommandRunner
	timeout time.Duration
}

func newShellFallback(run CommandRunner, timeout time.Duration) *shellFallback {
	if run == nil {
		run = execRunner
	}
	return &shellFallback{run: run, timeout: timeout}
}

func (s *shellFallback) attempt(ctx context.Context, req Request) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	code, out, err := s.run(ctx, powershell,
		"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass",
		"-EncodedCommand", encodeCommand(wallpaperScript(req.Path)))
	if err != nil {
		return fmt.Errorf("run %s: %w", powershell, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: %s exited with code %d: %s",
			ErrAPICallFailed, powershell, code, strings.TrimSpace(string(out)))
	}
	return nil
}

// wallpaperScript calls SystemParametersInfoW from PowerShell and exits 1
// when it returns 0.
func wallpaperScript(path string) string {
	return `$ErrorActionPreference = 'Stop'
Add-Type -TypeDefinition @"
using System.Runtime.InteropServices;
public static class WindWallNative {
    [DllImport("user32.dll", CharSet = CharSet.Unicode, SetLastError = true)]
    public static extern int SystemParametersInfo(int uAction, int uParam, string lpvParam, int fuWinIni);
}
"@
if ([WindWallNative]::SystemParametersInfo(20, 0, '` + escapePSSingle(path) + `', 3) -eq 0) { exit 1 }
exit 0
`
}

// PowerShell also closes single-quoted strings on the typographic quotes.
var psSingleQuotes = strings.NewReplacer(
	"'", "''",
	"‘", "‘‘",
	"’", "’’",
	"‚", "‚‚",
	"‛", "‛‛",
)

// escapePSSingle escapes s for a single-quoted PowerShell string.
func escapePSSingle(s string) string {
	return psSingleQuotes.Replace(s)
}

// encodeCommand produces the base64 UTF-16LE form -EncodedCommand expects.
func encodeCommand(script string) string {
	units := utf16.Encode([]rune(script))
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		buf[2*i] = byte(u)
		buf[2*i+1] = byte(u >> 8)
	}
	return base64.StdEncoding.EncodeToString(buf)
}
