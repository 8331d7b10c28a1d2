package wallpaper

import "time"

// MechanismOptions selects the optional parts of the fallback chain.
type MechanismOptions struct {
	ShellFallback bool
	ShellTimeout  time.Duration
	// Runner replaces process execution for the shell fallback. Nil means os/exec.
	Runner CommandRunner
}

// DefaultMechanisms returns the platform chain: native API with default
// flags, native API with persist+broadcast flags, registry write, and
// optionally the shell fallback.
func DefaultMechanisms(opts MechanismOptions) []Mechanism {
	ms := []Mechanism{
		{Method: MethodNativeAPI, Attempt: nativeAPI},
		{Method: MethodNativeAPIWithFlags, Attempt: nativeAPIWithFlags},
		{Method: MethodRegistry, Attempt: registryWrite},
	}
	if opts.ShellFallback {
		sh := newShellFallback(opts.Runner, opts.ShellTimeout)
		ms = append(ms, Mechanism{Method: MethodShellFallback, Attempt: sh.attempt})
	}
	return ms
}
