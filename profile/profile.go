package profile

import (
	"context"
	"runtime/pprof"
)

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the output directory.
	Path  string
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling. Without the pprof build tag, or with an empty
// Mode, it returns a no-op. Both Start and Stop are always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

// Do calls fn with pprof labels naming the script being executed, so CPU
// samples taken while a script runs can be filtered by script in pprof
// (tagfocus=script=NAME).
func Do(ctx context.Context, script string, fn func(context.Context)) {
	pprof.Do(ctx, pprof.Labels("script", script), fn)
}

type ignore struct{}

func (ignore) Stop() {}
