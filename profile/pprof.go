//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// kinds maps each mode name accepted by [Profiler] to its pkg/profile option.
var kinds = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the sorted profiling mode names.
var Modes = sync.OnceValue(func() []string {
	return slices.Sorted(maps.Keys(kinds))
})

func start(mode, path string, quiet bool) Stopper {
	kind, ok := kinds[mode]
	if !ok {
		return ignore{}
	}

	// The CLI stops the session when its context is cancelled, so
	// pkg/profile must not install a SIGINT handler of its own.
	opts := []func(*profile.Profile){kind, profile.NoShutdownHook}

	if path != "" {
		opts = append(opts, profile.ProfilePath(path))
	}

	if quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
