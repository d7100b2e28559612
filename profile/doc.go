// Package profile wraps [github.com/pkg/profile] for optional runtime
// profiling of the snek interpreter.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o snek .
//
// Without the tag, [Profiler.Start] is a no-op and [Modes] is empty.
//
// # Modes
//
//   - allocs, heap, mem: memory profiles
//   - block, mutex: contention profiles
//   - clock, cpu: wall-clock and CPU profiles
//   - goroutine, thread: goroutine and thread creation profiles
//   - trace: execution trace
//
// # Usage
//
//	stop := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start()
//	defer stop.Stop()
//
//	profile.Do(ctx, "fib.snek", func(ctx context.Context) {
//		_, err = ast.Run(ctx, scope)
//	})
//
// Samples recorded inside [Do] carry a "script" label:
//
//	go tool pprof -tagfocus=script=fib.snek snek cpu.pprof
//
// The pprof build also registers the [net/http/pprof] handlers.
package profile
