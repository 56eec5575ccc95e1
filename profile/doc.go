// Package profile provides optional runtime profiling for dolang.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag [Modes] is empty and [Profiler.Start] always returns a
// no-op, so callers need no build constraints of their own.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// A profile is written to the configured directory when the profiler is
// stopped, named after its mode (cpu.pprof, mem.pprof, trace.out, ...):
//
//	stop := profile.Profiler{Mode: "cpu", Path: dir}.Start()
//	defer stop.Stop()
//
// Analyze the result with go tool pprof:
//
//	go tool pprof -http=: dolang $DIR/cpu.pprof
//
// Profiling a long-running script is the intended use; the interpreter's
// tree walk shows up under lang.(*Interpreter).eval.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
