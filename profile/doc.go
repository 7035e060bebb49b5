// Package profile provides optional runtime profiling for expression-parser.
//
// Profiling is compiled in only when building with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op
// [Stopper], so callers never need to check how the binary was built.
//
// # Modes
//
// With the tag, the following modes are available: allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread and trace. Profiles are written by
// [github.com/pkg/profile] to the configured directory, one file per mode
// (cpu.pprof, mem.pprof, ...):
//
//	stop := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	).Start()
//	defer stop.Stop()
//
// Inspect the result with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// Building with the tag also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
