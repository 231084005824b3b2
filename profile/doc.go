// Package profile provides optional runtime profiling for the plotscript
// interpreter.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] behind the "pprof" build
// tag. When built without the tag (the default), every operation is a no-op
// with zero runtime overhead; the flags remain but do nothing.
//
// Deep recursive evaluation and dense plot sampling are the expected
// subjects: a CPU profile of a long-running script or a heap profile of a
// large continuous-plot compilation.
//
// # Available Profiling Modes
//
// The following modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list of supported modes programmatically.
//
// # Usage
//
// The profiler is configured as a [Config] and started once per process:
//
//	stop := profile.Config(func() (string, string, bool) {
//	    return "cpu", "/tmp/profiles", false
//	}).Start()
//	defer stop.Stop()
//
// Profile files are written to the configured directory with names matching
// the profiling mode (cpu.pprof, mem.pprof, ...). Analyze them with:
//
//	go tool pprof ./plotscript /tmp/profiles/cpu.pprof
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// # Command-Line Usage
//
// The plotscript command exposes profiling flags when built with the tag:
//
//	# CPU profile of a script run, written to the default cache directory
//	./plotscript --pprof-mode cpu run script.pls
//
//	# Heap profile with a custom output directory
//	./plotscript --pprof-mode heap --pprof-dir ./profiles run script.pls
//
// The default output directory is the user cache directory for plotscript
// (for example $XDG_CACHE_HOME/plotscript/pprof on Linux).
//
// # HTTP-Based Profiling
//
// Building with the pprof tag also imports [net/http/pprof], registering
// the /debug/pprof/ handlers for any HTTP server the process starts.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
