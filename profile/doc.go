// Package profile provides optional runtime profiling for quant.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] and is compiled in only
// with the "pprof" build tag:
//
//	go build -tags pprof -o quant .
//
// Without the tag, [Config.Start] returns a no-op and [Modes] yields nothing.
//
// # Modes
//
// With the tag, the supported modes are allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread and trace. Use [Modes] to list them.
//
// # Usage
//
//	p := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	).Start()
//	defer p.Stop()
//
// Profile files are written to the given directory with names matching the
// mode (cpu.pprof, mem.pprof, ...). From the command line:
//
//	quant --pprof-mode=cpu run bench.qty
//	go tool pprof -http=: ~/.cache/quant/pprof/cpu.pprof
package profile
