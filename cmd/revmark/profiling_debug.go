//go:build debug

package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

var (
	flagCPUProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	flagMemProfile = flag.String("memprofile", "", "write memory profile to file")

	profilingCleanupOnce sync.Once
	cpuProfileFile       *os.File
	profilingLogger      *log.Logger
)

// initProfiling starts CPU profiling if enabled. Must be called after flag.Parse().
func initProfiling(l *log.Logger) {
	profilingLogger = l

	if *flagCPUProfile == "" {
		return
	}

	f, err := os.Create(*flagCPUProfile)
	if err != nil {
		profilingLogger.Printf("could not create CPU profile: %v", err)
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		profilingLogger.Printf("could not start CPU profile: %v", err)
		return
	}
	cpuProfileFile = f
	profilingLogger.Printf("CPU profiling enabled, writing to: %s", *flagCPUProfile)
}

// finishProfiling writes the heap profile and stops CPU profiling. It only
// runs once.
func finishProfiling() {
	profilingCleanupOnce.Do(func() {
		if *flagMemProfile != "" {
			writeHeapProfile(*flagMemProfile)
		}
		if cpuProfileFile != nil {
			pprof.StopCPUProfile()
			cpuProfileFile.Close()
			profilingLogger.Printf("CPU profile written to: %s", *flagCPUProfile)
		}
	})
}

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		profilingLogger.Printf("could not create memory profile: %v", err)
		return
	}
	defer f.Close()
	runtime.GC() // get up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		profilingLogger.Printf("could not write memory profile: %v", err)
		return
	}
	profilingLogger.Printf("Memory profile written to: %s", path)
}
