// Package profilers adds profiling flags to the binaries: a CPU profile written to a file
// (-cpu_profile) and the net/http/pprof server (-prof=<port>).
//
// The AI search is labelled (see Labeled), so profiles can be broken down per match and per player
// with `go tool pprof -tagfocus`.
package profilers

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"k8s.io/klog/v2"
)

var (
	flagHTTPPort   = flag.Int("prof", 0, "Port of the pprof HTTP server on localhost. 0 disables it.")
	flagCPUProfile = flag.String("cpu_profile", "", "Write a CPU profile to `file`.")
)

// session holds what was started by Setup.
var session struct {
	ctx        context.Context
	cpuProfile *os.File
	httpAddr   string
}

// Setup starts the profilers configured by the flags. It must be followed by a `defer OnQuit()`.
//
// When the HTTP server is enabled, OnQuit keeps the program alive until ctx is done, so the heap
// can still be inspected after the matches are over.
func Setup(ctx context.Context) {
	session.ctx = ctx
	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			klog.Fatalf("Failed to create CPU profile %q: %v", *flagCPUProfile, err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			klog.Fatalf("Failed to start CPU profile: %v", err)
		}
		session.cpuProfile = f
	}
	if *flagHTTPPort > 0 {
		session.httpAddr = fmt.Sprintf("localhost:%d", *flagHTTPPort)
		fmt.Printf("pprof server on http://%s/debug/pprof, e.g.: go tool pprof http://%s/debug/pprof/heap\n",
			session.httpAddr, session.httpAddr)
		go func() {
			klog.Fatal(http.ListenAndServe(session.httpAddr, nil))
		}()
	}
}

// OnQuit flushes the CPU profile and, if the HTTP server is running, waits for the context given to
// Setup to be done. It must be deferred directly: on a panic it stops the profilers and re-panics
// instead of waiting.
func OnQuit() {
	panicked := recover()
	stop()
	if panicked != nil {
		panic(panicked)
	}
	keepAlive()
}

// stop flushes and closes the CPU profile.
func stop() {
	if session.cpuProfile == nil {
		return
	}
	pprof.StopCPUProfile()
	if err := session.cpuProfile.Close(); err != nil {
		klog.Errorf("Failed to close CPU profile: %v", err)
	}
	klog.Infof("CPU profile written to %q", *flagCPUProfile)
	session.cpuProfile = nil
}

// keepAlive blocks until the Setup context is done, if the HTTP server is running.
func keepAlive() {
	if session.httpAddr == "" || session.ctx == nil || session.ctx.Err() != nil {
		return
	}
	// Collect garbage first, so only what leaks shows up in the heap profile.
	for range 10 {
		runtime.GC()
	}
	fmt.Printf("Finished: pprof server still open at http://%s/debug/pprof, Ctrl+C to exit.\n", session.httpAddr)
	<-session.ctx.Done()
}

// Labeled runs fn with the goroutine labelled by the key/value pairs, e.g. "match", "Match-00003".
// The labels are attached to the CPU samples and inherited by goroutines started by fn.
func Labeled(ctx context.Context, fn func(ctx context.Context), keyValues ...string) {
	pprof.Do(ctx, pprof.Labels(keyValues...), fn)
}
