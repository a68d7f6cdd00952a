// Package spinning animates a small symbol in the terminal while an AI player searches for its
// move. It also handles Ctrl+C for the binaries.
package spinning

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/klog/v2"
)

// Themes are sequences of frames, each frame exactly two terminal columns wide.
var (
	ThemeASCII = []string{"| ", "/ ", "- ", "\\ "}
	ThemeClock = []string{
		"\U0001F550", "\U0001F551", "\U0001F552", "\U0001F553", "\U0001F554", "\U0001F555",
		"\U0001F556", "\U0001F557", "\U0001F558", "\U0001F559", "\U0001F55A", "\U0001F55B",
	}
)

// FrameInterval between two frames of the animation.
const FrameInterval = 500 * time.Millisecond

const (
	hideCursor   = "\033[?25l"
	showCursor   = "\033[?25h"
	resetColors  = "\033[39;49;0m"
	eraseColumns = "\b\b"
)

// Spinner is a running animation. Stop it with Done.
type Spinner struct {
	out    io.Writer
	frames []string
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts animating the frames on out, at the cursor position. It runs until Done is called or
// ctx is cancelled.
func New(ctx context.Context, out io.Writer, frames []string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &Spinner{out: out, frames: frames, cancel: cancel, done: make(chan struct{})}
	go s.run(ctx)
	return s
}

func (s *Spinner) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()
	_, _ = fmt.Fprint(s.out, hideCursor+"  ")
	for frame := 0; ; frame = (frame + 1) % len(s.frames) {
		_, _ = fmt.Fprint(s.out, eraseColumns+s.frames[frame])
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprint(s.out, eraseColumns+showCursor)
			return
		case <-ticker.C:
		}
	}
}

// Done stops the animation and returns once the last frame is erased. Calling it again is a no-op.
func (s *Spinner) Done() {
	s.cancel()
	<-s.done
}

// RestoreTerminal shows the cursor and resets the colors, in case the program is interrupted in
// the middle of an animation or of a colored board.
func RestoreTerminal(out io.Writer) {
	_, _ = fmt.Fprint(out, showCursor+resetColors+"\n")
}

// SafeInterrupt calls onInterrupt, in its own goroutine, on the first SIGINT or SIGTERM. The program
// is forced to exit if it is still running after gracePeriod, or on a second signal.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		fmt.Println()
		klog.Errorf("Received %s: stopping, forced exit in %s", sig, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}
		select {
		case <-time.After(gracePeriod):
			klog.Errorf("Still running after %s", gracePeriod)
		case sig = <-signals:
			klog.Errorf("Received %s again", sig)
		}
		RestoreTerminal(os.Stdout)
		klog.Fatal("Forced exit.")
	}()
}
