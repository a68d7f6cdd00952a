package spinning

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerDone(t *testing.T) {
	var out bytes.Buffer
	s := New(context.Background(), &out, ThemeASCII)
	time.Sleep(10 * time.Millisecond)
	s.Done()
	s.Done() // Calling Done twice is a no-op.

	text := out.String()
	assert.True(t, strings.HasPrefix(text, hideCursor+"  "+eraseColumns+ThemeASCII[0]), "got %q", text)
	assert.True(t, strings.HasSuffix(text, eraseColumns+showCursor), "got %q", text)
}

func TestSpinnerContextCancelled(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	s := New(ctx, &out, ThemeClock)
	cancel()
	select {
	case <-s.done:
	case <-time.After(time.Second):
		assert.Fail(t, "spinner didn't stop with its context")
	}
	s.Done()
	assert.Contains(t, out.String(), showCursor)
}

func TestThemesAreTwoColumnsWide(t *testing.T) {
	for _, frame := range ThemeASCII {
		assert.Len(t, frame, 2)
	}
	for _, frame := range ThemeClock {
		// Emojis are single runes displayed in two columns.
		assert.Len(t, []rune(frame), 1)
	}
}

func TestRestoreTerminal(t *testing.T) {
	var out bytes.Buffer
	RestoreTerminal(&out)
	assert.Equal(t, showCursor+resetColors+"\n", out.String())
}
