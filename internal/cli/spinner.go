package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w until stopped or until its context ends.
// The line shows the seconds elapsed so long layouts visibly make progress.
type spinner struct {
	w       io.Writer
	label   string
	start   time.Time
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
	width   int
}

func newSpinner(ctx context.Context, label string) *spinner {
	return newSpinnerTo(ctx, os.Stderr, label)
}

func newSpinnerTo(parent context.Context, w io.Writer, label string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	s := &spinner{
		w:       w,
		label:   label,
		start:   time.Now(),
		parent:  parent,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	t := time.NewTicker(spinnerInterval)
	defer t.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-t.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame rune) {
	line := fmt.Sprintf("%s %s %s",
		styleIconSpinner.Render(string(frame)),
		StyleDim.Render(s.label),
		StyleDim.Render(fmt.Sprintf("%.0fs", time.Since(s.start).Seconds())))
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(line); n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// stop halts the animation and erases the line. Safe to call more than once.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// fail stops the spinner and prints msg as an error.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}

// interrupted reports whether the caller's context ended while spinning.
func (s *spinner) interrupted() bool { return s.parent.Err() != nil }
