package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner animates a one-line status on a writer while a pipeline stage
// runs. It stops drawing once its parent context ends.
type Spinner struct {
	w      io.Writer
	label  string
	style  spinner.Spinner
	parent context.Context

	quit    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.Mutex
	stopped bool
}

// newSpinnerWithContext creates a stderr spinner bound to ctx.
func newSpinnerWithContext(ctx context.Context, label string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, label)
}

func newSpinnerTo(ctx context.Context, w io.Writer, label string) *Spinner {
	return &Spinner{
		w:      w,
		label:  label,
		style:  spinner.MiniDot,
		parent: ctx,
		quit:   make(chan struct{}),
	}
}

// Start draws frames in the background until Stop or cancellation.
func (s *Spinner) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *Spinner) run() {
	defer s.wg.Done()
	tick := time.NewTicker(s.style.FPS)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.parent.Done():
			s.clear()
			return
		case <-s.quit:
			return
		case <-tick.C:
			icon := s.style.Frames[frame%len(s.style.Frames)]
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(icon), StyleDim.Render(s.label))
			s.mu.Unlock()
		}
	}
}

// Stop ends the animation and clears the line. Later calls do nothing.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
		close(s.quit)
		s.wg.Wait()
		s.clear()
	})
}

// StopWithError stops the spinner and prints message as a failure.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended before Stop.
func (s *Spinner) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && s.parent.Err() != nil
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", len(s.label)+4)+"\r")
}
