package cmd

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// spinner shows a text progress indicator with elapsed seconds while a
// pipeline run blocks.
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)

		frames := []string{"|", "/", "-", "\\"}
		started := time.Now()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		width := 0
		for i := 0; ; i++ {
			line := fmt.Sprintf("%s %s %ds", s.message, frames[i%len(frames)], int(time.Since(started).Seconds()))
			if len(line) > width {
				width = len(line)
			}
			fmt.Printf("\r%s", line)

			select {
			case <-s.stop:
				// Clear the line so following output starts clean
				fmt.Printf("\r%s\r", strings.Repeat(" ", width))
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}

	close(s.stop)
	<-s.done
	s.active = false
}
