package player

import (
	"sync"
	"time"
)

// MSASyncInterval is the minimum spacing between alignment-view updates
// during playback; frames arrive faster than the alignment pane can
// usefully redraw.
const MSASyncInterval = 100 * time.Millisecond

// MSASync throttles alignment-window updates. TryBegin grants at most one
// in-flight sync per interval; syncs requested while one is running or too
// soon after the last are skipped, not queued.
type MSASync struct {
	mu       sync.Mutex
	last     time.Time
	inFlight bool
}

// TryBegin reports whether a sync may start now. A granted sync must be
// finished with Done.
func (s *MSASync) TryBegin(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	if !s.last.IsZero() && now.Sub(s.last) < MSASyncInterval {
		return false
	}
	s.inFlight = true
	s.last = now
	return true
}

// Done marks the in-flight sync finished.
func (s *MSASync) Done() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}
