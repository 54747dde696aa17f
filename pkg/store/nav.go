package store

import (
	"sync"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/debug"
)

// NavLock serializes navigation: while a transition animation is in
// flight, further navigation requests are rejected instead of queued, so
// a held-down arrow key cannot pile up animations. ForceUnlock recovers
// from a transition that never completed.
type NavLock struct {
	mu        sync.Mutex
	active    bool
	direction int
}

// TryBegin attempts to start a navigation in the given direction
// (+1, -1, or 0 for jumps). It reports false when another navigation is
// still running.
func (l *NavLock) TryBegin(direction int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		debug.Log("nav: rejected direction %d, lock held by %d", direction, l.direction)
		return false
	}
	l.active = true
	l.direction = direction
	return true
}

// End releases the lock after a completed transition.
func (l *NavLock) End() {
	l.mu.Lock()
	l.active = false
	l.direction = 0
	l.mu.Unlock()
}

// Active reports the held direction, with ok false when the lock is free.
func (l *NavLock) Active() (direction int, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction, l.active
}

// ForceUnlock clears the lock unconditionally.
func (l *NavLock) ForceUnlock() {
	l.mu.Lock()
	if l.active {
		debug.Warn("nav: force-unlocking a held navigation (direction %d)", l.direction)
	}
	l.active = false
	l.direction = 0
	l.mu.Unlock()
}

// Navigator couples the lock to the store's navigation actions. Each
// accepted request commits the position change and leaves the lock held
// until Done is called when the transition animation finishes.
type Navigator struct {
	store *Store
	lock  NavLock
}

// NewNavigator returns a navigator over the store.
func NewNavigator(s *Store) *Navigator {
	return &Navigator{store: s}
}

// Forward requests a one-step forward navigation.
func (n *Navigator) Forward() bool {
	if !n.lock.TryBegin(1) {
		return false
	}
	n.store.Forward()
	return true
}

// Backward requests a one-step backward navigation.
func (n *Navigator) Backward() bool {
	if !n.lock.TryBegin(-1) {
		return false
	}
	n.store.Backward()
	return true
}

// JumpTo requests a direct jump; jumps render the target immediately, so
// the lock is released before returning.
func (n *Navigator) JumpTo(pos int) bool {
	if !n.lock.TryBegin(0) {
		return false
	}
	n.store.GoToPosition(pos)
	n.lock.End()
	return true
}

// Done releases the lock after the in-flight transition finished.
func (n *Navigator) Done() { n.lock.End() }

// ForceUnlock recovers from a stuck transition.
func (n *Navigator) ForceUnlock() { n.lock.ForceUnlock() }

// Busy reports whether a navigation is in flight.
func (n *Navigator) Busy() bool {
	_, ok := n.lock.Active()
	return ok
}
