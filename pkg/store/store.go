// Package store holds the player's session state behind a copy-commit
// dispatcher: every action replaces the state value atomically and
// selector subscriptions fire only when their selected slice changed.
package store

import (
	"sync"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/layout"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// BarOption selects which distance series the chart strip shows.
type BarOption string

const (
	BarRFD   BarOption = "rfd"
	BarWRFD  BarOption = "w-rfd"
	BarScale BarOption = "scale"
)

// MSARegion is a manually pinned alignment column range that overrides the
// frame-synced window.
type MSARegion struct {
	Start int
	End   int
}

// State is the whole session as one value. Actions copy it, mutate the
// copy, and commit; readers always see a consistent snapshot.
type State struct {
	Movie    *model.Movie
	FileName string

	Position          int
	Playing           bool
	Direction         int // +1 forward, -1 backward, 0 jump
	AnimationProgress float64
	Speed             float64

	Factor          float64
	FontSize        float64
	StrokeWidth     float64
	BranchTransform layout.Transform
	UniformScaling  bool

	MonophyleticColoring bool
	DimInactive          bool
	DimMarked            bool
	ManualMarks          []model.LeafSet

	MSAStepSize   int
	MSAWindowSize int
	MSARegion     *MSARegion

	BarOption          BarOption
	ClipboardTreeIndex int // -1 when nothing copied

	WindowWidth  int
	WindowHeight int

	// RenderInProgress and UpdateInProgress guard against re-entrant
	// frame production; the player sets and clears them around async work.
	RenderInProgress bool
	UpdateInProgress bool
}

type subscription struct {
	id     int
	notify func(prev, next State)
}

// Store dispatches actions over a State value. All methods are safe for
// concurrent use; subscriber callbacks run on the committing goroutine,
// outside the lock.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   []*subscription
	nextID int
	paused bool
}

// New returns a store with player defaults and no movie loaded.
func New() *Store {
	return &Store{state: State{
		Speed:              1,
		Factor:             1,
		FontSize:           12,
		StrokeWidth:        1.5,
		MSAStepSize:        1,
		MSAWindowSize:      100,
		BarOption:          BarRFD,
		ClipboardTreeIndex: -1,
	}}
}

// Get returns the current state snapshot.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// commit applies fn to a copy of the state and notifies subscribers with
// the previous and next values. Notification is skipped while paused.
func (s *Store) commit(fn func(*State)) {
	s.mu.Lock()
	prev := s.state
	next := prev
	fn(&next)
	s.state = next
	paused := s.paused
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if paused {
		return
	}
	for _, sub := range subs {
		sub.notify(prev, next)
	}
}

// PauseSubscriptions suppresses notifications until Resume. Commits during
// the pause still apply; subscribers see only the state that is current
// when they next fire.
func (s *Store) PauseSubscriptions() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// ResumeSubscriptions re-enables notifications and fires every subscriber
// once so they catch up with whatever changed during the pause.
func (s *Store) ResumeSubscriptions() {
	s.mu.Lock()
	s.paused = false
	cur := s.state
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, sub := range subs {
		// A zero prev forces the equality check to re-evaluate.
		sub.notify(State{}, cur)
	}
}

func (s *Store) addSubscription(notify func(prev, next State)) func() {
	s.mu.Lock()
	s.nextID++
	sub := &subscription{id: s.nextID, notify: notify}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cand := range s.subs {
			if cand == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribe registers a selector subscription: fn fires after a commit
// whenever the selected value differs from the previous state's. The
// returned function unsubscribes.
func Subscribe[T comparable](s *Store, sel func(State) T, fn func(T)) func() {
	return s.addSubscription(func(prev, next State) {
		if a, b := sel(prev), sel(next); a != b {
			fn(b)
		}
	})
}

// SubscribeFunc is Subscribe with a custom equality predicate, for selected
// values that are not comparable (slices, maps).
func SubscribeFunc[T any](s *Store, sel func(State) T, eq func(a, b T) bool, fn func(T)) func() {
	return s.addSubscription(func(prev, next State) {
		if a, b := sel(prev), sel(next); !eq(a, b) {
			fn(b)
		}
	})
}
