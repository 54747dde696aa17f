package anim

import "github.com/enesBerkSakalli/phylo-movies-sub007/pkg/timeline"

// PlayDirection distinguishes forward playback, reverse playback, and
// direct jumps.
type PlayDirection int

const (
	Forward PlayDirection = iota
	Backward
	Jump
)

// Window is a sub-interval of the transition's [0,1] progress during which
// one element class animates. Outside the window the class sits at its
// boundary state.
type Window struct {
	Start float64
	End   float64
}

// Local maps global progress t onto the window's own [0,1] range, clamped.
func (w Window) Local(t float64) float64 {
	if w.End <= w.Start {
		if t >= w.End {
			return 1
		}
		return 0
	}
	v := (t - w.Start) / (w.End - w.Start)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Staging schedules the three element classes across one transition.
type Staging struct {
	Enter  Window
	Update Window
	Exit   Window
}

// StagingFor selects the schedule for a playback direction and transition
// type.
//
// Default forward transitions run everything concurrently: exits shrink
// away over the whole step while updates move and enters grow. A
// collapsing step (exit_first) retires vanished edges in the first half so
// the survivors move through a clean topology; a step out of a collapsed
// topology (animate_then_enter) moves survivors first and grows new edges
// only near the end. Reverse playback retires exits early so a backward
// scrub never shows edges the earlier tree lacks.
func StagingFor(dir PlayDirection, tt timeline.TransitionType) Staging {
	if dir == Backward {
		return Staging{
			Enter:  Window{0, 1},
			Update: Window{0, 1},
			Exit:   Window{0, 0.8},
		}
	}
	switch tt {
	case timeline.TransitionExitFirst:
		return Staging{
			Enter:  Window{0.5, 1},
			Update: Window{0, 1},
			Exit:   Window{0, 0.5},
		}
	case timeline.TransitionAnimateThenEnter:
		return Staging{
			Enter:  Window{0.7, 1},
			Update: Window{0, 0.7},
			Exit:   Window{0, 1},
		}
	default:
		return Staging{
			Enter:  Window{0, 1},
			Update: Window{0, 1},
			Exit:   Window{0, 1},
		}
	}
}
