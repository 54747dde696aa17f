package store

import (
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/layout"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// Initialize installs a loaded movie and resets the per-session fields,
// keeping user style preferences.
func (s *Store) Initialize(m *model.Movie) {
	s.commit(func(st *State) {
		st.Movie = m
		st.FileName = m.FileName
		st.Position = 0
		st.Playing = false
		st.Direction = 0
		st.AnimationProgress = 0
		st.ManualMarks = nil
		st.MSARegion = nil
		st.ClipboardTreeIndex = -1
		if m.MSA != nil {
			if m.MSA.StepSize > 0 {
				st.MSAStepSize = m.MSA.StepSize
			}
			if m.MSA.WindowSize > 0 {
				st.MSAWindowSize = m.MSA.WindowSize
			}
		}
	})
}

func clampPos(m *model.Movie, pos int) int {
	if m == nil || m.TreeCount() == 0 {
		return 0
	}
	if pos < 0 {
		return 0
	}
	if pos >= m.TreeCount() {
		return m.TreeCount() - 1
	}
	return pos
}

// GoToPosition jumps directly to a sequence position.
func (s *Store) GoToPosition(pos int) {
	s.commit(func(st *State) {
		st.Position = clampPos(st.Movie, pos)
		st.Direction = 0
		st.AnimationProgress = 0
	})
}

// Forward steps one tree ahead.
func (s *Store) Forward() {
	s.commit(func(st *State) {
		st.Position = clampPos(st.Movie, st.Position+1)
		st.Direction = 1
	})
}

// Backward steps one tree back.
func (s *Store) Backward() {
	s.commit(func(st *State) {
		st.Position = clampPos(st.Movie, st.Position-1)
		st.Direction = -1
	})
}

// Play starts playback.
func (s *Store) Play() {
	s.commit(func(st *State) {
		st.Playing = true
		st.Direction = 1
	})
}

// Stop halts playback at the current position.
func (s *Store) Stop() {
	s.commit(func(st *State) { st.Playing = false })
}

// SetAnimationProgress records the driver's position and progress for one
// rendered frame.
func (s *Store) SetAnimationProgress(pos int, progress float64) {
	s.commit(func(st *State) {
		st.Position = clampPos(st.Movie, pos)
		st.AnimationProgress = progress
	})
}

// SetSpeed sets playback speed in transitions per second.
func (s *Store) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	s.commit(func(st *State) { st.Speed = speed })
}

// SetFactor sets the zoom factor.
func (s *Store) SetFactor(f float64) {
	if f <= 0 {
		return
	}
	s.commit(func(st *State) { st.Factor = f })
}

// SetFontSize sets the label font size.
func (s *Store) SetFontSize(v float64) {
	if v <= 0 {
		return
	}
	s.commit(func(st *State) { st.FontSize = v })
}

// SetStrokeWidth sets the branch stroke width.
func (s *Store) SetStrokeWidth(v float64) {
	if v <= 0 {
		return
	}
	s.commit(func(st *State) { st.StrokeWidth = v })
}

// SetBranchTransform changes the branch-length transform.
func (s *Store) SetBranchTransform(tr layout.Transform) {
	s.commit(func(st *State) { st.BranchTransform = tr })
}

// SetUniformScaling toggles movie-wide shared scaling.
func (s *Store) SetUniformScaling(on bool) {
	s.commit(func(st *State) { st.UniformScaling = on })
}

// SetMonophyleticColoring toggles taxon-group coloring.
func (s *Store) SetMonophyleticColoring(on bool) {
	s.commit(func(st *State) { st.MonophyleticColoring = on })
}

// SetDimInactive toggles fading of branches outside marked subtrees.
func (s *Store) SetDimInactive(on bool) {
	s.commit(func(st *State) { st.DimInactive = on })
}

// SetDimMarked toggles fading of the marked subtrees themselves.
func (s *Store) SetDimMarked(on bool) {
	s.commit(func(st *State) { st.DimMarked = on })
}

// ToggleManualMark adds or removes a manually marked subtree.
func (s *Store) ToggleManualMark(set model.LeafSet) {
	key := set.Key()
	s.commit(func(st *State) {
		for i, m := range st.ManualMarks {
			if m.Key() == key {
				marks := make([]model.LeafSet, 0, len(st.ManualMarks)-1)
				marks = append(marks, st.ManualMarks[:i]...)
				marks = append(marks, st.ManualMarks[i+1:]...)
				st.ManualMarks = marks
				return
			}
		}
		marks := make([]model.LeafSet, len(st.ManualMarks), len(st.ManualMarks)+1)
		copy(marks, st.ManualMarks)
		st.ManualMarks = append(marks, set)
	})
}

// ClearManualMarks removes all manual marks.
func (s *Store) ClearManualMarks() {
	s.commit(func(st *State) { st.ManualMarks = nil })
}

// SetMSAStepSize sets how many alignment columns one frame advances.
func (s *Store) SetMSAStepSize(step int) {
	if step <= 0 {
		return
	}
	s.commit(func(st *State) { st.MSAStepSize = step })
}

// SetMSAWindowSize sets the visible alignment window width.
func (s *Store) SetMSAWindowSize(size int) {
	if size <= 0 {
		return
	}
	s.commit(func(st *State) { st.MSAWindowSize = size })
}

// SetMSARegion pins the alignment viewer to a fixed column range.
func (s *Store) SetMSARegion(start, end int) {
	if start < 1 || end < start {
		return
	}
	s.commit(func(st *State) { st.MSARegion = &MSARegion{Start: start, End: end} })
}

// ClearMSARegion returns the alignment viewer to frame-synced scrolling.
func (s *Store) ClearMSARegion() {
	s.commit(func(st *State) { st.MSARegion = nil })
}

// SetBarOption selects the chart strip's distance series.
func (s *Store) SetBarOption(opt BarOption) {
	s.commit(func(st *State) { st.BarOption = opt })
}

// SetClipboardTreeIndex records which tree was serialized to the clipboard.
func (s *Store) SetClipboardTreeIndex(pos int) {
	s.commit(func(st *State) { st.ClipboardTreeIndex = clampPos(st.Movie, pos) })
}

// ClearClipboard forgets the copied tree.
func (s *Store) ClearClipboard() {
	s.commit(func(st *State) { st.ClipboardTreeIndex = -1 })
}

// SetWindowSize records the terminal dimensions.
func (s *Store) SetWindowSize(w, h int) {
	s.commit(func(st *State) {
		st.WindowWidth = w
		st.WindowHeight = h
	})
}

// SetRenderInProgress flags an in-flight frame render.
func (s *Store) SetRenderInProgress(on bool) {
	s.commit(func(st *State) { st.RenderInProgress = on })
}

// SetUpdateInProgress flags an in-flight derived-state update.
func (s *Store) SetUpdateInProgress(on bool) {
	s.commit(func(st *State) { st.UpdateInProgress = on })
}
