// Package msa keeps the alignment viewer's column window in sync with the
// movie position. Each frame maps to a window of alignment columns centered
// on frameIndex * stepSize.
package msa

import (
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/debug"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// Window is a 1-based inclusive column range with its center column.
type Window struct {
	Start int
	Mid   int
	End   int
}

const (
	DefaultWindowSize = 100
	DefaultStepSize   = 1
)

// CalculateWindow computes the visible column window for a frame. Invalid
// size or step fall back to the defaults with a warning rather than
// failing; a negative frame index pins the window to the alignment start.
// totalColumns caps the window end when positive.
func CalculateWindow(frameIndex, windowSize, stepSize, totalColumns int) Window {
	if windowSize <= 0 || stepSize <= 0 {
		debug.Warn("msa: invalid window parameters size=%d step=%d, using defaults",
			windowSize, stepSize)
		windowSize = DefaultWindowSize
		stepSize = DefaultStepSize
	}
	if frameIndex < 0 {
		return Window{Start: 1, Mid: 1, End: windowSize}
	}
	// The window ends come from the raw center; only the reported mid is
	// clamped into the alignment.
	mid := frameIndex * stepSize
	start := mid - windowSize/2
	if start < 1 {
		start = 1
	}
	end := mid + (windowSize-1)/2
	if totalColumns > 0 {
		if limit := totalColumns * stepSize; end > limit {
			end = limit
		}
	}
	if end < start {
		end = start
	}
	if mid < 1 {
		mid = 1
	}
	return Window{Start: start, Mid: mid, End: end}
}

// WindowFor computes the window for a movie's alignment, using the bundle's
// own window and step defaults unless overridden (override <= 0 keeps the
// bundle value). Movies without alignment data yield the zero window.
func WindowFor(m *model.Movie, frameIndex, sizeOverride, stepOverride int) Window {
	if m == nil || m.MSA == nil {
		return Window{}
	}
	size := m.MSA.WindowSize
	if sizeOverride > 0 {
		size = sizeOverride
	}
	step := m.MSA.StepSize
	if stepOverride > 0 {
		step = stepOverride
	}
	return CalculateWindow(frameIndex, size, step, m.MSA.AlignmentLength)
}
