package player

import (
	"errors"
	"fmt"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/anim"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/debug"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/highlight"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/metrics"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/render"
)

// ErrNoLayout is returned when a frame is requested before BuildLayouts or
// for a position outside the sequence.
var ErrNoLayout = errors.New("no layout for position")

// ErrRenderFailed wraps a backend panic caught during drawing. One bad
// frame is dropped; playback continues with the next.
var ErrRenderFailed = errors.New("render failed")

// StyleParams carry the per-frame highlight and style settings.
type StyleParams struct {
	MonophyleticColoring bool
	DimInactive          bool
	DimMarked            bool
	ManualMarks          []model.LeafSet
	StrokeWidth          float64
	FontSize             float64
	ShowLabels           bool
}

// FrameBetween composes the interpolated frame between two sequence
// positions at progress t, with staging chosen from the transition's
// phases and the playback direction.
func (s *Session) FrameBetween(from, to int, t float64, dir anim.PlayDirection) (*anim.Frame, error) {
	defer metrics.Timer(metrics.FrameInterpolate)()
	lf, lt := s.LayoutAt(from), s.LayoutAt(to)
	if lf == nil || lt == nil {
		return nil, fmt.Errorf("%w: %d -> %d", ErrNoLayout, from, to)
	}
	if dir == anim.Jump {
		return anim.Snapshot(lt), nil
	}
	d := s.DiffBetween(from, to)
	st := anim.StagingFor(dir, s.Timeline.TransitionType(from, to))
	return anim.Interpolate(lf, lt, d, st, t), nil
}

// FrameAt composes the static frame for one position.
func (s *Session) FrameAt(pos int) (*anim.Frame, error) {
	l := s.LayoutAt(pos)
	if l == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoLayout, pos)
	}
	return anim.Snapshot(l), nil
}

// ColorizerAt builds the colorizer for a position, merging manual marks
// into the resolved highlight state.
func (s *Session) ColorizerAt(pos int, style StyleParams) *highlight.Colorizer {
	res := highlight.Merge(s.Highlights.At(pos), style.ManualMarks)
	return highlight.NewColorizer(s.Movie.SortedLeaves, res, highlight.Options{
		MonophyleticColoring: style.MonophyleticColoring,
		DimInactive:          style.DimInactive,
		DimMarked:            style.DimMarked,
	})
}

// Render draws a composed frame onto a renderer. A panicking backend is
// contained: the frame is dropped and ErrRenderFailed returned instead of
// taking the player down.
func (s *Session) Render(r render.Renderer, f *anim.Frame, pos int, style StyleParams) (err error) {
	defer metrics.Timer(metrics.FrameRender)()
	defer func() {
		if rec := recover(); rec != nil {
			debug.Warn("player: render panic at pos %d: %v", pos, rec)
			err = fmt.Errorf("%w: %v", ErrRenderFailed, rec)
		}
	}()
	return render.Draw(r, f, s.ColorizerAt(pos, style), render.Options{
		Width:       s.params.Width,
		Height:      s.params.Height,
		StrokeWidth: style.StrokeWidth,
		FontSize:    style.FontSize,
		ShowLabels:  style.ShowLabels,
	})
}
