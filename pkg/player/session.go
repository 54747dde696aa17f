// Package player wires a loaded movie to the engine: it owns the layout
// pool, the per-transition diff cache, the highlight resolver, and frame
// composition for whatever renderer the caller brings.
package player

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/anim"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/debug"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/highlight"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/layout"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/metrics"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/timeline"
)

// LayoutParams are the knobs that invalidate every cached layout when they
// change.
type LayoutParams struct {
	Width, Height  float64
	Margin         float64
	Factor         float64
	Transform      layout.Transform
	UniformScaling bool
}

// Session is the per-movie engine state. Layouts and diffs are computed
// once and cached; BuildLayouts must run before frames are requested.
type Session struct {
	Movie      *model.Movie
	Timeline   *timeline.Resolver
	Highlights *highlight.Resolver
	Scales     layout.ScaleSeries

	params  LayoutParams
	layouts []*layout.Layout
	diffs   map[[2]int]*anim.Diff
}

// NewSession indexes a loaded movie. Layouts are not built yet.
func NewSession(m *model.Movie) *Session {
	tl := timeline.NewResolver(m)
	return &Session{
		Movie:      m,
		Timeline:   tl,
		Highlights: highlight.NewResolver(m, tl),
		diffs:      make(map[[2]int]*anim.Diff),
	}
}

// BuildLayouts lays out every tree of the sequence under the given
// parameters, one transition block per worker. Radius preservation runs
// inside each block, seeded at its anchor, so a collapsed edge keeps the
// radius it had in the anchor tree.
func (s *Session) BuildLayouts(ctx context.Context, params LayoutParams) error {
	defer metrics.Timer(metrics.LayoutBuild)()
	start := time.Now()
	defer func() { debug.LogTiming("player.BuildLayouts", time.Since(start)) }()
	s.params = params
	s.Scales = layout.ComputeScaleSeries(s.Movie, params.Transform)
	uniform := 0.0
	if params.UniformScaling {
		uniform = s.Scales.UniformScale(params.Width, params.Height, params.Margin, params.Factor)
	}

	layouts := make([]*layout.Layout, s.Movie.TreeCount())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	anchors := s.Timeline.FullTreeIndices()
	blockStart := 0
	for i := 0; i <= len(anchors); i++ {
		end := s.Movie.TreeCount()
		if i < len(anchors) {
			end = anchors[i]
			if end == blockStart {
				continue
			}
		}
		start, stop := blockStart, end
		blockStart = end
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			memo := layout.NewRadiusMemo()
			for pos := start; pos < stop; pos++ {
				layouts[pos] = layout.Construct(s.Movie.Trees[pos], layout.Options{
					Width:        params.Width,
					Height:       params.Height,
					Margin:       params.Margin,
					Factor:       params.Factor,
					UniformScale: uniform,
					Transform:    params.Transform,
					Memo:         memo,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("build layouts: %w", err)
	}
	s.layouts = layouts
	s.diffs = make(map[[2]int]*anim.Diff)
	s.Highlights.Invalidate()
	return nil
}

// Params returns the parameters of the current layout set.
func (s *Session) Params() LayoutParams { return s.params }

// LayoutAt returns the cached layout for a position, nil when out of range
// or before BuildLayouts.
func (s *Session) LayoutAt(pos int) *layout.Layout {
	if pos < 0 || pos >= len(s.layouts) {
		return nil
	}
	return s.layouts[pos]
}

// DiffBetween returns the keyed diff of two positions, cached per pair.
func (s *Session) DiffBetween(from, to int) *anim.Diff {
	key := [2]int{from, to}
	if d, ok := s.diffs[key]; ok {
		metrics.DiffCache.Hit()
		return d
	}
	metrics.DiffCache.Miss()
	lf, lt := s.LayoutAt(from), s.LayoutAt(to)
	if lf == nil || lt == nil {
		return nil
	}
	d := anim.Compute(lf, lt)
	s.diffs[key] = d
	return d
}
