package layout

import "github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"

// ScaleSeries holds the unscaled maximum cumulative radius of each anchor
// tree. It feeds the scale-bar UI and uniform-scaling mode: dividing the
// viewport by the global maximum gives one scale all frames can share.
type ScaleSeries struct {
	PerAnchor []float64
	GlobalMax float64
}

// ComputeScaleSeries measures every anchor tree of the movie under the
// given branch transform. Radii here are pre-scale, so the series is
// independent of viewport size.
func ComputeScaleSeries(m *model.Movie, tr Transform) ScaleSeries {
	var s ScaleSeries
	for i, meta := range m.Metadata {
		if !meta.Phase.IsAnchor() {
			continue
		}
		max := maxCumulativeRadius(tr.Apply(m.Trees[i]))
		s.PerAnchor = append(s.PerAnchor, max)
		if max > s.GlobalMax {
			s.GlobalMax = max
		}
	}
	return s
}

func maxCumulativeRadius(t *model.Tree) float64 {
	max := 0.0
	var walk func(id int, acc float64)
	walk = func(id int, acc float64) {
		r := acc + t.Nodes[id].Length
		if r > max {
			max = r
		}
		for _, c := range t.Nodes[id].Children {
			walk(c, r)
		}
	}
	if t.Len() > 0 {
		walk(t.Root(), 0)
	}
	return max
}

// UniformScale converts the global maximum into one verbatim scale for a
// viewport, or 1 when the series is degenerate.
func (s ScaleSeries) UniformScale(width, height, margin, factor float64) float64 {
	if s.GlobalMax == 0 {
		return 1
	}
	if factor == 0 {
		factor = 1
	}
	side := width
	if height < side {
		side = height
	}
	side -= 2 * margin
	if side <= 0 {
		return 1
	}
	return side / (2 * factor * s.GlobalMax)
}
