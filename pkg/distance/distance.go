// Package distance recomputes the per-transition distance series when a
// movie bundle omits them: relative Robinson-Foulds and weighted
// Robinson-Foulds over consecutive anchor trees.
package distance

import (
	"gonum.org/v1/gonum/stat"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// internalSplits returns the split-key -> edge-length map over the internal
// non-root edges of a tree. Leaf edges and the root are excluded; this
// matches the pipeline's distance definition.
func internalSplits(t *model.Tree) map[string]float64 {
	out := make(map[string]float64)
	for id := range t.Nodes {
		n := &t.Nodes[id]
		if id == t.Root() || n.IsLeaf() {
			continue
		}
		out[n.Split.Key()] = n.Length
	}
	return out
}

// RelativeRF computes the relative Robinson-Foulds distance between two
// trees over the same leaf universe: splits missing on either side divided
// by the total internal split count.
func RelativeRF(a, b *model.Tree) float64 {
	sa := internalSplits(a)
	sb := internalSplits(b)
	shared := 0
	for key := range sa {
		if _, ok := sb[key]; ok {
			shared++
		}
	}
	total := len(sa) + len(sb)
	if total == 0 {
		return 0
	}
	missing := (len(sa) - shared) + (len(sb) - shared)
	return float64(missing) / float64(total)
}

// WeightedRF sums the absolute edge-length differences over the union of
// internal splits, with absent splits contributing their full length.
func WeightedRF(a, b *model.Tree) float64 {
	sa := internalSplits(a)
	sb := internalSplits(b)
	sum := 0.0
	for key, la := range sa {
		lb := sb[key]
		d := la - lb
		if d < 0 {
			d = -d
		}
		sum += d
	}
	for key, lb := range sb {
		if _, ok := sa[key]; !ok {
			sum += lb
		}
	}
	return sum
}

// RelativeRFSeries computes RelativeRF over each consecutive anchor pair;
// the result has len(anchors)-1 entries.
func RelativeRFSeries(anchors []*model.Tree) []float64 {
	return pairSeries(anchors, RelativeRF)
}

// WeightedRFSeries computes WeightedRF over each consecutive anchor pair.
func WeightedRFSeries(anchors []*model.Tree) []float64 {
	return pairSeries(anchors, WeightedRF)
}

func pairSeries(anchors []*model.Tree, fn func(a, b *model.Tree) float64) []float64 {
	if len(anchors) < 2 {
		return nil
	}
	out := make([]float64, len(anchors)-1)
	for i := 0; i+1 < len(anchors); i++ {
		out[i] = fn(anchors[i], anchors[i+1])
	}
	return out
}

// Summary describes a distance series for the status line.
type Summary struct {
	Mean   float64
	StdDev float64
	Max    float64
}

// Summarize computes mean, standard deviation, and maximum of a series.
func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(series, nil)
	if len(series) == 1 {
		std = 0
	}
	max := series[0]
	for _, v := range series[1:] {
		if v > max {
			max = v
		}
	}
	return Summary{Mean: mean, StdDev: std, Max: max}
}
