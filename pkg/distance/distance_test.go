package distance

import (
	"math"
	"testing"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

var leafOrder = []string{"A", "B", "C", "D"}

func buildTree(t *testing.T, in model.TreeInput) *model.Tree {
	t.Helper()
	tree, err := model.BuildTree(in, leafOrder)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	return tree
}

// abcd is ((A,B),(C,D)) with the inner edges at the given lengths.
func abcd(t *testing.T, ab, cd model.Float) *model.Tree {
	return buildTree(t, model.TreeInput{Children: []model.TreeInput{
		{Length: ab, Children: []model.TreeInput{{Name: "A", Length: 1}, {Name: "B", Length: 1}}},
		{Length: cd, Children: []model.TreeInput{{Name: "C", Length: 1}, {Name: "D", Length: 1}}},
	}})
}

// acbd is ((A,C),(B,D)), sharing no internal split with abcd.
func acbd(t *testing.T) *model.Tree {
	return buildTree(t, model.TreeInput{Children: []model.TreeInput{
		{Length: 2, Children: []model.TreeInput{{Name: "A", Length: 1}, {Name: "C", Length: 1}}},
		{Length: 3, Children: []model.TreeInput{{Name: "B", Length: 1}, {Name: "D", Length: 1}}},
	}})
}

func TestRelativeRFIdentical(t *testing.T) {
	a := abcd(t, 1, 1)
	b := abcd(t, 5, 5) // lengths differ, topology identical
	if got := RelativeRF(a, b); got != 0 {
		t.Errorf("RelativeRF of identical topologies = %v, want 0", got)
	}
}

func TestRelativeRFDisjoint(t *testing.T) {
	if got := RelativeRF(abcd(t, 1, 1), acbd(t)); got != 1 {
		t.Errorf("RelativeRF of disjoint topologies = %v, want 1", got)
	}
}

func TestRelativeRFSymmetric(t *testing.T) {
	a, b := abcd(t, 1, 1), acbd(t)
	if RelativeRF(a, b) != RelativeRF(b, a) {
		t.Error("RelativeRF not symmetric")
	}
}

func TestRelativeRFStarTrees(t *testing.T) {
	star := buildTree(t, model.TreeInput{Children: []model.TreeInput{
		{Name: "A", Length: 1}, {Name: "B", Length: 1},
		{Name: "C", Length: 1}, {Name: "D", Length: 1},
	}})
	// No internal edges on either side: distance defined as 0.
	if got := RelativeRF(star, star); got != 0 {
		t.Errorf("RelativeRF of star trees = %v, want 0", got)
	}
}

func TestWeightedRFSharedSplits(t *testing.T) {
	a := abcd(t, 1, 2)
	b := abcd(t, 3, 2.5)
	if got := WeightedRF(a, b); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("WeightedRF = %v, want 2.5", got)
	}
}

func TestWeightedRFDisjointSumsFullLengths(t *testing.T) {
	// abcd contributes 1+2, acbd contributes 2+3.
	if got := WeightedRF(abcd(t, 1, 2), acbd(t)); math.Abs(got-8) > 1e-12 {
		t.Errorf("WeightedRF = %v, want 8", got)
	}
}

func TestSeriesLengths(t *testing.T) {
	anchors := []*model.Tree{abcd(t, 1, 1), acbd(t), abcd(t, 2, 2)}
	if got := RelativeRFSeries(anchors); len(got) != 2 {
		t.Errorf("RelativeRFSeries length = %d, want 2", len(got))
	}
	if got := WeightedRFSeries(anchors); len(got) != 2 {
		t.Errorf("WeightedRFSeries length = %d, want 2", len(got))
	}
	if got := RelativeRFSeries(anchors[:1]); got != nil {
		t.Errorf("series over one anchor = %v, want nil", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3})
	if s.Mean != 2 || s.Max != 3 {
		t.Errorf("summary = %+v", s)
	}
	if math.Abs(s.StdDev-1) > 1e-12 {
		t.Errorf("stddev = %v, want 1", s.StdDev)
	}
	if got := Summarize(nil); got != (Summary{}) {
		t.Errorf("empty summary = %+v", got)
	}
	if got := Summarize([]float64{4}); got.StdDev != 0 || got.Mean != 4 {
		t.Errorf("single-entry summary = %+v", got)
	}
}
