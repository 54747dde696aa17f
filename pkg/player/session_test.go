package player

import (
	"context"
	"testing"
	"time"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/anim"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/highlight"
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

// testMovie is T0 ((A,B),(C,D)), one down-phase step, T1 ((A,C),(B,D)).
func testMovie(t *testing.T) *model.Movie {
	t.Helper()
	ab := model.TreeInput{Children: []model.TreeInput{
		{Length: 1, Children: []model.TreeInput{{Name: "A", Length: 1}, {Name: "B", Length: 1}}},
		{Length: 1, Children: []model.TreeInput{{Name: "C", Length: 1}, {Name: "D", Length: 1}}},
	}}
	mid := model.TreeInput{Children: []model.TreeInput{
		{Length: 0.5, Children: []model.TreeInput{{Name: "A", Length: 1}, {Name: "B", Length: 1}}},
		{Length: 0.5, Children: []model.TreeInput{{Name: "C", Length: 1}, {Name: "D", Length: 1}}},
	}}
	ac := model.TreeInput{Children: []model.TreeInput{
		{Length: 1, Children: []model.TreeInput{{Name: "A", Length: 1}, {Name: "C", Length: 1}}},
		{Length: 1, Children: []model.TreeInput{{Name: "B", Length: 1}, {Name: "D", Length: 1}}},
	}}
	m := &model.Movie{
		SortedLeaves: leafOrder,
		Trees: []*model.Tree{
			buildTree(t, ab), buildTree(t, mid), buildTree(t, ac),
		},
		Metadata: []model.TreeMeta{
			{TreeName: "T0", Phase: model.PhaseOriginal},
			{TreeName: "m_down_1", Phase: model.PhaseDown, TreePairKey: "pair_0_1", StepInPair: 1},
			{TreeName: "T1", Phase: model.PhaseOriginal},
		},
		PairSolutions: map[string]model.PairSolution{},
	}
	m.EnsureDerived()
	return m
}

func params() LayoutParams {
	return LayoutParams{Width: 400, Height: 400, Margin: 20, Factor: 1}
}

func builtSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(testMovie(t))
	if err := s.BuildLayouts(context.Background(), params()); err != nil {
		t.Fatalf("BuildLayouts: %v", err)
	}
	return s
}

func TestBuildLayouts(t *testing.T) {
	s := builtSession(t)
	for pos := 0; pos < s.Movie.TreeCount(); pos++ {
		if s.LayoutAt(pos) == nil {
			t.Errorf("no layout at %d", pos)
		}
	}
	if s.LayoutAt(-1) != nil || s.LayoutAt(99) != nil {
		t.Error("out-of-range layout not nil")
	}
	if s.Scales.GlobalMax <= 0 {
		t.Error("scale series not computed")
	}
	if len(s.Scales.PerAnchor) != 2 {
		t.Errorf("per-anchor scales = %d, want 2", len(s.Scales.PerAnchor))
	}
}

func TestDiffCache(t *testing.T) {
	s := builtSession(t)
	a := s.DiffBetween(0, 1)
	if a == nil {
		t.Fatal("no diff")
	}
	if b := s.DiffBetween(0, 1); a != b {
		t.Error("diff not cached")
	}
	if d := s.DiffBetween(0, 99); d != nil {
		t.Error("diff for invalid pair not nil")
	}
}

func TestFrameBetweenEndpoints(t *testing.T) {
	s := builtSession(t)
	f0, err := s.FrameBetween(0, 1, 0, anim.Forward)
	if err != nil {
		t.Fatalf("FrameBetween: %v", err)
	}
	f1, err := s.FrameBetween(0, 1, 1, anim.Forward)
	if err != nil {
		t.Fatalf("FrameBetween: %v", err)
	}
	if f0.T != 0 || f1.T != 1 {
		t.Errorf("frame progress = %v, %v", f0.T, f1.T)
	}
	if len(f0.Leaves) != 4 || len(f1.Leaves) != 4 {
		t.Error("leaf geometry missing")
	}
}

func TestFrameBetweenJump(t *testing.T) {
	s := builtSession(t)
	f, err := s.FrameBetween(0, 2, 0.3, anim.Jump)
	if err != nil {
		t.Fatalf("FrameBetween: %v", err)
	}
	// A jump shows the target tree regardless of t.
	for _, g := range f.Branches {
		if g.State != anim.StateUpdate || g.Opacity != 1 {
			t.Errorf("jump frame element %q state=%v opacity=%v", g.Key, g.State, g.Opacity)
		}
	}
}

func TestFrameBeforeBuild(t *testing.T) {
	s := NewSession(testMovie(t))
	if _, err := s.FrameAt(0); err == nil {
		t.Error("FrameAt before BuildLayouts did not fail")
	}
	if _, err := s.FrameBetween(0, 1, 0, anim.Forward); err == nil {
		t.Error("FrameBetween before BuildLayouts did not fail")
	}
}

type panicRenderer struct{}

func (panicRenderer) BeginFrame(w, h float64) { panic("boom") }
func (panicRenderer) DrawBranch(anim.BranchGeom, highlight.Style, float64, float64) {
}
func (panicRenderer) DrawLeafNode(anim.LeafGeom, highlight.Style)                 {}
func (panicRenderer) DrawLeafExtension(anim.LeafGeom, float64, highlight.Style)   {}
func (panicRenderer) DrawLeafLabel(anim.LeafGeom, float64, highlight.Style, float64) {
}
func (panicRenderer) EndFrame() error { return nil }
func (panicRenderer) Ready() bool     { return true }

func TestRenderPanicContained(t *testing.T) {
	s := builtSession(t)
	f, err := s.FrameAt(0)
	if err != nil {
		t.Fatal(err)
	}
	err = s.Render(panicRenderer{}, f, 0, StyleParams{})
	if err == nil {
		t.Fatal("panic not converted to error")
	}
}

func TestMSASyncThrottle(t *testing.T) {
	var sync MSASync
	t0 := time.Unix(1000, 0)

	if !sync.TryBegin(t0) {
		t.Fatal("first sync rejected")
	}
	if sync.TryBegin(t0.Add(200 * time.Millisecond)) {
		t.Error("sync granted while one is in flight")
	}
	sync.Done()
	if sync.TryBegin(t0.Add(50 * time.Millisecond)) {
		t.Error("sync granted inside the throttle interval")
	}
	if !sync.TryBegin(t0.Add(150 * time.Millisecond)) {
		t.Error("sync rejected after the interval")
	}
	sync.Done()
}
