package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/config"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/layout"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/store"
)

func testMovie(t *testing.T) *model.Movie {
	t.Helper()
	leaves := []string{"A", "B", "C", "D"}
	mk := func(in model.TreeInput) *model.Tree {
		tree, err := model.BuildTree(in, leaves)
		if err != nil {
			t.Fatal(err)
		}
		return tree
	}
	ab := mk(model.TreeInput{Children: []model.TreeInput{
		{Length: 1, Children: []model.TreeInput{{Name: "A", Length: 1}, {Name: "B", Length: 1}}},
		{Length: 1, Children: []model.TreeInput{{Name: "C", Length: 1}, {Name: "D", Length: 1}}},
	}})
	ac := mk(model.TreeInput{Children: []model.TreeInput{
		{Length: 1, Children: []model.TreeInput{{Name: "A", Length: 1}, {Name: "C", Length: 1}}},
		{Length: 1, Children: []model.TreeInput{{Name: "B", Length: 1}, {Name: "D", Length: 1}}},
	}})

	m := &model.Movie{
		FileName:     "test.json",
		SortedLeaves: leaves,
		Trees:        []*model.Tree{ab, mk(model.TreeInput{Children: []model.TreeInput{
			{Length: 1, Children: []model.TreeInput{{Name: "A", Length: 1}, {Name: "B", Length: 1}}},
			{Name: "C", Length: 1}, {Name: "D", Length: 1},
		}}), ac},
		Metadata: []model.TreeMeta{
			{TreeName: "T0", Phase: model.PhaseOriginal},
			{TreeName: "T0_down", Phase: model.PhaseDown, TreePairKey: "pair_0_1", StepInPair: 1},
			{TreeName: "T1", Phase: model.PhaseOriginal},
		},
		PairSolutions: map[string]model.PairSolution{},
	}
	m.EnsureDerived()
	return m
}

func readyModel(t *testing.T) Model {
	t.Helper()
	m := New(config.DefaultConfig(), testMovie(t), "/tmp/test.json", nil)
	m.width = 80
	m.height = 24
	cols, rows := m.treePaneSize()
	m.term.Resize(cols, rows)
	if err := m.session.BuildLayouts(context.Background(), m.layoutParams()); err != nil {
		t.Fatalf("BuildLayouts: %v", err)
	}
	m.ready = true
	return m
}

func keyPress(k string) tea.KeyMsg {
	if len(k) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	switch k {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	case "shift+left":
		return tea.KeyMsg{Type: tea.KeyShiftLeft}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func TestNewAppliesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Playback.Speed = 2
	cfg.Style.MonophyleticColoring = true
	cfg.Style.BranchTransform = "log"

	m := New(cfg, testMovie(t), "/tmp/test.json", nil)
	st := m.StoreState()
	if st.Speed != 2 {
		t.Errorf("speed = %g, want 2", st.Speed)
	}
	if !st.MonophyleticColoring {
		t.Error("monophyletic coloring not applied")
	}
	if st.BranchTransform.Mode != layout.TransformLog {
		t.Errorf("transform = %v, want log", st.BranchTransform.Mode)
	}
}

func TestStepKeys(t *testing.T) {
	m := readyModel(t)

	m = update(t, m, keyPress("right"))
	if got := m.StoreState().Position; got != 1 {
		t.Errorf("position after step = %d, want 1", got)
	}

	m = update(t, m, keyPress("left"))
	if got := m.StoreState().Position; got != 0 {
		t.Errorf("position after step back = %d, want 0", got)
	}

	// Stepping back at the start stays clamped.
	m = update(t, m, keyPress("left"))
	if got := m.StoreState().Position; got != 0 {
		t.Errorf("position clamped = %d, want 0", got)
	}
}

func TestAnchorJumps(t *testing.T) {
	m := readyModel(t)

	m = update(t, m, keyPress("shift+right"))
	if got := m.StoreState().Position; got != 2 {
		t.Errorf("next anchor = %d, want 2", got)
	}

	m = update(t, m, keyPress("shift+left"))
	if got := m.StoreState().Position; got != 0 {
		t.Errorf("prev anchor = %d, want 0", got)
	}
}

func TestHomeEndKeys(t *testing.T) {
	m := readyModel(t)

	m = update(t, m, keyPress("end"))
	if got := m.StoreState().Position; got != 2 {
		t.Errorf("end = %d, want 2", got)
	}
	m = update(t, m, keyPress("home"))
	if got := m.StoreState().Position; got != 0 {
		t.Errorf("home = %d, want 0", got)
	}
}

func TestPlayPause(t *testing.T) {
	m := readyModel(t)

	next, cmd := m.Update(keyPress("space"))
	m = next.(Model)
	if !m.StoreState().Playing {
		t.Error("not playing after space")
	}
	if cmd == nil {
		t.Error("no tick scheduled")
	}

	m = update(t, m, keyPress("space"))
	if m.StoreState().Playing {
		t.Error("still playing after second space")
	}
}

func TestViewToggles(t *testing.T) {
	m := readyModel(t)

	m = update(t, m, keyPress("m"))
	if !m.StoreState().MonophyleticColoring {
		t.Error("m did not enable monophyletic coloring")
	}
	m = update(t, m, keyPress("d"))
	if !m.StoreState().DimInactive {
		t.Error("d did not enable dimming")
	}
	m = update(t, m, keyPress("D"))
	if !m.StoreState().DimMarked {
		t.Error("D did not enable marked dimming")
	}
}

func TestTransformCycle(t *testing.T) {
	m := readyModel(t)

	next, cmd := m.Update(keyPress("t"))
	m = next.(Model)
	if m.StoreState().BranchTransform.Mode != layout.TransformLog {
		t.Errorf("transform = %v, want log", m.StoreState().BranchTransform.Mode)
	}
	if cmd == nil {
		t.Error("transform change did not schedule a layout rebuild")
	}
}

func TestNextTransformWraps(t *testing.T) {
	tr := layout.Transform{Mode: layout.TransformNone}
	seen := map[layout.TransformMode]bool{}
	for i := 0; i < 4; i++ {
		tr = nextTransform(tr)
		seen[tr.Mode] = true
	}
	if tr.Mode != layout.TransformNone {
		t.Errorf("cycle did not wrap, ended at %v", tr.Mode)
	}
	if len(seen) != 4 {
		t.Errorf("cycle visited %d modes, want 4", len(seen))
	}
}

func TestBarOptionCycle(t *testing.T) {
	opt := store.BarRFD
	opt = nextBarOption(opt)
	if opt != store.BarWRFD {
		t.Errorf("got %v, want w-rfd", opt)
	}
	opt = nextBarOption(nextBarOption(opt))
	if opt != store.BarRFD {
		t.Errorf("cycle did not wrap, got %v", opt)
	}
}

func TestSpeedClamps(t *testing.T) {
	m := readyModel(t)

	for i := 0; i < 10; i++ {
		m = update(t, m, keyPress("+"))
	}
	if got := m.StoreState().Speed; got != 8 {
		t.Errorf("speed = %g, want clamp at 8", got)
	}
	for i := 0; i < 20; i++ {
		m = update(t, m, keyPress("-"))
	}
	if got := m.StoreState().Speed; got != 0.125 {
		t.Errorf("speed = %g, want clamp at 0.125", got)
	}
}

func TestHelpToggle(t *testing.T) {
	m := readyModel(t)
	m.helpText = "help body"

	m = update(t, m, keyPress("?"))
	if !m.showHelp {
		t.Fatal("help not shown")
	}
	if !strings.Contains(m.View(), "help body") {
		t.Error("help text missing from view")
	}

	// Any key closes help.
	m = update(t, m, keyPress("x"))
	if m.showHelp {
		t.Error("help still open")
	}
}

func TestWindowResizeSchedulesLayout(t *testing.T) {
	m := New(config.DefaultConfig(), testMovie(t), "/tmp/test.json", nil)
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("resize did not schedule layout build")
	}
	if !m.building {
		t.Error("building flag not set")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("layout cmd produced no msg")
	} else if built, ok := msg.(layoutBuiltMsg); !ok || built.err != nil {
		t.Fatalf("layout build failed: %v", msg)
	}
}

func TestLayoutBuiltMarksReady(t *testing.T) {
	m := New(config.DefaultConfig(), testMovie(t), "/tmp/test.json", nil)
	m.building = true
	m = update(t, m, layoutBuiltMsg{})
	if !m.ready || m.building {
		t.Errorf("ready=%v building=%v after layoutBuiltMsg", m.ready, m.building)
	}
}

func TestViewSmoke(t *testing.T) {
	m := readyModel(t)
	out := m.View()
	if !strings.Contains(out, "test.json") {
		t.Error("header missing file name")
	}
	if !strings.Contains(out, "1/3") {
		t.Error("header missing position")
	}
}

func TestTickBatchesStoreCommits(t *testing.T) {
	m := readyModel(t)
	m = update(t, m, keyPress("space"))
	if !m.StoreState().Playing {
		t.Fatal("not playing")
	}

	fired := 0
	unsub := store.SubscribeFunc(m.store,
		func(store.State) int { return 0 },
		func(a, b int) bool { return false }, // fire on every notification
		func(int) { fired++ })
	defer unsub()

	// A tick far in the future completes the run: animation progress,
	// stop, and final position commit as one batch.
	m = update(t, m, tickMsg(time.Now().Add(time.Hour)))
	st := m.StoreState()
	if st.Playing {
		t.Error("still playing after final tick")
	}
	if st.Position != 2 {
		t.Errorf("position = %d, want 2", st.Position)
	}
	if fired != 1 {
		t.Errorf("subscriber fired %d times, want 1 batched notification", fired)
	}
}

func TestChartLineShowsSummary(t *testing.T) {
	mv := testMovie(t)
	mv.RFDList = []float64{0.25, 0.75}
	m := New(config.DefaultConfig(), mv, "/tmp/test.json", nil)
	m.width = 80
	m.height = 24

	line := m.chartLine(m.StoreState())
	if !strings.Contains(line, "mean") || !strings.Contains(line, "max") {
		t.Errorf("chart line missing series summary: %q", line)
	}
}

func TestStatusLineHidesDefaultTransform(t *testing.T) {
	m := readyModel(t)
	if line := m.statusLine(m.StoreState()); strings.Contains(line, "transform") {
		t.Errorf("default transform shown in status: %q", line)
	}

	m.store.SetBranchTransform(layout.Transform{Mode: layout.TransformLog})
	if line := m.statusLine(m.StoreState()); !strings.Contains(line, "transform: log") {
		t.Errorf("transform chip missing: %q", line)
	}
}

func TestMSALineFollowsSourceAnchor(t *testing.T) {
	mv := testMovie(t)
	mv.MSA = &model.MSAData{AlignmentLength: 500, WindowSize: 50, StepSize: 10}
	m := New(config.DefaultConfig(), mv, "/tmp/test.json", nil)
	m.width = 80
	m.height = 24

	atAnchor := m.msaLine(m.StoreState())
	m.store.GoToPosition(1) // interpolated tree of the first block
	atInterp := m.msaLine(m.StoreState())
	if atInterp != atAnchor {
		t.Errorf("interpolated position window %q, want source anchor's %q", atInterp, atAnchor)
	}

	m.store.GoToPosition(2) // next anchor advances the alignment frame
	if next := m.msaLine(m.StoreState()); next == atAnchor {
		t.Errorf("window did not advance at the next anchor: %q", next)
	}
}

func TestTickWhileStopped(t *testing.T) {
	m := readyModel(t)
	next, cmd := m.Update(tickMsg{})
	if cmd != nil {
		t.Error("stopped model rescheduled tick")
	}
	if _, ok := next.(Model); !ok {
		t.Fatalf("unexpected model type %T", next)
	}
}

func TestRenderTimeline(t *testing.T) {
	out := renderTimeline(10, 0, []float64{0, 1})
	if out == "" {
		t.Fatal("empty timeline")
	}
	if !strings.Contains(out, "●") {
		t.Error("cursor glyph missing")
	}
	if !strings.Contains(out, "┼") {
		t.Error("anchor tick missing")
	}
}
