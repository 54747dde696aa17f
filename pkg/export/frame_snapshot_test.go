package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/player"
)

func sessionFor(t *testing.T) *player.Session {
	t.Helper()
	leaves := []string{"A", "B", "C"}
	tree, err := model.BuildTree(model.TreeInput{Children: []model.TreeInput{
		{Length: 1, Children: []model.TreeInput{{Name: "A", Length: 1}, {Name: "B", Length: 1}}},
		{Name: "C", Length: 2},
	}}, leaves)
	if err != nil {
		t.Fatal(err)
	}
	m := &model.Movie{
		SortedLeaves:  leaves,
		Trees:         []*model.Tree{tree},
		Metadata:      []model.TreeMeta{{TreeName: "T0", Phase: model.PhaseOriginal}},
		PairSolutions: map[string]model.PairSolution{},
	}
	m.EnsureDerived()
	s := player.NewSession(m)
	if err := s.BuildLayouts(context.Background(), player.LayoutParams{
		Width: 300, Height: 300, Margin: 20, Factor: 1,
	}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveFrameSnapshotSVG(t *testing.T) {
	s := sessionFor(t)
	path := filepath.Join(t.TempDir(), "out", "frame.svg")
	if err := SaveFrameSnapshot(s, FrameSnapshotOptions{Path: path}); err != nil {
		t.Fatalf("SaveFrameSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "<svg") {
		t.Error("not an SVG document")
	}
	for _, name := range []string{"A", "B", "C"} {
		if !strings.Contains(out, ">"+name+"<") {
			t.Errorf("leaf label %q missing", name)
		}
	}
}

func TestSaveFrameSnapshotPNG(t *testing.T) {
	s := sessionFor(t)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := SaveFrameSnapshot(s, FrameSnapshotOptions{Path: path}); err != nil {
		t.Fatalf("SaveFrameSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("not a PNG file")
	}
}

func TestSaveFrameSnapshotInfersExtension(t *testing.T) {
	s := sessionFor(t)
	base := filepath.Join(t.TempDir(), "frame")
	if err := SaveFrameSnapshot(s, FrameSnapshotOptions{Path: base}); err != nil {
		t.Fatalf("SaveFrameSnapshot: %v", err)
	}
	if _, err := os.Stat(base + ".svg"); err != nil {
		t.Errorf("default .svg suffix not applied: %v", err)
	}
}

func TestSaveFrameSnapshotErrors(t *testing.T) {
	s := sessionFor(t)
	if err := SaveFrameSnapshot(s, FrameSnapshotOptions{}); err == nil {
		t.Error("empty path accepted")
	}
	if err := SaveFrameSnapshot(s, FrameSnapshotOptions{Path: "x.gif", Format: "gif"}); err == nil {
		t.Error("unsupported format accepted")
	}
	if err := SaveFrameSnapshot(s, FrameSnapshotOptions{Path: "x.svg", Position: 9}); err == nil {
		t.Error("out-of-range position accepted")
	}
	if err := SaveFrameSnapshot(nil, FrameSnapshotOptions{Path: "x.svg"}); err == nil {
		t.Error("nil session accepted")
	}
}
