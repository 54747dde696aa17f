package loader

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

func TestLoadBundle(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "bundle.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.FileName != "primates.json" {
		t.Errorf("file name = %q, want primates.json", m.FileName)
	}
	if m.TreeCount() != 3 {
		t.Fatalf("tree count = %d, want 3", m.TreeCount())
	}
	if len(m.SortedLeaves) != 4 {
		t.Fatalf("leaves = %v", m.SortedLeaves)
	}
	if m.Phase(0) != model.PhaseOriginal || m.Phase(1) != model.PhaseDown {
		t.Errorf("phases = %v, %v", m.Phase(0), m.Phase(1))
	}
	if m.MSA == nil || m.MSA.AlignmentLength != 500 || m.MSA.StepSize != 2 {
		t.Errorf("msa payload wrong: %+v", m.MSA)
	}
	if len(m.PairSolutions["pair_0_1"].LatticeEdgeSolutions) != 1 {
		t.Error("pair solutions lost")
	}
	if len(m.ScaleList) != 3 || m.ScaleList[2] != 1.1 {
		t.Errorf("scale list = %v", m.ScaleList)
	}
}

func TestLoadDecodesTolerantForms(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "bundle.json"))
	if err != nil {
		t.Fatal(err)
	}

	// Branch length given as a quoted string.
	t0 := m.Trees[0]
	bID := -1
	for id := range t0.Nodes {
		if t0.Nodes[id].Name == "B" {
			bID = id
		}
	}
	if bID < 0 {
		t.Fatal("leaf B not found")
	}
	if got := t0.Nodes[bID].Length; got != 1.5 {
		t.Errorf("string length decoded to %v, want 1.5", got)
	}

	// Edge tracking accepts arrays, tuple strings, and null.
	if len(m.LatticeEdgeTracking) != 3 {
		t.Fatalf("tracking = %v", m.LatticeEdgeTracking)
	}
	want := model.EdgeRef{0, 1}
	for i := 0; i < 2; i++ {
		got := m.LatticeEdgeTracking[i]
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("tracking[%d] = %v, want %v", i, got, want)
		}
	}
	if m.LatticeEdgeTracking[2] != nil {
		t.Errorf("null tracking decoded to %v", m.LatticeEdgeTracking[2])
	}
}

func TestLoadFillsDistances(t *testing.T) {
	// The fixture omits rfd_list and wrfd_list; both are recomputed over
	// the two anchors.
	m, err := Load(filepath.Join("testdata", "bundle.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.RFDList) != 1 {
		t.Fatalf("rfd list = %v, want one pair", m.RFDList)
	}
	if m.RFDList[0] <= 0 {
		t.Errorf("rfd between different topologies = %v, want > 0", m.RFDList[0])
	}
	if len(m.WRFDList) != 1 {
		t.Errorf("wrfd list = %v", m.WRFDList)
	}
}

func TestParseLegacyTreeList(t *testing.T) {
	data := []byte(`{
		"tree_list": [
			{"children": [{"name": "A", "length": 1}, {"name": "B", "length": 2}]},
			{"children": [{"name": "A", "length": 2}, {"name": "B", "length": 1}]}
		]
	}`)
	m, err := Parse(data, "legacy.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.TreeCount() != 2 {
		t.Fatalf("tree count = %d", m.TreeCount())
	}
	if m.FileName != "legacy.json" {
		t.Errorf("file name fallback = %q", m.FileName)
	}
	// Leaves derived from the first tree, metadata synthesized as anchors.
	if len(m.SortedLeaves) != 2 {
		t.Errorf("leaves = %v", m.SortedLeaves)
	}
	for i := range m.Metadata {
		if !m.Metadata[i].Phase.IsAnchor() {
			t.Errorf("tree %d not an anchor: %v", i, m.Metadata[i].Phase)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string][]byte{
		"invalid json": []byte(`{not json`),
		"no trees":     []byte(`{"interpolated_trees": []}`),
		"unknown leaf": []byte(`{
			"sorted_leaves": ["A", "B"],
			"interpolated_trees": [{"children": [{"name": "A", "length": 1}, {"name": "Z", "length": 1}]}]
		}`),
	}
	for name, data := range cases {
		if _, err := Parse(data, name); !errors.Is(err, model.ErrInvalidMovie) {
			t.Errorf("%s: err = %v, want ErrInvalidMovie", name, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/bundle.json"); err == nil {
		t.Error("missing file accepted")
	}
}
