package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrInvalidMovie is the only fatal error class: the bundle cannot support a
// session at all (no trees, no anchors, or inconsistent metadata).
var ErrInvalidMovie = errors.New("invalid movie")

// Float decodes edge lengths that appear as JSON numbers, numeric strings,
// or the empty string (older pipelines emitted all three).
type Float float64

// UnmarshalJSON implements tolerant numeric decoding.
func (f *Float) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = Float(v)
	return nil
}

// EdgeRef identifies a lattice edge by its leaf ordinals. The wire form is
// either a JSON array or the pipeline's legacy "(1, 3, 5)" string; null
// decodes to a nil ref.
type EdgeRef []int

// UnmarshalJSON accepts [1,3,5], "(1,3,5)", and null.
func (e *EdgeRef) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*e = nil
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var out []int
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
		*e = out
		return nil
	}
	// Legacy tuple string form.
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, "()")
	if s == "" {
		*e = nil
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			*e = nil
			return nil
		}
		out = append(out, v)
	}
	*e = out
	return nil
}

// TreeMeta describes one position in the interpolation sequence.
type TreeMeta struct {
	GlobalTreeIndex int    `json:"global_tree_index"`
	TreeName        string `json:"tree_name"`
	TreePairKey     string `json:"tree_pair_key"`
	StepInPair      int    `json:"step_in_pair"`
	Phase           Phase  `json:"phase"`
}

// SEdgeMetadata summarizes the transition structure of the whole movie.
type SEdgeMetadata struct {
	SEdgeCount             int            `json:"s_edge_count"`
	TreesPerSEdge          map[string]int `json:"trees_per_s_edge"`
	TotalInterpolatedTrees int            `json:"total_interpolated_trees"`
	PhaseDistribution      map[string]int `json:"phase_distribution"`
}

// PairSolution holds the per-pair highlight data. Solution values are kept
// as decoded JSON ("any") because the nesting depth varies between pipeline
// versions; CollectLeafSets flattens them.
type PairSolution struct {
	LatticeEdgeSolutions    map[string]any `json:"lattice_edge_solutions"`
	JumpingSubtreeSolutions map[string]any `json:"jumping_subtree_solutions"`
}

// MSAData is the optional alignment payload.
type MSAData struct {
	Sequences       map[string]string `json:"sequences"`
	AlignmentLength int               `json:"alignment_length"`
	WindowSize      int               `json:"window_size"`
	StepSize        int               `json:"step_size"`
}

// Movie is the immutable input bundle after loading: the tree sequence plus
// the structural annotations that drive highlighting and the distance charts.
type Movie struct {
	Trees               []*Tree
	Metadata            []TreeMeta
	SEdge               SEdgeMetadata
	PairSolutions       map[string]PairSolution
	LatticeEdgeTracking []EdgeRef
	RFDList             []float64
	WRFDList            []float64
	ScaleList           []float64
	SortedLeaves        []string
	MSA                 *MSAData
	FileName            string
}

// Empty returns a movie placeholder for failed loads.
func Empty(fileName string) *Movie {
	return &Movie{FileName: fileName, PairSolutions: map[string]PairSolution{}}
}

// PairKeyFor renders the canonical pair key between anchor ordinals a and b.
func PairKeyFor(a, b int) string {
	return fmt.Sprintf("pair_%d_%d", a, b)
}

// TreeCount returns the length of the interpolated sequence.
func (m *Movie) TreeCount() int { return len(m.Trees) }

// Phase returns the phase at a sequence position, PhaseUnknown out of range.
func (m *Movie) Phase(pos int) Phase {
	if pos < 0 || pos >= len(m.Metadata) {
		return PhaseUnknown
	}
	return m.Metadata[pos].Phase
}

// PairKey returns the transition pair key at pos, or "" when absent.
func (m *Movie) PairKey(pos int) string {
	if pos < 0 || pos >= len(m.Metadata) {
		return ""
	}
	return m.Metadata[pos].TreePairKey
}

// StepInPair returns the 1-based step within the transition, 0 when absent.
func (m *Movie) StepInPair(pos int) int {
	if pos < 0 || pos >= len(m.Metadata) {
		return 0
	}
	return m.Metadata[pos].StepInPair
}

// EdgeAt returns the tracked lattice edge at pos, nil when absent.
func (m *Movie) EdgeAt(pos int) EdgeRef {
	if pos < 0 || pos >= len(m.LatticeEdgeTracking) {
		return nil
	}
	return m.LatticeEdgeTracking[pos]
}

// Validate checks the fatal invariants. Everything else is recoverable and
// normalized by EnsureDerived.
func (m *Movie) Validate() error {
	if len(m.Trees) == 0 {
		return fmt.Errorf("%w: no trees in sequence", ErrInvalidMovie)
	}
	if len(m.Metadata) != len(m.Trees) {
		return fmt.Errorf("%w: %d trees but %d metadata entries",
			ErrInvalidMovie, len(m.Trees), len(m.Metadata))
	}
	if len(m.SortedLeaves) == 0 {
		return fmt.Errorf("%w: empty leaf universe", ErrInvalidMovie)
	}
	anchors := 0
	for i := range m.Metadata {
		if m.Metadata[i].Phase.IsAnchor() {
			anchors++
		}
	}
	if anchors == 0 {
		return fmt.Errorf("%w: no anchor trees", ErrInvalidMovie)
	}
	return nil
}

// EnsureDerived fills in fields older bundles omit: phases derived from tree
// names, lattice tracking padded to sequence length, and s-edge metadata
// reconstructed by counting pair keys and phases.
func (m *Movie) EnsureDerived() {
	for i := range m.Metadata {
		if m.Metadata[i].Phase == "" || m.Metadata[i].Phase == PhaseUnknown {
			m.Metadata[i].Phase = PhaseFromTreeName(m.Metadata[i].TreeName)
		}
		if m.Metadata[i].GlobalTreeIndex == 0 && i != 0 {
			m.Metadata[i].GlobalTreeIndex = i
		}
	}
	for len(m.LatticeEdgeTracking) < len(m.Trees) {
		m.LatticeEdgeTracking = append(m.LatticeEdgeTracking, nil)
	}
	if m.PairSolutions == nil {
		m.PairSolutions = map[string]PairSolution{}
	}
	if len(m.SEdge.TreesPerSEdge) == 0 {
		m.SEdge = m.rebuildSEdgeMetadata()
	}
}

func (m *Movie) rebuildSEdgeMetadata() SEdgeMetadata {
	perPair := make(map[string]int)
	phases := make(map[string]int)
	interpolated := 0
	for i := range m.Metadata {
		meta := &m.Metadata[i]
		phases[string(meta.Phase)]++
		if !meta.Phase.IsAnchor() {
			interpolated++
		}
		if meta.TreePairKey != "" {
			perPair[meta.TreePairKey]++
		}
	}
	return SEdgeMetadata{
		SEdgeCount:             len(perPair),
		TreesPerSEdge:          perPair,
		TotalInterpolatedTrees: interpolated,
		PhaseDistribution:      phases,
	}
}

// CollectLeafSets flattens a nested solution value into the leaf sets it
// contains. Any array whose elements are all numbers is one solution; other
// arrays and maps are walked recursively. Duplicates (by set equality) are
// dropped.
func CollectLeafSets(v any, nLeaves int) []LeafSet {
	var out []LeafSet
	seen := make(map[string]bool)
	collectLeafSets(v, nLeaves, &out, seen)
	return out
}

func collectLeafSets(v any, nLeaves int, out *[]LeafSet, seen map[string]bool) {
	switch val := v.(type) {
	case []any:
		if len(val) > 0 && allNumbers(val) {
			s := NewLeafSet(nLeaves)
			for _, e := range val {
				s = s.Add(asInt(e))
			}
			if key := s.Key(); !seen[key] {
				seen[key] = true
				*out = append(*out, s)
			}
			return
		}
		for _, e := range val {
			collectLeafSets(e, nLeaves, out, seen)
		}
	case map[string]any:
		for _, e := range val {
			collectLeafSets(e, nLeaves, out, seen)
		}
	}
}

func allNumbers(vals []any) bool {
	for _, v := range vals {
		switch v.(type) {
		case float64, int, int64, json.Number:
		default:
			return false
		}
	}
	return true
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return -1
}
