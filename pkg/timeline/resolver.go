// Package timeline maps the single scalar sequence position onto everything
// derived from it: anchor ordinals, transition phases, fractional distance
// indices, step navigation targets, and normalized timeline progress.
package timeline

import (
	"fmt"
	"sort"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// Direction classifies interpolated trees by which half of a transition
// they belong to.
type Direction string

const (
	ITDown Direction = "IT_DOWN" // shrinking toward the collapsed topology
	ITUp   Direction = "IT_UP"   // growing toward the target anchor
	ITNone Direction = ""
)

// TransitionType schedules enter/exit staging for the interpolator.
type TransitionType string

const (
	TransitionDefault          TransitionType = "default"
	TransitionExitFirst        TransitionType = "exit_first"
	TransitionAnimateThenEnter TransitionType = "animate_then_enter"
)

// Resolver is built once per movie load and answers every index question
// without ever panicking: invalid positions yield -1 (indices), 0
// (distance), or false/"" (classifiers).
type Resolver struct {
	movie   *model.Movie
	anchors []int       // sequence positions of anchor trees, ascending
	ordinal map[int]int // anchor position -> ordinal
}

// NewResolver indexes the movie's metadata.
func NewResolver(m *model.Movie) *Resolver {
	r := &Resolver{movie: m, ordinal: make(map[int]int)}
	for pos := range m.Metadata {
		if m.Metadata[pos].Phase.IsAnchor() {
			r.ordinal[pos] = len(r.anchors)
			r.anchors = append(r.anchors, pos)
		}
	}
	return r
}

// FullTreeIndices returns the anchor positions in sequence order.
func (r *Resolver) FullTreeIndices() []int { return r.anchors }

// AnchorCount returns the number of anchor trees.
func (r *Resolver) AnchorCount() int { return len(r.anchors) }

// TotalSequence returns the length of the interpolated sequence.
func (r *Resolver) TotalSequence() int { return r.movie.TreeCount() }

func (r *Resolver) valid(pos int) bool {
	return pos >= 0 && pos < r.movie.TreeCount()
}

// HighlightingIndex returns the ordinal k of the anchor whose transition
// block contains pos (the block starts at the anchor itself). Positions
// before the first anchor, or out of range, yield -1.
func (r *Resolver) HighlightingIndex(pos int) int {
	if !r.valid(pos) || len(r.anchors) == 0 {
		return -1
	}
	// Largest anchor position <= pos.
	i := sort.SearchInts(r.anchors, pos+1) - 1
	if i < 0 {
		return -1
	}
	return i
}

// SourceAnchorPos returns the sequence position of the anchor starting the
// block containing pos, or -1.
func (r *Resolver) SourceAnchorPos(pos int) int {
	k := r.HighlightingIndex(pos)
	if k < 0 {
		return -1
	}
	return r.anchors[k]
}

// MSAFrameIndex maps a sequence position to the alignment frame that
// drives the MSA window: the ordinal of the block's source anchor, since
// the sliding windows correspond to input trees, not interpolated ones.
// Positions before the first anchor, or out of range, yield 0.
func (r *Resolver) MSAFrameIndex(pos int) int {
	if k := r.HighlightingIndex(pos); k > 0 {
		return k
	}
	return 0
}

// IsFullTree reports whether pos holds an anchor tree.
func (r *Resolver) IsFullTree(pos int) bool {
	return r.movie.Phase(pos).IsAnchor()
}

// IsConsensusTree reports whether pos holds a collapse/reorder consensus.
func (r *Resolver) IsConsensusTree(pos int) bool {
	return r.movie.Phase(pos).IsConsensus()
}

// IsInterpolatedTree reports whether pos holds any non-anchor tree.
func (r *Resolver) IsInterpolatedTree(pos int) bool {
	p := r.movie.Phase(pos)
	return p != model.PhaseUnknown && !p.IsAnchor()
}

// InterpolationDirection classifies pos by transition half.
func (r *Resolver) InterpolationDirection(pos int) Direction {
	switch r.movie.Phase(pos) {
	case model.PhaseDown:
		return ITDown
	case model.PhasePreSnap, model.PhaseSnap:
		return ITUp
	default:
		return ITNone
	}
}

// PairKeyAt returns the transition pair key governing pos. Metadata is
// preferred; when absent, the key is derived from the surrounding anchors
// (segment fallback). Anchors and invalid positions yield "".
func (r *Resolver) PairKeyAt(pos int) string {
	if !r.valid(pos) || r.IsFullTree(pos) {
		return ""
	}
	if key := r.movie.PairKey(pos); key != "" {
		return key
	}
	k := r.HighlightingIndex(pos)
	if k < 0 || k+1 >= len(r.anchors) {
		return ""
	}
	return model.PairKeyFor(k, k+1)
}

// TreesPerSEdge returns the interpolated tree count for a pair key,
// treating a missing entry as 1 per the ambiguity policy.
func (r *Resolver) TreesPerSEdge(pairKey string) int {
	if n, ok := r.movie.SEdge.TreesPerSEdge[pairKey]; ok {
		return n
	}
	return 1
}

// PairHasInterpolation reports whether a pair carries any lattice edge
// solutions; identical anchors produce an empty map and no interpolation.
func (r *Resolver) PairHasInterpolation(pairKey string) bool {
	sol, ok := r.movie.PairSolutions[pairKey]
	return ok && len(sol.LatticeEdgeSolutions) > 0
}

// DistanceIndex maps a sequence position onto the (fractional) distance
// series axis. Anchors sit at the ordinal of the transition leading to them
// (anchor 0 clamps to 0); interpolated trees sit at
// sourceOrdinal + (step-1)/treesPerSEdge, or exactly at the source ordinal
// when the pair has no interpolation. Invalid positions yield 0.
func (r *Resolver) DistanceIndex(pos int) float64 {
	if !r.valid(pos) || len(r.anchors) == 0 {
		return 0
	}
	if k, ok := r.ordinal[pos]; ok {
		if k == 0 {
			return 0
		}
		return float64(k - 1)
	}
	k := r.HighlightingIndex(pos)
	if k < 0 {
		return 0
	}
	pairKey := r.PairKeyAt(pos)
	if pairKey == "" || !r.PairHasInterpolation(pairKey) {
		return float64(k)
	}
	step := r.movie.StepInPair(pos)
	if step < 1 {
		// Segment fallback: count from the block start.
		step = pos - r.anchors[k]
	}
	per := r.TreesPerSEdge(pairKey)
	if per < 1 {
		per = 1
	}
	return float64(k) + float64(step-1)/float64(per)
}

// TreeIndexForDistanceIndex inverts a discrete distance index to the
// sequence position of the transition's target anchor. Out of range
// yields -1.
func (r *Resolver) TreeIndexForDistanceIndex(d int) int {
	if d < 0 || d+1 >= len(r.anchors) {
		return -1
	}
	return r.anchors[d+1]
}

// TransitionType schedules enter/exit order for a (from, to) frame pair.
// Collapsing steps retire their edges before anything else moves; steps
// that leave a collapsed topology move first and grow new edges late.
func (r *Resolver) TransitionType(from, to int) TransitionType {
	a, b := r.movie.Phase(from), r.movie.Phase(to)
	switch {
	case a == model.PhaseDown && b == model.PhaseCollapse:
		return TransitionExitFirst
	case a == model.PhaseSnap && b == model.PhaseCollapse:
		return TransitionExitFirst
	case a == model.PhaseCollapse && b == model.PhasePreSnap:
		return TransitionAnimateThenEnter
	case a == model.PhaseReorder && b == model.PhasePreSnap:
		return TransitionAnimateThenEnter
	default:
		return TransitionDefault
	}
}

// NextPosition returns pos+1 clamped to the sequence end, or -1 for an
// invalid pos.
func (r *Resolver) NextPosition(pos int) int {
	if !r.valid(pos) {
		return -1
	}
	if pos+1 >= r.movie.TreeCount() {
		return pos
	}
	return pos + 1
}

// PreviousPosition returns pos-1 clamped to 0, or -1 for an invalid pos.
func (r *Resolver) PreviousPosition(pos int) int {
	if !r.valid(pos) {
		return -1
	}
	if pos == 0 {
		return 0
	}
	return pos - 1
}

// NextAnchor returns the position of the first anchor strictly after pos,
// or -1 when there is none.
func (r *Resolver) NextAnchor(pos int) int {
	i := sort.SearchInts(r.anchors, pos+1)
	if i >= len(r.anchors) {
		return -1
	}
	return r.anchors[i]
}

// PrevAnchor returns the position of the last anchor strictly before pos,
// or -1 when there is none.
func (r *Resolver) PrevAnchor(pos int) int {
	i := sort.SearchInts(r.anchors, pos) - 1
	if i < 0 {
		return -1
	}
	return r.anchors[i]
}

// NextConsensus returns the next consensus-tree position after pos, or -1.
func (r *Resolver) NextConsensus(pos int) int {
	for p := pos + 1; p < r.movie.TreeCount(); p++ {
		if r.IsConsensusTree(p) {
			return p
		}
	}
	return -1
}

// PrevConsensus returns the previous consensus-tree position, or -1.
func (r *Resolver) PrevConsensus(pos int) int {
	for p := pos - 1; p >= 0; p-- {
		if r.IsConsensusTree(p) {
			return p
		}
	}
	return -1
}

// TreeIndexForSEdgeStep returns the position of the given 1-based step
// within a transition pair, or -1.
func (r *Resolver) TreeIndexForSEdgeStep(pairKey string, step int) int {
	for pos := range r.movie.Metadata {
		m := &r.movie.Metadata[pos]
		if m.TreePairKey == pairKey && m.StepInPair == step {
			return pos
		}
	}
	return -1
}

// NextSEdgeFirstTreeIndex returns the first position of the transition
// following pairKey; when the next pair has no interpolated trees, the
// shared anchor's position is returned. Unparseable keys yield -1.
func (r *Resolver) NextSEdgeFirstTreeIndex(pairKey string) int {
	_, b, ok := parsePairKey(pairKey)
	if !ok {
		return -1
	}
	if pos := r.firstOfPair(model.PairKeyFor(b, b+1)); pos >= 0 {
		return pos
	}
	if b < len(r.anchors) {
		return r.anchors[b]
	}
	return -1
}

// PrevSEdgeFirstTreeIndex returns the first position of the transition
// preceding pairKey, falling back to its source anchor's position.
func (r *Resolver) PrevSEdgeFirstTreeIndex(pairKey string) int {
	a, _, ok := parsePairKey(pairKey)
	if !ok {
		return -1
	}
	if a > 0 {
		if pos := r.firstOfPair(model.PairKeyFor(a-1, a)); pos >= 0 {
			return pos
		}
	}
	if a < len(r.anchors) {
		return r.anchors[a]
	}
	return -1
}

func (r *Resolver) firstOfPair(pairKey string) int {
	for pos := range r.movie.Metadata {
		if r.movie.Metadata[pos].TreePairKey == pairKey {
			return pos
		}
	}
	return -1
}

func parsePairKey(key string) (a, b int, ok bool) {
	n, err := fmt.Sscanf(key, "pair_%d_%d", &a, &b)
	return a, b, err == nil && n == 2
}
