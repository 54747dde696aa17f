// Package highlight resolves which subtrees are marked at a sequence
// position and turns that into per-branch colors and dimming.
//
// Marks accumulate over a transition: every tracked lattice edge between
// the block's anchor and the current position contributes the leaf sets of
// its solution entry, so a subtree stays lit from the moment its change
// begins until the next anchor resets the slate.
package highlight

import (
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/debug"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/metrics"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/timeline"
)

// Result is the marking state at one sequence position.
type Result struct {
	// Marked holds the accumulated marked subtrees, deduplicated by set
	// identity, in first-seen order.
	Marked []model.LeafSet
	// ActiveEdge is the lattice edge tracked at the position itself, nil
	// when the position has none.
	ActiveEdge model.EdgeRef
	// ActiveSet is ActiveEdge as a leaf set, empty when there is no edge.
	ActiveSet model.LeafSet
}

// HasMarks reports whether anything is marked at this position.
func (r *Result) HasMarks() bool {
	return len(r.Marked) > 0 || !r.ActiveSet.IsEmpty()
}

// Resolver computes and caches marking results per sequence position.
// It is not safe for concurrent use; the player owns one per session.
type Resolver struct {
	movie   *model.Movie
	tl      *timeline.Resolver
	nLeaves int
	cache   map[int]*Result
}

// NewResolver builds a resolver over a loaded movie.
func NewResolver(m *model.Movie, tl *timeline.Resolver) *Resolver {
	return &Resolver{
		movie:   m,
		tl:      tl,
		nLeaves: len(m.SortedLeaves),
		cache:   make(map[int]*Result),
	}
}

// Invalidate drops all cached results, for use after a bundle reload.
func (r *Resolver) Invalidate() {
	r.cache = make(map[int]*Result)
}

// At resolves the marking state for a sequence position. Invalid positions
// and positions before the first anchor yield an empty result, never an
// error: missing highlight data degrades to an unhighlighted frame.
func (r *Resolver) At(pos int) *Result {
	if res, ok := r.cache[pos]; ok {
		metrics.HighlightCache.Hit()
		return res
	}
	metrics.HighlightCache.Miss()
	res := r.resolve(pos)
	r.cache[pos] = res
	return res
}

func (r *Resolver) resolve(pos int) *Result {
	res := &Result{ActiveSet: model.NewLeafSet(r.nLeaves)}
	start := r.tl.SourceAnchorPos(pos)
	if start < 0 {
		return res
	}
	seen := make(map[string]bool)
	for q := start; q <= pos; q++ {
		edge := r.movie.EdgeAt(q)
		if len(edge) == 0 {
			continue
		}
		pairKey := r.tl.PairKeyAt(q)
		if pairKey == "" {
			continue
		}
		sol, ok := r.movie.PairSolutions[pairKey]
		if !ok {
			continue
		}
		entry, ok := sol.LatticeEdgeSolutions[model.SplitKey(edge)]
		if !ok {
			debug.Log("highlight: no solution for edge %v in %s", edge, pairKey)
			continue
		}
		for _, s := range model.CollectLeafSets(entry, r.nLeaves) {
			if key := s.Key(); !seen[key] {
				seen[key] = true
				res.Marked = append(res.Marked, s)
			}
		}
	}
	if edge := r.movie.EdgeAt(pos); len(edge) > 0 {
		res.ActiveEdge = edge
		res.ActiveSet = model.LeafSetOf(r.nLeaves, edge...)
	}
	return res
}

// Merge returns a result extended with manually marked subtrees, without
// touching the cached original.
func Merge(base *Result, manual []model.LeafSet) *Result {
	if len(manual) == 0 {
		return base
	}
	out := &Result{
		Marked:     make([]model.LeafSet, len(base.Marked), len(base.Marked)+len(manual)),
		ActiveEdge: base.ActiveEdge,
		ActiveSet:  base.ActiveSet,
	}
	copy(out.Marked, base.Marked)
	seen := make(map[string]bool, len(out.Marked))
	for _, s := range out.Marked {
		seen[s.Key()] = true
	}
	for _, s := range manual {
		if key := s.Key(); !seen[key] {
			seen[key] = true
			out.Marked = append(out.Marked, s)
		}
	}
	return out
}
