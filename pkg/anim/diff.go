// Package anim turns two laid-out trees into one animated frame: a keyed
// diff decides which elements persist, appear, or vanish, the interpolator
// tweens their polar geometry, and the driver maps wall-clock time onto
// the tree sequence.
package anim

import (
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/layout"
)

// Pair joins an element's node ids on both sides of a transition. An
// absent side is -1.
type Pair struct {
	Key    string
	FromID int
	ToID   int
}

// Diff is the keyed comparison of two layouts. Elements are identified by
// split: an edge whose downstream leaf set exists in both trees is the
// same element no matter where the arenas put it.
type Diff struct {
	Update []Pair
	Enter  []Pair // only in the target layout
	Exit   []Pair // only in the source layout
}

// Compute diffs two layouts by split identity. The root contributes no
// element; every other node stands for the edge above it. Leaves always
// land in Update because both trees share one leaf universe, so only
// internal edges enter or exit.
func Compute(from, to *layout.Layout) *Diff {
	d := &Diff{}
	toByKey := make(map[string]int, to.Tree.Len())
	for id := range to.Tree.Nodes {
		if id == to.Tree.Root() {
			continue
		}
		toByKey[to.Tree.Nodes[id].Split.Key()] = id
	}
	for id := range from.Tree.Nodes {
		if id == from.Tree.Root() {
			continue
		}
		key := from.Tree.Nodes[id].Split.Key()
		if toID, ok := toByKey[key]; ok {
			d.Update = append(d.Update, Pair{Key: key, FromID: id, ToID: toID})
			delete(toByKey, key)
		} else {
			d.Exit = append(d.Exit, Pair{Key: key, FromID: id, ToID: -1})
		}
	}
	// Deterministic enter order: walk the target tree, not the map.
	for id := range to.Tree.Nodes {
		if id == to.Tree.Root() {
			continue
		}
		key := to.Tree.Nodes[id].Split.Key()
		if kept, ok := toByKey[key]; ok && kept == id {
			d.Enter = append(d.Enter, Pair{Key: key, FromID: -1, ToID: id})
		}
	}
	return d
}
