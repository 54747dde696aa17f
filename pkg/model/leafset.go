package model

import (
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

// LeafSet is a bitset over leaf ordinals. It is the canonical representation
// of a split: the set of leaves below an edge. Subset and equality checks are
// bitwise, so cross-tree identity tests stay cheap during interpolation.
type LeafSet []uint64

// NewLeafSet returns an empty set sized for n leaves.
func NewLeafSet(n int) LeafSet {
	if n <= 0 {
		return LeafSet{}
	}
	return make(LeafSet, (n+63)/64)
}

// LeafSetOf builds a set from leaf ordinals. Negative ordinals are ignored.
func LeafSetOf(n int, indices ...int) LeafSet {
	s := NewLeafSet(n)
	for _, i := range indices {
		s = s.Add(i)
	}
	return s
}

// Add returns the set with ordinal i included, growing the set if needed.
func (s LeafSet) Add(i int) LeafSet {
	if i < 0 {
		return s
	}
	w := i / 64
	for len(s) <= w {
		s = append(s, 0)
	}
	s[w] |= 1 << uint(i%64)
	return s
}

// Has reports whether ordinal i is in the set.
func (s LeafSet) Has(i int) bool {
	if i < 0 {
		return false
	}
	w := i / 64
	if w >= len(s) {
		return false
	}
	return s[w]&(1<<uint(i%64)) != 0
}

// Count returns the number of leaves in the set.
func (s LeafSet) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether the set contains no leaves.
func (s LeafSet) IsEmpty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

// Equal reports set equality, tolerating trailing zero words.
func (s LeafSet) Equal(o LeafSet) bool {
	long, short := s, o
	if len(long) < len(short) {
		long, short = short, long
	}
	for i := range short {
		if long[i] != short[i] {
			return false
		}
	}
	for i := len(short); i < len(long); i++ {
		if long[i] != 0 {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every leaf of s is in o.
func (s LeafSet) SubsetOf(o LeafSet) bool {
	for i, w := range s {
		if w == 0 {
			continue
		}
		if i >= len(o) || w&^o[i] != 0 {
			return false
		}
	}
	return true
}

// ProperSubsetOf reports whether s is a subset of o and not equal to it.
func (s LeafSet) ProperSubsetOf(o LeafSet) bool {
	return s.SubsetOf(o) && !s.Equal(o)
}

// Union returns a new set with the leaves of both.
func (s LeafSet) Union(o LeafSet) LeafSet {
	long, short := s, o
	if len(long) < len(short) {
		long, short = short, long
	}
	out := make(LeafSet, len(long))
	copy(out, long)
	for i := range short {
		out[i] |= short[i]
	}
	return out
}

// Indices returns the sorted leaf ordinals in the set.
func (s LeafSet) Indices() []int {
	out := make([]int, 0, s.Count())
	for wi, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, wi*64+b)
			w &^= 1 << uint(b)
		}
	}
	return out
}

// Key returns the canonical split key: the sorted ordinals rendered as
// "[a, b, c]". This matches the key format of lattice_edge_solutions in the
// movie bundle, so a split can be used directly as a solution lookup key.
func (s LeafSet) Key() string {
	return SplitKey(s.Indices())
}

// SplitKey renders sorted leaf ordinals in the bundle's solution-key form.
func SplitKey(indices []int) string {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range sorted {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte(']')
	return b.String()
}
