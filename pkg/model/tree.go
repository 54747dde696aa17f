package model

import (
	"fmt"
)

// NoParent marks the root's parent index.
const NoParent = -1

// Node is one entry in a tree arena. Children and Parent are indices into
// the owning Tree's node slice, so the structure stays acyclic for the
// garbage collector and layouts can be flat value snapshots.
type Node struct {
	Name     string  // leaf name; empty for internal nodes
	Length   float64 // edge length to parent; zero for the root
	Parent   int     // index of the parent node, NoParent for the root
	Children []int   // child node indices, in input order
	Split    LeafSet // leaf ordinals below this node's edge
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is a rooted tree stored in an arena. Node 0 is the root.
type Tree struct {
	Nodes   []Node
	NLeaves int
}

// Root returns the root node index (always 0 for a non-empty tree).
func (t *Tree) Root() int { return 0 }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// Walk visits nodes in depth-first pre-order starting at the root.
func (t *Tree) Walk(visit func(id int)) {
	if len(t.Nodes) == 0 {
		return
	}
	t.walk(0, visit)
}

func (t *Tree) walk(id int, visit func(id int)) {
	visit(id)
	for _, c := range t.Nodes[id].Children {
		t.walk(c, visit)
	}
}

// TreeInput is the nested wire form of a tree in the movie bundle.
type TreeInput struct {
	Name         string      `json:"name"`
	Length       Float       `json:"length"`
	SplitIndices []int       `json:"split_indices"`
	Children     []TreeInput `json:"children"`
}

// BuildTree flattens a nested input tree into an arena, resolving each leaf
// name to its ordinal in leafOrder and computing the split bitset of every
// node bottom-up. Splits provided as split_indices in the input are ignored
// in favor of the recomputed canonical form, which tolerates bundles that
// omit them. An unknown leaf name is an error.
func BuildTree(in TreeInput, leafOrder []string) (*Tree, error) {
	ordinals := make(map[string]int, len(leafOrder))
	for i, name := range leafOrder {
		ordinals[name] = i
	}
	t := &Tree{NLeaves: len(leafOrder)}
	if _, err := t.appendNode(in, NoParent, ordinals); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) appendNode(in TreeInput, parent int, ordinals map[string]int) (int, error) {
	id := len(t.Nodes)
	length := float64(in.Length)
	if length < 0 || length != length { // clamp negative and NaN
		length = 0
	}
	t.Nodes = append(t.Nodes, Node{
		Name:   in.Name,
		Length: length,
		Parent: parent,
		Split:  NewLeafSet(t.NLeaves),
	})
	if len(in.Children) == 0 {
		ord, ok := ordinals[in.Name]
		if !ok {
			return 0, fmt.Errorf("leaf %q not in sorted_leaves", in.Name)
		}
		t.Nodes[id].Split = t.Nodes[id].Split.Add(ord)
		return id, nil
	}
	for _, child := range in.Children {
		cid, err := t.appendNode(child, id, ordinals)
		if err != nil {
			return 0, err
		}
		t.Nodes[id].Children = append(t.Nodes[id].Children, cid)
		t.Nodes[id].Split = t.Nodes[id].Split.Union(t.Nodes[cid].Split)
	}
	return id, nil
}

// LeafOrdinal returns the ordinal of a leaf node, or -1 for internal nodes.
func (t *Tree) LeafOrdinal(id int) int {
	n := &t.Nodes[id]
	if !n.IsLeaf() {
		return -1
	}
	idx := n.Split.Indices()
	if len(idx) != 1 {
		return -1
	}
	return idx[0]
}
