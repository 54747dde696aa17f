// Package layout places a rooted tree radially: leaves on a circle at
// angles proportional to their depth-first index, internal nodes at the
// mean angle of their children, every node at its cumulative branch-length
// radius. Layouts are flat value snapshots over the tree arena so the
// interpolator can diff them without chasing pointers.
package layout

import (
	"math"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// FullCircle is the default angular extent.
const FullCircle = 2 * math.Pi

// Degrees converts an angle in degrees to radians for the Options fields.
func Degrees(d float64) float64 { return d * math.Pi / 180 }

// Options configures radial layout construction.
type Options struct {
	Width, Height float64
	Margin        float64
	AngleExtent   float64 // radians; 0 means a full circle
	AngleOffset   float64 // radians
	Factor        float64 // zoom divisor applied to the fitted scale; 0 means 1
	UniformScale  float64 // >0: use verbatim instead of fitting (uniform scaling mode)
	Transform     Transform
	Memo          *RadiusMemo // optional radius preservation across layouts
}

// RadiusMemo preserves unscaled radii across layouts in one session, keyed
// by split identity. Needed for transitions where topology is unchanged but
// edge lengths collapse: the surviving node keeps its prior radius so it
// does not pop.
type RadiusMemo struct {
	radii map[string]float64
}

// NewRadiusMemo returns an empty memo.
func NewRadiusMemo() *RadiusMemo {
	return &RadiusMemo{radii: make(map[string]float64)}
}

// Reset drops all remembered radii.
func (m *RadiusMemo) Reset() {
	m.radii = make(map[string]float64)
}

// Layout is the value snapshot of one laid-out tree. All slices are indexed
// by node id in the tree arena. Radii and coordinates are post-scale.
type Layout struct {
	Tree        *model.Tree
	Radius      []float64
	Angle       []float64
	X, Y        []float64
	LeafIndex   []int // depth-first leaf ordinal; -1 for internal nodes
	MaxRadius   float64 // unscaled maximum cumulative radius
	Scale       float64
	Width       float64
	Height      float64
	Margin      float64
	AngleExtent float64
	AngleOffset float64
}

// Construct composes the layout pipeline: transform lengths, index leaves,
// accumulate radii, assign angles, scale, and generate coordinates.
//
// When opts.UniformScale is positive it is used verbatim so every frame of
// the movie shares one coordinate scale; otherwise the tree is fitted so
// that the scaled diameter stays inside min(w,h) minus margins. A
// degenerate tree (maxRadius zero) gets scale 1 with all nodes at the
// origin.
func Construct(t *model.Tree, opts Options) *Layout {
	tree := opts.Transform.Apply(t)
	extent := opts.AngleExtent
	if extent == 0 {
		extent = FullCircle
	}
	l := &Layout{
		Tree:        tree,
		Radius:      make([]float64, tree.Len()),
		Angle:       make([]float64, tree.Len()),
		X:           make([]float64, tree.Len()),
		Y:           make([]float64, tree.Len()),
		LeafIndex:   make([]int, tree.Len()),
		Width:       opts.Width,
		Height:      opts.Height,
		Margin:      opts.Margin,
		AngleExtent: extent,
		AngleOffset: opts.AngleOffset,
	}
	if tree.Len() == 0 {
		l.Scale = 1
		return l
	}

	l.indexLeafNodes(tree.Root(), 0)
	l.calcRadius(tree.Root(), 0, opts.Memo)
	for _, r := range l.Radius {
		if r > l.MaxRadius {
			l.MaxRadius = r
		}
	}
	l.calcAngle(tree.Root())
	l.Scale = l.fitScale(opts)
	l.scaleRadius(l.Scale)
	l.generateCoordinates()
	return l
}

// indexLeafNodes assigns depth-first pre-order leaf ordinals. Internal
// nodes get -1. The counter value after the subtree is returned; the
// ordering must be deterministic because it is the animation identity
// anchor for leaf elements.
func (l *Layout) indexLeafNodes(id, next int) int {
	n := &l.Tree.Nodes[id]
	if n.IsLeaf() {
		l.LeafIndex[id] = next
		return next + 1
	}
	l.LeafIndex[id] = -1
	for _, c := range n.Children {
		next = l.indexLeafNodes(c, next)
	}
	return next
}

// calcRadius accumulates branch lengths root-down. When a memo is supplied,
// a split seen in a prior layout reuses its remembered radius; new splits
// record theirs.
func (l *Layout) calcRadius(id int, acc float64, memo *RadiusMemo) {
	n := &l.Tree.Nodes[id]
	r := acc + n.Length
	if memo != nil {
		key := n.Split.Key()
		if prev, ok := memo.radii[key]; ok {
			r = prev
		} else {
			memo.radii[key] = r
		}
	}
	l.Radius[id] = r
	for _, c := range n.Children {
		l.calcRadius(c, r, memo)
	}
}

// calcAngle assigns leaf angles evenly over the extent and internal angles
// as the mean of the children's angles (not of the leaf angles below, which
// would bias toward large subtrees). The offset is baked in here.
func (l *Layout) calcAngle(id int) float64 {
	n := &l.Tree.Nodes[id]
	if n.IsLeaf() {
		a := l.AngleOffset + l.AngleExtent*float64(l.LeafIndex[id])/float64(l.Tree.NLeaves)
		l.Angle[id] = a
		return a
	}
	sum := 0.0
	for _, c := range n.Children {
		sum += l.calcAngle(c)
	}
	a := sum / float64(len(n.Children))
	l.Angle[id] = a
	return a
}

func (l *Layout) fitScale(opts Options) float64 {
	if opts.UniformScale > 0 {
		return opts.UniformScale
	}
	if l.MaxRadius == 0 {
		return 1
	}
	factor := opts.Factor
	if factor == 0 {
		factor = 1
	}
	side := math.Min(l.Width, l.Height) - 2*l.Margin
	if side <= 0 {
		return 1
	}
	return side / (2 * factor * l.MaxRadius)
}

// scaleRadius multiplies every radius by s in place.
func (l *Layout) scaleRadius(s float64) {
	for i := range l.Radius {
		l.Radius[i] *= s
	}
}

// generateCoordinates derives Cartesian positions from (radius, angle).
func (l *Layout) generateCoordinates() {
	for i := range l.Radius {
		l.X[i] = l.Radius[i] * math.Cos(l.Angle[i])
		l.Y[i] = l.Radius[i] * math.Sin(l.Angle[i])
	}
}

// ScaledMaxRadius returns the drawn (post-scale) maximum radius.
func (l *Layout) ScaledMaxRadius() float64 {
	return l.MaxRadius * l.Scale
}
