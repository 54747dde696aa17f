package anim

import (
	"math"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/layout"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// Ease is the smoothstep curve 3t^2 - 2t^3, applied to every staged window.
func Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// Lerp interpolates linearly.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// LerpAngle interpolates along the shorter arc, so an edge crossing the
// 0/2pi seam never sweeps the long way around.
func LerpAngle(a, b, t float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return a + d*t
}

// ElementState classifies a frame element by its diff class.
type ElementState int

const (
	StateUpdate ElementState = iota
	StateEnter
	StateExit
)

// BranchGeom is one drawable edge in polar form: an arc at ParentRadius
// from ParentAngle to Angle, then a radial segment out to Radius.
type BranchGeom struct {
	Key          string
	State        ElementState
	ParentRadius float64
	ParentAngle  float64
	Radius       float64
	Angle        float64
	Opacity      float64
	Split        model.LeafSet
	Leaf         bool
	Name         string // leaf name for leaf edges
}

// LeafGeom places one leaf's node dot, extension, and label.
type LeafGeom struct {
	Name    string
	Ordinal int
	Radius  float64
	Angle   float64
	// Flip marks labels on the left half, drawn rotated 180 degrees so
	// they read outward instead of upside down.
	Flip bool
}

// Frame is the fully interpolated geometry for one animation instant.
type Frame struct {
	Branches  []BranchGeom
	Leaves    []LeafGeom
	LabelRing float64 // radius of the label circle
	T         float64
}

// LabelPad is the gap between the outermost node and the label ring.
const LabelPad = 30.0

// Interpolate produces the frame at progress t of a transition. Jumps are
// the t=1 frame: updates and enters sit at the target and exits have
// opacity zero, so rendering the result directly shows the target tree.
func Interpolate(from, to *layout.Layout, d *Diff, st Staging, t float64) *Frame {
	f := &Frame{T: t}
	eu := Ease(st.Update.Local(t))
	ee := Ease(st.Enter.Local(t))
	ex := Ease(st.Exit.Local(t))

	for _, p := range d.Update {
		g := updateGeom(from, to, p, eu)
		f.Branches = append(f.Branches, g)
		if g.Leaf {
			f.Leaves = append(f.Leaves, leafGeom(to, p.ToID, g))
		}
	}
	for _, p := range d.Enter {
		f.Branches = append(f.Branches, enterGeom(to, p, ee))
	}
	for _, p := range d.Exit {
		f.Branches = append(f.Branches, exitGeom(from, p, ex))
	}
	f.LabelRing = Lerp(from.ScaledMaxRadius(), to.ScaledMaxRadius(), eu) + LabelPad
	return f
}

func updateGeom(from, to *layout.Layout, p Pair, e float64) BranchGeom {
	fn := &from.Tree.Nodes[p.FromID]
	tn := &to.Tree.Nodes[p.ToID]
	fp, tp := fn.Parent, tn.Parent
	angle := LerpAngle(from.Angle[p.FromID], to.Angle[p.ToID], e)
	return BranchGeom{
		Key:          p.Key,
		State:        StateUpdate,
		ParentRadius: Lerp(from.Radius[fp], to.Radius[tp], e),
		ParentAngle:  LerpAngle(from.Angle[fp], to.Angle[tp], e),
		Radius:       Lerp(from.Radius[p.FromID], to.Radius[p.ToID], e),
		Angle:        angle,
		Opacity:      1,
		Split:        tn.Split,
		Leaf:         tn.IsLeaf(),
		Name:         tn.Name,
	}
}

// enterGeom grows a new edge out of its parent: at e=0 it is a point on
// the parent, at e=1 it has its full target geometry.
func enterGeom(to *layout.Layout, p Pair, e float64) BranchGeom {
	n := &to.Tree.Nodes[p.ToID]
	parent := n.Parent
	pr := to.Radius[parent]
	return BranchGeom{
		Key:          p.Key,
		State:        StateEnter,
		ParentRadius: pr,
		ParentAngle:  to.Angle[parent],
		Radius:       Lerp(pr, to.Radius[p.ToID], e),
		Angle:        to.Angle[p.ToID],
		Opacity:      e,
		Split:        n.Split,
		Leaf:         n.IsLeaf(),
		Name:         n.Name,
	}
}

// exitGeom shrinks a vanishing edge back into its parent; by the end of
// the exit window it has zero length and zero opacity.
func exitGeom(from *layout.Layout, p Pair, e float64) BranchGeom {
	n := &from.Tree.Nodes[p.FromID]
	parent := n.Parent
	pr := from.Radius[parent]
	return BranchGeom{
		Key:          p.Key,
		State:        StateExit,
		ParentRadius: pr,
		ParentAngle:  from.Angle[parent],
		Radius:       Lerp(from.Radius[p.FromID], pr, e),
		Angle:        from.Angle[p.FromID],
		Opacity:      1 - e,
		Split:        n.Split,
		Leaf:         n.IsLeaf(),
		Name:         n.Name,
	}
}

func leafGeom(to *layout.Layout, toID int, g BranchGeom) LeafGeom {
	a := math.Mod(g.Angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return LeafGeom{
		Name:    g.Name,
		Ordinal: to.Tree.LeafOrdinal(toID),
		Radius:  g.Radius,
		Angle:   g.Angle,
		Flip:    a > math.Pi/2 && a < 3*math.Pi/2,
	}
}

// Snapshot renders a single layout as a static frame, for paused display
// and exports.
func Snapshot(l *layout.Layout) *Frame {
	d := Compute(l, l)
	return Interpolate(l, l, d, StagingFor(Forward, "default"), 1)
}
