// Package render draws interpolated frames. The Renderer interface keeps
// frame composition independent of the output medium; svgo and gg back the
// file exports and a rune-grid backend draws inside the terminal.
package render

import (
	"math"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/anim"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/highlight"
)

// Options are the style knobs shared by all backends.
type Options struct {
	Width       float64
	Height      float64
	StrokeWidth float64
	FontSize    float64
	DimOpacity  float64 // opacity multiplier for dimmed elements
	ShowLabels  bool
}

// Defaults fills unset options.
func (o Options) Defaults() Options {
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = 1.5
	}
	if o.FontSize <= 0 {
		o.FontSize = 12
	}
	if o.DimOpacity <= 0 {
		o.DimOpacity = 0.25
	}
	return o
}

// Renderer is one drawing backend. Geometry arrives in the layout's polar
// space; the backend owns the translation to its device coordinates.
type Renderer interface {
	// BeginFrame clears the canvas for a frame of the given device size.
	BeginFrame(width, height float64)
	// DrawBranch draws the arc-and-radial-segment edge.
	DrawBranch(g anim.BranchGeom, st highlight.Style, opacity, strokeWidth float64)
	// DrawLeafNode draws the dot at a leaf's interpolated position.
	DrawLeafNode(l anim.LeafGeom, st highlight.Style)
	// DrawLeafExtension draws the dotted line from the leaf to the label ring.
	DrawLeafExtension(l anim.LeafGeom, ring float64, st highlight.Style)
	// DrawLeafLabel draws the leaf name at the label ring.
	DrawLeafLabel(l anim.LeafGeom, ring float64, st highlight.Style, fontSize float64)
	// EndFrame flushes the frame.
	EndFrame() error
	// Ready reports whether the backend can accept a frame.
	Ready() bool
}

// Draw composes one frame onto a renderer: branches back to front, then
// leaf extensions, dots, and labels. Elements faded to zero are skipped.
func Draw(r Renderer, f *anim.Frame, c *highlight.Colorizer, opts Options) error {
	opts = opts.Defaults()
	if !r.Ready() {
		return ErrNotReady
	}
	r.BeginFrame(opts.Width, opts.Height)
	for _, g := range f.Branches {
		if g.Opacity <= 0 {
			continue
		}
		st := c.StyleFor(g.Split)
		opacity := g.Opacity
		if st.Dimmed {
			opacity *= opts.DimOpacity
		}
		r.DrawBranch(g, st, opacity, opts.StrokeWidth)
	}
	for _, l := range f.Leaves {
		st := c.LeafStyle(l.Ordinal)
		r.DrawLeafExtension(l, f.LabelRing, st)
		r.DrawLeafNode(l, st)
		if opts.ShowLabels {
			r.DrawLeafLabel(l, f.LabelRing, st, opts.FontSize)
		}
	}
	return r.EndFrame()
}

// polar converts layout coordinates to device coordinates centered in the
// canvas.
func polar(cx, cy, radius, angle float64) (x, y float64) {
	return cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)
}

// sweepFlag reports whether the arc from a1 to a2 runs clockwise in SVG
// terms (y grows downward, so increasing angle is the positive sweep).
func sweepFlag(a1, a2 float64) int {
	d := math.Mod(a2-a1, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	if d >= 0 {
		return 1
	}
	return 0
}
