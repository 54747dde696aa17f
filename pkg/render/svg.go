package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/anim"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/highlight"
)

// ErrNotReady is returned when a renderer is asked to draw before it has a
// destination.
var ErrNotReady = errors.New("renderer not ready")

// SVGRenderer writes one frame as an SVG document.
type SVGRenderer struct {
	w      io.Writer
	canvas *svg.SVG
	cx, cy float64
}

// NewSVG returns a renderer writing to w.
func NewSVG(w io.Writer) *SVGRenderer {
	return &SVGRenderer{w: w}
}

func (r *SVGRenderer) Ready() bool { return r.w != nil }

func (r *SVGRenderer) BeginFrame(width, height float64) {
	r.canvas = svg.New(r.w)
	r.canvas.Start(int(width), int(height))
	r.cx, r.cy = width/2, height/2
}

func (r *SVGRenderer) DrawBranch(g anim.BranchGeom, st highlight.Style, opacity, strokeWidth float64) {
	x1, y1 := polar(r.cx, r.cy, g.ParentRadius, g.ParentAngle)
	x2, y2 := polar(r.cx, r.cy, g.ParentRadius, g.Angle)
	x3, y3 := polar(r.cx, r.cy, g.Radius, g.Angle)
	style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f;stroke-opacity:%.3f",
		css(st.Color), strokeWidth, opacity)
	r.canvas.Path(fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 0 %d %.2f %.2f L %.2f %.2f",
		x1, y1, g.ParentRadius, g.ParentRadius, sweepFlag(g.ParentAngle, g.Angle),
		x2, y2, x3, y3), style)
}

func (r *SVGRenderer) DrawLeafNode(l anim.LeafGeom, st highlight.Style) {
	x, y := polar(r.cx, r.cy, l.Radius, l.Angle)
	r.canvas.Circle(int(x), int(y), 3, fmt.Sprintf("fill:%s", css(st.Color)))
}

func (r *SVGRenderer) DrawLeafExtension(l anim.LeafGeom, ring float64, st highlight.Style) {
	x1, y1 := polar(r.cx, r.cy, l.Radius, l.Angle)
	x2, y2 := polar(r.cx, r.cy, ring-5, l.Angle)
	r.canvas.Line(int(x1), int(y1), int(x2), int(y2),
		fmt.Sprintf("stroke:%s;stroke-width:1;stroke-dasharray:2,3;stroke-opacity:0.6", css(st.Color)))
}

func (r *SVGRenderer) DrawLeafLabel(l anim.LeafGeom, ring float64, st highlight.Style, fontSize float64) {
	deg := l.Angle * 180 / math.Pi
	flip := 0
	anchor := "start"
	if l.Flip {
		flip = 180
		anchor = "end"
	}
	transform := fmt.Sprintf("translate(%.2f,%.2f) rotate(%.2f) translate(%.2f,0) rotate(%d)",
		r.cx, r.cy, deg, ring, flip)
	r.canvas.Gtransform(transform)
	r.canvas.Text(0, 0, l.Name,
		fmt.Sprintf("fill:%s;font-size:%.1fpx;font-family:monospace;text-anchor:%s;dominant-baseline:middle",
			css(st.Color), fontSize, anchor))
	r.canvas.Gend()
}

func (r *SVGRenderer) EndFrame() error {
	r.canvas.End()
	return nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
