package render

import (
	"image/color"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/anim"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/highlight"
)

var pngBackdrop = color.RGBA{0xff, 0xff, 0xff, 0xff}

// PNGRenderer rasterizes one frame with gg.
type PNGRenderer struct {
	dc     *gg.Context
	cx, cy float64
	path   string
}

// NewPNG returns a renderer that saves to path on EndFrame.
func NewPNG(path string) *PNGRenderer {
	return &PNGRenderer{path: path}
}

func (r *PNGRenderer) Ready() bool { return r.path != "" }

func (r *PNGRenderer) BeginFrame(width, height float64) {
	r.dc = gg.NewContext(int(width), int(height))
	r.dc.SetColor(pngBackdrop)
	r.dc.Clear()
	r.dc.SetFontFace(basicfont.Face7x13)
	r.cx, r.cy = width/2, height/2
}

func (r *PNGRenderer) DrawBranch(g anim.BranchGeom, st highlight.Style, opacity, strokeWidth float64) {
	c := st.Color
	c.A = uint8(opacity * 255)
	r.dc.SetColor(c)
	r.dc.SetLineWidth(strokeWidth)
	// gg sweeps arcs by angle sign, so draw from the smaller angle.
	a1, a2 := g.ParentAngle, g.Angle
	r.dc.NewSubPath()
	r.dc.DrawArc(r.cx, r.cy, g.ParentRadius, a1, a2)
	x, y := polar(r.cx, r.cy, g.Radius, g.Angle)
	r.dc.LineTo(x, y)
	r.dc.Stroke()
}

func (r *PNGRenderer) DrawLeafNode(l anim.LeafGeom, st highlight.Style) {
	x, y := polar(r.cx, r.cy, l.Radius, l.Angle)
	r.dc.SetColor(st.Color)
	r.dc.DrawCircle(x, y, 3)
	r.dc.Fill()
}

func (r *PNGRenderer) DrawLeafExtension(l anim.LeafGeom, ring float64, st highlight.Style) {
	c := st.Color
	c.A = 0x99
	r.dc.SetColor(c)
	r.dc.SetLineWidth(1)
	r.dc.SetDash(2, 3)
	x1, y1 := polar(r.cx, r.cy, l.Radius, l.Angle)
	x2, y2 := polar(r.cx, r.cy, ring-5, l.Angle)
	r.dc.DrawLine(x1, y1, x2, y2)
	r.dc.Stroke()
	r.dc.SetDash()
}

func (r *PNGRenderer) DrawLeafLabel(l anim.LeafGeom, ring float64, st highlight.Style, fontSize float64) {
	r.dc.SetColor(st.Color)
	x, y := polar(r.cx, r.cy, ring, l.Angle)
	align := 0.0
	if l.Flip {
		align = 1
	}
	r.dc.DrawStringAnchored(l.Name, x, y, align, 0.5)
}

func (r *PNGRenderer) EndFrame() error {
	return r.dc.SavePNG(r.path)
}
