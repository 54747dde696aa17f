package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/anim"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/highlight"
)

type termCell struct {
	r     rune
	color color.RGBA
	set   bool
}

// TermRenderer rasterizes a frame onto a rune grid for display inside the
// TUI. Terminal cells are roughly twice as tall as wide, so the vertical
// axis is compressed by two.
type TermRenderer struct {
	cols, rows int
	cells      [][]termCell
	// frame-space transform, set per frame
	frameW, frameH float64
}

// NewTerm returns a renderer for a cols x rows character viewport.
func NewTerm(cols, rows int) *TermRenderer {
	return &TermRenderer{cols: cols, rows: rows}
}

// Resize changes the viewport.
func (r *TermRenderer) Resize(cols, rows int) {
	r.cols, r.rows = cols, rows
}

func (r *TermRenderer) Ready() bool { return r.cols > 0 && r.rows > 0 }

func (r *TermRenderer) BeginFrame(width, height float64) {
	r.frameW, r.frameH = width, height
	r.cells = make([][]termCell, r.rows)
	for i := range r.cells {
		r.cells[i] = make([]termCell, r.cols)
	}
}

// cellAt maps frame coordinates (origin center) to a grid cell.
func (r *TermRenderer) cellAt(radius, angle float64) (int, int) {
	x := radius * math.Cos(angle)
	y := radius * math.Sin(angle)
	col := int((x/r.frameW + 0.5) * float64(r.cols))
	row := int((y/r.frameH + 0.5) * float64(r.rows))
	return col, row
}

func (r *TermRenderer) plot(col, row int, ch rune, c color.RGBA) {
	if col < 0 || col >= r.cols || row < 0 || row >= r.rows {
		return
	}
	r.cells[row][col] = termCell{r: ch, color: c, set: true}
}

func (r *TermRenderer) DrawBranch(g anim.BranchGeom, st highlight.Style, opacity, strokeWidth float64) {
	if opacity <= 0.05 {
		return
	}
	ch := '·'
	if opacity > 0.5 {
		ch = '•'
	}
	// Arc at the parent radius.
	d := g.Angle - g.ParentAngle
	steps := int(math.Abs(d)*g.ParentRadius/4) + 2
	for i := 0; i <= steps; i++ {
		a := g.ParentAngle + d*float64(i)/float64(steps)
		col, row := r.cellAt(g.ParentRadius, a)
		r.plot(col, row, ch, st.Color)
	}
	// Radial segment out to the node.
	steps = int(math.Abs(g.Radius-g.ParentRadius)/4) + 2
	for i := 0; i <= steps; i++ {
		rad := g.ParentRadius + (g.Radius-g.ParentRadius)*float64(i)/float64(steps)
		col, row := r.cellAt(rad, g.Angle)
		r.plot(col, row, ch, st.Color)
	}
}

func (r *TermRenderer) DrawLeafNode(l anim.LeafGeom, st highlight.Style) {
	col, row := r.cellAt(l.Radius, l.Angle)
	r.plot(col, row, 'o', st.Color)
}

func (r *TermRenderer) DrawLeafExtension(l anim.LeafGeom, ring float64, st highlight.Style) {
	// Too noisy at character resolution; labels sit directly at the ring.
}

func (r *TermRenderer) DrawLeafLabel(l anim.LeafGeom, ring float64, st highlight.Style, fontSize float64) {
	name := runewidth.Truncate(l.Name, 12, "…")
	col, row := r.cellAt(ring, l.Angle)
	if l.Flip {
		col -= runewidth.StringWidth(name)
	}
	for _, ch := range name {
		r.plot(col, row, ch, st.Color)
		col += runewidth.RuneWidth(ch)
	}
}

func (r *TermRenderer) EndFrame() error { return nil }

// View renders the grid as styled terminal lines.
func (r *TermRenderer) View() string {
	if len(r.cells) != r.rows {
		return ""
	}
	var b strings.Builder
	for row := 0; row < r.rows; row++ {
		var runs strings.Builder
		for col := 0; col < r.cols; col++ {
			c := r.cells[row][col]
			if !c.set {
				runs.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(hex(c.color)))
			runs.WriteString(style.Render(string(c.r)))
		}
		b.WriteString(strings.TrimRight(runs.String(), " "))
		if row < r.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
