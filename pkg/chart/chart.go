// Package chart prepares the distance-series strip under the tree view:
// one value per transition, a cursor at the current fractional distance
// index, and a click mapping back to sequence positions.
package chart

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/timeline"
)

// Props is everything a backend needs to draw the strip.
type Props struct {
	Series  []float64
	Label   string
	YMin    float64
	YMax    float64
	CursorX float64 // fractional distance index, NaN when hidden
}

// Build assembles chart props from a series and the current fractional
// distance index. The y-domain always includes zero so bar heights stay
// comparable across transitions.
func Build(series []float64, label string, cursor float64) Props {
	p := Props{Series: series, Label: label, CursorX: cursor}
	if len(series) == 0 {
		p.CursorX = math.NaN()
		return p
	}
	p.YMax = floats.Max(series)
	p.YMin = floats.Min(series)
	if p.YMin > 0 {
		p.YMin = 0
	}
	if cursor < 0 || cursor > float64(len(series)-1) {
		p.CursorX = math.NaN()
	}
	return p
}

// ClickToPosition maps a clicked series index to the sequence position of
// that transition's target anchor, -1 when out of range.
func ClickToPosition(r *timeline.Resolver, index int) int {
	return r.TreeIndexForDistanceIndex(index)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the series as one row of block runes, resampling to
// width columns. The column containing the cursor is reported so the view
// can style it.
func (p Props) Sparkline(width int) (string, int) {
	if width <= 0 || len(p.Series) == 0 {
		return "", -1
	}
	span := p.YMax - p.YMin
	out := make([]rune, width)
	for col := 0; col < width; col++ {
		idx := col * len(p.Series) / width
		v := p.Series[idx]
		level := 0
		if span > 0 {
			level = int((v - p.YMin) / span * float64(len(sparkRunes)-1))
		}
		if level < 0 {
			level = 0
		}
		if level >= len(sparkRunes) {
			level = len(sparkRunes) - 1
		}
		out[col] = sparkRunes[level]
	}
	cursorCol := -1
	if !math.IsNaN(p.CursorX) && len(p.Series) > 0 {
		cursorCol = int(p.CursorX / float64(len(p.Series)) * float64(width))
		if cursorCol >= width {
			cursorCol = width - 1
		}
	}
	return string(out), cursorCol
}
