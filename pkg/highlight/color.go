package highlight

import (
	"image/color"
	"sort"
	"strings"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// Palette holds the drawing colors. Values are sRGB with full alpha; the
// render backends translate them to their own color spaces.
type Palette struct {
	Default color.RGBA // unhighlighted branches and labels
	Active  color.RGBA // the currently tracked change edge
	Marked  color.RGBA // accumulated marked subtrees
}

// DefaultPalette matches the movie pipeline's screen colors.
func DefaultPalette() Palette {
	return Palette{
		Default: color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
		Active:  color.RGBA{R: 0xe4, G: 0x57, B: 0x56, A: 0xff},
		Marked:  color.RGBA{R: 0xf2, G: 0xa7, B: 0x2c, A: 0xff},
	}
}

// groupPalette cycles over taxon groups in sorted-name order.
var groupPalette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
}

// Style is the resolved appearance of one drawn element.
type Style struct {
	Color  color.RGBA
	Dimmed bool
}

// Options configures the per-frame colorizer.
type Options struct {
	Palette              Palette
	MonophyleticColoring bool
	// DimInactive fades every element not downstream of the active change
	// edge while one exists. DimMarked is independent and fades elements
	// outside all marked subtrees.
	DimInactive bool
	DimMarked   bool
	// TaxonGroup extracts a leaf's group name for monophyletic coloring.
	// Nil uses the first separator-delimited token of the leaf name.
	TaxonGroup func(leafName string) string
}

// Colorizer resolves branch and label styles for one frame. Priority per
// element: the active change edge itself, then marked subtree, then
// monophyletic group color, then the default. Elements downstream of the
// active edge keep their own color but are spared from dimming.
type Colorizer struct {
	opts   Options
	res    *Result
	leaves []string
	groups map[string]color.RGBA
}

// NewColorizer builds a colorizer over the movie's leaf universe and a
// position's marking result.
func NewColorizer(sortedLeaves []string, res *Result, opts Options) *Colorizer {
	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette()
	}
	if opts.TaxonGroup == nil {
		opts.TaxonGroup = DefaultTaxonGroup
	}
	c := &Colorizer{opts: opts, res: res, leaves: sortedLeaves}
	if opts.MonophyleticColoring {
		c.groups = assignGroupColors(sortedLeaves, opts.TaxonGroup)
	}
	return c
}

// DefaultTaxonGroup takes the token before the first underscore or dash.
func DefaultTaxonGroup(name string) string {
	if i := strings.IndexAny(name, "_-"); i > 0 {
		return name[:i]
	}
	return name
}

func assignGroupColors(leaves []string, group func(string) string) map[string]color.RGBA {
	names := make(map[string]bool)
	for _, l := range leaves {
		names[group(l)] = true
	}
	sorted := make([]string, 0, len(names))
	for g := range names {
		sorted = append(sorted, g)
	}
	sort.Strings(sorted)
	out := make(map[string]color.RGBA, len(sorted))
	for i, g := range sorted {
		out[g] = groupPalette[i%len(groupPalette)]
	}
	return out
}

// StyleFor resolves the style of the element whose downstream leaves are
// split.
func (c *Colorizer) StyleFor(split model.LeafSet) Style {
	s := Style{Color: c.opts.Palette.Default}
	active := !c.res.ActiveSet.IsEmpty()
	switch {
	case active && split.Equal(c.res.ActiveSet):
		s.Color = c.opts.Palette.Active
	case c.inMarked(split):
		s.Color = c.opts.Palette.Marked
	default:
		if g, ok := c.monophyleticGroup(split); ok {
			s.Color = c.groups[g]
		}
	}
	if c.opts.DimInactive && active && !split.SubsetOf(c.res.ActiveSet) {
		s.Dimmed = true
	}
	if c.opts.DimMarked && len(c.res.Marked) > 0 && !c.inMarked(split) {
		s.Dimmed = true
	}
	return s
}

// LeafStyle resolves a leaf label's style by its ordinal.
func (c *Colorizer) LeafStyle(ordinal int) Style {
	if ordinal < 0 || ordinal >= len(c.leaves) {
		return Style{Color: c.opts.Palette.Default}
	}
	return c.StyleFor(model.LeafSetOf(len(c.leaves), ordinal))
}

func (c *Colorizer) inMarked(split model.LeafSet) bool {
	for _, m := range c.res.Marked {
		if split.SubsetOf(m) {
			return true
		}
	}
	return false
}

// monophyleticGroup reports the shared taxon group of a split covering at
// least two leaves, when monophyletic coloring is on.
func (c *Colorizer) monophyleticGroup(split model.LeafSet) (string, bool) {
	if c.groups == nil || split.Count() < 2 {
		return "", false
	}
	group := ""
	for _, ord := range split.Indices() {
		if ord >= len(c.leaves) {
			return "", false
		}
		g := c.opts.TaxonGroup(c.leaves[ord])
		if group == "" {
			group = g
		} else if g != group {
			return "", false
		}
	}
	return group, group != ""
}
