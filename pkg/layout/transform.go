package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// TransformMode selects how raw branch lengths are remapped before layout.
type TransformMode string

const (
	TransformNone   TransformMode = "none"
	TransformIgnore TransformMode = "ignore" // all edges become unit length
	TransformLog    TransformMode = "log"    // ln(1+l)
	TransformSqrt   TransformMode = "sqrt"
	TransformPower  TransformMode = "power"        // l^k
	TransformLinear TransformMode = "linear-scale" // k*l
)

// Transform is a pure branch-length remapping. Topology and split identity
// are untouched; only Length changes.
type Transform struct {
	Mode TransformMode
	K    float64 // exponent for power, factor for linear-scale
}

// ParseTransform reads forms like "none", "log", "power-2", "linear-scale-0.5".
func ParseTransform(s string) (Transform, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", string(TransformNone):
		return Transform{Mode: TransformNone}, nil
	case string(TransformIgnore):
		return Transform{Mode: TransformIgnore}, nil
	case string(TransformLog):
		return Transform{Mode: TransformLog}, nil
	case string(TransformSqrt):
		return Transform{Mode: TransformSqrt}, nil
	}
	for _, mode := range []TransformMode{TransformLinear, TransformPower} {
		prefix := string(mode) + "-"
		if strings.HasPrefix(s, prefix) {
			k, err := strconv.ParseFloat(strings.TrimPrefix(s, prefix), 64)
			if err != nil || k <= 0 {
				return Transform{}, fmt.Errorf("invalid %s parameter in %q", mode, s)
			}
			return Transform{Mode: mode, K: k}, nil
		}
	}
	return Transform{}, fmt.Errorf("unknown branch transform %q", s)
}

// String renders the parseable form.
func (tr Transform) String() string {
	switch tr.Mode {
	case TransformPower, TransformLinear:
		return fmt.Sprintf("%s-%g", tr.Mode, tr.K)
	case "":
		return string(TransformNone)
	default:
		return string(tr.Mode)
	}
}

// length remaps a single edge length. Negative and non-finite inputs are
// clamped to zero first.
func (tr Transform) length(l float64) float64 {
	if l < 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		l = 0
	}
	switch tr.Mode {
	case TransformIgnore:
		return 1
	case TransformLog:
		return math.Log1p(l)
	case TransformSqrt:
		return math.Sqrt(l)
	case TransformPower:
		return math.Pow(l, tr.K)
	case TransformLinear:
		return tr.K * l
	default:
		return l
	}
}

// Apply returns a tree with transformed edge lengths. The arena is copied;
// splits and child slices are shared with the input, which both sides treat
// as immutable.
func (tr Transform) Apply(t *model.Tree) *model.Tree {
	out := &model.Tree{
		Nodes:   make([]model.Node, len(t.Nodes)),
		NLeaves: t.NLeaves,
	}
	copy(out.Nodes, t.Nodes)
	for i := range out.Nodes {
		if i == t.Root() {
			out.Nodes[i].Length = 0
			continue
		}
		out.Nodes[i].Length = tr.length(out.Nodes[i].Length)
	}
	return out
}
