package model

import "strings"

// Phase classifies a tree's role in the interpolation sequence.
type Phase string

const (
	PhaseOriginal Phase = "ORIGINAL"
	PhaseDown     Phase = "DOWN_PHASE"
	PhaseCollapse Phase = "COLLAPSE_PHASE"
	PhaseReorder  Phase = "REORDER_PHASE"
	PhasePreSnap  Phase = "PRE_SNAP_PHASE"
	PhaseSnap     Phase = "SNAP_PHASE"
	PhaseUnknown  Phase = "UNKNOWN"
)

// IsAnchor reports whether the phase marks an anchor (full) tree.
func (p Phase) IsAnchor() bool { return p == PhaseOriginal }

// IsConsensus reports whether the phase marks a collapsed/reordered
// consensus topology inside a transition.
func (p Phase) IsConsensus() bool {
	return p == PhaseCollapse || p == PhaseReorder
}

// PhaseFromTreeName derives the phase from the pipeline's tree naming
// scheme, used when bundle metadata omits an explicit phase. The scheme
// comes from the interpolation pipeline: anchors are "T<i>", down-phase
// trees carry "_down_", collapse consensus trees are "C..." without
// "_reorder", reorder consensus trees carry "_reorder", pre-snap trees
// "_up_", and snapped trees "_ref_".
func PhaseFromTreeName(name string) Phase {
	switch {
	case strings.HasPrefix(name, "T"):
		return PhaseOriginal
	case strings.Contains(name, "_down_"):
		return PhaseDown
	case strings.HasPrefix(name, "C") && !strings.Contains(name, "_reorder"):
		return PhaseCollapse
	case strings.Contains(name, "_reorder"):
		return PhaseReorder
	case strings.Contains(name, "_up_"):
		return PhasePreSnap
	case strings.Contains(name, "_ref_"):
		return PhaseSnap
	default:
		return PhaseUnknown
	}
}
