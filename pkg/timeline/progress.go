package timeline

// Progress maps playback state to a normalized [0,1] timeline position.
// While playing the animation driver's own progress is authoritative; when
// paused the sequence position is normalized over the full sequence.
func Progress(pos, total int, playing bool, animProgress float64) float64 {
	if playing {
		return clamp01(animProgress)
	}
	if total <= 1 {
		return 0
	}
	return clamp01(float64(pos) / float64(total-1))
}

// AnchorTicks returns the normalized timeline positions of every anchor,
// for drawing tick marks on the progress bar.
func (r *Resolver) AnchorTicks() []float64 {
	total := r.TotalSequence()
	if total <= 1 {
		return nil
	}
	ticks := make([]float64, len(r.anchors))
	for i, pos := range r.anchors {
		ticks[i] = float64(pos) / float64(total-1)
	}
	return ticks
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
