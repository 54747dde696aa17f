package anim

import (
	"math"
	"time"
)

// DefaultFPSCap bounds how often the driver asks for a new frame.
const DefaultFPSCap = 60

// FramePos is the driver's answer for one instant: interpolate between
// sequence positions From and To at progress T. Progress is the normalized
// position over the whole movie.
type FramePos struct {
	From     int
	To       int
	T        float64
	Progress float64
	Done     bool
}

// Driver maps wall-clock time onto the tree sequence during playback.
// Speed is in transitions per second. The driver holds no goroutine; the
// UI's tick loop calls FrameAt and the driver only does arithmetic, so
// scrubbing and playing share one code path.
type Driver struct {
	total       int     // sequence length
	speed       float64 // transitions per second
	fpsCap      float64
	playing     bool
	startedAt   time.Time
	startOffset float64 // transitions already elapsed when playback began
	lastFrame   time.Time
}

// NewDriver creates a stopped driver over a sequence of total trees.
// Non-positive speed falls back to 1.
func NewDriver(total int, speed float64) *Driver {
	if speed <= 0 {
		speed = 1
	}
	return &Driver{total: total, speed: speed, fpsCap: DefaultFPSCap}
}

// SetSpeed changes playback speed, re-anchoring so the current position
// does not jump.
func (d *Driver) SetSpeed(now time.Time, speed float64) {
	if speed <= 0 {
		return
	}
	if d.playing {
		d.startOffset = d.elapsed(now)
		d.startedAt = now
	}
	d.speed = speed
}

// Speed returns the playback speed in transitions per second.
func (d *Driver) Speed() float64 { return d.speed }

// Playing reports whether the driver is running.
func (d *Driver) Playing() bool { return d.playing }

// Start begins playback from the given sequence position.
func (d *Driver) Start(now time.Time, fromPos int) {
	if fromPos < 0 {
		fromPos = 0
	}
	if d.total > 0 && fromPos >= d.total-1 {
		// Restart from the top when already at the end.
		fromPos = 0
	}
	d.playing = true
	d.startedAt = now
	d.startOffset = float64(fromPos)
	d.lastFrame = time.Time{}
}

// Stop halts playback. The position reached stays with the caller via the
// last FrameAt result.
func (d *Driver) Stop() { d.playing = false }

func (d *Driver) elapsed(now time.Time) float64 {
	return d.startOffset + now.Sub(d.startedAt).Seconds()*d.speed
}

// FrameAt returns the frame for an instant. The boolean is false when the
// FPS cap says the previous frame is still fresh; a Done result means the
// sequence end was reached and the driver has stopped itself, with the
// final tree as the frame.
func (d *Driver) FrameAt(now time.Time) (FramePos, bool) {
	if !d.playing || d.total < 2 {
		return FramePos{Done: true, Progress: 1, From: d.total - 1, To: d.total - 1, T: 1}, false
	}
	if !d.lastFrame.IsZero() && now.Sub(d.lastFrame).Seconds() < 1/d.fpsCap {
		return FramePos{}, false
	}
	d.lastFrame = now

	exact := d.elapsed(now)
	last := float64(d.total - 1)
	if exact >= last {
		d.playing = false
		return FramePos{
			From:     d.total - 2,
			To:       d.total - 1,
			T:        1,
			Progress: 1,
			Done:     true,
		}, true
	}
	from := int(math.Floor(exact))
	return FramePos{
		From:     from,
		To:       from + 1,
		T:        exact - float64(from),
		Progress: exact / last,
	}, true
}
