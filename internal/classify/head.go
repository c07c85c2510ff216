package classify

import "math"

// Direction is a discrete head gesture derived from pitch and yaw.
type Direction string

const (
	DirNone  Direction = ""
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Neutral-zone thresholds in radians.
const (
	pitchThreshold = 0.25
	yawThreshold   = 0.20
)

// HeadDirection classifies smoothed head pitch and yaw (radians) into a
// directional gesture. Both angles inside their thresholds is neutral: no
// directional intent. Otherwise the axis with the larger magnitude wins
// and its sign picks the direction: positive pitch is down, positive yaw
// is left.
func HeadDirection(pitch, yaw float64) Direction {
	if math.Abs(pitch) < pitchThreshold && math.Abs(yaw) < yawThreshold {
		return DirNone
	}

	if math.Abs(pitch) >= math.Abs(yaw) {
		if pitch > 0 {
			return DirDown
		}
		return DirUp
	}

	if yaw > 0 {
		return DirLeft
	}
	return DirRight
}

// Debouncer turns the per-frame direction stream into edge-triggered
// events: a direction fires only on the transition into a new direction,
// not while held. State resets whenever the direction changes, so
// returning to neutral re-arms the same direction.
type Debouncer struct {
	prev Direction
}

// Step feeds one frame's direction and reports whether a new directional
// gesture fired this frame.
func (d *Debouncer) Step(dir Direction) (Direction, bool) {
	if dir == d.prev {
		return DirNone, false
	}
	d.prev = dir
	if dir == DirNone {
		return DirNone, false
	}
	return dir, true
}

// Reset clears the debouncer back to neutral.
func (d *Debouncer) Reset() {
	d.prev = DirNone
}
