// Package session implements the mindfulness session state machine: a
// timed progress tracker driven by per-frame eye-closed and stillness
// signals.
package session

// Phase is the discrete stage of a mindfulness session.
type Phase string

const (
	// PhaseWaiting is the initial stage, before the eyes first close.
	PhaseWaiting Phase = "waiting"
	// PhaseActive means progress is accumulating (or decaying).
	PhaseActive Phase = "active"
	// PhaseComplete is terminal until an explicit Reset.
	PhaseComplete Phase = "complete"
)

// Interrupt reasons exposed for UI display.
const (
	InterruptNone     = ""
	InterruptMoving   = "moving"
	InterruptEyesOpen = "eyes-open"
	InterruptNoFace   = "no-face"
)

// completionEps absorbs the floating-point error of summing per-frame dt:
// target/dt frames of accumulation must reach the target even when the
// running sum lands fractionally below it.
const completionEps = 1e-9

// Config holds the tunable parameters of a mindfulness session.
type Config struct {
	// TargetSeconds is the accumulated still-and-closed time required to
	// complete the session.
	TargetSeconds float64

	// StillThreshold is the motion speed (units/s) below which the
	// subject counts as still.
	StillThreshold float64

	// MotionDecayScale converts excess motion over the threshold into
	// progress decay: small fidgets cost little, big movements cost more.
	MotionDecayScale float64

	// OpenDecayRate is the fixed decay (seconds of progress per second)
	// while the eyes are open: progress leaks rather than resetting.
	OpenDecayRate float64

	// Strict switches to the punishing variant: any interruption during
	// the active phase falls back to waiting with zero progress.
	Strict bool

	// RequireStillToStart additionally gates the waiting->active
	// transition on stillness.
	RequireStillToStart bool
}

// DefaultConfig returns the tuning used by the mindfulness experiment.
// Proportional decay (rather than a hard reset) keeps the session from
// being punishing for fidgety players while still requiring sustained
// stillness to finish.
func DefaultConfig() Config {
	return Config{
		TargetSeconds:    30,
		StillThreshold:   0.02,
		MotionDecayScale: 12,
		OpenDecayRate:    0.5,
	}
}

// Input is one frame's worth of signals feeding the tracker.
type Input struct {
	// FaceDetected reports whether the face model saw anything this
	// frame. Absence is a normal condition, not an error.
	FaceDetected bool

	// EyesClosed is true when both blink blendshapes read closed.
	EyesClosed bool

	// Motion is the smoothed nose speed in units/s.
	Motion float64

	// DT is the elapsed time since the previous frame in seconds.
	DT float64
}

// Tracker is the mindfulness session state machine. It is owned by one
// experiment instance and updated synchronously once per frame; it holds
// no timers or background work.
type Tracker struct {
	cfg Config

	phase           Phase
	closedStillTime float64
	peakTime        float64
	interrupt       string

	everSawFace bool
	absentTime  float64
}

// NewTracker creates a tracker in the waiting phase.
func NewTracker(cfg Config) *Tracker {
	if cfg.TargetSeconds <= 0 {
		cfg.TargetSeconds = DefaultConfig().TargetSeconds
	}
	return &Tracker{cfg: cfg, phase: PhaseWaiting}
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// Progress returns the accumulated still-and-closed seconds.
func (t *Tracker) Progress() float64 {
	return t.closedStillTime
}

// Peak returns the highest progress reached this session.
func (t *Tracker) Peak() float64 {
	return t.peakTime
}

// Target returns the configured target duration in seconds.
func (t *Tracker) Target() float64 {
	return t.cfg.TargetSeconds
}

// InterruptReason returns a short string describing what is currently
// holding progress back, for UI display. Empty while progressing.
func (t *Tracker) InterruptReason() string {
	return t.interrupt
}

// Reset returns the tracker to the waiting phase with zero progress. This
// is the only way out of the complete phase.
func (t *Tracker) Reset() {
	t.phase = PhaseWaiting
	t.closedStillTime = 0
	t.peakTime = 0
	t.interrupt = InterruptNone
	t.everSawFace = false
	t.absentTime = 0
}

// Update feeds one frame of signals into the state machine.
func (t *Tracker) Update(in Input) {
	if t.phase == PhaseComplete || in.DT <= 0 {
		return
	}

	if in.FaceDetected {
		t.everSawFace = true
	}

	// Grace rule: if no face was ever detected for the full target
	// duration, treat the prolonged absence as a benign "away" case and
	// auto-complete rather than fail.
	if !in.FaceDetected && !t.everSawFace {
		t.absentTime += in.DT
		t.interrupt = InterruptNoFace
		if t.absentTime >= t.cfg.TargetSeconds-completionEps {
			t.phase = PhaseComplete
		}
		return
	}

	isStill := in.Motion < t.cfg.StillThreshold

	switch t.phase {
	case PhaseWaiting:
		if in.FaceDetected && in.EyesClosed && (isStill || !t.cfg.RequireStillToStart) {
			// The transition frame already counts toward progress.
			t.phase = PhaseActive
			t.interrupt = InterruptNone
			t.updateActive(in, isStill)
		}

	case PhaseActive:
		t.updateActive(in, isStill)
	}
}

func (t *Tracker) updateActive(in Input, isStill bool) {
	switch {
	case !in.FaceDetected:
		// No signal this frame: pause rather than penalize.
		t.interrupt = InterruptNoFace

	case in.EyesClosed && isStill:
		t.closedStillTime += in.DT
		if t.closedStillTime > t.peakTime {
			t.peakTime = t.closedStillTime
		}
		t.interrupt = InterruptNone

	case in.EyesClosed:
		// Closed but moving: decay proportional to the excess motion.
		t.interrupt = InterruptMoving
		if t.cfg.Strict {
			t.fallBack()
			return
		}
		decay := (in.Motion - t.cfg.StillThreshold) * t.cfg.MotionDecayScale * in.DT
		t.closedStillTime -= decay

	default:
		// Eyes open: progress leaks at a fixed faster rate.
		t.interrupt = InterruptEyesOpen
		if t.cfg.Strict {
			t.fallBack()
			return
		}
		t.closedStillTime -= t.cfg.OpenDecayRate * in.DT
	}

	if t.closedStillTime < 0 {
		t.closedStillTime = 0
	}

	if t.closedStillTime >= t.cfg.TargetSeconds-completionEps {
		// Summing dt can land a hair under the target; treat that as
		// reached and report the full duration.
		if t.closedStillTime < t.cfg.TargetSeconds {
			t.closedStillTime = t.cfg.TargetSeconds
		}
		if t.closedStillTime > t.peakTime {
			t.peakTime = t.closedStillTime
		}
		t.phase = PhaseComplete
	}
}

// fallBack implements the strict variant: a full reset of the accumulator
// back to the waiting phase. Peak is kept for display.
func (t *Tracker) fallBack() {
	t.phase = PhaseWaiting
	t.closedStillTime = 0
}
