package experiment

import (
	"github.com/ayusman/limber/internal/session"
	"github.com/ayusman/limber/internal/smooth"
)

// noseSmoothingAlpha smooths the nose position before computing the
// stillness signal.
const noseSmoothingAlpha = 0.4

// Mindful is the mindfulness timer: close your eyes and hold still until
// the session completes. Fidgeting decays progress proportionally rather
// than resetting it.
type Mindful struct {
	tracker *session.Tracker
	gauge   *smooth.MotionGauge

	completed bool
}

// NewMindful creates the mindfulness experiment with default tuning.
func NewMindful() *Mindful {
	return &Mindful{
		tracker: session.NewTracker(session.DefaultConfig()),
		gauge:   smooth.NewMotionGauge(noseSmoothingAlpha),
	}
}

// NewMindfulWith creates the mindfulness experiment with custom tuning.
func NewMindfulWith(cfg session.Config) *Mindful {
	return &Mindful{
		tracker: session.NewTracker(cfg),
		gauge:   smooth.NewMotionGauge(noseSmoothingAlpha),
	}
}

// Name implements Experiment.
func (m *Mindful) Name() string { return "mindful" }

// Update implements Experiment.
func (m *Mindful) Update(frame Frame) []Event {
	in := session.Input{DT: frame.DT}

	if frame.Face != nil {
		in.FaceDetected = true
		in.EyesClosed = frame.Face.EyesClosed()
		if nose, ok := frame.Face.NosePosition(); ok {
			in.Motion = m.gauge.Update(nose, frame.DT)
		}
	}

	m.tracker.Update(in)

	if m.tracker.Phase() == session.PhaseComplete && !m.completed {
		m.completed = true
		return []Event{{
			Kind: EventSessionComplete,
			Detail: map[string]any{
				"duration": m.tracker.Target(),
				"peak":     m.tracker.Peak(),
			},
		}}
	}

	return nil
}

// Status implements Experiment.
func (m *Mindful) Status() map[string]any {
	return map[string]any{
		"phase":     string(m.tracker.Phase()),
		"progress":  m.tracker.Progress(),
		"peak":      m.tracker.Peak(),
		"target":    m.tracker.Target(),
		"interrupt": m.tracker.InterruptReason(),
	}
}

// Reset implements Experiment.
func (m *Mindful) Reset() {
	m.tracker.Reset()
	m.gauge.Reset()
	m.completed = false
}
