package experiment

import (
	"github.com/ayusman/limber/internal/classify"
)

// YogaConfig holds the tunables of the yoga flow experiment.
type YogaConfig struct {
	// Flow is the ordered sequence of poses to hold.
	Flow []classify.Pose

	// HoldSeconds is how long each pose must be held continuously.
	HoldSeconds float64
}

// DefaultYogaConfig returns the standard sun-salutation-ish flow.
func DefaultYogaConfig() YogaConfig {
	return YogaConfig{
		Flow: []classify.Pose{
			classify.PoseMountain,
			classify.PoseVolcano,
			classify.PoseTPose,
			classify.PosePlank,
			classify.PoseShavasana,
		},
		HoldSeconds: 3,
	}
}

// Yoga walks the player through a flow of poses. The exact tuple matcher
// decides when the target pose is reached; the angle-distance accuracy
// scorer provides continuous feedback on the way there.
type Yoga struct {
	cfg YogaConfig

	idx      int
	held     float64
	current  classify.Pose
	accuracy float64
	done     bool
}

// NewYoga creates the yoga experiment.
func NewYoga(cfg YogaConfig) *Yoga {
	if len(cfg.Flow) == 0 {
		cfg = DefaultYogaConfig()
	}
	return &Yoga{cfg: cfg}
}

// Name implements Experiment.
func (y *Yoga) Name() string { return "yoga" }

// Target returns the pose currently being worked toward, or PoseNone when
// the flow is finished.
func (y *Yoga) Target() classify.Pose {
	if y.idx >= len(y.cfg.Flow) {
		return classify.PoseNone
	}
	return y.cfg.Flow[y.idx]
}

// Update implements Experiment.
func (y *Yoga) Update(frame Frame) []Event {
	if y.done {
		return nil
	}

	body := firstBody(frame)
	if body == nil {
		// No body this frame: the hold does not advance but is not lost.
		y.current = classify.PoseNone
		y.accuracy = 0
		return nil
	}

	world := body.WorldPoints()
	target := y.Target()

	y.current = classify.YogaPose(world)
	y.accuracy = classify.Accuracy(world, target)

	if y.current != target {
		// Leaving the pose restarts the hold.
		y.held = 0
		return nil
	}

	y.held += frame.DT
	if y.held < y.cfg.HoldSeconds {
		return nil
	}

	events := []Event{{
		Kind:   EventPoseHeld,
		Detail: map[string]any{"pose": string(target), "held": y.cfg.HoldSeconds},
	}}

	y.idx++
	y.held = 0

	if y.idx >= len(y.cfg.Flow) {
		y.done = true
		events = append(events, Event{
			Kind:   EventFlowComplete,
			Detail: map[string]any{"poses": len(y.cfg.Flow)},
		})
	}

	return events
}

// Status implements Experiment.
func (y *Yoga) Status() map[string]any {
	return map[string]any{
		"target":   string(y.Target()),
		"current":  string(y.current),
		"accuracy": y.accuracy,
		"held":     y.held,
		"step":     y.idx,
		"steps":    len(y.cfg.Flow),
		"done":     y.done,
	}
}

// Reset implements Experiment.
func (y *Yoga) Reset() {
	y.idx = 0
	y.held = 0
	y.current = classify.PoseNone
	y.accuracy = 0
	y.done = false
}
