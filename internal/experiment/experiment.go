// Package experiment implements the playground experiments: small
// interactive games driven by classified landmarks. Each experiment owns
// its mutable state explicitly and is updated synchronously once per
// frame by the pipeline.
package experiment

import (
	"sort"

	"github.com/ayusman/limber/internal/detector"
)

// Frame carries one video frame's worth of detection results into an
// experiment update.
type Frame struct {
	Bodies []detector.BodyLandmarks
	Face   *detector.FaceLandmarks

	// DT is the elapsed time since the previous frame in seconds.
	DT float64
}

// Event is something an experiment wants the outside world to know about:
// a completed session, a hit note, a posture alert. Events drive action
// plugins and session recording.
type Event struct {
	Kind   string         `json:"kind"`
	Detail map[string]any `json:"detail,omitempty"`
}

// Event kinds emitted by the built-in experiments.
const (
	EventPoseHeld        = "pose-held"
	EventFlowComplete    = "flow-complete"
	EventNoteHit         = "note-hit"
	EventNoteMiss        = "note-miss"
	EventChartComplete   = "chart-complete"
	EventSessionComplete = "session-complete"
	EventPostureAlert    = "posture-alert"
)

// Experiment is the common capability interface for all experiment
// variants. Status replaces ad-hoc global flags with an explicit state
// accessor so external pollers (API, tests) never reach into internals.
type Experiment interface {
	// Name returns the experiment's registry key.
	Name() string

	// Update consumes one frame and returns any events it produced.
	Update(frame Frame) []Event

	// Status returns the experiment's externally visible state for the
	// API and WebSocket broadcast.
	Status() map[string]any

	// Reset returns the experiment to its initial state.
	Reset()
}

// Registry holds the fixed set of available experiments.
type Registry struct {
	experiments map[string]Experiment
}

// NewRegistry creates a registry with all built-in experiments.
func NewRegistry() *Registry {
	r := &Registry{experiments: make(map[string]Experiment)}
	for _, e := range []Experiment{
		NewYoga(DefaultYogaConfig()),
		NewRhythm(DefaultChart()),
		NewMindful(),
		NewPosture(DefaultPostureConfig()),
	} {
		r.experiments[e.Name()] = e
	}
	return r
}

// Get returns the named experiment, or nil if it does not exist.
func (r *Registry) Get(name string) Experiment {
	return r.experiments[name]
}

// Names returns the registered experiment names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.experiments))
	for name := range r.experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// firstBody returns the primary body in the frame, or nil.
func firstBody(frame Frame) *detector.BodyLandmarks {
	if len(frame.Bodies) == 0 {
		return nil
	}
	return &frame.Bodies[0]
}
