package experiment

import (
	"math"

	"github.com/ayusman/limber/internal/classify"
	"github.com/ayusman/limber/internal/detector"
	"github.com/ayusman/limber/internal/smooth"
)

// PostureConfig holds the tunables of the posture monitor.
type PostureConfig struct {
	// SlouchDegrees is the smoothed neck angle below which the subject
	// counts as slouching.
	SlouchDegrees float64

	// AlertAfterSeconds is how long a slouch must persist before an
	// alert fires. Alerts repeat at this interval while it persists.
	AlertAfterSeconds float64
}

// DefaultPostureConfig returns the standard posture tuning.
func DefaultPostureConfig() PostureConfig {
	return PostureConfig{
		SlouchDegrees:     150,
		AlertAfterSeconds: 10,
	}
}

// Posture watches the neck angle (ear-shoulder-hip, averaged over both
// sides) in image space and nags when a slouch persists. Desk use is a
// head-on camera, so the 2D projection is sufficient and cheaper than a
// world-space read.
type Posture struct {
	cfg PostureConfig

	angle      *smooth.ValueSmoother
	slouching  bool
	slouchTime float64
}

// NewPosture creates the posture experiment.
func NewPosture(cfg PostureConfig) *Posture {
	if cfg.SlouchDegrees <= 0 {
		cfg = DefaultPostureConfig()
	}
	return &Posture{
		cfg:   cfg,
		angle: smooth.NewValueSmoother(0.2),
	}
}

// Name implements Experiment.
func (p *Posture) Name() string { return "posture" }

// neckAngle computes the mean ear-shoulder-hip angle in degrees from
// image-space landmarks.
func neckAngle(body *detector.BodyLandmarks) float64 {
	left := classify.AngleAt2D(
		body.Image[detector.LeftEar].X, body.Image[detector.LeftEar].Y,
		body.Image[detector.LeftShoulder].X, body.Image[detector.LeftShoulder].Y,
		body.Image[detector.LeftHip].X, body.Image[detector.LeftHip].Y,
	)
	right := classify.AngleAt2D(
		body.Image[detector.RightEar].X, body.Image[detector.RightEar].Y,
		body.Image[detector.RightShoulder].X, body.Image[detector.RightShoulder].Y,
		body.Image[detector.RightHip].X, body.Image[detector.RightHip].Y,
	)
	return (left + right) / 2 * 180 / math.Pi
}

// Update implements Experiment.
func (p *Posture) Update(frame Frame) []Event {
	body := firstBody(frame)
	if body == nil {
		// Nobody at the desk: not a slouch.
		p.slouching = false
		p.slouchTime = 0
		return nil
	}

	angle := p.angle.Update(neckAngle(body))
	p.slouching = angle < p.cfg.SlouchDegrees

	if !p.slouching {
		p.slouchTime = 0
		return nil
	}

	p.slouchTime += frame.DT
	if p.slouchTime < p.cfg.AlertAfterSeconds {
		return nil
	}

	// Re-arm so the alert repeats if the slouch continues.
	p.slouchTime = 0
	return []Event{{
		Kind:   EventPostureAlert,
		Detail: map[string]any{"angle": angle},
	}}
}

// Status implements Experiment.
func (p *Posture) Status() map[string]any {
	return map[string]any{
		"angle":      p.angle.Value(),
		"slouching":  p.slouching,
		"slouchTime": p.slouchTime,
	}
}

// Reset implements Experiment.
func (p *Posture) Reset() {
	p.angle.Reset()
	p.slouching = false
	p.slouchTime = 0
}
