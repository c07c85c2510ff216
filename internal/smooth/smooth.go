// Package smooth provides the smoothing and toy-physics helpers that sit
// between raw landmarks and every consumer: exponential smoothing to tame
// jitter, a damped spring for pupil-style tracking, and simple particle
// kinematics.
package smooth

import (
	"math"

	"github.com/ayusman/limber/internal/detector"
)

// PointSmoother applies exponential smoothing to a stream of 3D points.
// The zero value is not usable; create one with NewPointSmoother.
type PointSmoother struct {
	alpha       float64
	value       detector.Point3D
	initialized bool
}

// NewPointSmoother creates a smoother with the given blend factor. alpha
// is the weight of the new sample (0 < alpha <= 1); lower values smooth
// harder. Out-of-range values are clamped.
func NewPointSmoother(alpha float64) *PointSmoother {
	if alpha <= 0 {
		alpha = 0.01
	}
	if alpha > 1 {
		alpha = 1
	}
	return &PointSmoother{alpha: alpha}
}

// Update feeds one sample and returns the smoothed point. The first
// sample initializes the smoother and passes through unchanged.
func (s *PointSmoother) Update(p detector.Point3D) detector.Point3D {
	if !s.initialized {
		s.value = p
		s.initialized = true
		return s.value
	}

	a := s.alpha
	s.value.X += a * (p.X - s.value.X)
	s.value.Y += a * (p.Y - s.value.Y)
	s.value.Z += a * (p.Z - s.value.Z)
	return s.value
}

// Value returns the current smoothed point.
func (s *PointSmoother) Value() detector.Point3D {
	return s.value
}

// Reset clears the smoother so the next sample passes through unchanged.
func (s *PointSmoother) Reset() {
	s.value = detector.Point3D{}
	s.initialized = false
}

// ValueSmoother applies exponential smoothing to a scalar stream, e.g.
// head pitch or a joint angle.
type ValueSmoother struct {
	alpha       float64
	value       float64
	initialized bool
}

// NewValueSmoother creates a scalar smoother with the given blend factor.
func NewValueSmoother(alpha float64) *ValueSmoother {
	if alpha <= 0 {
		alpha = 0.01
	}
	if alpha > 1 {
		alpha = 1
	}
	return &ValueSmoother{alpha: alpha}
}

// Update feeds one sample and returns the smoothed value.
func (s *ValueSmoother) Update(v float64) float64 {
	if !s.initialized {
		s.value = v
		s.initialized = true
		return v
	}
	s.value += s.alpha * (v - s.value)
	return s.value
}

// Value returns the current smoothed value.
func (s *ValueSmoother) Value() float64 {
	return s.value
}

// Reset clears the smoother.
func (s *ValueSmoother) Reset() {
	s.value = 0
	s.initialized = false
}

// MotionGauge tracks how fast a smoothed point is moving, in units per
// second. It is the stillness signal for the mindfulness experiment.
type MotionGauge struct {
	smoother *PointSmoother
	last     detector.Point3D
	hasLast  bool
	speed    float64
}

// NewMotionGauge creates a gauge smoothing samples with the given alpha.
func NewMotionGauge(alpha float64) *MotionGauge {
	return &MotionGauge{smoother: NewPointSmoother(alpha)}
}

// Update feeds one sample with the frame interval dt (seconds) and
// returns the current speed of the smoothed point.
func (g *MotionGauge) Update(p detector.Point3D, dt float64) float64 {
	smoothed := g.smoother.Update(p)

	if !g.hasLast || dt <= 0 {
		g.last = smoothed
		g.hasLast = true
		g.speed = 0
		return 0
	}

	g.speed = detector.Distance3D(smoothed, g.last) / dt
	g.last = smoothed
	return g.speed
}

// Speed returns the last computed speed.
func (g *MotionGauge) Speed() float64 {
	return g.speed
}

// Reset clears the gauge.
func (g *MotionGauge) Reset() {
	g.smoother.Reset()
	g.hasLast = false
	g.speed = 0
}

// Spring is a damped spring that chases a 2D target, used for pupil-style
// tracking where a raw cursor would feel twitchy.
type Spring struct {
	X, Y      float64
	VX, VY    float64
	Stiffness float64
	Damping   float64
}

// NewSpring creates a spring at the origin. Typical values: stiffness
// around 60, damping around 10.
func NewSpring(stiffness, damping float64) *Spring {
	return &Spring{Stiffness: stiffness, Damping: damping}
}

// Update advances the spring toward the target by dt seconds.
func (s *Spring) Update(targetX, targetY, dt float64) (x, y float64) {
	ax := s.Stiffness*(targetX-s.X) - s.Damping*s.VX
	ay := s.Stiffness*(targetY-s.Y) - s.Damping*s.VY

	s.VX += ax * dt
	s.VY += ay * dt
	s.X += s.VX * dt
	s.Y += s.VY * dt
	return s.X, s.Y
}

// Particle is a point with simple kinematics: velocity, constant gravity,
// proportional drag, and a finite lifetime.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Gravity float64
	Drag    float64
	Life    float64
}

// Step advances the particle by dt seconds and decrements its life.
func (p *Particle) Step(dt float64) {
	p.VY += p.Gravity * dt

	drag := 1 - p.Drag*dt
	if drag < 0 {
		drag = 0
	}
	p.VX *= drag
	p.VY *= drag

	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Life -= dt
}

// Alive reports whether the particle still has lifetime left.
func (p *Particle) Alive() bool {
	return p.Life > 0
}

// Speed returns the particle's current speed.
func (p *Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}
