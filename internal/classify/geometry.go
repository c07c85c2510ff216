// Package classify turns raw landmark coordinates into semantic judgments:
// joint angles, body-part states, named yoga poses, and head gestures.
package classify

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ayusman/limber/internal/detector"
)

// degenerateEps is the ray length below which an angle is considered
// degenerate. Returning 0 instead of NaN keeps downstream accumulators
// from being poisoned.
const degenerateEps = 1e-9

func vec(p detector.Point3D) r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// AngleAt returns the angle in radians at vertex b between the rays b->a
// and b->c. The result is always in [0, pi]. If either ray has near-zero
// length the angle is degenerate and 0 is returned.
func AngleAt(a, b, c detector.Point3D) float64 {
	u := vec(a).Sub(vec(b))
	v := vec(c).Sub(vec(b))

	if u.Norm() < degenerateEps || v.Norm() < degenerateEps {
		return 0
	}

	return u.Angle(v).Radians()
}

// AngleAtDegrees is AngleAt converted to degrees, which is what the
// classification bands are expressed in.
func AngleAtDegrees(a, b, c detector.Point3D) float64 {
	return AngleAt(a, b, c) * 180 / math.Pi
}

// AngleAt2D returns the angle at vertex (bx, by) between the rays toward
// (ax, ay) and (cx, cy), ignoring the z axis. Computed via
// atan2(|cross|, dot) so the result is sign-independent and in [0, pi].
// Degenerate rays return 0.
func AngleAt2D(ax, ay, bx, by, cx, cy float64) float64 {
	ux, uy := ax-bx, ay-by
	vx, vy := cx-bx, cy-by

	if math.Hypot(ux, uy) < degenerateEps || math.Hypot(vx, vy) < degenerateEps {
		return 0
	}

	cross := ux*vy - uy*vx
	dot := ux*vx + uy*vy
	return math.Atan2(math.Abs(cross), dot)
}

// betweenVertical returns the angle in degrees between the given vector
// and the vertical axis. World space has +Y pointing down, so "up" is -Y.
func betweenVertical(v r3.Vector) float64 {
	if v.Norm() < degenerateEps {
		return 0
	}
	up := r3.Vector{X: 0, Y: -1, Z: 0}
	return v.Angle(up).Degrees()
}
