package detector

import "math"

// Face mesh indices used by experiments (MediaPipe face landmarker mesh).
const (
	FaceNoseTip   = 1
	FaceUpperLip  = 13
	FaceLowerLip  = 14
	FaceChin      = 152
	FaceLeftBrow  = 70
	FaceRightBrow = 300
	MinFacePoints = 468
)

// Blendshape names consumed by experiments.
const (
	BlendshapeBlinkLeft  = "eyeBlinkLeft"
	BlendshapeBlinkRight = "eyeBlinkRight"
	BlendshapeJawOpen    = "jawOpen"
)

// BlinkThreshold is the blendshape activation above which an eye counts as
// closed.
const BlinkThreshold = 0.5

// FaceLandmarks represents one detected face: the mesh landmarks, the named
// blendshape activations (0..1), and the 4x4 column-major facial
// transformation matrix. It is rebuilt fresh every frame; consumers keep
// their own smoothing state.
type FaceLandmarks struct {
	Points      []Point3D          `json:"points"`
	Blendshapes map[string]float64 `json:"blendshapes"`
	Matrix      [16]float64        `json:"matrix"`
}

// HeadAngles derives head pitch and yaw in radians from the transformation
// matrix using a fixed ZYX Euler decomposition:
//
//	pitch = atan2(m[6], m[10])
//	yaw   = atan2(-m[2], sqrt(m[0]^2 + m[1]^2))
//
// The decomposition must match the rest of the system exactly; do not swap
// conventions here.
func (f *FaceLandmarks) HeadAngles() (pitch, yaw float64) {
	m := f.Matrix
	pitch = math.Atan2(m[6], m[10])
	yaw = math.Atan2(-m[2], math.Sqrt(m[0]*m[0]+m[1]*m[1]))
	return pitch, yaw
}

// Blendshape returns the activation for the named blendshape and whether it
// was reported this frame.
func (f *FaceLandmarks) Blendshape(name string) (float64, bool) {
	v, ok := f.Blendshapes[name]
	return v, ok
}

// EyesClosed reports whether both blink blendshapes exceed BlinkThreshold.
// A missing blendshape reads as open; a frame without the signal is "no
// judgment", not an error.
func (f *FaceLandmarks) EyesClosed() bool {
	left, okL := f.Blendshapes[BlendshapeBlinkLeft]
	right, okR := f.Blendshapes[BlendshapeBlinkRight]
	return okL && okR && left > BlinkThreshold && right > BlinkThreshold
}

// NosePosition returns the nose tip point, or false if the mesh is too
// small to contain it.
func (f *FaceLandmarks) NosePosition() (Point3D, bool) {
	if len(f.Points) <= FaceNoseTip {
		return Point3D{}, false
	}
	return f.Points[FaceNoseTip], true
}
