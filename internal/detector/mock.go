package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	detection *Detection
	err       error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{detection: &Detection{}}
}

// SetDetection sets the detection that will be returned by Detect.
func (m *MockDetector) SetDetection(d *Detection) {
	m.detection = d
}

// SetBodies sets the bodies that will be returned by Detect.
func (m *MockDetector) SetBodies(bodies []BodyLandmarks) {
	if m.detection == nil {
		m.detection = &Detection{}
	}
	m.detection.Bodies = bodies
}

// SetFace sets the face that will be returned by Detect.
func (m *MockDetector) SetFace(face *FaceLandmarks) {
	if m.detection == nil {
		m.detection = &Detection{}
	}
	m.detection.Face = face
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured detection or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Detection, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.detection == nil {
		return &Detection{}, nil
	}
	return m.detection, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset world-space bodies for the canonical yoga poses. Coordinates are
// metric and hip-centered with +Y pointing down and +Z away from the
// camera, matching what the pose landmarker emits.

// MountainLandmarks returns a body standing upright with arms at the sides
// and straight legs.
func MountainLandmarks() BodyLandmarks {
	var w [NumLandmarks]Point3D

	// Head
	w[Nose] = Point3D{0, -0.62, -0.05}
	w[LeftEyeInner] = Point3D{0.02, -0.65, -0.04}
	w[LeftEye] = Point3D{0.03, -0.65, -0.04}
	w[LeftEyeOuter] = Point3D{0.04, -0.65, -0.04}
	w[RightEyeInner] = Point3D{-0.02, -0.65, -0.04}
	w[RightEye] = Point3D{-0.03, -0.65, -0.04}
	w[RightEyeOuter] = Point3D{-0.04, -0.65, -0.04}
	w[LeftEar] = Point3D{0.07, -0.64, 0}
	w[RightEar] = Point3D{-0.07, -0.64, 0}
	w[MouthLeft] = Point3D{0.02, -0.58, -0.04}
	w[MouthRight] = Point3D{-0.02, -0.58, -0.04}

	// Torso
	w[LeftShoulder] = Point3D{0.15, -0.45, 0}
	w[RightShoulder] = Point3D{-0.15, -0.45, 0}
	w[LeftHip] = Point3D{0.10, 0, 0}
	w[RightHip] = Point3D{-0.10, 0, 0}

	// Arms hanging down
	w[LeftElbow] = Point3D{0.17, -0.20, 0}
	w[RightElbow] = Point3D{-0.17, -0.20, 0}
	w[LeftWrist] = Point3D{0.18, 0.05, 0}
	w[RightWrist] = Point3D{-0.18, 0.05, 0}
	w[LeftPinky] = Point3D{0.19, 0.09, 0}
	w[RightPinky] = Point3D{-0.19, 0.09, 0}
	w[LeftIndex] = Point3D{0.18, 0.10, -0.01}
	w[RightIndex] = Point3D{-0.18, 0.10, -0.01}
	w[LeftThumb] = Point3D{0.17, 0.08, -0.02}
	w[RightThumb] = Point3D{-0.17, 0.08, -0.02}

	// Legs straight
	w[LeftKnee] = Point3D{0.11, 0.40, 0}
	w[RightKnee] = Point3D{-0.11, 0.40, 0}
	w[LeftAnkle] = Point3D{0.12, 0.80, 0}
	w[RightAnkle] = Point3D{-0.12, 0.80, 0}
	w[LeftHeel] = Point3D{0.12, 0.83, 0.03}
	w[RightHeel] = Point3D{-0.12, 0.83, 0.03}
	w[LeftFootIndex] = Point3D{0.13, 0.85, -0.08}
	w[RightFootIndex] = Point3D{-0.13, 0.85, -0.08}

	return makeBody(w)
}

// VolcanoLandmarks returns a body standing upright with both arms raised
// overhead.
func VolcanoLandmarks() BodyLandmarks {
	b := MountainLandmarks()
	b.World[LeftElbow] = Point3D{0.16, -0.70, 0}
	b.World[RightElbow] = Point3D{-0.16, -0.70, 0}
	b.World[LeftWrist] = Point3D{0.17, -0.95, 0}
	b.World[RightWrist] = Point3D{-0.17, -0.95, 0}
	b.World[LeftPinky] = Point3D{0.18, -0.99, 0}
	b.World[RightPinky] = Point3D{-0.18, -0.99, 0}
	b.World[LeftIndex] = Point3D{0.17, -1.00, -0.01}
	b.World[RightIndex] = Point3D{-0.17, -1.00, -0.01}
	b.World[LeftThumb] = Point3D{0.16, -0.98, -0.02}
	b.World[RightThumb] = Point3D{-0.16, -0.98, -0.02}
	return makeBody(b.World)
}

// TPoseLandmarks returns a body standing upright with arms extended
// straight out to the sides.
func TPoseLandmarks() BodyLandmarks {
	b := MountainLandmarks()
	b.World[LeftElbow] = Point3D{0.40, -0.45, 0}
	b.World[RightElbow] = Point3D{-0.40, -0.45, 0}
	b.World[LeftWrist] = Point3D{0.65, -0.45, 0}
	b.World[RightWrist] = Point3D{-0.65, -0.45, 0}
	b.World[LeftPinky] = Point3D{0.69, -0.45, 0}
	b.World[RightPinky] = Point3D{-0.69, -0.45, 0}
	b.World[LeftIndex] = Point3D{0.70, -0.45, -0.01}
	b.World[RightIndex] = Point3D{-0.70, -0.45, -0.01}
	b.World[LeftThumb] = Point3D{0.68, -0.44, -0.02}
	b.World[RightThumb] = Point3D{-0.68, -0.44, -0.02}
	return makeBody(b.World)
}

// PlankLandmarks returns a body horizontal and face-down, raised on
// straight arms with straight legs.
func PlankLandmarks() BodyLandmarks {
	var w [NumLandmarks]Point3D

	// Head looking at the floor ahead of the shoulders
	w[Nose] = Point3D{0, -0.20, -0.75}
	w[LeftEyeInner] = Point3D{0.02, -0.24, -0.72}
	w[LeftEye] = Point3D{0.03, -0.24, -0.72}
	w[LeftEyeOuter] = Point3D{0.04, -0.24, -0.72}
	w[RightEyeInner] = Point3D{-0.02, -0.24, -0.72}
	w[RightEye] = Point3D{-0.03, -0.24, -0.72}
	w[RightEyeOuter] = Point3D{-0.04, -0.24, -0.72}
	w[LeftEar] = Point3D{0.06, -0.22, -0.65}
	w[RightEar] = Point3D{-0.06, -0.22, -0.65}
	w[MouthLeft] = Point3D{0.02, -0.16, -0.73}
	w[MouthRight] = Point3D{-0.02, -0.16, -0.73}

	// Torso horizontal, chest toward the ground
	w[LeftShoulder] = Point3D{0.15, -0.15, -0.50}
	w[RightShoulder] = Point3D{-0.15, -0.15, -0.50}
	w[LeftHip] = Point3D{0.10, 0, 0}
	w[RightHip] = Point3D{-0.10, 0, 0}

	// Arms straight down to the floor
	w[LeftElbow] = Point3D{0.16, 0.10, -0.55}
	w[RightElbow] = Point3D{-0.16, 0.10, -0.55}
	w[LeftWrist] = Point3D{0.17, 0.35, -0.58}
	w[RightWrist] = Point3D{-0.17, 0.35, -0.58}
	w[LeftPinky] = Point3D{0.18, 0.38, -0.60}
	w[RightPinky] = Point3D{-0.18, 0.38, -0.60}
	w[LeftIndex] = Point3D{0.17, 0.38, -0.62}
	w[RightIndex] = Point3D{-0.17, 0.38, -0.62}
	w[LeftThumb] = Point3D{0.16, 0.37, -0.59}
	w[RightThumb] = Point3D{-0.16, 0.37, -0.59}

	// Legs straight back, toes tucked
	w[LeftKnee] = Point3D{0.11, 0.05, 0.45}
	w[RightKnee] = Point3D{-0.11, 0.05, 0.45}
	w[LeftAnkle] = Point3D{0.12, 0.10, 0.90}
	w[RightAnkle] = Point3D{-0.12, 0.10, 0.90}
	w[LeftHeel] = Point3D{0.12, 0.05, 0.95}
	w[RightHeel] = Point3D{-0.12, 0.05, 0.95}
	w[LeftFootIndex] = Point3D{0.13, 0.25, 0.92}
	w[RightFootIndex] = Point3D{-0.13, 0.25, 0.92}

	return makeBody(w)
}

// ShavasanaLandmarks returns a body lying flat on its back with arms at
// the sides and straight legs.
func ShavasanaLandmarks() BodyLandmarks {
	var w [NumLandmarks]Point3D

	// Head resting, face toward the ceiling
	w[Nose] = Point3D{0, -0.10, 0.72}
	w[LeftEyeInner] = Point3D{0.02, -0.11, 0.70}
	w[LeftEye] = Point3D{0.03, -0.11, 0.70}
	w[LeftEyeOuter] = Point3D{0.04, -0.11, 0.70}
	w[RightEyeInner] = Point3D{-0.02, -0.11, 0.70}
	w[RightEye] = Point3D{-0.03, -0.11, 0.70}
	w[RightEyeOuter] = Point3D{-0.04, -0.11, 0.70}
	w[LeftEar] = Point3D{0.06, -0.06, 0.68}
	w[RightEar] = Point3D{-0.06, -0.06, 0.68}
	w[MouthLeft] = Point3D{0.02, -0.09, 0.75}
	w[MouthRight] = Point3D{-0.02, -0.09, 0.75}

	// Torso flat, chest toward the ceiling
	w[LeftShoulder] = Point3D{0.15, -0.05, 0.55}
	w[RightShoulder] = Point3D{-0.15, -0.05, 0.55}
	w[LeftHip] = Point3D{0.10, 0, 0}
	w[RightHip] = Point3D{-0.10, 0, 0}

	// Arms resting along the body
	w[LeftElbow] = Point3D{0.17, -0.02, 0.28}
	w[RightElbow] = Point3D{-0.17, -0.02, 0.28}
	w[LeftWrist] = Point3D{0.18, 0, 0.03}
	w[RightWrist] = Point3D{-0.18, 0, 0.03}
	w[LeftPinky] = Point3D{0.19, 0, -0.01}
	w[RightPinky] = Point3D{-0.19, 0, -0.01}
	w[LeftIndex] = Point3D{0.18, -0.01, -0.02}
	w[RightIndex] = Point3D{-0.18, -0.01, -0.02}
	w[LeftThumb] = Point3D{0.17, -0.02, 0.01}
	w[RightThumb] = Point3D{-0.17, -0.02, 0.01}

	// Legs stretched out
	w[LeftKnee] = Point3D{0.11, 0.01, -0.42}
	w[RightKnee] = Point3D{-0.11, 0.01, -0.42}
	w[LeftAnkle] = Point3D{0.12, 0.02, -0.85}
	w[RightAnkle] = Point3D{-0.12, 0.02, -0.85}
	w[LeftHeel] = Point3D{0.12, 0.05, -0.88}
	w[RightHeel] = Point3D{-0.12, 0.05, -0.88}
	w[LeftFootIndex] = Point3D{0.13, -0.04, -0.92}
	w[RightFootIndex] = Point3D{-0.13, -0.04, -0.92}

	return makeBody(w)
}

// makeBody fills in image-space landmarks with a simple mirrored projection
// of the world points and a high visibility, which is sufficient for tests.
func makeBody(world [NumLandmarks]Point3D) BodyLandmarks {
	b := BodyLandmarks{World: world, Score: 0.95}
	for i, p := range world {
		b.Image[i] = ImagePoint{
			X:          0.5 - p.X*0.35,
			Y:          0.55 + p.Y*0.35,
			Z:          p.Z,
			Visibility: 0.95,
		}
	}
	return b
}

// FacePreset returns a face whose transformation matrix encodes the given
// head pitch and yaw and whose blink blendshapes read closed or open.
func FacePreset(pitch, yaw float64, eyesClosed bool) *FaceLandmarks {
	blink := 0.05
	if eyesClosed {
		blink = 0.9
	}

	face := &FaceLandmarks{
		Points: make([]Point3D, MinFacePoints),
		Blendshapes: map[string]float64{
			BlendshapeBlinkLeft:  blink,
			BlendshapeBlinkRight: blink,
			BlendshapeJawOpen:    0.02,
		},
		Matrix: HeadPoseMatrix(pitch, yaw),
	}
	face.Points[FaceNoseTip] = Point3D{0.5, 0.42, -0.03}
	face.Points[FaceUpperLip] = Point3D{0.5, 0.48, -0.02}
	face.Points[FaceLowerLip] = Point3D{0.5, 0.50, -0.02}
	return face
}

// HeadPoseMatrix builds a column-major 4x4 transformation matrix whose ZYX
// Euler decomposition yields exactly the given pitch and yaw (roll zero).
func HeadPoseMatrix(pitch, yaw float64) [16]float64 {
	sp, cp := math.Sincos(pitch)
	sy, cy := math.Sincos(yaw)

	var m [16]float64
	m[0] = cy
	m[1] = 0
	m[2] = -sy
	m[4] = sy * sp
	m[5] = cp
	m[6] = cy * sp
	m[8] = sy * cp
	m[9] = -sp
	m[10] = cy * cp
	m[15] = 1
	return m
}
