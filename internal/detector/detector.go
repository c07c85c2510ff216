package detector

import "gocv.io/x/gocv"

// Detection holds everything the landmark model produced for one frame.
// Bodies is empty when no body is visible; Face is nil when no face is
// visible. Both are normal, expected conditions.
type Detection struct {
	Bodies []BodyLandmarks `json:"bodies"`
	Face   *FaceLandmarks  `json:"face,omitempty"`
}

// Detector defines the interface for landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected bodies and
	// face. Returns an empty Detection if nothing is detected.
	Detect(frame *gocv.Mat) (*Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MaxBodies is the maximum number of bodies to detect (default: 2).
	MaxBodies int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// DetectFace enables face mesh and blendshape detection.
	DetectFace bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxBodies:       2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		DetectFace:      true,
	}
}
