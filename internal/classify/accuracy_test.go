package classify

import (
	"testing"

	"github.com/ayusman/limber/internal/detector"
)

func TestAccuracy_MatchingPoseScoresHigh(t *testing.T) {
	cases := []struct {
		pose Pose
		body detector.BodyLandmarks
	}{
		{PoseMountain, detector.MountainLandmarks()},
		{PoseVolcano, detector.VolcanoLandmarks()},
		{PoseTPose, detector.TPoseLandmarks()},
		{PosePlank, detector.PlankLandmarks()},
		{PoseShavasana, detector.ShavasanaLandmarks()},
	}

	for _, tc := range cases {
		t.Run(string(tc.pose), func(t *testing.T) {
			score := Accuracy(tc.body.WorldPoints(), tc.pose)
			if score < 0.85 {
				t.Errorf("Accuracy(%s fixture, %s) = %f, want >= 0.85", tc.pose, tc.pose, score)
			}
			if score > 1 {
				t.Errorf("Accuracy() = %f, above 1", score)
			}
		})
	}
}

func TestAccuracy_WrongPoseScoresLower(t *testing.T) {
	mountain := detector.MountainLandmarks().WorldPoints()

	own := Accuracy(mountain, PoseMountain)
	other := Accuracy(mountain, PoseVolcano)

	if other >= own {
		t.Errorf("Accuracy(mountain, volcano) = %f, want below Accuracy(mountain, mountain) = %f", other, own)
	}
	if other > 0.6 {
		t.Errorf("Accuracy(mountain, volcano) = %f, want <= 0.6", other)
	}
}

func TestAccuracy_EdgeCases(t *testing.T) {
	mountain := detector.MountainLandmarks().WorldPoints()

	if got := Accuracy(mountain, Pose("crow")); got != 0 {
		t.Errorf("Accuracy(unknown pose) = %f, want 0", got)
	}
	if got := Accuracy(make([]detector.Point3D, 10), PoseMountain); got != 0 {
		t.Errorf("Accuracy(short landmarks) = %f, want 0", got)
	}
}
