package classify

import (
	"math"

	"github.com/ayusman/limber/internal/detector"
)

// angleTriplet names three landmarks and the target angle (degrees) at the
// middle one.
type angleTriplet struct {
	a, b, c int
	target  float64
}

// accuracyMaxDiff is the per-angle difference (degrees) that maps to a
// score of zero. Differences shrink the score linearly below it.
const accuracyMaxDiff = 90.0

// poseAngles holds the target joint angles per pose for the progressive
// accuracy scorer. These are feedback targets only; authoritative pose
// matching goes through the exact tuple table in yoga.go.
var poseAngles = map[Pose][]angleTriplet{
	PoseMountain: {
		{detector.LeftElbow, detector.LeftShoulder, detector.LeftHip, 10},
		{detector.RightElbow, detector.RightShoulder, detector.RightHip, 10},
		{detector.LeftHip, detector.LeftKnee, detector.LeftAnkle, 175},
		{detector.RightHip, detector.RightKnee, detector.RightAnkle, 175},
	},
	PoseVolcano: {
		{detector.LeftElbow, detector.LeftShoulder, detector.LeftHip, 170},
		{detector.RightElbow, detector.RightShoulder, detector.RightHip, 170},
		{detector.LeftShoulder, detector.LeftElbow, detector.LeftWrist, 170},
		{detector.RightShoulder, detector.RightElbow, detector.RightWrist, 170},
	},
	PoseTPose: {
		{detector.LeftElbow, detector.LeftShoulder, detector.LeftHip, 90},
		{detector.RightElbow, detector.RightShoulder, detector.RightHip, 90},
		{detector.LeftShoulder, detector.LeftElbow, detector.LeftWrist, 175},
		{detector.RightShoulder, detector.RightElbow, detector.RightWrist, 175},
	},
	PosePlank: {
		{detector.LeftElbow, detector.LeftShoulder, detector.LeftHip, 85},
		{detector.RightElbow, detector.RightShoulder, detector.RightHip, 85},
		{detector.LeftShoulder, detector.LeftElbow, detector.LeftWrist, 175},
		{detector.RightShoulder, detector.RightElbow, detector.RightWrist, 175},
		{detector.LeftHip, detector.LeftKnee, detector.LeftAnkle, 175},
		{detector.RightHip, detector.RightKnee, detector.RightAnkle, 175},
	},
	PoseShavasana: {
		{detector.LeftElbow, detector.LeftShoulder, detector.LeftHip, 10},
		{detector.RightElbow, detector.RightShoulder, detector.RightHip, 10},
		{detector.LeftHip, detector.LeftKnee, detector.LeftAnkle, 175},
		{detector.RightHip, detector.RightKnee, detector.RightAnkle, 175},
	},
}

// Accuracy scores world-space landmarks against the target joint angles of
// the given pose, returning 0..1. Each triplet's absolute angle difference
// is mapped linearly to 0..1 and the per-triplet scores are averaged.
//
// This is the looser scorer used for continuous UI feedback while a player
// works toward a pose; it never decides whether a pose matches.
func Accuracy(landmarks []detector.Point3D, pose Pose) float64 {
	triplets, ok := poseAngles[pose]
	if !ok || len(landmarks) < detector.NumLandmarks {
		return 0
	}

	var sum float64
	for _, t := range triplets {
		actual := AngleAtDegrees(landmarks[t.a], landmarks[t.b], landmarks[t.c])
		diff := math.Abs(actual - t.target)
		score := 1 - diff/accuracyMaxDiff
		if score < 0 {
			score = 0
		}
		sum += score
	}

	return sum / float64(len(triplets))
}
