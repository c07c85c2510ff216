package classify

import (
	"github.com/ayusman/limber/internal/detector"
)

// TorsoState describes the vertical orientation of the torso.
type TorsoState string

const (
	// TorsoNone means the torso could not be classified this frame.
	TorsoNone    TorsoState = ""
	TorsoUpright TorsoState = "upright"
	TorsoProne   TorsoState = "prone"
	TorsoSupine  TorsoState = "supine"
)

// ArmState describes the position of one arm.
type ArmState string

const (
	// ArmNone means the arm fell into one of the deliberate gaps between
	// classification bands and stays unclassified.
	ArmNone       ArmState = ""
	ArmDown       ArmState = "down"
	ArmOut        ArmState = "out"
	ArmUp         ArmState = "up"
	ArmSupporting ArmState = "supporting"
)

// LegState describes leg straightness. Only "straight" is currently
// modeled; bent legs stay unclassified.
type LegState string

const (
	LegsNone     LegState = ""
	LegsStraight LegState = "straight"
)

// Side selects which arm to classify.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Classification thresholds in degrees. Empirically tuned; the gaps
// between the arm bands (45-55, 125-135) are deliberate tolerance and map
// to an unclassified arm.
const (
	uprightMaxDeg      = 45
	armDownMaxDeg      = 45
	armOutMinDeg       = 55
	armOutMaxDeg       = 125
	armUpMinDeg        = 135
	supportElbowMinDeg = 120
	supportShoulderDeg = 40
	legsStraightMinDeg = 140
)

// BodyPartStates is the derived per-frame record of discrete body-part
// states. It is the lookup key for named yoga poses.
type BodyPartStates struct {
	Torso    TorsoState `json:"torso"`
	LeftArm  ArmState   `json:"leftArm"`
	RightArm ArmState   `json:"rightArm"`
	Legs     LegState   `json:"legs"`
}

// ClassifyTorso determines the vertical orientation of the torso from
// world-space landmarks.
//
// The spine vector (hip midpoint to shoulder midpoint) is compared against
// the vertical axis; within uprightMaxDeg the body is upright. Otherwise
// the body is lying down, and prone vs supine is decided by the sign of
// the Y component of shoulderLine x spine, which encodes which way the
// torso's front face points relative to gravity. A single signed scalar is
// robust to left/right mirroring and translation.
func ClassifyTorso(landmarks []detector.Point3D) TorsoState {
	if len(landmarks) < detector.NumLandmarks {
		return TorsoNone
	}

	shoulderMid := detector.Midpoint(landmarks[detector.LeftShoulder], landmarks[detector.RightShoulder])
	hipMid := detector.Midpoint(landmarks[detector.LeftHip], landmarks[detector.RightHip])
	spine := vec(shoulderMid).Sub(vec(hipMid))

	if spine.Norm() < degenerateEps {
		return TorsoNone
	}

	if betweenVertical(spine) < uprightMaxDeg {
		return TorsoUpright
	}

	shoulderLine := vec(landmarks[detector.LeftShoulder]).Sub(vec(landmarks[detector.RightShoulder]))
	normal := shoulderLine.Cross(spine)

	// +Y points down in world space: a normal with positive Y means the
	// chest faces the ground.
	if normal.Y > 0 {
		return TorsoProne
	}
	return TorsoSupine
}

// ClassifyArm classifies one arm from world-space landmarks. upright is
// the already-computed torso judgment for the same frame.
//
// Supporting is checked before the upright-only bands: a prone arm can
// carry a shoulder angle that would otherwise alias with "out".
func ClassifyArm(landmarks []detector.Point3D, side Side, upright bool) ArmState {
	if len(landmarks) < detector.NumLandmarks {
		return ArmNone
	}

	var shoulder, elbow, wrist, hip detector.Point3D
	if side == SideLeft {
		shoulder = landmarks[detector.LeftShoulder]
		elbow = landmarks[detector.LeftElbow]
		wrist = landmarks[detector.LeftWrist]
		hip = landmarks[detector.LeftHip]
	} else {
		shoulder = landmarks[detector.RightShoulder]
		elbow = landmarks[detector.RightElbow]
		wrist = landmarks[detector.RightWrist]
		hip = landmarks[detector.RightHip]
	}

	shoulderAngle := AngleAtDegrees(elbow, shoulder, hip)
	elbowAngle := AngleAtDegrees(shoulder, elbow, wrist)

	if !upright && elbowAngle > supportElbowMinDeg && shoulderAngle > supportShoulderDeg {
		return ArmSupporting
	}

	switch {
	case shoulderAngle < armDownMaxDeg:
		return ArmDown
	case shoulderAngle >= armOutMinDeg && shoulderAngle <= armOutMaxDeg:
		return ArmOut
	case shoulderAngle > armUpMinDeg:
		return ArmUp
	}

	// Between bands: deliberately unclassified rather than forced into a
	// bucket.
	return ArmNone
}

// ClassifyLegs classifies leg straightness from the average of both knee
// angles.
func ClassifyLegs(landmarks []detector.Point3D) LegState {
	if len(landmarks) < detector.NumLandmarks {
		return LegsNone
	}

	left := AngleAtDegrees(landmarks[detector.LeftHip], landmarks[detector.LeftKnee], landmarks[detector.LeftAnkle])
	right := AngleAtDegrees(landmarks[detector.RightHip], landmarks[detector.RightKnee], landmarks[detector.RightAnkle])

	if (left+right)/2 > legsStraightMinDeg {
		return LegsStraight
	}
	return LegsNone
}

// ClassifyBodyParts computes the full body-part-state record from
// world-space landmarks. It returns nil when fewer than 33 landmarks are
// given or when any sub-part is indeterminate: a partial read is not
// considered actionable.
func ClassifyBodyParts(landmarks []detector.Point3D) *BodyPartStates {
	if len(landmarks) < detector.NumLandmarks {
		return nil
	}

	torso := ClassifyTorso(landmarks)
	if torso == TorsoNone {
		return nil
	}

	upright := torso == TorsoUpright
	leftArm := ClassifyArm(landmarks, SideLeft, upright)
	rightArm := ClassifyArm(landmarks, SideRight, upright)
	legs := ClassifyLegs(landmarks)

	if leftArm == ArmNone || rightArm == ArmNone || legs == LegsNone {
		return nil
	}

	return &BodyPartStates{
		Torso:    torso,
		LeftArm:  leftArm,
		RightArm: rightArm,
		Legs:     legs,
	}
}
