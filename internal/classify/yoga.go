package classify

import "github.com/ayusman/limber/internal/detector"

// Pose names the recognized yoga poses. The set is closed; adding a pose
// means adding a row to the pose table.
type Pose string

const (
	PoseNone      Pose = ""
	PoseMountain  Pose = "mountain"
	PoseVolcano   Pose = "volcano"
	PoseTPose     Pose = "tpose"
	PosePlank     Pose = "plank"
	PoseShavasana Pose = "shavasana"
)

// poseTable maps each named pose to its exact body-part-state tuple. A
// pose is returned only on an exact tuple match; there is no
// nearest-match fallback, which keeps pose authoring honest against the
// classifier's discretization instead of letting a distance metric mask
// miscalibration.
var poseTable = []struct {
	pose   Pose
	states BodyPartStates
}{
	{PoseMountain, BodyPartStates{TorsoUpright, ArmDown, ArmDown, LegsStraight}},
	{PoseVolcano, BodyPartStates{TorsoUpright, ArmUp, ArmUp, LegsStraight}},
	{PoseTPose, BodyPartStates{TorsoUpright, ArmOut, ArmOut, LegsStraight}},
	{PosePlank, BodyPartStates{TorsoProne, ArmSupporting, ArmSupporting, LegsStraight}},
	{PoseShavasana, BodyPartStates{TorsoSupine, ArmDown, ArmDown, LegsStraight}},
}

// Poses returns the names of all recognized poses in table order.
func Poses() []Pose {
	out := make([]Pose, len(poseTable))
	for i, e := range poseTable {
		out[i] = e.pose
	}
	return out
}

// StatesFor returns the body-part-state tuple that defines the given pose,
// or nil for an unknown pose.
func StatesFor(pose Pose) *BodyPartStates {
	for _, e := range poseTable {
		if e.pose == pose {
			s := e.states
			return &s
		}
	}
	return nil
}

// MatchPose maps a body-part-state tuple to a pose by linear scan over the
// pose table. Returns PoseNone when no row matches exactly.
func MatchPose(states *BodyPartStates) Pose {
	if states == nil {
		return PoseNone
	}
	for _, e := range poseTable {
		if e.states == *states {
			return e.pose
		}
	}
	return PoseNone
}

// YogaPose classifies world-space landmarks into a named pose. Returns
// PoseNone when the body parts are indeterminate or the tuple matches no
// pose.
func YogaPose(landmarks []detector.Point3D) Pose {
	return MatchPose(ClassifyBodyParts(landmarks))
}
