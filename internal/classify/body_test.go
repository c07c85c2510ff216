package classify

import (
	"testing"

	"github.com/ayusman/limber/internal/detector"
)

func TestClassifyTorso(t *testing.T) {
	cases := []struct {
		name string
		body detector.BodyLandmarks
		want TorsoState
	}{
		{"standing", detector.MountainLandmarks(), TorsoUpright},
		{"arms up still upright", detector.VolcanoLandmarks(), TorsoUpright},
		{"face down", detector.PlankLandmarks(), TorsoProne},
		{"on the back", detector.ShavasanaLandmarks(), TorsoSupine},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyTorso(tc.body.WorldPoints()); got != tc.want {
				t.Errorf("ClassifyTorso() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyTorso_Indeterminate(t *testing.T) {
	if got := ClassifyTorso(nil); got != TorsoNone {
		t.Errorf("ClassifyTorso(nil) = %q, want none", got)
	}

	// All-zero landmarks collapse the spine to a zero vector.
	zero := make([]detector.Point3D, detector.NumLandmarks)
	if got := ClassifyTorso(zero); got != TorsoNone {
		t.Errorf("ClassifyTorso(zero) = %q, want none", got)
	}
}

func TestClassifyArm(t *testing.T) {
	cases := []struct {
		name    string
		body    detector.BodyLandmarks
		upright bool
		want    ArmState
	}{
		{"mountain arms down", detector.MountainLandmarks(), true, ArmDown},
		{"volcano arms up", detector.VolcanoLandmarks(), true, ArmUp},
		{"tpose arms out", detector.TPoseLandmarks(), true, ArmOut},
		{"plank supporting", detector.PlankLandmarks(), false, ArmSupporting},
		{"shavasana arms down", detector.ShavasanaLandmarks(), false, ArmDown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			points := tc.body.WorldPoints()
			for _, side := range []Side{SideLeft, SideRight} {
				if got := ClassifyArm(points, side, tc.upright); got != tc.want {
					t.Errorf("ClassifyArm(%s) = %q, want %q", side, got, tc.want)
				}
			}
		})
	}
}

// ambiguousArmLandmarks places the left arm at a ~50 degree shoulder angle,
// inside the deliberate gap between the down and out bands.
func ambiguousArmLandmarks() []detector.Point3D {
	body := detector.MountainLandmarks()
	body.World[detector.LeftElbow] = detector.Point3D{X: 0.32, Y: -0.27, Z: 0}
	body.World[detector.LeftWrist] = detector.Point3D{X: 0.45, Y: -0.12, Z: 0}
	return body.WorldPoints()
}

func TestClassifyArm_GapIsUnclassified(t *testing.T) {
	points := ambiguousArmLandmarks()

	if got := ClassifyArm(points, SideLeft, true); got != ArmNone {
		t.Errorf("ClassifyArm in band gap = %q, want none", got)
	}
	// The other arm is unaffected.
	if got := ClassifyArm(points, SideRight, true); got != ArmDown {
		t.Errorf("ClassifyArm(right) = %q, want down", got)
	}
}

func TestClassifyLegs(t *testing.T) {
	if got := ClassifyLegs(detector.MountainLandmarks().WorldPoints()); got != LegsStraight {
		t.Errorf("ClassifyLegs(mountain) = %q, want straight", got)
	}

	// Bend both knees well under the straight threshold.
	body := detector.MountainLandmarks()
	body.World[detector.LeftAnkle] = detector.Point3D{X: 0.12, Y: 0.45, Z: -0.35}
	body.World[detector.RightAnkle] = detector.Point3D{X: -0.12, Y: 0.45, Z: -0.35}
	if got := ClassifyLegs(body.WorldPoints()); got != LegsNone {
		t.Errorf("ClassifyLegs(bent) = %q, want none", got)
	}
}

func TestClassifyBodyParts(t *testing.T) {
	cases := []struct {
		name string
		body detector.BodyLandmarks
		want BodyPartStates
	}{
		{"mountain", detector.MountainLandmarks(), BodyPartStates{TorsoUpright, ArmDown, ArmDown, LegsStraight}},
		{"volcano", detector.VolcanoLandmarks(), BodyPartStates{TorsoUpright, ArmUp, ArmUp, LegsStraight}},
		{"tpose", detector.TPoseLandmarks(), BodyPartStates{TorsoUpright, ArmOut, ArmOut, LegsStraight}},
		{"plank", detector.PlankLandmarks(), BodyPartStates{TorsoProne, ArmSupporting, ArmSupporting, LegsStraight}},
		{"shavasana", detector.ShavasanaLandmarks(), BodyPartStates{TorsoSupine, ArmDown, ArmDown, LegsStraight}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyBodyParts(tc.body.WorldPoints())
			if got == nil {
				t.Fatal("ClassifyBodyParts() = nil, want states")
			}
			if *got != tc.want {
				t.Errorf("ClassifyBodyParts() = %+v, want %+v", *got, tc.want)
			}
		})
	}
}

func TestClassifyBodyParts_NullPropagation(t *testing.T) {
	// Too few landmarks.
	if got := ClassifyBodyParts(make([]detector.Point3D, 10)); got != nil {
		t.Errorf("ClassifyBodyParts(short) = %+v, want nil", got)
	}

	// One ambiguous arm fails the whole read.
	if got := ClassifyBodyParts(ambiguousArmLandmarks()); got != nil {
		t.Errorf("ClassifyBodyParts(ambiguous arm) = %+v, want nil", got)
	}

	// Indeterminate torso fails the whole read.
	zero := make([]detector.Point3D, detector.NumLandmarks)
	if got := ClassifyBodyParts(zero); got != nil {
		t.Errorf("ClassifyBodyParts(zero) = %+v, want nil", got)
	}
}

func TestClassifyBodyParts_Deterministic(t *testing.T) {
	points := detector.PlankLandmarks().WorldPoints()

	first := ClassifyBodyParts(points)
	for i := 0; i < 5; i++ {
		got := ClassifyBodyParts(points)
		if got == nil || *got != *first {
			t.Fatalf("ClassifyBodyParts not deterministic: %+v vs %+v", got, first)
		}
	}
}
