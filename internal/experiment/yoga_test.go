package experiment

import (
	"testing"

	"github.com/ayusman/limber/internal/classify"
	"github.com/ayusman/limber/internal/detector"
)

func yogaFrame(body detector.BodyLandmarks) Frame {
	return Frame{Bodies: []detector.BodyLandmarks{body}, DT: 0.2}
}

func kindsOf(events []Event) []string {
	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

func TestYoga_HoldAdvancesFlow(t *testing.T) {
	y := NewYoga(YogaConfig{
		Flow:        []classify.Pose{classify.PoseMountain, classify.PoseVolcano},
		HoldSeconds: 0.5,
	})

	if y.Target() != classify.PoseMountain {
		t.Fatalf("initial target = %q, want mountain", y.Target())
	}

	mountain := yogaFrame(detector.MountainLandmarks())
	if ev := y.Update(mountain); ev != nil {
		t.Fatalf("frame 1 events = %v, want none", kindsOf(ev))
	}
	if ev := y.Update(mountain); ev != nil {
		t.Fatalf("frame 2 events = %v, want none", kindsOf(ev))
	}

	ev := y.Update(mountain)
	if len(ev) != 1 || ev[0].Kind != EventPoseHeld {
		t.Fatalf("frame 3 events = %v, want [pose-held]", kindsOf(ev))
	}
	if ev[0].Detail["pose"] != string(classify.PoseMountain) {
		t.Errorf("pose-held detail = %v", ev[0].Detail)
	}
	if y.Target() != classify.PoseVolcano {
		t.Errorf("target after hold = %q, want volcano", y.Target())
	}

	volcano := yogaFrame(detector.VolcanoLandmarks())
	y.Update(volcano)
	y.Update(volcano)
	ev = y.Update(volcano)
	if len(ev) != 2 || ev[0].Kind != EventPoseHeld || ev[1].Kind != EventFlowComplete {
		t.Fatalf("final events = %v, want [pose-held flow-complete]", kindsOf(ev))
	}
	if y.Target() != classify.PoseNone {
		t.Errorf("target after flow = %q, want none", y.Target())
	}

	// A finished flow stays finished.
	if ev := y.Update(volcano); ev != nil {
		t.Errorf("update after completion = %v, want none", kindsOf(ev))
	}
}

func TestYoga_LeavingPoseRestartsHold(t *testing.T) {
	y := NewYoga(YogaConfig{
		Flow:        []classify.Pose{classify.PoseMountain},
		HoldSeconds: 0.5,
	})

	mountain := yogaFrame(detector.MountainLandmarks())
	y.Update(mountain)
	y.Update(mountain)

	// Drop into a different pose: the accumulated hold is lost.
	if ev := y.Update(yogaFrame(detector.TPoseLandmarks())); ev != nil {
		t.Fatalf("wrong-pose events = %v, want none", kindsOf(ev))
	}

	y.Update(mountain)
	if ev := y.Update(mountain); ev != nil {
		t.Fatalf("hold should have restarted, got %v", kindsOf(ev))
	}
	ev := y.Update(mountain)
	if len(ev) != 2 {
		t.Fatalf("events after full re-hold = %v", kindsOf(ev))
	}
}

func TestYoga_DropoutKeepsHold(t *testing.T) {
	y := NewYoga(YogaConfig{
		Flow:        []classify.Pose{classify.PoseMountain},
		HoldSeconds: 0.5,
	})

	mountain := yogaFrame(detector.MountainLandmarks())
	y.Update(mountain)
	y.Update(mountain)

	// A frame with no detection pauses the hold without discarding it.
	y.Update(Frame{DT: 0.2})

	ev := y.Update(mountain)
	if len(ev) != 2 || ev[0].Kind != EventPoseHeld {
		t.Fatalf("events after dropout = %v, want pose-held", kindsOf(ev))
	}
}

func TestYoga_StatusAndReset(t *testing.T) {
	y := NewYoga(DefaultYogaConfig())
	y.Update(yogaFrame(detector.MountainLandmarks()))

	st := y.Status()
	if st["current"] != string(classify.PoseMountain) {
		t.Errorf("status current = %v, want mountain", st["current"])
	}
	if acc := st["accuracy"].(float64); acc < 0.8 {
		t.Errorf("accuracy in target pose = %v, want >= 0.8", acc)
	}

	y.Reset()
	st = y.Status()
	if st["current"] != "" || st["step"] != 0 || st["held"] != 0.0 {
		t.Errorf("status after reset = %v", st)
	}
	if y.Target() != classify.PoseMountain {
		t.Errorf("target after reset = %q", y.Target())
	}
}
