package experiment

import (
	"testing"

	"github.com/ayusman/limber/internal/detector"
	"github.com/ayusman/limber/internal/session"
)

func mindfulConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.TargetSeconds = 1
	return cfg
}

func stillFrame(dt float64) Frame {
	return Frame{Face: detector.FacePreset(0, 0, true), DT: dt}
}

func TestMindful_CompletesWhenStill(t *testing.T) {
	m := NewMindfulWith(mindfulConfig())

	var complete []Event
	for i := 0; i < 4; i++ {
		complete = append(complete, m.Update(stillFrame(0.25))...)
	}

	if len(complete) != 1 || complete[0].Kind != EventSessionComplete {
		t.Fatalf("events = %v, want one session-complete", kindsOf(complete))
	}
	if complete[0].Detail["duration"] != 1.0 {
		t.Errorf("detail = %v", complete[0].Detail)
	}

	st := m.Status()
	if st["phase"] != string(session.PhaseComplete) {
		t.Errorf("phase = %v, want complete", st["phase"])
	}

	// The completion event fires exactly once.
	if ev := m.Update(stillFrame(0.25)); ev != nil {
		t.Errorf("post-completion events = %v", kindsOf(ev))
	}
}

func TestMindful_WaitsWithoutClosedEyes(t *testing.T) {
	m := NewMindfulWith(mindfulConfig())

	for i := 0; i < 10; i++ {
		if ev := m.Update(Frame{Face: detector.FacePreset(0, 0, false), DT: 0.25}); ev != nil {
			t.Fatalf("open-eyes events = %v", kindsOf(ev))
		}
	}

	st := m.Status()
	if st["phase"] != string(session.PhaseWaiting) {
		t.Errorf("phase = %v, want waiting", st["phase"])
	}
	if st["progress"] != 0.0 {
		t.Errorf("progress = %v, want 0", st["progress"])
	}
}

func TestMindful_Reset(t *testing.T) {
	m := NewMindfulWith(mindfulConfig())
	for i := 0; i < 4; i++ {
		m.Update(stillFrame(0.25))
	}

	m.Reset()
	st := m.Status()
	if st["phase"] != string(session.PhaseWaiting) || st["progress"] != 0.0 {
		t.Errorf("status after reset = %v", st)
	}

	// A reset experiment can complete again.
	var events []Event
	for i := 0; i < 4; i++ {
		events = append(events, m.Update(stillFrame(0.25))...)
	}
	if len(events) != 1 || events[0].Kind != EventSessionComplete {
		t.Errorf("events after reset = %v", kindsOf(events))
	}
}
