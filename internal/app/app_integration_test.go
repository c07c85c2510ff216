package app

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ayusman/limber/internal/detector"
	"github.com/ayusman/limber/internal/server/api"
	"github.com/ayusman/limber/internal/store"
)

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	a := New(Config{
		Store:     s,
		PluginDir: filepath.Join(tmpDir, "plugins"),
	})
	a.SetDetector(detector.NewMockDetector())
	return a, s
}

func TestApp_Defaults(t *testing.T) {
	a, _ := newTestApp(t)

	if a.Active() != DefaultExperiment {
		t.Errorf("Active() = %q, want %q", a.Active(), DefaultExperiment)
	}
	if a.IsEnabled() {
		t.Error("processing should start disabled")
	}
	if len(a.Names()) != 4 {
		t.Errorf("Names() = %v", a.Names())
	}
}

func TestApp_ActivateAndStatus(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.Activate("mindful"); err != nil {
		t.Fatalf("Activate(mindful) error = %v", err)
	}
	if a.Active() != "mindful" {
		t.Errorf("Active() = %q, want mindful", a.Active())
	}

	status, err := a.Status("mindful")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status["phase"] != "waiting" {
		t.Errorf("status = %v", status)
	}

	if err := a.Activate("juggling"); !errors.Is(err, api.ErrUnknownExperiment) {
		t.Errorf("Activate(unknown) error = %v, want ErrUnknownExperiment", err)
	}
}

func TestApp_ProcessFrame_RecordsCompletedSession(t *testing.T) {
	a, s := newTestApp(t)

	if err := a.Activate("rhythm"); err != nil {
		t.Fatalf("Activate(rhythm) error = %v", err)
	}

	// One giant frame gap expires the whole default chart: six misses
	// and a chart completion, which finalizes the session.
	a.processFrame(nil, nil, 12.0)

	sessions, err := s.Sessions().List("rhythm", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 recorded session, got %d", len(sessions))
	}

	sess := sessions[0]
	if !sess.Completed {
		t.Error("session should be marked completed")
	}
	if sess.Duration != 12.0 {
		t.Errorf("Duration = %f, want 12", sess.Duration)
	}

	events, err := s.Sessions().Events(sess.ID)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 7 {
		t.Errorf("expected 7 events (6 misses + completion), got %d", len(events))
	}
	if events[len(events)-1].Kind != "chart-complete" {
		t.Errorf("last event = %q, want chart-complete", events[len(events)-1].Kind)
	}
}

func TestApp_StopRecordsIncompleteSession(t *testing.T) {
	a, s := newTestApp(t)

	if err := a.Activate("rhythm"); err != nil {
		t.Fatalf("Activate(rhythm) error = %v", err)
	}

	// Expire the first two notes only, then shut down mid-chart.
	a.processFrame(nil, nil, 5.0)
	a.Stop()

	sessions, err := s.Sessions().List("rhythm", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 recorded session, got %d", len(sessions))
	}
	if sessions[0].Completed {
		t.Error("aborted session should not be marked completed")
	}

	events, err := s.Sessions().Events(sessions[0].ID)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 miss events, got %d", len(events))
	}
}

func TestApp_EmptySessionsNotRecorded(t *testing.T) {
	a, s := newTestApp(t)

	// Switching experiments without any events should leave no trace.
	a.Activate("mindful")
	a.Activate("posture")
	a.Stop()

	sessions, err := s.Sessions().List("", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}
}

func TestApp_ResetRestartsExperiment(t *testing.T) {
	a, _ := newTestApp(t)

	a.Activate("rhythm")
	a.processFrame(nil, nil, 12.0)

	status, _ := a.Status("rhythm")
	if status["done"] != true {
		t.Fatalf("chart should be done, status = %v", status)
	}

	if err := a.Reset("rhythm"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	status, _ = a.Status("rhythm")
	if status["done"] != false || status["elapsed"] != 0.0 {
		t.Errorf("status after reset = %v", status)
	}
}

func TestApp_ProcessFrame_ClassifiesBodies(t *testing.T) {
	a, _ := newTestApp(t)

	// The yoga experiment sees the mountain pose through the frame.
	a.processFrame([]detector.BodyLandmarks{detector.MountainLandmarks()}, nil, 0.1)

	status, err := a.Status("yoga")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status["current"] != "mountain" {
		t.Errorf("status current = %v, want mountain", status["current"])
	}
}

func TestApp_StopDrainsPluginDispatch(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell script test on Windows")
	}

	a, _ := newTestApp(t)

	// A slow plugin that drops a marker file once it has handled the
	// event. Stop must not return before the marker exists.
	pluginDir := filepath.Join(a.PluginManager().PluginDir(), "slow")
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	manifest := `{
		"name": "slow",
		"version": "1.0.0",
		"executable": "slow.sh",
		"events": ["chart-complete"]
	}`
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	script := `#!/bin/sh
cat > /dev/null
sleep 0.3
touch marker
echo '{"success": true}'
`
	if err := os.WriteFile(filepath.Join(pluginDir, "slow.sh"), []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	if err := a.DiscoverPlugins(); err != nil {
		t.Fatalf("DiscoverPlugins() error = %v", err)
	}

	if err := a.Activate("rhythm"); err != nil {
		t.Fatalf("Activate(rhythm) error = %v", err)
	}

	// Expiring the whole chart emits chart-complete, which fires the
	// plugin asynchronously.
	a.processFrame(nil, nil, 12.0)

	a.Stop()

	if _, err := os.Stat(filepath.Join(pluginDir, "marker")); err != nil {
		t.Errorf("plugin marker missing after Stop: %v", err)
	}
}
