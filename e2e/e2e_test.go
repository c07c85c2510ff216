package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/limber/internal/app"
	"github.com/ayusman/limber/internal/detector"
	"github.com/ayusman/limber/internal/server"
	"github.com/ayusman/limber/internal/store"
	"github.com/ayusman/limber/testdata"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{
		Store:     s,
		PluginDir: filepath.Join(tmpDir, "plugins"),
	})
	application.SetDetector(detector.NewMockDetector())

	srv := server.New(server.Config{
		Store:       s,
		Experiments: application,
		Hub:         application.Hub(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("ListExperiments", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/experiments")
		if err != nil {
			t.Fatalf("list experiments error = %v", err)
		}
		defer resp.Body.Close()

		var listResp struct {
			Experiments []string `json:"experiments"`
			Active      string   `json:"active"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
			t.Fatalf("decode error = %v", err)
		}

		if len(listResp.Experiments) != 4 {
			t.Errorf("experiments = %v, want 4 entries", listResp.Experiments)
		}
		if listResp.Active != "yoga" {
			t.Errorf("active = %q, want %q", listResp.Active, "yoga")
		}
	})

	t.Run("ActivateRhythm", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/experiments/rhythm/activate", "application/json", nil)
		if err != nil {
			t.Fatalf("activate error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var statusResp struct {
			Name   string `json:"name"`
			Active bool   `json:"active"`
		}
		json.NewDecoder(resp.Body).Decode(&statusResp)
		if statusResp.Name != "rhythm" || !statusResp.Active {
			t.Errorf("activate response = %+v, want rhythm active", statusResp)
		}
	})

	// Letting the whole chart expire in one oversized step records a
	// completed session without walking through real gestures.
	var sessionID string
	t.Run("ChartExpiryRecordsSession", func(t *testing.T) {
		application.ProcessDetection(detector.Detection{}, 12.0)

		resp, err := client.Get(ts.URL + "/api/sessions?experiment=rhythm")
		if err != nil {
			t.Fatalf("list sessions error = %v", err)
		}
		defer resp.Body.Close()

		var listResp struct {
			Sessions []*store.Session `json:"sessions"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
			t.Fatalf("decode error = %v", err)
		}

		if len(listResp.Sessions) != 1 {
			t.Fatalf("sessions = %d, want 1", len(listResp.Sessions))
		}
		sess := listResp.Sessions[0]
		if !sess.Completed {
			t.Error("session should be completed")
		}
		if sess.Experiment != "rhythm" {
			t.Errorf("experiment = %q, want %q", sess.Experiment, "rhythm")
		}
		sessionID = sess.ID
	})

	t.Run("SessionEvents", func(t *testing.T) {
		if sessionID == "" {
			t.Skip("no session recorded")
		}

		resp, err := client.Get(ts.URL + "/api/sessions/" + sessionID + "/events")
		if err != nil {
			t.Fatalf("list events error = %v", err)
		}
		defer resp.Body.Close()

		var eventsResp struct {
			Events []*store.SessionEvent `json:"events"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&eventsResp); err != nil {
			t.Fatalf("decode error = %v", err)
		}

		if len(eventsResp.Events) == 0 {
			t.Fatal("no events recorded")
		}
		last := eventsResp.Events[len(eventsResp.Events)-1]
		if last.Kind != "chart-complete" {
			t.Errorf("last event kind = %q, want %q", last.Kind, "chart-complete")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health check error = %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after app operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_RecordedPoseDrivesYoga(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{Store: s})
	application.SetDetector(detector.NewMockDetector())

	srv := server.New(server.Config{Store: s, Experiments: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	body, err := testdata.LoadBody("yoga-mountain")
	if err != nil {
		t.Fatalf("LoadBody: %v", err)
	}

	det := detector.Detection{Bodies: []detector.BodyLandmarks{body}}
	for i := 0; i < 3; i++ {
		application.ProcessDetection(det, 0.1)
	}

	resp, err := ts.Client().Get(ts.URL + "/api/experiments/yoga")
	if err != nil {
		t.Fatalf("get status error = %v", err)
	}
	defer resp.Body.Close()

	var statusResp struct {
		Status map[string]any `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		t.Fatalf("decode error = %v", err)
	}

	if got := statusResp.Status["current"]; got != "mountain" {
		t.Errorf("current pose = %v, want %q", got, "mountain")
	}
	if got := statusResp.Status["target"]; got != "mountain" {
		t.Errorf("target pose = %v, want %q", got, "mountain")
	}
	held, _ := statusResp.Status["held"].(float64)
	if held < 0.29 {
		t.Errorf("held = %v, want about 0.3", held)
	}
}

func TestE2E_ResetClearsProgress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{Store: s})
	application.SetDetector(detector.NewMockDetector())

	srv := server.New(server.Config{Store: s, Experiments: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	body, err := testdata.LoadBody("yoga-mountain")
	if err != nil {
		t.Fatalf("LoadBody: %v", err)
	}
	det := detector.Detection{Bodies: []detector.BodyLandmarks{body}}
	application.ProcessDetection(det, 0.5)

	resp, err := client.Post(ts.URL+"/api/experiments/yoga/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("reset error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var statusResp struct {
		Status map[string]any `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		t.Fatalf("decode error = %v", err)
	}

	held, _ := statusResp.Status["held"].(float64)
	if held != 0 {
		t.Errorf("held after reset = %v, want 0", held)
	}
	if got := statusResp.Status["current"]; got != "" {
		t.Errorf("current after reset = %v, want empty", got)
	}
}
