package app

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/limber/internal/classify"
	"github.com/ayusman/limber/internal/detector"
	"github.com/ayusman/limber/internal/experiment"
	"github.com/ayusman/limber/internal/plugin"
	"github.com/ayusman/limber/internal/server"
	"github.com/ayusman/limber/internal/store"
)

// Event kinds that end a session recording.
var completionEvents = map[string]bool{
	experiment.EventFlowComplete:    true,
	experiment.EventChartComplete:   true,
	experiment.EventSessionComplete: true,
}

// recording accumulates one experiment run until it is written out.
type recording struct {
	id        string
	name      string
	startedAt time.Time
	elapsed   float64
	events    []*store.SessionEvent
}

func (a *App) newRecording(name string) *recording {
	return &recording{
		id:        uuid.NewString(),
		name:      name,
		startedAt: time.Now(),
	}
}

// runPipeline is the frame loop. It starts at the idle rate, jumps to the
// active rate while motion is seen, and drops back after IdleTimeout of
// stillness. Active frames run landmark detection, classification, the
// active experiment, and the WebSocket broadcast.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()
	lastFrameTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					lastFrameTime = time.Now()
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotionTime) > IdleTimeout {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				frameInterval = time.Second / time.Duration(IdleFPS)
				ticker.Reset(frameInterval)
				log.Println("Switched to idle mode")
			}

			if !activeMode {
				frame.Close()
				continue
			}

			detection, err := a.Detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting landmarks: %v", err)
				continue
			}

			now := time.Now()
			dt := now.Sub(lastFrameTime).Seconds()
			lastFrameTime = now

			a.processFrame(detection.Bodies, detection.Face, dt)
		}
	}
}

// ProcessDetection feeds a detection result into the active experiment as
// if the camera pipeline had produced it. The normal path goes through
// runPipeline; this entry point exists for replaying recorded detections.
func (a *App) ProcessDetection(det detector.Detection, dt float64) {
	a.processFrame(det.Bodies, det.Face, dt)
}

// processFrame runs one detection result through classification, the
// active experiment, session recording, and the broadcast hub.
func (a *App) processFrame(bodies []detector.BodyLandmarks, face *detector.FaceLandmarks, dt float64) {
	frame := experiment.Frame{Bodies: bodies, Face: face, DT: dt}

	a.mu.Lock()
	name := a.active
	exp := a.registry.Get(name)
	rec := a.session
	rec.elapsed += dt

	events := exp.Update(frame)
	for _, ev := range events {
		rec.events = append(rec.events, &store.SessionEvent{
			Kind:   ev.Kind,
			At:     rec.elapsed,
			Detail: ev.Detail,
		})
	}

	status := exp.Status()

	completed := false
	for _, ev := range events {
		if completionEvents[ev.Kind] {
			completed = true
		}
	}
	if completed {
		a.finalizeSessionLocked(true)
		a.session = a.newRecording(name)
	}
	a.mu.Unlock()

	update := server.FrameUpdate{
		Bodies:     bodies,
		Face:       face,
		Experiment: name,
		Status:     status,
		Events:     events,
		Timestamp:  time.Now().UnixMilli(),
	}
	if len(bodies) > 0 {
		world := bodies[0].WorldPoints()
		update.BodyStates = classify.ClassifyBodyParts(world)
		update.Pose = classify.YogaPose(world)
	}
	a.hub.Publish(update)

	for _, ev := range events {
		a.dispatchWG.Add(1)
		go func(ev experiment.Event) {
			defer a.dispatchWG.Done()
			a.dispatchEvent(name, ev)
		}(ev)
	}
}

// finalizeSessionLocked writes the current recording to the store. Runs
// with a.mu held. Recordings with no events are dropped silently.
func (a *App) finalizeSessionLocked(completed bool) {
	rec := a.session
	if rec == nil || a.config.Store == nil || len(rec.events) == 0 {
		return
	}

	sess := &store.Session{
		ID:         rec.id,
		Experiment: rec.name,
		StartedAt:  rec.startedAt,
		EndedAt:    time.Now(),
		Duration:   rec.elapsed,
		Completed:  completed,
	}
	if exp := a.registry.Get(rec.name); exp != nil {
		status := exp.Status()
		sess.Score = scoreFromStatus(status)
		sess.Detail = status
	}

	if err := a.config.Store.Sessions().Create(sess); err != nil {
		log.Printf("Failed to record session: %v", err)
		return
	}
	for _, ev := range rec.events {
		if err := a.config.Store.Sessions().AddEvent(sess.ID, ev); err != nil {
			log.Printf("Failed to record session event: %v", err)
		}
	}

	// A recording is written at most once.
	rec.events = nil
}

// scoreFromStatus pulls a headline number out of an experiment status:
// game score, session peak, or pose accuracy, whichever the experiment
// reports.
func scoreFromStatus(status map[string]any) float64 {
	for _, key := range []string{"score", "peak", "accuracy"} {
		switch v := status[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return 0
}

// dispatchEvent fans one experiment event out to the subscribed plugins.
func (a *App) dispatchEvent(experimentName string, ev experiment.Event) {
	handlers := a.pluginMgr.HandlersFor(ev.Kind)
	if len(handlers) == 0 {
		return
	}

	var detail json.RawMessage
	if ev.Detail != nil {
		if raw, err := json.Marshal(ev.Detail); err == nil {
			detail = raw
		}
	}

	req := &plugin.Request{
		Event:      ev.Kind,
		Experiment: experimentName,
		Detail:     detail,
	}

	for _, p := range handlers {
		resp, err := a.pluginExec.Execute(p, req)
		if err != nil {
			log.Printf("Plugin %s failed for %s: %v", p.Manifest.Name, ev.Kind, err)
			continue
		}
		if !resp.Success {
			log.Printf("Plugin %s rejected %s: %s", p.Manifest.Name, ev.Kind, resp.Error)
		}
	}
}
