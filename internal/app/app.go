// Package app wires the playground together: camera capture, motion
// gating, landmark detection, experiment updates, session recording, and
// event plugins.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/limber/internal/capture"
	"github.com/ayusman/limber/internal/detector"
	"github.com/ayusman/limber/internal/experiment"
	"github.com/ayusman/limber/internal/plugin"
	"github.com/ayusman/limber/internal/server"
	"github.com/ayusman/limber/internal/server/api"
	"github.com/ayusman/limber/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while nobody is moving in front of the
	// camera.
	IdleFPS = 5
	// ActiveFPS is the frame rate while an experiment is being played.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping back to
	// the idle rate.
	IdleTimeout = 2 * time.Second
	// PluginTimeout bounds a single plugin invocation.
	PluginTimeout = 5 * time.Second
)

// DefaultExperiment is the experiment selected at startup.
const DefaultExperiment = "yoga"

// Config holds the application configuration.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
}

// App orchestrates the frame pipeline and implements the experiment
// controller surface used by the API.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	registry   *experiment.Registry
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	hub        *server.Hub

	loopWG     sync.WaitGroup
	dispatchWG sync.WaitGroup

	mu       sync.RWMutex
	detector detector.Detector
	enabled  bool
	active   string
	stopCh   chan struct{}

	session *recording
}

var _ api.ExperimentController = (*App)(nil)

// New creates an App with the given configuration.
func New(config Config) *App {
	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(config.MotionThresh),
		registry:   experiment.NewRegistry(),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(PluginTimeout),
		hub:        server.NewHub(),
		active:     DefaultExperiment,
	}
	a.session = a.newRecording(DefaultExperiment)

	// Prefer the real landmarker, fall back to the mock so the rest of
	// the app still runs without the Python side installed.
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe landmark detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables frame processing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether frame processing is enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector replaces the landmark detector implementation.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// DiscoverPlugins scans the plugin directory.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Names implements api.ExperimentController.
func (a *App) Names() []string {
	return a.registry.Names()
}

// Active implements api.ExperimentController.
func (a *App) Active() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.active
}

// Activate switches the active experiment. The previous experiment's
// session is finalized, the new experiment is reset, and a fresh session
// recording begins.
func (a *App) Activate(name string) error {
	exp := a.registry.Get(name)
	if exp == nil {
		return fmt.Errorf("%w: %s", api.ErrUnknownExperiment, name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active == name {
		return nil
	}

	a.finalizeSessionLocked(false)
	a.active = name
	exp.Reset()
	a.session = a.newRecording(name)
	return nil
}

// Status implements api.ExperimentController.
func (a *App) Status(name string) (map[string]any, error) {
	exp := a.registry.Get(name)
	if exp == nil {
		return nil, fmt.Errorf("%w: %s", api.ErrUnknownExperiment, name)
	}
	return exp.Status(), nil
}

// Reset restarts the named experiment. Resetting the active experiment
// also restarts its session recording.
func (a *App) Reset(name string) error {
	exp := a.registry.Get(name)
	if exp == nil {
		return fmt.Errorf("%w: %s", api.ErrUnknownExperiment, name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	exp.Reset()
	if name == a.active {
		a.finalizeSessionLocked(false)
		a.session = a.newRecording(name)
	}
	return nil
}

// Start opens the camera and begins the frame pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	a.loopWG.Add(1)
	go func(stopCh chan struct{}) {
		defer a.loopWG.Done()
		a.runPipeline(stopCh)
	}(a.stopCh)

	log.Println("Frame pipeline started")
	return nil
}

// Stop halts the pipeline, drains in-flight plugin dispatches, and
// releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()

	// The pipeline goroutine must exit before the dispatch wait: it is
	// the only thing still able to start new dispatches.
	a.loopWG.Wait()
	a.dispatchWG.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.finalizeSessionLocked(false)

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Frame pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Registry returns the experiment registry.
func (a *App) Registry() *experiment.Registry {
	return a.registry
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Hub returns the WebSocket broadcast hub.
func (a *App) Hub() *server.Hub {
	return a.hub
}

// Detector returns the landmark detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
