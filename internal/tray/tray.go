// Package tray provides the system tray interface for the playground.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu: a processing toggle, the current
// experiment display, and shortcuts to the browser UI.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	menuToggle     *systray.MenuItem
	menuExperiment *systray.MenuItem
}

// New creates a Tray with processing enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when processing is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback invoked when "Open Playground" is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. Blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Limber")
	systray.SetTooltip("Limber Movement Playground")

	t.menuToggle = systray.AddMenuItem("● Camera On", "Toggle camera processing")
	systray.AddSeparator()

	t.menuExperiment = systray.AddMenuItem("Experiment: none", "Active experiment")
	t.menuExperiment.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Playground...", "Open the playground in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Limber")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Camera On")
	} else {
		t.menuToggle.SetTitle("○ Camera Off")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Run the callback outside the lock to prevent deadlocks.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetExperiment updates the active experiment display in the menu.
func (t *Tray) SetExperiment(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuExperiment != nil {
		if name == "" {
			t.menuExperiment.SetTitle("Experiment: none")
		} else {
			t.menuExperiment.SetTitle("Experiment: " + name)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
