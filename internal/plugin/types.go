// Package plugin provides discovery and execution of external event
// plugins: small executables that react to experiment events, such as a
// desktop notifier or a score logger.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and the event kinds it handles.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Events       []string        `json:"events"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request is what a plugin receives on stdin: the event that fired and
// the experiment it came from.
type Request struct {
	Event      string          `json:"event"`
	Experiment string          `json:"experiment"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	Config     json.RawMessage `json:"config,omitempty"`
}

// Response is what a plugin writes to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the plugin subscribes to the given event kind.
// An empty events list means every event.
func (p *Plugin) Handles(event string) bool {
	if len(p.Manifest.Events) == 0 {
		return true
	}
	for _, e := range p.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
