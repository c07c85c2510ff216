package api

import (
	"errors"
	"net/http"
	"strings"
)

// ErrUnknownExperiment is returned by an ExperimentController when the
// named experiment does not exist.
var ErrUnknownExperiment = errors.New("unknown experiment")

// ExperimentController is the pipeline surface the API needs: listing
// experiments, switching the active one, and reading status. The pipeline
// implements it; tests substitute a fake.
type ExperimentController interface {
	Names() []string
	Active() string
	Activate(name string) error
	Status(name string) (map[string]any, error)
	Reset(name string) error
}

// ExperimentsHandler handles HTTP requests for experiments.
type ExperimentsHandler struct {
	ctrl ExperimentController
}

// NewExperimentsHandler creates an ExperimentsHandler over the controller.
func NewExperimentsHandler(ctrl ExperimentController) *ExperimentsHandler {
	return &ExperimentsHandler{ctrl: ctrl}
}

type listExperimentsResponse struct {
	Experiments []string `json:"experiments"`
	Active      string   `json:"active"`
}

type experimentStatusResponse struct {
	Name   string         `json:"name"`
	Active bool           `json:"active"`
	Status map[string]any `json:"status"`
}

// ServeHTTP routes experiment requests.
// Paths: /api/experiments, /api/experiments/{name},
// /api/experiments/{name}/activate, /api/experiments/{name}/reset
func (h *ExperimentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/experiments")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, listExperimentsResponse{
			Experiments: h.ctrl.Names(),
			Active:      h.ctrl.Active(),
		})
		return
	}

	if name, ok := strings.CutSuffix(path, "/activate"); ok {
		h.post(w, r, name, h.ctrl.Activate)
		return
	}
	if name, ok := strings.CutSuffix(path, "/reset"); ok {
		h.post(w, r, name, h.ctrl.Reset)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.status(w, r, path)
}

// post runs an action (activate, reset) against a named experiment.
func (h *ExperimentsHandler) post(w http.ResponseWriter, r *http.Request, name string, action func(string) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := action(name); err != nil {
		if errors.Is(err, ErrUnknownExperiment) {
			writeError(w, http.StatusNotFound, "Experiment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Experiment action failed")
		return
	}

	h.status(w, r, name)
}

// status handles GET /api/experiments/{name}.
func (h *ExperimentsHandler) status(w http.ResponseWriter, r *http.Request, name string) {
	status, err := h.ctrl.Status(name)
	if err != nil {
		if errors.Is(err, ErrUnknownExperiment) {
			writeError(w, http.StatusNotFound, "Experiment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get status")
		return
	}

	writeJSON(w, http.StatusOK, experimentStatusResponse{
		Name:   name,
		Active: h.ctrl.Active() == name,
		Status: status,
	})
}
