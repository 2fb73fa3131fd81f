package controllers

import (
	"net/http"

	"github.com/rzbill/ralphmc/internal/runtime"
)

// GeneralController serves the non-domain routes, currently just health.
type GeneralController struct {
	rt *runtime.Runtime
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime) *GeneralController {
	return &GeneralController{rt: rt}
}

// RegisterRoutes registers the general routes with the given mux.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", c.handleHealth)
}

// handleHealth reports liveness. A missing log directory is not an error;
// the run loop may simply not have started yet, so it is surfaced as a flag.
// GET /healthz
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not serving")
		return
	}
	writeJSON(w, healthJSON{Status: "ok", LogDirPresent: c.rt.LogDirPresent()})
}
