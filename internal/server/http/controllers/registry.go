package controllers

import (
	"net/http"

	"github.com/rzbill/ralphmc/internal/runtime"
	tailsvc "github.com/rzbill/ralphmc/internal/services/tail"
	logpkg "github.com/rzbill/ralphmc/pkg/log"
)

// ControllerRegistry wires every controller to a mux in one place.
type ControllerRegistry struct {
	general *GeneralController
	logs    *LogsController
}

// NewControllerRegistry creates the controllers for one server instance.
func NewControllerRegistry(rt *runtime.Runtime, tail *tailsvc.Service, logger logpkg.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt),
		logs:    NewLogsController(rt, tail, logger),
	}
}

// RegisterAllRoutes registers every controller's routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.logs.RegisterRoutes(mux)
}
