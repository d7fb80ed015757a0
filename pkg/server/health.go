package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/folioworks/vitae/pkg/httpapi"
)

type healthController struct{}

// NewHealthController exposes a liveness probe at /health.
func NewHealthController() Controller {
	return &healthController{}
}

func (c *healthController) Key() string {
	return "/health"
}

func (c *healthController) Register(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
}
