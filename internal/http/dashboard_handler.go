package httpapi

import (
	"net/http"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/service"
)

// DashboardHandler serves the aggregate panel snapshot.
type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, domain.NewMethodNotAllowed())
		return
	}

	stats, err := h.svc.GetStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok("ok", stats))
}
