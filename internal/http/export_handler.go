package httpapi

import (
	"fmt"
	"net/http"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/service"
)

// ExportHandler streams a generated spreadsheet of a user's events.
type ExportHandler struct {
	svc service.ExportService
}

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, domain.NewMethodNotAllowed())
		return
	}

	q := r.URL.Query()
	userID, _ := parseInt64(q.Get("user_id"))
	file, err := h.svc.ExportEvents(r.Context(), service.ExportRequest{
		UserID:    userID,
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Format:    q.Get("format"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(file.Content)))
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
