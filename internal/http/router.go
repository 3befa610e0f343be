package httpapi

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

// Router dispatches the panel API on the standard library ServeMux. Paths
// with an id segment are trimmed by prefix and forwarded to the item
// handlers.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	r.mux.ServeHTTP(w, req)
	r.logger.Debug("Request handled",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", RequestIDFrom(req.Context())),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Devices   *DeviceHandler
	Events    *EventHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
}

// Register mounts all panel routes.
func (r *Router) Register(h *Handlers) {
	r.mux.HandleFunc("/health", healthCheck)
	r.mux.HandleFunc("/api", healthCheck)
	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			writeJSON(w, http.StatusNotFound, Fail("route not found", nil))
			return
		}
		healthCheck(w, req)
	})

	r.mux.Handle("/api/auth", h.Auth)
	r.mux.Handle("/api/login", h.Auth)

	r.mux.HandleFunc("/api/users", h.Users.Collection)
	r.mux.HandleFunc("/api/users/", itemRoute("/api/users/", h.Users.Item))

	r.mux.HandleFunc("/api/devices", h.Devices.Collection)
	r.mux.HandleFunc("/api/devices/", itemRoute("/api/devices/", h.Devices.Item))

	r.mux.HandleFunc("/api/events", h.Events.Collection)
	r.mux.HandleFunc("/api/events/", itemRoute("/api/events/", h.Events.Item))

	r.mux.Handle("/api/dashboard", h.Dashboard)
	r.mux.Handle("/api/export", h.Export)
}

// itemRoute extracts the trailing id segment and forwards it. Nested paths
// are rejected.
func itemRoute(prefix string, item func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, prefix)
		if id == "" || strings.Contains(id, "/") {
			writeJSON(w, http.StatusNotFound, Fail("route not found", nil))
			return
		}
		item(w, req, id)
	}
}

func healthCheck(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, domain.NewMethodNotAllowed())
		return
	}
	writeJSON(w, http.StatusOK, Ok("NovaGuardian API", map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	}))
}
