package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/auth"
	"github.com/H0M10/NovaGuardianBackend/internal/config"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "request_id"
)

// PrincipalFrom returns the authenticated identity attached by the access
// gate, or nil on exempt routes.
func PrincipalFrom(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(principalKey).(*auth.Principal)
	return p
}

// RequestIDFrom returns the request correlation id.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestID tags every request with a correlation id, echoed in the
// X-Request-ID response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// CORS applies the configured cross-origin policy and answers preflights.
func CORS(cfg config.CORSConfig, next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAgeSeconds)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.Header().Set("Access-Control-Allow-Headers", headers)
		if exposed != "" {
			w.Header().Set("Access-Control-Expose-Headers", exposed)
		}
		w.Header().Set("Access-Control-Max-Age", maxAge)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccessGate rejects requests without a valid bearer token. Preflights,
// health probes and the login endpoint pass through.
type AccessGate struct {
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewAccessGate(tokens *auth.TokenService, logger *zap.Logger) *AccessGate {
	return &AccessGate{tokens: tokens, logger: logger}
}

func (g *AccessGate) exempt(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch path {
	case "", "/api", "/health":
		return true
	case "/api/auth", "/api/login":
		return r.Method == http.MethodPost
	}
	return false
}

func (g *AccessGate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, Fail("authorization token required", nil))
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, Fail("invalid authorization format", nil))
			return
		}

		principal, err := g.tokens.Verify(token)
		if err != nil {
			message := "invalid token"
			if err == auth.ErrTokenExpired {
				message = "token expired"
			}
			g.logger.Debug("Token rejected",
				zap.String("path", r.URL.Path),
				zap.String("request_id", RequestIDFrom(r.Context())),
				zap.Error(err),
			)
			writeJSON(w, http.StatusUnauthorized, Fail(message, nil))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, principal)))
	})
}
