package httpapi

import (
	"net/http"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/service"
)

// AuthHandler login and current-session endpoints.
type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeHTTP POST = login, GET = current admin.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.login(w, r)
	case http.MethodGet:
		h.current(w, r)
	default:
		writeError(w, domain.NewMethodNotAllowed())
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := readBodyJSON(r, &body); err != nil {
		writeError(w, domain.NewFieldValidation("body", "invalid JSON body"))
		return
	}

	resp, err := h.svc.Login(r.Context(), service.LoginRequest{
		Email:     body.Email,
		Password:  body.Password,
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok("login successful", map[string]any{
		"token": resp.Token,
		"admin": resp.Admin,
	}))
}

func (h *AuthHandler) current(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFrom(r.Context())
	if principal == nil {
		writeJSON(w, http.StatusUnauthorized, Fail("authorization token required", nil))
		return
	}

	admin, err := h.svc.CurrentAdmin(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok("ok", admin.ToJSON()))
}
