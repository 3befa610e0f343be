package httpapi

import (
	"net/http"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/service"
)

// UserHandler CRUD over monitored users, dispatched on /api/users[/{id}].
type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type userBody struct {
	FullName                  string  `json:"full_name"`
	Email                     *string `json:"email"`
	Phone                     *string `json:"phone"`
	BirthDate                 *string `json:"birth_date"`
	EmergencyContact1Name     *string `json:"emergency_contact_1_name"`
	EmergencyContact1Phone    *string `json:"emergency_contact_1_phone"`
	EmergencyContact1Relation *string `json:"emergency_contact_1_relation"`
	EmergencyContact2Name     *string `json:"emergency_contact_2_name"`
	EmergencyContact2Phone    *string `json:"emergency_contact_2_phone"`
	EmergencyContact2Relation *string `json:"emergency_contact_2_relation"`
	MedicalConditions         *string `json:"medical_conditions"`
	Status                    string  `json:"status"`
}

func (b userBody) toRequest() service.UserParamsRequest {
	return service.UserParamsRequest{
		FullName:                  b.FullName,
		Email:                     b.Email,
		Phone:                     b.Phone,
		BirthDate:                 b.BirthDate,
		EmergencyContact1Name:     b.EmergencyContact1Name,
		EmergencyContact1Phone:    b.EmergencyContact1Phone,
		EmergencyContact1Relation: b.EmergencyContact1Relation,
		EmergencyContact2Name:     b.EmergencyContact2Name,
		EmergencyContact2Phone:    b.EmergencyContact2Phone,
		EmergencyContact2Relation: b.EmergencyContact2Relation,
		MedicalConditions:         b.MedicalConditions,
		Status:                    b.Status,
	}
}

// Collection handles /api/users (list, create).
func (h *UserHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		users, err := h.svc.ListUsers(r.Context(), service.ListUsersRequest{
			Search: q.Get("search"),
			Limit:  parseInt(q.Get("limit"), 0),
			Offset: parseInt(q.Get("offset"), 0),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("ok", usersPayload(users)))
	case http.MethodPost:
		var body userBody
		if err := readBodyJSON(r, &body); err != nil {
			writeError(w, domain.NewFieldValidation("body", "invalid JSON body"))
			return
		}
		user, err := h.svc.CreateUser(r.Context(), body.toRequest())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok("user created", user.ToJSON()))
	default:
		writeError(w, domain.NewMethodNotAllowed())
	}
}

// Item handles /api/users/{id} (get, update, delete).
func (h *UserHandler) Item(w http.ResponseWriter, r *http.Request, rawID string) {
	id, ok := parseInt64(rawID)
	if !ok {
		writeError(w, domain.NewFieldValidation("id", "invalid user id"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := h.svc.GetUser(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("ok", user.ToJSON()))
	case http.MethodPut:
		var body userBody
		if err := readBodyJSON(r, &body); err != nil {
			writeError(w, domain.NewFieldValidation("body", "invalid JSON body"))
			return
		}
		user, err := h.svc.UpdateUser(r.Context(), id, body.toRequest())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("user updated", user.ToJSON()))
	case http.MethodDelete:
		if err := h.svc.DeleteUser(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("user deleted", nil))
	default:
		writeError(w, domain.NewMethodNotAllowed())
	}
}

func usersPayload(users []*domain.User) []map[string]any {
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToJSON())
	}
	return out
}
