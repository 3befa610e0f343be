package httpapi

import (
	"net/http"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

// Envelope is the fixed response shape the web panel expects on every
// endpoint, success or failure.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func Ok(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func Fail(message string, errors map[string]string) Envelope {
	return Envelope{Success: false, Message: message, Errors: errors}
}

// statusFor maps a failure class to its HTTP status code.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a service failure through the envelope. Persistence
// causes keep their message verbatim.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	message := err.Error()
	if de, ok := err.(*domain.Error); ok {
		message = de.Message
		if kind == domain.KindPersistence {
			message = de.Error()
		}
	}
	writeJSON(w, statusFor(kind), Fail(message, domain.FieldsOf(err)))
}
