package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"dairy-farm-management/internal/platform/apperr"
	"dairy-farm-management/internal/platform/validation"
)

// maxBody limita el cuerpo de los requests JSON.
const maxBody = 1 << 20

// WriteJSON escribe v como JSON con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Detail escribe {"detail": msg}.
func Detail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"detail": msg})
}

type errorBody struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code,omitempty"`
	Field  string            `json:"field,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// WriteError traduce errores de dominio a HTTP.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusOf(err)

	body := errorBody{Detail: err.Error()}
	if e, ok := apperr.As(err); ok {
		body.Code = e.Code
		body.Field = e.Field
		body.Errors = e.Fields
	}
	if status == http.StatusInternalServerError {
		body = errorBody{Detail: "internal error"}
	}

	WriteJSON(w, status, body)
}

func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Decode lee JSON estricto y corre las reglas `validate:"..."` del DTO.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Invalid("invalid_json", "invalid json")
	}
	return validation.Struct(dst)
}

// MethodNotAllowed para operaciones que el recurso no soporta (p.ej. update de culling).
func MethodNotAllowed(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, apperr.NotAllowed(msg))
	}
}
