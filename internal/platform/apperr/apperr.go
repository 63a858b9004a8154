package apperr

import (
	"errors"
	"fmt"
)

// Tipos de error compartidos por todos los módulos.
// Los handlers traducen estos sentinels a códigos HTTP (ver httpapi.WriteError).
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotAllowed   = errors.New("method not allowed")
)

// Error lleva un código estable y un mensaje legible.
// Kind es siempre uno de los sentinels de arriba.
type Error struct {
	Kind    error
	Code    string
	Field   string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "error"
}

func (e *Error) Unwrap() error { return e.Kind }

func Invalid(code, msg string) error {
	return &Error{Kind: ErrInvalidInput, Code: code, Message: msg}
}

func InvalidField(field, code, msg string) error {
	return &Error{Kind: ErrInvalidInput, Code: code, Field: field, Message: msg}
}

// InvalidFields agrupa varios errores de validación (uno por campo).
func InvalidFields(fields map[string]string) error {
	return &Error{Kind: ErrInvalidInput, Code: "validation_error", Message: "invalid input", Fields: fields}
}

func NotFound(what string) error {
	return &Error{Kind: ErrNotFound, Code: "not_found", Message: what + " not found"}
}

func Conflict(code, msg string) error {
	return &Error{Kind: ErrConflict, Code: code, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Code: "forbidden", Message: msg}
}

func NotAllowed(msg string) error {
	return &Error{Kind: ErrNotAllowed, Code: "method_not_allowed", Message: msg}
}

// Wrapf conserva el kind y agrega contexto (útil en adapters).
func Wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// As devuelve el *Error si err (o algo que envuelve) lo es.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
