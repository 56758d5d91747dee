// Package apierror provides standardized error response structures for the
// API, plus the domain error taxonomy shared by the service layer. All errors
// returned to clients go through this package to ensure consistency and to
// prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel domain errors. Services wrap these with %w and context; handlers
// map them to HTTP statuses with Status().
var (
	// ErrValidacion: bad input, rejected before any write. Recoverable by
	// correcting the request.
	ErrValidacion = errors.New("datos invalidos")
	// ErrNoPermitido: guard violation (wrong role, wrong current state, or
	// claim not held). No partial state change.
	ErrNoPermitido = errors.New("operacion no permitida en este momento")
	// ErrEstadoObsoleto: the persisted state advanced past what the caller
	// observed; the transition was refused rather than silently overwriting.
	ErrEstadoObsoleto = errors.New("el estado de la requisicion cambio, recargue e intente de nuevo")
	// ErrConflicto: a retryable transaction failure (folio race) that
	// exhausted its retry budget. No side effects were committed.
	ErrConflicto = errors.New("conflicto de concurrencia, intente nuevamente")
	// ErrNoEncontrado: the record does not exist after a real store fetch.
	ErrNoEncontrado = errors.New("requisicion no encontrada")
)

// Status maps a domain error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidacion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoPermitido), errors.Is(err, ErrEstadoObsoleto):
		return http.StatusConflict
	case errors.Is(err, ErrConflicto):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNoEncontrado):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// New wraps a sentinel with a human-readable detail, preserving errors.Is.
func New(sentinel error, detail string) error {
	return fmt.Errorf("%w: %s", sentinel, detail)
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func Envelope(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
