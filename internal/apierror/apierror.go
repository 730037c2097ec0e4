// Package apierror holds the JSON envelopes of failed responses. Every 4xx
// and 5xx body carries a human readable detail; validation failures add the
// offending fields.
package apierror

// Fixed details the console recognises verbatim.
const (
	DetalleNoAutenticado = "Not authenticated"
	DetalleInterno       = "Error interno del servidor"
	DetalleValidacion    = "Error de validacion"
	DetalleVacio         = "Nada que actualizar"
)

type APIError struct {
	Detail string `json:"detail"`
}

func New(detail string) *APIError {
	return &APIError{Detail: detail}
}

// JSONInvalido reports a body that could not be decoded.
func JSONInvalido(err error) *APIError {
	return &APIError{Detail: "JSON invalido: " + err.Error()}
}

// ValidationError maps field names to the rule each one broke.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: DetalleValidacion, Fields: fields}
}
