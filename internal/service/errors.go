package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kinds of service failures. Handlers map them to HTTP statuses.
var (
	ErrNoEncontrado  = errors.New("no encontrado")
	ErrSinPermiso    = errors.New("permisos insuficientes")
	ErrInvalido      = errors.New("solicitud invalida")
	ErrNoAutenticado = errors.New("no autenticado")
)

// Error pairs a kind with the message shown to the client. Fields, when
// set, lists offending request fields.
type Error struct {
	Kind   error
	Detail string
	Fields map[string]string
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Kind }

func noEncontrado(format string, args ...any) error {
	return &Error{Kind: ErrNoEncontrado, Detail: fmt.Sprintf(format, args...)}
}

func sinPermiso() error {
	return &Error{Kind: ErrSinPermiso, Detail: "Not enough permissions"}
}

func invalido(format string, args ...any) error {
	return &Error{Kind: ErrInvalido, Detail: fmt.Sprintf(format, args...)}
}

func camposInvalidos(fields map[string]string) error {
	return &Error{Kind: ErrInvalido, Detail: "Error de validacion", Fields: fields}
}

// comoNoEncontrado turns gorm.ErrRecordNotFound into a not-found error and
// passes anything else through.
func comoNoEncontrado(err error, detail string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: ErrNoEncontrado, Detail: detail}
	}
	return err
}
