package recaudacion

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotLoaded       = errors.New("recaudacion: no hay ninguna recaudacion cargada")
	ErrNoDispatcher    = errors.New("recaudacion: guardado asincrono no configurado")
	ErrAnalysisFailure = errors.New("recaudacion: no se pudo analizar el fichero")
	ErrImportFailure   = errors.New("recaudacion: no se pudo importar el fichero")
	// ErrReloadAfterImport means the import was stored but the record could
	// not be read back; the local copy is stale.
	ErrReloadAfterImport = errors.New("recaudacion: importado, pero no se pudo recargar")
	ErrInvalidState      = errors.New("recaudacion: operacion no valida en el estado actual")
	ErrUnknownName       = errors.New("recaudacion: nombre no presente en el analisis")
	ErrUnknownSeat       = errors.New("recaudacion: puesto desconocido")
	ErrSeatTaken         = errors.New("recaudacion: puesto ya asignado a otro nombre")
	ErrConfirmation      = errors.New("recaudacion: frase de confirmacion incorrecta")
	ErrCancelled         = errors.New("recaudacion: operacion cancelada")
	ErrInvalidRecord     = errors.New("recaudacion: datos invalidos")
)

// ValidationError lists the offending fields of a record before it is sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s (%s)", k, e.Fields[k]))
	}
	return "recaudacion: datos invalidos: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRecord }
