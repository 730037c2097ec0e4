package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearRecaudacionRequest struct {
	SalonID           int64  `json:"salon_id"           validate:"required,gt=0"`
	FechaInicio       Fecha  `json:"fecha_inicio"       validate:"required"`
	FechaFin          Fecha  `json:"fecha_fin"          validate:"required"`
	FechaCierre       Fecha  `json:"fecha_cierre"       validate:"required"`
	Etiqueta          string `json:"etiqueta"           validate:"max=120"`
	Origen            string `json:"origen"             validate:"omitempty,oneof=manual importacion"`
	ReferenciaFichero string `json:"referencia_fichero" validate:"max=255"`
	Notas             string `json:"notas"`
}

// ActualizarRecaudacionRequest is a partial update: only members present in
// the body are applied. TotalTasas accepts an explicit null to clear the
// fee override.
type ActualizarRecaudacionRequest struct {
	FechaInicio    *Fecha                 `json:"fecha_inicio,omitempty"`
	FechaFin       *Fecha                 `json:"fecha_fin,omitempty"`
	FechaCierre    *Fecha                 `json:"fecha_cierre,omitempty"`
	Etiqueta       *string                `json:"etiqueta,omitempty"   validate:"omitempty,max=120"`
	Notas          *string                `json:"notas,omitempty"`
	TotalTasas     Campo[decimal.Decimal] `json:"total_tasas,omitzero"`
	Depositos      *decimal.Decimal       `json:"depositos,omitempty"`
	OtrosConceptos *decimal.Decimal       `json:"otros_conceptos,omitempty"`
}

// ActualizarDetalleRequest carries the manually editable columns of a row.
type ActualizarDetalleRequest struct {
	RetiradaEfectivo *decimal.Decimal `json:"retirada_efectivo,omitempty"`
	Cajon            *decimal.Decimal `json:"cajon,omitempty"`
	PagoManual       *decimal.Decimal `json:"pago_manual,omitempty"`
	TasaAjuste       *decimal.Decimal `json:"tasa_ajuste,omitempty"`
	DetalleTasa      *string          `json:"detalle_tasa,omitempty" validate:"omitempty,max=255"`
}

func (r ActualizarDetalleRequest) Vacio() bool {
	return r.RetiradaEfectivo == nil && r.Cajon == nil && r.PagoManual == nil &&
		r.TasaAjuste == nil && r.DetalleTasa == nil
}

type ListarRecaudacionesFilter struct {
	SalonID *int64 `form:"salon_id"`
	Skip    int    `form:"skip"`
	Limit   int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SalonResumen struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

type TipoMaquinaResumen struct {
	ID          int64  `json:"id"`
	Nombre      string `json:"nombre"`
	NombreCorto string `json:"nombre_corto,omitempty"`
}

type MaquinaResumen struct {
	ID          int64               `json:"id"`
	Nombre      string              `json:"nombre"`
	NumeroSerie string              `json:"numero_serie,omitempty"`
	TipoMaquina *TipoMaquinaResumen `json:"tipo_maquina,omitempty"`
}

type PuestoResumen struct {
	ID           int64  `json:"id"`
	NumeroPuesto int    `json:"numero_puesto"`
	Descripcion  string `json:"descripcion,omitempty"`
}

type DetalleResponse struct {
	ID               int64           `json:"id"`
	RecaudacionID    int64           `json:"recaudacion_id"`
	MaquinaID        int64           `json:"maquina_id"`
	PuestoID         *int64          `json:"puesto_id"`
	RetiradaEfectivo decimal.Decimal `json:"retirada_efectivo"`
	Cajon            decimal.Decimal `json:"cajon"`
	PagoManual       decimal.Decimal `json:"pago_manual"`
	TasaCalculada    decimal.Decimal `json:"tasa_calculada"`
	TasaAjuste       decimal.Decimal `json:"tasa_ajuste"`
	TasaFinal        decimal.Decimal `json:"tasa_final"`
	DetalleTasa      string          `json:"detalle_tasa"`
	Maquina          *MaquinaResumen `json:"maquina,omitempty"`
	Puesto           *PuestoResumen  `json:"puesto,omitempty"`
}

type FicheroResponse struct {
	ID            int64     `json:"id"`
	RecaudacionID int64     `json:"recaudacion_id"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

type RecaudacionResponse struct {
	ID                int64             `json:"id"`
	SalonID           int64             `json:"salon_id"`
	FechaInicio       Fecha             `json:"fecha_inicio"`
	FechaFin          Fecha             `json:"fecha_fin"`
	FechaCierre       Fecha             `json:"fecha_cierre"`
	Etiqueta          string            `json:"etiqueta"`
	Origen            string            `json:"origen"`
	ReferenciaFichero string            `json:"referencia_fichero"`
	Notas             string            `json:"notas"`
	TotalTasas        *decimal.Decimal  `json:"total_tasas"`
	Depositos         decimal.Decimal   `json:"depositos"`
	OtrosConceptos    decimal.Decimal   `json:"otros_conceptos"`
	Detalles          []DetalleResponse `json:"detalles"`
	Ficheros          []FicheroResponse `json:"ficheros"`
	Salon             *SalonResumen     `json:"salon,omitempty"`
}

type RecaudacionSummary struct {
	ID             int64            `json:"id"`
	SalonID        int64            `json:"salon_id"`
	FechaInicio    Fecha            `json:"fecha_inicio"`
	FechaFin       Fecha            `json:"fecha_fin"`
	FechaCierre    Fecha            `json:"fecha_cierre"`
	Etiqueta       string           `json:"etiqueta"`
	Origen         string           `json:"origen"`
	TotalTasas     *decimal.Decimal `json:"total_tasas"`
	Depositos      decimal.Decimal  `json:"depositos"`
	OtrosConceptos decimal.Decimal  `json:"otros_conceptos"`
	TotalNeto      decimal.Decimal  `json:"total_neto"`
	Salon          *SalonResumen    `json:"salon,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
