package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PaginaFilter struct {
	Skip  int `form:"skip"  validate:"gte=0"`
	Limit int `form:"limit" validate:"gte=0,lte=500"`
}

type CrearSalonRequest struct {
	Nombre    string `json:"nombre"    validate:"required,max=120"`
	Direccion string `json:"direccion" validate:"max=255"`
}

// ActualizarSalonRequest applies only the members present in the body.
type ActualizarSalonRequest struct {
	Nombre    *string `json:"nombre,omitempty"    validate:"omitempty,min=1,max=120"`
	Direccion *string `json:"direccion,omitempty" validate:"omitempty,max=255"`
	Activo    *bool   `json:"activo,omitempty"`
}

type CrearTipoMaquinaRequest struct {
	Nombre          string          `json:"nombre"            validate:"required,max=120"`
	NombreCorto     string          `json:"nombre_corto"      validate:"max=20"`
	TasaSemanalBase decimal.Decimal `json:"tasa_semanal_base" validate:"gte=0"`
	TasaPorPuesto   bool            `json:"tasa_por_puesto"`
}

type ListarMaquinasFilter struct {
	SalonID *int64 `form:"salon_id"`
	Skip    int    `form:"skip"     validate:"gte=0"`
	Limit   int    `form:"limit"    validate:"gte=0,lte=500"`
}

// CrearMaquinaRequest creates the machine with Puestos seats numbered from
// 1; zero means a single seat.
type CrearMaquinaRequest struct {
	SalonID             int64            `json:"salon_id"              validate:"required,gt=0"`
	TipoMaquinaID       int64            `json:"tipo_maquina_id"       validate:"required,gt=0"`
	Nombre              string           `json:"nombre"                validate:"required,max=120"`
	NumeroSerie         string           `json:"numero_serie"          validate:"max=60"`
	TasaSemanalOverride *decimal.Decimal `json:"tasa_semanal_override"`
	Puestos             int              `json:"puestos"               validate:"gte=0,lte=64"`
}

// ActualizarMaquinaRequest is partial. TasaSemanalOverride accepts an
// explicit null to drop the override.
type ActualizarMaquinaRequest struct {
	TipoMaquinaID       *int64                 `json:"tipo_maquina_id,omitempty" validate:"omitempty,gt=0"`
	Nombre              *string                `json:"nombre,omitempty"          validate:"omitempty,min=1,max=120"`
	NumeroSerie         *string                `json:"numero_serie,omitempty"    validate:"omitempty,max=60"`
	TasaSemanalOverride Campo[decimal.Decimal] `json:"tasa_semanal_override,omitzero"`
	Activo              *bool                  `json:"activo,omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SalonResponse struct {
	ID            int64     `json:"id"`
	Nombre        string    `json:"nombre"`
	Direccion     string    `json:"direccion"`
	Activo        bool      `json:"activo"`
	CreadoEn      time.Time `json:"creado_en"`
	ActualizadoEn time.Time `json:"actualizado_en"`
}

type TipoMaquinaResponse struct {
	ID              int64           `json:"id"`
	Nombre          string          `json:"nombre"`
	NombreCorto     string          `json:"nombre_corto"`
	TasaSemanalBase decimal.Decimal `json:"tasa_semanal_base"`
	TasaPorPuesto   bool            `json:"tasa_por_puesto"`
	Activo          bool            `json:"activo"`
}

type MaquinaResponse struct {
	ID                  int64               `json:"id"`
	SalonID             int64               `json:"salon_id"`
	TipoMaquinaID       int64               `json:"tipo_maquina_id"`
	Nombre              string              `json:"nombre"`
	NumeroSerie         string              `json:"numero_serie"`
	TasaSemanalOverride *decimal.Decimal    `json:"tasa_semanal_override"`
	Activo              bool                `json:"activo"`
	TipoMaquina         *TipoMaquinaResumen `json:"tipo_maquina,omitempty"`
	Puestos             []PuestoResumen     `json:"puestos"`
}
