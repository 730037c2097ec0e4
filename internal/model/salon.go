package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Salon struct {
	ID        int64  `gorm:"primaryKey"`
	Nombre    string `gorm:"not null"`
	Direccion string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Salon) TableName() string { return "salones" }

// TipoMaquina carries the weekly fee a machine pays unless it overrides it.
// With TasaPorPuesto the fee is charged once per seat.
type TipoMaquina struct {
	ID              int64           `gorm:"primaryKey"`
	Nombre          string          `gorm:"not null"`
	NombreCorto     string          `gorm:"type:varchar(20)"`
	TasaSemanalBase decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TasaPorPuesto   bool            `gorm:"not null;default:false"`
	Activo          bool            `gorm:"not null;default:true"`
}

func (TipoMaquina) TableName() string { return "tipos_maquina" }

type Maquina struct {
	ID                  int64            `gorm:"primaryKey"`
	SalonID             int64            `gorm:"index;not null"`
	TipoMaquinaID       int64            `gorm:"not null"`
	Nombre              string           `gorm:"not null"`
	NumeroSerie         string           `gorm:"type:varchar(60)"`
	TasaSemanalOverride *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Activo              bool             `gorm:"not null;default:true"`
	CreatedAt           time.Time

	TipoMaquina *TipoMaquina `gorm:"foreignKey:TipoMaquinaID"`
	Puestos     []Puesto     `gorm:"foreignKey:MaquinaID"`
}

func (Maquina) TableName() string { return "maquinas" }

// Puesto is a playing position of a machine. Single-seat machines have one
// puesto numbered 1.
type Puesto struct {
	ID           int64 `gorm:"primaryKey"`
	MaquinaID    int64 `gorm:"index;not null"`
	NumeroPuesto int   `gorm:"not null"`
	Descripcion  string
	Activo       bool `gorm:"not null;default:true"`
}

func (Puesto) TableName() string { return "puestos" }

// MaquinaExcelMap remembers how a spreadsheet name was resolved for a venue:
// either a seat or an "ignore forever" marker. ExcelName is stored
// normalised.
type MaquinaExcelMap struct {
	ID        int64  `gorm:"primaryKey"`
	SalonID   int64  `gorm:"uniqueIndex:uq_excel_map_salon_nombre;not null"`
	ExcelName string `gorm:"uniqueIndex:uq_excel_map_salon_nombre;not null"`
	PuestoID  *int64
	IsIgnored bool `gorm:"not null;default:false"`
	UpdatedAt time.Time
}

func (MaquinaExcelMap) TableName() string { return "maquina_excel_map" }
