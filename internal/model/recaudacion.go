package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recaudacion is a collection period of one venue.
// Origen: "manual" | "importacion"
type Recaudacion struct {
	ID                int64     `gorm:"primaryKey"`
	SalonID           int64     `gorm:"index;not null"`
	FechaInicio       time.Time `gorm:"type:date;not null;index"`
	FechaFin          time.Time `gorm:"type:date;not null"`
	FechaCierre       time.Time `gorm:"type:date;not null"`
	Etiqueta          string    `gorm:"type:varchar(120)"`
	Origen            string    `gorm:"type:varchar(20);not null;default:'manual'"`
	ReferenciaFichero string
	Notas             string
	// TotalTasas overrides the summed row fees when not nil.
	TotalTasas     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Depositos      decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	OtrosConceptos decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Salon    *Salon               `gorm:"foreignKey:SalonID"`
	Detalles []RecaudacionMaquina `gorm:"foreignKey:RecaudacionID;constraint:OnDelete:CASCADE"`
	Ficheros []RecaudacionFichero `gorm:"foreignKey:RecaudacionID;constraint:OnDelete:CASCADE"`
}

func (Recaudacion) TableName() string { return "recaudaciones" }

// TotalNeto sums the gross of every row.
func (r *Recaudacion) TotalNeto() decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.Detalles {
		total = total.Add(d.Bruto())
	}
	return total
}

// RecaudacionMaquina is the line of one machine seat inside a collection.
// TasaFinal = TasaCalculada + TasaAjuste.
type RecaudacionMaquina struct {
	ID               int64           `gorm:"primaryKey"`
	RecaudacionID    int64           `gorm:"uniqueIndex:uq_recaudacion_maquina_puesto;not null"`
	MaquinaID        int64           `gorm:"uniqueIndex:uq_recaudacion_maquina_puesto;not null"`
	PuestoID         *int64          `gorm:"uniqueIndex:uq_recaudacion_maquina_puesto"`
	RetiradaEfectivo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Cajon            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PagoManual       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TasaCalculada    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TasaAjuste       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TasaFinal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DetalleTasa      string

	Maquina *Maquina `gorm:"foreignKey:MaquinaID"`
	Puesto  *Puesto  `gorm:"foreignKey:PuestoID"`
}

func (RecaudacionMaquina) TableName() string { return "recaudacion_maquinas" }

// Bruto is retirada + cajon - pago manual + ajuste.
func (d *RecaudacionMaquina) Bruto() decimal.Decimal {
	return d.RetiradaEfectivo.Add(d.Cajon).Sub(d.PagoManual).Add(d.TasaAjuste)
}

// RecaudacionFichero is an attachment. The bytes live in Contenido and are
// never serialised.
type RecaudacionFichero struct {
	ID            int64  `gorm:"primaryKey"`
	RecaudacionID int64  `gorm:"index;not null"`
	Filename      string `gorm:"not null"`
	ContentType   string
	Size          int64
	Contenido     []byte `gorm:"type:bytea" json:"-"`
	CreatedAt     time.Time
}

func (RecaudacionFichero) TableName() string { return "recaudacion_ficheros" }
