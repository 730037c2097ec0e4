package recaudacion

import (
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/shopspring/decimal"
)

// ParteSalonRatio is the venue's share of the final total.
var ParteSalonRatio = decimal.NewFromFloat(0.5)

// Globales are the record-level inputs of the totals.
type Globales struct {
	TotalTasas     *decimal.Decimal // fee override, nil when not entered
	Depositos      decimal.Decimal
	OtrosConceptos decimal.Decimal
}

func GlobalesDe(rec *dto.RecaudacionResponse) Globales {
	if rec == nil {
		return Globales{}
	}
	return Globales{TotalTasas: rec.TotalTasas, Depositos: rec.Depositos, OtrosConceptos: rec.OtrosConceptos}
}

// Totals aggregates a record.
type Totals struct {
	TotalRecaudado  decimal.Decimal // Σ retirada + cajon
	PagosManuales   decimal.Decimal // Σ pago_manual
	Ajustes         decimal.Decimal // Σ tasa_ajuste
	TasasEstimadas  decimal.Decimal // Σ tasa_calculada
	DiferenciaTasas decimal.Decimal // override − estimated; zero without override
	Subtotal        decimal.Decimal
	TotalFinal      decimal.Decimal
	ParteSalon      decimal.Decimal
}

// RowGross is retirada + cajon − pago_manual + tasa_ajuste.
func RowGross(d dto.DetalleResponse) decimal.Decimal {
	return d.RetiradaEfectivo.Add(d.Cajon).Sub(d.PagoManual).Add(d.TasaAjuste)
}

// RowNet is the gross amount minus the calculated fee.
func RowNet(d dto.DetalleResponse) decimal.Decimal {
	return RowGross(d).Sub(d.TasaCalculada)
}

// Compute derives every aggregate from the rows and the globals. It is pure
// and exact to the cent.
func Compute(rows []dto.DetalleResponse, g Globales) Totals {
	var t Totals
	for _, d := range rows {
		t.TotalRecaudado = t.TotalRecaudado.Add(d.RetiradaEfectivo).Add(d.Cajon)
		t.PagosManuales = t.PagosManuales.Add(d.PagoManual)
		t.Ajustes = t.Ajustes.Add(d.TasaAjuste)
		t.TasasEstimadas = t.TasasEstimadas.Add(d.TasaCalculada)
	}

	override := decimal.Zero
	if g.TotalTasas != nil {
		override = *g.TotalTasas
		t.DiferenciaTasas = override.Sub(t.TasasEstimadas)
	}

	t.Subtotal = t.TotalRecaudado.Sub(t.PagosManuales).Add(t.Ajustes).Sub(override)
	t.TotalFinal = t.Subtotal.Add(g.Depositos).Add(g.OtrosConceptos)
	t.ParteSalon = t.TotalFinal.Mul(ParteSalonRatio)
	return t
}
