package recaudacion

import (
	"testing"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s got %s", msg, want, got)
}

func TestRowGrossNet(t *testing.T) {
	d := fila(1, "M", 1, "100", "50", "10", "20", "5")
	assertDec(t, "145", RowGross(d), "gross")
	assertDec(t, "125", RowNet(d), "net")
}

func TestCompute_DosFilas(t *testing.T) {
	rows := []dto.DetalleResponse{
		fila(1, "A", 1, "100", "0", "10", "10", "0"),
		fila(2, "B", 1, "20", "30", "0", "10", "5"),
	}
	g := Globales{TotalTasas: decPtr("20")}

	tot := Compute(rows, g)

	assertDec(t, "150", tot.TotalRecaudado, "totalRecaudado")
	assertDec(t, "10", tot.PagosManuales, "pagosManuales")
	assertDec(t, "5", tot.Ajustes, "ajustes")
	assertDec(t, "20", tot.TasasEstimadas, "tasasEstimadas")
	assertDec(t, "0", tot.DiferenciaTasas, "diferencia")
	assertDec(t, "125", tot.Subtotal, "subtotal")
	assertDec(t, "125", tot.TotalFinal, "totalFinal")
	assertDec(t, "62.5", tot.ParteSalon, "parteSalon")
}

func TestCompute_SinOverrideNoRestaTasas(t *testing.T) {
	rows := []dto.DetalleResponse{fila(1, "A", 1, "100", "0", "0", "30", "0")}

	tot := Compute(rows, Globales{Depositos: dec("12.34"), OtrosConceptos: dec("-2.34")})

	assertDec(t, "0", tot.DiferenciaTasas, "diferencia")
	assertDec(t, "100", tot.Subtotal, "subtotal")
	assertDec(t, "110", tot.TotalFinal, "totalFinal")
	assertDec(t, "55", tot.ParteSalon, "parteSalon")
}

func TestCompute_DiferenciaTasas(t *testing.T) {
	rows := []dto.DetalleResponse{fila(1, "A", 1, "0", "0", "0", "33.33", "0")}
	tot := Compute(rows, Globales{TotalTasas: decPtr("40")})
	assertDec(t, "6.67", tot.DiferenciaTasas, "diferencia")
}

func TestCompute_ConjuntoVacio(t *testing.T) {
	tot := Compute(nil, Globales{Depositos: dec("10"), OtrosConceptos: dec("4")})

	assertDec(t, "0", tot.TotalRecaudado, "totalRecaudado")
	assertDec(t, "0", tot.PagosManuales, "pagosManuales")
	assertDec(t, "0", tot.Ajustes, "ajustes")
	assertDec(t, "0", tot.TasasEstimadas, "tasasEstimadas")
	assertDec(t, "0", tot.Subtotal, "subtotal")
	assertDec(t, "14", tot.TotalFinal, "totalFinal")
	assertDec(t, "7", tot.ParteSalon, "parteSalon")
}

func TestCompute_CentimosExactos(t *testing.T) {
	var rows []dto.DetalleResponse
	for i := int64(1); i <= 10; i++ {
		rows = append(rows, fila(i, "M", int(i), "0.10", "0.20", "0", "0", "0"))
	}
	tot := Compute(rows, Globales{})
	assertDec(t, "3", tot.TotalRecaudado, "totalRecaudado")
}

func TestCompute_AgregadosCoincidenConSumas(t *testing.T) {
	rows := recaudacionDemo().Detalles
	tot := Compute(rows, Globales{})

	sumGross := decimal.Zero
	for _, d := range rows {
		sumGross = sumGross.Add(RowGross(d))
	}
	// Σ gross = collected − payouts + adjustments
	assertDec(t, sumGross.String(), tot.TotalRecaudado.Sub(tot.PagosManuales).Add(tot.Ajustes), "identidad")
}
