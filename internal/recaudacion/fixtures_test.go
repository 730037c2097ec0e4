package recaudacion

import (
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fila(id int64, maquina string, puesto int, retirada, cajon, pago, tasaCalc, ajuste string) dto.DetalleResponse {
	d := dto.DetalleResponse{
		ID:               id,
		RecaudacionID:    10,
		MaquinaID:        id * 100,
		RetiradaEfectivo: dec(retirada),
		Cajon:            dec(cajon),
		PagoManual:       dec(pago),
		TasaCalculada:    dec(tasaCalc),
		TasaAjuste:       dec(ajuste),
		TasaFinal:        dec(tasaCalc).Add(dec(ajuste)),
		Maquina:          &dto.MaquinaResumen{ID: id * 100, Nombre: maquina},
	}
	if puesto > 0 {
		pid := id * 1000
		d.PuestoID = &pid
		d.Puesto = &dto.PuestoResumen{ID: pid, NumeroPuesto: puesto}
	}
	return d
}

func recaudacionDemo() *dto.RecaudacionResponse {
	return &dto.RecaudacionResponse{
		ID:      10,
		SalonID: 1,
		Detalles: []dto.DetalleResponse{
			fila(3, "ruleta", 2, "10", "0", "0", "5", "0"),
			fila(1, "Bingo", 1, "100", "0", "10", "10", "0"),
			fila(2, "Ruleta", 1, "20", "20", "0", "5", "5"),
			fila(4, "Árbol", 0, "0", "0", "0", "0", "0"),
		},
		Ficheros: []dto.FicheroResponse{{ID: 77, RecaudacionID: 10, Filename: "acta.pdf"}},
	}
}
