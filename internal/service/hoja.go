package service

import (
	"fmt"
	"strings"

	"github.com/pozi78/Casino-Management-System-sub000/internal/infra"
	"github.com/pozi78/Casino-Management-System-sub000/internal/money"

	"github.com/shopspring/decimal"
)

// Header rows are searched within the first rows of the sheet only.
const maxFilasCabecera = 30

// filaHoja is the sum of every sheet row carrying the same name.
type filaHoja struct {
	Nombre     string
	Retirada   decimal.Decimal
	Cajon      decimal.Decimal
	PagoManual decimal.Decimal
	Tasa       decimal.Decimal
}

// hojaRecaudacion is a parsed collection sheet. Filas keeps the order in
// which names first appear.
type hojaRecaudacion struct {
	Filas   []filaHoja
	ConTasa bool
}

type columnas struct {
	nombre, retirada, cajon, pago, tasa int
}

func (c columnas) alguna() bool {
	return c.retirada >= 0 || c.cajon >= 0 || c.pago >= 0 || c.tasa >= 0
}

// leerHojaRecaudacion finds the header row (a name column plus at least one
// amount column) and reads the rows below it. Blank names and TOTAL rows are
// skipped.
func leerHojaRecaudacion(filename string, contenido []byte) (*hojaRecaudacion, error) {
	rows, err := infra.LeerHoja(filename, contenido)
	if err != nil {
		return nil, invalido("No se pudo leer la hoja: %v", err)
	}

	cab, cols := -1, columnas{}
	for i := 0; i < len(rows) && i < maxFilasCabecera; i++ {
		if c := detectarColumnas(rows[i]); c.nombre >= 0 && c.alguna() {
			cab, cols = i, c
			break
		}
	}
	if cab < 0 {
		return nil, invalido("No se encontro la fila de cabecera (nombre, retirada, cajon, pago manual, tasa)")
	}

	hoja := &hojaRecaudacion{ConTasa: cols.tasa >= 0}
	indice := map[string]int{}
	for i := cab + 1; i < len(rows); i++ {
		row := rows[i]
		nombre := strings.TrimSpace(celda(row, cols.nombre))
		if nombre == "" || strings.HasPrefix(infra.Normalizar(nombre), "TOTAL") {
			continue
		}
		var f filaHoja
		for _, c := range []struct {
			col int
			dst *decimal.Decimal
		}{
			{cols.retirada, &f.Retirada},
			{cols.cajon, &f.Cajon},
			{cols.pago, &f.PagoManual},
			{cols.tasa, &f.Tasa},
		} {
			v, err := leerImporte(celda(row, c.col))
			if err != nil {
				return nil, invalido("Fila %d: importe invalido %q", i+1, celda(row, c.col))
			}
			*c.dst = v
		}

		pos, ok := indice[nombre]
		if !ok {
			indice[nombre] = len(hoja.Filas)
			f.Nombre = nombre
			hoja.Filas = append(hoja.Filas, f)
			continue
		}
		acc := &hoja.Filas[pos]
		acc.Retirada = acc.Retirada.Add(f.Retirada)
		acc.Cajon = acc.Cajon.Add(f.Cajon)
		acc.PagoManual = acc.PagoManual.Add(f.PagoManual)
		acc.Tasa = acc.Tasa.Add(f.Tasa)
	}
	return hoja, nil
}

func detectarColumnas(row []string) columnas {
	c := columnas{nombre: -1, retirada: -1, cajon: -1, pago: -1, tasa: -1}
	for i, cell := range row {
		h := infra.Normalizar(cell)
		switch {
		case h == "":
		case strings.Contains(h, "RETIRADA"):
			primera(&c.retirada, i)
		case strings.Contains(h, "CAJON"):
			primera(&c.cajon, i)
		case strings.Contains(h, "PAGO"):
			primera(&c.pago, i)
		case strings.Contains(h, "TASA"):
			primera(&c.tasa, i)
		case h == "NOMBRE" || h == "MAQUINA" || h == "PUESTO" ||
			strings.HasPrefix(h, "NOMBRE ") || strings.HasPrefix(h, "MAQUINA "):
			primera(&c.nombre, i)
		}
	}
	return c
}

func primera(dst *int, i int) {
	if *dst < 0 {
		*dst = i
	}
}

func celda(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// leerImporte accepts the text of a spreadsheet cell: raw numbers
// ("1234.5"), Spanish amounts ("1.234,50 €") and English ones ("1,234.50").
func leerImporte(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "€", ""))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	coma, punto := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case coma >= 0 && punto > coma:
		s = strings.ReplaceAll(s, ",", "")
	case coma >= 0:
		return money.Parse(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("importe %q: %w", s, money.ErrFormato)
	}
	return d, nil
}
