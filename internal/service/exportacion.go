package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/pozi78/Casino-Management-System-sub000/internal/recaudacion"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const hojaExportacion = "Recaudacion"

func (s *importacionService) Exportar(ctx context.Context, acc Acceso, recaudacionID int64) (string, []byte, error) {
	rec, err := recaudacionAccesible(ctx, s.recaudaciones, acc, recaudacionID, false)
	if err != nil {
		return "", nil, err
	}
	resp := mapRecaudacion(rec)
	recaudacion.SortDetalles(resp.Detalles)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", hojaExportacion); err != nil {
		return "", nil, fmt.Errorf("xlsx: %w", err)
	}
	importe, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return "", nil, fmt.Errorf("xlsx estilo: %w", err)
	}
	negrita, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", nil, fmt.Errorf("xlsx estilo: %w", err)
	}

	row := 1
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		if d, ok := v.(decimal.Decimal); ok {
			_ = f.SetCellValue(hojaExportacion, cell, d.InexactFloat64())
			_ = f.SetCellStyle(hojaExportacion, cell, cell, importe)
			return
		}
		_ = f.SetCellValue(hojaExportacion, cell, v)
	}

	salon := ""
	if resp.Salon != nil {
		salon = resp.Salon.Nombre
	}
	write(1, "Salon")
	write(2, salon)
	row++
	write(1, "Periodo")
	write(2, resp.FechaInicio.String()+" / "+resp.FechaFin.String())
	row += 2

	headers := []string{
		"Maquina", "Puesto", "Retirada", "Cajon", "Pago manual",
		"Tasa calculada", "Ajuste", "Tasa final", "Bruto", "Neto", "Detalle tasa",
	}
	for i, h := range headers {
		write(i+1, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	_ = f.SetCellStyle(hojaExportacion, first, last, negrita)
	row++

	for _, d := range resp.Detalles {
		maquina, puesto := "", ""
		if d.Maquina != nil {
			maquina = d.Maquina.Nombre
		}
		if d.Puesto != nil {
			puesto = fmt.Sprint(d.Puesto.NumeroPuesto)
		}
		write(1, maquina)
		write(2, puesto)
		write(3, d.RetiradaEfectivo)
		write(4, d.Cajon)
		write(5, d.PagoManual)
		write(6, d.TasaCalculada)
		write(7, d.TasaAjuste)
		write(8, d.TasaFinal)
		write(9, recaudacion.RowGross(d))
		write(10, recaudacion.RowNet(d))
		write(11, d.DetalleTasa)
		row++
	}

	t := recaudacion.Compute(resp.Detalles, recaudacion.GlobalesDe(&resp))
	row++
	for _, tot := range []struct {
		label string
		valor decimal.Decimal
	}{
		{"Total recaudado", t.TotalRecaudado},
		{"Pagos manuales", t.PagosManuales},
		{"Ajustes", t.Ajustes},
		{"Tasas estimadas", t.TasasEstimadas},
		{"Diferencia tasas", t.DiferenciaTasas},
		{"Subtotal", t.Subtotal},
		{"Depositos", resp.Depositos},
		{"Otros conceptos", resp.OtrosConceptos},
		{"Total final", t.TotalFinal},
		{"Parte salon", t.ParteSalon},
	} {
		write(1, tot.label)
		write(3, tot.valor)
		row++
	}

	_ = f.SetColWidth(hojaExportacion, "A", "A", 28)
	_ = f.SetColWidth(hojaExportacion, "B", "B", 10)
	_ = f.SetColWidth(hojaExportacion, "C", "J", 14)
	_ = f.SetColWidth(hojaExportacion, "K", "K", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("xlsx write: %w", err)
	}
	log.Info().Int64("recaudacion_id", rec.ID).Int("filas", len(resp.Detalles)).Msg("recaudacion exportada")
	return nombreExportacion(salon, resp.FechaInicio.String(), rec.ID), buf.Bytes(), nil
}

// nombreExportacion keeps letters (accents included), digits, '-' and '_'.
func nombreExportacion(salon, inicio string, id int64) string {
	limpio := strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		}
		return -1
	}, salon)
	if limpio == "" {
		return recaudacion.FallbackExportName(id)
	}
	return fmt.Sprintf("Recaudacion_%s_%s.xlsx", limpio, inicio)
}
