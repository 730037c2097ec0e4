// Package report renders a printable summary of a collection record.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/money"
	"github.com/pozi78/Casino-Management-System-sub000/internal/recaudacion"

	"github.com/go-pdf/fpdf"
)

var ErrSinRecaudacion = errors.New("report: no hay recaudacion")

const margen = 12.0

// WriteResumen writes an A4 summary of rec: header, one line per detail row
// (machine order) and the totals block.
func WriteResumen(w io.Writer, rec *dto.RecaudacionResponse) error {
	if rec == nil {
		return ErrSinRecaudacion
	}
	rows := append([]dto.DetalleResponse(nil), rec.Detalles...)
	recaudacion.SortDetalles(rows)
	t := recaudacion.Compute(rows, recaudacion.GlobalesDe(rec))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margen, margen, margen)
	pdf.SetAutoPageBreak(true, margen)
	// Core fonts are cp1252; accents and € need the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margen

	// ── Header ───────────────────────────────────────────────────────────────
	salon := fmt.Sprintf("Salón #%d", rec.SalonID)
	if rec.Salon != nil {
		salon = rec.Salon.Nombre
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr("Recaudación "+salon), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	periodo := fmt.Sprintf("Periodo %s a %s", rec.FechaInicio.Format("02/01/2006"), rec.FechaFin.Format("02/01/2006"))
	if rec.Etiqueta != "" {
		periodo += " · " + rec.Etiqueta
	}
	pdf.CellFormat(contentW, 5, tr(periodo), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Rows ─────────────────────────────────────────────────────────────────
	cols := []struct {
		titulo string
		ancho  float64
		align  string
	}{
		{"Máquina", 0.28, "L"},
		{"Puesto", 0.08, "C"},
		{"Retirada", 0.12, "R"},
		{"Cajón", 0.10, "R"},
		{"Pago manual", 0.12, "R"},
		{"Tasa", 0.14, "R"},
		{"Neto", 0.16, "R"},
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(contentW*c.ancho, 6, tr(c.titulo), "B", ln, c.align, true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range rows {
		nombre := ""
		if d.Maquina != nil {
			nombre = d.Maquina.Nombre
		}
		puesto := "-"
		if d.Puesto != nil {
			puesto = fmt.Sprint(d.Puesto.NumeroPuesto)
		}
		vals := []string{
			nombre,
			puesto,
			money.FormatPlain(d.RetiradaEfectivo),
			money.FormatPlain(d.Cajon),
			money.FormatPlain(d.PagoManual),
			money.FormatPlain(d.TasaFinal),
			money.FormatPlain(recaudacion.RowNet(d)),
		}
		for i, v := range vals {
			ln := 0
			if i == len(vals)-1 {
				ln = 1
			}
			pdf.CellFormat(contentW*cols[i].ancho, 5, tr(v), "", ln, cols[i].align, false, 0, "")
		}
	}

	pdf.Ln(2)
	pdf.Line(margen, pdf.GetY(), pageW-margen, pdf.GetY())
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	etiqW, valW := contentW*0.7, contentW*0.3
	linea := func(etiqueta, valor string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(etiqW, 5, tr(etiqueta), "", 0, "R", false, 0, "")
		pdf.CellFormat(valW, 5, tr(valor), "", 1, "R", false, 0, "")
	}
	linea("Total recaudado", money.Format(t.TotalRecaudado), false)
	linea("Pagos manuales", money.Format(t.PagosManuales), false)
	linea("Ajustes", money.Format(t.Ajustes), false)
	linea("Tasas estimadas", money.Format(t.TasasEstimadas), false)
	if rec.TotalTasas != nil {
		linea("Tasas reales", money.Format(*rec.TotalTasas), false)
		linea("Diferencia de tasas", money.Format(t.DiferenciaTasas), false)
	}
	linea("Depósitos", money.Format(rec.Depositos), false)
	linea("Otros conceptos", money.Format(rec.OtrosConceptos), false)
	linea("Subtotal", money.Format(t.Subtotal), false)
	linea("Total final", money.Format(t.TotalFinal), true)
	linea("Parte salón", money.Format(t.ParteSalon), true)

	if rec.Notas != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, tr(rec.Notas), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: escribir pdf: %w", err)
	}
	return nil
}
