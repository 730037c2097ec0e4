package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/money"
	"github.com/pozi78/Casino-Management-System-sub000/internal/recaudacion"

	"github.com/shopspring/decimal"
)

func tabla(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func salonNombre(s *dto.SalonResumen, id int64) string {
	if s != nil && s.Nombre != "" {
		return s.Nombre
	}
	return fmt.Sprintf("salón %d", id)
}

func printUsuario(w io.Writer, u *dto.UsuarioResponse, admin bool) {
	fmt.Fprintf(w, "%s (%s) %s\n", u.Nombre, u.Username, u.Email)
	if admin {
		fmt.Fprintln(w, "Administrador: acceso a todos los salones")
	}
	if len(u.SalonesAsignados) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSALÓN\tVER\tEDITAR\tRECAUDACIONES\tEDITAR REC.\tHISTÓRICO")
	for _, sa := range u.SalonesAsignados {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", sa.SalonID, salonNombre(sa.Salon, sa.SalonID),
			marca(sa.PuedeVer), marca(sa.PuedeEditar), marca(sa.VerRecaudaciones),
			marca(sa.EditarRecaudaciones), marca(sa.VerHistorico))
	}
	tw.Flush()
}

func marca(b bool) string {
	if b {
		return "sí"
	}
	return "-"
}

func printSalones(w io.Writer, list []dto.SalonResponse) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No hay salones")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSALÓN\tDIRECCIÓN\tACTIVO")
	for _, s := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Nombre, s.Direccion, marca(s.Activo))
	}
	tw.Flush()
}

func printMaquinas(w io.Writer, list []dto.MaquinaResponse) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No hay máquinas")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSALÓN\tMÁQUINA\tTIPO\tPUESTOS\tACTIVA")
	for _, m := range list {
		tipo := "-"
		if m.TipoMaquina != nil {
			tipo = m.TipoMaquina.Nombre
		}
		puestos := make([]string, 0, len(m.Puestos))
		for _, p := range m.Puestos {
			puestos = append(puestos, fmt.Sprintf("#%d=%d", p.NumeroPuesto, p.ID))
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", m.ID, m.SalonID, m.Nombre, tipo, strings.Join(puestos, " "), marca(m.Activo))
	}
	tw.Flush()
}

func printLista(w io.Writer, list []dto.RecaudacionSummary) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No hay recaudaciones")
		return
	}
	tw := tabla(w)
	fmt.Fprintln(tw, "ID\tSALÓN\tINICIO\tFIN\tETIQUETA\tORIGEN\tNETO\t")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n", r.ID, salonNombre(r.Salon, r.SalonID),
			r.FechaInicio, r.FechaFin, r.Etiqueta, r.Origen, money.Format(r.TotalNeto))
	}
	tw.Flush()
}

func printRecaudacion(w io.Writer, rec *dto.RecaudacionResponse, t recaudacion.Totals) {
	fmt.Fprintf(w, "Recaudación %d · %s · %s a %s", rec.ID, salonNombre(rec.Salon, rec.SalonID), rec.FechaInicio, rec.FechaFin)
	if rec.Etiqueta != "" {
		fmt.Fprintf(w, " · %s", rec.Etiqueta)
	}
	fmt.Fprintf(w, " (%s)\n\n", rec.Origen)

	tw := tabla(w)
	fmt.Fprintln(tw, "FILA\tMÁQUINA\tPUESTO\tRETIRADA\tCAJÓN\tPAGO MANUAL\tTASA\tAJUSTE\tNETO\t")
	for _, d := range rec.Detalles {
		maquina, puesto := "?", "-"
		if d.Maquina != nil {
			maquina = d.Maquina.Nombre
		}
		if d.Puesto != nil {
			puesto = fmt.Sprint(d.Puesto.NumeroPuesto)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", d.ID, maquina, puesto,
			money.Format(d.RetiradaEfectivo), money.Format(d.Cajon), money.Format(d.PagoManual),
			money.Format(d.TasaCalculada), money.Format(d.TasaAjuste), money.Format(recaudacion.RowNet(d)))
	}
	tw.Flush()
	fmt.Fprintln(w)

	if rec.TotalTasas != nil {
		fmt.Fprintf(w, "Tasas declaradas: %s\n", money.Format(*rec.TotalTasas))
	}
	fmt.Fprintf(w, "Depósitos: %s   Otros conceptos: %s\n", money.Format(rec.Depositos), money.Format(rec.OtrosConceptos))
	printTotales(w, t)

	if len(rec.Ficheros) > 0 {
		fmt.Fprintln(w)
		printFicheros(w, rec.Ficheros)
	}
	if strings.TrimSpace(rec.Notas) != "" {
		fmt.Fprintf(w, "\nNotas: %s\n", rec.Notas)
	}
}

func printTotales(w io.Writer, t recaudacion.Totals) {
	tw := tabla(w)
	fila := func(k string, v decimal.Decimal) { fmt.Fprintf(tw, "%s\t%s\t\n", k, money.Format(v)) }
	fila("Total recaudado", t.TotalRecaudado)
	fila("Pagos manuales", t.PagosManuales)
	fila("Ajustes", t.Ajustes)
	fila("Tasas estimadas", t.TasasEstimadas)
	fila("Diferencia de tasas", t.DiferenciaTasas)
	fila("Subtotal", t.Subtotal)
	fila("Total final", t.TotalFinal)
	fila("Parte del salón", t.ParteSalon)
	tw.Flush()
}

func printFicheros(w io.Writer, fs []dto.FicheroResponse) {
	if len(fs) == 0 {
		fmt.Fprintln(w, "Sin ficheros adjuntos")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFICHERO\tTIPO\tTAMAÑO\tSUBIDO")
	for _, f := range fs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", f.ID, f.Filename, f.ContentType, f.Size, f.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func printMapeo(w io.Writer, ms *recaudacion.MappingSession) {
	puestos := map[int64]dto.PuestoDisponible{}
	for _, p := range ms.Puestos() {
		puestos[p.ID] = p
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NOMBRE EN LA HOJA\tASIGNACIÓN")
	for _, n := range ms.Names() {
		a, _ := ms.Assignment(n)
		switch a.Kind {
		case recaudacion.Assigned:
			p := puestos[a.PuestoID]
			fmt.Fprintf(tw, "%s\t→ %s puesto %d (#%d)\n", n, p.Nombre, p.NumeroPuesto, a.PuestoID)
		case recaudacion.Ignored:
			fmt.Fprintf(tw, "%s\tignorado\n", n)
		default:
			fmt.Fprintf(tw, "%s\tsin asignar\n", n)
		}
	}
	tw.Flush()

	libres := recaudacion.SortedPuestos(ms.AvailableSeats())
	if len(libres) == 0 {
		return
	}
	fmt.Fprintln(w, "\nPuestos libres:")
	for _, p := range libres {
		fmt.Fprintf(w, "  #%d %s puesto %d\n", p.ID, p.Nombre, p.NumeroPuesto)
	}
	if pend := ms.Pending(); len(pend) > 0 {
		fmt.Fprintf(w, "\n%d nombres sin asignar no se importarán\n", len(pend))
	}
}
