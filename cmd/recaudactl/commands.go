package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/money"
	"github.com/pozi78/Casino-Management-System-sub000/internal/recaudacion"
	"github.com/pozi78/Casino-Management-System-sub000/internal/report"
	"github.com/pozi78/Casino-Management-System-sub000/internal/session"
	"github.com/pozi78/Casino-Management-System-sub000/internal/worker"

	"github.com/rs/zerolog/log"
)

var errUso = errors.New("argumentos incorrectos")

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string     { return strings.Join(*l, ",") }
func (l *listFlag) Set(v string) error { *l = append(*l, v); return nil }

// parse lets flags and positional arguments appear in any order.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s %q", errUso, what, s)
	}
	return id, nil
}

// open refreshes the session and loads record id into a store.
func (a *app) open(ctx context.Context, arg string, pool *worker.Dispatcher) (*recaudacion.Store, error) {
	id, err := parseID(arg, "recaudación")
	if err != nil {
		return nil, err
	}
	if err := a.sess.Refresh(ctx); err != nil {
		return nil, err
	}
	a.warnExpiry()
	st := a.store(pool)
	if err := st.Load(ctx, id); err != nil {
		return nil, err
	}
	return st, nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	password := fs.String("p", "", "contraseña (se pregunta si falta)")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("%w: login <usuario>", errUso)
	}
	if *password == "" {
		*password = a.ask("Contraseña: ")
	}
	if _, err := a.api.Login(ctx, pos[0], *password); err != nil {
		return err
	}
	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	u := a.sess.User()
	fmt.Fprintf(a.out, "Sesión iniciada como %s (%s)\n", u.Nombre, u.Username)
	return nil
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	if err := a.sess.Close(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sesión cerrada")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	printUsuario(a.out, a.sess.User(), a.sess.IsAdmin())
	if left, err := a.sess.ExpiresIn(); err == nil {
		fmt.Fprintf(a.out, "El token caduca en %s\n", left.Round(time.Second))
	}
	a.warnExpiry()
	return nil
}

func cmdSalones(ctx context.Context, a *app, _ []string) error {
	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	list, err := a.api.ListSalones(ctx)
	if err != nil {
		return err
	}
	printSalones(a.out, list)
	return nil
}

func cmdMaquinas(ctx context.Context, a *app, args []string) error {
	fs := newFlags("maquinas")
	salon := fs.String("salon", "", "id de salón")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	var salonID *int64
	if *salon != "" {
		id, err := parseID(*salon, "salón")
		if err != nil {
			return err
		}
		salonID = &id
	}
	list, err := a.api.ListMaquinas(ctx, salonID)
	if err != nil {
		return err
	}
	printMaquinas(a.out, list)
	return nil
}

func cmdList(ctx context.Context, a *app, args []string) error {
	fs := newFlags("list")
	var salones listFlag
	fs.Var(&salones, "salon", "id de salón (repetible)")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	a.warnExpiry()

	filtro := a.sess.Filtro()
	if len(salones) > 0 {
		filtro.DeselectAll()
		for _, s := range salones {
			id, err := parseID(s, "salón")
			if err != nil {
				return err
			}
			filtro.Toggle(id)
		}
	}
	var sel []int64
	if filtro.IsFiltered() {
		sel = filtro.Selected()
	}
	list, err := recaudacion.NewRecords(a.api).List(ctx, sel)
	if err != nil {
		return err
	}
	printLista(a.out, list)
	return nil
}

func cmdCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("create")
	salon := fs.Int64("salon", 0, "id de salón")
	inicio := fs.String("inicio", "", "fecha de inicio (por defecto, fin de la última)")
	fin := fs.String("fin", "", "fecha de fin")
	cierre := fs.String("cierre", "", "fecha de cierre (por defecto, la de fin)")
	etiqueta := fs.String("etiqueta", "", "etiqueta")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	recs := recaudacion.NewRecords(a.api)

	req := dto.CrearRecaudacionRequest{SalonID: *salon, Etiqueta: *etiqueta}
	var err error
	if *inicio == "" && *salon > 0 {
		next, err := recs.NextStart(ctx, *salon)
		if err != nil {
			return err
		}
		if next != nil {
			req.FechaInicio = *next
			fmt.Fprintf(a.out, "Inicio propuesto: %s\n", next)
		}
	} else if *inicio != "" {
		if req.FechaInicio, err = dto.ParseFecha(*inicio); err != nil {
			return err
		}
	}
	if *fin != "" {
		if req.FechaFin, err = dto.ParseFecha(*fin); err != nil {
			return err
		}
	}
	req.FechaCierre = req.FechaFin
	if *cierre != "" {
		if req.FechaCierre, err = dto.ParseFecha(*cierre); err != nil {
			return err
		}
	}

	rec, err := recs.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Creada la recaudación %d con %d filas\n", rec.ID, len(rec.Detalles))
	return nil
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: show <id>", errUso)
	}
	st, err := a.open(ctx, args[0], nil)
	if err != nil {
		return err
	}
	printRecaudacion(a.out, st.Snapshot(), st.Totals())
	return nil
}

type celda struct {
	row   int64
	field recaudacion.Field
	raw   string
}

func parseCelda(s string) (celda, error) {
	ref, raw, ok := strings.Cut(s, "=")
	rowS, fieldS, ok2 := strings.Cut(ref, ".")
	if !ok || !ok2 {
		return celda{}, fmt.Errorf("%w: se esperaba <fila>.<campo>=<valor>, no %q", errUso, s)
	}
	row, err := parseID(rowS, "fila")
	if err != nil {
		return celda{}, err
	}
	field, ok := recaudacion.ParseField(fieldS)
	if !ok {
		return celda{}, fmt.Errorf("%w: campo %q", errUso, fieldS)
	}
	return celda{row: row, field: field, raw: raw}, nil
}

func cmdSet(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: set <id> <fila>.<campo>=<valor>...", errUso)
	}
	celdas := make([]celda, 0, len(args)-1)
	for _, s := range args[1:] {
		c, err := parseCelda(s)
		if err != nil {
			return err
		}
		celdas = append(celdas, c)
	}

	pool := worker.NewDispatcher(len(celdas), a.cfg.SaveTimeout())
	pool.Start(ctx, a.cfg.Workers)
	defer pool.Stop()

	st, err := a.open(ctx, args[0], pool)
	if err != nil {
		return err
	}
	if !a.sess.Can(st.Snapshot().SalonID, session.PermisoEditarRecaudaciones) {
		return fmt.Errorf("sin permiso de edición en el salón %d", st.Snapshot().SalonID)
	}

	var (
		mu    sync.Mutex
		fallo error
	)
	done := func(err error) {
		if err != nil {
			mu.Lock()
			fallo = errors.Join(fallo, err)
			mu.Unlock()
		}
	}
	for _, c := range celdas {
		if c.field == recaudacion.FieldDetalleTasa {
			if !st.SetFeeDetail(c.row, c.raw) {
				return fmt.Errorf("la fila %d no pertenece a la recaudación", c.row)
			}
			done(st.PersistFeeDetail(ctx, c.row, c.raw))
			continue
		}
		v, err := money.Parse(c.raw)
		if err != nil {
			return fmt.Errorf("fila %d, %s: %w", c.row, c.field, err)
		}
		if !st.ApplyLocalEdit(c.row, c.field, v) {
			return fmt.Errorf("la fila %d no pertenece a la recaudación", c.row)
		}
		if err := st.PersistFieldAsync(c.row, c.field, v, done); err != nil {
			return err
		}
	}
	pool.Wait()

	for _, c := range celdas {
		fmt.Fprintf(a.out, "fila %d %-18s %s\n", c.row, c.field, st.Status(c.row, c.field).State)
	}
	printTotales(a.out, st.Totals())
	return fallo
}

func cmdGlobal(ctx context.Context, a *app, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: global <id> <campo> <valor|null>", errUso)
	}
	field, ok := recaudacion.ParseGlobalField(args[1])
	if !ok {
		return fmt.Errorf("%w: campo global %q", errUso, args[1])
	}
	st, err := a.open(ctx, args[0], nil)
	if err != nil {
		return err
	}
	if strings.EqualFold(args[2], "null") {
		if field != recaudacion.GlobalTotalTasas {
			return fmt.Errorf("%w: solo total_tasas admite null", errUso)
		}
		err = st.ClearFeeOverride(ctx)
	} else {
		v, perr := money.Parse(args[2])
		if perr != nil {
			return perr
		}
		err = st.UpdateGlobalField(ctx, field, v)
	}
	fmt.Fprintf(a.out, "%s: %s\n", field, st.GlobalStatus(field).State)
	if err != nil {
		return err
	}
	printTotales(a.out, st.Totals())
	return nil
}

func cmdFiles(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: files <id>", errUso)
	}
	st, err := a.open(ctx, args[0], nil)
	if err != nil {
		return err
	}
	printFicheros(a.out, st.Snapshot().Ficheros)
	return nil
}

func cmdUpload(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: upload <id> <ruta>", errUso)
	}
	st, err := a.open(ctx, args[0], nil)
	if err != nil {
		return err
	}
	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	up, err := st.UploadAttachment(ctx, filepath.Base(args[1]), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Adjuntado %s como #%d (%s)\n", up.Filename, up.ID, up.ContentType)
	return nil
}

func cmdRmFile(ctx context.Context, a *app, args []string) error {
	fs := newFlags("rm-file")
	yes := fs.Bool("y", false, "no pedir confirmación")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return fmt.Errorf("%w: rm-file <id> <fichero>", errUso)
	}
	fid, err := parseID(pos[1], "fichero")
	if err != nil {
		return err
	}
	st, err := a.open(ctx, pos[0], nil)
	if err != nil {
		return err
	}
	var c recaudacion.Confirmer = a
	if *yes {
		c = recaudacion.ConfirmFunc(func(string) bool { return true })
	}
	if err := st.DeleteAttachment(ctx, fid, c); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Fichero eliminado")
	return nil
}

func cmdURL(ctx context.Context, a *app, args []string) error {
	fs := newFlags("url")
	ticket := fs.Bool("ticket", false, "usar un ticket de un solo uso")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return fmt.Errorf("%w: url <id> <fichero>", errUso)
	}
	fid, err := parseID(pos[1], "fichero")
	if err != nil {
		return err
	}
	st, err := a.open(ctx, pos[0], nil)
	if err != nil {
		return err
	}
	if !*ticket {
		u, err := st.AttachmentURL(fid)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, u)
		return nil
	}
	u, ttl, err := st.AttachmentTicketURL(ctx, fid)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, u)
	fmt.Fprintf(os.Stderr, "válido durante %s, un solo uso\n", ttl)
	return nil
}

func cmdImport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("import")
	var maps, ignores, unassign, restore listFlag
	fs.Var(&maps, "map", "nombre=puesto (repetible)")
	fs.Var(&ignores, "ignore", "nombre a ignorar (repetible)")
	fs.Var(&unassign, "unassign", "puesto a liberar (repetible)")
	fs.Var(&restore, "restore", "nombre ignorado a recuperar (repetible)")
	yes := fs.Bool("y", false, "importar sin pedir confirmación")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return fmt.Errorf("%w: import <id> <ruta|#fichero>", errUso)
	}
	st, err := a.open(ctx, pos[0], nil)
	if err != nil {
		return err
	}

	ms := recaudacion.NewMappingSession(a.api, st, st.ID())
	if strings.HasPrefix(pos[1], "#") {
		fid, perr := parseID(pos[1], "fichero")
		if perr != nil {
			return perr
		}
		err = ms.AnalyzeAttachment(ctx, fid)
	} else {
		content, rerr := os.ReadFile(pos[1])
		if rerr != nil {
			return rerr
		}
		err = ms.AnalyzeFile(ctx, filepath.Base(pos[1]), content)
	}
	if err != nil {
		return err
	}

	for _, p := range unassign {
		id, err := parseID(p, "puesto")
		if err != nil {
			return err
		}
		if err := ms.Unassign(id); err != nil {
			return err
		}
	}
	for _, n := range restore {
		if err := ms.Restore(n); err != nil {
			return err
		}
	}
	for _, m := range maps {
		name, seat, ok := strings.Cut(m, "=")
		if !ok {
			return fmt.Errorf("%w: -map %q", errUso, m)
		}
		id, err := parseID(seat, "puesto")
		if err != nil {
			return err
		}
		if err := ms.Assign(name, id); err != nil {
			return err
		}
	}
	for _, n := range ignores {
		if err := ms.Ignore(n); err != nil {
			return err
		}
	}

	printMapeo(a.out, ms)
	if !*yes && !a.Confirm("¿Importar con esta asignación?") {
		ms.Cancel()
		return recaudacion.ErrCancelled
	}
	res, err := ms.Confirm(ctx)
	if res != nil {
		fmt.Fprintf(a.out, "Importado %s: %d filas actualizadas, %d creadas\n", res.Filename, res.Actualizados, res.Creados)
	}
	if err != nil {
		return err
	}
	printTotales(a.out, st.Totals())
	return nil
}

func cmdExport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("export")
	dir := fs.String("o", ".", "directorio de destino")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("%w: export <id>", errUso)
	}
	st, err := a.open(ctx, pos[0], nil)
	if err != nil {
		return err
	}
	name, body, err := st.Export(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(*dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	log.Debug().Str("path", path).Int("bytes", len(body)).Msg("export written")
	fmt.Fprintln(a.out, path)
	return nil
}

func cmdReport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("report")
	out := fs.String("o", "", "fichero PDF de destino")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("%w: report <id>", errUso)
	}
	st, err := a.open(ctx, pos[0], nil)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.WriteResumen(&buf, st.Snapshot()); err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = fmt.Sprintf("resumen_%d.pdf", st.ID())
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintln(a.out, path)
	return nil
}

func cmdDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlags("delete")
	phrase := fs.String("confirm", "", "frase de confirmación")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("%w: delete <id>", errUso)
	}
	id, err := parseID(pos[0], "recaudación")
	if err != nil {
		return err
	}
	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	if *phrase == "" {
		*phrase = a.ask(fmt.Sprintf("Escriba %s para eliminar la recaudación %d: ", recaudacion.DeletePhrase, id))
	}
	if err := recaudacion.NewRecords(a.api).Delete(ctx, id, *phrase); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recaudación %d eliminada\n", id)
	return nil
}
