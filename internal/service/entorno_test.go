package service

import (
	"context"
	"testing"

	"github.com/pozi78/Casino-Management-System-sub000/internal/config"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/infra"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

type entorno struct {
	mem      *repository.Memoria
	cfg      *config.Config
	demo     *Demo
	auth     AuthService
	recs     RecaudacionService
	ficheros FicheroService
	imp      ImportacionService
	cat      CatalogoService
	admin    Acceso
	operador Acceso
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	ctx := context.Background()
	mem := repository.NewMemoria()
	cfg := &config.Config{JWTSecret: testSecret, JWTExpirationHours: 8, TicketTTLSeconds: 60, MaxUploadMB: 1}

	e := &entorno{mem: mem, cfg: cfg}
	e.auth = NewAuthService(mem.Usuarios(), cfg)
	e.recs = NewRecaudacionService(mem.Recaudaciones(), mem.Catalogo())
	e.ficheros = NewFicheroService(mem.Ficheros(), mem.Recaudaciones(), infra.NewMemoryTicketStore(), int64(cfg.MaxUploadMB)<<20, cfg.TicketTTL())
	e.imp = NewImportacionService(mem.Recaudaciones(), mem.Ficheros(), mem.Catalogo())
	e.cat = NewCatalogoService(mem.Catalogo())

	demo, err := SembrarDemo(ctx, e.auth, mem.Catalogo(), "secreto123")
	require.NoError(t, err)
	e.demo = demo
	e.admin = e.acceso(t, demo.AdminID)
	e.operador = e.acceso(t, demo.OperadorID)
	return e
}

func (e *entorno) acceso(t *testing.T, usuarioID int64) Acceso {
	t.Helper()
	u, err := e.mem.Usuarios().FindByID(context.Background(), usuarioID)
	require.NoError(t, err)
	return AccesoDe(u)
}

func fecha(t *testing.T, s string) dto.Fecha {
	t.Helper()
	f, err := dto.ParseFecha(s)
	require.NoError(t, err)
	return f
}

// crearRecaudacion opens a record of the demo venue for the given week.
func (e *entorno) crearRecaudacion(t *testing.T, inicio, fin string) *dto.RecaudacionResponse {
	t.Helper()
	rec, err := e.recs.Crear(context.Background(), e.admin, dto.CrearRecaudacionRequest{
		SalonID:     e.demo.SalonID,
		FechaInicio: fecha(t, inicio),
		FechaFin:    fecha(t, fin),
		FechaCierre: fecha(t, fin),
	})
	require.NoError(t, err)
	return rec
}

// hojaXLSX builds a one-sheet workbook from rows of cell values.
func hojaXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func errorServicio(t *testing.T, err error) *Error {
	t.Helper()
	var se *Error
	require.ErrorAs(t, err, &se)
	return se
}
