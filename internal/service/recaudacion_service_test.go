package service

import (
	"context"
	"testing"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCrear_OneRowPerSeat(t *testing.T) {
	e := nuevoEntorno(t)
	rec := e.crearRecaudacion(t, "2024-01-01", "2024-01-07")

	assert.Equal(t, "manual", rec.Origen)
	assert.Equal(t, "2024-01-07", rec.FechaFin.String())
	require.NotNil(t, rec.Salon)
	assert.Equal(t, "Salón Central", rec.Salon.Nombre)
	require.Len(t, rec.Detalles, 4)

	seats := map[int64]bool{}
	for _, d := range rec.Detalles {
		require.NotNil(t, d.PuestoID)
		require.NotNil(t, d.Maquina)
		assert.True(t, d.TasaCalculada.IsZero())
		assert.True(t, d.TasaFinal.IsZero())
		seats[*d.PuestoID] = true
	}
	assert.Len(t, seats, 4)
	assert.Empty(t, rec.Ficheros)
}

func TestCrear_MachineWithoutSeats(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	require.NoError(t, e.mem.Catalogo().CreateMaquina(ctx, &model.Maquina{
		SalonID: e.demo.SalonID, TipoMaquinaID: 1, Nombre: "Antigua", Activo: true,
	}))

	rec := e.crearRecaudacion(t, "2024-01-01", "2024-01-07")
	require.Len(t, rec.Detalles, 5)
	sinPuesto := 0
	for _, d := range rec.Detalles {
		if d.PuestoID == nil {
			sinPuesto++
		}
	}
	assert.Equal(t, 1, sinPuesto)
}

func TestCrear_Rejects(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	_, err := e.recs.Crear(ctx, e.admin, dto.CrearRecaudacionRequest{
		SalonID: e.demo.SalonID, FechaInicio: fecha(t, "2024-01-07"), FechaFin: fecha(t, "2024-01-01"),
	})
	se := errorServicio(t, err)
	assert.ErrorIs(t, err, ErrInvalido)
	assert.Contains(t, se.Fields, "FechaFin")

	_, err = e.recs.Crear(ctx, e.admin, dto.CrearRecaudacionRequest{
		SalonID: 999, FechaInicio: fecha(t, "2024-01-01"), FechaFin: fecha(t, "2024-01-07"),
	})
	assert.ErrorIs(t, err, ErrNoEncontrado)

	_, err = e.recs.Crear(ctx, e.operador, dto.CrearRecaudacionRequest{
		SalonID: 999, FechaInicio: fecha(t, "2024-01-01"), FechaFin: fecha(t, "2024-01-07"),
	})
	assert.ErrorIs(t, err, ErrSinPermiso)
}

func TestListar_FiltersByGrid(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	otro := &model.Salon{Nombre: "Salón Norte", Activo: true}
	require.NoError(t, e.mem.Catalogo().CreateSalon(ctx, otro))

	a := e.crearRecaudacion(t, "2024-01-01", "2024-01-07")
	b := e.crearRecaudacion(t, "2024-01-08", "2024-01-14")
	c, err := e.recs.Crear(ctx, e.admin, dto.CrearRecaudacionRequest{
		SalonID: otro.ID, FechaInicio: fecha(t, "2024-02-01"), FechaFin: fecha(t, "2024-02-07"),
	})
	require.NoError(t, err)

	all, err := e.recs.Listar(ctx, e.admin, dto.ListarRecaudacionesFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	mine, err := e.recs.Listar(ctx, e.operador, dto.ListarRecaudacionesFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, b.ID, mine[0].ID)

	_, err = e.recs.Listar(ctx, e.operador, dto.ListarRecaudacionesFilter{SalonID: &otro.ID})
	assert.ErrorIs(t, err, ErrSinPermiso)

	_, err = e.recs.Obtener(ctx, e.operador, c.ID)
	assert.ErrorIs(t, err, ErrNoEncontrado)

	page, err := e.recs.Listar(ctx, e.admin, dto.ListarRecaudacionesFilter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, b.ID, page[0].ID)
}

func TestListar_TotalNeto(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	rec := e.crearRecaudacion(t, "2024-01-01", "2024-01-07")

	retirada, cajon, pago, ajuste := dec("100"), dec("20.50"), dec("5"), dec("-1.25")
	_, err := e.recs.ActualizarDetalle(ctx, e.admin, rec.Detalles[0].ID, dto.ActualizarDetalleRequest{
		RetiradaEfectivo: &retirada, Cajon: &cajon, PagoManual: &pago, TasaAjuste: &ajuste,
	})
	require.NoError(t, err)

	list, err := e.recs.Listar(ctx, e.admin, dto.ListarRecaudacionesFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, dec("114.25").Equal(list[0].TotalNeto), list[0].TotalNeto.String())
}

func TestUltimaFechaFin(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	last, err := e.recs.UltimaFechaFin(ctx, e.operador, e.demo.SalonID)
	require.NoError(t, err)
	assert.Nil(t, last)

	e.crearRecaudacion(t, "2024-01-08", "2024-01-14")
	e.crearRecaudacion(t, "2024-01-01", "2024-01-07")

	last, err = e.recs.UltimaFechaFin(ctx, e.operador, e.demo.SalonID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "2024-01-14", last.String())

	_, err = e.recs.UltimaFechaFin(ctx, e.operador, 999)
	assert.ErrorIs(t, err, ErrSinPermiso)
}

func TestActualizar_PartialAndOverride(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	rec := e.crearRecaudacion(t, "2024-01-01", "2024-01-07")

	etiqueta := "Semana 1"
	depositos := dec("250")
	got, err := e.recs.Actualizar(ctx, e.operador, rec.ID, dto.ActualizarRecaudacionRequest{
		Etiqueta:   &etiqueta,
		Depositos:  &depositos,
		TotalTasas: dto.Valor(dec("80")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Semana 1", got.Etiqueta)
	assert.True(t, depositos.Equal(got.Depositos))
	require.NotNil(t, got.TotalTasas)
	assert.True(t, dec("80").Equal(*got.TotalTasas))
	assert.Len(t, got.Detalles, 4)

	// Absent members leave the stored values alone.
	notas := "revisado"
	got, err = e.recs.Actualizar(ctx, e.operador, rec.ID, dto.ActualizarRecaudacionRequest{Notas: &notas})
	require.NoError(t, err)
	require.NotNil(t, got.TotalTasas)
	assert.Equal(t, "Semana 1", got.Etiqueta)

	got, err = e.recs.Actualizar(ctx, e.operador, rec.ID, dto.ActualizarRecaudacionRequest{
		TotalTasas: dto.Nulo[decimal.Decimal](),
	})
	require.NoError(t, err)
	assert.Nil(t, got.TotalTasas)
	assert.Equal(t, "revisado", got.Notas)
}

func TestActualizar_PeriodoInvalido(t *testing.T) {
	e := nuevoEntorno(t)
	rec := e.crearRecaudacion(t, "2024-01-01", "2024-01-07")

	fin := fecha(t, "2023-12-31")
	_, err := e.recs.Actualizar(context.Background(), e.admin, rec.ID, dto.ActualizarRecaudacionRequest{FechaFin: &fin})
	assert.ErrorIs(t, err, ErrInvalido)

	got, err := e.recs.Obtener(context.Background(), e.admin, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-07", got.FechaFin.String())
}

func TestActualizar_ReadOnlyGrid(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	rec := e.crearRecaudacion(t, "2024-01-01", "2024-01-07")

	require.NoError(t, e.auth.AsignarSalon(ctx, e.demo.OperadorID, dto.SalonAsignado{
		SalonID: e.demo.SalonID, PuedeVer: true,
	}))
	lector := e.acceso(t, e.demo.OperadorID)

	_, err := e.recs.Obtener(ctx, lector, rec.ID)
	require.NoError(t, err)

	notas := "x"
	_, err = e.recs.Actualizar(ctx, lector, rec.ID, dto.ActualizarRecaudacionRequest{Notas: &notas})
	assert.ErrorIs(t, err, ErrSinPermiso)

	v := dec("1")
	_, err = e.recs.ActualizarDetalle(ctx, lector, rec.Detalles[0].ID, dto.ActualizarDetalleRequest{Cajon: &v})
	assert.ErrorIs(t, err, ErrSinPermiso)

	assert.ErrorIs(t, e.recs.Eliminar(ctx, lector, rec.ID), ErrSinPermiso)
}

func TestActualizarDetalle_RecomputesTasaFinal(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	rec := e.crearRecaudacion(t, "2024-01-01", "2024-01-07")
	id := rec.Detalles[0].ID

	stored, err := e.mem.Recaudaciones().FindDetalle(ctx, id)
	require.NoError(t, err)
	stored.TasaCalculada = dec("21.43")
	require.NoError(t, e.mem.Recaudaciones().UpdateDetalle(ctx, stored))

	ajuste := dec("-1.43")
	detalle := "redondeo"
	got, err := e.recs.ActualizarDetalle(ctx, e.operador, id, dto.ActualizarDetalleRequest{
		TasaAjuste: &ajuste, DetalleTasa: &detalle,
	})
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(got.TasaFinal), got.TasaFinal.String())
	assert.Equal(t, "redondeo", got.DetalleTasa)
	require.NotNil(t, got.Maquina)

	cajon := dec("5")
	got, err = e.recs.ActualizarDetalle(ctx, e.operador, id, dto.ActualizarDetalleRequest{Cajon: &cajon})
	require.NoError(t, err)
	assert.True(t, ajuste.Equal(got.TasaAjuste))
	assert.True(t, dec("20").Equal(got.TasaFinal))
	assert.True(t, cajon.Equal(got.Cajon))

	_, err = e.recs.ActualizarDetalle(ctx, e.operador, 9999, dto.ActualizarDetalleRequest{Cajon: &cajon})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestEliminar(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	rec := e.crearRecaudacion(t, "2024-01-01", "2024-01-07")

	require.NoError(t, e.recs.Eliminar(ctx, e.operador, rec.ID))
	_, err := e.recs.Obtener(ctx, e.admin, rec.ID)
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.ErrorIs(t, e.recs.Eliminar(ctx, e.admin, rec.ID), ErrNoEncontrado)
}
