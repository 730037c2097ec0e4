package recaudacion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pozi78/Casino-Management-System-sub000/internal/apiclient"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/recaudacion/mocks"
	"github.com/pozi78/Casino-Management-System-sub000/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedStore(t *testing.T, opts ...Option) (*Store, *mocks.MockRecordAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockRecordAPI(ctrl)
	api.EXPECT().GetRecaudacion(gomock.Any(), int64(10)).Return(recaudacionDemo(), nil)
	s := NewStore(api, opts...)
	require.NoError(t, s.Load(context.Background(), 10))
	return s, api
}

func ids(rec *dto.RecaudacionResponse) []int64 {
	out := make([]int64, 0, len(rec.Detalles))
	for _, d := range rec.Detalles {
		out = append(out, d.ID)
	}
	return out
}

func TestLoad_OrdenaPorMaquinaYPuesto(t *testing.T) {
	s, _ := loadedStore(t)
	// Árbol < Bingo < Ruleta#1 < ruleta#2 under Spanish collation ignoring case
	assert.Equal(t, []int64{4, 1, 2, 3}, ids(s.Snapshot()))
}

func TestLoad_NotFoundConservaEstado(t *testing.T) {
	s, api := loadedStore(t)
	before := s.Snapshot()

	api.EXPECT().GetRecaudacion(gomock.Any(), int64(99)).
		Return(nil, &apiclient.Error{Status: 404, Detail: "Recaudacion no encontrada"})
	err := s.Load(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, int64(10), s.ID())
}

func TestLoad_ErrorTransitorioConservaEstado(t *testing.T) {
	s, api := loadedStore(t)
	before := s.Snapshot()

	cause := errors.New("connection refused")
	api.EXPECT().GetRecaudacion(gomock.Any(), int64(10)).Return(nil, cause)
	err := s.Reload(context.Background())

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, before, s.Snapshot())
}

func TestReload_SinCargar(t *testing.T) {
	s := NewStore(mocks.NewMockRecordAPI(gomock.NewController(t)))
	assert.ErrorIs(t, s.Reload(context.Background()), ErrNotLoaded)
	assert.Nil(t, s.Snapshot())
}

func TestApplyLocalEdit_ConservaIdentidadDeFilas(t *testing.T) {
	s, _ := loadedStore(t)
	before := ids(s.Snapshot())

	for _, f := range Fields {
		assert.True(t, s.ApplyLocalEdit(1, f, dec("7")))
	}
	assert.Equal(t, before, ids(s.Snapshot()))
}

func TestApplyLocalEdit_AjusteRecalculaTasaFinal(t *testing.T) {
	s, _ := loadedStore(t)

	s.ApplyLocalEdit(2, FieldTasaAjuste, dec("-1.5"))

	row := s.Snapshot().Detalles[2]
	require.Equal(t, int64(2), row.ID)
	assertDec(t, "-1.5", row.TasaAjuste, "ajuste")
	assertDec(t, "3.5", row.TasaFinal, "tasa final")
}

func TestApplyLocalEdit_Idempotente(t *testing.T) {
	s, _ := loadedStore(t)

	s.ApplyLocalEdit(1, FieldCajon, dec("33"))
	once := s.Snapshot()
	s.ApplyLocalEdit(1, FieldCajon, dec("33"))

	assert.Equal(t, once, s.Snapshot())
}

func TestApplyLocalEdit_FilaOCampoDesconocido(t *testing.T) {
	s, _ := loadedStore(t)
	before := s.Snapshot()

	assert.False(t, s.ApplyLocalEdit(999, FieldCajon, dec("1")))
	assert.False(t, s.ApplyLocalEdit(1, Field("tasa_calculada"), dec("1")))
	assert.Equal(t, before, s.Snapshot())
}

func TestApplyLocalEdit_TotalesSiguenLaEdicion(t *testing.T) {
	s, _ := loadedStore(t)
	before := s.Totals()

	s.ApplyLocalEdit(1, FieldRetiradaEfectivo, dec("150")) // was 100

	assertDec(t, before.TotalRecaudado.Add(dec("50")).String(), s.Totals().TotalRecaudado, "totalRecaudado")
}

func TestPersistField_AdoptaTasaFinalDelServidor(t *testing.T) {
	s, api := loadedStore(t)
	s.ApplyLocalEdit(2, FieldTasaAjuste, dec("1"))

	api.EXPECT().UpdateDetalle(gomock.Any(), int64(2), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, req dto.ActualizarDetalleRequest) (*dto.DetalleResponse, error) {
			require.NotNil(t, req.TasaAjuste)
			assert.Nil(t, req.Cajon)
			assertDec(t, "1", *req.TasaAjuste, "payload")
			return &dto.DetalleResponse{ID: 2, TasaCalculada: dec("5.01"), TasaAjuste: dec("1"), TasaFinal: dec("6.01")}, nil
		})

	require.NoError(t, s.PersistField(context.Background(), 2, FieldTasaAjuste, dec("1")))
	assert.Equal(t, SaveSaved, s.Status(2, FieldTasaAjuste).State)
	row := s.Snapshot().Detalles[2]
	assertDec(t, "5.01", row.TasaCalculada, "tasa calculada")
	assertDec(t, "6.01", row.TasaFinal, "tasa final")
}

func TestPersistField_OtroCampoNoPisaAjusteLocal(t *testing.T) {
	s, api := loadedStore(t)
	s.ApplyLocalEdit(1, FieldTasaAjuste, dec("7"))
	s.ApplyLocalEdit(1, FieldCajon, dec("3"))

	// The server still holds the previous adjustment.
	api.EXPECT().UpdateDetalle(gomock.Any(), int64(1), gomock.Any()).
		Return(&dto.DetalleResponse{ID: 1, TasaCalculada: dec("10"), TasaAjuste: dec("0"), TasaFinal: dec("10")}, nil)

	require.NoError(t, s.PersistField(context.Background(), 1, FieldCajon, dec("3")))

	row := s.Snapshot().Detalles[1]
	require.Equal(t, int64(1), row.ID)
	assertDec(t, "7", row.TasaAjuste, "ajuste")
	assertDec(t, "17", row.TasaFinal, "tasa final")
}

func TestPersistField_AjusteMasNuevoPendiente(t *testing.T) {
	s, api := loadedStore(t)
	s.ApplyLocalEdit(1, FieldTasaAjuste, dec("2"))

	api.EXPECT().UpdateDetalle(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ dto.ActualizarDetalleRequest) (*dto.DetalleResponse, error) {
			s.ApplyLocalEdit(1, FieldTasaAjuste, dec("4"))
			return &dto.DetalleResponse{ID: 1, TasaCalculada: dec("10"), TasaAjuste: dec("2"), TasaFinal: dec("12")}, nil
		})

	require.NoError(t, s.PersistField(context.Background(), 1, FieldTasaAjuste, dec("2")))

	row := s.Snapshot().Detalles[1]
	assertDec(t, "4", row.TasaAjuste, "ajuste")
	assertDec(t, "14", row.TasaFinal, "tasa final")
}

// A failed save keeps the optimistic value (no rollback) and marks the field.
func TestPersistField_RechazoConservaValorOptimista(t *testing.T) {
	s, api := loadedStore(t)
	cause := &apiclient.Error{Status: 503, Detail: "Service Unavailable"}

	s.ApplyLocalEdit(1, FieldCajon, dec("55"))
	api.EXPECT().UpdateDetalle(gomock.Any(), int64(1), gomock.Any()).Return(nil, cause)

	err := s.PersistField(context.Background(), 1, FieldCajon, dec("55"))

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assertDec(t, "55", s.Snapshot().Detalles[1].Cajon, "valor local")
	st := s.Status(1, FieldCajon)
	assert.Equal(t, SaveFailed, st.State)
	assert.ErrorIs(t, st.Err, cause)
	assert.Len(t, s.Failed(), 1)
}

func TestPersistField_CampoNoEditable(t *testing.T) {
	s, _ := loadedStore(t)
	assert.Error(t, s.PersistField(context.Background(), 1, Field("tasa_final"), dec("1")))
}

func TestPersistField_TimeoutMarcaFallo(t *testing.T) {
	s, api := loadedStore(t, WithSaveTimeout(10*time.Millisecond))

	api.EXPECT().UpdateDetalle(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ int64, _ dto.ActualizarDetalleRequest) (*dto.DetalleResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	err := s.PersistField(context.Background(), 1, FieldPagoManual, dec("3"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, SaveFailed, s.Status(1, FieldPagoManual).State)
}

func TestPersistFeeDetail(t *testing.T) {
	s, api := loadedStore(t)
	assert.True(t, s.SetFeeDetail(1, "tasa reducida"))

	api.EXPECT().UpdateDetalle(gomock.Any(), int64(1), dto.ActualizarDetalleRequest{DetalleTasa: strPtr("tasa reducida")}).
		Return(&dto.DetalleResponse{ID: 1, TasaFinal: dec("10")}, nil)

	require.NoError(t, s.PersistFeeDetail(context.Background(), 1, "tasa reducida"))
	assert.Equal(t, "tasa reducida", s.Snapshot().Detalles[1].DetalleTasa)
}

func strPtr(s string) *string { return &s }

func TestPersistFieldAsync_SinDispatcher(t *testing.T) {
	s, _ := loadedStore(t)
	assert.ErrorIs(t, s.PersistFieldAsync(1, FieldCajon, dec("1"), nil), ErrNoDispatcher)
}

func TestPersistFieldAsync_GuardadosConcurrentes(t *testing.T) {
	pool := worker.NewDispatcher(8, time.Second)
	pool.Start(context.Background(), 4)
	defer pool.Stop()

	s, api := loadedStore(t, WithDispatcher(pool))
	api.EXPECT().UpdateDetalle(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&dto.DetalleResponse{TasaFinal: dec("0")}, nil).Times(3)

	var wg sync.WaitGroup
	wg.Add(3)
	done := func(err error) {
		assert.NoError(t, err)
		wg.Done()
	}
	for _, f := range []Field{FieldRetiradaEfectivo, FieldCajon, FieldPagoManual} {
		s.ApplyLocalEdit(1, f, dec("9"))
		require.NoError(t, s.PersistFieldAsync(1, f, dec("9"), done))
	}
	wg.Wait()

	for _, f := range []Field{FieldRetiradaEfectivo, FieldCajon, FieldPagoManual} {
		assert.Equal(t, SaveSaved, s.Status(1, f).State)
	}
}

func TestStatus_RespuestaAntiguaNoPisaLaNueva(t *testing.T) {
	s, api := loadedStore(t)
	ref := FieldRef{RowID: 1, Field: string(FieldCajon)}

	first := s.begin(ref)
	api.EXPECT().UpdateDetalle(gomock.Any(), int64(1), gomock.Any()).
		Return(&dto.DetalleResponse{ID: 1, TasaFinal: dec("10")}, nil)
	require.NoError(t, s.PersistField(context.Background(), 1, FieldCajon, dec("2")))

	s.finish(ref, first, errors.New("late failure"))
	assert.Equal(t, SaveSaved, s.Status(1, FieldCajon).State)
}

func TestUpdateGlobalField(t *testing.T) {
	s, api := loadedStore(t)

	api.EXPECT().UpdateRecaudacion(gomock.Any(), int64(10), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, req dto.ActualizarRecaudacionRequest) (*dto.RecaudacionResponse, error) {
			assert.True(t, req.TotalTasas.Set)
			assertDec(t, "20", req.TotalTasas.Valor, "override")
			assert.Nil(t, req.Depositos)
			return recaudacionDemo(), nil
		})
	require.NoError(t, s.UpdateGlobalField(context.Background(), GlobalTotalTasas, dec("20")))

	api.EXPECT().UpdateRecaudacion(gomock.Any(), int64(10), gomock.Any()).Return(nil, errors.New("boom"))
	err := s.UpdateGlobalField(context.Background(), GlobalDepositos, dec("100"))
	require.Error(t, err)

	snap := s.Snapshot()
	assertDec(t, "20", *snap.TotalTasas, "override")
	assertDec(t, "100", snap.Depositos, "depositos se mantiene")
	assert.Equal(t, SaveFailed, s.GlobalStatus(GlobalDepositos).State)
	assert.Equal(t, SaveSaved, s.GlobalStatus(GlobalTotalTasas).State)
}

func TestClearFeeOverride(t *testing.T) {
	s, api := loadedStore(t)
	api.EXPECT().UpdateRecaudacion(gomock.Any(), int64(10), gomock.Any()).Return(recaudacionDemo(), nil)
	api.EXPECT().UpdateRecaudacion(gomock.Any(), int64(10), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, req dto.ActualizarRecaudacionRequest) (*dto.RecaudacionResponse, error) {
			assert.True(t, req.TotalTasas.Null)
			return recaudacionDemo(), nil
		})

	require.NoError(t, s.UpdateGlobalField(context.Background(), GlobalTotalTasas, dec("5")))
	require.NoError(t, s.ClearFeeOverride(context.Background()))
	assert.Nil(t, s.Snapshot().TotalTasas)
	assertDec(t, "0", s.Totals().DiferenciaTasas, "diferencia")
}

func TestUpdateGlobalField_SinCargar(t *testing.T) {
	s := NewStore(mocks.NewMockRecordAPI(gomock.NewController(t)))
	assert.ErrorIs(t, s.UpdateGlobalField(context.Background(), GlobalDepositos, dec("1")), ErrNotLoaded)
}

func TestSnapshot_EsUnaCopia(t *testing.T) {
	s, _ := loadedStore(t)
	snap := s.Snapshot()
	snap.Detalles[0].Cajon = dec("999")
	assert.False(t, s.Snapshot().Detalles[0].Cajon.Equal(dec("999")))
}

func TestParseFields(t *testing.T) {
	f, ok := ParseField("cajon")
	assert.True(t, ok)
	assert.Equal(t, FieldCajon, f)
	_, ok = ParseField("tasa_final")
	assert.False(t, ok)

	g, ok := ParseGlobalField("depositos")
	assert.True(t, ok)
	assert.Equal(t, GlobalDepositos, g)
	_, ok = ParseGlobalField("nada")
	assert.False(t, ok)
}
