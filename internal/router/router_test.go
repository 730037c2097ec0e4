package router_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/apiclient"
	"github.com/pozi78/Casino-Management-System-sub000/internal/config"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/middleware"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/recaudacion"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"
	"github.com/pozi78/Casino-Management-System-sub000/internal/router"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"
	"github.com/pozi78/Casino-Management-System-sub000/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const password = "secreto123"

type testEnv struct {
	srv  *httptest.Server
	mem  *repository.Memoria
	demo *service.Demo
}

func setupTestEnv(t *testing.T, limiter *middleware.RateLimiter) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test_jwt_secret_32_chars_minimum!",
		JWTExpirationHours: 8,
		TicketTTLSeconds:   60,
		MaxUploadMB:        2,
	}
	mem := repository.NewMemoria()
	deps := router.MemoryDeps(cfg, mem, nil)
	deps.LoginLimiter = limiter

	demo, err := service.SembrarDemo(context.Background(), service.NewAuthService(mem.Usuarios(), cfg), mem.Catalogo(), password)
	require.NoError(t, err)

	srv := httptest.NewServer(router.New(deps))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, mem: mem, demo: demo}
}

func (e *testEnv) client(t *testing.T, username string) (*apiclient.Client, *session.MemoryStore) {
	t.Helper()
	tokens := session.NewMemoryStore("")
	c := apiclient.New(e.srv.URL, tokens, 5*time.Second)
	if username != "" {
		_, err := c.Login(context.Background(), username, password)
		require.NoError(t, err)
	}
	return c, tokens
}

func fecha(t *testing.T, s string) dto.Fecha {
	t.Helper()
	f, err := dto.ParseFecha(s)
	require.NoError(t, err)
	return f
}

func semana(t *testing.T) []byte {
	t.Helper()
	rows := [][]any{
		{"Máquina", "Retirada", "Cajón", "Pago manual", "Tasa"},
		{"Ruleta 1", 100, 20, 5, 10.71},
		{"Cirsa Mega", 1200.5, 35, 12, 12.86},
		{"Cafetera", 3, 0, 0, 0},
	}
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

func TestHealth_MemoryMode(t *testing.T) {
	e := setupTestEnv(t, nil)

	resp, err := http.Get(e.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "memory", body["db"])
	assert.Equal(t, "disabled", body["redis"])
}

func TestLoginAndMe(t *testing.T) {
	e := setupTestEnv(t, nil)
	c, tokens := e.client(t, "operador")

	tok, err := tokens.Token()
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "operador", me.Username)
	require.Len(t, me.SalonesAsignados, 1)
	assert.Equal(t, e.demo.SalonID, me.SalonesAsignados[0].SalonID)
}

func TestLogin_WrongPasswordKeepsNoToken(t *testing.T) {
	e := setupTestEnv(t, nil)
	c, tokens := e.client(t, "")

	_, err := c.Login(context.Background(), "operador", "incorrecta")
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Equal(t, "Incorrect email or password", apiclient.Message(err))

	tok, _ := tokens.Token()
	assert.Empty(t, tok)
}

func TestAuth_RejectedTokenClearsCredential(t *testing.T) {
	e := setupTestEnv(t, nil)
	tokens := session.NewMemoryStore("no-es-un-jwt")
	c := apiclient.New(e.srv.URL, tokens, 5*time.Second)

	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	tok, _ := tokens.Token()
	assert.Empty(t, tok)

	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized, "no credential at all is a 401")
}

func TestAuth_QueryTokenRejectedOutsideFileContent(t *testing.T) {
	e := setupTestEnv(t, nil)
	_, tokens := e.client(t, "admin")
	tok, err := tokens.Token()
	require.NoError(t, err)
	q := "?token=" + url.QueryEscape(tok)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/recaudaciones/"},
		{http.MethodDelete, "/api/v1/recaudaciones/999999"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, e.srv.URL+tc.path+q, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	e := setupTestEnv(t, middleware.NewRateLimiter(2, time.Minute))
	form := url.Values{"username": {"operador"}, "password": {"mal"}}

	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.PostForm(e.srv.URL+"/api/v1/login/access-token", form)
		require.NoError(t, err)
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRecordWorkflow(t *testing.T) {
	e := setupTestEnv(t, nil)
	ctx := context.Background()
	c, _ := e.client(t, "operador")
	records := recaudacion.NewRecords(c)

	_, err := records.Create(ctx, dto.CrearRecaudacionRequest{
		SalonID: e.demo.SalonID, FechaInicio: fecha(t, "2024-01-07"), FechaFin: fecha(t, "2024-01-01"),
		FechaCierre: fecha(t, "2024-01-07"),
	})
	assert.ErrorIs(t, err, recaudacion.ErrInvalidRecord)

	created, err := records.Create(ctx, dto.CrearRecaudacionRequest{
		SalonID: e.demo.SalonID, FechaInicio: fecha(t, "2024-01-01"), FechaFin: fecha(t, "2024-01-07"),
		FechaCierre: fecha(t, "2024-01-07"),
	})
	require.NoError(t, err)
	require.Len(t, created.Detalles, 4)

	next, err := records.NextStart(ctx, e.demo.SalonID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "2024-01-07", next.String())

	store := recaudacion.NewStore(c)
	require.NoError(t, store.Load(ctx, created.ID))
	rows := store.Snapshot().Detalles
	assert.Equal(t, "Bingo Max", rows[0].Maquina.Nombre)

	// Field edit round trip.
	row := rows[0].ID
	require.NoError(t, store.Edit(ctx, row, recaudacion.FieldRetiradaEfectivo, decimal.RequireFromString("150")))
	require.NoError(t, store.Edit(ctx, row, recaudacion.FieldTasaAjuste, decimal.RequireFromString("-2.5")))
	assert.Equal(t, recaudacion.SaveSaved, store.Status(row, recaudacion.FieldTasaAjuste).State)
	require.NoError(t, store.UpdateGlobalField(ctx, recaudacion.GlobalDepositos, decimal.RequireFromString("40")))

	require.NoError(t, store.Reload(ctx))
	snap := store.Snapshot()
	assert.True(t, decimal.RequireFromString("-2.5").Equal(snap.Detalles[0].TasaFinal))
	tot := store.Totals()
	assert.True(t, decimal.RequireFromString("150").Equal(tot.TotalRecaudado))

	// Import through the reconciler.
	mapping := recaudacion.NewMappingSession(c, store, created.ID)
	require.NoError(t, mapping.AnalyzeFile(ctx, "semana.xlsx", semana(t)))
	require.Len(t, mapping.Names(), 3)
	a, ok := mapping.Assignment("Cirsa Mega")
	require.True(t, ok)
	assert.Equal(t, recaudacion.Assigned, a.Kind)
	require.NoError(t, mapping.Ignore("Cafetera"))
	res, err := mapping.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Actualizados)
	assert.Equal(t, "importacion", store.Snapshot().Origen)

	// Export names the file after the venue and the period.
	name, body, err := store.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Recaudacion_Salón_Central_2024-01-01.xlsx", name)
	assert.NotEmpty(t, body)

	list, err := records.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, records.Delete(ctx, created.ID, "borrar"), recaudacion.ErrConfirmation)
	require.NoError(t, records.Delete(ctx, created.ID, recaudacion.DeletePhrase))
	_, err = c.GetRecaudacion(ctx, created.ID)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}

func TestAttachments(t *testing.T) {
	e := setupTestEnv(t, nil)
	ctx := context.Background()
	c, _ := e.client(t, "operador")

	rec, err := c.CreateRecaudacion(ctx, dto.CrearRecaudacionRequest{
		SalonID: e.demo.SalonID, FechaInicio: fecha(t, "2024-01-01"), FechaFin: fecha(t, "2024-01-07"),
		FechaCierre: fecha(t, "2024-01-07"),
	})
	require.NoError(t, err)

	store := recaudacion.NewStore(c)
	require.NoError(t, store.Load(ctx, rec.ID))
	f, err := store.UploadAttachment(ctx, "ticket.txt", strings.NewReader("hola"))
	require.NoError(t, err)
	require.Len(t, store.Snapshot().Ficheros, 1)

	get := func(u string) (int, string, string) {
		resp, err := http.Get(u)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, resp.Header.Get("Content-Disposition"), string(b)
	}

	u, err := store.AttachmentURL(f.ID)
	require.NoError(t, err)
	status, disp, body := get(u)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hola", body)
	assert.Contains(t, disp, "inline")

	tu, ttl, err := store.AttachmentTicketURL(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)
	status, _, body = get(tu)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hola", body)
	status, _, _ = get(tu)
	assert.Equal(t, http.StatusForbidden, status, "tickets are single use")

	// Analysis of an attachment that is not a spreadsheet.
	mapping := recaudacion.NewMappingSession(c, store, rec.ID)
	err = mapping.AnalyzeAttachment(ctx, f.ID)
	assert.ErrorIs(t, err, recaudacion.ErrAnalysisFailure)
	assert.Equal(t, recaudacion.MappingIdle, mapping.State())

	require.NoError(t, store.DeleteAttachment(ctx, f.ID, recaudacion.ConfirmFunc(func(string) bool { return true })))
	assert.Empty(t, store.Snapshot().Ficheros)
}

func TestGridHidesOtherVenues(t *testing.T) {
	e := setupTestEnv(t, nil)
	ctx := context.Background()
	admin, _ := e.client(t, "admin")
	op, _ := e.client(t, "operador")

	norte := &model.Salon{Nombre: "Salón Norte", Activo: true}
	require.NoError(t, e.mem.Catalogo().CreateSalon(ctx, norte))
	otro, err := admin.CreateRecaudacion(ctx, dto.CrearRecaudacionRequest{
		SalonID: norte.ID, FechaInicio: fecha(t, "2024-01-01"), FechaFin: fecha(t, "2024-01-07"),
		FechaCierre: fecha(t, "2024-01-07"),
	})
	require.NoError(t, err)

	_, err = op.GetRecaudacion(ctx, otro.ID)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)

	_, err = op.ListRecaudaciones(ctx, &norte.ID, 0, 0)
	assert.ErrorIs(t, err, apiclient.ErrForbidden)
}

func TestCatalogo_AdminBuildsVenue(t *testing.T) {
	e := setupTestEnv(t, nil)
	ctx := context.Background()
	admin, _ := e.client(t, "admin")
	op, _ := e.client(t, "operador")

	norte, err := admin.CreateSalon(ctx, dto.CrearSalonRequest{Nombre: "Salón Norte"})
	require.NoError(t, err)
	tipo, err := admin.CreateTipoMaquina(ctx, dto.CrearTipoMaquinaRequest{Nombre: "Ruleta", TasaSemanalBase: decimal.NewFromInt(150), TasaPorPuesto: true})
	require.NoError(t, err)
	m, err := admin.CreateMaquina(ctx, dto.CrearMaquinaRequest{SalonID: norte.ID, TipoMaquinaID: tipo.ID, Nombre: "Ruleta N", Puestos: 3})
	require.NoError(t, err)
	assert.Len(t, m.Puestos, 3)

	maquinas, err := admin.ListMaquinas(ctx, &norte.ID)
	require.NoError(t, err)
	require.Len(t, maquinas, 1)
	assert.Equal(t, "Ruleta N", maquinas[0].Nombre)

	u, err := admin.CreateUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "norte", Nombre: "Encargado Norte", Email: "norte@example.com", Password: "secreto123",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = admin.CreateUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "norte", Nombre: "Otro", Password: "secreto123",
	})
	assert.ErrorIs(t, err, apiclient.ErrValidation)

	// Operators only see their venue and cannot change the catalogue.
	salones, err := op.ListSalones(ctx)
	require.NoError(t, err)
	require.Len(t, salones, 1)
	assert.Equal(t, e.demo.SalonID, salones[0].ID)

	_, err = op.CreateSalon(ctx, dto.CrearSalonRequest{Nombre: "Sur"})
	assert.ErrorIs(t, err, apiclient.ErrForbidden)
	_, err = op.ListMaquinas(ctx, &norte.ID)
	assert.ErrorIs(t, err, apiclient.ErrForbidden)
	_, err = op.CreateUsuario(ctx, dto.CrearUsuarioRequest{Username: "x", Nombre: "x", Password: "secreto123"})
	assert.ErrorIs(t, err, apiclient.ErrForbidden)
}

func TestCatalogo_DeleteDeactivates(t *testing.T) {
	e := setupTestEnv(t, nil)
	_, tokens := e.client(t, "admin")
	tok, err := tokens.Token()
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, e.srv.URL+"/api/v1/machines/"+strconv.FormatInt(e.demo.MaquinaIDs["Bingo Max"], 10), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m dto.MaquinaResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.False(t, m.Activo)
	assert.Equal(t, "Bingo Max", m.Nombre)
}
