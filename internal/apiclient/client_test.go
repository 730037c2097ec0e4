package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	token   string
	cleared int
}

func (m *memTokens) Token() (string, error)      { return m.token, nil }
func (m *memTokens) SetToken(token string) error { m.token = token; return nil }
func (m *memTokens) Clear() error {
	m.token = ""
	m.cleared++
	return nil
}

func newTestClient(t *testing.T, setup func(r *gin.Engine)) (*Client, *memTokens) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	tokens := &memTokens{token: "tok"}
	return New(srv.URL, tokens, 5*time.Second), tokens
}

func TestNew_AgregaPrefijo(t *testing.T) {
	assert.Equal(t, "http://h/api/v1", New("http://h/", &memTokens{}, 0).BaseURL())
	assert.Equal(t, "http://h/api/v1", New("http://h/api/v1", &memTokens{}, 0).BaseURL())
}

func TestLogin_GuardaToken(t *testing.T) {
	c, tokens := newTestClient(t, func(r *gin.Engine) {
		r.POST("/api/v1/login/access-token", func(ctx *gin.Context) {
			assert.Empty(t, ctx.GetHeader("Authorization"))
			assert.NotEmpty(t, ctx.GetHeader(RequestIDHeader))
			if ctx.PostForm("username") != "ana" || ctx.PostForm("password") != "secreta" {
				ctx.JSON(http.StatusBadRequest, gin.H{"detail": "Incorrect email or password"})
				return
			}
			ctx.JSON(http.StatusOK, dto.TokenResponse{AccessToken: "nuevo", TokenType: "bearer"})
		})
	})
	tokens.token = ""

	_, err := c.Login(context.Background(), "ana", "mala")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Incorrect email or password", Message(err))
	assert.Zero(t, tokens.cleared)

	resp, err := c.Login(context.Background(), "ana", "secreta")
	require.NoError(t, err)
	assert.Equal(t, "nuevo", resp.AccessToken)
	assert.Equal(t, "nuevo", tokens.token)
}

func TestSend_ClasificaErrores(t *testing.T) {
	cases := []struct {
		status  int
		detail  string
		kind    error
		limpiar bool
	}{
		{http.StatusUnauthorized, "Not authenticated", ErrUnauthorized, true},
		{http.StatusForbidden, "Could not validate credentials", ErrUnauthorized, true},
		{http.StatusBadRequest, "Inactive user", ErrUnauthorized, true},
		{http.StatusNotFound, "User not found", ErrUnauthorized, true},
		{http.StatusForbidden, "No tiene permiso sobre el salon", ErrForbidden, false},
		{http.StatusNotFound, "Recaudacion no encontrada", ErrNotFound, false},
		{http.StatusBadRequest, "JSON invalido", ErrValidation, false},
		{http.StatusUnprocessableEntity, "Error de validacion", ErrValidation, false},
		{http.StatusServiceUnavailable, "db caida", ErrTransient, false},
		{http.StatusTooManyRequests, "despacio", ErrTransient, false},
		{http.StatusConflict, "duplicado", ErrRejected, false},
	}
	for _, tc := range cases {
		t.Run(tc.detail, func(t *testing.T) {
			c, tokens := newTestClient(t, func(r *gin.Engine) {
				r.GET("/api/v1/recaudaciones/:id", func(ctx *gin.Context) {
					ctx.JSON(tc.status, gin.H{"detail": tc.detail})
				})
			})

			_, err := c.GetRecaudacion(context.Background(), 1)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.detail, apiErr.Detail)
			if tc.limpiar {
				assert.Equal(t, 1, tokens.cleared)
				assert.Empty(t, tokens.token)
			} else {
				assert.Zero(t, tokens.cleared)
				assert.Equal(t, "tok", tokens.token)
			}
		})
	}
}

func TestSend_ErrorDeRedEsTransitorio(t *testing.T) {
	c := New("http://127.0.0.1:1", &memTokens{token: "tok"}, time.Second)
	_, err := c.GetRecaudacion(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTransient)
}

func TestParseErrorBody(t *testing.T) {
	detail, fields := parseErrorBody([]byte(`{"detail":[{"loc":["body","salon_id"],"msg":"field required"},{"loc":["body","fecha_fin"],"msg":"invalid date"}]}`))
	assert.Equal(t, "field required; invalid date", detail)
	assert.Equal(t, map[string]string{"salon_id": "field required", "fecha_fin": "invalid date"}, fields)

	detail, fields = parseErrorBody([]byte(`{"detail":"Error de validacion","fields":{"SalonID":"required"}}`))
	assert.Equal(t, "Error de validacion", detail)
	assert.Equal(t, "required", fields["SalonID"])

	detail, fields = parseErrorBody([]byte("502 Bad Gateway\n"))
	assert.Equal(t, "502 Bad Gateway", detail)
	assert.Nil(t, fields)
}

func TestUpdateRecaudacion_NullExplicito(t *testing.T) {
	var raw map[string]json.RawMessage
	c, _ := newTestClient(t, func(r *gin.Engine) {
		r.PUT("/api/v1/recaudaciones/:id", func(ctx *gin.Context) {
			assert.Equal(t, "Bearer tok", ctx.GetHeader("Authorization"))
			require.NoError(t, ctx.ShouldBindJSON(&raw))
			ctx.JSON(http.StatusOK, dto.RecaudacionResponse{ID: 3})
		})
	})

	_, err := c.UpdateRecaudacion(context.Background(), 3, dto.ActualizarRecaudacionRequest{TotalTasas: dto.Nulo[decimal.Decimal]()})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw["total_tasas"]))
	assert.NotContains(t, raw, "depositos")
}

func TestLastFechaFin(t *testing.T) {
	c, _ := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/v1/recaudaciones/last", func(ctx *gin.Context) {
			if ctx.Query("salon_id") == "1" {
				ctx.JSON(http.StatusOK, "2024-01-31")
				return
			}
			ctx.JSON(http.StatusOK, nil)
		})
	})

	f, err := c.LastFechaFin(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", f.String())

	f, err = c.LastFechaFin(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestUploadFichero_Multipart(t *testing.T) {
	c, _ := newTestClient(t, func(r *gin.Engine) {
		r.POST("/api/v1/recaudaciones/:id/files", func(ctx *gin.Context) {
			fh, err := ctx.FormFile("file")
			require.NoError(t, err)
			f, _ := fh.Open()
			b, _ := io.ReadAll(f)
			ctx.JSON(http.StatusCreated, dto.FicheroResponse{ID: 5, Filename: fh.Filename, Size: int64(len(b))})
		})
	})

	f, err := c.UploadFichero(context.Background(), 1, "acta.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "acta.pdf", f.Filename)
	assert.Equal(t, int64(4), f.Size)
}

func TestImportExcel_EnviaMapeoEIgnorados(t *testing.T) {
	c, _ := newTestClient(t, func(r *gin.Engine) {
		r.POST("/api/v1/recaudaciones/:id/import-excel", func(ctx *gin.Context) {
			_, err := ctx.FormFile("file")
			require.NoError(t, err)
			var mappings map[string]int64
			require.NoError(t, json.Unmarshal([]byte(ctx.PostForm("mappings")), &mappings))
			var ignored []string
			require.NoError(t, json.Unmarshal([]byte(ctx.PostForm("ignored")), &ignored))
			assert.Equal(t, map[string]int64{"M1": 7}, mappings)
			assert.Equal(t, []string{"M3"}, ignored)
			ctx.JSON(http.StatusOK, dto.ImportarExcelResponse{Status: "success", Actualizados: 1})
		})
	})

	resp, err := c.ImportExcel(context.Background(), 1, "caja.xlsx", []byte("x"),
		dto.ImportarExcelRequest{Mappings: map[string]int64{"M1": 7}, Ignored: []string{"M3"}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Actualizados)
}

func TestFicheroURL(t *testing.T) {
	tokens := &memTokens{token: "a b"}
	c := New("http://h", tokens, 0)

	u, err := c.FicheroURL(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "http://h/api/v1/recaudaciones/1/files/2/content?token=a+b", u)

	tokens.token = ""
	_, err = c.FicheroURL(1, 2)
	assert.True(t, errors.Is(err, ErrNoToken))

	assert.Equal(t, "http://h/api/v1/recaudaciones/1/files/2/content?ticket=t1", c.TicketURL(1, 2, "t1"))
}

func TestExport_Cabeceras(t *testing.T) {
	c, _ := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/v1/recaudaciones/:id/export", func(ctx *gin.Context) {
			ctx.Header("Content-Disposition", `attachment; filename="Recaudacion_1.xlsx"`)
			ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("PK"))
		})
	})

	d, err := c.Export(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, `attachment; filename="Recaudacion_1.xlsx"`, d.ContentDisposition)
	assert.Equal(t, []byte("PK"), d.Body)
}
