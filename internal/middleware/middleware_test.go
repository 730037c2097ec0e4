package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := engine(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", serve(r, req).Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 65))
	assert.Len(t, serve(r, req).Header().Get(RequestIDHeader), 36)
}

func TestCORS(t *testing.T) {
	r := engine(CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := serve(r, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")

	r = engine(CORS("https://consola.example"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://consola.example")
	assert.Equal(t, "https://consola.example", serve(r, req).Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://otro.example")
	assert.Empty(t, serve(r, req).Header().Get("Access-Control-Allow-Origin"))
}

func TestFallo(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{&service.Error{Kind: service.ErrNoEncontrado, Detail: "Recaudacion no encontrada"}, http.StatusNotFound, "Recaudacion no encontrada"},
		{&service.Error{Kind: service.ErrSinPermiso, Detail: "Not enough permissions"}, http.StatusForbidden, "Not enough permissions"},
		{&service.Error{Kind: service.ErrNoAutenticado, Detail: "Could not validate credentials"}, http.StatusForbidden, "Could not validate credentials"},
		{&service.Error{Kind: service.ErrInvalido, Detail: "Periodo invalido"}, http.StatusBadRequest, "Periodo invalido"},
		{&service.Error{Kind: service.ErrInvalido, Fields: map[string]string{"FechaFin": "gtefield"}}, http.StatusUnprocessableEntity, "Error de validacion"},
		{errors.New("conexion perdida"), http.StatusInternalServerError, "Error interno del servidor"},
	}
	for _, tc := range cases {
		t.Run(tc.detail, func(t *testing.T) {
			r := engine(ErrorHandler())
			r.GET("/", func(c *gin.Context) { Fallo(c, tc.err) })
			w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.status, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.detail, body["detail"])
		})
	}
}

func TestRecovery(t *testing.T) {
	r := engine(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
	assert.Zero(t, l.Purge())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, l.Purge())
	assert.True(t, l.Allow("10.0.0.1"))

	r := engine(NewRateLimiter(0, time.Minute).Handler("Demasiados intentos"))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := serve(r, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}
