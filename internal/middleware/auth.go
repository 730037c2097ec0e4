package middleware

import (
	"net/http"
	"strings"

	"github.com/pozi78/Casino-Management-System-sub000/internal/apierror"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	UsuarioKey = "usuario"
	AccesoKey  = "acceso"
)

// Auth resolves the Authorization bearer token into the current user and
// its venue grid. Query tokens are not accepted here.
func Auth(svc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if autenticar(c, svc, bearer(c)) {
			c.Next()
		}
	}
}

// AuthOTicket guards file content links opened outside the client.
// Requests carrying ?ticket= pass untouched and the handler redeems the
// ticket; otherwise the bearer header or ?token= is checked.
func AuthOTicket(svc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("ticket") != "" {
			c.Next()
			return
		}
		token := bearer(c)
		if token == "" {
			token = c.Query("token")
		}
		if autenticar(c, svc, token) {
			c.Next()
		}
	}
}

// RequireAdmin rejects users without the admin role. It runs after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetAcceso(c).Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Not enough permissions"))
			return
		}
		c.Next()
	}
}

func autenticar(c *gin.Context, svc service.AuthService, token string) bool {
	if token == "" {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.DetalleNoAutenticado))
		return false
	}
	u, err := svc.Autenticar(c.Request.Context(), token)
	if err != nil {
		Fallo(c, err)
		return false
	}
	c.Set(UsuarioKey, u)
	c.Set(AccesoKey, service.AccesoDe(u))
	return true
}

func bearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if t, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(t)
	}
	return ""
}

// GetUsuario returns the authenticated user, or nil on ticket requests.
func GetUsuario(c *gin.Context) *model.Usuario {
	u, _ := c.Get(UsuarioKey)
	usuario, _ := u.(*model.Usuario)
	return usuario
}

func GetAcceso(c *gin.Context) service.Acceso {
	a, _ := c.Get(AccesoKey)
	acc, _ := a.(service.Acceso)
	return acc
}
