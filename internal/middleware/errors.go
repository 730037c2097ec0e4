package middleware

import (
	"errors"
	"net/http"

	"github.com/pozi78/Casino-Management-System-sub000/internal/apierror"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// Fallo writes the response for an error returned by a service. Errors
// outside the service taxonomy are left to ErrorHandler as a 500.
func Fallo(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		_ = c.Error(err)
		c.Abort()
		return
	}
	switch {
	case errors.Is(se, service.ErrNoEncontrado):
		c.AbortWithStatusJSON(http.StatusNotFound, apierror.New(se.Detail))
	case errors.Is(se, service.ErrSinPermiso), errors.Is(se, service.ErrNoAutenticado):
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(se.Detail))
	case errors.Is(se, service.ErrInvalido) && len(se.Fields) > 0:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, apierror.NewValidation(se.Fields))
	case errors.Is(se, service.ErrInvalido):
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New(se.Detail))
	default:
		_ = c.Error(err)
		c.Abort()
	}
}
