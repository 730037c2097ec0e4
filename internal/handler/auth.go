package handler

import (
	"net/http"

	"github.com/pozi78/Casino-Management-System-sub000/internal/apierror"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/middleware"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login takes the OAuth2 password-flow form (username, password).
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formulario invalido"))
		return
	}
	if fields := dto.Validate(req); fields != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, service.MapUsuario(middleware.GetUsuario(c)))
}

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	var p dto.PaginaFilter
	if !bindQuery(c, &p) {
		return
	}
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), p)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
