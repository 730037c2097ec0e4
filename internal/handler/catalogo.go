package handler

import (
	"net/http"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/middleware"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type SalonesHandler struct{ svc service.CatalogoService }

func NewSalonesHandler(svc service.CatalogoService) *SalonesHandler {
	return &SalonesHandler{svc: svc}
}

// Listar GET /salones/
func (h *SalonesHandler) Listar(c *gin.Context) {
	var p dto.PaginaFilter
	if !bindQuery(c, &p) {
		return
	}
	resp, err := h.svc.ListarSalones(c.Request.Context(), middleware.GetAcceso(c), p)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalonesHandler) Obtener(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerSalon(c.Request.Context(), middleware.GetAcceso(c), id)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalonesHandler) Crear(c *gin.Context) {
	var req dto.CrearSalonRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearSalon(c.Request.Context(), middleware.GetAcceso(c), req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalonesHandler) Actualizar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarSalonRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarSalon(c.Request.Context(), middleware.GetAcceso(c), id, req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar DELETE /salones/:id answers with the deactivated venue.
func (h *SalonesHandler) Desactivar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.DesactivarSalon(c.Request.Context(), middleware.GetAcceso(c), id)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type MaquinasHandler struct{ svc service.CatalogoService }

func NewMaquinasHandler(svc service.CatalogoService) *MaquinasHandler {
	return &MaquinasHandler{svc: svc}
}

func (h *MaquinasHandler) ListarTipos(c *gin.Context) {
	var p dto.PaginaFilter
	if !bindQuery(c, &p) {
		return
	}
	resp, err := h.svc.ListarTipos(c.Request.Context(), p)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaquinasHandler) CrearTipo(c *gin.Context) {
	var req dto.CrearTipoMaquinaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTipo(c.Request.Context(), middleware.GetAcceso(c), req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /machines/?salon_id=
func (h *MaquinasHandler) Listar(c *gin.Context) {
	var f dto.ListarMaquinasFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.ListarMaquinas(c.Request.Context(), middleware.GetAcceso(c), f)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaquinasHandler) Obtener(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerMaquina(c.Request.Context(), middleware.GetAcceso(c), id)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaquinasHandler) Crear(c *gin.Context) {
	var req dto.CrearMaquinaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearMaquina(c.Request.Context(), middleware.GetAcceso(c), req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MaquinasHandler) Actualizar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMaquinaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarMaquina(c.Request.Context(), middleware.GetAcceso(c), id, req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaquinasHandler) Desactivar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.DesactivarMaquina(c.Request.Context(), middleware.GetAcceso(c), id)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
