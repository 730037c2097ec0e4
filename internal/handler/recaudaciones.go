package handler

import (
	"net/http"

	"github.com/pozi78/Casino-Management-System-sub000/internal/apierror"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/middleware"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type RecaudacionesHandler struct{ svc service.RecaudacionService }

func NewRecaudacionesHandler(svc service.RecaudacionService) *RecaudacionesHandler {
	return &RecaudacionesHandler{svc: svc}
}

func (h *RecaudacionesHandler) Listar(c *gin.Context) {
	var filter dto.ListarRecaudacionesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetAcceso(c), filter)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ultima returns the latest fecha_fin of a venue, or null.
func (h *RecaudacionesHandler) Ultima(c *gin.Context) {
	var q struct {
		SalonID int64 `form:"salon_id" binding:"required"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("salon_id requerido"))
		return
	}
	last, err := h.svc.UltimaFechaFin(c.Request.Context(), middleware.GetAcceso(c), q.SalonID)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, last)
}

func (h *RecaudacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearRecaudacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.GetAcceso(c), req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecaudacionesHandler) Obtener(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.GetAcceso(c), id)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecaudacionesHandler) Actualizar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarRecaudacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetAcceso(c), id, req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecaudacionesHandler) Eliminar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetAcceso(c), id); err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecaudacionesHandler) ActualizarDetalle(c *gin.Context) {
	id, ok := idParam(c, "detail_id")
	if !ok {
		return
	}
	var req dto.ActualizarDetalleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Vacio() {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.DetalleVacio))
		return
	}
	resp, err := h.svc.ActualizarDetalle(c.Request.Context(), middleware.GetAcceso(c), id, req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
