package handler

import (
	"mime"
	"net/http"

	"github.com/pozi78/Casino-Management-System-sub000/internal/middleware"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type FicherosHandler struct {
	svc      service.FicheroService
	maxBytes int64
}

func NewFicherosHandler(svc service.FicheroService, maxBytes int64) *FicherosHandler {
	return &FicherosHandler{svc: svc, maxBytes: maxBytes}
}

func (h *FicherosHandler) Subir(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	up, ok := leerUpload(c, "file", h.maxBytes)
	if !ok {
		return
	}
	resp, err := h.svc.Subir(c.Request.Context(), middleware.GetAcceso(c), id, up.filename, up.contentType, up.contenido)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FicherosHandler) Eliminar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fid, ok := idParam(c, "file_id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetAcceso(c), id, fid); err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Contenido serves the stored bytes inline. The request is authorised either
// by a single-use ?ticket= or by the usual bearer credentials.
func (h *FicherosHandler) Contenido(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fid, ok := idParam(c, "file_id")
	if !ok {
		return
	}

	var (
		f   *model.RecaudacionFichero
		err error
	)
	if ticket := c.Query("ticket"); ticket != "" {
		f, err = h.svc.CanjearTicket(c.Request.Context(), ticket, id, fid)
	} else {
		f, err = h.svc.Obtener(c.Request.Context(), middleware.GetAcceso(c), id, fid)
	}
	if err != nil {
		middleware.Fallo(c, err)
		return
	}

	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": f.Filename}))
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, ct, f.Contenido)
}

func (h *FicherosHandler) Ticket(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fid, ok := idParam(c, "file_id")
	if !ok {
		return
	}
	resp, err := h.svc.EmitirTicket(c.Request.Context(), middleware.GetAcceso(c), id, fid)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
