package handler

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/pozi78/Casino-Management-System-sub000/internal/apierror"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/middleware"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ImportacionHandler struct {
	svc      service.ImportacionService
	maxBytes int64
}

func NewImportacionHandler(svc service.ImportacionService, maxBytes int64) *ImportacionHandler {
	return &ImportacionHandler{svc: svc, maxBytes: maxBytes}
}

func (h *ImportacionHandler) AnalizarExcel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	up, ok := h.leer(c)
	if !ok {
		return
	}
	resp, err := h.svc.AnalizarFichero(c.Request.Context(), middleware.GetAcceso(c), id, up.filename, up.contenido)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportacionHandler) AnalizarAdjunto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fid, ok := idParam(c, "file_id")
	if !ok {
		return
	}
	resp, err := h.svc.AnalizarAdjunto(c.Request.Context(), middleware.GetAcceso(c), id, fid)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportarExcel takes the sheet as the multipart "file" part plus the
// confirmed "mappings" object and "ignored" list as JSON form fields.
func (h *ImportacionHandler) ImportarExcel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	up, ok := h.leer(c)
	if !ok {
		return
	}
	var req dto.ImportarExcelRequest
	if err := json.Unmarshal([]byte(c.PostForm("mappings")), &req.Mappings); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("mappings invalido: "+err.Error()))
		return
	}
	if ignored := c.PostForm("ignored"); ignored != "" {
		if err := json.Unmarshal([]byte(ignored), &req.Ignored); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("ignored invalido: "+err.Error()))
			return
		}
	}
	if req.Mappings == nil {
		req.Mappings = map[string]int64{}
	}

	resp, err := h.svc.ImportarFichero(c.Request.Context(), middleware.GetAcceso(c), id, up.filename, up.contenido, req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportacionHandler) ImportarAdjunto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fid, ok := idParam(c, "file_id")
	if !ok {
		return
	}
	var req dto.ImportarExcelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ImportarAdjunto(c.Request.Context(), middleware.GetAcceso(c), id, fid, req)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportacionHandler) Exportar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	name, contenido, err := h.svc.Exportar(c.Request.Context(), middleware.GetAcceso(c), id)
	if err != nil {
		middleware.Fallo(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, xlsxContentType, contenido)
}

func (h *ImportacionHandler) leer(c *gin.Context) (*upload, bool) {
	up, ok := leerUpload(c, "file", h.maxBytes)
	if !ok {
		return nil, false
	}
	if h.maxBytes > 0 && int64(len(up.contenido)) > h.maxBytes {
		c.JSON(http.StatusBadRequest, apierror.New("El fichero es demasiado grande"))
		return nil, false
	}
	return up, true
}
