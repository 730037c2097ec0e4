package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pozi78/Casino-Management-System-sub000/internal/apierror"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"

	"github.com/gin-gonic/gin"
)

// bindAndValidate binds the JSON body and runs the validator tags.
// Returns false after writing the error response; the caller should return
// without writing another one.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.JSONInvalido(err))
		return false
	}
	if fields := dto.Validate(req); fields != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	if fields := dto.Validate(req); fields != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return 0, false
	}
	return id, true
}

// upload is a file read from a multipart form.
type upload struct {
	filename    string
	contentType string
	contenido   []byte
}

// leerUpload reads the multipart part named field. At most limit+1 bytes are
// read so oversized files can still be rejected with a clear message.
func leerUpload(c *gin.Context, field string, limit int64) (*upload, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(fmt.Sprintf("Falta el fichero %q", field)))
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	contenido, err := io.ReadAll(r)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return &upload{
		filename:    fh.Filename,
		contentType: fh.Header.Get("Content-Type"),
		contenido:   contenido,
	}, true
}
