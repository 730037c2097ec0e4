package recaudacion

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// FallbackExportName is used when the server does not name the export.
func FallbackExportName(id int64) string {
	return fmt.Sprintf("recaudacion_%d.xlsx", id)
}

// ExportFilename takes the file name from a Content-Disposition header
// (filename* or filename), falling back to FallbackExportName when the
// header is missing, unparseable or names nothing usable.
func ExportFilename(contentDisposition string, id int64) string {
	if strings.TrimSpace(contentDisposition) == "" {
		return FallbackExportName(id)
	}
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return FallbackExportName(id)
	}
	name := filepath.Base(strings.ReplaceAll(params["filename"], "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return FallbackExportName(id)
	}
	return name
}

// Export downloads the spreadsheet rendition of the held record.
func (s *Store) Export(ctx context.Context) (string, []byte, error) {
	id := s.ID()
	if id == 0 {
		return "", nil, ErrNotLoaded
	}
	d, err := s.api.Export(ctx, id)
	if err != nil {
		return "", nil, fmt.Errorf("recaudacion: exportar %d: %w", id, err)
	}
	return ExportFilename(d.ContentDisposition, id), d.Body, nil
}
