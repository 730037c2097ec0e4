package recaudacion

//go:generate mockgen -source=api.go -destination=mocks/mock_api.go -package=mocks

import (
	"context"
	"io"

	"github.com/pozi78/Casino-Management-System-sub000/internal/apiclient"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
)

// RecordAPI is what the Store needs from the backend. *apiclient.Client
// satisfies it.
type RecordAPI interface {
	GetRecaudacion(ctx context.Context, id int64) (*dto.RecaudacionResponse, error)
	UpdateRecaudacion(ctx context.Context, id int64, req dto.ActualizarRecaudacionRequest) (*dto.RecaudacionResponse, error)
	UpdateDetalle(ctx context.Context, detalleID int64, req dto.ActualizarDetalleRequest) (*dto.DetalleResponse, error)
	UploadFichero(ctx context.Context, recaudacionID int64, filename string, content io.Reader) (*dto.FicheroResponse, error)
	DeleteFichero(ctx context.Context, recaudacionID, ficheroID int64) error
	FicheroURL(recaudacionID, ficheroID int64) (string, error)
	FicheroTicket(ctx context.Context, recaudacionID, ficheroID int64) (*dto.TicketResponse, error)
	TicketURL(recaudacionID, ficheroID int64, ticket string) string
	Export(ctx context.Context, recaudacionID int64) (*apiclient.Download, error)
}

// ImportAPI is the spreadsheet analysis/import surface.
type ImportAPI interface {
	AnalyzeExcel(ctx context.Context, recaudacionID int64, filename string, content []byte) (*dto.AnalisisExcelResponse, error)
	AnalyzeFichero(ctx context.Context, recaudacionID, ficheroID int64) (*dto.AnalisisExcelResponse, error)
	ImportExcel(ctx context.Context, recaudacionID int64, filename string, content []byte, req dto.ImportarExcelRequest) (*dto.ImportarExcelResponse, error)
	ImportFichero(ctx context.Context, recaudacionID, ficheroID int64, req dto.ImportarExcelRequest) (*dto.ImportarExcelResponse, error)
}

// ListAPI covers the record list, creation and deletion.
type ListAPI interface {
	ListRecaudaciones(ctx context.Context, salonID *int64, skip, limit int) ([]dto.RecaudacionSummary, error)
	LastFechaFin(ctx context.Context, salonID int64) (*dto.Fecha, error)
	CreateRecaudacion(ctx context.Context, req dto.CrearRecaudacionRequest) (*dto.RecaudacionResponse, error)
	DeleteRecaudacion(ctx context.Context, id int64) error
}

var (
	_ RecordAPI = (*apiclient.Client)(nil)
	_ ImportAPI = (*apiclient.Client)(nil)
	_ ListAPI   = (*apiclient.Client)(nil)
)
