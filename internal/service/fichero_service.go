package service

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/infra"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// FicheroService handles the attachments of a record and the single-use
// tickets used to download them without a bearer token.
type FicheroService interface {
	Subir(ctx context.Context, acc Acceso, recaudacionID int64, filename, contentType string, contenido []byte) (*dto.FicheroResponse, error)
	Obtener(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64) (*model.RecaudacionFichero, error)
	Eliminar(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64) error
	EmitirTicket(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64) (*dto.TicketResponse, error)
	// CanjearTicket consumes the ticket and returns the attachment it grants.
	CanjearTicket(ctx context.Context, ticket string, recaudacionID, ficheroID int64) (*model.RecaudacionFichero, error)
}

type ficheroService struct {
	repo          repository.FicheroRepository
	recaudaciones repository.RecaudacionRepository
	tickets       infra.TicketStore
	maxBytes      int64
	ticketTTL     time.Duration
}

func NewFicheroService(repo repository.FicheroRepository, recaudaciones repository.RecaudacionRepository, tickets infra.TicketStore, maxBytes int64, ticketTTL time.Duration) FicheroService {
	return &ficheroService{
		repo:          repo,
		recaudaciones: recaudaciones,
		tickets:       tickets,
		maxBytes:      maxBytes,
		ticketTTL:     ticketTTL,
	}
}

func (s *ficheroService) Subir(ctx context.Context, acc Acceso, recaudacionID int64, filename, contentType string, contenido []byte) (*dto.FicheroResponse, error) {
	if err := s.comprobar(ctx, acc, recaudacionID, true); err != nil {
		return nil, err
	}
	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) {
		return nil, invalido("Nombre de fichero invalido")
	}
	if s.maxBytes > 0 && int64(len(contenido)) > s.maxBytes {
		return nil, invalido("El fichero supera el tamaño maximo de %d MB", s.maxBytes>>20)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = tipoDeContenido(filename, contenido)
	}

	f := &model.RecaudacionFichero{
		RecaudacionID: recaudacionID,
		Filename:      filename,
		ContentType:   contentType,
		Size:          int64(len(contenido)),
		Contenido:     contenido,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	log.Info().
		Int64("recaudacion_id", recaudacionID).
		Int64("fichero_id", f.ID).
		Str("filename", filename).
		Int64("size", f.Size).
		Msg("fichero adjuntado")
	resp := mapFichero(f)
	return &resp, nil
}

func tipoDeContenido(filename string, contenido []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return http.DetectContentType(contenido)
}

func (s *ficheroService) Obtener(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64) (*model.RecaudacionFichero, error) {
	if err := s.comprobar(ctx, acc, recaudacionID, false); err != nil {
		return nil, err
	}
	f, err := s.repo.Find(ctx, recaudacionID, ficheroID)
	if err != nil {
		return nil, comoNoEncontrado(err, "Fichero no encontrado")
	}
	return f, nil
}

func (s *ficheroService) Eliminar(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64) error {
	if err := s.comprobar(ctx, acc, recaudacionID, true); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, recaudacionID, ficheroID); err != nil {
		return comoNoEncontrado(err, "Fichero no encontrado")
	}
	return nil
}

func (s *ficheroService) EmitirTicket(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64) (*dto.TicketResponse, error) {
	if _, err := s.Obtener(ctx, acc, recaudacionID, ficheroID); err != nil {
		return nil, err
	}
	t, err := s.tickets.Issue(ctx, infra.TicketGrant{
		UsuarioID:     acc.UsuarioID,
		RecaudacionID: recaudacionID,
		FicheroID:     ficheroID,
	}, s.ticketTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TicketResponse{Ticket: t, ExpiresIn: int(s.ticketTTL / time.Second)}, nil
}

func (s *ficheroService) CanjearTicket(ctx context.Context, ticket string, recaudacionID, ficheroID int64) (*model.RecaudacionFichero, error) {
	g, err := s.tickets.Redeem(ctx, ticket)
	if err != nil {
		if errors.Is(err, infra.ErrTicketInvalido) {
			return nil, &Error{Kind: ErrNoAutenticado, Detail: "Ticket invalido o expirado"}
		}
		return nil, err
	}
	if g.RecaudacionID != recaudacionID || g.FicheroID != ficheroID {
		return nil, &Error{Kind: ErrNoAutenticado, Detail: "Ticket invalido o expirado"}
	}
	f, err := s.repo.Find(ctx, recaudacionID, ficheroID)
	if err != nil {
		return nil, comoNoEncontrado(err, "Fichero no encontrado")
	}
	return f, nil
}

func (s *ficheroService) comprobar(ctx context.Context, acc Acceso, recaudacionID int64, editar bool) error {
	_, err := recaudacionAccesible(ctx, s.recaudaciones, acc, recaudacionID, editar)
	return err
}
