package recaudacion

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/rs/zerolog/log"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// UploadAttachment attaches a file to the held record and reloads it.
func (s *Store) UploadAttachment(ctx context.Context, filename string, content io.Reader) (*dto.FicheroResponse, error) {
	id := s.ID()
	if id == 0 {
		return nil, ErrNotLoaded
	}
	f, err := s.api.UploadFichero(ctx, id, filename, content)
	if err != nil {
		return nil, fmt.Errorf("recaudacion: subir %s: %w", filename, err)
	}
	log.Info().Int64("recaudacion_id", id).Int64("fichero_id", f.ID).Str("filename", f.Filename).Msg("attachment uploaded")
	if err := s.Reload(ctx); err != nil {
		return f, err
	}
	return f, nil
}

// DeleteAttachment removes an attachment after the operator confirms, then
// reloads the record. A refusal returns ErrCancelled without any call.
func (s *Store) DeleteAttachment(ctx context.Context, ficheroID int64, c Confirmer) error {
	rec := s.Snapshot()
	if rec == nil {
		return ErrNotLoaded
	}
	name := fmt.Sprintf("#%d", ficheroID)
	for _, f := range rec.Ficheros {
		if f.ID == ficheroID {
			name = f.Filename
		}
	}
	if c == nil || !c.Confirm(fmt.Sprintf("¿Eliminar el fichero %s?", name)) {
		return ErrCancelled
	}
	if err := s.api.DeleteFichero(ctx, rec.ID, ficheroID); err != nil {
		return fmt.Errorf("recaudacion: eliminar fichero %d: %w", ficheroID, err)
	}
	log.Info().Int64("recaudacion_id", rec.ID).Int64("fichero_id", ficheroID).Msg("attachment deleted")
	return s.Reload(ctx)
}

// AttachmentURL is the inline download address carrying the bearer token.
func (s *Store) AttachmentURL(ficheroID int64) (string, error) {
	id := s.ID()
	if id == 0 {
		return "", ErrNotLoaded
	}
	return s.api.FicheroURL(id, ficheroID)
}

// AttachmentTicketURL is the download address backed by a short-lived
// ticket instead of the bearer token.
func (s *Store) AttachmentTicketURL(ctx context.Context, ficheroID int64) (string, time.Duration, error) {
	id := s.ID()
	if id == 0 {
		return "", 0, ErrNotLoaded
	}
	t, err := s.api.FicheroTicket(ctx, id, ficheroID)
	if err != nil {
		return "", 0, fmt.Errorf("recaudacion: ticket fichero %d: %w", ficheroID, err)
	}
	return s.api.TicketURL(id, ficheroID, t.Ticket), time.Duration(t.ExpiresIn) * time.Second, nil
}
