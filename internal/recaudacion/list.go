package recaudacion

import (
	"context"
	"fmt"
	"sort"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/rs/zerolog/log"
)

// DeletePhrase must be typed to delete a record.
const DeletePhrase = "BORRAR"

// listPage is the page size asked of the server while listing.
const listPage = 500

// Records lists, creates and deletes collection records.
type Records struct {
	api ListAPI
}

func NewRecords(api ListAPI) *Records { return &Records{api: api} }

// List returns the records of the given venues, newest period first. A nil
// selection means every venue; an empty one means none.
func (r *Records) List(ctx context.Context, salonIDs []int64) ([]dto.RecaudacionSummary, error) {
	if salonIDs != nil && len(salonIDs) == 0 {
		return []dto.RecaudacionSummary{}, nil
	}
	var filter *int64
	if len(salonIDs) == 1 {
		filter = &salonIDs[0]
	}
	all, err := r.pages(ctx, filter)
	if err != nil {
		return nil, err
	}
	if salonIDs == nil || filter != nil {
		return all, nil
	}
	want := make(map[int64]bool, len(salonIDs))
	for _, id := range salonIDs {
		want[id] = true
	}
	out := make([]dto.RecaudacionSummary, 0, len(all))
	for _, s := range all {
		if want[s.SalonID] {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FechaInicio.After(out[j].FechaInicio.Time) })
	return out, nil
}

// pages reads every page of the listing until the server returns a short
// one.
func (r *Records) pages(ctx context.Context, filter *int64) ([]dto.RecaudacionSummary, error) {
	var all []dto.RecaudacionSummary
	for skip := 0; ; skip += listPage {
		page, err := r.api.ListRecaudaciones(ctx, filter, skip, listPage)
		if err != nil {
			return nil, fmt.Errorf("recaudacion: listar: %w", err)
		}
		all = append(all, page...)
		if len(page) < listPage {
			break
		}
	}
	if all == nil {
		all = []dto.RecaudacionSummary{}
	}
	return all, nil
}

// NextStart proposes the start date of a venue's next period: the end date
// of its latest record, or nil when it has none.
func (r *Records) NextStart(ctx context.Context, salonID int64) (*dto.Fecha, error) {
	f, err := r.api.LastFechaFin(ctx, salonID)
	if err != nil {
		return nil, fmt.Errorf("recaudacion: ultima fecha: %w", err)
	}
	return f, nil
}

// Create validates req locally and creates the record.
func (r *Records) Create(ctx context.Context, req dto.CrearRecaudacionRequest) (*dto.RecaudacionResponse, error) {
	if req.Origen == "" {
		req.Origen = "manual"
	}
	fields := dto.Validate(req)
	for k, v := range dto.ValidarPeriodo(req.FechaInicio, req.FechaFin) {
		if fields == nil {
			fields = map[string]string{}
		}
		fields[k] = v
	}
	if fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	rec, err := r.api.CreateRecaudacion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("recaudacion: crear: %w", err)
	}
	log.Info().Int64("recaudacion_id", rec.ID).Int64("salon_id", rec.SalonID).Msg("recaudacion created")
	return rec, nil
}

// Delete removes a record when phrase is exactly DeletePhrase.
func (r *Records) Delete(ctx context.Context, id int64, phrase string) error {
	if phrase != DeletePhrase {
		return ErrConfirmation
	}
	if err := r.api.DeleteRecaudacion(ctx, id); err != nil {
		return fmt.Errorf("recaudacion: eliminar %d: %w", id, err)
	}
	log.Info().Int64("recaudacion_id", id).Msg("recaudacion deleted")
	return nil
}
