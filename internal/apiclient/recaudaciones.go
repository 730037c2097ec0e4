package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
)

func recaudacionPath(id int64) string { return fmt.Sprintf("/recaudaciones/%d", id) }

// ListRecaudaciones returns summaries, newest period first. salonID nil
// lists every venue the user can see.
func (c *Client) ListRecaudaciones(ctx context.Context, salonID *int64, skip, limit int) ([]dto.RecaudacionSummary, error) {
	q := url.Values{}
	if salonID != nil {
		q.Set("salon_id", strconv.FormatInt(*salonID, 10))
	}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []dto.RecaudacionSummary
	err := c.do(ctx, request{method: http.MethodGet, path: "/recaudaciones/", query: q, out: &out})
	return out, err
}

// LastFechaFin returns the end date of the venue's latest record, or nil
// when the venue has none yet.
func (c *Client) LastFechaFin(ctx context.Context, salonID int64) (*dto.Fecha, error) {
	q := url.Values{"salon_id": {strconv.FormatInt(salonID, 10)}}
	var out *dto.Fecha
	if err := c.do(ctx, request{method: http.MethodGet, path: "/recaudaciones/last", query: q, out: &out}); err != nil {
		return nil, err
	}
	if out != nil && out.IsZero() {
		return nil, nil
	}
	return out, nil
}

func (c *Client) CreateRecaudacion(ctx context.Context, req dto.CrearRecaudacionRequest) (*dto.RecaudacionResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}
	var out dto.RecaudacionResponse
	err = c.do(ctx, request{method: http.MethodPost, path: "/recaudaciones/", body: body,
		contentType: "application/json", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRecaudacion(ctx context.Context, id int64) (*dto.RecaudacionResponse, error) {
	var out dto.RecaudacionResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: recaudacionPath(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecaudacion sends a partial update; only set members are written.
func (c *Client) UpdateRecaudacion(ctx context.Context, id int64, req dto.ActualizarRecaudacionRequest) (*dto.RecaudacionResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}
	var out dto.RecaudacionResponse
	err = c.do(ctx, request{method: http.MethodPut, path: recaudacionPath(id), body: body,
		contentType: "application/json", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecaudacion(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: recaudacionPath(id)})
}

// UpdateDetalle writes the supplied columns of one detail row and returns
// the row as stored, including the recomputed tasa_final.
func (c *Client) UpdateDetalle(ctx context.Context, detalleID int64, req dto.ActualizarDetalleRequest) (*dto.DetalleResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}
	var out dto.DetalleResponse
	err = c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/recaudaciones/details/%d", detalleID),
		body: body, contentType: "application/json", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
