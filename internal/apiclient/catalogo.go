package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
)

// ListSalones returns the venues the user can see.
func (c *Client) ListSalones(ctx context.Context) ([]dto.SalonResponse, error) {
	var out []dto.SalonResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/salones/", out: &out})
	return out, err
}

func (c *Client) CreateSalon(ctx context.Context, req dto.CrearSalonRequest) (*dto.SalonResponse, error) {
	var out dto.SalonResponse
	if err := c.postJSON(ctx, "/salones/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTipoMaquina(ctx context.Context, req dto.CrearTipoMaquinaRequest) (*dto.TipoMaquinaResponse, error) {
	var out dto.TipoMaquinaResponse
	if err := c.postJSON(ctx, "/machines/types", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMaquinas lists machines with their seats, of one venue when salonID
// is set.
func (c *Client) ListMaquinas(ctx context.Context, salonID *int64) ([]dto.MaquinaResponse, error) {
	q := url.Values{}
	if salonID != nil {
		q.Set("salon_id", strconv.FormatInt(*salonID, 10))
	}
	var out []dto.MaquinaResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/machines/", query: q, out: &out})
	return out, err
}

func (c *Client) CreateMaquina(ctx context.Context, req dto.CrearMaquinaRequest) (*dto.MaquinaResponse, error) {
	var out dto.MaquinaResponse
	if err := c.postJSON(ctx, "/machines/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	var out dto.UsuarioResponse
	if err := c.postJSON(ctx, "/users/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPost, path: path, body: body,
		contentType: "application/json", out: out})
}
