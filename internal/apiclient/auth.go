package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
)

// Login exchanges username and password for a bearer token and stores it.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	form := url.Values{"username": {username}, "password": {password}}
	var out dto.TokenResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/login/access-token",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		out:         &out,
		anonymous:   true,
	})
	if err != nil {
		return nil, err
	}
	if err := c.tokens.SetToken(out.AccessToken); err != nil {
		return nil, fmt.Errorf("apiclient: store token: %w", err)
	}
	return &out, nil
}

// Logout forgets the stored credential. Tokens are stateless server side.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// Me returns the authenticated user with its per-venue permission grid.
func (c *Client) Me(ctx context.Context) (*dto.UsuarioResponse, error) {
	var out dto.UsuarioResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
