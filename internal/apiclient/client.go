// Package apiclient is the authenticated HTTP client of the collection
// console. It attaches the bearer credential, classifies failures into the
// kinds declared in errors.go and forgets the credential when the backend
// rejects it.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	APIPrefix       = "/api/v1"
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// TokenStore keeps the bearer credential between calls.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	Clear() error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	breaker    *breaker
}

// New builds a client for the server at baseURL (scheme and host, with or
// without the /api/v1 prefix).
func New(baseURL string, tokens TokenStore, timeout time.Duration) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, APIPrefix) {
		base += APIPrefix
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		breaker:    newBreaker(defaultBreakerFailures, defaultBreakerCooldown),
	}
}

// BaseURL returns the API root every path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one call. body is sent as-is with contentType; out, when
// non-nil, receives the decoded JSON response.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	out         interface{}
	anonymous   bool
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if !r.anonymous {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("apiclient: read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// send performs the call and returns the response when the status is 2xx.
// The caller owns the body.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	if !c.breaker.allow() {
		return nil, &Error{Method: r.method, Path: r.path, kind: ErrTransient, cause: ErrServerUnavailable}
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.record(true)
		log.Debug().Str("method", r.method).Str("path", r.path).Err(err).Msg("api request failed")
		return nil, &Error{Method: r.method, Path: r.path, kind: ErrTransient, cause: err}
	}
	c.breaker.record(resp.StatusCode >= 500)
	if s := c.breaker.current(); s != breakerClosed {
		log.Warn().Str("breaker", s.String()).Int("status", resp.StatusCode).Msg("backend failing")
	}
	log.Debug().
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail, fields := parseErrorBody(raw)
	apiErr := &Error{
		Method: r.method,
		Path:   r.path,
		Status: resp.StatusCode,
		Detail: detail,
		Fields: fields,
		kind:   classify(resp.StatusCode, detail),
	}
	if errors.Is(apiErr.kind, ErrUnauthorized) && !r.anonymous {
		if err := c.tokens.Clear(); err != nil {
			log.Warn().Err(err).Msg("could not clear stored credential")
		}
		log.Info().Int("status", resp.StatusCode).Msg("credential rejected, session cleared")
	}
	return nil, apiErr
}

// do runs a JSON call and decodes the response into r.out.
func (c *Client) do(ctx context.Context, r request) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if r.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
		return &Error{Method: r.method, Path: r.path, Status: resp.StatusCode,
			kind: ErrTransient, cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func jsonBody(v interface{}) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("apiclient: marshal payload: %w", err)
	}
	return bytes.NewReader(b), nil
}
