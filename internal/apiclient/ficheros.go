package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
)

// ErrNoToken is returned when a URL needs the credential and none is stored.
var ErrNoToken = errors.New("apiclient: no hay sesion iniciada")

func ficheroPath(recaudacionID, ficheroID int64) string {
	return fmt.Sprintf("/recaudaciones/%d/files/%d", recaudacionID, ficheroID)
}

// multipartBody encodes a file part plus extra text fields.
func multipartBody(field, filename string, content io.Reader, extra map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", fmt.Errorf("apiclient: multipart: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("apiclient: multipart copy: %w", err)
	}
	for k, v := range extra {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("apiclient: multipart field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("apiclient: multipart close: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// UploadFichero attaches a file to a record.
func (c *Client) UploadFichero(ctx context.Context, recaudacionID int64, filename string, content io.Reader) (*dto.FicheroResponse, error) {
	body, ct, err := multipartBody("file", filename, content, nil)
	if err != nil {
		return nil, err
	}
	var out dto.FicheroResponse
	err = c.do(ctx, request{method: http.MethodPost, path: recaudacionPath(recaudacionID) + "/files",
		body: body, contentType: ct, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFichero(ctx context.Context, recaudacionID, ficheroID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: ficheroPath(recaudacionID, ficheroID)})
}

// FicheroURL builds the inline download address of an attachment. The
// bearer token travels as the token query parameter, so the URL grants
// access for the lifetime of the token.
func (c *Client) FicheroURL(recaudacionID, ficheroID int64) (string, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("apiclient: read token: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	q := url.Values{"token": {token}}
	return c.baseURL + ficheroPath(recaudacionID, ficheroID) + "/content?" + q.Encode(), nil
}

// FicheroTicket asks for a short-lived single-use download ticket.
func (c *Client) FicheroTicket(ctx context.Context, recaudacionID, ficheroID int64) (*dto.TicketResponse, error) {
	var out dto.TicketResponse
	err := c.do(ctx, request{method: http.MethodPost, path: ficheroPath(recaudacionID, ficheroID) + "/ticket", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TicketURL is the download address for a ticket issued by FicheroTicket.
func (c *Client) TicketURL(recaudacionID, ficheroID int64, ticket string) string {
	q := url.Values{"ticket": {ticket}}
	return c.baseURL + ficheroPath(recaudacionID, ficheroID) + "/content?" + q.Encode()
}

// Download is a binary response together with the headers naming it.
type Download struct {
	ContentType        string
	ContentDisposition string
	Body               []byte
}

// Export fetches the spreadsheet rendition of a record.
func (c *Client) Export(ctx context.Context, recaudacionID int64) (*Download, error) {
	path := recaudacionPath(recaudacionID) + "/export"
	resp, err := c.send(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: http.MethodGet, Path: path, Status: resp.StatusCode, kind: ErrTransient, cause: err}
	}
	return &Download{
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		Body:               body,
	}, nil
}

// ── Spreadsheet import ──────────────────────────────────────────────────────

// AnalyzeExcel uploads a spreadsheet for analysis without changing the record.
func (c *Client) AnalyzeExcel(ctx context.Context, recaudacionID int64, filename string, content []byte) (*dto.AnalisisExcelResponse, error) {
	body, ct, err := multipartBody("file", filename, bytes.NewReader(content), nil)
	if err != nil {
		return nil, err
	}
	var out dto.AnalisisExcelResponse
	err = c.do(ctx, request{method: http.MethodPost, path: recaudacionPath(recaudacionID) + "/analyze-excel",
		body: body, contentType: ct, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeFichero analyzes a spreadsheet already attached to the record.
func (c *Client) AnalyzeFichero(ctx context.Context, recaudacionID, ficheroID int64) (*dto.AnalisisExcelResponse, error) {
	var out dto.AnalisisExcelResponse
	err := c.do(ctx, request{method: http.MethodPost, path: ficheroPath(recaudacionID, ficheroID) + "/analyze", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportExcel re-sends the spreadsheet with the confirmed mapping.
func (c *Client) ImportExcel(ctx context.Context, recaudacionID int64, filename string, content []byte, req dto.ImportarExcelRequest) (*dto.ImportarExcelResponse, error) {
	mappings, err := json.Marshal(req.Mappings)
	if err != nil {
		return nil, fmt.Errorf("apiclient: marshal mappings: %w", err)
	}
	ignored, err := json.Marshal(req.Ignored)
	if err != nil {
		return nil, fmt.Errorf("apiclient: marshal ignored: %w", err)
	}
	body, ct, err := multipartBody("file", filename, bytes.NewReader(content), map[string]string{
		"mappings": string(mappings),
		"ignored":  string(ignored),
	})
	if err != nil {
		return nil, err
	}
	var out dto.ImportarExcelResponse
	err = c.do(ctx, request{method: http.MethodPost, path: recaudacionPath(recaudacionID) + "/import-excel",
		body: body, contentType: ct, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportFichero imports an attached spreadsheet with the confirmed mapping.
func (c *Client) ImportFichero(ctx context.Context, recaudacionID, ficheroID int64, req dto.ImportarExcelRequest) (*dto.ImportarExcelResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}
	var out dto.ImportarExcelResponse
	err = c.do(ctx, request{method: http.MethodPost, path: ficheroPath(recaudacionID, ficheroID) + "/import",
		body: body, contentType: "application/json", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
