package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds. Every error returned by Client wraps exactly one of them, so
// callers branch with errors.Is.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrTransient    = errors.New("error transitorio")
	ErrValidation   = errors.New("datos invalidos")
	ErrUnauthorized = errors.New("sesion no valida")
	ErrForbidden    = errors.New("permisos insuficientes")
	ErrRejected     = errors.New("solicitud rechazada")
)

// Error describes a failed API call.
type Error struct {
	Method string
	Path   string
	Status int // 0 when no response was received
	Detail string
	Fields map[string]string

	kind  error
	cause error
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" && e.cause != nil {
		msg = e.cause.Error()
	}
	if msg == "" {
		msg = e.kind.Error()
	}
	if e.Status == 0 {
		return fmt.Sprintf("apiclient: %s %s: %s", e.Method, e.Path, msg)
	}
	return fmt.Sprintf("apiclient: %s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// Kind returns the sentinel this error is classified as.
func (e *Error) Kind() error { return e.kind }

// Message is the text meant for the operator.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}

// errorBody understands both envelopes the console meets: the
// {"detail": "...", "fields": {...}} one and the list-of-issues form
// ({"detail": [{"loc": [...], "msg": "..."}]}).
type errorBody struct {
	Detail json.RawMessage   `json:"detail"`
	Fields map[string]string `json:"fields"`
}

type issue struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

func parseErrorBody(raw []byte) (string, map[string]string) {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(raw)), nil
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		return detail, body.Fields
	}
	var issues []issue
	if err := json.Unmarshal(body.Detail, &issues); err != nil {
		return string(body.Detail), body.Fields
	}
	fields := body.Fields
	if fields == nil {
		fields = make(map[string]string, len(issues))
	}
	msgs := make([]string, 0, len(issues))
	for _, is := range issues {
		msgs = append(msgs, is.Msg)
		if n := len(is.Loc); n > 0 {
			fields[fmt.Sprint(is.Loc[n-1])] = is.Msg
		}
	}
	return strings.Join(msgs, "; "), fields
}

// classify maps a status code to an error kind.
func classify(status int, detail string) error {
	switch {
	case isAuthFailure(status, detail):
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return ErrTransient
	default:
		return ErrRejected
	}
}

// isAuthFailure reports responses that mean the stored credential is no
// longer usable. Besides 401, token validation failures of the backend come
// back as 403/400/404 with fixed details.
func isAuthFailure(status int, detail string) bool {
	switch status {
	case http.StatusUnauthorized:
		return true
	case http.StatusForbidden:
		return detail == "Could not validate credentials"
	case http.StatusBadRequest:
		return detail == "Inactive user"
	case http.StatusNotFound:
		return detail == "User not found"
	}
	return false
}
