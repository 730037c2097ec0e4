package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

const LayoutFecha = "2006-01-02"

// Fecha is a calendar date travelling as "YYYY-MM-DD".
type Fecha struct {
	time.Time
}

func NewFecha(t time.Time) Fecha {
	y, m, d := t.Date()
	return Fecha{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseFecha accepts a plain date or a full RFC 3339 timestamp.
func ParseFecha(s string) (Fecha, error) {
	if t, err := time.Parse(LayoutFecha, s); err == nil {
		return Fecha{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Fecha{}, fmt.Errorf("fecha invalida %q", s)
	}
	return NewFecha(t), nil
}

func (f Fecha) String() string {
	if f.IsZero() {
		return ""
	}
	return f.Format(LayoutFecha)
}

func (f Fecha) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Format(LayoutFecha))
}

func (f *Fecha) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Fecha{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseFecha(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Campo distinguishes an absent JSON member from an explicit null.
// Use it with the omitzero option so an unset Campo is not sent at all.
type Campo[T any] struct {
	Set   bool
	Null  bool
	Valor T
}

func Valor[T any](v T) Campo[T] { return Campo[T]{Set: true, Valor: v} }

func Nulo[T any]() Campo[T] { return Campo[T]{Set: true, Null: true} }

func (c Campo[T]) IsZero() bool { return !c.Set }

func (c Campo[T]) MarshalJSON() ([]byte, error) {
	if c.Null || !c.Set {
		return []byte("null"), nil
	}
	return json.Marshal(c.Valor)
}

func (c *Campo[T]) UnmarshalJSON(b []byte) error {
	c.Set = true
	if string(b) == "null" {
		c.Null = true
		return nil
	}
	return json.Unmarshal(b, &c.Valor)
}
