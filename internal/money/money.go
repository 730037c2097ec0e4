// Package money formats and parses euro amounts the way venue staff write
// them: dot as thousands separator, comma as decimal separator.
package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrFormato = errors.New("importe con formato invalido")

var entradaValida = regexp.MustCompile(`^-?[0-9]*(\.?[0-9]+)*(,[0-9]*)?$`)

// Format renders d as "1.234,56 €".
func Format(d decimal.Decimal) string {
	return FormatPlain(d) + " €"
}

// FormatPlain renders d as "1.234,56" without the currency symbol.
func FormatPlain(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	entero, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg && !d.Round(2).IsZero() {
		b.WriteByte('-')
	}
	for i, r := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// Parse reads an amount typed as "1.234,56", "-12,5" or "1234". Dots are
// thousands separators and are dropped; the comma is the decimal mark. An
// empty string or a lone minus sign is zero.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	if !entradaValida.MatchString(s) {
		return decimal.Zero, ErrFormato
	}
	norm := strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	if strings.HasSuffix(norm, ".") {
		norm += "0"
	}
	if strings.HasPrefix(norm, ".") || strings.HasPrefix(norm, "-.") {
		norm = strings.Replace(norm, ".", "0.", 1)
	}
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return decimal.Zero, ErrFormato
	}
	return d, nil
}

// ParseOrZero is Parse for lenient inputs: anything unreadable counts as 0.
func ParseOrZero(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
