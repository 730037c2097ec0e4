package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0,00 €"},
		{"1234.56", "1.234,56 €"},
		{"1234567.8", "1.234.567,80 €"},
		{"-45.5", "-45,50 €"},
		{"999", "999,00 €"},
		{"-0.001", "0,00 €"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"1234,56", "1234.56"},
		{"-12,5", "-12.5"},
		{"1.000", "1000"},
		{"", "0"},
		{"-", "0"},
		{"15,", "15"},
		{",5", "0.5"},
		{"  7,25 € ", "7.25"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestParse_Invalido(t *testing.T) {
	for _, in := range []string{"abc", "1,2,3", "12-3", "1..2"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrFormato, in)
		assert.True(t, ParseOrZero(in).IsZero())
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("98765.43")
	got, err := Parse(Format(d))
	require.NoError(t, err)
	assert.True(t, d.Equal(got))
}
