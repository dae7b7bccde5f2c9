package lineparser

import (
	"errors"
	"testing"

	"fjacquet/revolut-ocr/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+ 1 234,56", "1234.56"},
		{"-12,5", "-12.5"},
		{"+100,00", "100"},
		{"- 50,00", "-50"},
		{"+1 000,10", "1000.1"},
		{"-7", "-7"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "+", "1,2,3", "abc"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(in)
			var parseErr *parsererror.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "amount", parseErr.Field)
			assert.Equal(t, in, parseErr.Value)
		})
	}
}

func TestParse_Symbol(t *testing.T) {
	tests := []struct {
		line   string
		symbol string
		amount string
	}{
		{"REVOLUT +100,00", "REVOLUT", "100"},
		{"AAPL -12,5", "AAPL", "-12.5"},
		{"TSLA + 1 234,56", "TSLA", "1234.56"},
		{"Apple Inc AAPL -3,10 USD", "AAPL", "-3.1"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m, ok, err := Parse(tt.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, ShapeSymbol, m.Shape)
			assert.Equal(t, tt.symbol, m.Text)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(m.Amount), "got %s", m.Amount)
		})
	}
}

func TestParse_Label(t *testing.T) {
	tests := []struct {
		line   string
		label  string
		amount string
	}{
		{"Kivétel -50,00", "Kivétel", "-50"},
		{"Egyszeri befizetés +1 000,00", "Egyszeri befizetés", "1000"},
		{"Letétkezelési dij -1,5", "Letétkezelési dij", "-1.5"},
		{"Osztalék +3", "Osztalék", "3"},
		{"  Kivetel - 20,00", "Kivetel", "-20"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m, ok, err := Parse(tt.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, ShapeLabel, m.Shape)
			assert.Equal(t, tt.label, m.Text)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(m.Amount), "got %s", m.Amount)
		})
	}
}

func TestParse_SymbolTakesPriorityOverLabel(t *testing.T) {
	// Both rules match this line; only the symbol rule may win.
	line := "KIVETEL -50,00"
	for _, r := range rules {
		require.True(t, r.pattern.MatchString(line), r.shape.String())
	}

	m, ok, err := Parse(line)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ShapeSymbol, m.Shape)
	assert.Equal(t, "KIVETEL", m.Text)
}

func TestParse_RuleOrder(t *testing.T) {
	require.Len(t, rules, 2)
	assert.Equal(t, ShapeSymbol, rules[0].shape)
	assert.Equal(t, ShapeLabel, rules[1].shape)
}

func TestParse_SymbolWithoutDecimalFallsBackToLabel(t *testing.T) {
	m, ok, err := Parse("REVOLUT +100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ShapeLabel, m.Shape)
	assert.Equal(t, "REVOLUT", m.Text)
}

func TestParse_NoMatch(t *testing.T) {
	for _, line := range []string{
		"Tranzakciók",
		"100,00",
		"Kivétel 50,00",
		"€ 12,00",
		"",
	} {
		t.Run(line, func(t *testing.T) {
			_, ok, err := Parse(line)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "100,00", FormatAmount(decimal.RequireFromString("100"), ","))
	assert.Equal(t, "-12,50", FormatAmount(decimal.RequireFromString("-12.5"), ","))
	assert.Equal(t, "1234.56", FormatAmount(decimal.RequireFromString("1234.56"), "."))
	assert.Equal(t, "0.10", FormatAmount(decimal.RequireFromString("0.1"), ""))
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "symbol", ShapeSymbol.String())
	assert.Equal(t, "label", ShapeLabel.String())
	assert.Equal(t, "unknown", Shape(0).String())
}
