// Package lineparser decomposes OCR lines into a category candidate and an
// amount.
package lineparser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"fjacquet/revolut-ocr/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Shape identifies which transaction line layout matched.
type Shape int

const (
	// ShapeSymbol is an upper-case ticker followed by an amount with a
	// mandatory decimal part. The ticker is used verbatim as category.
	ShapeSymbol Shape = iota + 1
	// ShapeLabel is free text followed by an amount. The text still has to
	// be resolved against the payment type vocabulary.
	ShapeLabel
)

func (s Shape) String() string {
	switch s {
	case ShapeSymbol:
		return "symbol"
	case ShapeLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Match is the decomposition of one transaction line.
type Match struct {
	Shape Shape
	// Text is the ticker for ShapeSymbol and the trimmed label for ShapeLabel.
	Text string
	// AmountText is the amount as it appeared in the line.
	AmountText string
	Amount     decimal.Decimal
}

type rule struct {
	shape   Shape
	pattern *regexp.Regexp
}

// rules are evaluated in order and the first match wins. The symbol rule is
// stricter and has to come first, otherwise the label rule would swallow
// ticker lines.
var rules = []rule{
	{shape: ShapeSymbol, pattern: regexp.MustCompile(`([A-Z]+) ([-+] ?\d+(?: \d{3})*,\d+)`)},
	{shape: ShapeLabel, pattern: regexp.MustCompile(`([\p{L}\p{N}_ ]+) ([-+] ?\d+(?: \d{3})*(?:,\d+)?)`)},
}

// Parse tries every shape in priority order. It returns false when the line
// is not a transaction line; that is expected for OCR noise and not an
// error. An error is only returned when a shape matched but its amount could
// not be converted.
func Parse(line string) (Match, bool, error) {
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		amount, err := ParseAmount(m[2])
		if err != nil {
			return Match{}, true, err
		}

		text := m[1]
		if r.shape == ShapeLabel {
			text = strings.TrimSpace(text)
		}
		return Match{
			Shape:      r.shape,
			Text:       text,
			AmountText: m[2],
			Amount:     amount,
		}, true, nil
	}
	return Match{}, false, nil
}

// ParseAmount normalizes a decimal-comma amount such as "+ 1 234,56" or
// "-12,5". Whitespace is removed, the comma becomes the decimal point and
// the sign is kept.
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	cleaned = strings.TrimPrefix(cleaned, "+")

	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, &parsererror.ParseError{
			Parser: "lineparser",
			Field:  "amount",
			Value:  text,
			Err:    fmt.Errorf("no digits"),
		}
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{
			Parser: "lineparser",
			Field:  "amount",
			Value:  text,
			Err:    err,
		}
	}
	return amount, nil
}

// FormatAmount renders an amount with two decimals and sep as the decimal
// separator, the inverse of ParseAmount.
func FormatAmount(amount decimal.Decimal, sep string) string {
	s := amount.StringFixed(2)
	if sep == "" || sep == "." {
		return s
	}
	return strings.Replace(s, ".", sep, 1)
}
