package dateutils

import (
	"errors"
	"testing"
	"time"

	"fjacquet/revolut-ocr/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupMonth(t *testing.T) {
	tests := []struct {
		abbrev string
		want   time.Month
	}{
		{"jan", time.January},
		{"febr", time.February},
		{"marc", time.March},
		{"márc", time.March},
		{"ápr", time.April},
		{"máj", time.May},
		{"jun", time.June},
		{"jul", time.July},
		{"aug", time.August},
		{"szept", time.September},
		{"okt", time.October},
		{"nov", time.November},
		{"dec", time.December},
	}

	for _, tt := range tests {
		t.Run(tt.abbrev, func(t *testing.T) {
			got, err := LookupMonth(tt.abbrev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupMonth_Unknown(t *testing.T) {
	for _, abbrev := range []string{"Jan", "feb", "sept", ""} {
		t.Run(abbrev, func(t *testing.T) {
			_, err := LookupMonth(abbrev)
			var monthErr *parsererror.UnknownMonthError
			require.True(t, errors.As(err, &monthErr))
			assert.Equal(t, abbrev, monthErr.Month)
		})
	}
}

func TestMonthAbbreviations(t *testing.T) {
	assert.Len(t, MonthAbbreviations(), 13)
}
