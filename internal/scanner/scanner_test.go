package scanner

import (
	"errors"
	"testing"
	"time"

	"fjacquet/revolut-ocr/internal/categorizer"
	"fjacquet/revolut-ocr/internal/dateutils"
	"fjacquet/revolut-ocr/internal/logging"
	"fjacquet/revolut-ocr/internal/models"
	"fjacquet/revolut-ocr/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func newTestScanner(opts ...Option) *Scanner {
	recognizer := dateutils.NewRecognizer(dateutils.WithClock(func() time.Time { return fixedNow }))
	return New(recognizer, categorizer.NewResolver(), opts...)
}

func mustDate(t *testing.T, y int, m time.Month, d int) models.Date {
	t.Helper()
	date, err := models.NewDate(y, m, d)
	require.NoError(t, err)
	return date
}

func record(category, amount string) models.Record {
	return models.NewRecord(category, decimal.RequireFromString(amount))
}

func TestScan_TodaySymbol(t *testing.T) {
	s := newTestScanner()
	require.NoError(t, s.Scan([]string{"Ma", "REVOLUT +100,00"}))

	today := mustDate(t, 2026, time.October, 14)
	l := s.Ledger()
	assert.Equal(t, []models.Date{today}, l.Dates())
	require.Len(t, l.Records(today), 1)
	assert.True(t, l.Records(today)[0].Equal(record("REVOLUT", "100")))
}

func TestScan_FuzzyDuplicateCollapses(t *testing.T) {
	s := newTestScanner()
	err := s.Scan([]string{
		"05 jan. 2023",
		"Kivétel -50,00",
		"05 jan. 2023",
		"Kivetel -50,00",
	})
	require.NoError(t, err)

	d := mustDate(t, 2023, time.January, 5)
	l := s.Ledger()
	assert.Equal(t, 1, l.Len())
	assert.True(t, l.Contains(d, record("Kivétel", "-50")))

	stats := s.Stats()
	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 2, stats.Dates)
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 0, stats.TotalDropped())
}

func TestScan_LineBeforeDateIsDropped(t *testing.T) {
	var drops []Drop
	s := newTestScanner(WithDropHandler(func(d Drop) { drops = append(drops, d) }))

	require.NoError(t, s.Scan([]string{"REVOLUT +100,00", "05 jan. 2023", "REVOLUT +100,00"}))

	d := mustDate(t, 2023, time.January, 5)
	assert.Equal(t, 1, s.Ledger().Len())
	assert.True(t, s.Ledger().Contains(d, record("REVOLUT", "100")))

	require.Len(t, drops, 1)
	assert.Equal(t, DropNoDate, drops[0].Reason)
	assert.Equal(t, 1, drops[0].LineNo)
	assert.Equal(t, "REVOLUT +100,00", drops[0].Line)
}

func TestScan_DropReasons(t *testing.T) {
	var reasons []DropReason
	s := newTestScanner(WithDropHandler(func(d Drop) { reasons = append(reasons, d.Reason) }))

	err := s.Scan([]string{
		"Tranzakciók",
		"05 jan. 2023",
		"xyz -5,00",
		"Befizetés a számládra",
		"AAPL -12,50",
	})
	require.NoError(t, err)

	assert.Equal(t, []DropReason{DropNoShape, DropBelowThreshold, DropNoShape}, reasons)
	stats := s.Stats()
	assert.Equal(t, 2, stats.Dropped[DropNoShape])
	assert.Equal(t, 1, stats.Dropped[DropBelowThreshold])
	assert.Equal(t, 1, stats.Records)
}

func TestScan_MixedDay(t *testing.T) {
	s := newTestScanner()
	err := s.Scan([]string{
		"12 okt.",
		"TSLA + 1 234,56",
		"Egyszeri befizetas +1 000,00",
		"Osztalék +3,20",
		"11 okt. 2025",
		"Letétkezelési dij -1,50",
	})
	require.NoError(t, err)

	oct12 := mustDate(t, 2026, time.October, 12)
	oct11 := mustDate(t, 2025, time.October, 11)
	l := s.Ledger()
	assert.Equal(t, []models.Date{oct12, oct11}, l.Dates())

	records := l.Records(oct12)
	require.Len(t, records, 3)
	assert.True(t, records[0].Equal(record("TSLA", "1234.56")))
	assert.True(t, records[1].Equal(record("Egyszeri befizetés", "1000")))
	assert.True(t, records[2].Equal(record("Osztalék", "3.2")))

	assert.True(t, l.Contains(oct11, record("Letétkezelési dij", "-1.5")))
}

func TestScan_SameRecordOnDifferentDates(t *testing.T) {
	s := newTestScanner()
	require.NoError(t, s.Scan([]string{"01 jan. 2024", "AAPL -1,00", "02 jan. 2024", "AAPL -1,00"}))
	assert.Equal(t, 2, s.Ledger().Len())
}

func TestScan_ContextPersistsAcrossScans(t *testing.T) {
	s := newTestScanner()
	require.NoError(t, s.Scan([]string{"05 jan. 2023", "AAPL -1,00"}))
	require.NoError(t, s.Scan([]string{"MSFT -2,00"}))

	d := mustDate(t, 2023, time.January, 5)
	assert.True(t, s.Ledger().Contains(d, record("MSFT", "-2")))

	current, ok := s.CurrentDate()
	require.True(t, ok)
	assert.Equal(t, d, current)
}

func TestScan_LenientBadDate(t *testing.T) {
	logger := logging.NewMockLogger()
	var drops []Drop
	s := newTestScanner(WithLogger(logger), WithDropHandler(func(d Drop) { drops = append(drops, d) }))

	err := s.Scan([]string{
		"05 jan. 2023",
		"30 febr. 2023",
		"AAPL -1,00",
		"05 foo. 2023",
		"MSFT -2,00",
	})
	require.NoError(t, err)

	d := mustDate(t, 2023, time.January, 5)
	assert.True(t, s.Ledger().Contains(d, record("AAPL", "-1")))
	assert.True(t, s.Ledger().Contains(d, record("MSFT", "-2")))

	require.Len(t, drops, 2)
	var invalidDate *parsererror.InvalidDateError
	assert.True(t, errors.As(drops[0].Err, &invalidDate))
	var unknownMonth *parsererror.UnknownMonthError
	assert.True(t, errors.As(drops[1].Err, &unknownMonth))
	assert.Equal(t, "foo", unknownMonth.Month)

	assert.Len(t, logger.EntriesByLevel("WARN"), 2)
	assert.True(t, logger.HasEntry("WARN", "Ignoring malformed date header"))
	assert.Equal(t, 2, s.Stats().Dropped[DropBadDate])
}

func TestScan_StrictBadDate(t *testing.T) {
	s := newTestScanner(WithStrictDates(true))

	err := s.Scan([]string{"05 jan. 2023", "AAPL -1,00", "05 foo. 2023", "MSFT -2,00"})
	require.Error(t, err)
	assert.True(t, IsDateError(err))

	assert.Equal(t, 1, s.Ledger().Len())
	assert.Equal(t, 3, s.Stats().Lines)
}

func TestScan_NoDateLine(t *testing.T) {
	s := newTestScanner()
	require.NoError(t, s.Scan(nil))

	_, ok := s.CurrentDate()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Ledger().Len())
}

func TestScan_WithLedger(t *testing.T) {
	d := mustDate(t, 2023, time.January, 5)
	existing := models.NewLedger()
	existing.Add(d, record("AAPL", "-1"))

	s := newTestScanner(WithLedger(existing))
	require.NoError(t, s.Scan([]string{"05 jan. 2023", "AAPL -1,00", "MSFT -2,00"}))

	assert.Same(t, existing, s.Ledger())
	assert.Equal(t, 2, existing.Len())
	assert.Equal(t, 1, s.Stats().Duplicates)
}

func TestStats_SnapshotIsIndependent(t *testing.T) {
	s := newTestScanner()
	require.NoError(t, s.Feed("noise"))

	snapshot := s.Stats()
	snapshot.Dropped[DropNoShape] = 99

	assert.Equal(t, 1, s.Stats().Dropped[DropNoShape])
}

func TestIsDateError(t *testing.T) {
	assert.True(t, IsDateError(&parsererror.UnknownMonthError{Month: "foo"}))
	assert.True(t, IsDateError(&parsererror.InvalidDateError{Year: 2023, Month: 2, Day: 30}))
	assert.False(t, IsDateError(errors.New("boom")))
	assert.False(t, IsDateError(nil))
}
