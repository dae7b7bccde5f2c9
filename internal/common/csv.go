// Package common provides the ledger rendering shared by the CLI and tests.
package common

import (
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/revolut-ocr/internal/lineparser"
	"fjacquet/revolut-ocr/internal/models"

	"github.com/gocarina/gocsv"
)

// LedgerRow is one rendered output line: date;category;amount.
type LedgerRow struct {
	Date     string `csv:"date"`
	Category string `csv:"category"`
	Amount   string `csv:"amount"`
}

// CSVOptions controls how a ledger is rendered.
type CSVOptions struct {
	Delimiter        rune
	DecimalSeparator string
	IncludeHeaders   bool
}

// DefaultCSVOptions matches the format Google Sheets imports for a
// Hungarian locale: semicolons and a decimal comma, no header row.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:        ';',
		DecimalSeparator: ",",
	}
}

// LedgerRows flattens a ledger, dates in first-recorded order and records in
// insertion order.
func LedgerRows(ledger *models.Ledger, opts CSVOptions) []LedgerRow {
	if ledger == nil {
		return nil
	}
	sep := opts.DecimalSeparator
	if sep == "" {
		sep = ","
	}
	rows := make([]LedgerRow, 0, ledger.Len())
	ledger.Each(func(d models.Date, r models.Record) {
		rows = append(rows, LedgerRow{
			Date:     d.String(),
			Category: r.Category,
			Amount:   lineparser.FormatAmount(r.Amount, sep),
		})
	})
	return rows
}

// WriteLedgerCSV renders ledger to w.
func WriteLedgerCSV(w io.Writer, ledger *models.Ledger, opts CSVOptions) error {
	if ledger == nil {
		return fmt.Errorf("cannot write nil ledger to CSV")
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}

	rows := LedgerRows(ledger, opts)

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = opts.Delimiter
	safeWriter := gocsv.NewSafeCSVWriter(csvWriter)

	var err error
	if opts.IncludeHeaders {
		err = gocsv.MarshalCSV(rows, safeWriter)
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(rows, safeWriter)
	}
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("error flushing CSV data: %w", err)
	}
	return nil
}
