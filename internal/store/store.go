// Package store archives ledgers in SQLite so repeated runs over overlapping
// screenshots accumulate into one deduplicated history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/revolut-ocr/internal/logging"
	"fjacquet/revolut-ocr/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Archive persists ledger records across runs.
type Archive interface {
	// Save stores every record of ledger and returns how many were new.
	Save(ctx context.Context, ledger *models.Ledger) (int, error)
	// Load returns everything archived so far.
	Load(ctx context.Context) (*models.Ledger, error)
	Close() error
}

// LedgerStore is the SQLite Archive. The table carries a unique constraint
// on (date, category, amount), mirroring the ledger's set semantics.
type LedgerStore struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// Open creates the database file if needed, migrates it and returns a
// ready LedgerStore.
func Open(dbPath string, logger logging.Logger) (*LedgerStore, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Debug("Ledger archive opened", logging.F(logging.FieldFile, dbPath))
	return &LedgerStore{
		db:     db,
		path:   dbPath,
		logger: logger.WithField(logging.FieldComponent, "store"),
	}, nil
}

// Path returns the database file.
func (s *LedgerStore) Path() string {
	return s.path
}

// Save implements Archive. Records already archived are ignored.
func (s *LedgerStore) Save(ctx context.Context, ledger *models.Ledger) (int, error) {
	if ledger == nil || ledger.Len() == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO ledger_records (tx_date, category, amount) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	added := 0
	for _, d := range ledger.Dates() {
		for _, r := range ledger.Records(d) {
			res, err := stmt.ExecContext(ctx, d.String(), r.Category, r.Amount.String())
			if err != nil {
				return 0, fmt.Errorf("insert record %s %s: %w", d, r.Category, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return 0, fmt.Errorf("rows affected: %w", err)
			}
			added += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Ledger archived",
		logging.F(logging.FieldFile, s.path),
		logging.F(logging.FieldCount, added),
		logging.F("skipped", ledger.Len()-added))
	return added, nil
}

// Load implements Archive. Records come back in archive order.
func (s *LedgerStore) Load(ctx context.Context) (*models.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tx_date, category, amount FROM ledger_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query ledger records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ledger := models.NewLedger()
	for rows.Next() {
		var dateText, category, amountText string
		if err := rows.Scan(&dateText, &category, &amountText); err != nil {
			return nil, fmt.Errorf("scan ledger record: %w", err)
		}
		d, err := models.ParseDate(dateText)
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			return nil, fmt.Errorf("invalid archived amount '%s': %w", amountText, err)
		}
		ledger.Add(d, models.NewRecord(category, amount))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger records: %w", err)
	}
	return ledger, nil
}

// Close implements Archive.
func (s *LedgerStore) Close() error {
	return s.db.Close()
}
