package store

import (
	"context"

	"fjacquet/revolut-ocr/internal/models"
)

// MockArchive is an in-memory Archive for tests.
type MockArchive struct {
	Ledger *models.Ledger
	Saves  int
	Closed bool

	SaveError error
	LoadError error
}

// NewMockArchive returns an empty MockArchive.
func NewMockArchive() *MockArchive {
	return &MockArchive{Ledger: models.NewLedger()}
}

// Save merges ledger into the in-memory history.
func (m *MockArchive) Save(_ context.Context, ledger *models.Ledger) (int, error) {
	if m.SaveError != nil {
		return 0, m.SaveError
	}
	if m.Ledger == nil {
		m.Ledger = models.NewLedger()
	}
	m.Saves++
	return m.Ledger.Merge(ledger), nil
}

// Load returns a copy of the in-memory history.
func (m *MockArchive) Load(_ context.Context) (*models.Ledger, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	out := models.NewLedger()
	out.Merge(m.Ledger)
	return out, nil
}

// Close marks the archive closed.
func (m *MockArchive) Close() error {
	m.Closed = true
	return nil
}
