// Package storage defines the persistence port of the ledger.
package storage

import (
	"context"
	"errors"

	"budget/internal/core"
)

// Load failures are classified so callers can tell a fresh start from a damaged store.
var (
	ErrNotFound = errors.New("store not found")
	ErrCorrupt  = errors.New("store unreadable")
)

// Store persists the complete, ordered transaction sequence.
type Store interface {
	// Load returns the persisted sequence, oldest first. Errors wrap
	// ErrNotFound when nothing was persisted yet, ErrCorrupt otherwise.
	Load(ctx context.Context) ([]core.Transaction, error)
	// Save replaces the persisted sequence with txs.
	Save(ctx context.Context, txs []core.Transaction) error
	Close() error
}
