// Package sqlite stores the ledger in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/storage"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	position    INTEGER PRIMARY KEY,
	date        TEXT    NOT NULL,
	amount      TEXT    NOT NULL,
	category    TEXT    NOT NULL,
	type        TEXT    NOT NULL CHECK (type IN ('income', 'expense')),
	description TEXT    NOT NULL DEFAULT ''
)`

type Repository struct {
	db *sql.DB
}

var _ storage.Store = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements storage.Store. An empty table is a valid, empty ledger.
func (r *Repository) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, amount, category, type, description FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query transactions: %v", storage.ErrCorrupt, err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var date, amount, category, kind, description string
		if err := rows.Scan(&date, &amount, &category, &kind, &description); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", storage.ErrCorrupt, err)
		}
		tx, err := decodeRow(date, amount, category, kind, description)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", storage.ErrCorrupt, len(txs)+1, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate transactions: %v", storage.ErrCorrupt, err)
	}

	slog.DebugContext(ctx, "Loaded ledger from SQLite", "count", len(txs))
	return txs, nil
}

// Save implements storage.Store by replacing every row in a single transaction.
func (r *Repository) Save(ctx context.Context, txs []core.Transaction) (err error) {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, dbtx.Rollback())
		}
	}()

	if _, err = dbtx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := dbtx.PrepareContext(ctx,
		`INSERT INTO transactions (position, date, amount, category, type, description) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txs {
		if _, err = stmt.ExecContext(ctx, i+1, t.FormatDate(), t.Amount.Decimal().String(),
			t.Category, t.Kind.String(), t.Description); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i+1, err)
		}
	}

	if err = dbtx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Saved ledger to SQLite", "count", len(txs))
	return nil
}

func decodeRow(date, amount, category, kind, description string) (core.Transaction, error) {
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, err
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	a, err := core.NewAmount(dec)
	if err != nil {
		return core.Transaction{}, err
	}
	k, err := core.ParseKind(kind)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        d,
		Amount:      a,
		Category:    category,
		Kind:        k,
		Description: description,
	}, nil
}
