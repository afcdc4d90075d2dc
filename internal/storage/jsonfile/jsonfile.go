// Package jsonfile stores the ledger as a pretty-printed JSON array in a single file.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"budget/internal/core"
	"budget/internal/storage"
)

// DefaultPath is the store file used when none is configured.
const DefaultPath = "budget_data.json"

// record is the on-disk shape of a transaction.
type record struct {
	Date        string      `json:"date"`
	Amount      core.Amount `json:"amount"`
	Category    string      `json:"category"`
	Type        core.Kind   `json:"type"`
	Description string      `json:"description"`
}

// storedRecord is the decode shape; amount and type are pointers so a
// missing or null value can be told apart from a zero one.
type storedRecord struct {
	Date        string       `json:"date"`
	Amount      *core.Amount `json:"amount"`
	Category    string       `json:"category"`
	Type        *core.Kind   `json:"type"`
	Description string       `json:"description"`
}

func (r storedRecord) transaction() (core.Transaction, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	if r.Amount == nil {
		return core.Transaction{}, errors.New("missing amount")
	}
	if r.Type == nil {
		return core.Transaction{}, errors.New("missing type")
	}
	t := core.Transaction{
		Date:        date,
		Amount:      *r.Amount,
		Category:    r.Category,
		Kind:        *r.Type,
		Description: r.Description,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

type Store struct {
	path string
}

var _ storage.Store = (*Store)(nil)

func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(ctx context.Context) ([]core.Transaction, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", storage.ErrCorrupt, s.path, err)
	}

	var records []storedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", storage.ErrCorrupt, s.path, err)
	}

	txs := make([]core.Transaction, 0, len(records))
	for i, r := range records {
		t, err := r.transaction()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", storage.ErrCorrupt, i+1, err)
		}
		txs = append(txs, t)
	}

	slog.DebugContext(ctx, "Loaded ledger file", "path", s.path, "count", len(txs))
	return txs, nil
}

// Save overwrites the file with the full sequence. The new content is written
// to a sibling temp file and renamed into place, so a crash mid-write leaves
// the previous content intact.
func (s *Store) Save(ctx context.Context, txs []core.Transaction) error {
	records := make([]record, len(txs))
	for i, t := range txs {
		records[i] = record{
			Date:        t.FormatDate(),
			Amount:      t.Amount,
			Category:    t.Category,
			Type:        t.Kind,
			Description: t.Description,
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	slog.DebugContext(ctx, "Saved ledger file", "path", s.path, "count", len(txs))
	return nil
}

func (s *Store) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	return os.Rename(tmpName, path)
}
