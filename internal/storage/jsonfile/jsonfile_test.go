package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"budget/internal/core"
	"budget/internal/storage"
)

func sample(t *testing.T) []core.Transaction {
	t.Helper()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
	mk := func(offset time.Duration, amount string, cat string, kind core.Kind, desc string) core.Transaction {
		tx, err := core.NewTransaction(now.Add(offset), core.MustParseAmount(amount), cat, kind, desc)
		if err != nil {
			t.Fatalf("new transaction: %v", err)
		}
		return tx
	}
	return []core.Transaction{
		mk(0, "1000", "Salary", core.Income, "January"),
		mk(time.Minute, "50.25", "Food", core.Expense, ""),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.json")
	s := New(path)

	want := sample(t)
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := New(path).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d transactions, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if !w.Date.Equal(g.Date) || !w.Amount.Equal(g.Amount) || w.Category != g.Category ||
			w.Kind != g.Kind || w.Description != g.Description {
			t.Fatalf("transaction %d mismatch: want %+v, got %+v", i, w, g)
		}
	}
}

func TestSaveWritesIndentedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := New(path).Save(context.Background(), sample(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"[\n  {\n",
		`    "date": "2025-01-02 03:04:05",`,
		`    "amount": 1000,`,
		`    "category": "Salary",`,
		`    "type": "income",`,
		`    "description": "January"`,
		`    "amount": 50.25,`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, text)
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be cleaned up, found %d entries", len(entries))
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.json")
	s := New(path)
	txs := sample(t)
	if err := s.Save(ctx, txs); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, txs[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction after overwrite, got %d", len(got))
	}
}

func TestLoadClassifiesErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "missing.json")).Load(ctx)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	cases := map[string]string{
		"garbage.json":     "not json at all",
		"object.json":      `{"date": "2025-01-01 00:00:00"}`,
		"badkind.json":     `[{"date": "2025-01-01 00:00:00", "amount": 1, "category": "x", "type": "gift", "description": ""}]`,
		"baddate.json":     `[{"date": "yesterday", "amount": 1, "category": "x", "type": "income", "description": ""}]`,
		"negative.json":    `[{"date": "2025-01-01 00:00:00", "amount": -1, "category": "x", "type": "income", "description": ""}]`,
		"missingtype.json": `[{"date": "2025-01-01 00:00:00", "amount": 5, "category": "x", "description": ""}]`,
		"nulltype.json":    `[{"date": "2025-01-01 00:00:00", "amount": 5, "category": "x", "type": null, "description": ""}]`,
		"emptytype.json":   `[{"date": "2025-01-01 00:00:00", "amount": 5, "category": "x", "type": "", "description": ""}]`,
		"nullamount.json":  `[{"date": "2025-01-01 00:00:00", "amount": null, "category": "x", "type": "income", "description": ""}]`,
		"noamount.json":    `[{"date": "2025-01-01 00:00:00", "category": "x", "type": "income", "description": ""}]`,
		"nodate.json":      `[{"amount": 5, "category": "x", "type": "income", "description": ""}]`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := New(path).Load(ctx)
			if !errors.Is(err, storage.ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestLoadAcceptsPythonStyleFloats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	content := `[
  {
    "date": "2024-05-01 09:00:00",
    "amount": 1000.0,
    "category": "Salary",
    "type": "income",
    "description": ""
  }
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Amount.String() != "1000.00" || got[0].Kind != core.Income {
		t.Fatalf("unexpected transactions: %+v", got)
	}
}

func TestNewDefaultsPath(t *testing.T) {
	if New("").Path() != DefaultPath {
		t.Fatalf("expected default path %q", DefaultPath)
	}
}
