// Package ledger implements the append-only transaction ledger: it loads the
// persisted sequence, appends new transactions with immediate persistence and
// computes the balance and spending reports.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/storage"
)

// Publisher announces recorded transactions to other systems.
type Publisher interface {
	PublishTransactionRecorded(ctx context.Context, position int, t core.Transaction) error
}

type Ledger struct {
	mu        sync.Mutex
	store     storage.Store
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
	txs       []core.Transaction
}

type Option func(*Ledger)

// WithPublisher publishes every successfully persisted transaction through p.
func WithPublisher(p Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) { l.logger = logger.WithComponent(log.ComponentLedger) }
}

// WithClock overrides the time source used to date new transactions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a ledger backed by store and loads its content. Loading never
// fails: a missing or unreadable store yields an empty ledger.
func New(ctx context.Context, store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.load(ctx)
	return l
}

func (l *Ledger) load(ctx context.Context) {
	txs, err := l.store.Load(ctx)
	switch {
	case err == nil:
		l.txs = txs
		l.logger.DebugContext(ctx, "Ledger loaded", log.FieldOperation, log.OpLoad, log.FieldCount, len(txs))
	case errors.Is(err, storage.ErrNotFound):
		l.loadLogger(err, log.ErrorTypeNotFound).DebugContext(ctx, "No ledger store yet, starting empty")
	default:
		l.loadLogger(err, log.ErrorTypeCorrupt).WarnContext(ctx, "Ledger store unreadable, starting empty")
	}
}

func (l *Ledger) loadLogger(err error, errorType string) *log.Logger {
	return l.logger.WithFields(log.NewFields().
		WithOperation(log.OpLoad).
		WithError(err).
		WithErrorType(errorType))
}

// Add records a new transaction dated now and persists the whole ledger.
// If persisting fails the transaction is dropped again and the error returned.
func (l *Ledger) Add(ctx context.Context, amount core.Amount, category string, kind core.Kind, description string) (core.Transaction, error) {
	t, err := core.NewTransaction(l.now(), amount, category, kind, description)
	if err != nil {
		return core.Transaction{}, err
	}

	l.mu.Lock()
	l.txs = append(l.txs, t)
	position := len(l.txs)
	if err := l.store.Save(ctx, l.txs); err != nil {
		l.txs = l.txs[:position-1]
		l.mu.Unlock()
		l.logger.OperationFailed(ctx, log.OpPersist, err, log.FieldCount, position)
		return core.Transaction{}, fmt.Errorf("persist ledger: %w", err)
	}
	l.mu.Unlock()

	l.logger.WithFields(log.NewFields().
		WithOperation(log.OpAppend).
		WithTransaction(position, kind.String(), amount.String(), category)).
		InfoContext(ctx, "Transaction recorded")

	l.publish(ctx, position, t)
	return t, nil
}

func (l *Ledger) publish(ctx context.Context, position int, t core.Transaction) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishTransactionRecorded(ctx, position, t); err != nil {
		// The store is the source of truth; a lost notification does not undo the add.
		l.logger.OperationFailed(ctx, log.OpPublish, err, log.FieldPosition, position)
	}
}

// Balance returns total income minus total expenses.
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range l.txs {
		switch t.Kind {
		case core.Income:
			income = income.Add(t.Amount.Decimal())
		case core.Expense:
			expenses = expenses.Add(t.Amount.Decimal())
		}
	}
	return income.Sub(expenses)
}

// SpendingByCategory sums expenses per category, in the order each category
// first appears among expenses. Income never contributes.
func (l *Ledger) SpendingByCategory() []core.CategoryAmount {
	l.mu.Lock()
	defer l.mu.Unlock()

	index := map[string]int{}
	var out []core.CategoryAmount
	for _, t := range l.txs {
		if t.Kind != core.Expense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, core.CategoryAmount{Name: t.Category})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// Transactions yields every transaction oldest first with its 1-based position.
// Each range over the sequence starts from the beginning.
func (l *Ledger) Transactions() iter.Seq2[int, core.Transaction] {
	return func(yield func(int, core.Transaction) bool) {
		l.mu.Lock()
		// existing elements are never modified, so the prefix is safe to read unlocked
		txs := l.txs[:len(l.txs):len(l.txs)]
		l.mu.Unlock()

		for i, t := range txs {
			if !yield(i+1, t) {
				return
			}
		}
	}
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.txs)
}
