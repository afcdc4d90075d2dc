package core

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format of a transaction date (second precision).
const DateLayout = "2006-01-02 15:04:05"

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind tells whether a transaction adds to or subtracts from the balance.
	Kind string

	Transaction struct {
		Date        time.Time
		Amount      Amount
		Category    string
		Kind        Kind
		Description string
	}
)

var (
	ErrInvalidKind   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrZeroDate      = errors.New("date cannot be zero")
)

// ParseKind accepts exactly "income" or "expense".
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
	}
}

func (k Kind) String() string {
	return string(k)
}

// Title returns the capitalised label used in user-facing messages.
func (k Kind) Title() string {
	switch k {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	default:
		return string(k)
	}
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return []byte(k), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown kinds.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// NewTransaction builds a validated transaction dated at now in local time,
// truncated to the second.
func NewTransaction(now time.Time, amount Amount, category string, kind Kind, description string) (Transaction, error) {
	t := Transaction{
		Date:        now.In(time.Local).Truncate(time.Second),
		Amount:      amount,
		Category:    category,
		Kind:        kind,
		Description: description,
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Sign is "+" for income and "-" for expense.
func (t Transaction) Sign() string {
	if t.Kind == Income {
		return "+"
	}
	return "-"
}

// FormatDate renders the date in DateLayout.
func (t Transaction) FormatDate() string {
	return t.Date.Format(DateLayout)
}

// ParseDate parses a DateLayout string in the local time zone.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}
