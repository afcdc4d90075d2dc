// Package menu implements the interactive text front end of the ledger.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"budget/internal/charts"
	"budget/internal/core"
	"budget/internal/log"
)

// Ledger is the part of *ledger.Ledger the menu drives.
type Ledger interface {
	Add(ctx context.Context, amount core.Amount, category string, kind core.Kind, description string) (core.Transaction, error)
	Balance() decimal.Decimal
	SpendingByCategory() []core.CategoryAmount
	Transactions() iter.Seq2[int, core.Transaction]
}

// ChartRenderer renders the spending report as an image.
type ChartRenderer interface {
	SpendingPie(items []core.CategoryAmount) ([]byte, error)
}

const rule = "=================================================="

type Menu struct {
	ledger    Ledger
	in        *bufio.Scanner
	out       io.Writer
	charts    ChartRenderer
	chartPath string
	logger    *log.Logger
}

type Option func(*Menu)

// WithChart enables the chart export option, writing PNGs to path.
func WithChart(r ChartRenderer, path string) Option {
	return func(m *Menu) {
		m.charts = r
		m.chartPath = path
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Menu) { m.logger = logger.WithComponent(log.ComponentMenu) }
}

func New(l Ledger, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		ledger: l,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentMenu),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.showHeader()
		choice, ok := m.prompt(fmt.Sprintf("\nEnter your choice (1-%d): ", m.lastOption()))
		if !ok {
			m.println()
			return m.in.Err()
		}

		switch choice {
		case "1":
			m.addTransaction(ctx, core.Income, "Enter income amount: $", "Enter category (e.g., Salary, Gift): ")
		case "2":
			m.addTransaction(ctx, core.Expense, "Enter expense amount: $", "Enter category (e.g., Food, Rent): ")
		case "3":
			m.viewTransactions()
		case "4":
			m.viewSpendingByCategory()
		case "5":
			m.println("Thank you for using Budget Tracker!")
			return nil
		case "6":
			if m.charts != nil {
				m.exportChart(ctx)
				continue
			}
			fallthrough
		default:
			m.println("Invalid choice! Please try again.")
		}
	}
}

func (m *Menu) lastOption() int {
	if m.charts != nil {
		return 6
	}
	return 5
}

func (m *Menu) showHeader() {
	m.println("\n" + rule)
	m.println("PERSONAL BUDGET TRACKER")
	m.println(rule)
	m.println("Current Balance: " + FormatMoney(m.ledger.Balance()))
	m.println("1. Add Income")
	m.println("2. Add Expense")
	m.println("3. View Transactions")
	m.println("4. View Spending by Category")
	m.println("5. Exit")
	if m.charts != nil {
		m.println("6. Export Spending Chart")
	}
}

func (m *Menu) addTransaction(ctx context.Context, kind core.Kind, amountPrompt, categoryPrompt string) {
	raw, ok := m.prompt(amountPrompt)
	if !ok {
		return
	}
	amount, err := core.ParseAmount(raw)
	if err != nil {
		m.println("Please enter a valid amount!")
		return
	}
	category, ok := m.prompt(categoryPrompt)
	if !ok {
		return
	}
	description, ok := m.prompt("Enter description: ")
	if !ok {
		return
	}

	tx, err := m.ledger.Add(ctx, amount, category, kind, description)
	switch {
	case errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrInvalidKind):
		m.println("Please enter a valid amount!")
	case err != nil:
		m.logger.OperationFailed(ctx, log.OpAppend, err)
		m.println("Could not save the transaction: " + err.Error())
	default:
		m.println(fmt.Sprintf("%s of $%s added successfully!", tx.Kind.Title(), tx.Amount))
	}
}

func (m *Menu) viewTransactions() {
	m.println("\n--- Transaction History ---")
	for i, tx := range m.ledger.Transactions() {
		m.println(FormatTransaction(i, tx))
	}
}

func (m *Menu) viewSpendingByCategory() {
	m.println("\n--- Spending by Category ---")
	for _, c := range m.ledger.SpendingByCategory() {
		m.println(fmt.Sprintf("%s: $%s", c.Name, c.Amount))
	}
}

func (m *Menu) exportChart(ctx context.Context) {
	png, err := m.charts.SpendingPie(m.ledger.SpendingByCategory())
	if errors.Is(err, charts.ErrNoData) {
		m.println("No expenses to chart yet.")
		return
	}
	if err == nil {
		err = os.WriteFile(m.chartPath, png, 0644)
	}
	if err != nil {
		m.logger.OperationFailed(ctx, log.OpRender, err, log.FieldPath, m.chartPath)
		m.println("Could not export the chart: " + err.Error())
		return
	}
	m.println("Spending chart saved to " + m.chartPath)
}

// prompt writes msg and reads one line. ok is false once input is exhausted.
func (m *Menu) prompt(msg string) (string, bool) {
	fmt.Fprint(m.out, msg)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) println(lines ...string) {
	fmt.Fprintln(m.out, strings.Join(lines, ""))
}

// FormatMoney renders a signed amount as $X.XX.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatTransaction renders one history line: "<i>. <date> | <sign>$<amount> | <category> | <description>".
func FormatTransaction(i int, tx core.Transaction) string {
	return fmt.Sprintf("%d. %s | %s$%s | %s | %s", i, tx.FormatDate(), tx.Sign(), tx.Amount, tx.Category, tx.Description)
}
