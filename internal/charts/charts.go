// Package charts renders ledger reports as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"

	"budget/internal/core"
)

// ErrNoData is returned when a report has nothing to draw.
var ErrNoData = errors.New("no data to chart")

type Generator struct {
	Width  int
	Height int
}

func NewGenerator() *Generator {
	return &Generator{Width: 1200, Height: 600}
}

// SpendingPie draws one slice per category, labelled with its amount and share.
func (g *Generator) SpendingPie(items []core.CategoryAmount) ([]byte, error) {
	total := core.Total(items)
	if total.IsZero() {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(items))
	for _, it := range items {
		if it.Amount.IsZero() {
			continue
		}
		share := it.Amount.Decimal().Div(total).Mul(hundred)
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: $%s (%s%%)", it.Name, it.Amount, share.StringFixed(1)),
			Value: it.Amount.Decimal().InexactFloat64(),
		})
	}

	pie := chart.PieChart{
		Title:  "Spending by Category",
		Width:  g.Width,
		Height: g.Height,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render spending chart: %w", err)
	}

	return buffer.Bytes(), nil
}

var hundred = decimal.NewFromInt(100)
