package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/smartcart/backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// SummarizeBudget relates a cart total to an optional budget. Usage is shown
// as a percentage capped at 100; without a budget it is zero.
func SummarizeBudget(total decimal.Decimal, budget *decimal.Decimal) domain.BudgetSummary {
	summary := domain.BudgetSummary{UsagePercent: decimal.Zero}
	if budget == nil {
		return summary
	}

	b := *budget
	remaining := b.Sub(total)
	summary.Budget = &b
	summary.Remaining = &remaining
	summary.OverBudget = total.GreaterThan(b)

	switch {
	case b.IsZero() && total.IsPositive():
		summary.UsagePercent = hundred
	case b.IsZero():
		summary.UsagePercent = decimal.Zero
	default:
		usage := total.Div(b).Mul(hundred).Round(2)
		if usage.GreaterThan(hundred) {
			usage = hundred
		}
		summary.UsagePercent = usage
	}
	return summary
}
