package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals are the aggregates derived from the cart on every read
type Totals struct {
	TotalCost  decimal.Decimal `json:"totalCost"`
	ItemCount  int             `json:"itemCount"`
	EntryCount int             `json:"entryCount"`
}

// BudgetSummary describes how the cart total relates to the budget.
// UsagePercent is capped at 100 and is zero when no budget is set.
type BudgetSummary struct {
	Budget       *decimal.Decimal `json:"budget,omitempty"`
	UsagePercent decimal.Decimal  `json:"usagePercent"`
	Remaining    *decimal.Decimal `json:"remaining,omitempty"`
	OverBudget   bool             `json:"overBudget"`
}

// RankedEntry is a cart entry placed in a comparison group
type RankedEntry struct {
	Entry            CartEntry       `json:"entry"`
	NormalizedAmount decimal.Decimal `json:"normalizedAmount"`
	BaseUnit         MeasureUnit     `json:"baseUnit"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	BestValue        bool            `json:"bestValue"`
}

// ComparisonGroup holds the comparable entries of one category, cheapest first
type ComparisonGroup struct {
	Category    string        `json:"category"`
	DisplayName string        `json:"displayName"`
	Entries     []RankedEntry `json:"entries"`
}

// Comparison maps a category key to its ranked group
type Comparison map[string]ComparisonGroup

// FileFailure records why one file of a scan batch could not be analyzed
type FileFailure struct {
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// BatchResult is the outcome of a scan batch
type BatchResult struct {
	Added    []CartEntry   `json:"added"`
	Failures []FileFailure `json:"failures,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// Report is everything the PDF export renders
type Report struct {
	Entries     []CartEntry
	Totals      Totals
	Budget      BudgetSummary
	Missing     []ListEntry
	Currency    string
	GeneratedAt time.Time
}
