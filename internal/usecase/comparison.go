package usecase

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smartcart/backend/internal/domain"
)

// Entries without a category share the empty key, shown as "other". A
// category literally named "other" keeps its own group.
const (
	uncategorizedKey  = ""
	uncategorizedName = "other"
)

var thousand = decimal.NewFromInt(1000)

// Compare groups comparable cart entries by category and ranks every group by
// price per base unit. Entries without a measure value or unit are left out.
// Groups of two or more entries flag their cheapest entry as best value.
func Compare(entries []domain.CartEntry) domain.Comparison {
	result := domain.Comparison{}

	for _, e := range entries {
		if !e.HasMeasure() {
			continue
		}
		key := e.Category
		if strings.TrimSpace(key) == "" {
			key = uncategorizedKey
		}

		amount := NormalizeMeasure(*e.MeasureValue, e.MeasureUnit)
		group, ok := result[key]
		if !ok {
			group = domain.ComparisonGroup{Category: key, DisplayName: CategoryDisplayName(key)}
			if key == uncategorizedKey {
				group.DisplayName = uncategorizedName
			}
		}
		group.Entries = append(group.Entries, domain.RankedEntry{
			Entry:            e,
			NormalizedAmount: amount,
			BaseUnit:         e.MeasureUnit.BaseUnit(),
			UnitPrice:        UnitPrice(e.Price, amount),
		})
		result[key] = group
	}

	for key, group := range result {
		sort.SliceStable(group.Entries, func(i, j int) bool {
			return group.Entries[i].UnitPrice.LessThan(group.Entries[j].UnitPrice)
		})
		if len(group.Entries) >= 2 {
			group.Entries[0].BestValue = true
		}
		result[key] = group
	}

	return result
}

// NormalizeMeasure converts kilograms and liters to grams and milliliters.
func NormalizeMeasure(value decimal.Decimal, unit domain.MeasureUnit) decimal.Decimal {
	if unit.IsLarge() {
		return value.Mul(thousand)
	}
	return value
}

// UnitPrice divides price by the normalized amount; a zero amount counts as 1.
func UnitPrice(price, amount decimal.Decimal) decimal.Decimal {
	if amount.Sign() <= 0 {
		amount = decimal.NewFromInt(1)
	}
	return price.Div(amount)
}

// CategoryDisplayName lower-cases a category and replaces underscores with spaces.
func CategoryDisplayName(category string) string {
	return strings.ReplaceAll(strings.ToLower(category), "_", " ")
}
