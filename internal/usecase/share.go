package usecase

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smartcart/backend/internal/domain"
)

const shareHeader = "SmartCart shopping summary"

// shareLinePattern matches "- <qty> x <name> @ <price> = <line total>"
var shareLinePattern = regexp.MustCompile(`^- (\d+) x (.+) @ (-?[0-9.]+)(?: \S+)? = `)

// ShareText renders the cart as plain text for the share sheet or clipboard.
func ShareText(entries []domain.CartEntry, totals domain.Totals, budget domain.BudgetSummary, currency string) string {
	var b strings.Builder
	b.WriteString(shareHeader)
	b.WriteString("\n\n")

	for _, e := range entries {
		fmt.Fprintf(&b, "- %d x %s @ %s = %s\n",
			e.Quantity, singleLine(e.Name), money(e.Price, currency), money(e.LineTotal(), currency))
	}

	fmt.Fprintf(&b, "\nItems: %d\n", totals.ItemCount)
	fmt.Fprintf(&b, "Total: %s\n", money(totals.TotalCost, currency))
	if budget.Budget != nil {
		fmt.Fprintf(&b, "Budget: %s (remaining %s)\n", money(*budget.Budget, currency), money(*budget.Remaining, currency))
	}
	return b.String()
}

// ParseShareText recovers the item count and total cost from ShareText output
// by re-reading the entry lines.
func ParseShareText(text string) (itemCount int, total decimal.Decimal, err error) {
	total = decimal.Zero
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		m := shareLinePattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, decimal.Zero, fmt.Errorf("parse quantity %q: %w", m[1], err)
		}
		price, err := decimal.NewFromString(m[3])
		if err != nil {
			return 0, decimal.Zero, fmt.Errorf("parse price %q: %w", m[3], err)
		}
		itemCount += qty
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return itemCount, total, scanner.Err()
}

// money prints two decimals unless that would lose precision.
func money(d decimal.Decimal, currency string) string {
	s := d.String()
	if d.Equal(d.Round(2)) {
		s = d.StringFixed(2)
	}
	if currency == "" {
		return s
	}
	return s + " " + currency
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
