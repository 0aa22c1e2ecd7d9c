package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smartcart/backend/internal/domain"
)

// ManualEntry is a product typed in by hand; numbers arrive as strings
// exactly as entered in the form.
type ManualEntry struct {
	Name         string
	Price        string
	Category     string
	MeasureValue string
	MeasureUnit  string
	Quantity     int
}

// ParsePrice parses a price typed by a user. A comma decimal separator is
// accepted. Empty, malformed, negative and out-of-range values are rejected
// with ErrInvalidPrice.
func ParsePrice(raw string) (decimal.Decimal, error) {
	d, err := parseDecimalInput(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", domain.ErrInvalidPrice, raw)
	}
	if !domain.AmountInRange(d) {
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", domain.ErrInvalidPrice, raw)
	}
	return d, nil
}

// ToRecord validates the entry and converts it to a product record.
func (m ManualEntry) ToRecord() (domain.ProductRecord, error) {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return domain.ProductRecord{}, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}
	price, err := ParsePrice(m.Price)
	if err != nil {
		return domain.ProductRecord{}, err
	}

	record := domain.ProductRecord{
		Name:     name,
		Price:    price,
		Category: strings.TrimSpace(m.Category),
	}

	if strings.TrimSpace(m.MeasureValue) != "" {
		v, err := ParseMeasureValue(m.MeasureValue)
		if err != nil {
			return domain.ProductRecord{}, err
		}
		record.MeasureValue = &v
	}
	if strings.TrimSpace(m.MeasureUnit) != "" {
		u, ok := domain.ParseMeasureUnit(m.MeasureUnit)
		if !ok {
			return domain.ProductRecord{}, fmt.Errorf("%w: measure unit %q", domain.ErrInvalidRequest, m.MeasureUnit)
		}
		record.MeasureUnit = u
	}
	return record, nil
}

// ParseMeasureValue parses a package size typed by a user; it must be positive.
func ParseMeasureValue(raw string) (decimal.Decimal, error) {
	v, err := parseDecimalInput(raw)
	if err != nil || !v.IsPositive() || !domain.AmountInRange(v) {
		return decimal.Zero, fmt.Errorf("%w: measure value %q", domain.ErrInvalidRequest, raw)
	}
	return v, nil
}

func parseDecimalInput(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}
