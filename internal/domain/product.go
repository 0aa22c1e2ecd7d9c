package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MeasureUnit is the package size unit printed on a product label
type MeasureUnit string

const (
	UnitGram       MeasureUnit = "g"
	UnitKilogram   MeasureUnit = "kg"
	UnitMilliliter MeasureUnit = "ml"
	UnitLiter      MeasureUnit = "l"
	UnitPiece      MeasureUnit = "pcs"
)

// unitAliases maps label spellings to the supported units
var unitAliases = map[string]MeasureUnit{
	"g": UnitGram, "gr": UnitGram, "gram": UnitGram, "grams": UnitGram,
	"kg": UnitKilogram, "kilo": UnitKilogram, "kilogram": UnitKilogram, "kilograms": UnitKilogram,
	"ml": UnitMilliliter, "milliliter": UnitMilliliter, "millilitre": UnitMilliliter,
	"l": UnitLiter, "liter": UnitLiter, "litre": UnitLiter, "liters": UnitLiter, "litres": UnitLiter,
	"pcs": UnitPiece, "pc": UnitPiece, "piece": UnitPiece, "pieces": UnitPiece, "szt": UnitPiece, "ct": UnitPiece, "count": UnitPiece,
}

// ParseMeasureUnit normalizes a unit string. The second result is false for
// empty or unknown units.
func ParseMeasureUnit(s string) (MeasureUnit, bool) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(strings.TrimSuffix(s, ".")))]
	return u, ok
}

// IsLarge reports whether the unit is the x1000 variant of mass or volume.
func (u MeasureUnit) IsLarge() bool {
	return u == UnitKilogram || u == UnitLiter
}

// BaseUnit returns the unit prices are compared in.
func (u MeasureUnit) BaseUnit() MeasureUnit {
	switch u {
	case UnitKilogram:
		return UnitGram
	case UnitLiter:
		return UnitMilliliter
	default:
		return u
	}
}

// Prices and package sizes are stored with at most AmountScale decimal places
// and must stay below MaxAmount.
const AmountScale = 6

var MaxAmount = decimal.New(1, 9)

// AmountInRange reports whether d fits the bounds above. The exponent is
// checked first so huge exponents are rejected without expanding them.
func AmountInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -AmountScale || exp > 9 {
		return false
	}
	return d.Abs().LessThan(MaxAmount)
}

// ProductRecord is a product as read from a label photo or typed by hand
type ProductRecord struct {
	Name         string           `json:"name"`
	Price        decimal.Decimal  `json:"price"`
	Category     string           `json:"category,omitempty"`
	MeasureValue *decimal.Decimal `json:"measureValue,omitempty"`
	MeasureUnit  MeasureUnit      `json:"measureUnit,omitempty"`
}

// HasMeasure reports whether the record carries both a package size and its unit.
func (p ProductRecord) HasMeasure() bool {
	return p.MeasureValue != nil && p.MeasureUnit != ""
}

// CartEntry is a quantity-bearing product line in the cart
type CartEntry struct {
	ID string `json:"id"`
	ProductRecord
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// LineTotal returns price x quantity.
func (e CartEntry) LineTotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// EntryPatch carries the fields of an Update; nil fields are left untouched.
// ClearMeasureValue drops the package size, and a MeasureUnit pointing at ""
// drops the unit.
type EntryPatch struct {
	Name              *string          `json:"name,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	Category          *string          `json:"category,omitempty"`
	MeasureValue      *decimal.Decimal `json:"measureValue,omitempty"`
	ClearMeasureValue bool             `json:"clearMeasureValue,omitempty"`
	MeasureUnit       *MeasureUnit     `json:"measureUnit,omitempty"`
	Quantity          *int             `json:"quantity,omitempty"`
}

// ListEntry is a shopping-list item
type ListEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}
