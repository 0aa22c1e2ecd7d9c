package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartcart/backend/internal/domain"
)

// CartStore is the ordered, in-memory collection of cart entries, newest first.
// It is not safe for concurrent use; Session serializes access.
type CartStore struct {
	entries []domain.CartEntry
	newID   func() string
	now     func() time.Time
}

// NewCartStore creates an empty cart
func NewCartStore() *CartStore {
	return &CartStore{
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Add stores record as a new entry at the front of the cart.
func (s *CartStore) Add(record domain.ProductRecord, quantity int) domain.CartEntry {
	if quantity < 1 {
		quantity = 1
	}
	entry := domain.CartEntry{
		ID:            s.newID(),
		ProductRecord: record,
		Quantity:      quantity,
		AddedAt:       s.now(),
	}
	s.entries = append([]domain.CartEntry{entry}, s.entries...)
	return entry
}

// Update merges the non-nil fields of patch into the entry with the given id.
func (s *CartStore) Update(id string, patch domain.EntryPatch) (domain.CartEntry, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.CartEntry{}, domain.ErrEntryNotFound
	}
	if patch.Quantity != nil && *patch.Quantity < 1 {
		return domain.CartEntry{}, domain.ErrInvalidQuantity
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return domain.CartEntry{}, domain.ErrInvalidPrice
	}

	e := &s.entries[idx]
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Price != nil {
		e.Price = *patch.Price
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.ClearMeasureValue {
		e.MeasureValue = nil
	} else if patch.MeasureValue != nil {
		v := *patch.MeasureValue
		e.MeasureValue = &v
	}
	if patch.MeasureUnit != nil {
		e.MeasureUnit = *patch.MeasureUnit
	}
	if patch.Quantity != nil {
		e.Quantity = *patch.Quantity
	}
	return *e, nil
}

// Increment raises the quantity of an entry by one.
func (s *CartStore) Increment(id string) (domain.CartEntry, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.CartEntry{}, domain.ErrEntryNotFound
	}
	s.entries[idx].Quantity++
	return s.entries[idx], nil
}

// Decrement lowers the quantity of an entry by one. An entry whose quantity
// reaches zero is removed; removed reports whether that happened.
func (s *CartStore) Decrement(id string) (entry domain.CartEntry, removed bool, err error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.CartEntry{}, false, domain.ErrEntryNotFound
	}
	if s.entries[idx].Quantity <= 1 {
		entry = s.entries[idx]
		s.removeAt(idx)
		entry.Quantity = 0
		return entry, true, nil
	}
	s.entries[idx].Quantity--
	return s.entries[idx], false, nil
}

// Remove deletes the entry with the given id.
func (s *CartStore) Remove(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrEntryNotFound
	}
	s.removeAt(idx)
	return nil
}

// Clear empties the cart.
func (s *CartStore) Clear() {
	s.entries = nil
}

// Get returns a copy of the entry with the given id.
func (s *CartStore) Get(id string) (domain.CartEntry, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.CartEntry{}, false
	}
	return s.entries[idx], true
}

// Entries returns a snapshot of the cart, newest first.
func (s *CartStore) Entries() []domain.CartEntry {
	out := make([]domain.CartEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Totals recomputes the cart aggregates.
func (s *CartStore) Totals() domain.Totals {
	return ComputeTotals(s.entries)
}

// ComputeTotals sums cost and quantities over entries.
func ComputeTotals(entries []domain.CartEntry) domain.Totals {
	totals := domain.Totals{TotalCost: decimal.Zero, EntryCount: len(entries)}
	for _, e := range entries {
		totals.TotalCost = totals.TotalCost.Add(e.LineTotal())
		totals.ItemCount += e.Quantity
	}
	return totals
}

func (s *CartStore) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *CartStore) removeAt(idx int) {
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
}
