package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartcart/backend/internal/domain"
)

// CartEntryView is a cart entry annotated with its shopping-list match
type CartEntryView struct {
	domain.CartEntry
	Wished bool `json:"wished"`
}

// CartView is the cart as returned to clients
type CartView struct {
	Entries []CartEntryView      `json:"entries"`
	Totals  domain.Totals        `json:"totals"`
	Budget  domain.BudgetSummary `json:"budget"`
}

// ListEntryView is a shopping-list entry annotated with its cart match
type ListEntryView struct {
	domain.ListEntry
	Fulfilled bool `json:"fulfilled"`
}

// Session owns the process-wide application state: the cart, the shopping
// list and the budget. All reads and writes go through its methods.
type Session struct {
	mu     sync.RWMutex
	cart   *CartStore
	list   *ShoppingList
	budget *decimal.Decimal
	now    func() time.Time
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{
		cart: NewCartStore(),
		list: NewShoppingList(),
		now:  time.Now,
	}
}

// AddProduct adds a record to the cart.
func (s *Session) AddProduct(record domain.ProductRecord, quantity int) domain.CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Add(record, quantity)
}

// UpdateEntry merges patch into a cart entry.
func (s *Session) UpdateEntry(id string, patch domain.EntryPatch) (domain.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Update(id, patch)
}

// IncrementEntry raises an entry's quantity by one.
func (s *Session) IncrementEntry(id string) (domain.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Increment(id)
}

// DecrementEntry lowers an entry's quantity by one, removing it at zero.
func (s *Session) DecrementEntry(id string) (domain.CartEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Decrement(id)
}

// RemoveEntry deletes a cart entry.
func (s *Session) RemoveEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Remove(id)
}

// ClearCart empties the cart.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// Cart returns the cart with totals, budget usage and wish-list flags.
func (s *Session) Cart() CartView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.cart.Entries()
	list := s.list.Entries()
	totals := ComputeTotals(entries)

	views := make([]CartEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, CartEntryView{CartEntry: e, Wished: IsWished(e.Name, list)})
	}
	return CartView{
		Entries: views,
		Totals:  totals,
		Budget:  SummarizeBudget(totals.TotalCost, s.budget),
	}
}

// Comparison ranks the current cart by unit price.
func (s *Session) Comparison() domain.Comparison {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Compare(s.cart.Entries())
}

// SetBudget sets the budget. Negative amounts are rejected.
func (s *Session) SetBudget(amount decimal.Decimal) (domain.BudgetSummary, error) {
	if amount.IsNegative() {
		return domain.BudgetSummary{}, fmt.Errorf("%w: budget must not be negative", domain.ErrInvalidRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = &amount
	return SummarizeBudget(s.cart.Totals().TotalCost, s.budget), nil
}

// ClearBudget removes the budget.
func (s *Session) ClearBudget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = nil
}

// Budget returns the budget summary for the current cart.
func (s *Session) Budget() domain.BudgetSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SummarizeBudget(s.cart.Totals().TotalCost, s.budget)
}

// AddListItem appends an item to the shopping list.
func (s *Session) AddListItem(name string) (domain.ListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Add(name)
}

// ImportListItems appends every name read from an imported list.
func (s *Session) ImportListItems(names []string) []domain.ListEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.AddMany(names)
}

// ToggleListItem flips the checked flag of a list item.
func (s *Session) ToggleListItem(id string) (domain.ListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Toggle(id)
}

// RemoveListItem deletes a list item.
func (s *Session) RemoveListItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Remove(id)
}

// ClearList empties the shopping list.
func (s *Session) ClearList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Clear()
}

// List returns the shopping list with fulfilled flags.
func (s *Session) List() []ListEntryView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart := s.cart.Entries()
	entries := s.list.Entries()
	views := make([]ListEntryView, 0, len(entries))
	for _, item := range entries {
		views = append(views, ListEntryView{ListEntry: item, Fulfilled: IsFulfilled(item.Name, cart)})
	}
	return views
}

// ShareText renders the cart summary used by the share action.
func (s *Session) ShareText(currency string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.cart.Entries()
	totals := ComputeTotals(entries)
	return ShareText(entries, totals, SummarizeBudget(totals.TotalCost, s.budget), currency)
}

// Report gathers what the PDF export needs.
func (s *Session) Report(currency string) domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.cart.Entries()
	totals := ComputeTotals(entries)
	return domain.Report{
		Entries:     entries,
		Totals:      totals,
		Budget:      SummarizeBudget(totals.TotalCost, s.budget),
		Missing:     Missing(s.list.Entries(), entries),
		Currency:    currency,
		GeneratedAt: s.now(),
	}
}
