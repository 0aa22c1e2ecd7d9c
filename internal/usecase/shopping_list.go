package usecase

import (
	"strings"

	"github.com/google/uuid"

	"github.com/smartcart/backend/internal/domain"
)

// ShoppingList is the wish list reconciled against the cart by name.
// It is not safe for concurrent use; Session serializes access.
type ShoppingList struct {
	entries []domain.ListEntry
	newID   func() string
}

// NewShoppingList creates an empty shopping list
func NewShoppingList() *ShoppingList {
	return &ShoppingList{newID: uuid.NewString}
}

// Add appends an unchecked item. Blank names are rejected.
func (l *ShoppingList) Add(name string) (domain.ListEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ListEntry{}, domain.ErrInvalidRequest
	}
	entry := domain.ListEntry{ID: l.newID(), Name: name}
	l.entries = append(l.entries, entry)
	return entry, nil
}

// AddMany appends every non-blank name in order and returns the new entries.
func (l *ShoppingList) AddMany(names []string) []domain.ListEntry {
	added := make([]domain.ListEntry, 0, len(names))
	for _, name := range names {
		entry, err := l.Add(name)
		if err != nil {
			continue
		}
		added = append(added, entry)
	}
	return added
}

// Toggle flips the checked flag of an item.
func (l *ShoppingList) Toggle(id string) (domain.ListEntry, error) {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Checked = !l.entries[i].Checked
			return l.entries[i], nil
		}
	}
	return domain.ListEntry{}, domain.ErrListItemNotFound
}

// Remove deletes an item.
func (l *ShoppingList) Remove(id string) error {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrListItemNotFound
}

// Clear empties the list.
func (l *ShoppingList) Clear() {
	l.entries = nil
}

// Entries returns a snapshot of the list in insertion order.
func (l *ShoppingList) Entries() []domain.ListEntry {
	out := make([]domain.ListEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
