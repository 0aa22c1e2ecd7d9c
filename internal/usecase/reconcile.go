package usecase

import (
	"strings"

	"github.com/smartcart/backend/internal/domain"
)

// IsFulfilled reports whether any cart entry name contains the list item name.
// The match is a case-insensitive substring test, not an exact comparison.
func IsFulfilled(listItemName string, cart []domain.CartEntry) bool {
	needle := strings.ToLower(listItemName)
	for _, e := range cart {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			return true
		}
	}
	return false
}

// IsWished reports whether the cart entry name contains any shopping-list item name.
// It is checked against the list independently of IsFulfilled, so the two
// flags may disagree for a given pair of names.
func IsWished(cartEntryName string, list []domain.ListEntry) bool {
	haystack := strings.ToLower(cartEntryName)
	for _, item := range list {
		if strings.Contains(haystack, strings.ToLower(item.Name)) {
			return true
		}
	}
	return false
}

// Missing returns the list entries that are neither checked off nor found in the cart.
func Missing(list []domain.ListEntry, cart []domain.CartEntry) []domain.ListEntry {
	var out []domain.ListEntry
	for _, item := range list {
		if item.Checked || IsFulfilled(item.Name, cart) {
			continue
		}
		out = append(out, item)
	}
	return out
}
