package usecase

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcart/backend/internal/domain"
)

// newTestStore returns a store with predictable ids and timestamps
func newTestStore() *CartStore {
	s := NewCartStore()
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func product(name, price string) domain.ProductRecord {
	return domain.ProductRecord{Name: name, Price: decimal.RequireFromString(price)}
}

func TestCartStore_Add(t *testing.T) {
	s := newTestStore()

	first := s.Add(product("Milk", "4.5"), 1)
	second := s.Add(product("Bread", "3.2"), 0)

	assert.Equal(t, "e1", first.ID)
	assert.Equal(t, 1, second.Quantity, "quantity below one is coerced")

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Bread", entries[0].Name, "newest entry comes first")
	assert.Equal(t, "Milk", entries[1].Name)
}

func TestCartStore_Update(t *testing.T) {
	tests := []struct {
		name    string
		patch   func() domain.EntryPatch
		wantErr error
		check   func(t *testing.T, e domain.CartEntry)
	}{
		{
			name: "merges only given fields",
			patch: func() domain.EntryPatch {
				name := "Whole milk"
				return domain.EntryPatch{Name: &name}
			},
			check: func(t *testing.T, e domain.CartEntry) {
				assert.Equal(t, "Whole milk", e.Name)
				assert.Equal(t, "4.5", e.Price.String())
				assert.Equal(t, 2, e.Quantity)
			},
		},
		{
			name: "sets measure",
			patch: func() domain.EntryPatch {
				v := decimal.NewFromInt(1)
				u := domain.UnitLiter
				return domain.EntryPatch{MeasureValue: &v, MeasureUnit: &u}
			},
			check: func(t *testing.T, e domain.CartEntry) {
				assert.True(t, e.HasMeasure())
				assert.Equal(t, domain.UnitLiter, e.MeasureUnit)
			},
		},
		{
			name: "rejects zero quantity",
			patch: func() domain.EntryPatch {
				q := 0
				return domain.EntryPatch{Quantity: &q}
			},
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name: "rejects negative price",
			patch: func() domain.EntryPatch {
				p := decimal.NewFromInt(-1)
				return domain.EntryPatch{Price: &p}
			},
			wantErr: domain.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			entry := s.Add(product("Milk", "4.5"), 2)

			got, err := s.Update(entry.ID, tt.patch())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				unchanged, _ := s.Get(entry.ID)
				assert.Equal(t, entry, unchanged)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}

	t.Run("clears measure", func(t *testing.T) {
		s := newTestStore()
		v := decimal.NewFromInt(500)
		entry := s.Add(domain.ProductRecord{
			Name: "Rice", Price: decimal.NewFromInt(10), MeasureValue: &v, MeasureUnit: domain.UnitGram,
		}, 1)

		empty := domain.MeasureUnit("")
		got, err := s.Update(entry.ID, domain.EntryPatch{ClearMeasureValue: true, MeasureUnit: &empty})
		require.NoError(t, err)
		assert.Nil(t, got.MeasureValue)
		assert.Equal(t, domain.MeasureUnit(""), got.MeasureUnit)
		assert.False(t, got.HasMeasure())
		assert.Empty(t, Compare(s.Entries()))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := newTestStore().Update("nope", domain.EntryPatch{})
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})
}

func TestCartStore_Decrement(t *testing.T) {
	s := newTestStore()
	entry := s.Add(product("Milk", "4.5"), 2)

	got, removed, err := s.Decrement(entry.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, got.Quantity)

	got, removed, err = s.Decrement(entry.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, got.Quantity)
	assert.Empty(t, s.Entries())
	assert.True(t, s.Totals().TotalCost.IsZero())

	_, _, err = s.Decrement(entry.ID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestCartStore_IncrementRemoveClear(t *testing.T) {
	s := newTestStore()
	a := s.Add(product("Milk", "4.5"), 1)
	s.Add(product("Bread", "3"), 1)

	got, err := s.Increment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	_, err = s.Increment("nope")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	require.NoError(t, s.Remove(a.ID))
	assert.ErrorIs(t, s.Remove(a.ID), domain.ErrEntryNotFound)
	assert.Len(t, s.Entries(), 1)

	s.Clear()
	assert.Empty(t, s.Entries())
	assert.Equal(t, 0, s.Totals().ItemCount)
}

func TestCartStore_EntriesIsSnapshot(t *testing.T) {
	s := newTestStore()
	s.Add(product("Milk", "4.5"), 1)

	entries := s.Entries()
	entries[0].Name = "changed"

	assert.Equal(t, "Milk", s.Entries()[0].Name)
}

// TestCartStore_TotalsInvariant replays random operations and checks that the
// totals always equal the sum over entries.
func TestCartStore_TotalsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newTestStore()
	prices := []string{"0.99", "4.5", "12.35", "0", "7"}

	for i := 0; i < 500; i++ {
		entries := s.Entries()
		op := rng.Intn(5)
		if len(entries) == 0 {
			op = 0
		}
		switch op {
		case 0:
			s.Add(product(fmt.Sprintf("p%d", i), prices[rng.Intn(len(prices))]), rng.Intn(4))
		case 1:
			_, err := s.Increment(entries[rng.Intn(len(entries))].ID)
			require.NoError(t, err)
		case 2:
			_, _, err := s.Decrement(entries[rng.Intn(len(entries))].ID)
			require.NoError(t, err)
		case 3:
			q := 1 + rng.Intn(5)
			_, err := s.Update(entries[rng.Intn(len(entries))].ID, domain.EntryPatch{Quantity: &q})
			require.NoError(t, err)
		case 4:
			require.NoError(t, s.Remove(entries[rng.Intn(len(entries))].ID))
		}

		want := decimal.Zero
		items := 0
		for _, e := range s.Entries() {
			require.GreaterOrEqual(t, e.Quantity, 1)
			want = want.Add(e.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
			items += e.Quantity
		}
		totals := s.Totals()
		require.True(t, want.Equal(totals.TotalCost), "step %d: total %s, want %s", i, totals.TotalCost, want)
		require.Equal(t, items, totals.ItemCount)
		require.Equal(t, len(s.Entries()), totals.EntryCount)
	}
}
