package store

import (
	"context"
	"testing"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory returns an empty store for a single contract test.
type storeFactory func(t *testing.T) ProductStore

func mustCreate(t *testing.T, s ProductStore, name, description, price string) *Product {
	t.Helper()
	p, err := s.Create(context.Background(), name, description, decimal.RequireFromString(price))
	require.NoError(t, err, "mustCreate helper failed to create product")
	return p
}

func assertPrice(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "price: expected %s, got %s", expected, actual)
}

// runStoreContract checks the behaviour every ProductStore implementation shares.
func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("Create assigns fresh ids and keeps fields", func(t *testing.T) {
		// given
		s := newStore(t)
		// when
		first := mustCreate(t, s, "Widget", "A widget", "10.00")
		second := mustCreate(t, s, "Gadget", "A gadget", "0.99")
		// then
		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
		assert.Equal(t, "Widget", first.Name)
		assert.Equal(t, "A widget", first.Description)
		assertPrice(t, "10.00", first.Price)
	})

	t.Run("FindByID returns the stored product", func(t *testing.T) {
		// given
		s := newStore(t)
		created := mustCreate(t, s, "Widget", "A widget", "10.00")
		// when
		found, err := s.FindByID(ctx, created.ID)
		// then
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, created.Name, found.Name)
		assert.Equal(t, created.Description, found.Description)
		assertPrice(t, "10.00", found.Price)
	})

	t.Run("FindByID on an unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.FindByID(ctx, 4242)
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	})

	t.Run("FindAll on an empty store", func(t *testing.T) {
		s := newStore(t)
		list, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("FindAll orders by id", func(t *testing.T) {
		// given
		s := newStore(t)
		a := mustCreate(t, s, "A", "first", "1")
		b := mustCreate(t, s, "B", "second", "2")
		c := mustCreate(t, s, "C", "third", "3")
		// when
		list, err := s.FindAll(ctx)
		// then
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []int64{a.ID, b.ID, c.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("FindByNameContains", func(t *testing.T) {
		s := newStore(t)
		widget := mustCreate(t, s, "Blue Widget", "A widget", "10")
		mustCreate(t, s, "Gadget", "A gadget", "20")
		mustCreate(t, s, "50% off", "A discount", "5")

		testCases := []struct {
			name      string
			substring string
			expected  []string
		}{
			{name: "full name", substring: "Blue Widget", expected: []string{"Blue Widget"}},
			{name: "infix", substring: "adg", expected: []string{"Gadget"}},
			{name: "shared letter", substring: "e", expected: []string{"Blue Widget", "Gadget"}},
			{name: "case-sensitive", substring: "widget", expected: []string{}},
			{name: "percent is literal", substring: "%", expected: []string{"50% off"}},
			{name: "underscore is literal", substring: "_", expected: []string{}},
			{name: "no match", substring: "Sprocket", expected: []string{}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// when
				list, err := s.FindByNameContains(ctx, tc.substring)
				// then
				require.NoError(t, err)
				require.NotNil(t, list)
				names := make([]string, 0, len(list))
				for _, p := range list {
					names = append(names, p.Name)
				}
				assert.Equal(t, tc.expected, names)
			})
		}

		exact, err := s.FindByNameContains(ctx, "Blue Widget")
		require.NoError(t, err)
		require.Len(t, exact, 1)
		assert.Equal(t, widget.ID, exact[0].ID)
	})

	t.Run("Update replaces all fields and keeps the id", func(t *testing.T) {
		// given
		s := newStore(t)
		created := mustCreate(t, s, "Widget", "A widget", "10.00")
		// when
		updated, err := s.Update(ctx, created.ID, "Widget2", "Updated", decimal.RequireFromString("15.50"))
		// then
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		found, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget2", found.Name)
		assert.Equal(t, "Updated", found.Description)
		assertPrice(t, "15.50", found.Price)
	})

	t.Run("Update on an unknown id", func(t *testing.T) {
		s := newStore(t)
		created := mustCreate(t, s, "Widget", "A widget", "10.00")

		_, err := s.Update(ctx, created.ID+100, "Other", "Other", decimal.NewFromInt(1))

		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
		list, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Widget", list[0].Name)
	})

	t.Run("DeleteByID removes the product and never reuses its id", func(t *testing.T) {
		// given
		s := newStore(t)
		created := mustCreate(t, s, "Widget", "A widget", "10.00")
		// when
		err := s.DeleteByID(ctx, created.ID)
		// then
		require.NoError(t, err)
		_, err = s.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
		assert.ErrorIs(t, s.DeleteByID(ctx, created.ID), perrors.ErrProductNotFound)

		next := mustCreate(t, s, "Widget", "A widget", "10.00")
		assert.Greater(t, next.ID, created.ID)
	})
}
