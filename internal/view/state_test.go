package view

import (
	"testing"

	"listings-be/internal/attribute"
	"listings-be/internal/criteria"
	"listings-be/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want SortMode
		ok   bool
	}{
		{"", SortPopular, true},
		{"popular", SortPopular, true},
		{"cheap", SortCheap, true},
		{"new", SortNew, true},
		{"expensive", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSort(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestState_Transitions(t *testing.T) {
	initial := Initial()
	assert.Equal(t, listing.CategoryAll, initial.Category)
	assert.Equal(t, SortPopular, initial.Sort)
	assert.False(t, initial.FavoritesOnly)

	t.Run("WithCriteria", func(t *testing.T) {
		cr, err := criteria.NewBuilder(attribute.Default()).
			Build(listing.CategoryEstate, criteria.RawInput{Checked: []string{"flat"}}, nil)
		require.NoError(t, err)

		next := initial.WithCriteria(cr)
		assert.Equal(t, listing.CategoryEstate, next.Category)
		assert.Equal(t, 1, next.Criteria.Len())
		assert.Equal(t, listing.CategoryAll, initial.Category, "receiver unchanged")

		t.Run("WithCategoryResetsCriteria", func(t *testing.T) {
			switched := next.WithCategory(listing.CategoryCar)
			assert.Equal(t, listing.CategoryCar, switched.Category)
			assert.Equal(t, listing.CategoryCar, switched.Criteria.Category)
			assert.Equal(t, 0, switched.Criteria.Len())
			assert.Equal(t, 1, next.Criteria.Len())
		})
	})

	t.Run("SortAndFavorites", func(t *testing.T) {
		next := initial.WithSort(SortCheap).WithFavoritesOnly(true)
		assert.Equal(t, SortCheap, next.Sort)
		assert.True(t, next.FavoritesOnly)
		assert.Equal(t, SortPopular, initial.Sort)
	})
}
