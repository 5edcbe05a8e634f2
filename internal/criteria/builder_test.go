package criteria

import (
	"errors"
	"testing"

	"listings-be/internal/attribute"
	"listings-be/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder() *Builder {
	return NewBuilder(attribute.Default())
}

func TestBuilder_Build_Category(t *testing.T) {
	b := newBuilder()

	t.Run("All", func(t *testing.T) {
		c, err := b.Build(listing.CategoryAll, RawInput{Checked: []string{"flat"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, listing.CategoryAll, c.Category)
		assert.True(t, c.IsEmpty())
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		_, err := b.Build("boat", RawInput{}, nil)
		require.Error(t, err)

		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, "category", verr.Field)
		assert.Equal(t, "boat", verr.Value)
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("EmptyInputsAddNothing", func(t *testing.T) {
		for _, cat := range listing.Categories {
			c, err := b.Build(cat, RawInput{}, nil)
			require.NoError(t, err)
			assert.Equal(t, 0, c.Len(), cat)
		}
	})
}

func TestBuilder_Build_Estate(t *testing.T) {
	b := newBuilder()

	in := RawInput{
		Checked: []string{"flat", "house", "slr"},
		Fields: map[string]string{
			"square": "45",
			"rooms":  "5+",
			"ram":    "16",
		},
	}

	c, err := b.Build(listing.CategoryEstate, in, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"area", "rooms-count", "type"}, c.Keys())

	typ, ok := c.Constraint("type")
	require.True(t, ok)
	assert.True(t, typ.IsSet())
	assert.Equal(t, []listing.Value{listing.Text("house"), listing.Text("flat")}, typ.Set)

	area, _ := c.Constraint("area")
	assert.Equal(t, listing.Number(45), area.Value)

	rooms, _ := c.Constraint("rooms-count")
	assert.Equal(t, listing.Text("5+"), rooms.Value)

	_, ok = c.Constraint("ram-value")
	assert.False(t, ok, "inputs of other categories are ignored")
}

func TestBuilder_Build_Fields(t *testing.T) {
	b := newBuilder()

	t.Run("AnyMeansAbsent", func(t *testing.T) {
		c, err := b.Build(listing.CategoryCamera, RawInput{Fields: map[string]string{
			"resolution-matrix": "any",
			"resolution-video":  "",
		}}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("NumericCoercion", func(t *testing.T) {
		c, err := b.Build(listing.CategoryCar, RawInput{Fields: map[string]string{
			"car_year":     "2010",
			"transmission": "auto",
		}}, nil)
		require.NoError(t, err)

		year, _ := c.Constraint("production-year")
		assert.Equal(t, listing.Number(2010), year.Value)

		tr, _ := c.Constraint("transmission")
		assert.Equal(t, listing.Text("auto"), tr.Value)
	})

	t.Run("NonPositiveAreaIgnored", func(t *testing.T) {
		for _, raw := range []string{"0", "-5", "abc", ""} {
			c, err := b.Build(listing.CategoryEstate, RawInput{Fields: map[string]string{"square": raw}}, nil)
			require.NoError(t, err)
			_, ok := c.Constraint("area")
			assert.False(t, ok, raw)
		}
	})

	t.Run("NoCheckedBoxesNoConstraint", func(t *testing.T) {
		c, err := b.Build(listing.CategoryLaptop, RawInput{Checked: []string{}}, nil)
		require.NoError(t, err)
		_, ok := c.Constraint("type")
		assert.False(t, ok)
		_, ok = c.Constraint("cpu-type")
		assert.False(t, ok)
	})
}

func TestBuilder_Build_Price(t *testing.T) {
	b := newBuilder()

	t.Run("NoRange", func(t *testing.T) {
		c, err := b.Build(listing.CategoryCar, RawInput{}, nil)
		require.NoError(t, err)
		assert.False(t, c.HasPriceBounds())
	})

	t.Run("Verbatim", func(t *testing.T) {
		c, err := b.Build(listing.CategoryCar, RawInput{}, &PriceRange{Min: 100000, Max: 500000, Floor: 9000, Ceil: 30000000})
		require.NoError(t, err)

		lo, ok := c.PriceMin()
		assert.True(t, ok)
		assert.Equal(t, 100000.0, lo)

		hi, ok := c.PriceMax()
		assert.True(t, ok)
		assert.Equal(t, 500000.0, hi)
	})

	t.Run("FullRangeIsUnbounded", func(t *testing.T) {
		c, err := b.Build(listing.CategoryCar, RawInput{}, &PriceRange{Min: 9000, Max: 30000000, Floor: 9000, Ceil: 30000000})
		require.NoError(t, err)
		assert.False(t, c.HasPriceBounds())
	})

	t.Run("OneSideAtLimit", func(t *testing.T) {
		c, err := b.Build(listing.CategoryCar, RawInput{}, &PriceRange{Min: 9000, Max: 200000, Floor: 9000, Ceil: 30000000})
		require.NoError(t, err)

		_, ok := c.PriceMin()
		assert.False(t, ok)
		_, ok = c.PriceMax()
		assert.True(t, ok)
	})

	t.Run("UnconfiguredWidget", func(t *testing.T) {
		c, err := b.Build(listing.CategoryAll, RawInput{}, &PriceRange{Min: 0, Max: 1000})
		require.NoError(t, err)

		lo, ok := c.PriceMin()
		assert.True(t, ok)
		assert.Equal(t, 0.0, lo)
	})
}

func TestBuilder_RebuildDropsPreviousCategory(t *testing.T) {
	b := newBuilder()
	in := RawInput{
		Checked: []string{"flat", "sedan"},
		Fields:  map[string]string{"rooms": "2", "transmission": "auto"},
	}

	estate, err := b.Build(listing.CategoryEstate, in, nil)
	require.NoError(t, err)
	car, err := b.Build(listing.CategoryCar, in, nil)
	require.NoError(t, err)

	for _, key := range estate.Keys() {
		_, ok := car.Constraint(key)
		assert.False(t, ok, key)
	}
	assert.Equal(t, []string{"body-type", "transmission"}, car.Keys())
}

func TestCriteria_ConstraintIsACopy(t *testing.T) {
	c, err := newBuilder().Build(listing.CategoryEstate, RawInput{Checked: []string{"flat"}}, nil)
	require.NoError(t, err)

	con, _ := c.Constraint("type")
	con.Set[0] = listing.Text("house")

	again, _ := c.Constraint("type")
	assert.Equal(t, listing.Text("flat"), again.Set[0])
}

func TestConstraint_Contains(t *testing.T) {
	con := Constraint{Kind: ConstraintSet, Set: []listing.Value{listing.Text("3"), listing.Number(4)}}

	assert.True(t, con.Contains(listing.Number(4)))
	assert.True(t, con.Contains(listing.Text("3")))
	assert.False(t, con.Contains(listing.Number(3)))
	assert.False(t, con.Contains(listing.Unknown()))
}
