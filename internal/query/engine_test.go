package query

import (
	"fmt"
	"math"
	"testing"

	"listings-be/internal/attribute"
	"listings-be/internal/criteria"
	"listings-be/internal/listing"
	"listings-be/internal/predicate"
	"listings-be/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type favs map[string]bool

func (f favs) Contains(name string) bool { return f[name] }

func newEngine(pageSize int) *Engine {
	return NewEngine(predicate.NewEvaluator(attribute.Default()), pageSize)
}

func estate(name string, price float64, date int64, attrs listing.Attributes) listing.Listing {
	return listing.Listing{Name: name, Category: listing.CategoryEstate, Price: price, PublishDate: date, Attributes: attrs}
}

func car(name string, price float64, date int64, attrs listing.Attributes) listing.Listing {
	return listing.Listing{Name: name, Category: listing.CategoryCar, Price: price, PublishDate: date, Attributes: attrs}
}

func names(ls []listing.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Name)
	}
	return out
}

func stateFor(t *testing.T, c listing.Category, in criteria.RawInput, price *criteria.PriceRange) view.State {
	t.Helper()
	cr, err := criteria.NewBuilder(attribute.Default()).Build(c, in, price)
	require.NoError(t, err)
	return view.Initial().WithCriteria(cr)
}

func mixedCatalog() []listing.Listing {
	return []listing.Listing{
		estate("flat-1", 3000000, 10, listing.Attributes{"type": listing.Text("flat"), "rooms-count": listing.Number(2)}),
		car("golf", 900000, 20, listing.Attributes{"transmission": listing.Text("auto")}),
		estate("house-1", 9000000, 30, listing.Attributes{"type": listing.Text("house"), "rooms-count": listing.Number(6)}),
		car("lada", 200000, 40, listing.Attributes{"transmission": listing.Text("mechanic")}),
		estate("flat-2", 0, 50, listing.Attributes{"type": listing.Text("flat"), "rooms-count": listing.Unknown()}),
	}
}

func TestEngine_EmptyCriteria(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := mixedCatalog()

	t.Run("All", func(t *testing.T) {
		got := e.Query(catalog, view.Initial(), nil)
		assert.Equal(t, []string{"flat-1", "golf", "house-1", "lada", "flat-2"}, names(got))
	})

	t.Run("PerCategory", func(t *testing.T) {
		got := e.Query(catalog, view.Initial().WithCategory(listing.CategoryEstate), nil)
		assert.Equal(t, []string{"flat-1", "house-1", "flat-2"}, names(got))

		got = e.Query(catalog, view.Initial().WithCategory(listing.CategoryCar), nil)
		assert.Equal(t, []string{"golf", "lada"}, names(got))

		got = e.Query(catalog, view.Initial().WithCategory(listing.CategoryCamera), nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("TruncatedToPageSize", func(t *testing.T) {
		var big []listing.Listing
		for i := 0; i < 20; i++ {
			big = append(big, car(fmt.Sprintf("car-%02d", i), 1000, int64(i), nil))
		}
		got := e.Query(big, view.Initial(), nil)
		require.Len(t, got, DefaultPageSize)
		assert.Equal(t, "car-00", got[0].Name)
		assert.Equal(t, "car-06", got[6].Name)
	})
}

func TestEngine_PriceBounds(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := mixedCatalog()
	price := &criteria.PriceRange{Min: 1000000, Max: 5000000}

	res := e.Run(catalog, stateFor(t, listing.CategoryEstate, criteria.RawInput{}, price), nil)

	assert.Equal(t, []string{"flat-1", "flat-2"}, names(res.Listings))
	assert.Equal(t, 3, res.Scoped)
	assert.Equal(t, 1, res.Clean)
	assert.Equal(t, 1, res.Deferred)
}

func TestEngine_UnknownPriceDeferredNotDropped(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := []listing.Listing{
		car("free", 0, 1, nil),
		car("nan", math.NaN(), 2, nil),
		car("cheap", 100, 3, nil),
		car("mid", 5000, 4, nil),
	}
	price := &criteria.PriceRange{Min: 1000, Max: 9000}

	got := e.Query(catalog, stateFor(t, listing.CategoryCar, criteria.RawInput{}, price), nil)
	assert.Equal(t, []string{"mid", "free", "nan"}, names(got))
}

func TestEngine_UnknownPriceWithoutBoundsKeepsOrder(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := []listing.Listing{
		car("free", 0, 1, nil),
		car("priced", 100, 2, nil),
	}

	got := e.Query(catalog, view.Initial().WithCategory(listing.CategoryCar), nil)
	assert.Equal(t, []string{"free", "priced"}, names(got))
}

func TestEngine_MissingAttributeDeferral(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := []listing.Listing{
		estate("unknown-rooms", 100, 1, listing.Attributes{"type": listing.Text("flat"), "rooms-count": listing.Unknown()}),
		estate("two-rooms", 100, 2, listing.Attributes{"type": listing.Text("flat"), "rooms-count": listing.Number(2)}),
		estate("no-rooms-key", 100, 3, listing.Attributes{"type": listing.Text("flat")}),
		estate("three-rooms", 100, 4, listing.Attributes{"type": listing.Text("flat"), "rooms-count": listing.Number(3)}),
	}
	st := stateFor(t, listing.CategoryEstate, criteria.RawInput{Fields: map[string]string{"rooms": "2"}}, nil)

	res := e.Run(catalog, st, nil)
	assert.Equal(t, []string{"two-rooms", "no-rooms-key", "unknown-rooms"}, names(res.Listings))
	assert.Equal(t, 2, res.Clean)
	assert.Equal(t, 1, res.Deferred)
}

func TestEngine_AbsentKeyIsNotChecked(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := []listing.Listing{
		estate("bare-1", 100, 1, listing.Attributes{"type": listing.Text("flat")}),
		estate("bare-2", 100, 2, listing.Attributes{}),
	}
	st := stateFor(t, listing.CategoryEstate, criteria.RawInput{Fields: map[string]string{"rooms": "2"}}, nil)

	res := e.Run(catalog, st, nil)
	assert.Equal(t, []string{"bare-1", "bare-2"}, names(res.Listings))
	assert.Equal(t, 2, res.Clean)
	assert.Zero(t, res.Deferred)
}

func TestEngine_MissingPlusRejectExcludes(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := []listing.Listing{
		estate("house-unknown-rooms", 100, 1, listing.Attributes{"type": listing.Text("house"), "rooms-count": listing.Unknown()}),
		estate("flat-unknown-rooms", 100, 2, listing.Attributes{"type": listing.Text("flat"), "rooms-count": listing.Unknown()}),
		estate("flat-unknown-price", 0, 3, listing.Attributes{"type": listing.Text("house")}),
	}
	st := stateFor(t, listing.CategoryEstate,
		criteria.RawInput{Checked: []string{"flat"}, Fields: map[string]string{"rooms": "3"}},
		&criteria.PriceRange{Min: 50, Max: 500})

	got := e.Query(catalog, st, nil)
	assert.Equal(t, []string{"flat-unknown-rooms"}, names(got))
}

func TestEngine_SetMembership(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := mixedCatalog()

	got := e.Query(catalog, stateFor(t, listing.CategoryEstate, criteria.RawInput{Checked: []string{"house"}}, nil), nil)
	assert.Equal(t, []string{"house-1"}, names(got))

	none := e.Query(catalog, stateFor(t, listing.CategoryEstate, criteria.RawInput{Checked: nil}, nil), nil)
	assert.Equal(t, []string{"flat-1", "house-1", "flat-2"}, names(none))
}

func TestEngine_RoomCountFivePlus(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := []listing.Listing{
		estate("r4", 1, 1, listing.Attributes{"rooms-count": listing.Number(4)}),
		estate("r5", 1, 2, listing.Attributes{"rooms-count": listing.Number(5)}),
		estate("r7", 1, 3, listing.Attributes{"rooms-count": listing.Number(7)}),
	}
	st := stateFor(t, listing.CategoryEstate, criteria.RawInput{Fields: map[string]string{"rooms": "5+"}}, nil)

	assert.Equal(t, []string{"r5", "r7"}, names(e.Query(catalog, st, nil)))
}

func TestEngine_Sorting(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := []listing.Listing{
		car("a", 500, 2, nil),
		car("b", 300, 4, nil),
		car("c", 300, 1, nil),
		car("d", 900, 4, nil),
	}
	base := view.Initial().WithCategory(listing.CategoryCar)

	t.Run("Popular", func(t *testing.T) {
		got := e.Query(catalog, base.WithSort(view.SortPopular), nil)
		assert.Equal(t, []string{"a", "b", "c", "d"}, names(got))
	})

	t.Run("CheapIsStable", func(t *testing.T) {
		got := e.Query(catalog, base.WithSort(view.SortCheap), nil)
		assert.Equal(t, []string{"b", "c", "a", "d"}, names(got))
	})

	t.Run("NewIsStable", func(t *testing.T) {
		got := e.Query(catalog, base.WithSort(view.SortNew), nil)
		assert.Equal(t, []string{"b", "d", "a", "c"}, names(got))
	})

	t.Run("CatalogUntouched", func(t *testing.T) {
		e.Query(catalog, base.WithSort(view.SortCheap), nil)
		assert.Equal(t, "a", catalog[0].Name)
	})
}

func TestEngine_SortKeepsPartitions(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := []listing.Listing{
		car("priced-high", 900, 1, listing.Attributes{"transmission": listing.Text("auto")}),
		car("unknown-cheap", 10, 2, listing.Attributes{"transmission": listing.Unknown()}),
		car("priced-low", 500, 3, listing.Attributes{"transmission": listing.Text("auto")}),
		car("no-price", 0, 4, listing.Attributes{"transmission": listing.Text("auto")}),
	}
	st := stateFor(t, listing.CategoryCar,
		criteria.RawInput{Fields: map[string]string{"transmission": "auto"}},
		&criteria.PriceRange{Min: 5, Max: 1000}).WithSort(view.SortCheap)

	got := e.Query(catalog, st, nil)
	assert.Equal(t, []string{"priced-low", "priced-high", "unknown-cheap", "no-price"}, names(got))
}

func TestEngine_FavoritesView(t *testing.T) {
	e := newEngine(DefaultPageSize)
	catalog := mixedCatalog()
	f := favs{"lada": true, "flat-2": true}

	st := stateFor(t, listing.CategoryEstate,
		criteria.RawInput{Checked: []string{"house"}},
		&criteria.PriceRange{Min: 1, Max: 2}).WithFavoritesOnly(true)

	res := e.Run(catalog, st, f)
	assert.True(t, res.FavoritesView)
	assert.Equal(t, []string{"lada", "flat-2"}, names(res.Listings))

	t.Run("Sorted", func(t *testing.T) {
		got := e.Query(catalog, st.WithSort(view.SortNew), f)
		assert.Equal(t, []string{"flat-2", "lada"}, names(got))
	})

	t.Run("NoFavorites", func(t *testing.T) {
		res := e.Run(catalog, st, nil)
		assert.True(t, res.Empty())
		assert.NotNil(t, res.Listings)
	})
}

func TestEngine_PageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, newEngine(0).PageSize())
	assert.Equal(t, 3, newEngine(3).PageSize())

	got := newEngine(2).Query(mixedCatalog(), view.Initial(), nil)
	assert.Equal(t, []string{"flat-1", "golf"}, names(got))
}
