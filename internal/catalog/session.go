package catalog

import (
	"context"
	"fmt"

	"listings-be/internal/criteria"
	"listings-be/internal/favorites"
	"listings-be/internal/listing"
	"listings-be/internal/present"
	"listings-be/internal/query"
	"listings-be/internal/view"
)

// Page is what one event produces for the presentation layer.
type Page struct {
	State    view.State
	Listings []listing.Listing
	// Favorites marks which of Listings are favorited.
	Favorites map[string]bool

	Scoped        int
	Clean         int
	Deferred      int
	FavoritesView bool
}

func (p Page) Empty() bool { return len(p.Listings) == 0 }

func (p Page) IsFavorite(name string) bool { return p.Favorites[name] }

func newPage(st view.State, res query.Result, favs query.Membership) Page {
	marks := make(map[string]bool, len(res.Listings))
	if favs != nil {
		for _, l := range res.Listings {
			if favs.Contains(l.Name) {
				marks[l.Name] = true
			}
		}
	}
	return Page{
		State:         st,
		Listings:      res.Listings,
		Favorites:     marks,
		Scoped:        res.Scoped,
		Clean:         res.Clean,
		Deferred:      res.Deferred,
		FavoritesView: res.FavoritesView,
	}
}

// Session owns the view state of one user. Every event replaces the state
// and re-runs the query before returning. A Session is not safe for
// concurrent use; events are expected one at a time.
type Session struct {
	catalog   *Catalog
	favorites *favorites.Set
	state     view.State
}

func NewSession(c *Catalog, favs *favorites.Set) *Session {
	return &Session{catalog: c, favorites: favs, state: view.Initial()}
}

func (s *Session) State() view.State { return s.state }

// Render re-runs the query for the current state.
func (s *Session) Render() Page {
	var favs query.Membership
	if s.favorites != nil {
		favs = s.favorites
	}
	return newPage(s.state, s.catalog.engine.Run(s.catalog.listings, s.state, favs), favs)
}

// ChangeCategory drops every constraint of the previous category.
func (s *Session) ChangeCategory(c listing.Category) (Page, error) {
	if _, ok := s.catalog.registry.Inputs(c); !ok {
		return Page{}, &criteria.ValidationError{Field: "category", Value: string(c), Err: criteria.ErrUnknownCategory}
	}
	s.state = s.state.WithCategory(c)
	return s.Render(), nil
}

// SubmitFilters rebuilds the criteria of the current category from the form.
// price may be nil when the range selector was left untouched.
func (s *Session) SubmitFilters(in criteria.RawInput, price *criteria.PriceRange) (Page, error) {
	c, err := s.catalog.builder.Build(s.state.Category, in, price)
	if err != nil {
		return Page{}, err
	}
	s.state = s.state.WithCriteria(c)
	return s.Render(), nil
}

func (s *Session) ChangeSort(mode view.SortMode) Page {
	s.state = s.state.WithSort(mode)
	return s.Render()
}

func (s *Session) ShowFavorites(on bool) Page {
	s.state = s.state.WithFavoritesOnly(on)
	return s.Render()
}

// ToggleFavorite flips a listing's membership and re-renders, so a listing
// removed while the favorites view is shown disappears from it.
func (s *Session) ToggleFavorite(ctx context.Context, name string) (Page, bool, error) {
	if _, ok := s.catalog.Get(name); !ok {
		return Page{}, false, fmt.Errorf("%w: %s", listing.ErrListingNotFound, name)
	}
	if s.favorites == nil {
		return Page{}, false, ErrNoFavorites
	}
	on, err := s.favorites.Toggle(ctx, name)
	if err != nil {
		return Page{}, on, err
	}
	return s.Render(), on, nil
}

// Slider returns the price selector settings of the current category.
func (s *Session) Slider() present.Slider {
	return present.PriceSlider(s.catalog.registry, s.catalog.listings, s.state.Category)
}
