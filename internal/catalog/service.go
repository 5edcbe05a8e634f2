package catalog

import (
	"context"
	"fmt"
	"sync"

	"listings-be/internal/criteria"
	"listings-be/internal/favorites"
	"listings-be/internal/listing"
	"listings-be/internal/logger"
	"listings-be/internal/metrics"
	"listings-be/internal/present"
	"listings-be/internal/view"

	"go.uber.org/zap"
)

// BrowseRequest fully describes one view of the catalog.
type BrowseRequest struct {
	Category      listing.Category
	Input         criteria.RawInput
	PriceMin      *float64
	PriceMax      *float64
	Sort          view.SortMode
	FavoritesOnly bool
}

// Service answers catalog requests for many identities. The view state is
// rebuilt from each request; only favorites persist between calls.
type Service interface {
	Browse(ctx context.Context, identity string, req BrowseRequest) (Page, error)
	GetListing(ctx context.Context, identity, name string) (listing.Listing, bool, error)
	PriceSlider(ctx context.Context, category listing.Category) (present.Slider, error)
	Favorites(ctx context.Context, identity string) ([]listing.Listing, error)
	ToggleFavorite(ctx context.Context, identity, name string) (bool, error)
}

type service struct {
	catalog *Catalog
	store   favorites.Store

	// mu guards the sets map only. Store round-trips run under the
	// entry's own lock.
	mu   sync.Mutex
	sets map[string]*identitySet
}

// identitySet is one identity's favorites, loaded on first use.
type identitySet struct {
	mu  sync.Mutex
	set *favorites.Set
}

func NewService(c *Catalog, store favorites.Store) Service {
	metrics.CatalogSize.Set(float64(c.Len()))
	return &service{catalog: c, store: store, sets: make(map[string]*identitySet)}
}

func (s *service) Browse(ctx context.Context, identity string, req BrowseRequest) (Page, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Browse"),
		zap.String("category", string(req.Category)),
	)
	timer := metrics.StartTimer()

	st, err := s.buildState(req)
	if err != nil {
		log.Warn("invalid browse request", zap.Error(err))
		return Page{}, err
	}

	favs, err := s.snapshot(ctx, identity)
	if err != nil {
		log.Error("failed to load favorites", zap.Error(err))
		return Page{}, err
	}

	res := s.catalog.engine.Run(s.catalog.listings, st, favs)
	page := newPage(st, res, favs)

	metrics.Queries.WithLabelValues(metrics.ViewLabel(st.FavoritesOnly)).Inc()
	metrics.ResultSize.Observe(float64(len(page.Listings)))
	metrics.DeferredListings.Add(float64(page.Deferred))
	d := timer.ObserveTo(metrics.QueryDuration)

	log.Debug("Browse success",
		zap.Int("returned", len(page.Listings)),
		zap.Int("scoped", page.Scoped),
		zap.Int("deferred", page.Deferred),
		zap.Duration("took", d),
	)
	return page, nil
}

func (s *service) buildState(req BrowseRequest) (view.State, error) {
	category := req.Category
	if category == "" {
		category = listing.CategoryAll
	}

	var price *criteria.PriceRange
	if req.PriceMin != nil || req.PriceMax != nil {
		slider, err := s.catalog.Slider(category)
		if err != nil {
			return view.State{}, err
		}
		lo, hi := slider.Min, slider.Max
		if req.PriceMin != nil {
			lo = *req.PriceMin
		}
		if req.PriceMax != nil {
			hi = *req.PriceMax
		}
		if lo > hi {
			return view.State{}, &criteria.ValidationError{Field: "price", Value: fmt.Sprintf("%g..%g", lo, hi), Err: ErrInvalidPriceRange}
		}
		r := slider.Range(lo, hi)
		price = &r
	}

	c, err := s.catalog.builder.Build(category, req.Input, price)
	if err != nil {
		return view.State{}, err
	}

	sort := req.Sort
	if sort == "" {
		sort = view.SortPopular
	}
	return view.Initial().WithCriteria(c).WithSort(sort).WithFavoritesOnly(req.FavoritesOnly), nil
}

func (s *service) GetListing(ctx context.Context, identity, name string) (listing.Listing, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetListing"),
		zap.String("name", name),
	)

	l, ok := s.catalog.Get(name)
	if !ok {
		log.Info("listing not found")
		return listing.Listing{}, false, fmt.Errorf("%w: %s", listing.ErrListingNotFound, name)
	}

	favs, err := s.snapshot(ctx, identity)
	if err != nil {
		log.Error("failed to load favorites", zap.Error(err))
		return listing.Listing{}, false, err
	}
	return l, favs.Contains(name), nil
}

func (s *service) PriceSlider(ctx context.Context, category listing.Category) (present.Slider, error) {
	slider, err := s.catalog.Slider(category)
	if err != nil {
		logger.FromCtx(ctx).Warn("unknown slider category",
			zap.String("layer", "service"),
			zap.String("category", string(category)),
		)
		return present.Slider{}, err
	}
	return slider, nil
}

// Favorites returns the favorited listings in the order they were added.
// Names no longer in the catalog are skipped.
func (s *service) Favorites(ctx context.Context, identity string) ([]listing.Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Favorites"),
	)

	entry, err := s.acquire(ctx, identity)
	if err != nil {
		log.Error("failed to load favorites", zap.Error(err))
		return nil, err
	}
	names := entry.set.All()
	entry.mu.Unlock()

	out := make([]listing.Listing, 0, len(names))
	for _, name := range names {
		if l, ok := s.catalog.Get(name); ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *service) ToggleFavorite(ctx context.Context, identity, name string) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ToggleFavorite"),
		zap.String("name", name),
	)
	log.Info("ToggleFavorite started")

	if _, ok := s.catalog.Get(name); !ok {
		log.Info("listing not found")
		return false, fmt.Errorf("%w: %s", listing.ErrListingNotFound, name)
	}

	entry, err := s.acquire(ctx, identity)
	if err != nil {
		log.Error("failed to load favorites", zap.Error(err))
		return false, err
	}
	defer entry.mu.Unlock()

	on, err := entry.set.Toggle(ctx, name)
	if err != nil {
		log.Error("failed to save favorites", zap.Error(err))
		return on, err
	}

	state := "removed"
	if on {
		state = "added"
	}
	metrics.FavoriteToggles.WithLabelValues(state).Inc()
	log.Info("ToggleFavorite success", zap.Bool("favorite", on))
	return on, nil
}

// acquire returns the identity's entry locked, loading its favorites on
// first use. The caller unlocks entry.mu. A failed load is retried on the
// next call.
func (s *service) acquire(ctx context.Context, identity string) (*identitySet, error) {
	key := favorites.KeyFor(identity)

	s.mu.Lock()
	entry, ok := s.sets[key]
	if !ok {
		entry = &identitySet{}
		s.sets[key] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	if entry.set == nil {
		set, err := favorites.Load(ctx, s.store, key)
		if err != nil {
			entry.mu.Unlock()
			return nil, err
		}
		entry.set = set
	}
	return entry, nil
}

type membership map[string]struct{}

func (m membership) Contains(name string) bool {
	_, ok := m[name]
	return ok
}

// snapshot copies the identity's favorites so a query can run unlocked.
func (s *service) snapshot(ctx context.Context, identity string) (membership, error) {
	entry, err := s.acquire(ctx, identity)
	if err != nil {
		return nil, err
	}
	names := entry.set.All()
	entry.mu.Unlock()

	m := make(membership, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m, nil
}
