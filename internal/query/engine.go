// Package query turns a view state into the ordered page of listings to show.
package query

import (
	"cmp"
	"math"
	"slices"

	"listings-be/internal/criteria"
	"listings-be/internal/listing"
	"listings-be/internal/predicate"
	"listings-be/internal/view"
)

const DefaultPageSize = 7

// Membership is the read side of the favorites set.
type Membership interface {
	Contains(name string) bool
}

type Result struct {
	Listings []listing.Listing
	// Scoped counts listings left after category or favorites scoping.
	Scoped int
	// Clean and Deferred count the two partitions before truncation.
	Clean    int
	Deferred int
	// FavoritesView is set when the favorites-only view produced the result.
	FavoritesView bool
}

func (r Result) Empty() bool { return len(r.Listings) == 0 }

// Engine is stateless: every call is a pure function of its arguments.
type Engine struct {
	evaluator *predicate.Evaluator
	pageSize  int
}

func NewEngine(evaluator *predicate.Evaluator, pageSize int) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine{evaluator: evaluator, pageSize: pageSize}
}

func (e *Engine) PageSize() int { return e.pageSize }

func (e *Engine) Query(catalog []listing.Listing, st view.State, favorites Membership) []listing.Listing {
	return e.Run(catalog, st, favorites).Listings
}

func (e *Engine) Run(catalog []listing.Listing, st view.State, favorites Membership) Result {
	if st.FavoritesOnly {
		scope := make([]listing.Listing, 0)
		if favorites != nil {
			for _, l := range catalog {
				if favorites.Contains(l.Name) {
					scope = append(scope, l)
				}
			}
		}
		sortListings(scope, st.Sort)
		return Result{
			Listings:      e.truncate(scope),
			Scoped:        len(scope),
			Clean:         len(scope),
			FavoritesView: true,
		}
	}

	c := st.Criteria
	category := scopeCategory(st)

	res := Result{}
	clean := make([]listing.Listing, 0)
	var deferred []listing.Listing
	for _, l := range catalog {
		if !l.InCategory(category) {
			continue
		}
		res.Scoped++

		switch e.classify(l, c) {
		case predicate.Pass:
			clean = append(clean, l)
		case predicate.Missing:
			deferred = append(deferred, l)
		}
	}
	res.Clean, res.Deferred = len(clean), len(deferred)

	sortListings(clean, st.Sort)
	sortListings(deferred, st.Sort)
	res.Listings = e.truncate(append(clean, deferred...))
	return res
}

func scopeCategory(st view.State) listing.Category {
	if st.Criteria.Category != "" {
		return st.Criteria.Category
	}
	if st.Category != "" {
		return st.Category
	}
	return listing.CategoryAll
}

// classify returns Missing when the listing fails only for lack of data.
// A known price outside a bound, or any reported attribute that does not
// match, rejects the listing even if other attributes are missing. Keys the
// listing does not carry at all are not checked.
func (e *Engine) classify(l listing.Listing, c criteria.Criteria) predicate.Outcome {
	missing := false

	lo, hasLo := c.PriceMin()
	hi, hasHi := c.PriceMax()
	if hasLo || hasHi {
		switch {
		case !l.PriceKnown():
			missing = true
		case hasLo && l.Price < lo, hasHi && l.Price > hi:
			return predicate.Reject
		}
	}

	for _, key := range c.Keys() {
		v, reported := l.Attributes[key]
		if !reported {
			continue
		}
		switch e.evaluator.Check(key, v, c) {
		case predicate.Reject:
			return predicate.Reject
		case predicate.Missing:
			missing = true
		}
	}

	if missing {
		return predicate.Missing
	}
	return predicate.Pass
}

func (e *Engine) truncate(ls []listing.Listing) []listing.Listing {
	if len(ls) > e.pageSize {
		return ls[:e.pageSize:e.pageSize]
	}
	return ls
}

func sortListings(ls []listing.Listing, mode view.SortMode) {
	switch mode {
	case view.SortCheap:
		slices.SortStableFunc(ls, func(a, b listing.Listing) int {
			return cmp.Compare(sortPrice(a), sortPrice(b))
		})
	case view.SortNew:
		slices.SortStableFunc(ls, func(a, b listing.Listing) int {
			return cmp.Compare(b.PublishDate, a.PublishDate)
		})
	}
}

// sortPrice puts listings without a price after every priced one.
func sortPrice(l listing.Listing) float64 {
	if !l.PriceKnown() {
		return math.Inf(1)
	}
	return l.Price
}
