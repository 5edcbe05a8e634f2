package view

import (
	"listings-be/internal/criteria"
	"listings-be/internal/listing"
)

type SortMode string

const (
	SortPopular SortMode = "popular"
	SortCheap   SortMode = "cheap"
	SortNew     SortMode = "new"
)

// ParseSort treats an empty string as the default popular order.
func ParseSort(s string) (SortMode, bool) {
	switch SortMode(s) {
	case "", SortPopular:
		return SortPopular, true
	case SortCheap, SortNew:
		return SortMode(s), true
	}
	return "", false
}

// State is everything a query depends on besides the catalog and favorites.
// Transitions return a new State and leave the receiver untouched.
type State struct {
	Category      listing.Category
	Criteria      criteria.Criteria
	Sort          SortMode
	FavoritesOnly bool
}

func Initial() State {
	return State{
		Category: listing.CategoryAll,
		Criteria: criteria.New(listing.CategoryAll),
		Sort:     SortPopular,
	}
}

// WithCategory discards the criteria of the previous category.
func (s State) WithCategory(c listing.Category) State {
	s.Category = c
	s.Criteria = criteria.New(c)
	return s
}

func (s State) WithCriteria(c criteria.Criteria) State {
	s.Category = c.Category
	s.Criteria = c
	return s
}

func (s State) WithSort(m SortMode) State {
	s.Sort = m
	return s
}

func (s State) WithFavoritesOnly(on bool) State {
	s.FavoritesOnly = on
	return s
}
