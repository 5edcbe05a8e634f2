package catalog

import "errors"

var (
	ErrNoFavorites       = errors.New("favorites are not available")
	ErrInvalidPriceRange = errors.New("price_min is greater than price_max")
)
