package listing

import "errors"

var (
	// -- Source --
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// -- Decoding --
	ErrInvalidListing   = errors.New("invalid listing")
	ErrDuplicateListing = errors.New("duplicate listing name")

	// -- Lookup --
	ErrListingNotFound = errors.New("listing not found")
)
