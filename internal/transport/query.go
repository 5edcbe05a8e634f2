package transport

import (
	"fmt"
	"net/url"

	"listings-be/internal/catalog"
	"listings-be/internal/criteria"
	"listings-be/internal/listing"
	"listings-be/internal/view"

	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// listingsQuery holds the fixed parameters of GET /api/listings. Every other
// parameter is passed through as a filter field of the chosen category.
type listingsQuery struct {
	Category  string   `schema:"category"`
	Sort      string   `schema:"sort"`
	Favorites bool     `schema:"favorites"`
	Checked   []string `schema:"checked"`
	PriceMin  *float64 `schema:"price_min"`
	PriceMax  *float64 `schema:"price_max"`
}

var reservedParams = map[string]struct{}{
	"category": {}, "sort": {}, "favorites": {}, "checked": {}, "price_min": {}, "price_max": {},
}

func parseBrowseRequest(values url.Values) (catalog.BrowseRequest, error) {
	var q listingsQuery
	if err := decoder.Decode(&q, values); err != nil {
		return catalog.BrowseRequest{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}

	req := catalog.BrowseRequest{
		Category:      listing.CategoryAll,
		PriceMin:      q.PriceMin,
		PriceMax:      q.PriceMax,
		FavoritesOnly: q.Favorites,
		Input:         criteria.RawInput{Checked: q.Checked},
	}

	if q.Category != "" && q.Category != string(listing.CategoryAll) {
		c, ok := listing.ParseCategory(q.Category)
		if !ok {
			return catalog.BrowseRequest{}, &criteria.ValidationError{Field: "category", Value: q.Category, Err: criteria.ErrUnknownCategory}
		}
		req.Category = c
	}

	sort, ok := view.ParseSort(q.Sort)
	if !ok {
		return catalog.BrowseRequest{}, fmt.Errorf("%w: unknown sort %q", ErrBadQuery, q.Sort)
	}
	req.Sort = sort

	for key, vals := range values {
		if _, reserved := reservedParams[key]; reserved || len(vals) == 0 {
			continue
		}
		if req.Input.Fields == nil {
			req.Input.Fields = make(map[string]string)
		}
		req.Input.Fields[key] = vals[0]
	}
	return req, nil
}
