// Package catalog runs the browse flow over a loaded catalog: a Session for a
// single user driving events one at a time, and a Service answering
// independent requests for many identities.
package catalog

import (
	"listings-be/internal/attribute"
	"listings-be/internal/criteria"
	"listings-be/internal/listing"
	"listings-be/internal/predicate"
	"listings-be/internal/present"
	"listings-be/internal/query"
)

// Catalog is the loaded listing set plus the lookup tables the flow needs.
// It is read-only after construction and safe to share.
type Catalog struct {
	listings []listing.Listing
	byName   map[string]int
	registry *attribute.Registry
	builder  *criteria.Builder
	engine   *query.Engine
}

func New(listings []listing.Listing, registry *attribute.Registry, pageSize int) *Catalog {
	byName := make(map[string]int, len(listings))
	for i, l := range listings {
		byName[l.Name] = i
	}
	return &Catalog{
		listings: listings,
		byName:   byName,
		registry: registry,
		builder:  criteria.NewBuilder(registry),
		engine:   query.NewEngine(predicate.NewEvaluator(registry), pageSize),
	}
}

func (c *Catalog) Len() int { return len(c.listings) }

func (c *Catalog) Registry() *attribute.Registry { return c.registry }

func (c *Catalog) Get(name string) (listing.Listing, bool) {
	i, ok := c.byName[name]
	if !ok {
		return listing.Listing{}, false
	}
	return c.listings[i], true
}

// Slider returns the price selector settings for a category.
func (c *Catalog) Slider(category listing.Category) (present.Slider, error) {
	if _, ok := c.registry.Inputs(category); !ok {
		return present.Slider{}, &criteria.ValidationError{Field: "category", Value: string(category), Err: criteria.ErrUnknownCategory}
	}
	return present.PriceSlider(c.registry, c.listings, category), nil
}
