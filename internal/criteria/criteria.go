package criteria

import (
	"slices"
	"sort"

	"listings-be/internal/listing"
)

type ConstraintKind int

const (
	// ConstraintScalar compares against one reference value.
	ConstraintScalar ConstraintKind = iota
	// ConstraintSet requires membership in a chosen set.
	ConstraintSet
)

type Constraint struct {
	Key   string
	Kind  ConstraintKind
	Value listing.Value
	Set   []listing.Value
}

func (c Constraint) IsSet() bool { return c.Kind == ConstraintSet }

// Contains is type-sensitive: a number never matches a text member.
func (c Constraint) Contains(v listing.Value) bool {
	return slices.ContainsFunc(c.Set, v.Equal)
}

// Criteria is the normalized filter selection for one category. It is never
// modified after Build returns it.
type Criteria struct {
	Category listing.Category

	priceMin, priceMax       float64
	hasPriceMin, hasPriceMax bool
	constraints              map[string]Constraint
}

// New returns criteria with no price bounds and no constraints.
func New(category listing.Category) Criteria {
	return Criteria{Category: category}
}

func (c Criteria) PriceMin() (float64, bool) { return c.priceMin, c.hasPriceMin }
func (c Criteria) PriceMax() (float64, bool) { return c.priceMax, c.hasPriceMax }

func (c Criteria) HasPriceBounds() bool {
	return c.hasPriceMin || c.hasPriceMax
}

func (c Criteria) Constraint(key string) (Constraint, bool) {
	con, ok := c.constraints[key]
	if !ok {
		return Constraint{}, false
	}
	con.Set = slices.Clone(con.Set)
	return con, true
}

// Keys returns the constrained attribute keys in lexical order.
func (c Criteria) Keys() []string {
	keys := make([]string, 0, len(c.constraints))
	for k := range c.constraints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c Criteria) Len() int { return len(c.constraints) }

// IsEmpty reports criteria that constrain neither price nor attributes.
func (c Criteria) IsEmpty() bool {
	return !c.HasPriceBounds() && len(c.constraints) == 0
}
