package criteria

import (
	"math"
	"strings"

	"listings-be/internal/attribute"
	"listings-be/internal/listing"
)

// AnyOption is the select value meaning "no preference".
const AnyOption = "any"

// RawInput is the filter form as the user left it.
type RawInput struct {
	// Checked holds the names of the checked checkboxes.
	Checked []string
	// Fields holds select and numeric field values by input name.
	Fields map[string]string
}

// PriceRange is what the range selector reports. Floor and Ceil are the
// widget's configured limits; a reported bound at or beyond its limit is not
// applied. Zero limits mean the widget reported no configuration.
type PriceRange struct {
	Min, Max    float64
	Floor, Ceil float64
}

func (p PriceRange) configured() bool {
	return p.Floor != 0 || p.Ceil != 0
}

type Builder struct {
	registry *attribute.Registry
}

func NewBuilder(registry *attribute.Registry) *Builder {
	return &Builder{registry: registry}
}

// Build reads only the inputs registered for category. price may be nil.
func (b *Builder) Build(category listing.Category, in RawInput, price *PriceRange) (Criteria, error) {
	inputs, ok := b.registry.Inputs(category)
	if !ok {
		return Criteria{}, &ValidationError{Field: "category", Value: string(category), Err: ErrUnknownCategory}
	}

	c := New(category)
	if price != nil {
		c.applyPrice(*price)
	}

	checked := make(map[string]struct{}, len(in.Checked))
	for _, name := range in.Checked {
		checked[name] = struct{}{}
	}

	for _, input := range inputs {
		con, ok := buildConstraint(input, checked, in.Fields)
		if !ok {
			continue
		}
		if c.constraints == nil {
			c.constraints = make(map[string]Constraint, len(inputs))
		}
		c.constraints[input.Key] = con
	}
	return c, nil
}

func (c *Criteria) applyPrice(p PriceRange) {
	if !math.IsNaN(p.Min) && !(p.configured() && p.Min <= p.Floor) {
		c.priceMin, c.hasPriceMin = p.Min, true
	}
	if !math.IsNaN(p.Max) && !(p.configured() && p.Max >= p.Ceil) {
		c.priceMax, c.hasPriceMax = p.Max, true
	}
}

func buildConstraint(input attribute.Input, checked map[string]struct{}, fields map[string]string) (Constraint, bool) {
	switch input.Kind {
	case attribute.InputCheckboxes:
		var set []listing.Value
		for _, opt := range input.Options {
			if _, ok := checked[opt]; ok {
				set = append(set, listing.ParseValue(opt))
			}
		}
		if len(set) == 0 {
			return Constraint{}, false
		}
		return Constraint{Key: input.Key, Kind: ConstraintSet, Set: set}, true

	case attribute.InputPositiveNumber:
		v := listing.ParseValue(fields[input.Name])
		if n, ok := v.Float(); !ok || n <= 0 {
			return Constraint{}, false
		}
		return Constraint{Key: input.Key, Kind: ConstraintScalar, Value: v}, true

	default:
		raw := strings.TrimSpace(fields[input.Name])
		if raw == "" || raw == AnyOption {
			return Constraint{}, false
		}
		v := listing.ParseValue(raw)
		if !v.IsKnown() {
			return Constraint{}, false
		}
		return Constraint{Key: input.Key, Kind: ConstraintScalar, Value: v}, true
	}
}
