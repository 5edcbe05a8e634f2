// Package predicate decides whether a single listing attribute value satisfies
// the constraint the criteria place on that attribute.
package predicate

import (
	"listings-be/internal/attribute"
	"listings-be/internal/criteria"
	"listings-be/internal/listing"
)

type Outcome int

const (
	// Pass means the attribute is unconstrained or matches.
	Pass Outcome = iota
	// Missing means the attribute is constrained but the listing reports it as unknown.
	Missing
	// Reject means the reported value does not match.
	Reject
)

func (o Outcome) String() string {
	switch o {
	case Missing:
		return "missing"
	case Reject:
		return "reject"
	default:
		return "pass"
	}
}

type Evaluator struct {
	registry *attribute.Registry
}

func NewEvaluator(registry *attribute.Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// Satisfies is false both for mismatches and for unreported values.
func (e *Evaluator) Satisfies(key string, value listing.Value, c criteria.Criteria) bool {
	return e.Check(key, value, c) == Pass
}

func (e *Evaluator) Check(key string, value listing.Value, c criteria.Criteria) Outcome {
	con, ok := c.Constraint(key)
	if !ok {
		return Pass
	}
	if !value.IsKnown() {
		return Missing
	}
	if e.match(e.registry.Rule(key), con, value) {
		return Pass
	}
	return Reject
}

func (e *Evaluator) match(rule attribute.Rule, con criteria.Constraint, value listing.Value) bool {
	if con.IsSet() {
		return con.Contains(value)
	}

	switch rule.Kind {
	case attribute.RuleNumericMin:
		v, ok := numeric(value)
		ref, refOK := numeric(con.Value)
		return ok && refOK && v >= ref

	case attribute.RuleOrdinalMin:
		v, ref := rule.Rank(value), rule.Rank(con.Value)
		return v >= 0 && ref >= 0 && v >= ref

	case attribute.RuleRoomCount:
		if s, ok := con.Value.Str(); ok && s == attribute.RoomsOrMore {
			n, ok := numeric(value)
			return ok && n >= attribute.RoomsOrMoreThreshold
		}
		return value.Equal(con.Value)

	default:
		return value.Equal(con.Value)
	}
}

// numeric reads a number for the minimum comparisons, accepting numeric
// text. Exact and set matching never go through it.
func numeric(v listing.Value) (float64, bool) {
	if n, ok := v.Float(); ok {
		return n, true
	}
	if s, ok := v.Str(); ok {
		return listing.ParseValue(s).Float()
	}
	return 0, false
}
