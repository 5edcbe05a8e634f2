package listing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// rawListing is one record of the remote catalog document.
type rawListing struct {
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Price       any         `json:"price"`
	PublishDate epochMillis `json:"publish-date"`
	Filters     Attributes  `json:"filters"`
	Description string      `json:"description"`
	Seller      Seller      `json:"seller"`
	Address     Address     `json:"address"`
	Coordinates []float64   `json:"coordinates"`
	Photos      []string    `json:"photos"`
}

type rawCatalog struct {
	Products []rawListing `json:"products"`
}

// Decode parses a catalog document of the form {"products": [...]} and
// returns the listings in document order.
func Decode(data []byte) ([]Listing, error) {
	var doc rawCatalog
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidListing, err)
	}

	listings := make([]Listing, 0, len(doc.Products))
	seen := make(map[string]struct{}, len(doc.Products))
	for i, raw := range doc.Products {
		l, err := raw.toListing()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[l.Name]; dup {
			return nil, fmt.Errorf("record %d: %w: %q", i, ErrDuplicateListing, l.Name)
		}
		seen[l.Name] = struct{}{}
		listings = append(listings, l)
	}
	return listings, nil
}

func (r rawListing) toListing() (Listing, error) {
	if strings.TrimSpace(r.Name) == "" {
		return Listing{}, fmt.Errorf("%w: empty name", ErrInvalidListing)
	}
	category, ok := ParseCategory(r.Category)
	if !ok {
		return Listing{}, fmt.Errorf("%w: %q has unknown category %q", ErrInvalidListing, r.Name, r.Category)
	}
	attrs := r.Filters
	if attrs == nil {
		attrs = Attributes{}
	}
	return Listing{
		Name:        r.Name,
		Category:    category,
		Price:       parsePrice(r.Price),
		PublishDate: int64(r.PublishDate),
		Attributes:  attrs,
		Details: Details{
			Description: r.Description,
			Seller:      r.Seller,
			Address:     r.Address,
			Coordinates: r.Coordinates,
			Photos:      r.Photos,
		},
	}, nil
}

// epochMillis is a UNIX time in milliseconds sent either as a JSON number or
// as a numeric string. Anything else decodes as zero.
type epochMillis int64

func (m *epochMillis) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("publish-date %s: %w", data, err)
	}
	switch v := raw.(type) {
	case float64:
		*m = epochMillis(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			*m = 0
			return nil
		}
		*m = epochMillis(n)
	default:
		*m = 0
	}
	return nil
}

// parsePrice maps anything that is not a usable number to NaN.
func parsePrice(v any) float64 {
	switch p := v.(type) {
	case float64:
		return p
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}
