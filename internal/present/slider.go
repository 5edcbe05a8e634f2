package present

import (
	"listings-be/internal/attribute"
	"listings-be/internal/criteria"
	"listings-be/internal/listing"
)

const (
	DefaultPriceMin = 9000
	DefaultPriceMax = 30000000
)

const (
	EmptyResults   = "Мы не нашли товары по вашему запросу. Попробуйте поменять фильтры настройки объявлений в блоке слева"
	EmptyFavorites = "У вас пока нет избранных товаров"
)

// EmptyMessage is shown in place of an empty results list.
func EmptyMessage(favoritesView bool) string {
	if favoritesView {
		return EmptyFavorites
	}
	return EmptyResults
}

// Slider configures the price range selector of a category.
type Slider struct {
	Category listing.Category `json:"category"`
	Min      float64          `json:"min"`
	Max      float64          `json:"max"`
	Step     float64          `json:"step"`
}

// PriceSlider spans the known prices of the category's listings and falls back
// to the default range when none is known.
func PriceSlider(registry *attribute.Registry, catalog []listing.Listing, c listing.Category) Slider {
	s := Slider{Category: c, Step: registry.PriceStep(c)}

	found := false
	for _, l := range catalog {
		if !l.InCategory(c) || !l.PriceKnown() {
			continue
		}
		if !found {
			s.Min, s.Max, found = l.Price, l.Price, true
			continue
		}
		s.Min = min(s.Min, l.Price)
		s.Max = max(s.Max, l.Price)
	}
	if !found {
		s.Min, s.Max = DefaultPriceMin, DefaultPriceMax
	}
	return s
}

// Range pairs a reported selection with the slider's limits.
func (s Slider) Range(lo, hi float64) criteria.PriceRange {
	return criteria.PriceRange{Min: lo, Max: hi, Floor: s.Min, Ceil: s.Max}
}
