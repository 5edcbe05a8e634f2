// Package present turns listings into the strings and view models a client
// renders: cards, popups, slider settings and empty-state messages.
package present

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"listings-be/internal/attribute"
	"listings-be/internal/listing"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	currencySign = "₽"
	noPrice      = "Цена не указана"
)

var genitiveMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

type Formatter struct {
	registry *attribute.Registry
	printer  *message.Printer
	now      func() time.Time
}

func NewFormatter(registry *attribute.Registry) *Formatter {
	return &Formatter{
		registry: registry,
		printer:  message.NewPrinter(language.Russian),
		now:      time.Now,
	}
}

// WithClock returns a copy of f that reads the current time from now.
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	c := *f
	c.now = now
	return &c
}

// Price renders whole roubles with Russian digit grouping.
func (f *Formatter) Price(p float64) string {
	if p <= 0 || math.IsNaN(p) {
		return noPrice
	}
	return f.printer.Sprintf("%v %s", number.Decimal(math.Round(p), number.MaxFractionDigits(0)), currencySign)
}

// Rating always shows one decimal.
func (f *Formatter) Rating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// Date is relative for the last week and a long date otherwise; the year is
// dropped for dates in the current year.
func (f *Formatter) Date(publishedMillis int64) string {
	now := f.now()
	published := time.UnixMilli(publishedMillis).In(now.Location())
	elapsed := now.Sub(published)

	switch {
	case elapsed < 24*time.Hour:
		hours := int(max(elapsed, 0) / time.Hour)
		return fmt.Sprintf("%d %s назад", hours, pluralRu(hours, "час", "часа", "часов"))
	case elapsed < 7*24*time.Hour:
		days := int(elapsed / (24 * time.Hour))
		return fmt.Sprintf("%d %s назад", days, pluralRu(days, "день", "дня", "дней"))
	}

	s := fmt.Sprintf("%d %s", published.Day(), genitiveMonths[published.Month()-1])
	if published.Year() != now.Year() {
		s += " " + strconv.Itoa(published.Year())
	}
	return s
}

func pluralRu(n int, one, few, many string) string {
	switch plural.Cardinal.MatchPlural(language.Russian, n, 0, 0, 0, 0) {
	case plural.One:
		return one
	case plural.Few:
		return few
	default:
		return many
	}
}

// CardAddress is "city, street" with the street omitted when empty.
func CardAddress(a listing.Address) string {
	if a.Street == "" {
		return a.City
	}
	return a.City + ", " + a.Street
}

func FullAddress(a listing.Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.City, a.Street, a.Building} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
