package listing

import (
	"math"
	"time"
)

type Category string

const (
	CategoryAll    Category = "all"
	CategoryEstate Category = "estate"
	CategoryCamera Category = "camera"
	CategoryLaptop Category = "laptop"
	CategoryCar    Category = "car"
)

// Categories lists the closed set of listing categories in display order.
var Categories = []Category{CategoryEstate, CategoryCamera, CategoryLaptop, CategoryCar}

// localizedCategories maps the names the remote catalog uses to categories.
var localizedCategories = map[string]Category{
	"Недвижимость": CategoryEstate,
	"Фотоаппарат":  CategoryCamera,
	"Ноутбук":      CategoryLaptop,
	"Автомобиль":   CategoryCar,
}

// Valid reports whether c is one of the listing categories (not "all").
func (c Category) Valid() bool {
	switch c {
	case CategoryEstate, CategoryCamera, CategoryLaptop, CategoryCar:
		return true
	}
	return false
}

// ParseCategory accepts canonical and localized category names.
func ParseCategory(s string) (Category, bool) {
	if c := Category(s); c.Valid() {
		return c, true
	}
	c, ok := localizedCategories[s]
	return c, ok
}

type Seller struct {
	FullName string  `json:"fullname"`
	Rating   float64 `json:"rating"`
}

type Address struct {
	City     string `json:"city,omitempty"`
	Street   string `json:"street,omitempty"`
	Building string `json:"building,omitempty"`
}

// Details holds the presentation-only part of a listing.
type Details struct {
	Description string    `json:"description,omitempty"`
	Seller      Seller    `json:"seller"`
	Address     Address   `json:"address"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	Photos      []string  `json:"photos,omitempty"`
}

type Listing struct {
	Name        string
	Category    Category
	Price       float64
	PublishDate int64
	Attributes  Attributes
	Details     Details
}

// PriceKnown is false for a zero or NaN price.
func (l Listing) PriceKnown() bool {
	return l.Price > 0 && !math.IsNaN(l.Price)
}

func (l Listing) Attribute(key string) Value {
	return l.Attributes.Get(key)
}

func (l Listing) Published() time.Time {
	return time.UnixMilli(l.PublishDate)
}

// InCategory treats CategoryAll as matching every listing.
func (l Listing) InCategory(c Category) bool {
	return c == CategoryAll || l.Category == c
}
