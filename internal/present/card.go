package present

import (
	"fmt"
	"slices"

	"listings-be/internal/listing"
)

// MaxPhotos is how many photos a card gallery shows.
const MaxPhotos = 5

type SellerLevel string

const (
	SellerPlain SellerLevel = ""
	SellerGood  SellerLevel = "good"
	SellerBad   SellerLevel = "bad"
)

func SellerLevelOf(rating float64) SellerLevel {
	switch {
	case rating >= 4.8:
		return SellerGood
	case rating < 4:
		return SellerBad
	}
	return SellerPlain
}

type Card struct {
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Price      string   `json:"price"`
	Address    string   `json:"address"`
	Date       string   `json:"date"`
	Photos     []string `json:"photos"`
	MorePhotos string   `json:"more_photos,omitempty"`
	Favorite   bool     `json:"favorite"`
}

type Seller struct {
	Name   string      `json:"name"`
	Rating string      `json:"rating"`
	Level  SellerLevel `json:"level,omitempty"`
}

type Char struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Popup struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       string    `json:"price"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	Seller      Seller    `json:"seller"`
	Photos      []string  `json:"photos"`
	Chars       []Char    `json:"chars"`
	Favorite    bool      `json:"favorite"`
}

func (f *Formatter) Card(l listing.Listing, favorite bool) Card {
	photos := l.Details.Photos
	c := Card{
		Name:     l.Name,
		Category: string(l.Category),
		Price:    f.Price(l.Price),
		Address:  CardAddress(l.Details.Address),
		Date:     f.Date(l.PublishDate),
		Photos:   slices.Clone(photos[:min(len(photos), MaxPhotos)]),
		Favorite: favorite,
	}
	if c.Photos == nil {
		c.Photos = []string{}
	}
	if extra := len(photos) - MaxPhotos; extra > 0 {
		c.MorePhotos = fmt.Sprintf("+%d фото", extra)
	}
	return c
}

func (f *Formatter) Cards(ls []listing.Listing, favorite func(name string) bool) []Card {
	cards := make([]Card, 0, len(ls))
	for _, l := range ls {
		cards = append(cards, f.Card(l, favorite != nil && favorite(l.Name)))
	}
	return cards
}

func (f *Formatter) Popup(l listing.Listing, favorite bool) Popup {
	photos := slices.Clone(l.Details.Photos)
	if photos == nil {
		photos = []string{}
	}
	return Popup{
		Name:        l.Name,
		Category:    string(l.Category),
		Price:       f.Price(l.Price),
		Date:        f.Date(l.PublishDate),
		Description: l.Details.Description,
		Address:     FullAddress(l.Details.Address),
		Coordinates: l.Details.Coordinates,
		Seller: Seller{
			Name:   l.Details.Seller.FullName,
			Rating: f.Rating(l.Details.Seller.Rating),
			Level:  SellerLevelOf(l.Details.Seller.Rating),
		},
		Photos:   photos,
		Chars:    f.Chars(l),
		Favorite: favorite,
	}
}

// Chars lists the reported attributes, the category's filterable keys first
// and any others after them in key order.
func (f *Formatter) Chars(l listing.Listing) []Char {
	keys := f.registry.Keys(l.Category)
	var rest []string
	for k := range l.Attributes {
		if !slices.Contains(keys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)

	chars := make([]Char, 0, len(l.Attributes))
	for _, k := range append(keys, rest...) {
		v, ok := l.Attributes[k]
		if !ok || !v.IsKnown() {
			continue
		}
		chars = append(chars, Char{Name: f.registry.Label(k), Value: f.registry.DisplayValue(k, v)})
	}
	return chars
}
