// Package attribute holds the static per-category attribute metadata: how each
// attribute is compared, which form inputs feed it and how it is displayed.
package attribute

import (
	"slices"

	"listings-be/internal/listing"
)

type RuleKind int

const (
	RuleExact RuleKind = iota
	RuleSetMembership
	RuleNumericMin
	RuleOrdinalMin
	RuleRoomCount
)

func (k RuleKind) String() string {
	switch k {
	case RuleSetMembership:
		return "set-membership"
	case RuleNumericMin:
		return "numeric-minimum"
	case RuleOrdinalMin:
		return "ordinal-minimum"
	case RuleRoomCount:
		return "room-count-special"
	default:
		return "exact"
	}
}

// RoomsOrMore is the room-count option matching five rooms and above.
const RoomsOrMore = "5+"

// RoomsOrMoreThreshold is the room count RoomsOrMore stands for.
const RoomsOrMoreThreshold = 5

type Rule struct {
	Kind RuleKind
	// Order ranks the values of an ordinal attribute, lowest first.
	Order []string
}

// Rank is the position of v in the rule's order, or -1.
func (r Rule) Rank(v listing.Value) int {
	s, ok := v.Str()
	if !ok {
		return -1
	}
	return slices.Index(r.Order, s)
}

type InputKind int

const (
	// InputCheckboxes is a group of checkboxes, each named after its option.
	InputCheckboxes InputKind = iota
	// InputSelect is a single-value select where "any" means no choice.
	InputSelect
	// InputPositiveNumber is a free numeric field applied only when > 0.
	InputPositiveNumber
)

// Input binds one form control of a category to the attribute it constrains.
type Input struct {
	Name    string
	Key     string
	Kind    InputKind
	Options []string
}

// Registry is read-only after construction.
type Registry struct {
	rules  map[string]Rule
	inputs map[listing.Category][]Input
	labels map[string]string
	names  map[string]string
	units  map[string]string
	steps  map[listing.Category]float64
}

// SupportingOrder ranks the video resolutions a camera can support.
var SupportingOrder = []string{"hd", "full-hd", "4K", "5K"}

func Default() *Registry {
	return &Registry{
		rules: map[string]Rule{
			"type":              {Kind: RuleSetMembership},
			"cpu-type":          {Kind: RuleSetMembership},
			"body-type":         {Kind: RuleSetMembership},
			"area":              {Kind: RuleNumericMin},
			"ram-value":         {Kind: RuleNumericMin},
			"screen-size":       {Kind: RuleNumericMin},
			"matrix-resolution": {Kind: RuleNumericMin},
			"production-year":   {Kind: RuleNumericMin},
			"supporting":        {Kind: RuleOrdinalMin, Order: SupportingOrder},
			"rooms-count":       {Kind: RuleRoomCount},
		},
		inputs: map[listing.Category][]Input{
			listing.CategoryEstate: {
				{Name: "type", Key: "type", Kind: InputCheckboxes, Options: []string{"house", "flat", "apartment"}},
				{Name: "square", Key: "area", Kind: InputPositiveNumber},
				{Name: "rooms", Key: "rooms-count", Kind: InputSelect},
			},
			listing.CategoryCamera: {
				{Name: "type", Key: "type", Kind: InputCheckboxes, Options: []string{"slr", "digital", "mirrorless"}},
				{Name: "resolution-matrix", Key: "matrix-resolution", Kind: InputSelect},
				{Name: "resolution-video", Key: "supporting", Kind: InputSelect},
			},
			listing.CategoryLaptop: {
				{Name: "type", Key: "type", Kind: InputCheckboxes, Options: []string{"ultrabook", "home", "gaming"}},
				{Name: "ram", Key: "ram-value", Kind: InputSelect},
				{Name: "diagonal", Key: "screen-size", Kind: InputSelect},
				{Name: "cpu-type", Key: "cpu-type", Kind: InputCheckboxes, Options: []string{"i3", "i5", "i7"}},
			},
			listing.CategoryCar: {
				{Name: "car_year", Key: "production-year", Kind: InputSelect},
				{Name: "transmission", Key: "transmission", Kind: InputSelect},
				{Name: "body-type", Key: "body-type", Kind: InputCheckboxes, Options: []string{"sedan", "universal", "hatchback", "suv", "coupe"}},
			},
		},
		labels: map[string]string{
			"type":              "Тип",
			"area":              "Площадь",
			"rooms-count":       "Кол-во комнат",
			"ram-value":         "ОЗУ",
			"screen-size":       "Диагональ",
			"cpu-type":          "Тип ЦП",
			"matrix-resolution": "Разрешение матрицы",
			"supporting":        "Разрешение видео",
			"production-year":   "Год выпуска",
			"transmission":      "Коробка передач",
			"body-type":         "Тип кузова",
		},
		names: map[string]string{
			"flat":       "Квартира",
			"apartment":  "Апартаменты",
			"house":      "Дом",
			"ultrabook":  "Ультрабук",
			"home":       "Домашний",
			"gaming":     "Игровой",
			"i3":         "Intel Core i3",
			"i5":         "Intel Core i5",
			"i7":         "Intel Core i7",
			"slr":        "Зеркальный",
			"digital":    "Цифровой",
			"mirrorless": "Беззеркальный",
			"hd":         "HD",
			"full-hd":    "Full HD",
			"auto":       "Автомат",
			"mechanic":   "Механика",
			"sedan":      "Седан",
			"universal":  "Универсал",
			"hatchback":  "Хэтчбэк",
			"suv":        "Внедорожник",
			"coupe":      "Купэ",
		},
		units: map[string]string{
			"area":              " м²",
			"ram-value":         " Гб",
			"screen-size":       "″",
			"matrix-resolution": " МП",
		},
		steps: map[listing.Category]float64{
			listing.CategoryEstate: 10000,
			listing.CategoryCar:    10000,
		},
	}
}

// Rule returns the comparison rule of key; unlisted keys compare exactly.
func (r *Registry) Rule(key string) Rule {
	if rule, ok := r.rules[key]; ok {
		return rule
	}
	return Rule{Kind: RuleExact}
}

// Inputs returns the form inputs of a category. ok is false for unknown
// categories; "all" is known and has no inputs.
func (r *Registry) Inputs(c listing.Category) (inputs []Input, ok bool) {
	if c == listing.CategoryAll {
		return nil, true
	}
	inputs, ok = r.inputs[c]
	return inputs, ok
}

// Keys lists the attribute keys that may be constrained for a category.
func (r *Registry) Keys(c listing.Category) []string {
	inputs, _ := r.Inputs(c)
	keys := make([]string, 0, len(inputs))
	for _, in := range inputs {
		keys = append(keys, in.Key)
	}
	return keys
}

func (r *Registry) Label(key string) string {
	if l, ok := r.labels[key]; ok {
		return l
	}
	return key
}

// DisplayValue renders v with its human name and unit suffix.
func (r *Registry) DisplayValue(key string, v listing.Value) string {
	s := v.String()
	if name, ok := r.names[s]; ok {
		s = name
	}
	return s + r.units[key]
}

// PriceStep is the slider step of a category.
func (r *Registry) PriceStep(c listing.Category) float64 {
	if s, ok := r.steps[c]; ok {
		return s
	}
	return 1000
}
