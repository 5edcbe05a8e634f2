package predicate

import (
	"testing"

	"listings-be/internal/attribute"
	"listings-be/internal/criteria"
	"listings-be/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, c listing.Category, in criteria.RawInput) criteria.Criteria {
	t.Helper()
	cr, err := criteria.NewBuilder(attribute.Default()).Build(c, in, nil)
	require.NoError(t, err)
	return cr
}

func TestEvaluator_Unconstrained(t *testing.T) {
	e := NewEvaluator(attribute.Default())
	cr := build(t, listing.CategoryEstate, criteria.RawInput{})

	assert.True(t, e.Satisfies("area", listing.Number(10), cr))
	assert.True(t, e.Satisfies("area", listing.Unknown(), cr))
	assert.Equal(t, Pass, e.Check("type", listing.Unknown(), cr))
}

func TestEvaluator_MissingValue(t *testing.T) {
	e := NewEvaluator(attribute.Default())
	cr := build(t, listing.CategoryEstate, criteria.RawInput{Fields: map[string]string{"square": "30"}})

	assert.False(t, e.Satisfies("area", listing.Unknown(), cr))
	assert.Equal(t, Missing, e.Check("area", listing.Unknown(), cr))
}

func TestEvaluator_SetMembership(t *testing.T) {
	e := NewEvaluator(attribute.Default())
	cr := build(t, listing.CategoryEstate, criteria.RawInput{Checked: []string{"house", "flat"}})

	assert.True(t, e.Satisfies("type", listing.Text("flat"), cr))
	assert.True(t, e.Satisfies("type", listing.Text("house"), cr))
	assert.Equal(t, Reject, e.Check("type", listing.Text("apartment"), cr))
}

func TestEvaluator_NumericMinimum(t *testing.T) {
	e := NewEvaluator(attribute.Default())
	cr := build(t, listing.CategoryLaptop, criteria.RawInput{Fields: map[string]string{"ram": "8", "diagonal": "15"}})

	tests := []struct {
		name  string
		key   string
		value listing.Value
		want  bool
	}{
		{"RamAbove", "ram-value", listing.Number(16), true},
		{"RamEqual", "ram-value", listing.Number(8), true},
		{"RamBelow", "ram-value", listing.Number(4), false},
		{"ScreenFractional", "screen-size", listing.Number(15.6), true},
		{"NumericText", "ram-value", listing.Text("16"), true},
		{"NumericTextBelow", "ram-value", listing.Text("4"), false},
		{"NonNumericText", "ram-value", listing.Text("lots"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Satisfies(tt.key, tt.value, cr))
		})
	}
}

func TestEvaluator_AreaAsText(t *testing.T) {
	e := NewEvaluator(attribute.Default())
	cr := build(t, listing.CategoryEstate, criteria.RawInput{Fields: map[string]string{"square": "50"}})

	assert.True(t, e.Satisfies("area", listing.Text("80"), cr))
	assert.True(t, e.Satisfies("area", listing.Number(80), cr))
	assert.Equal(t, Reject, e.Check("area", listing.Text("30"), cr))
}

func TestEvaluator_OrdinalMinimum(t *testing.T) {
	e := NewEvaluator(attribute.Default())
	cr := build(t, listing.CategoryCamera, criteria.RawInput{Fields: map[string]string{"resolution-video": "full-hd"}})

	for _, v := range []string{"full-hd", "4K", "5K"} {
		assert.True(t, e.Satisfies("supporting", listing.Text(v), cr), v)
	}
	assert.False(t, e.Satisfies("supporting", listing.Text("hd"), cr))
	assert.False(t, e.Satisfies("supporting", listing.Text("8K"), cr), "unranked values never qualify")
}

func TestEvaluator_OrdinalUnrankedCriterion(t *testing.T) {
	e := NewEvaluator(attribute.Default())
	cr := build(t, listing.CategoryCamera, criteria.RawInput{Fields: map[string]string{"resolution-video": "vga"}})

	assert.False(t, e.Satisfies("supporting", listing.Text("5K"), cr))
}

func TestEvaluator_RoomCount(t *testing.T) {
	e := NewEvaluator(attribute.Default())

	t.Run("FivePlus", func(t *testing.T) {
		cr := build(t, listing.CategoryEstate, criteria.RawInput{Fields: map[string]string{"rooms": "5+"}})

		for _, n := range []float64{5, 6, 7, 12} {
			assert.True(t, e.Satisfies("rooms-count", listing.Number(n), cr), n)
		}
		assert.False(t, e.Satisfies("rooms-count", listing.Number(4), cr))
		assert.False(t, e.Satisfies("rooms-count", listing.Text("5+"), cr))
		assert.True(t, e.Satisfies("rooms-count", listing.Text("6"), cr))
		assert.False(t, e.Satisfies("rooms-count", listing.Text("4"), cr))
	})

	t.Run("Exact", func(t *testing.T) {
		cr := build(t, listing.CategoryEstate, criteria.RawInput{Fields: map[string]string{"rooms": "2"}})

		assert.True(t, e.Satisfies("rooms-count", listing.Number(2), cr))
		assert.False(t, e.Satisfies("rooms-count", listing.Number(3), cr))
		assert.False(t, e.Satisfies("rooms-count", listing.Text("2"), cr))
	})
}

func TestEvaluator_Exact(t *testing.T) {
	e := NewEvaluator(attribute.Default())
	cr := build(t, listing.CategoryCar, criteria.RawInput{Fields: map[string]string{"transmission": "auto"}})

	assert.True(t, e.Satisfies("transmission", listing.Text("auto"), cr))
	assert.False(t, e.Satisfies("transmission", listing.Text("mechanic"), cr))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "pass", Pass.String())
	assert.Equal(t, "missing", Missing.String())
	assert.Equal(t, "reject", Reject.String())
}
