package listing

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// MissingMark is how the catalog source reports an attribute it has no data for.
const MissingMark = "-"

type valueKind uint8

const (
	kindUnknown valueKind = iota
	kindNumber
	kindText
)

// Value is one attribute value of a listing: a known number, a known text or
// Unknown when the source never reported it.
type Value struct {
	kind valueKind
	num  float64
	text string
}

func Unknown() Value {
	return Value{}
}

func Number(n float64) Value {
	return Value{kind: kindNumber, num: n}
}

func Text(s string) Value {
	return Value{kind: kindText, text: s}
}

// ParseValue coerces a raw input string: numeric-looking strings become
// numbers, the missing mark becomes Unknown and anything else stays text.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" || s == MissingMark {
		return Unknown()
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(n)
	}
	return Text(s)
}

func (v Value) IsKnown() bool  { return v.kind != kindUnknown }
func (v Value) IsNumber() bool { return v.kind == kindNumber }
func (v Value) IsText() bool   { return v.kind == kindText }

func (v Value) Float() (float64, bool) {
	return v.num, v.kind == kindNumber
}

func (v Value) Str() (string, bool) {
	return v.text, v.kind == kindText
}

// Equal compares kind and payload. Unknown is never equal to anything,
// including another Unknown.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindNumber:
		return v.num == o.num
	case kindText:
		return v.text == o.text
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindText:
		return v.text
	default:
		return MissingMark
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case kindText:
		return json.Marshal(v.text)
	default:
		return json.Marshal(MissingMark)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Unknown()
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("attribute value %s: %w", data, err)
		}
		if s == MissingMark {
			*v = Unknown()
			return nil
		}
		*v = Text(s)
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*v = Text(string(data))
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("attribute value %s: %w", data, err)
		}
		*v = Number(n)
	}
	return nil
}

// Attributes maps an attribute key to the value a listing reports for it.
type Attributes map[string]Value

// Get returns Unknown for keys the listing does not report at all.
func (a Attributes) Get(key string) Value {
	v, ok := a[key]
	if !ok {
		return Unknown()
	}
	return v
}
