package bulkedit

import (
	"encoding/json"
	"strconv"
)

// Value is the current or resolved content of a field. Exactly one of the
// payloads is meaningful, selected by Kind.
type Value struct {
	kind ValueKind
	num  float64
	str  string
	flag bool
}

// NumberValue wraps a numeric value.
func NumberValue(n float64) Value { return Value{kind: KindNumeric, num: n} }

// EnumValue wraps an enum token.
func EnumValue(token string) Value { return Value{kind: KindEnum, str: token} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBoolean, flag: b} }

// Kind returns the variant held by the value.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns the numeric payload.
func (v Value) Float() float64 { return v.num }

// Token returns the enum payload.
func (v Value) Token() string { return v.str }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.flag }

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumeric:
		return v.num == other.num
	case KindEnum:
		return v.str == other.str
	case KindBoolean:
		return v.flag == other.flag
	default:
		return true
	}
}

// String formats the payload for display.
func (v Value) String() string {
	switch v.kind {
	case KindNumeric:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindEnum:
		return v.str
	case KindBoolean:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// MarshalJSON renders the payload as a bare JSON number, string or boolean.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumeric:
		return json.Marshal(v.num)
	case KindEnum:
		return json.Marshal(v.str)
	case KindBoolean:
		return json.Marshal(v.flag)
	default:
		return []byte("null"), nil
	}
}
