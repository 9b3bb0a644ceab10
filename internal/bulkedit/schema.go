package bulkedit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind classifies the values a mutable field can hold.
type ValueKind int

const (
	// KindNumeric fields hold float64 values such as price or capacity.
	KindNumeric ValueKind = iota + 1
	// KindEnum fields hold a token from a fixed allowed set such as status.
	KindEnum
	// KindBoolean fields hold true or false.
	KindBoolean
)

// String returns the lowercase name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindEnum:
		return "enum"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind as its lowercase name.
func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Mode selects between replacing a value and changing it relative to its current value.
type Mode string

const (
	// ModeSet replaces the field's value outright.
	ModeSet Mode = "set"
	// ModeAdjust changes the field relative to its current value.
	ModeAdjust Mode = "adjust"
)

// ParseMode converts user input into a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeSet:
		return ModeSet, nil
	case ModeAdjust:
		return ModeAdjust, nil
	default:
		return "", fmt.Errorf("bulkedit: unknown mode %q", value)
	}
}

// FieldSchema statically describes one mutable attribute.
type FieldSchema struct {
	Key   string    `json:"key"`
	Kind  ValueKind `json:"kind"`
	Modes []Mode    `json:"modes"`
	Unit  string    `json:"unit,omitempty"`
	// Allowed lists the legal tokens of an enum field.
	Allowed []string `json:"allowed,omitempty"`
	// ClampNonNegative floors committed values at zero.
	ClampNonNegative bool `json:"clampNonNegative,omitempty"`
	// Rounding rounds committed values to Places decimal places.
	Rounding bool  `json:"rounding,omitempty"`
	Places   int32 `json:"places,omitempty"`
	// Max caps committed values when positive.
	Max float64 `json:"max,omitempty"`
}

// Supports reports whether the field accepts the mode.
func (s FieldSchema) Supports(mode Mode) bool {
	return slices.Contains(s.Modes, mode)
}

// Allows reports whether token is a legal value of an enum field.
func (s FieldSchema) Allows(token string) bool {
	return slices.Contains(s.Allowed, token)
}

// Check verifies the schema is well formed.
func (s FieldSchema) Check() error {
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("bulkedit: field key is required")
	}
	if !s.Supports(ModeSet) {
		return fmt.Errorf("bulkedit: field %s must support set mode", s.Key)
	}
	switch s.Kind {
	case KindNumeric:
	case KindEnum:
		if len(s.Allowed) == 0 {
			return fmt.Errorf("bulkedit: enum field %s has no allowed values", s.Key)
		}
		if s.Supports(ModeAdjust) {
			return fmt.Errorf("bulkedit: enum field %s cannot support adjust mode", s.Key)
		}
	case KindBoolean:
		if s.Supports(ModeAdjust) {
			return fmt.Errorf("bulkedit: boolean field %s cannot support adjust mode", s.Key)
		}
	default:
		return fmt.Errorf("bulkedit: field %s has unknown kind", s.Key)
	}
	for _, m := range s.Modes {
		if m != ModeSet && m != ModeAdjust {
			return fmt.Errorf("bulkedit: field %s lists unknown mode %q", s.Key, m)
		}
	}
	return nil
}

// Finalize applies the field's commit policy to a resolved value.
// Non-numeric values are returned unchanged.
func (s FieldSchema) Finalize(v Value) Value {
	if s.Kind != KindNumeric || v.Kind() != KindNumeric {
		return v
	}
	n := v.Float()
	if s.ClampNonNegative && n < 0 {
		n = 0
	}
	if s.Max > 0 && n > s.Max {
		n = s.Max
	}
	if s.Rounding {
		n = decimal.NewFromFloat(n).Round(s.Places).InexactFloat64()
	}
	return NumberValue(n)
}
