package bulkedit

import (
	"math"
	"strconv"
	"strings"
)

// AdjustmentKind tags the variant held by an Adjustment.
type AdjustmentKind int

const (
	// AdjustAbsolute carries a number: the new value under set, a delta under adjust.
	AdjustAbsolute AdjustmentKind = iota + 1
	// AdjustPercentage carries a percent of the entity's current value.
	AdjustPercentage
	// AdjustBoolean carries a boolean literal.
	AdjustBoolean
	// AdjustEnum carries an opaque enum token.
	AdjustEnum
)

// Adjustment is the typed form of raw user input.
type Adjustment struct {
	Kind   AdjustmentKind
	Number float64
	Flag   bool
	Token  string
}

// Absolute builds an absolute numeric adjustment.
func Absolute(n float64) Adjustment { return Adjustment{Kind: AdjustAbsolute, Number: n} }

// Percentage builds a percentage adjustment.
func Percentage(p float64) Adjustment { return Adjustment{Kind: AdjustPercentage, Number: p} }

// BooleanLiteral builds a boolean adjustment.
func BooleanLiteral(b bool) Adjustment { return Adjustment{Kind: AdjustBoolean, Flag: b} }

// EnumToken builds an enum adjustment.
func EnumToken(token string) Adjustment { return Adjustment{Kind: AdjustEnum, Token: token} }

// ValueKind returns the field kind the adjustment applies to.
func (a Adjustment) ValueKind() ValueKind {
	switch a.Kind {
	case AdjustAbsolute, AdjustPercentage:
		return KindNumeric
	case AdjustBoolean:
		return KindBoolean
	case AdjustEnum:
		return KindEnum
	default:
		return 0
	}
}

// Parse turns raw input into an Adjustment for a field of the given kind.
// Enum tokens are returned without membership checks; Resolve enforces them.
func Parse(raw string, kind ValueKind, mode Mode) (Adjustment, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return Adjustment{}, &ParseError{Input: raw, Err: ErrEmptyInput}
	}
	switch kind {
	case KindBoolean:
		switch strings.ToLower(input) {
		case "true":
			return BooleanLiteral(true), nil
		case "false":
			return BooleanLiteral(false), nil
		default:
			return Adjustment{}, &ParseError{Input: raw, Err: ErrInvalidBoolean}
		}
	case KindEnum:
		return EnumToken(input), nil
	case KindNumeric:
		if body, ok := strings.CutSuffix(input, "%"); ok {
			p, err := parseFloat(strings.TrimSpace(body))
			if err != nil {
				return Adjustment{}, &ParseError{Input: raw, Err: ErrInvalidNumber}
			}
			if mode != ModeAdjust {
				return Adjustment{}, &ParseError{Input: raw, Err: ErrUnsupportedModeForPercentage}
			}
			return Percentage(p), nil
		}
		n, err := parseFloat(input)
		if err != nil {
			return Adjustment{}, &ParseError{Input: raw, Err: ErrInvalidNumber}
		}
		return Absolute(n), nil
	default:
		return Adjustment{}, &ParseError{Input: raw, Err: ErrKindMismatch}
	}
}

// parseFloat accepts decimal notation only: sign, digits, point and exponent.
// Hex floats, underscores and the Inf/NaN spellings are rejected.
func parseFloat(value string) (float64, error) {
	if value == "" || strings.IndexFunc(value, notDecimal) >= 0 {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func notDecimal(r rune) bool {
	return !strings.ContainsRune("0123456789+-.eE", r)
}
