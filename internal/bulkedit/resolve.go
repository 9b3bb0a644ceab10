package bulkedit

import "math"

// Resolve computes the new value of a field from its current value.
// It neither clamps nor rounds; see FieldSchema.Finalize.
func Resolve(schema FieldSchema, mode Mode, adj Adjustment, current Value) (Value, error) {
	fail := func(err error) (Value, error) {
		return Value{}, &ResolveError{Field: schema.Key, Mode: mode, Err: err}
	}
	// numeric rejects results that overflow float64.
	numeric := func(n float64) (Value, error) {
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return fail(ErrInvalidNumber)
		}
		return NumberValue(n), nil
	}
	if !schema.Supports(mode) {
		return fail(ErrModeNotSupported)
	}
	if adj.ValueKind() != schema.Kind {
		return fail(ErrKindMismatch)
	}

	switch adj.Kind {
	case AdjustAbsolute:
		if mode == ModeSet {
			return NumberValue(adj.Number), nil
		}
		if current.Kind() != KindNumeric {
			return fail(ErrKindMismatch)
		}
		return numeric(current.Float() + adj.Number)
	case AdjustPercentage:
		if mode != ModeAdjust {
			return fail(ErrUnsupportedModeForPercentage)
		}
		if current.Kind() != KindNumeric {
			return fail(ErrKindMismatch)
		}
		cur := current.Float()
		return numeric(cur + cur*(adj.Number/100))
	case AdjustBoolean:
		if mode != ModeSet {
			return fail(ErrModeNotSupported)
		}
		return BoolValue(adj.Flag), nil
	case AdjustEnum:
		if mode != ModeSet {
			return fail(ErrModeNotSupported)
		}
		if !schema.Allows(adj.Token) {
			return fail(ErrInvalidEnumValue)
		}
		return EnumValue(adj.Token), nil
	default:
		return fail(ErrKindMismatch)
	}
}
