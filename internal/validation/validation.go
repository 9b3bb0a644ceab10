package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/toko-admin/internal/pricing"
)

var (
	// ErrTooFewItems is returned when fewer items are selected than required.
	ErrTooFewItems = errors.New("too few items selected")
	// ErrPercentageOutOfRange is returned when a percentage discount is outside (0, 100].
	ErrPercentageOutOfRange = errors.New("percentage discount must be greater than 0 and at most 100")
	// ErrFixedNotPositive is returned when a fixed discount is zero.
	ErrFixedNotPositive = errors.New("fixed discount must be greater than 0")
	// ErrFixedExceedsTotal is returned when a fixed discount is not below the bundle total.
	ErrFixedExceedsTotal = errors.New("fixed discount must be less than the bundle total")
	// ErrNoEntitiesSelected is returned when a bulk edit has an empty selection.
	ErrNoEntitiesSelected = errors.New("no entities selected")
	// ErrMissingRequiredValue is returned when a required raw value is blank.
	ErrMissingRequiredValue = errors.New("value is required")
)

// Error is a failed check with a stable code and a display message.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap exposes the sentinel cause.
func (e *Error) Unwrap() error { return e.Err }

func fail(code string, err error, format string, args ...any) *Error {
	msg := err.Error()
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// MinimumSelection fails when items has fewer than min entries.
func MinimumSelection[T any](items []T, min int) error {
	if len(items) < min {
		return fail("TOO_FEW_ITEMS", ErrTooFewItems, "select at least %d items", min)
	}
	return nil
}

// DiscountBounds checks a discount against the bundle's original total.
func DiscountBounds(d pricing.Discount, originalTotal float64) error {
	switch d.Type {
	case pricing.DiscountPercentage:
		if d.Value <= 0 || d.Value > 100 {
			return fail("PERCENTAGE_OUT_OF_RANGE", ErrPercentageOutOfRange, "")
		}
	case pricing.DiscountFixed:
		if d.Value <= 0 {
			return fail("FIXED_NOT_POSITIVE", ErrFixedNotPositive, "")
		}
		if d.Value >= originalTotal {
			return fail("FIXED_EXCEEDS_TOTAL", ErrFixedExceedsTotal, "")
		}
	}
	return nil
}

// NonEmptyBulkSelection fails when no entity ids are selected.
func NonEmptyBulkSelection[T any](selected []T) error {
	if len(selected) == 0 {
		return fail("NO_ENTITIES_SELECTED", ErrNoEntitiesSelected, "")
	}
	return nil
}

// RequiredField fails when the raw input is blank.
func RequiredField(value string) error {
	if strings.TrimSpace(value) == "" {
		return fail("MISSING_REQUIRED_VALUE", ErrMissingRequiredValue, "")
	}
	return nil
}

// Code returns the code of a validation error, or an empty string.
func Code(err error) string {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr.Code
	}
	return ""
}

// Result maps a form field to the message of its first failed check.
type Result map[string]string

// Add records err against field. Nil errors and fields that already failed are ignored.
func (r Result) Add(field string, err error) {
	if err == nil {
		return
	}
	if _, exists := r[field]; exists {
		return
	}
	r[field] = err.Error()
}

// OK reports whether no check failed.
func (r Result) OK() bool { return len(r) == 0 }

// Bundle runs the checks gating a bundle save. Items are counted by distinct id.
func Bundle(items []pricing.LineItem, d pricing.Discount, minItems int) Result {
	seen := make(map[string]struct{}, len(items))
	distinct := make([]string, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		distinct = append(distinct, it.ID)
	}
	res := Result{}
	res.Add("items", MinimumSelection(distinct, minItems))
	res.Add("discount", DiscountBounds(d, pricing.Total(items)))
	return res
}
