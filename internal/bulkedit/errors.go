package bulkedit

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the raw value is blank.
	ErrEmptyInput = errors.New("value is required")
	// ErrInvalidNumber is returned when a numeric field receives unparseable input.
	ErrInvalidNumber = errors.New("value is not a valid number")
	// ErrInvalidBoolean is returned when a boolean field receives anything but true or false.
	ErrInvalidBoolean = errors.New("value must be true or false")
	// ErrUnsupportedModeForPercentage is returned when a percentage is used outside adjust mode.
	ErrUnsupportedModeForPercentage = errors.New("percentage values are only allowed in adjust mode")

	// ErrModeNotSupported is returned when the field does not accept the requested mode.
	ErrModeNotSupported = errors.New("mode not supported for field")
	// ErrKindMismatch is returned when the parsed value does not match the field kind.
	ErrKindMismatch = errors.New("value kind does not match field")
	// ErrInvalidEnumValue is returned when an enum token is outside the field's allowed set.
	ErrInvalidEnumValue = errors.New("value is not allowed for field")
	// ErrUnknownField is returned when the change targets a field with no schema.
	ErrUnknownField = errors.New("unknown field")
)

var codes = map[error]string{
	ErrEmptyInput:                   "EMPTY_INPUT",
	ErrInvalidNumber:                "INVALID_NUMBER",
	ErrInvalidBoolean:               "INVALID_BOOLEAN",
	ErrUnsupportedModeForPercentage: "UNSUPPORTED_MODE_FOR_PERCENTAGE",
	ErrModeNotSupported:             "MODE_NOT_SUPPORTED",
	ErrKindMismatch:                 "KIND_MISMATCH",
	ErrInvalidEnumValue:             "INVALID_ENUM_VALUE",
	ErrUnknownField:                 "UNKNOWN_FIELD",
}

// Code returns the stable machine code for an engine error, or an empty string.
func Code(err error) string {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

// ParseError reports raw input the parser rejected.
type ParseError struct {
	Input string
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Input, e.Err)
}

// Unwrap exposes the sentinel cause.
func (e *ParseError) Unwrap() error { return e.Err }

// ResolveError reports a parsed adjustment that cannot be applied to a field.
type ResolveError struct {
	Field string
	Mode  Mode
	Err   error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s (%s): %v", e.Field, e.Mode, e.Err)
}

// Unwrap exposes the sentinel cause.
func (e *ResolveError) Unwrap() error { return e.Err }
