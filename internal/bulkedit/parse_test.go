package bulkedit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		mode Mode
		want Adjustment
	}{
		{name: "plain", raw: "99", mode: ModeSet, want: Absolute(99)},
		{name: "signed plus", raw: "+10", mode: ModeAdjust, want: Absolute(10)},
		{name: "signed minus", raw: " -5.5 ", mode: ModeAdjust, want: Absolute(-5.5)},
		{name: "percent", raw: "+15%", mode: ModeAdjust, want: Percentage(15)},
		{name: "negative percent", raw: "-10%", mode: ModeAdjust, want: Percentage(-10)},
		{name: "exponent", raw: "1.5e3", mode: ModeSet, want: Absolute(1500)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw, KindNumeric, tc.mode)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		raw  string
		kind ValueKind
		mode Mode
		want error
	}{
		{raw: "   ", kind: KindNumeric, mode: ModeSet, want: ErrEmptyInput},
		{raw: "", kind: KindBoolean, mode: ModeSet, want: ErrEmptyInput},
		{raw: "abc", kind: KindNumeric, mode: ModeSet, want: ErrInvalidNumber},
		{raw: "%", kind: KindNumeric, mode: ModeAdjust, want: ErrInvalidNumber},
		{raw: "ten%", kind: KindNumeric, mode: ModeAdjust, want: ErrInvalidNumber},
		{raw: "NaN", kind: KindNumeric, mode: ModeSet, want: ErrInvalidNumber},
		{raw: "Inf", kind: KindNumeric, mode: ModeSet, want: ErrInvalidNumber},
		{raw: "0x1p4", kind: KindNumeric, mode: ModeSet, want: ErrInvalidNumber},
		{raw: "0x10%", kind: KindNumeric, mode: ModeAdjust, want: ErrInvalidNumber},
		{raw: "1_000", kind: KindNumeric, mode: ModeSet, want: ErrInvalidNumber},
		{raw: "15%", kind: KindNumeric, mode: ModeSet, want: ErrUnsupportedModeForPercentage},
		{raw: "yes", kind: KindBoolean, mode: ModeSet, want: ErrInvalidBoolean},
	}
	for _, tc := range cases {
		_, err := Parse(tc.raw, tc.kind, tc.mode)
		require.ErrorIs(t, err, tc.want, "input %q", tc.raw)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
	}
}

func TestParseBooleanAndEnum(t *testing.T) {
	got, err := Parse("TRUE", KindBoolean, ModeSet)
	require.NoError(t, err)
	require.Equal(t, BooleanLiteral(true), got)

	got, err = Parse("false", KindBoolean, ModeSet)
	require.NoError(t, err)
	require.Equal(t, BooleanLiteral(false), got)

	got, err = Parse("  published ", KindEnum, ModeSet)
	require.NoError(t, err)
	require.Equal(t, EnumToken("published"), got)
}

func TestCode(t *testing.T) {
	_, err := Parse("15%", KindNumeric, ModeSet)
	require.Equal(t, "UNSUPPORTED_MODE_FOR_PERCENTAGE", Code(err))
	require.Equal(t, "", Code(errors.New("other")))
}
