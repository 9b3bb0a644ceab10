package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-admin/internal/pricing"
)

func TestMinimumSelection(t *testing.T) {
	err := MinimumSelection([]struct{}{{}}, 2)
	require.ErrorIs(t, err, ErrTooFewItems)
	require.Equal(t, "TOO_FEW_ITEMS", Code(err))
	require.Equal(t, "select at least 2 items", err.Error())

	require.NoError(t, MinimumSelection([]struct{}{{}, {}}, 2))
}

func TestDiscountBounds(t *testing.T) {
	cases := []struct {
		name string
		d    pricing.Discount
		want error
	}{
		{name: "none", d: pricing.Discount{Type: pricing.DiscountNone}},
		{name: "percent upper bound", d: pricing.Discount{Type: pricing.DiscountPercentage, Value: 100}},
		{name: "percent zero", d: pricing.Discount{Type: pricing.DiscountPercentage, Value: 0}, want: ErrPercentageOutOfRange},
		{name: "percent over", d: pricing.Discount{Type: pricing.DiscountPercentage, Value: 100.5}, want: ErrPercentageOutOfRange},
		{name: "fixed zero", d: pricing.Discount{Type: pricing.DiscountFixed, Value: 0}, want: ErrFixedNotPositive},
		{name: "fixed below total", d: pricing.Discount{Type: pricing.DiscountFixed, Value: 99.99}},
		{name: "fixed equal total", d: pricing.Discount{Type: pricing.DiscountFixed, Value: 100}, want: ErrFixedExceedsTotal},
		{name: "fixed over total", d: pricing.Discount{Type: pricing.DiscountFixed, Value: 150}, want: ErrFixedExceedsTotal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := DiscountBounds(tc.d, 100)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFixedZeroCode(t *testing.T) {
	err := DiscountBounds(pricing.Discount{Type: pricing.DiscountFixed}, 0)
	require.Equal(t, "FIXED_NOT_POSITIVE", Code(err))
}

func TestSelectionAndRequired(t *testing.T) {
	require.ErrorIs(t, NonEmptyBulkSelection([]string{}), ErrNoEntitiesSelected)
	require.NoError(t, NonEmptyBulkSelection([]string{"a"}))

	require.ErrorIs(t, RequiredField("  "), ErrMissingRequiredValue)
	require.Equal(t, "MISSING_REQUIRED_VALUE", Code(RequiredField("")))
	require.NoError(t, RequiredField("+10"))
}

func TestBundleAggregatesByField(t *testing.T) {
	items := []pricing.LineItem{{ID: "a", Price: 100}, {ID: "a", Price: 100}}
	res := Bundle(items, pricing.Discount{Type: pricing.DiscountFixed, Value: 500}, 2)
	require.False(t, res.OK())
	require.Equal(t, "select at least 2 items", res["items"])
	require.Equal(t, ErrFixedExceedsTotal.Error(), res["discount"])

	res = Bundle([]pricing.LineItem{{ID: "a", Price: 100}, {ID: "b", Price: 50}}, pricing.Discount{Type: pricing.DiscountPercentage, Value: 20}, 2)
	require.True(t, res.OK())
}

func TestResultKeepsFirstError(t *testing.T) {
	res := Result{}
	res.Add("value", nil)
	require.True(t, res.OK())
	res.Add("value", RequiredField(""))
	res.Add("value", ErrTooFewItems)
	require.Equal(t, ErrMissingRequiredValue.Error(), res["value"])
}
