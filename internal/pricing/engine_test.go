package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputePercentage(t *testing.T) {
	items := []LineItem{{ID: "a", Price: 100}, {ID: "b", Price: 50}}
	got := Compute(items, Discount{Type: DiscountPercentage, Value: 20})
	require.Equal(t, Summary{OriginalTotal: 150, DiscountedTotal: 120, AbsoluteSavings: 30, SavingsPercentage: 20}, got)
}

func TestComputeFixedClampsAtZero(t *testing.T) {
	got := Compute([]LineItem{{ID: "a", Price: 100}}, Discount{Type: DiscountFixed, Value: 150})
	require.Equal(t, 0.0, got.DiscountedTotal)
	require.Equal(t, 100.0, got.AbsoluteSavings)
	require.Equal(t, 100.0, got.SavingsPercentage)
}

func TestComputeFixed(t *testing.T) {
	got := Compute([]LineItem{{ID: "a", Price: 80}, {ID: "b", Price: 120}}, Discount{Type: DiscountFixed, Value: 50})
	require.Equal(t, Summary{OriginalTotal: 200, DiscountedTotal: 150, AbsoluteSavings: 50, SavingsPercentage: 25}, got)
}

func TestComputeNone(t *testing.T) {
	got := Compute([]LineItem{{ID: "a", Price: 19.99}, {ID: "b", Price: 0.01}}, Discount{Type: DiscountNone, Value: 30})
	require.Equal(t, Summary{OriginalTotal: 20, DiscountedTotal: 20}, got)
}

func TestComputeEmpty(t *testing.T) {
	for _, d := range []Discount{{Type: DiscountNone}, {Type: DiscountPercentage, Value: 50}, {Type: DiscountFixed, Value: 10}} {
		got := Compute(nil, d)
		require.Equal(t, Summary{}, got)
	}
}

func TestSummaryFinite(t *testing.T) {
	require.True(t, Compute([]LineItem{{ID: "a", Price: 1e307}}, Discount{Type: DiscountNone}).Finite())

	got := Compute([]LineItem{{ID: "a", Price: 1e308}, {ID: "b", Price: 1e308}}, Discount{Type: DiscountNone})
	require.False(t, got.Finite())

	got = Compute([]LineItem{{ID: "a", Price: 10}}, Discount{Type: DiscountPercentage, Value: 1e308})
	require.False(t, got.Finite())
}

func TestParseDiscountType(t *testing.T) {
	require.Equal(t, DiscountPercentage, ParseDiscountType(" Percentage "))
	require.Equal(t, DiscountFixed, ParseDiscountType("FIXED"))
	require.Equal(t, DiscountNone, ParseDiscountType("bogo"))
}

func TestTotal(t *testing.T) {
	require.Equal(t, 0.3, Total([]LineItem{{Price: 0.1}, {Price: 0.2}}))
}
