package pricing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a bundle discount is applied.
type DiscountType string

const (
	// DiscountNone leaves the total untouched.
	DiscountNone DiscountType = "none"
	// DiscountPercentage removes a percentage of the total.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed removes a fixed amount from the total.
	DiscountFixed DiscountType = "fixed"
)

// ParseDiscountType converts user input into a DiscountType; unknown input maps to DiscountNone.
func ParseDiscountType(value string) DiscountType {
	switch {
	case strings.EqualFold(strings.TrimSpace(value), string(DiscountPercentage)):
		return DiscountPercentage
	case strings.EqualFold(strings.TrimSpace(value), string(DiscountFixed)):
		return DiscountFixed
	default:
		return DiscountNone
	}
}

// LineItem is one priced member of a bundle.
type LineItem struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

// Discount describes the discount attached to a bundle.
type Discount struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// Summary aggregates computed pricing components.
type Summary struct {
	OriginalTotal     float64 `json:"originalTotal"`
	DiscountedTotal   float64 `json:"discountedTotal"`
	AbsoluteSavings   float64 `json:"absoluteSavings"`
	SavingsPercentage float64 `json:"savingsPercentage"`
}

// Finite reports whether every component fits in a float64. Totals beyond
// that range come back as infinities and cannot be rendered as JSON.
func (s Summary) Finite() bool {
	for _, v := range []float64{s.OriginalTotal, s.DiscountedTotal, s.AbsoluteSavings, s.SavingsPercentage} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

var hundred = decimal.NewFromInt(100)

// Total sums the line item prices.
func Total(items []LineItem) float64 {
	return sum(items).InexactFloat64()
}

// Compute derives the bundle totals. It never fails: descriptors that break
// business bounds still produce numbers, and a fixed discount larger than the
// total floors the discounted price at zero.
func Compute(items []LineItem, d Discount) Summary {
	original := sum(items)
	if original.IsZero() {
		return Summary{}
	}
	value := decimal.NewFromFloat(d.Value)

	discounted := original
	switch d.Type {
	case DiscountPercentage:
		discounted = original.Mul(decimal.NewFromInt(1).Sub(value.Div(hundred)))
	case DiscountFixed:
		discounted = decimal.Max(decimal.Zero, original.Sub(value))
	}
	savings := original.Sub(discounted)

	var pct decimal.Decimal
	if original.IsPositive() {
		pct = savings.Div(original).Mul(hundred)
	}
	return Summary{
		OriginalTotal:     original.InexactFloat64(),
		DiscountedTotal:   discounted.InexactFloat64(),
		AbsoluteSavings:   savings.InexactFloat64(),
		SavingsPercentage: pct.InexactFloat64(),
	}
}

func sum(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price))
	}
	return total
}
