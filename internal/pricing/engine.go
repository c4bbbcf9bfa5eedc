// Package pricing resolves base prices from loosely-typed upstream fields and
// applies per-item discount rules.
package pricing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// ParsePrice extracts a monetary amount from whatever shape the upstream
// catalog serves. Display strings yield their first run of digits, with
// comma grouping tolerated ("Rs. 1,250" -> 1250); numeric values pass
// through; anything without digits resolves to zero. The lossy string parse
// is a compatibility policy with the platform's display-price fields, not a
// formatting bug to fix here.
func ParsePrice(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case float64:
		return decimal.NewFromFloat(v)
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
		return decimal.Zero
	case string:
		return parseDisplayPrice(v)
	default:
		return decimal.Zero
	}
}

func parseDisplayPrice(raw string) decimal.Decimal {
	var digits strings.Builder
	started := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
			started = true
		case r == ',' && started:
			// comma grouping inside the digit run
		default:
			if started {
				if d, err := decimal.NewFromString(digits.String()); err == nil {
					return d
				}
				return decimal.Zero
			}
		}
	}
	if !started {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(digits.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// EffectivePrice applies a discount rule to a base price. Percentage values
// reduce proportionally, amount values subtract, and anything else behaves
// as no discount. The result is floored at zero and rounded to two decimal
// places.
func EffectivePrice(base decimal.Decimal, discountType enums.DiscountType, discountValue float64) decimal.Decimal {
	value := decimal.NewFromFloat(discountValue)

	var result decimal.Decimal
	switch discountType {
	case enums.DiscountTypePercentage:
		result = base.Mul(hundred.Sub(value)).Div(hundred)
	case enums.DiscountTypeAmount:
		result = base.Sub(value)
	default:
		result = base
	}

	if result.IsNegative() {
		result = decimal.Zero
	}
	return result.Round(2)
}
