package enums

// DiscountType identifies how a catalog item's discount value is applied.
type DiscountType string

const (
	DiscountTypeNone       DiscountType = "none"
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeAmount     DiscountType = "amount"
)

var validDiscountTypes = []DiscountType{
	DiscountTypeNone,
	DiscountTypePercentage,
	DiscountTypeAmount,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType. Unknown or empty
// input resolves to DiscountTypeNone: upstream catalog rows carry free-form
// discount markers and pricing must still complete.
func ParseDiscountType(value string) DiscountType {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate
		}
	}
	return DiscountTypeNone
}
