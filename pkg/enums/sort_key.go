package enums

import "fmt"

// SortKey selects the ordering applied to vendor offers and catalog entries.
type SortKey string

const (
	SortKeyNearest    SortKey = "nearest"
	SortKeyFarthest   SortKey = "farthest"
	SortKeyCheapest   SortKey = "cheapest"
	SortKeyExpensive  SortKey = "expensive"
	SortKeyRatingHigh SortKey = "rating_high"
	SortKeyRatingLow  SortKey = "rating_low"
)

var validSortKeys = []SortKey{
	SortKeyNearest,
	SortKeyFarthest,
	SortKeyCheapest,
	SortKeyExpensive,
	SortKeyRatingHigh,
	SortKeyRatingLow,
}

// String implements fmt.Stringer.
func (s SortKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortKey.
func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input into a SortKey.
func ParseSortKey(value string) (SortKey, error) {
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
