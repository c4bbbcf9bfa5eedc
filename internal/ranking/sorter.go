// Package ranking orders vendor offers and catalog entries for display.
package ranking

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/geo"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
)

// DefaultRating stands in for vendors the platform has not rated yet.
const DefaultRating = 4.0

// Entry is the sortable surface shared by vendor offers and catalog views.
// Entries with an unknown position report the sentinel maximum distance, so
// they land last under both distance orderings.
type Entry interface {
	SortDistanceKM() float64
	SortPrice() decimal.Decimal
	SortRating() (value float64, ok bool)
}

// Sort returns the entries ordered by the given key. The sort is stable:
// equal keys keep their input order, which pagination and tests rely on.
// Unknown keys leave the input order untouched.
func Sort[T Entry](entries []T, key enums.SortKey) []T {
	out := make([]T, len(entries))
	copy(out, entries)

	switch key {
	case enums.SortKeyNearest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SortDistanceKM() < out[j].SortDistanceKM()
		})
	case enums.SortKeyFarthest:
		sort.SliceStable(out, func(i, j int) bool {
			di, dj := out[i].SortDistanceKM(), out[j].SortDistanceKM()
			// Sentinel distances stay last even when sorting descending.
			if isUnknown(di) != isUnknown(dj) {
				return isUnknown(dj)
			}
			return di > dj
		})
	case enums.SortKeyCheapest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SortPrice().LessThan(out[j].SortPrice())
		})
	case enums.SortKeyExpensive:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SortPrice().GreaterThan(out[j].SortPrice())
		})
	case enums.SortKeyRatingHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return ratingOf(out[i]) > ratingOf(out[j])
		})
	case enums.SortKeyRatingLow:
		sort.SliceStable(out, func(i, j int) bool {
			return ratingOf(out[i]) < ratingOf(out[j])
		})
	}

	return out
}

func isUnknown(distance float64) bool {
	return distance >= geo.UnknownDistance
}

func ratingOf(e Entry) float64 {
	if value, ok := e.SortRating(); ok {
		return value
	}
	return DefaultRating
}
