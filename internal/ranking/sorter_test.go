package ranking

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/geo"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
)

type stubEntry struct {
	name     string
	distance float64
	price    int64
	rating   *float64
}

func (s stubEntry) SortDistanceKM() float64    { return s.distance }
func (s stubEntry) SortPrice() decimal.Decimal { return decimal.NewFromInt(s.price) }
func (s stubEntry) SortRating() (float64, bool) {
	if s.rating == nil {
		return 0, false
	}
	return *s.rating, true
}

func names(entries []stubEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

func assertOrder(t *testing.T, got []stubEntry, want ...string) {
	t.Helper()
	actual := names(got)
	if len(actual) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", actual, want)
	}
	for i := range want {
		if actual[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v want %v", i, actual, want)
		}
	}
}

func TestSortByDistance(t *testing.T) {
	t.Parallel()

	entries := []stubEntry{
		{name: "a", distance: 5},
		{name: "b", distance: 2},
		{name: "c", distance: 9},
	}

	assertOrder(t, Sort(entries, enums.SortKeyNearest), "b", "a", "c")
	assertOrder(t, Sort(entries, enums.SortKeyFarthest), "c", "a", "b")
}

func TestSortUnknownDistanceAlwaysLast(t *testing.T) {
	t.Parallel()

	entries := []stubEntry{
		{name: "unknown", distance: geo.UnknownDistance},
		{name: "far", distance: 12},
		{name: "near", distance: 1},
	}

	assertOrder(t, Sort(entries, enums.SortKeyNearest), "near", "far", "unknown")
	assertOrder(t, Sort(entries, enums.SortKeyFarthest), "far", "near", "unknown")
}

func TestSortByPrice(t *testing.T) {
	t.Parallel()

	entries := []stubEntry{
		{name: "mid", price: 500},
		{name: "low", price: 120},
		{name: "high", price: 900},
	}

	assertOrder(t, Sort(entries, enums.SortKeyCheapest), "low", "mid", "high")
	assertOrder(t, Sort(entries, enums.SortKeyExpensive), "high", "mid", "low")
}

func TestSortByRatingWithDefault(t *testing.T) {
	t.Parallel()

	rated := func(v float64) *float64 { return &v }
	entries := []stubEntry{
		{name: "top", rating: rated(4.8)},
		{name: "unrated"}, // defaults to 4.0
		{name: "low", rating: rated(3.1)},
	}

	assertOrder(t, Sort(entries, enums.SortKeyRatingHigh), "top", "unrated", "low")
	assertOrder(t, Sort(entries, enums.SortKeyRatingLow), "low", "unrated", "top")
}

func TestSortIsStable(t *testing.T) {
	t.Parallel()

	entries := []stubEntry{
		{name: "first", price: 100, distance: 3},
		{name: "second", price: 100, distance: 3},
		{name: "third", price: 100, distance: 3},
	}

	assertOrder(t, Sort(entries, enums.SortKeyCheapest), "first", "second", "third")
	assertOrder(t, Sort(entries, enums.SortKeyNearest), "first", "second", "third")
	assertOrder(t, Sort(entries, enums.SortKeyRatingHigh), "first", "second", "third")
}

func TestSortDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	entries := []stubEntry{
		{name: "a", distance: 9},
		{name: "b", distance: 1},
	}

	_ = Sort(entries, enums.SortKeyNearest)
	assertOrder(t, entries, "a", "b")
}
