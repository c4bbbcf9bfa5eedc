package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/catalog"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
)

func testVendor(name string, items ...catalog.CatalogItem) catalog.Vendor {
	id := uuid.New()
	for i := range items {
		items[i].VendorID = id
	}
	return catalog.Vendor{ID: id, Name: name, Catalog: items}
}

func item(title string, price int64) catalog.CatalogItem {
	return catalog.CatalogItem{
		ID:           uuid.New(),
		Title:        title,
		BasePrice:    decimal.NewFromInt(price),
		DiscountType: enums.DiscountTypeNone,
	}
}

func TestMatchCaseInsensitiveWithPlaceholder(t *testing.T) {
	t.Parallel()

	vendor := testVendor("Madina Mart", item("milk", 180))

	offers := Match([]string{"Milk", "Bread"}, []catalog.Vendor{vendor})
	if len(offers) != 1 {
		t.Fatalf("expected one offer, got %d", len(offers))
	}

	offer := offers[0]
	if len(offer.Items) != 2 {
		t.Fatalf("expected 2 matched entries, got %d", len(offer.Items))
	}

	milk := offer.Items[0]
	if !milk.Available || milk.ItemID == uuid.Nil || !milk.EffectivePrice.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("unexpected milk row: %+v", milk)
	}

	bread := offer.Items[1]
	if bread.Available || bread.ItemID != uuid.Nil || !bread.EffectivePrice.IsZero() {
		t.Fatalf("expected unavailable placeholder for bread, got %+v", bread)
	}

	if !offer.TotalPrice.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected total 180, got %s", offer.TotalPrice)
	}
}

func TestMatchCardinalityInvariant(t *testing.T) {
	t.Parallel()

	requested := []string{"Milk", "Bread", "Eggs", "Rice"}
	vendors := []catalog.Vendor{
		testVendor("Full Coverage", item("Milk", 180), item("Bread", 120), item("Eggs", 350), item("Rice", 280)),
		testVendor("Partial", item("milk", 175)),
		testVendor("Empty"),
	}

	for _, offer := range Match(requested, vendors) {
		if len(offer.Items) != len(requested) {
			t.Fatalf("vendor %s: expected %d entries, got %d", offer.Vendor.Name, len(requested), len(offer.Items))
		}
	}
}

func TestMatchNoFuzzyMatching(t *testing.T) {
	t.Parallel()

	vendor := testVendor("Strict", item("Whole Milk", 200))

	offer := Match([]string{"Milk"}, []catalog.Vendor{vendor})[0]
	if offer.Items[0].Available {
		t.Fatal("substring titles must not match")
	}
}

func TestMatchAppliesDiscounts(t *testing.T) {
	t.Parallel()

	discounted := item("Sugar", 1000)
	discounted.DiscountType = enums.DiscountTypePercentage
	discounted.DiscountValue = 20
	vendor := testVendor("Discounter", discounted)

	offer := Match([]string{"Sugar"}, []catalog.Vendor{vendor})[0]
	if offer.Items[0].EffectivePrice.StringFixed(2) != "800.00" {
		t.Fatalf("expected 800.00, got %s", offer.Items[0].EffectivePrice.StringFixed(2))
	}
}

func TestMatchZeroCoverageVendorStillOffered(t *testing.T) {
	t.Parallel()

	offer := Match([]string{"Milk", "Bread"}, []catalog.Vendor{testVendor("Empty")})[0]
	if !offer.TotalPrice.IsZero() {
		t.Fatalf("expected zero total, got %s", offer.TotalPrice)
	}
	for _, row := range offer.Items {
		if row.Available {
			t.Fatalf("expected all rows unavailable, got %+v", row)
		}
	}
}

func TestCompleteRestoresOmittedNames(t *testing.T) {
	t.Parallel()

	// Server response carries only the items the vendor stocks.
	server := VendorOffer{
		Vendor: catalog.Vendor{ID: uuid.New(), Name: "Server Pack"},
		Items: []MatchedItem{
			{Title: "milk", ItemID: uuid.New(), EffectivePrice: decimal.NewFromInt(170), Available: true},
		},
		TotalPrice: decimal.NewFromInt(170),
	}

	got := Complete([]string{"Milk", "Bread"}, server)
	if len(got.Items) != 2 {
		t.Fatalf("expected full cardinality, got %d rows", len(got.Items))
	}
	if !got.Items[0].Available || got.Items[0].RequestedName != "Milk" {
		t.Fatalf("unexpected first row %+v", got.Items[0])
	}
	if got.Items[1].Available || got.Items[1].RequestedName != "Bread" {
		t.Fatalf("expected placeholder for bread, got %+v", got.Items[1])
	}
	if !got.TotalPrice.Equal(decimal.NewFromInt(170)) {
		t.Fatalf("expected recomputed total 170, got %s", got.TotalPrice)
	}
}

func TestMatchDedupesRequestedNames(t *testing.T) {
	t.Parallel()

	vendor := testVendor("Mart", item("Milk", 180))
	offer := Match([]string{"Milk", "milk", " MILK "}, []catalog.Vendor{vendor})[0]
	if len(offer.Items) != 1 {
		t.Fatalf("expected deduped request set, got %d rows", len(offer.Items))
	}
}
