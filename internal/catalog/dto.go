package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	"github.com/alihamzakhan/bazaargo-backend/pkg/types"
)

// CatalogItem is a product as sold by a specific vendor, snapshotted from the
// upstream catalog. BasePrice is already resolved from the platform's display
// string; the effective price is always derived, never stored.
type CatalogItem struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	BasePrice     decimal.Decimal    `json:"base_price"`
	ImageURL      string             `json:"image_url,omitempty"`
	VendorID      uuid.UUID          `json:"vendor_id"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue float64            `json:"discount_value"`
}

// Vendor is a store with a location and a product catalog. Distance and
// effective prices are computed views over this snapshot and must be
// recomputed whenever the user position or catalog changes.
type Vendor struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Location *types.Coordinate `json:"location,omitempty"`
	Rating   *float64          `json:"rating,omitempty"`
	Catalog  []CatalogItem     `json:"catalog"`
}

// ItemView pairs a catalog item with its derived effective price.
type ItemView struct {
	CatalogItem
	EffectivePrice decimal.Decimal `json:"effective_price"`
}

// VendorView is a vendor annotated with the computed views the storefront
// renders: distance from the user position and per-item effective prices.
type VendorView struct {
	Vendor     Vendor          `json:"vendor"`
	DistanceKM float64         `json:"distance_km"`
	Items      []ItemView      `json:"items"`
	MinPrice   decimal.Decimal `json:"min_price"`
}

// SortDistanceKM implements ranking.Entry.
func (v VendorView) SortDistanceKM() float64 { return v.DistanceKM }

// SortPrice implements ranking.Entry.
func (v VendorView) SortPrice() decimal.Decimal { return v.MinPrice }

// SortRating implements ranking.Entry.
func (v VendorView) SortRating() (float64, bool) {
	if v.Vendor.Rating == nil {
		return 0, false
	}
	return *v.Vendor.Rating, true
}
