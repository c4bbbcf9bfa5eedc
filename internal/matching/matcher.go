// Package matching pairs a requested list of item names with vendor catalogs
// and produces per-vendor offers.
package matching

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/catalog"
	"github.com/alihamzakhan/bazaargo-backend/internal/pricing"
)

// MatchedItem is one row of a vendor offer. Unavailable rows are
// placeholders: zero price, no identifiers, only the requested name.
type MatchedItem struct {
	RequestedName  string          `json:"requested_name"`
	ItemID         uuid.UUID       `json:"item_id,omitempty"`
	Title          string          `json:"title,omitempty"`
	ImageURL       string          `json:"image_url,omitempty"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Available      bool            `json:"available"`
}

// VendorOffer is the query-scoped result of matching a requested item list
// against one vendor. Items always covers the full requested set, one entry
// per name, so callers can render missing rows without special-casing.
type VendorOffer struct {
	Vendor     catalog.Vendor  `json:"vendor"`
	DistanceKM float64         `json:"distance_km"`
	Items      []MatchedItem   `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// SortDistanceKM implements ranking.Entry.
func (o VendorOffer) SortDistanceKM() float64 { return o.DistanceKM }

// SortPrice implements ranking.Entry.
func (o VendorOffer) SortPrice() decimal.Decimal { return o.TotalPrice }

// SortRating implements ranking.Entry.
func (o VendorOffer) SortRating() (float64, bool) {
	if o.Vendor.Rating == nil {
		return 0, false
	}
	return *o.Vendor.Rating, true
}

// Match builds one offer per vendor for the requested item names. Matching
// is a case-insensitive exact comparison against catalog titles; no fuzzy or
// substring matching. Vendors with zero coverage still yield an offer so the
// caller decides whether to show them.
func Match(requestedNames []string, vendors []catalog.Vendor) []VendorOffer {
	names := normalizeNames(requestedNames)

	offers := make([]VendorOffer, 0, len(vendors))
	for _, vendor := range vendors {
		offers = append(offers, matchVendor(names, vendor))
	}
	return offers
}

func matchVendor(names []string, vendor catalog.Vendor) VendorOffer {
	byTitle := make(map[string]catalog.CatalogItem, len(vendor.Catalog))
	for _, item := range vendor.Catalog {
		key := strings.ToLower(strings.TrimSpace(item.Title))
		if _, exists := byTitle[key]; !exists {
			byTitle[key] = item
		}
	}

	items := make([]MatchedItem, 0, len(names))
	total := decimal.Zero
	for _, name := range names {
		item, ok := byTitle[strings.ToLower(name)]
		if !ok {
			items = append(items, MatchedItem{RequestedName: name})
			continue
		}
		price := pricing.EffectivePrice(item.BasePrice, item.DiscountType, item.DiscountValue)
		items = append(items, MatchedItem{
			RequestedName:  name,
			ItemID:         item.ID,
			Title:          item.Title,
			ImageURL:       item.ImageURL,
			EffectivePrice: price,
			Available:      true,
		})
		total = total.Add(price)
	}

	return VendorOffer{
		Vendor:     vendor,
		Items:      items,
		TotalPrice: total,
	}
}

// Complete normalizes a server-computed offer to full requested-name
// cardinality. The platform's pack endpoint omits uncarried items instead of
// flagging them unavailable, so a second pass re-establishes the invariant
// that every offer has exactly one row per requested name. TotalPrice is
// recomputed from the rows that survive.
func Complete(requestedNames []string, offer VendorOffer) VendorOffer {
	names := normalizeNames(requestedNames)

	byName := make(map[string]MatchedItem, len(offer.Items))
	for _, item := range offer.Items {
		for _, key := range []string{item.RequestedName, item.Title} {
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				continue
			}
			if _, exists := byName[key]; !exists {
				byName[key] = item
			}
		}
	}

	items := make([]MatchedItem, 0, len(names))
	total := decimal.Zero
	for _, name := range names {
		item, ok := byName[strings.ToLower(name)]
		if !ok || !item.Available {
			items = append(items, MatchedItem{RequestedName: name})
			continue
		}
		item.RequestedName = name
		items = append(items, item)
		total = total.Add(item.EffectivePrice)
	}

	offer.Items = items
	offer.TotalPrice = total
	return offer
}

func normalizeNames(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, trimmed)
	}
	return names
}
