// Package catalog exposes location-aware vendor browsing over the upstream
// catalog, with derived distance and price views.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/geo"
	"github.com/alihamzakhan/bazaargo-backend/internal/pricing"
	"github.com/alihamzakhan/bazaargo-backend/internal/ranking"
	"github.com/alihamzakhan/bazaargo-backend/pkg/config"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/types"
	"github.com/alihamzakhan/bazaargo-backend/pkg/upstream"
)

// platformCatalog is the slice of the upstream client the service needs.
type platformCatalog interface {
	ListVendors(ctx context.Context, token string, q upstream.VendorQuery) ([]upstream.Vendor, error)
}

// tokenSource resolves the platform bearer token for a user session.
type tokenSource interface {
	Token(ctx context.Context, userID uuid.UUID) (string, error)
}

// listingCache is the narrow cache surface for vendor listings. Failures are
// tolerated: a broken cache degrades to upstream fetches, never to errors.
type listingCache interface {
	ListingKey(parts ...string) string
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// SearchInput narrows a vendor search around the user's position.
type SearchInput struct {
	Center   *types.Coordinate
	RadiusKM float64
	Category string
	Query    string
	SortKey  enums.SortKey
}

// Service exposes catalog browsing.
type Service interface {
	Search(ctx context.Context, userID uuid.UUID, input SearchInput) ([]VendorView, error)
}

type service struct {
	platform platformCatalog
	tokens   tokenSource
	cache    listingCache
	cfg      config.SearchConfig
	logger   *logger.Logger
}

// NewService builds the catalog service. The cache is optional.
func NewService(platform platformCatalog, tokens tokenSource, cache listingCache, cfg config.SearchConfig, logg *logger.Logger) (Service, error) {
	if platform == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "platform client required")
	}
	if tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "token source required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		platform: platform,
		tokens:   tokens,
		cache:    cache,
		cfg:      cfg,
		logger:   logg,
	}, nil
}

// Search fetches the vendor listing, attaches computed views, and ranks the
// result. Distance and effective prices are derived per request from the
// caller's position; they are never stored on the snapshot.
func (s *service) Search(ctx context.Context, userID uuid.UUID, input SearchInput) ([]VendorView, error) {
	input.RadiusKM = s.clampRadius(input.RadiusKM)
	if !input.SortKey.IsValid() {
		input.SortKey = enums.SortKeyNearest
	}

	vendors, err := s.listVendors(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	views := make([]VendorView, 0, len(vendors))
	for _, vendor := range vendors {
		view := buildView(vendor, input.Center)
		if view.DistanceKM != geo.UnknownDistance && view.DistanceKM > input.RadiusKM {
			continue
		}
		views = append(views, view)
	}

	return ranking.Sort(views, input.SortKey), nil
}

func (s *service) clampRadius(radius float64) float64 {
	if radius <= 0 {
		return s.cfg.DefaultRadiusKM
	}
	if s.cfg.MaxRadiusKM > 0 && radius > s.cfg.MaxRadiusKM {
		return s.cfg.MaxRadiusKM
	}
	return radius
}

func (s *service) listVendors(ctx context.Context, userID uuid.UUID, input SearchInput) ([]Vendor, error) {
	var key string
	if s.cache != nil {
		key = s.cache.ListingKey(searchFingerprint(input))
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
			var vendors []Vendor
			if err := json.Unmarshal([]byte(cached), &vendors); err == nil {
				return vendors, nil
			}
		}
	}

	token, err := s.tokens.Token(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := upstream.VendorQuery{
		RadiusKM: input.RadiusKM,
		Category: input.Category,
		Search:   input.Query,
		SortHint: input.SortKey.String(),
	}
	if input.Center != nil {
		lat, lng := input.Center.Lat, input.Center.Lng
		query.Latitude = &lat
		query.Longitude = &lng
	}

	remote, err := s.platform.ListVendors(ctx, token, query)
	if err != nil {
		return nil, err
	}

	vendors := make([]Vendor, 0, len(remote))
	for _, rv := range remote {
		vendors = append(vendors, FromUpstream(rv))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(vendors); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.cfg.CacheTTL); err != nil {
				s.logger.Warn(ctx, "vendor listing cache write failed")
			}
		}
	}

	return vendors, nil
}

// searchFingerprint buckets the center to ~100m so nearby searchers share
// cache entries. The cache prepends its own namespace.
func searchFingerprint(input SearchInput) string {
	lat, lng := 0.0, 0.0
	if input.Center != nil {
		lat, lng = input.Center.Lat, input.Center.Lng
	}
	return fmt.Sprintf("%.3f:%.3f:%.1f:%s:%s",
		lat, lng, input.RadiusKM,
		strings.ToLower(strings.TrimSpace(input.Category)),
		strings.ToLower(strings.TrimSpace(input.Query)),
	)
}

// FromUpstream resolves the platform's loosely typed vendor payload into the
// domain snapshot. Price fields go through the price parser; absent
// coordinates stay nil so distance degrades to the sentinel.
func FromUpstream(rv upstream.Vendor) Vendor {
	vendor := Vendor{
		ID:     rv.ID,
		Name:   rv.Name,
		Rating: rv.Rating,
	}
	if rv.Latitude != nil && rv.Longitude != nil {
		vendor.Location = &types.Coordinate{Lat: *rv.Latitude, Lng: *rv.Longitude}
	}

	vendor.Catalog = make([]CatalogItem, 0, len(rv.Products))
	for _, product := range rv.Products {
		vendor.Catalog = append(vendor.Catalog, CatalogItem{
			ID:            product.ID,
			Title:         product.Title,
			BasePrice:     pricing.ParsePrice(product.Price),
			ImageURL:      product.ImageURL,
			VendorID:      rv.ID,
			DiscountType:  enums.ParseDiscountType(product.DiscountType),
			DiscountValue: product.DiscountValue,
		})
	}
	return vendor
}

// buildView attaches the computed distance and per-item effective prices.
func buildView(vendor Vendor, center *types.Coordinate) VendorView {
	view := VendorView{
		Vendor:     vendor,
		DistanceKM: geo.DistanceOrUnknown(center, vendor.Location),
		Items:      make([]ItemView, 0, len(vendor.Catalog)),
	}

	minPrice := decimal.Zero
	for i, item := range vendor.Catalog {
		effective := pricing.EffectivePrice(item.BasePrice, item.DiscountType, item.DiscountValue)
		view.Items = append(view.Items, ItemView{CatalogItem: item, EffectivePrice: effective})
		if i == 0 || effective.LessThan(minPrice) {
			minPrice = effective
		}
	}
	view.MinPrice = minPrice
	return view
}
