// Package packs quotes named ration lists across vendors and keeps the
// user's saved lists.
package packs

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/alihamzakhan/bazaargo-backend/internal/catalog"
	"github.com/alihamzakhan/bazaargo-backend/internal/geo"
	"github.com/alihamzakhan/bazaargo-backend/internal/matching"
	"github.com/alihamzakhan/bazaargo-backend/internal/pricing"
	"github.com/alihamzakhan/bazaargo-backend/internal/ranking"
	"github.com/alihamzakhan/bazaargo-backend/pkg/config"
	"github.com/alihamzakhan/bazaargo-backend/pkg/db/models"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/types"
	"github.com/alihamzakhan/bazaargo-backend/pkg/upstream"
)

// platformPacks is the slice of the upstream client the service needs. The
// vendor listing backs the local matching fallback when the pack endpoint
// is down.
type platformPacks interface {
	QueryPacks(ctx context.Context, token string, q upstream.PackQuery) ([]upstream.PackOffer, error)
	ListVendors(ctx context.Context, token string, q upstream.VendorQuery) ([]upstream.Vendor, error)
}

// tokenSource resolves the platform bearer token for a user session.
type tokenSource interface {
	Token(ctx context.Context, userID uuid.UUID) (string, error)
}

// packStore is the persistence surface for saved packs.
type packStore interface {
	Save(ctx context.Context, userID uuid.UUID, name string, itemNames []string) (models.SavedPack, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.SavedPack, error)
	Get(ctx context.Context, userID, packID uuid.UUID) (models.SavedPack, error)
	Delete(ctx context.Context, userID, packID uuid.UUID) error
}

// QuoteInput asks for per-vendor quotes on a named item list.
type QuoteInput struct {
	ItemNames []string
	Center    *types.Coordinate
	RadiusKM  float64
	SortKey   enums.SortKey
}

// Service exposes pack quoting and saved pack management.
type Service interface {
	Quote(ctx context.Context, userID uuid.UUID, input QuoteInput) ([]matching.VendorOffer, error)
	SavePack(ctx context.Context, userID uuid.UUID, name string, itemNames []string) (models.SavedPack, error)
	ListPacks(ctx context.Context, userID uuid.UUID) ([]models.SavedPack, error)
	DeletePack(ctx context.Context, userID, packID uuid.UUID) error
	QuoteSaved(ctx context.Context, userID, packID uuid.UUID, input QuoteInput) ([]matching.VendorOffer, error)
}

type service struct {
	platform platformPacks
	tokens   tokenSource
	store    packStore
	cfg      config.SearchConfig
	logger   *logger.Logger
}

// NewService builds the packs service.
func NewService(platform platformPacks, tokens tokenSource, store packStore, cfg config.SearchConfig, logg *logger.Logger) (Service, error) {
	if platform == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "platform client required")
	}
	if tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "token source required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pack store required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		platform: platform,
		tokens:   tokens,
		store:    store,
		cfg:      cfg,
		logger:   logg,
	}, nil
}

// Quote fetches the platform's per-vendor quotes, restores full item
// cardinality over each offer, attaches distances, and ranks the result.
// The platform omits items a vendor does not stock, so every offer goes
// through the completeness pass before it reaches a client.
func (s *service) Quote(ctx context.Context, userID uuid.UUID, input QuoteInput) ([]matching.VendorOffer, error) {
	if len(input.ItemNames) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item names are required")
	}
	input.RadiusKM = s.clampRadius(input.RadiusKM)
	if !input.SortKey.IsValid() {
		input.SortKey = enums.SortKeyCheapest
	}

	token, err := s.tokens.Token(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := upstream.PackQuery{
		ItemNames: input.ItemNames,
		RadiusKM:  input.RadiusKM,
		SortBy:    input.SortKey.String(),
	}
	if input.Center != nil {
		lat, lng := input.Center.Lat, input.Center.Lng
		query.Latitude = &lat
		query.Longitude = &lng
	}

	remote, err := s.platform.QueryPacks(ctx, token, query)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeDependency {
			return nil, err
		}
		s.logger.Warn(ctx, "pack endpoint unavailable, matching against the vendor listing")
		return s.quoteFromListing(ctx, token, input)
	}

	offers := make([]matching.VendorOffer, 0, len(remote))
	for _, ro := range remote {
		offer := fromPackOffer(ro)
		offer = matching.Complete(input.ItemNames, offer)
		offer.DistanceKM = geo.DistanceOrUnknown(input.Center, offer.Vendor.Location)
		offers = append(offers, offer)
	}

	return ranking.Sort(offers, input.SortKey), nil
}

// quoteFromListing matches the requested names against the vendor listing
// locally. Quality is the same for exact titles; the platform's server-side
// matching only adds its own ranking hints, which the sorter reapplies here.
func (s *service) quoteFromListing(ctx context.Context, token string, input QuoteInput) ([]matching.VendorOffer, error) {
	query := upstream.VendorQuery{RadiusKM: input.RadiusKM}
	if input.Center != nil {
		lat, lng := input.Center.Lat, input.Center.Lng
		query.Latitude = &lat
		query.Longitude = &lng
	}

	remote, err := s.platform.ListVendors(ctx, token, query)
	if err != nil {
		return nil, err
	}

	vendors := make([]catalog.Vendor, 0, len(remote))
	for _, rv := range remote {
		vendors = append(vendors, catalog.FromUpstream(rv))
	}

	offers := matching.Match(input.ItemNames, vendors)
	for i := range offers {
		offers[i].DistanceKM = geo.DistanceOrUnknown(input.Center, offers[i].Vendor.Location)
	}
	return ranking.Sort(offers, input.SortKey), nil
}

// SavePack persists a named item list for later requoting.
func (s *service) SavePack(ctx context.Context, userID uuid.UUID, name string, itemNames []string) (models.SavedPack, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.SavedPack{}, pkgerrors.New(pkgerrors.CodeValidation, "pack name is required")
	}

	cleaned := make([]string, 0, len(itemNames))
	for _, item := range itemNames {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return models.SavedPack{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one item name is required")
	}

	return s.store.Save(ctx, userID, name, cleaned)
}

// ListPacks returns the user's saved packs.
func (s *service) ListPacks(ctx context.Context, userID uuid.UUID) ([]models.SavedPack, error) {
	return s.store.List(ctx, userID)
}

// DeletePack removes a saved pack.
func (s *service) DeletePack(ctx context.Context, userID, packID uuid.UUID) error {
	if packID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pack id is required")
	}
	return s.store.Delete(ctx, userID, packID)
}

// QuoteSaved requotes a stored pack with fresh prices and availability.
func (s *service) QuoteSaved(ctx context.Context, userID, packID uuid.UUID, input QuoteInput) ([]matching.VendorOffer, error) {
	pack, err := s.store.Get(ctx, userID, packID)
	if err != nil {
		return nil, err
	}
	input.ItemNames = []string(pack.ItemNames)
	return s.Quote(ctx, userID, input)
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

// fromPackOffer resolves the platform's loosely typed pack quote. Every row
// the platform sends is stocked by definition; missing rows are restored by
// the completeness pass.
func fromPackOffer(ro upstream.PackOffer) matching.VendorOffer {
	items := make([]matching.MatchedItem, 0, len(ro.Items))
	for _, item := range ro.Items {
		items = append(items, matching.MatchedItem{
			RequestedName:  item.Title,
			ItemID:         item.ItemID,
			Title:          item.Title,
			ImageURL:       item.ImageURL,
			EffectivePrice: pricing.ParsePrice(item.Price),
			Available:      true,
		})
	}
	return matching.VendorOffer{
		Vendor:     catalog.FromUpstream(ro.Vendor),
		Items:      items,
		TotalPrice: pricing.ParsePrice(ro.TotalPrice),
	}
}
