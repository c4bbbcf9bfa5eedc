package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/pricing"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/upstream"
)

// TokenSource resolves the platform bearer token for a user session.
type TokenSource interface {
	Token(ctx context.Context, userID uuid.UUID) (string, error)
}

// platformClient is the slice of the upstream client the mirror needs.
type platformClient interface {
	FetchCart(ctx context.Context, token string) ([]upstream.CartLine, error)
	AddCartItem(ctx context.Context, token string, item upstream.CartItemInput) error
	UpdateCartItem(ctx context.Context, token string, itemID uuid.UUID, quantity int) error
	RemoveCartItem(ctx context.Context, token string, itemID uuid.UUID) error
	ClearCart(ctx context.Context, token string) error
}

// PlatformRemote mirrors cart mutations to the grocery platform, resolving
// the bearer token per call so an expired session fails fast.
type PlatformRemote struct {
	client platformClient
	tokens TokenSource
}

// NewPlatformRemote wires the upstream client as the cart's remote mirror.
func NewPlatformRemote(client platformClient, tokens TokenSource) (*PlatformRemote, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "upstream client required")
	}
	if tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "token source required")
	}
	return &PlatformRemote{client: client, tokens: tokens}, nil
}

// Fetch pulls the platform cart and maps it to local lines. Price fields
// arrive loosely typed and are resolved through the price parser.
func (r *PlatformRemote) Fetch(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	token, err := r.tokens.Token(ctx, userID)
	if err != nil {
		return nil, err
	}

	remote, err := r.client.FetchCart(ctx, token)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(remote))
	for _, rl := range remote {
		lines = append(lines, Line{
			LineID:        rl.LineID,
			ItemID:        rl.ItemID,
			VendorID:      rl.VendorID,
			Title:         rl.Title,
			ImageURL:      rl.ImageURL,
			Quantity:      rl.Quantity,
			UnitBasePrice: parseUnitPrice(rl.UnitPrice),
			DiscountType:  enums.ParseDiscountType(rl.DiscountType),
			DiscountValue: rl.DiscountValue,
		})
	}
	return lines, nil
}

// parseUnitPrice prefers the exact decimal string the mirror itself writes
// on Add, so fractional prices survive the round trip. Display strings from
// other surfaces fall back to the loose parser.
func parseUnitPrice(raw any) decimal.Decimal {
	if s, ok := raw.(string); ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
			return d
		}
	}
	return pricing.ParsePrice(raw)
}

// Add pushes a new line to the platform cart.
func (r *PlatformRemote) Add(ctx context.Context, userID uuid.UUID, line Line) error {
	token, err := r.tokens.Token(ctx, userID)
	if err != nil {
		return err
	}
	return r.client.AddCartItem(ctx, token, upstream.CartItemInput{
		ItemID:        line.ItemID,
		VendorID:      line.VendorID,
		Title:         line.Title,
		ImageURL:      line.ImageURL,
		Quantity:      line.Quantity,
		UnitPrice:     line.UnitBasePrice.String(),
		DiscountType:  line.DiscountType.String(),
		DiscountValue: line.DiscountValue,
	})
}

// UpdateQuantity sets a line's quantity on the platform cart.
func (r *PlatformRemote) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	token, err := r.tokens.Token(ctx, userID)
	if err != nil {
		return err
	}
	return r.client.UpdateCartItem(ctx, token, itemID, quantity)
}

// Remove deletes a line from the platform cart.
func (r *PlatformRemote) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	token, err := r.tokens.Token(ctx, userID)
	if err != nil {
		return err
	}
	return r.client.RemoveCartItem(ctx, token, itemID)
}

// Clear empties the platform cart.
func (r *PlatformRemote) Clear(ctx context.Context, userID uuid.UUID) error {
	token, err := r.tokens.Token(ctx, userID)
	if err != nil {
		return err
	}
	return r.client.ClearCart(ctx, token)
}
