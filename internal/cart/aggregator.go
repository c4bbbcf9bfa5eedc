// Package cart owns the authoritative local view of a user's cart lines,
// mirrored against the upstream cart service.
package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/catalog"
	"github.com/alihamzakhan/bazaargo-backend/internal/pricing"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
)

// Line is one cart entry. Price and discount terms are snapshotted at
// add-time: catalog changes never silently reprice a line already in the
// cart.
type Line struct {
	LineID        uuid.UUID          `json:"line_id"`
	ItemID        uuid.UUID          `json:"item_id"`
	VendorID      uuid.UUID          `json:"vendor_id"`
	Title         string             `json:"title"`
	ImageURL      string             `json:"image_url,omitempty"`
	Quantity      int                `json:"quantity"`
	UnitBasePrice decimal.Decimal    `json:"unit_base_price"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue float64            `json:"discount_value"`
}

// EffectiveUnitPrice derives the discounted unit price from the line's
// snapshotted terms.
func (l Line) EffectiveUnitPrice() decimal.Decimal {
	return pricing.EffectivePrice(l.UnitBasePrice, l.DiscountType, l.DiscountValue)
}

// Subtotal is the line's effective price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// VendorGroup collects one vendor's lines plus their subtotal.
type VendorGroup struct {
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// RemoteCart mirrors mutations to the upstream cart service. Mutating calls
// are never retried automatically: a failure surfaces to the caller and the
// local state rolls back.
type RemoteCart interface {
	Fetch(ctx context.Context, userID uuid.UUID) ([]Line, error)
	Add(ctx context.Context, userID uuid.UUID, line Line) error
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Aggregator serializes all mutations for one user's cart and keeps the
// local lines consistent with the remote mirror. Every mutation applies
// optimistically, awaits the remote confirmation, and restores the last
// confirmed snapshot when the remote call fails.
type Aggregator struct {
	mu     sync.Mutex
	userID uuid.UUID
	remote RemoteCart
	lines  []Line
}

func newAggregator(userID uuid.UUID, remote RemoteCart) *Aggregator {
	return &Aggregator{userID: userID, remote: remote}
}

// wrapRemote keeps the cause's code when the remote layer already typed it:
// an upstream 401 must still surface as unauthorized so the session gets
// torn down. Untyped failures count as dependency errors.
func wrapRemote(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return pkgerrors.Wrap(typed.Code(), err, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

// Hydrate replaces the local lines with the remote cart contents. Used when
// a session resumes on this instance.
func (a *Aggregator) Hydrate(ctx context.Context) error {
	lines, err := a.remote.Fetch(ctx, a.userID)
	if err != nil {
		return wrapRemote(err, "fetch remote cart")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.lines = lines
	return nil
}

// AddItem merges the catalog item into an existing line for the same item id
// or creates a new line capturing the item's current price and discount
// terms. Quantities below one default to one.
func (a *Aggregator) AddItem(ctx context.Context, item catalog.CatalogItem, quantity int) (Line, error) {
	if item.ID == uuid.Nil {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "catalog item id is required")
	}
	if quantity < 1 {
		quantity = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := a.snapshotLocked()

	if idx := a.indexByItemLocked(item.ID); idx >= 0 {
		a.lines[idx].Quantity += quantity
		line := a.lines[idx]
		if err := a.remote.UpdateQuantity(ctx, a.userID, line.ItemID, line.Quantity); err != nil {
			a.lines = snapshot
			return Line{}, wrapRemote(err, "confirm quantity with remote cart")
		}
		return line, nil
	}

	line := Line{
		LineID:        uuid.New(),
		ItemID:        item.ID,
		VendorID:      item.VendorID,
		Title:         item.Title,
		ImageURL:      item.ImageURL,
		Quantity:      quantity,
		UnitBasePrice: item.BasePrice,
		DiscountType:  item.DiscountType,
		DiscountValue: item.DiscountValue,
	}
	a.lines = append(a.lines, line)

	if err := a.remote.Add(ctx, a.userID, line); err != nil {
		a.lines = snapshot
		return Line{}, wrapRemote(err, "confirm add with remote cart")
	}
	return line, nil
}

// UpdateQuantity mutates a line in place. A target below one removes the
// line instead; that is cart semantics, not an error.
func (a *Aggregator) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return a.RemoveItem(ctx, lineID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexByLineLocked(lineID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	snapshot := a.snapshotLocked()
	a.lines[idx].Quantity = quantity

	if err := a.remote.UpdateQuantity(ctx, a.userID, a.lines[idx].ItemID, quantity); err != nil {
		a.lines = snapshot
		return wrapRemote(err, "confirm quantity with remote cart")
	}
	return nil
}

// RemoveItem deletes a line. Removing an absent line is a no-op.
func (a *Aggregator) RemoveItem(ctx context.Context, lineID uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexByLineLocked(lineID)
	if idx < 0 {
		return nil
	}

	snapshot := a.snapshotLocked()
	itemID := a.lines[idx].ItemID
	a.lines = append(a.lines[:idx:idx], a.lines[idx+1:]...)

	if err := a.remote.Remove(ctx, a.userID, itemID); err != nil {
		a.lines = snapshot
		return wrapRemote(err, "confirm removal with remote cart")
	}
	return nil
}

// Clear empties all lines for the user.
func (a *Aggregator) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := a.snapshotLocked()
	a.lines = nil

	if err := a.remote.Clear(ctx, a.userID); err != nil {
		a.lines = snapshot
		return wrapRemote(err, "confirm clear with remote cart")
	}
	return nil
}

// DropVendorLines removes every line belonging to the vendor without
// touching the remote mirror. The upstream order service consumes the cart
// lines itself on successful submission.
func (a *Aggregator) DropVendorLines(vendorID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.lines[:0]
	for _, line := range a.lines {
		if line.VendorID != vendorID {
			kept = append(kept, line)
		}
	}
	a.lines = kept
}

// Lines returns a copy of the current lines in add order.
func (a *Aggregator) Lines() []Line {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// GroupByVendor partitions the lines per vendor with subtotals. Read-only.
func (a *Aggregator) GroupByVendor() map[uuid.UUID]VendorGroup {
	a.mu.Lock()
	defer a.mu.Unlock()

	groups := make(map[uuid.UUID]VendorGroup)
	for _, line := range a.lines {
		group := groups[line.VendorID]
		group.Lines = append(group.Lines, line)
		group.Subtotal = group.Subtotal.Add(line.Subtotal())
		groups[line.VendorID] = group
	}
	return groups
}

// Total sums the effective subtotal across all vendors.
func (a *Aggregator) Total() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := decimal.Zero
	for _, line := range a.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount sums the quantities across all lines.
func (a *Aggregator) ItemCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := 0
	for _, line := range a.lines {
		count += line.Quantity
	}
	return count
}

func (a *Aggregator) snapshotLocked() []Line {
	snapshot := make([]Line, len(a.lines))
	copy(snapshot, a.lines)
	return snapshot
}

func (a *Aggregator) indexByItemLocked(itemID uuid.UUID) int {
	for i, line := range a.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (a *Aggregator) indexByLineLocked(lineID uuid.UUID) int {
	for i, line := range a.lines {
		if line.LineID == lineID {
			return i
		}
	}
	return -1
}
