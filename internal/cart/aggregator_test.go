package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/catalog"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
)

type stubRemote struct {
	failNext  error
	addCalls  int
	lines     []Line
	fetchErr  error
	clearHits int
}

func (s *stubRemote) take() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *stubRemote) Fetch(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.lines, nil
}

func (s *stubRemote) Add(ctx context.Context, userID uuid.UUID, line Line) error {
	s.addCalls++
	return s.take()
}

func (s *stubRemote) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	return s.take()
}

func (s *stubRemote) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.take()
}

func (s *stubRemote) Clear(ctx context.Context, userID uuid.UUID) error {
	s.clearHits++
	return s.take()
}

func catalogItem(vendorID uuid.UUID, title string, price int64) catalog.CatalogItem {
	return catalog.CatalogItem{
		ID:           uuid.New(),
		Title:        title,
		BasePrice:    decimal.NewFromInt(price),
		VendorID:     vendorID,
		DiscountType: enums.DiscountTypeNone,
	}
}

func newTestAggregator(t *testing.T, remote RemoteCart) *Aggregator {
	t.Helper()
	mgr, err := NewManager(remote)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	agg, err := mgr.ForUser(uuid.New())
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	return agg
}

func TestForUserRequiresAuthentication(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager(&stubRemote{})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	_, err = mgr.ForUser(uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(t, &stubRemote{})
	vendor := uuid.New()
	item := catalogItem(vendor, "Milk", 180)

	if _, err := agg.AddItem(context.Background(), item, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := agg.AddItem(context.Background(), item, 2); err != nil {
		t.Fatalf("add again: %v", err)
	}

	lines := agg.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
}

func TestAddItemSnapshotsPriceTerms(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(t, &stubRemote{})
	item := catalogItem(uuid.New(), "Rice", 280)
	item.DiscountType = enums.DiscountTypePercentage
	item.DiscountValue = 10

	if _, err := agg.AddItem(context.Background(), item, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Catalog reprice after the add must not affect the captured line.
	item.BasePrice = decimal.NewFromInt(999)

	line := agg.Lines()[0]
	if !line.UnitBasePrice.Equal(decimal.NewFromInt(280)) {
		t.Fatalf("expected snapshotted base price 280, got %s", line.UnitBasePrice)
	}
	if line.EffectiveUnitPrice().StringFixed(2) != "252.00" {
		t.Fatalf("expected effective 252.00, got %s", line.EffectiveUnitPrice().StringFixed(2))
	}
}

func TestUpdateQuantityBelowOneRemoves(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(t, &stubRemote{})
	line, err := agg.AddItem(context.Background(), catalogItem(uuid.New(), "Bread", 120), 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := agg.UpdateQuantity(context.Background(), line.LineID, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := len(agg.Lines()); got != 0 {
		t.Fatalf("expected empty cart, got %d lines", got)
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(t, &stubRemote{})
	if err := agg.RemoveItem(context.Background(), uuid.New()); err != nil {
		t.Fatalf("removing a missing line must be a no-op, got %v", err)
	}
}

func TestGroupByVendorSubtotalsMatchTotal(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(t, &stubRemote{})
	v1 := uuid.New()
	v2 := uuid.New()

	if _, err := agg.AddItem(context.Background(), catalogItem(v1, "Milk", 100), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := agg.AddItem(context.Background(), catalogItem(v1, "Eggs", 50), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := agg.AddItem(context.Background(), catalogItem(v2, "Ghee", 200), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	groups := agg.GroupByVendor()
	if len(groups) != 2 {
		t.Fatalf("expected 2 vendor groups, got %d", len(groups))
	}
	if got := groups[v1].Subtotal; !got.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected v1 subtotal 250, got %s", got)
	}
	if got := groups[v2].Subtotal; !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected v2 subtotal 200, got %s", got)
	}

	sum := decimal.Zero
	for _, group := range groups {
		sum = sum.Add(group.Subtotal)
	}
	if total := agg.Total(); !total.Equal(sum) || !total.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("group subtotals %s do not reconcile with total %s", sum, total)
	}

	if count := agg.ItemCount(); count != 4 {
		t.Fatalf("expected item count 4, got %d", count)
	}
}

func TestAddRollsBackWhenRemoteFails(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	agg := newTestAggregator(t, remote)

	remote.failNext = errors.New("upstream 503")
	_, err := agg.AddItem(context.Background(), catalogItem(uuid.New(), "Atta", 1100), 1)
	if err == nil {
		t.Fatal("expected error from failed remote confirmation")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if got := len(agg.Lines()); got != 0 {
		t.Fatalf("expected rollback to empty cart, got %d lines", got)
	}
}

func TestUpdateRollsBackWhenRemoteFails(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	agg := newTestAggregator(t, remote)

	line, err := agg.AddItem(context.Background(), catalogItem(uuid.New(), "Sugar", 150), 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	remote.failNext = errors.New("timeout")
	if err := agg.UpdateQuantity(context.Background(), line.LineID, 5); err == nil {
		t.Fatal("expected error")
	}
	if got := agg.Lines()[0].Quantity; got != 2 {
		t.Fatalf("expected quantity restored to 2, got %d", got)
	}
}

func TestClearRollsBackWhenRemoteFails(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	agg := newTestAggregator(t, remote)

	if _, err := agg.AddItem(context.Background(), catalogItem(uuid.New(), "Salt", 60), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	remote.failNext = errors.New("boom")
	if err := agg.Clear(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := len(agg.Lines()); got != 1 {
		t.Fatalf("expected line restored after failed clear, got %d", got)
	}
}

func TestRemoteRejectionKeepsUnauthorizedCode(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	agg := newTestAggregator(t, remote)

	remote.failNext = pkgerrors.New(pkgerrors.CodeUnauthorized, "token rejected")
	_, err := agg.AddItem(context.Background(), catalogItem(uuid.New(), "Atta", 1100), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized to survive wrapping, got %v", err)
	}
	if got := len(agg.Lines()); got != 0 {
		t.Fatalf("expected rollback, got %d lines", got)
	}

	remote.fetchErr = pkgerrors.New(pkgerrors.CodeUnauthorized, "token rejected")
	err = agg.Hydrate(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized from hydrate, got %v", err)
	}
}

func TestHydrateReplacesLines(t *testing.T) {
	t.Parallel()

	seeded := Line{LineID: uuid.New(), ItemID: uuid.New(), VendorID: uuid.New(), Title: "Daal", Quantity: 2, UnitBasePrice: decimal.NewFromInt(240)}
	remote := &stubRemote{lines: []Line{seeded}}
	agg := newTestAggregator(t, remote)

	if err := agg.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	lines := agg.Lines()
	if len(lines) != 1 || lines[0].Title != "Daal" {
		t.Fatalf("unexpected hydrated lines %+v", lines)
	}
}

func TestDropVendorLines(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(t, &stubRemote{})
	v1 := uuid.New()
	v2 := uuid.New()

	if _, err := agg.AddItem(context.Background(), catalogItem(v1, "Milk", 100), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := agg.AddItem(context.Background(), catalogItem(v2, "Ghee", 200), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	agg.DropVendorLines(v1)
	lines := agg.Lines()
	if len(lines) != 1 || lines[0].VendorID != v2 {
		t.Fatalf("expected only v2 lines to remain, got %+v", lines)
	}
}

func TestManagerTeardownDiscardsState(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager(&stubRemote{})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	userID := uuid.New()

	agg, err := mgr.ForUser(userID)
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if _, err := agg.AddItem(context.Background(), catalogItem(uuid.New(), "Milk", 100), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	mgr.Teardown(userID)

	fresh, err := mgr.ForUser(userID)
	if err != nil {
		t.Fatalf("for user after teardown: %v", err)
	}
	if got := len(fresh.Lines()); got != 0 {
		t.Fatalf("expected fresh aggregator after teardown, got %d lines", got)
	}
}
