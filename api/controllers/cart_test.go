package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/cart"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
)

type stubRemote struct {
	lines    []cart.Line
	fetchErr error
	addErr   error
	adds     int
}

func (s *stubRemote) Fetch(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.lines, nil
}

func (s *stubRemote) Add(ctx context.Context, userID uuid.UUID, line cart.Line) error {
	s.adds++
	return s.addErr
}

func (s *stubRemote) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	return nil
}

func (s *stubRemote) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return nil
}

func (s *stubRemote) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func newTestManager(t *testing.T, remote cart.RemoteCart) *cart.Manager {
	t.Helper()
	manager, err := cart.NewManager(remote)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func TestCartFetchHydratesEmptyCart(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	remote := &stubRemote{lines: []cart.Line{{
		LineID:        uuid.New(),
		ItemID:        uuid.New(),
		VendorID:      uuid.New(),
		Title:         "Atta 5kg",
		Quantity:      2,
		UnitBasePrice: decimal.NewFromInt(450),
	}}}
	manager := newTestManager(t, remote)

	req := authedRequest(http.MethodGet, "/api/v1/cart", nil, userID)
	rec := httptest.NewRecorder()
	CartFetch(manager, &stubSessions{}, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(envelope.Data.Lines) != 1 || envelope.Data.ItemCount != 2 {
		t.Fatalf("unexpected view %+v", envelope.Data)
	}
}

func TestCartFetchInvalidatesRejectedSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	remote := &stubRemote{fetchErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "token rejected")}
	manager := newTestManager(t, remote)
	sessions := &stubSessions{}

	req := authedRequest(http.MethodGet, "/api/v1/cart", nil, userID)
	rec := httptest.NewRecorder()
	CartFetch(manager, sessions, testLogger())(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if len(sessions.invalidated) != 1 || sessions.invalidated[0] != userID {
		t.Fatalf("expected session invalidation, got %v", sessions.invalidated)
	}
}

func TestCartAddItem(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	remote := &stubRemote{}
	manager := newTestManager(t, remote)

	payload := fmt.Sprintf(
		`{"item_id":%q,"vendor_id":%q,"title":"Atta 5kg","base_price":"450","discount_type":"percentage","discount_value":10,"quantity":2}`,
		uuid.New(), uuid.New(),
	)
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(payload), userID)
	rec := httptest.NewRecorder()
	CartAddItem(manager, &stubSessions{}, testLogger())(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if remote.adds != 1 {
		t.Fatalf("expected one remote add, got %d", remote.adds)
	}

	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Data.Total.StringFixed(2) != "810.00" {
		t.Fatalf("unexpected total %s", envelope.Data.Total)
	}
}

func TestCartAddItemRejectsBadPayload(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &stubRemote{})

	req := authedRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"title":"no ids"}`), uuid.New())
	rec := httptest.NewRecorder()
	CartAddItem(manager, &stubSessions{}, testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestCartRequiresIdentity(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &stubRemote{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	CartFetch(manager, &stubSessions{}, testLogger())(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}
