package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/cart"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/types"
)

func testLine(vendorID uuid.UUID, title string, price int64, qty int) cart.Line {
	return cart.Line{
		LineID:        uuid.New(),
		ItemID:        uuid.New(),
		VendorID:      vendorID,
		Title:         title,
		Quantity:      qty,
		UnitBasePrice: decimal.NewFromInt(price),
		DiscountType:  enums.DiscountTypeNone,
	}
}

func testAddress() types.DeliveryAddress {
	return types.DeliveryAddress{
		Text:     "House 12, Street 4, Karachi",
		Location: &types.Coordinate{Lat: 24.86, Lng: 67.01},
	}
}

func TestAssembleTotals(t *testing.T) {
	t.Parallel()

	vendor := uuid.New()
	lines := []cart.Line{
		testLine(vendor, "Milk", 100, 2),
		testLine(vendor, "Eggs", 50, 1),
	}

	payload, err := Assemble(lines, testAddress(), "0300-1234567", enums.PaymentMethodCashOnDelivery, decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if !payload.Subtotal.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected subtotal 250, got %s", payload.Subtotal)
	}
	if !payload.Total.Equal(decimal.NewFromInt(290)) {
		t.Fatalf("expected total 290, got %s", payload.Total)
	}
	if payload.VendorID != vendor || len(payload.Lines) != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestAssembleEmptySelection(t *testing.T) {
	t.Parallel()

	_, err := Assemble(nil, testAddress(), "0300-1234567", enums.PaymentMethodCard, decimal.NewFromInt(40))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation || typed.Message() != "empty selection" {
		t.Fatalf("expected empty selection validation, got %v", err)
	}
}

func TestAssembleMissingDeliveryLocation(t *testing.T) {
	t.Parallel()

	lines := []cart.Line{testLine(uuid.New(), "Milk", 100, 1)}
	_, err := Assemble(lines, types.DeliveryAddress{}, "0300-1234567", enums.PaymentMethodCard, decimal.NewFromInt(40))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation || typed.Message() != "delivery location required" {
		t.Fatalf("expected delivery location validation, got %v", err)
	}
}

func TestAssembleMixedVendorsRejected(t *testing.T) {
	t.Parallel()

	lines := []cart.Line{
		testLine(uuid.New(), "Milk", 100, 1),
		testLine(uuid.New(), "Ghee", 200, 1),
	}
	_, err := Assemble(lines, testAddress(), "0300-1234567", enums.PaymentMethodCard, decimal.NewFromInt(40))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssembleUsesDiscountedPrices(t *testing.T) {
	t.Parallel()

	vendor := uuid.New()
	line := testLine(vendor, "Sugar", 1000, 1)
	line.DiscountType = enums.DiscountTypePercentage
	line.DiscountValue = 20

	payload, err := Assemble([]cart.Line{line}, testAddress(), "0300-1234567", enums.PaymentMethodWallet, decimal.Zero)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if payload.Subtotal.StringFixed(2) != "800.00" {
		t.Fatalf("expected discounted subtotal 800.00, got %s", payload.Subtotal.StringFixed(2))
	}
	if !payload.Total.Equal(payload.Subtotal) {
		t.Fatalf("zero fee must leave total equal to subtotal, got %s", payload.Total)
	}
}

func TestAssembleInvalidPaymentMethodDefaultsToCash(t *testing.T) {
	t.Parallel()

	lines := []cart.Line{testLine(uuid.New(), "Milk", 100, 1)}
	payload, err := Assemble(lines, testAddress(), "0300-1234567", enums.PaymentMethod("bitcoin"), decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if payload.PaymentMethod != enums.PaymentMethodCashOnDelivery {
		t.Fatalf("expected cash on delivery fallback, got %s", payload.PaymentMethod)
	}
}
