// Package orders assembles checkout payloads from cart lines and submits
// them to the upstream order service.
package orders

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/cart"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/types"
)

// PayloadLine is one purchased line inside an assembled order.
type PayloadLine struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderPayload is the assembled checkout payload for one vendor. It is built
// once, validated before any network call, and never mutated afterwards.
type OrderPayload struct {
	VendorID        uuid.UUID             `json:"vendor_id"`
	Lines           []PayloadLine         `json:"lines"`
	DeliveryAddress types.DeliveryAddress `json:"delivery_address"`
	ContactPhone    string                `json:"contact_phone"`
	PaymentMethod   enums.PaymentMethod   `json:"payment_method"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	DeliveryFee     decimal.Decimal       `json:"delivery_fee"`
	Total           decimal.Decimal       `json:"total"`
}

// Assemble validates the selection and derives the order totals. The subtotal
// is the sum of effective line prices times quantities; the total adds the
// delivery fee. All validations run before anything touches the network.
func Assemble(lines []cart.Line, address types.DeliveryAddress, contactPhone string, method enums.PaymentMethod, deliveryFee decimal.Decimal) (OrderPayload, error) {
	if len(lines) == 0 {
		return OrderPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "empty selection")
	}
	if address.IsZero() {
		return OrderPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery location required")
	}
	if strings.TrimSpace(contactPhone) == "" {
		return OrderPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "contact phone required")
	}
	if !method.IsValid() {
		method = enums.PaymentMethodCashOnDelivery
	}

	vendorID := lines[0].VendorID
	payloadLines := make([]PayloadLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.VendorID != vendorID {
			return OrderPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "order lines must belong to a single vendor")
		}
		payloadLines = append(payloadLines, PayloadLine{
			ItemID:    line.ItemID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.EffectiveUnitPrice(),
		})
		subtotal = subtotal.Add(line.Subtotal())
	}

	if deliveryFee.IsNegative() {
		deliveryFee = decimal.Zero
	}

	return OrderPayload{
		VendorID:        vendorID,
		Lines:           payloadLines,
		DeliveryAddress: address,
		ContactPhone:    strings.TrimSpace(contactPhone),
		PaymentMethod:   method,
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		Total:           subtotal.Add(deliveryFee),
	}, nil
}
