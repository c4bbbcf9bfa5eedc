package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/internal/cart"
	"github.com/alihamzakhan/bazaargo-backend/internal/pricing"
	"github.com/alihamzakhan/bazaargo-backend/pkg/enums"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/types"
	"github.com/alihamzakhan/bazaargo-backend/pkg/upstream"
)

// platformOrders is the slice of the upstream client the service needs.
type platformOrders interface {
	SubmitOrder(ctx context.Context, token string, submission upstream.OrderSubmission) (upstream.OrderReceipt, error)
	OrderDetail(ctx context.Context, token string, orderID uuid.UUID) (upstream.OrderRecord, error)
	ListOrders(ctx context.Context, token string) ([]upstream.OrderRecord, error)
}

// tokenSource resolves the platform bearer token for a user session.
type tokenSource interface {
	Token(ctx context.Context, userID uuid.UUID) (string, error)
}

// SubmitInput captures the checkout form for one vendor's cart lines.
type SubmitInput struct {
	VendorID        uuid.UUID
	DeliveryAddress types.DeliveryAddress
	ContactPhone    string
	PaymentMethod   string
}

// Receipt acknowledges a placed order.
type Receipt struct {
	OrderID uuid.UUID         `json:"order_id"`
	Status  enums.OrderStatus `json:"status"`
	Payload OrderPayload      `json:"payload"`
}

// Order is a placed order as rendered to the storefront.
type Order struct {
	ID         uuid.UUID         `json:"id"`
	Status     enums.OrderStatus `json:"status"`
	VendorName string            `json:"vendor_name,omitempty"`
	PlacedAt   time.Time         `json:"placed_at"`
	Total      decimal.Decimal   `json:"total"`
	Items      []PayloadLine     `json:"items,omitempty"`
}

// Service exposes order submission and history reads.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (Receipt, error)
	Detail(ctx context.Context, userID, orderID uuid.UUID) (Order, error)
	List(ctx context.Context, userID uuid.UUID) ([]Order, error)
}

type service struct {
	platform    platformOrders
	tokens      tokenSource
	carts       *cart.Manager
	deliveryFee decimal.Decimal
	logger      *logger.Logger
}

// NewService builds the order service.
func NewService(platform platformOrders, tokens tokenSource, carts *cart.Manager, deliveryFee decimal.Decimal, logg *logger.Logger) (Service, error) {
	if platform == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "platform client required")
	}
	if tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "token source required")
	}
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart manager required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		platform:    platform,
		tokens:      tokens,
		carts:       carts,
		deliveryFee: deliveryFee,
		logger:      logg,
	}, nil
}

// Submit assembles the vendor's cart lines into an order and hands it to the
// platform. Submission is attempted exactly once; only a confirmed success
// drops the local cart lines for that vendor.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (Receipt, error) {
	aggregator, err := s.carts.ForUser(userID)
	if err != nil {
		return Receipt{}, err
	}

	// A fresh instance may hold an empty aggregator while the platform cart
	// still carries the user's lines, so resync before reading the groups.
	if len(aggregator.Lines()) == 0 {
		if err := aggregator.Hydrate(ctx); err != nil {
			return Receipt{}, err
		}
	}

	group := aggregator.GroupByVendor()[input.VendorID]

	method, parseErr := enums.ParsePaymentMethod(input.PaymentMethod)
	if parseErr != nil {
		method = enums.PaymentMethodCashOnDelivery
	}

	payload, err := Assemble(group.Lines, input.DeliveryAddress, input.ContactPhone, method, s.deliveryFee)
	if err != nil {
		return Receipt{}, err
	}

	token, err := s.tokens.Token(ctx, userID)
	if err != nil {
		return Receipt{}, err
	}

	receipt, err := s.platform.SubmitOrder(ctx, token, toSubmission(payload))
	if err != nil {
		return Receipt{}, err
	}

	aggregator.DropVendorLines(payload.VendorID)

	status, statusErr := enums.ParseOrderStatus(receipt.Status)
	if statusErr != nil {
		status = enums.OrderStatusPending
	}

	s.logger.Info(s.logger.WithField(ctx, "order_id", receipt.OrderID.String()), "order submitted")

	return Receipt{
		OrderID: receipt.OrderID,
		Status:  status,
		Payload: payload,
	}, nil
}

// Detail fetches one order. The upstream read applies its bounded retry.
func (s *service) Detail(ctx context.Context, userID, orderID uuid.UUID) (Order, error) {
	if orderID == uuid.Nil {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	token, err := s.tokens.Token(ctx, userID)
	if err != nil {
		return Order{}, err
	}

	record, err := s.platform.OrderDetail(ctx, token, orderID)
	if err != nil {
		return Order{}, err
	}
	return fromRecord(record), nil
}

// List returns the user's order history, newest first as the platform sends it.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	token, err := s.tokens.Token(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.platform.ListOrders(ctx, token)
	if err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(records))
	for _, record := range records {
		out = append(out, fromRecord(record))
	}
	return out, nil
}

func toSubmission(payload OrderPayload) upstream.OrderSubmission {
	items := make([]upstream.OrderItem, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		items = append(items, upstream.OrderItem{
			ItemID:    line.ItemID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.String(),
		})
	}

	submission := upstream.OrderSubmission{
		VendorID:        payload.VendorID,
		Items:           items,
		DeliveryAddress: payload.DeliveryAddress.Text,
		ContactPhone:    payload.ContactPhone,
		PaymentMethod:   payload.PaymentMethod.String(),
		Subtotal:        payload.Subtotal.String(),
		DeliveryFee:     payload.DeliveryFee.String(),
		Total:           payload.Total.String(),
	}
	if loc := payload.DeliveryAddress.Location; loc != nil {
		lat, lng := loc.Lat, loc.Lng
		submission.Latitude = &lat
		submission.Longitude = &lng
	}
	return submission
}

func fromRecord(record upstream.OrderRecord) Order {
	status, err := enums.ParseOrderStatus(record.Status)
	if err != nil {
		status = enums.OrderStatusPending
	}

	items := make([]PayloadLine, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, PayloadLine{
			ItemID:    item.ItemID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: pricing.ParsePrice(item.UnitPrice),
		})
	}

	return Order{
		ID:         record.OrderID,
		Status:     status,
		VendorName: record.VendorName,
		PlacedAt:   record.PlacedAt,
		Total:      pricing.ParsePrice(record.Total),
		Items:      items,
	}
}
