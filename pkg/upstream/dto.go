package upstream

import (
	"time"

	"github.com/google/uuid"
)

// Credentials is the login payload forwarded to the platform.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the platform's answer to a successful login. The token is the
// bearer credential attached to every subsequent call for this user.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VendorQuery narrows the vendor listing. Center coordinates are optional;
// the platform returns the full region when they are absent.
type VendorQuery struct {
	Latitude  *float64
	Longitude *float64
	RadiusKM  float64
	Category  string
	Search    string
	SortHint  string
}

// Product is a vendor catalog entry as the platform serializes it. Price is
// deliberately untyped: the platform emits display strings ("Rs. 1,250") for
// some vendors and bare numbers for others.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Price         any       `json:"price"`
	ImageURL      string    `json:"image_url,omitempty"`
	DiscountType  string    `json:"discount_type,omitempty"`
	DiscountValue float64   `json:"discount_value,omitempty"`
}

// Vendor is a store record from the platform. Coordinates and rating are
// optional; absent values degrade to sentinels downstream.
type Vendor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	Products  []Product `json:"products"`
}

// CartLine is one entry of the platform-held cart.
type CartLine struct {
	LineID        uuid.UUID `json:"line_id"`
	ItemID        uuid.UUID `json:"item_id"`
	VendorID      uuid.UUID `json:"vendor_id"`
	Title         string    `json:"title"`
	ImageURL      string    `json:"image_url,omitempty"`
	Quantity      int       `json:"quantity"`
	UnitPrice     any       `json:"unit_price"`
	DiscountType  string    `json:"discount_type,omitempty"`
	DiscountValue float64   `json:"discount_value,omitempty"`
}

// CartItemInput is the payload for adding a line to the platform cart.
type CartItemInput struct {
	ItemID        uuid.UUID `json:"item_id"`
	VendorID      uuid.UUID `json:"vendor_id"`
	Title         string    `json:"title"`
	ImageURL      string    `json:"image_url,omitempty"`
	Quantity      int       `json:"quantity"`
	UnitPrice     string    `json:"unit_price"`
	DiscountType  string    `json:"discount_type,omitempty"`
	DiscountValue float64   `json:"discount_value,omitempty"`
}

// OrderItem is one purchased line inside a submission or record.
type OrderItem struct {
	ItemID    uuid.UUID `json:"item_id"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
}

// OrderSubmission is the order intake payload. Monetary fields travel as
// decimal strings so the platform never sees binary float artifacts.
type OrderSubmission struct {
	VendorID        uuid.UUID   `json:"vendor_id"`
	Items           []OrderItem `json:"items"`
	DeliveryAddress string      `json:"delivery_address"`
	Latitude        *float64    `json:"latitude,omitempty"`
	Longitude       *float64    `json:"longitude,omitempty"`
	ContactPhone    string      `json:"contact_phone"`
	PaymentMethod   string      `json:"payment_method"`
	Subtotal        string      `json:"subtotal"`
	DeliveryFee     string      `json:"delivery_fee"`
	Total           string      `json:"total"`
}

// OrderReceipt acknowledges an accepted order.
type OrderReceipt struct {
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
}

// OrderRecord is a placed order as the platform reports it.
type OrderRecord struct {
	OrderID    uuid.UUID   `json:"order_id"`
	Status     string      `json:"status"`
	VendorName string      `json:"vendor_name,omitempty"`
	PlacedAt   time.Time   `json:"placed_at"`
	Total      any         `json:"total"`
	Items      []OrderItem `json:"items,omitempty"`
}

// PackQuery asks the platform to price a named item list across vendors.
type PackQuery struct {
	ItemNames []string `json:"item_names"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	RadiusKM  float64  `json:"radius_km,omitempty"`
	SortBy    string   `json:"sort_by,omitempty"`
}

// PackItem is one priced row of a pack offer. The platform omits rows for
// items a vendor does not stock rather than flagging them unavailable.
type PackItem struct {
	ItemID   uuid.UUID `json:"item_id"`
	Title    string    `json:"title"`
	ImageURL string    `json:"image_url,omitempty"`
	Price    any       `json:"price"`
}

// PackOffer is one vendor's server-computed quote for a pack query.
type PackOffer struct {
	Vendor     Vendor     `json:"vendor"`
	Items      []PackItem `json:"items"`
	TotalPrice any        `json:"total_price"`
}
