package types

import "strings"

// DeliveryAddress is the free-form drop-off location captured at checkout.
// The upstream order service accepts it verbatim; only presence is enforced
// locally.
type DeliveryAddress struct {
	Text     string      `json:"text"`
	Location *Coordinate `json:"location,omitempty"`
}

// IsZero reports whether no usable address was provided.
func (a DeliveryAddress) IsZero() bool {
	return strings.TrimSpace(a.Text) == "" && a.Location == nil
}
