package entity

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
)

// Order is the immutable record a completed cart is converted into. It owns
// its own copy of the item data; the source cart is gone once it exists.
type Order struct {
	ID              string      `json:"id"`
	DisplayID       int         `json:"display_id"`
	Email           string      `json:"email"`
	Items           []LineItem  `json:"items"`
	Subtotal        int64       `json:"subtotal"`
	Total           int64       `json:"total"`
	ShippingAddress *Address    `json:"shipping_address"`
	BillingAddress  *Address    `json:"billing_address,omitempty"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

func (o *Order) Clone() *Order {
	cp := *o
	cp.Items = make([]LineItem, len(o.Items))
	copy(cp.Items, o.Items)
	if o.ShippingAddress != nil {
		a := *o.ShippingAddress
		cp.ShippingAddress = &a
	}
	if o.BillingAddress != nil {
		a := *o.BillingAddress
		cp.BillingAddress = &a
	}
	return &cp
}
