package entity

// LineItem is one priced position inside a cart. A cart holds at most one
// line item per variant; adding the same variant again bumps the quantity.
type LineItem struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"` // minor currency units
	Quantity  int64  `json:"quantity"`
}

// PaymentSession binds a cart to a processor-issued payment intent.
// Data is the opaque provider payload (client secret, intent id).
type PaymentSession struct {
	ID         string            `json:"id"`
	ProviderID string            `json:"provider_id"`
	Data       map[string]string `json:"data"`
}

const (
	SessionDataClientSecret = "client_secret"
	SessionDataIntentID     = "intent_id"
)

type Cart struct {
	ID              string          `json:"id"`
	Items           []LineItem      `json:"items"`
	Subtotal        int64           `json:"subtotal"`
	Total           int64           `json:"total"`
	Email           string          `json:"email,omitempty"`
	ShippingAddress *Address        `json:"shipping_address,omitempty"`
	BillingAddress  *Address        `json:"billing_address,omitempty"`
	PaymentSession  *PaymentSession `json:"payment_session,omitempty"`
}

func NewCart(id string) *Cart {
	return &Cart{ID: id, Items: []LineItem{}}
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// RecomputeTotals derives subtotal/total fresh from the item list.
// Totals are never adjusted incrementally; this is the only writer.
func (c *Cart) RecomputeTotals() {
	var sum int64
	for _, it := range c.Items {
		sum += it.UnitPrice * it.Quantity
	}
	c.Subtotal = sum
	c.Total = sum
}

// AddItem merges by variant: if the variant is already in the cart the
// quantity is added onto the existing line item, otherwise the item is
// appended. Insertion order of first appearance is preserved.
func (c *Cart) AddItem(item LineItem) {
	for i := range c.Items {
		if c.Items[i].VariantID == item.VariantID {
			c.Items[i].Quantity += item.Quantity
			c.RecomputeTotals()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.RecomputeTotals()
}

// RemoveItem deletes the line item with the given id. Removing an unknown
// line item is a no-op, not an error.
func (c *Cart) RemoveItem(lineItemID string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ID != lineItemID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	c.RecomputeTotals()
}

// SetItemQuantity replaces the quantity of the line item with the given id.
// Reports whether the line item exists; quantity validation is the caller's.
func (c *Cart) SetItemQuantity(lineItemID string, quantity int64) bool {
	for i := range c.Items {
		if c.Items[i].ID == lineItemID {
			c.Items[i].Quantity = quantity
			c.RecomputeTotals()
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Stores hand out clones so callers never share
// slices or pointers with the stored record.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make([]LineItem, len(c.Items))
	copy(cp.Items, c.Items)
	if c.ShippingAddress != nil {
		a := *c.ShippingAddress
		cp.ShippingAddress = &a
	}
	if c.BillingAddress != nil {
		a := *c.BillingAddress
		cp.BillingAddress = &a
	}
	if c.PaymentSession != nil {
		s := *c.PaymentSession
		s.Data = make(map[string]string, len(c.PaymentSession.Data))
		for k, v := range c.PaymentSession.Data {
			s.Data[k] = v
		}
		cp.PaymentSession = &s
	}
	return &cp
}
