package usecase

// Published on the broker when a cart is completed into an order.
type OrderPlacedMsg struct {
	OrderID   string `json:"orderId"`
	DisplayID int    `json:"displayId"`
	Email     string `json:"email"`
	Total     int64  `json:"total"`
	Currency  string `json:"currency"`
}
