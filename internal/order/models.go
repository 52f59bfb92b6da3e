package order

import "time"

type Order struct {
	ID         string    `json:"orderId" db:"id" bson:"_id,omitempty"`
	UserID     string    `json:"userId" db:"user_id" bson:"user_id"`
	ProductID  string    `json:"productId" db:"product_id" bson:"product_id"`
	Qty        int       `json:"qty" db:"qty" bson:"qty"`
	UnitPrice  float64   `json:"unitPrice" db:"unit_price" bson:"unit_price"`
	TotalPrice float64   `json:"totalPrice" db:"total_price" bson:"total_price"`
	Status     string    `json:"status" db:"status" bson:"status"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at" bson:"created_at"`
}

type CreateOrderRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
}

type OrderResponse struct {
	OrderID     string  `json:"orderId"`
	UserID      string  `json:"userId"`
	ProductID   string  `json:"productId"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
	EventStatus string  `json:"eventStatus,omitempty"`
}

// OrderEvent is an immutable snapshot of an Order at creation time. It
// carries the order identifier as the idempotency key; consumers correlate
// record and event through it.
type OrderEvent struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Qty        int       `json:"qty"`
	UnitPrice  float64   `json:"unitPrice"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewOrderEvent(o *Order) OrderEvent {
	return OrderEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Qty:        o.Qty,
		UnitPrice:  o.UnitPrice,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
}

func toResponse(o *Order, eventStatus string) OrderResponse {
	return OrderResponse{
		OrderID:     o.ID,
		UserID:      o.UserID,
		ProductID:   o.ProductID,
		Qty:         o.Qty,
		UnitPrice:   o.UnitPrice,
		TotalPrice:  o.TotalPrice,
		EventStatus: eventStatus,
	}
}
