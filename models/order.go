package models

import "github.com/shopspring/decimal"

// OrderStatus represents the current progress of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order aggregates line items and a payment record. ID is a random UUID.
type Order struct {
	ID        string          `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Status    OrderStatus     `db:"status" json:"status"`
	Total     decimal.Decimal `db:"total" json:"total"`
	AddressID *int64          `db:"address_id" json:"address_id,omitempty"`
	CreatedAt string          `db:"created_at" json:"created_at"`
	Items     []OrderItem     `json:"items,omitempty"`
	Payment   *OrderPayment   `json:"payment,omitempty"`
}

// OrderItem is one product line of an order with the price captured at checkout.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// PaymentMethod enumerates how an order is paid.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// OrderPayment is the payment record written alongside an order.
type OrderPayment struct {
	ID      int64           `db:"id" json:"id"`
	OrderID string          `db:"order_id" json:"order_id"`
	Method  PaymentMethod   `db:"method" json:"method"`
	CardID  *int64          `db:"card_id" json:"card_id,omitempty"`
	Amount  decimal.Decimal `db:"amount" json:"amount"`
	PaidAt  string          `db:"paid_at" json:"paid_at"`
}
