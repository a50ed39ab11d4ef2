package models

import "github.com/shopspring/decimal"

// CartItem is a row of the single local cart. Quantity is always >= 1;
// the row is removed on the quantity-zero transition.
type CartItem struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
	AddedAt   string `db:"added_at" json:"added_at"`
}

// CartLine is a cart row joined with its cached product.
type CartLine struct {
	CartItem
	Product Product `json:"product"`
}

// Subtotal returns price * quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
