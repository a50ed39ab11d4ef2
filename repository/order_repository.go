package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"shoppingCart/models"
)

// ErrEmptyCart is returned when an order is placed from an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// OrderRepository stores orders with their line items and payment record.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, status, total, address_id, created_at`

func scanOrder(s rowScanner) (*models.Order, error) {
	var o models.Order
	var status string
	var addressID sql.NullInt64
	if err := s.Scan(&o.ID, &o.UserID, &status, &o.Total, &addressID, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	if addressID.Valid {
		v := addressID.Int64
		o.AddressID = &v
	}
	return &o, nil
}

// CreateFromCart turns the current cart into an order. The order row, its payment,
// one item per cart line and the cart wipe are committed together. o.ID must be set;
// status defaults to pending. Total and payment amount are computed from the cart.
func (r *OrderRepository) CreateFromCart(ctx context.Context, o *models.Order, pay *models.OrderPayment) (*models.Order, error) {
	if o == nil || pay == nil {
		return nil, errors.New("order and payment are required")
	}
	if o.ID == "" {
		return nil, errors.New("order id is required")
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	rollback := func(err error) (*models.Order, error) {
		_ = tx.Rollback()
		return nil, err
	}

	lines, err := cartLines(ctx, tx)
	if err != nil {
		return rollback(fmt.Errorf("read cart: %w", err))
	}
	if len(lines) == 0 {
		return rollback(ErrEmptyCart)
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	o.Total = total

	if _, err := tx.ExecContext(ctx, `INSERT INTO orders (id, user_id, status, total, address_id) VALUES (?,?,?,?,?)`,
		o.ID, o.UserID, string(o.Status), o.Total.String(), o.AddressID); err != nil {
		return rollback(fmt.Errorf("insert order: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO order_payments (order_id, method, card_id, amount) VALUES (?,?,?,?)`,
		o.ID, string(pay.Method), pay.CardID, total.String()); err != nil {
		return rollback(fmt.Errorf("insert payment: %w", err))
	}
	for _, l := range lines {
		if _, err := tx.ExecContext(ctx, `INSERT INTO order_items (order_id, product_id, name, quantity, unit_price) VALUES (?,?,?,?,?)`,
			o.ID, l.ProductID, l.Product.Name, l.Quantity, l.Product.Price.String()); err != nil {
			return rollback(fmt.Errorf("insert item %d: %w", l.ProductID, err))
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items`); err != nil {
		return rollback(fmt.Errorf("clear cart: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("created order not found: id=%s", o.ID)
	}
	return created, nil
}

// GetByID fetches an order with its items and payment.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if o.Items, err = r.Items(ctx, id); err != nil {
		return nil, err
	}
	if o.Payment, err = r.Payment(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

// Items returns the line items of an order in insertion order.
func (r *OrderRepository) Items(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, order_id, product_id, name, quantity, unit_price FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrderRepository) Payment(ctx context.Context, orderID string) (*models.OrderPayment, error) {
	var p models.OrderPayment
	var method string
	var cardID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT id, order_id, method, card_id, amount, paid_at FROM order_payments WHERE order_id = ?`, orderID).
		Scan(&p.ID, &p.OrderID, &method, &cardID, &p.Amount, &p.PaidAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Method = models.PaymentMethod(method)
	if cardID.Valid {
		v := cardID.Int64
		p.CardID = &v
	}
	return &p, nil
}

// ListByUserIDPage returns a page of a user's orders, newest first.
// Pagination is keyset based on (created_at, rowid); pass the zero cursor for the first page.
func (r *OrderRepository) ListByUserIDPage(ctx context.Context, userID int64, pageSize int, after OrderCursor) ([]models.Order, OrderCursor, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var rows *sql.Rows
	var err error
	if after.Seq > 0 {
		rows, err = r.db.QueryContext(ctx, `
SELECT `+orderColumns+`, rowid FROM orders
WHERE user_id = ?
  AND (created_at < ? OR (created_at = ? AND rowid < ?))
ORDER BY created_at DESC, rowid DESC
LIMIT ?`, userID, after.CreatedAt, after.CreatedAt, after.Seq, pageSize)
	} else {
		rows, err = r.db.QueryContext(ctx, `
SELECT `+orderColumns+`, rowid FROM orders
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT ?`, userID, pageSize)
	}
	if err != nil {
		return nil, OrderCursor{}, err
	}
	defer rows.Close()

	out := []models.Order{}
	var next OrderCursor
	for rows.Next() {
		var o models.Order
		var status string
		var addressID sql.NullInt64
		var seq int64
		if err := rows.Scan(&o.ID, &o.UserID, &status, &o.Total, &addressID, &o.CreatedAt, &seq); err != nil {
			return nil, OrderCursor{}, err
		}
		o.Status = models.OrderStatus(status)
		if addressID.Valid {
			v := addressID.Int64
			o.AddressID = &v
		}
		out = append(out, o)
		next = OrderCursor{CreatedAt: o.CreatedAt, Seq: seq}
	}
	if err := rows.Err(); err != nil {
		return nil, OrderCursor{}, err
	}
	if len(out) < pageSize {
		next = OrderCursor{}
	}
	return out, next, nil
}

// OrderCursor marks the last row of a page.
type OrderCursor struct {
	CreatedAt string
	Seq       int64
}

// CompareAndSetStatus moves an order from one status to another and reports whether
// the order was in the expected status.
func (r *OrderRepository) CompareAndSetStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ? AND status = ?`, string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
