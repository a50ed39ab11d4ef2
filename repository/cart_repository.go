package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shoppingCart/models"
)

// CartRepository stores the single local cart of this installation.
type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Toggle inverts cart membership of a product in one transaction: a present row is
// deleted, an absent one is inserted with quantity 1. It returns the new membership.
func (r *CartRepository) Toggle(ctx context.Context, productID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return toggleRow(ctx, r.db,
		`DELETE FROM cart_items WHERE product_id = ?`,
		`INSERT INTO cart_items (product_id, quantity) VALUES (?, 1)`,
		productID)
}

// toggleRow deletes by key and, when nothing was deleted, inserts instead.
func toggleRow(ctx context.Context, db *sql.DB, deleteSQL, insertSQL string, key int64) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, deleteSQL, key)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	present := n == 0
	if present {
		if _, err := tx.ExecContext(ctx, insertSQL, key); err != nil {
			_ = tx.Rollback()
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return present, nil
}

// Add increases the quantity of a product, inserting the row when absent.
func (r *CartRepository) Add(ctx context.Context, productID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive: %d", qty)
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cart_items (product_id, quantity) VALUES (?, ?)
ON CONFLICT(product_id) DO UPDATE SET quantity = quantity + excluded.quantity`, productID, qty)
	return err
}

// SetQuantity overwrites the quantity; a quantity <= 0 removes the row.
func (r *CartRepository) SetQuantity(ctx context.Context, productID int64, qty int) error {
	if qty <= 0 {
		return r.Remove(ctx, productID)
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cart_items (product_id, quantity) VALUES (?, ?)
ON CONFLICT(product_id) DO UPDATE SET quantity = excluded.quantity`, productID, qty)
	return err
}

// Decrement lowers the quantity by one and removes the row at the zero transition.
// It returns the remaining quantity (0 when removed or absent).
func (r *CartRepository) Decrement(ctx context.Context, productID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	var qty int
	err = tx.QueryRowContext(ctx, `SELECT quantity FROM cart_items WHERE product_id = ?`, productID).Scan(&qty)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	qty--
	if qty <= 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE product_id = ?`, productID)
		qty = 0
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE cart_items SET quantity = ? WHERE product_id = ?`, qty, productID)
	}
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	return qty, tx.Commit()
}

func (r *CartRepository) Remove(ctx context.Context, productID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE product_id = ?`, productID)
	return err
}

func (r *CartRepository) Get(ctx context.Context, productID int64) (*models.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var it models.CartItem
	err := r.db.QueryRowContext(ctx, `SELECT product_id, quantity, added_at FROM cart_items WHERE product_id = ?`, productID).
		Scan(&it.ProductID, &it.Quantity, &it.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

const cartLinesSQL = `
SELECT c.product_id, c.quantity, c.added_at,
       p.id, p.name, p.price, p.description, p.barcode, p.category, p.size, p.image_url
FROM cart_items c JOIN products p ON p.id = c.product_id
ORDER BY c.added_at, c.product_id`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func cartLines(ctx context.Context, q queryer) ([]models.CartLine, error) {
	rows, err := q.QueryContext(ctx, cartLinesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.CartLine{}
	for rows.Next() {
		var l models.CartLine
		p := &l.Product
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.AddedAt,
			&p.ID, &p.Name, &p.Price, &p.Description, &p.Barcode, &p.Category, &p.Size, &p.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Lines returns the cart rows joined with their cached products, oldest first.
func (r *CartRepository) Lines(ctx context.Context) ([]models.CartLine, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	return cartLines(ctx, r.db)
}

// Count returns the number of distinct products in the cart.
func (r *CartRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM cart_items`).Scan(&n)
	return n, err
}

func (r *CartRepository) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items`)
	return err
}
