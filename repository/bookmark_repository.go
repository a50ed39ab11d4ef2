package repository

import (
	"context"
	"database/sql"

	"shoppingCart/models"
)

type BookmarkRepository struct {
	db *sql.DB
}

func NewBookmarkRepository(db *sql.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Toggle inverts bookmark membership atomically and returns the new state.
func (r *BookmarkRepository) Toggle(ctx context.Context, productID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return toggleRow(ctx, r.db,
		`DELETE FROM bookmarks WHERE product_id = ?`,
		`INSERT INTO bookmarks (product_id) VALUES (?)`,
		productID)
}

func (r *BookmarkRepository) Exists(ctx context.Context, productID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM bookmarks WHERE product_id = ?`, productID).Scan(&n)
	return n > 0, err
}

// Products returns bookmarked products, most recently bookmarked first.
func (r *BookmarkRepository) Products(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.name, p.price, p.description, p.barcode, p.category, p.size, p.image_url
FROM bookmarks b JOIN products p ON p.id = b.product_id
ORDER BY b.created_at DESC, b.rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
