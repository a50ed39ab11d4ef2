package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shoppingCart/models"
)

// ProductRepository caches catalog entries fetched from the backend.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, price, description, barcode, category, size, image_url`

const upsertProductSQL = `
INSERT INTO products (id, name, price, description, barcode, category, size, image_url, cached_at)
VALUES (?,?,?,?,?,?,?,?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  name = excluded.name, price = excluded.price, description = excluded.description,
  barcode = excluded.barcode, category = excluded.category, size = excluded.size,
  image_url = excluded.image_url, cached_at = excluded.cached_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertProduct(ctx context.Context, e execer, p *models.Product) error {
	_, err := e.ExecContext(ctx, upsertProductSQL,
		p.ID, p.Name, p.Price.String(), p.Description, p.Barcode, p.Category, p.Size, p.ImageURL)
	return err
}

func scanProduct(s rowScanner, p *models.Product) error {
	return s.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Barcode, &p.Category, &p.Size, &p.ImageURL)
}

// Upsert inserts or refreshes a single cached product.
func (r *ProductRepository) Upsert(ctx context.Context, p *models.Product) error {
	if p == nil {
		return errors.New("product is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return upsertProduct(ctx, r.db, p)
}

// UpsertMany refreshes the cache with a page of products in one transaction.
func (r *ProductRepository) UpsertMany(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range products {
		if err := upsertProduct(ctx, tx, &products[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert product %d: %w", products[i].ID, err)
		}
	}
	return tx.Commit()
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var p models.Product
	err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var p models.Product
	err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = ? ORDER BY cached_at DESC LIMIT 1`, barcode), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
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
