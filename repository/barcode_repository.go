package repository

import (
	"context"
	"database/sql"
	"errors"

	"shoppingCart/models"
)

// BarcodeRepository keeps the scan history.
type BarcodeRepository struct {
	db *sql.DB
}

func NewBarcodeRepository(db *sql.DB) *BarcodeRepository {
	return &BarcodeRepository{db: db}
}

func (r *BarcodeRepository) Create(ctx context.Context, it *models.BarcodeItem) (*models.BarcodeItem, error) {
	if it == nil {
		return nil, errors.New("barcode item is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO barcode_items (barcode, name, note) VALUES (?,?,?)`, it.Barcode, it.Name, it.Note)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var out models.BarcodeItem
	err = r.db.QueryRowContext(ctx, `SELECT id, barcode, name, note, scanned_at FROM barcode_items WHERE id = ?`, id).
		Scan(&out.ID, &out.Barcode, &out.Name, &out.Note, &out.ScannedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LatestByBarcode returns the newest scan of a code, or nil.
func (r *BarcodeRepository) LatestByBarcode(ctx context.Context, barcode string) (*models.BarcodeItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var it models.BarcodeItem
	err := r.db.QueryRowContext(ctx, `SELECT id, barcode, name, note, scanned_at FROM barcode_items WHERE barcode = ? ORDER BY id DESC LIMIT 1`, barcode).
		Scan(&it.ID, &it.Barcode, &it.Name, &it.Note, &it.ScannedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

// List returns scans newest first.
func (r *BarcodeRepository) List(ctx context.Context, limit int) ([]models.BarcodeItem, error) {
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, barcode, name, note, scanned_at FROM barcode_items ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.BarcodeItem{}
	for rows.Next() {
		var it models.BarcodeItem
		if err := rows.Scan(&it.ID, &it.Barcode, &it.Name, &it.Note, &it.ScannedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *BarcodeRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM barcode_items WHERE id = ?`, id)
	return err
}
