package repository

import (
	"context"
	"database/sql"
	"errors"

	"shoppingCart/models"
)

// LocationRepository stores saved delivery addresses.
type LocationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

const locationColumns = `id, user_id, label, recipient, phone, street, city, postal_code, country, lat, lng`

func scanLocation(s rowScanner) (*models.Location, error) {
	var l models.Location
	var lat, lng sql.NullFloat64
	if err := s.Scan(&l.ID, &l.UserID, &l.Label, &l.Recipient, &l.Phone, &l.Street, &l.City, &l.PostalCode, &l.Country, &lat, &lng); err != nil {
		return nil, err
	}
	if lat.Valid {
		v := lat.Float64
		l.Lat = &v
	}
	if lng.Valid {
		v := lng.Float64
		l.Lng = &v
	}
	return &l, nil
}

func (r *LocationRepository) Create(ctx context.Context, l *models.Location) (*models.Location, error) {
	if l == nil {
		return nil, errors.New("location is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO locations (user_id, label, recipient, phone, street, city, postal_code, country, lat, lng) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		l.UserID, l.Label, l.Recipient, l.Phone, l.Street, l.City, l.PostalCode, l.Country, l.Lat, l.Lng)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	l, err := scanLocation(r.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (r *LocationRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *LocationRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
