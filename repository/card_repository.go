package repository

import (
	"context"
	"database/sql"
	"errors"

	"shoppingCart/models"
)

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

const cardColumns = `id, user_id, holder, last4, brand, exp_month, exp_year, remote_id, created_at`

func scanCard(s rowScanner) (*models.VirtualCard, error) {
	var c models.VirtualCard
	if err := s.Scan(&c.ID, &c.UserID, &c.Holder, &c.Last4, &c.Brand, &c.ExpMonth, &c.ExpYear, &c.RemoteID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CardRepository) Create(ctx context.Context, c *models.VirtualCard) (*models.VirtualCard, error) {
	if c == nil {
		return nil, errors.New("card is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO virtual_cards (user_id, holder, last4, brand, exp_month, exp_year, remote_id) VALUES (?,?,?,?,?,?,?)`,
		c.UserID, c.Holder, c.Last4, c.Brand, c.ExpMonth, c.ExpYear, c.RemoteID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *CardRepository) GetByID(ctx context.Context, id int64) (*models.VirtualCard, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	c, err := scanCard(r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM virtual_cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// ListByUserID returns the cards owned by a user, oldest first.
func (r *CardRepository) ListByUserID(ctx context.Context, userID int64) ([]models.VirtualCard, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM virtual_cards WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.VirtualCard{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Delete removes a card if it belongs to the user and reports whether a row was removed.
func (r *CardRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM virtual_cards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
