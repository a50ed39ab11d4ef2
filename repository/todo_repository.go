package repository

import (
	"context"
	"database/sql"
	"errors"

	"shoppingCart/models"
)

// TodoRepository stores checklist groups and their items.
type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) CreateGroup(ctx context.Context, title string) (*models.TodoGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO todo_groups (title) VALUES (?)`, title)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetGroup(ctx, id)
}

func (r *TodoRepository) GetGroup(ctx context.Context, id int64) (*models.TodoGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var g models.TodoGroup
	err := r.db.QueryRowContext(ctx, `SELECT id, title, created_at FROM todo_groups WHERE id = ?`, id).Scan(&g.ID, &g.Title, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *TodoRepository) ListGroups(ctx context.Context) ([]models.TodoGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, created_at FROM todo_groups ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.TodoGroup{}
	for rows.Next() {
		var g models.TodoGroup
		if err := rows.Scan(&g.ID, &g.Title, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *TodoRepository) RenameGroup(ctx context.Context, id int64, title string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE todo_groups SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteGroup removes a group; its items cascade.
func (r *TodoRepository) DeleteGroup(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM todo_groups WHERE id = ?`, id)
	return err
}

func (r *TodoRepository) AddItem(ctx context.Context, groupID int64, title string) (*models.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO todo_items (group_id, title) VALUES (?, ?)`, groupID, title)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetItem(ctx, id)
}

func (r *TodoRepository) GetItem(ctx context.Context, id int64) (*models.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var it models.TodoItem
	err := r.db.QueryRowContext(ctx, `SELECT id, group_id, title, done, created_at FROM todo_items WHERE id = ?`, id).
		Scan(&it.ID, &it.GroupID, &it.Title, &it.Done, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *TodoRepository) ListItems(ctx context.Context, groupID int64) ([]models.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, group_id, title, done, created_at FROM todo_items WHERE group_id = ? ORDER BY id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.TodoItem{}
	for rows.Next() {
		var it models.TodoItem
		if err := rows.Scan(&it.ID, &it.GroupID, &it.Title, &it.Done, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ToggleItem flips the completion flag in a single statement.
func (r *TodoRepository) ToggleItem(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE todo_items SET done = 1 - done WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *TodoRepository) DeleteItem(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM todo_items WHERE id = ?`, id)
	return err
}
