package service

import (
	"context"
	"log/slog"
	"strings"

	"shoppingCart/internal/apperr"
	"shoppingCart/models"
	"shoppingCart/repository"
)

// TodoService backs the shopping checklist screen.
type TodoService struct {
	todos repository.TodoRepositoryI
	log   *slog.Logger
}

func NewTodoService(todos repository.TodoRepositoryI, log *slog.Logger) *TodoService {
	return &TodoService{todos: todos, log: orDefault(log)}
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Custom("title is required")
	}
	if len(title) > 200 {
		return "", apperr.Custom("title must be at most 200 characters")
	}
	return title, nil
}

func (s *TodoService) CreateGroup(ctx context.Context, title string) (*models.TodoGroup, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	g, err := s.todos.CreateGroup(ctx, title)
	if err != nil {
		return nil, fail(s.log, "todo.create_group", err)
	}
	return g, nil
}

func (s *TodoService) Groups(ctx context.Context) ([]models.TodoGroup, error) {
	gs, err := s.todos.ListGroups(ctx)
	if err != nil {
		return nil, fail(s.log, "todo.groups", err)
	}
	return gs, nil
}

// GroupWithItems returns a group and its items.
func (s *TodoService) GroupWithItems(ctx context.Context, id int64) (*models.TodoGroup, error) {
	g, err := s.todos.GetGroup(ctx, id)
	if err != nil {
		return nil, fail(s.log, "todo.group", err)
	}
	if g == nil {
		return nil, apperr.Empty("list not found")
	}
	if g.Items, err = s.todos.ListItems(ctx, id); err != nil {
		return nil, fail(s.log, "todo.group", err)
	}
	return g, nil
}

func (s *TodoService) RenameGroup(ctx context.Context, id int64, title string) error {
	title, err := cleanTitle(title)
	if err != nil {
		return err
	}
	if err := s.todos.RenameGroup(ctx, id, title); err != nil {
		return fail(s.log, "todo.rename_group", err)
	}
	return nil
}

// DeleteGroup removes a group together with its items.
func (s *TodoService) DeleteGroup(ctx context.Context, id int64) error {
	if err := s.todos.DeleteGroup(ctx, id); err != nil {
		return fail(s.log, "todo.delete_group", err)
	}
	return nil
}

func (s *TodoService) AddItem(ctx context.Context, groupID int64, title string) (*models.TodoItem, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	g, err := s.todos.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fail(s.log, "todo.add_item", err)
	}
	if g == nil {
		return nil, apperr.Empty("list not found")
	}
	it, err := s.todos.AddItem(ctx, groupID, title)
	if err != nil {
		return nil, fail(s.log, "todo.add_item", err)
	}
	return it, nil
}

// ToggleItem flips the done flag and returns the updated item.
func (s *TodoService) ToggleItem(ctx context.Context, id int64) (*models.TodoItem, error) {
	if err := s.todos.ToggleItem(ctx, id); err != nil {
		return nil, fail(s.log, "todo.toggle_item", err)
	}
	it, err := s.todos.GetItem(ctx, id)
	if err != nil {
		return nil, fail(s.log, "todo.toggle_item", err)
	}
	if it == nil {
		return nil, apperr.Empty("item not found")
	}
	return it, nil
}

func (s *TodoService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.todos.DeleteItem(ctx, id); err != nil {
		return fail(s.log, "todo.delete_item", err)
	}
	return nil
}
