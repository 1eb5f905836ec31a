package service

import (
	"context"
	"fmt"

	"taskhub/internal/auth"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// CreateTodoInput carries the fields of a new todo.
type CreateTodoInput struct {
	Title    string
	Contents string
	Weather  string
}

// TodoService exposes todo creation and the filtered read queries.
type TodoService interface {
	CreateTodo(ctx context.Context, requester auth.AuthUser, input CreateTodoInput) (*model.Todo, error)
	GetTodo(ctx context.Context, id uint) (*model.Todo, error)
	ListTodos(ctx context.Context, filter model.TodoListFilter, page model.PageRequest) (*model.Page[model.TodoSummary], error)
	SearchTodos(ctx context.Context, filter model.TodoSearchFilter, page model.PageRequest) (*model.Page[model.TodoSearchSummary], error)
	DeleteTodo(ctx context.Context, requester auth.AuthUser, id uint) error
}

type todoService struct {
	store repository.Store
}

// NewTodoService creates a new todo service.
func NewTodoService(store repository.Store) TodoService {
	return &todoService{store: store}
}

// CreateTodo stores the todo and registers its owner as the first manager
// in the same transaction.
func (s *todoService) CreateTodo(ctx context.Context, requester auth.AuthUser, input CreateTodoInput) (*model.Todo, error) {
	var created *model.Todo
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := findUser(ctx, tx.Users(), requester.UserID); err != nil {
			return err
		}

		todo := &model.Todo{
			Title:    input.Title,
			Contents: input.Contents,
			Weather:  input.Weather,
			OwnerID:  requester.UserID,
		}
		if err := tx.Todos().Create(ctx, todo); err != nil {
			return apperrors.Storage(fmt.Errorf("create todo: %w", err))
		}
		if err := tx.Managers().Create(ctx, &model.Manager{TodoID: todo.ID, UserID: requester.UserID}); err != nil {
			return apperrors.Storage(fmt.Errorf("register owner as manager: %w", err))
		}

		withOwner, err := tx.Todos().FindWithOwner(ctx, todo.ID)
		if err != nil {
			return apperrors.Storage(fmt.Errorf("reload todo: %w", err))
		}
		if withOwner == nil {
			return apperrors.ErrTodoNotFound
		}
		created = withOwner
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetTodo returns the todo with its owner loaded.
func (s *todoService) GetTodo(ctx context.Context, id uint) (*model.Todo, error) {
	todo, err := s.store.Todos().FindWithOwner(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("find todo: %w", err))
	}
	if todo == nil {
		return nil, apperrors.ErrTodoNotFound
	}
	return todo, nil
}

func (s *todoService) ListTodos(ctx context.Context, filter model.TodoListFilter, page model.PageRequest) (*model.Page[model.TodoSummary], error) {
	items, total, err := s.store.Todos().ListByWeatherAndPeriod(ctx, filter, page)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list todos: %w", err))
	}
	return model.NewPage(items, page, total), nil
}

func (s *todoService) SearchTodos(ctx context.Context, filter model.TodoSearchFilter, page model.PageRequest) (*model.Page[model.TodoSearchSummary], error) {
	items, total, err := s.store.Todos().Search(ctx, filter, page)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("search todos: %w", err))
	}
	return model.NewPage(items, page, total), nil
}

// DeleteTodo removes a todo with its managers and comments. Only the owner
// or an admin may delete.
func (s *todoService) DeleteTodo(ctx context.Context, requester auth.AuthUser, id uint) error {
	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		todo, err := findTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		if !todo.IsOwnedBy(requester.UserID) && !requester.IsAdmin() {
			return apperrors.ErrNotTodoOwner
		}
		if err := tx.Todos().Delete(ctx, todo); err != nil {
			return apperrors.Storage(fmt.Errorf("delete todo: %w", err))
		}
		return nil
	})
}
