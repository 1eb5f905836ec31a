package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"taskhub/internal/auth"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
	"taskhub/internal/telemetry"
)

// ManagerService handles manager assignment on todos.
type ManagerService interface {
	// AssignManager makes userID a manager of todoID on behalf of the todo
	// owner. Every failed attempt is written to the audit log in its own
	// transaction after the assignment rolls back and before the error is
	// returned.
	AssignManager(ctx context.Context, requester auth.AuthUser, todoID, userID uint) (*model.Manager, error)
	ListManagers(ctx context.Context, todoID uint) ([]model.Manager, error)
	DeleteManager(ctx context.Context, requester auth.AuthUser, todoID, managerID uint) error
}

type managerService struct {
	store    repository.Store
	auditLog repository.AuditLogRepository
	logger   *log.Logger
}

// NewManagerService creates a new manager service. auditLog must be built on
// the root database handle, not on a transaction.
func NewManagerService(store repository.Store, auditLog repository.AuditLogRepository, logger *log.Logger) ManagerService {
	return &managerService{
		store:    store,
		auditLog: auditLog,
		logger:   logger,
	}
}

func (s *managerService) AssignManager(ctx context.Context, requester auth.AuthUser, todoID, userID uint) (_ *model.Manager, err error) {
	ctx, span := telemetry.Tracer("taskhub/service").Start(ctx, "ManagerService.AssignManager",
		trace.WithAttributes(
			attribute.Int64("taskhub.request_user_id", int64(requester.UserID)),
			attribute.Int64("taskhub.todo_id", int64(todoID)),
			attribute.Int64("taskhub.target_user_id", int64(userID)),
		))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		manager  *model.Manager
		rejected error
	)

	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		m, err := assign(ctx, tx, requester.UserID, todoID, userID)
		if err != nil {
			rejected = err
			return err
		}
		manager = m
		return nil
	})
	if err != nil {
		// The assignment has rolled back and released its connection.
		cause := rejected
		if cause == nil {
			// The commit itself failed.
			cause = apperrors.Storage(err)
		}
		return nil, s.recordAttempt(ctx, requester.UserID, todoID, userID, cause)
	}
	return manager, nil
}

// assign runs the checks in order and persists the assignment.
func assign(ctx context.Context, tx repository.Store, requesterID, todoID, userID uint) (*model.Manager, error) {
	todo, err := tx.Todos().FindByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTodoNotFound
		}
		return nil, apperrors.Storage(fmt.Errorf("find todo: %w", err))
	}

	if userID == requesterID {
		return nil, apperrors.ErrSelfAssignment
	}
	if !todo.IsOwnedBy(requesterID) {
		return nil, apperrors.ErrNotTodoOwner
	}

	if _, err := tx.Users().FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage(fmt.Errorf("find user: %w", err))
	}

	exists, err := tx.Managers().ExistsByTodoAndUser(ctx, todoID, userID)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("check manager: %w", err))
	}
	if exists {
		return nil, apperrors.ErrAlreadyManager
	}

	manager := &model.Manager{TodoID: todoID, UserID: userID}
	if err := tx.Managers().Create(ctx, manager); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("create manager: %w", err))
	}

	created, err := tx.Managers().FindByID(ctx, manager.ID)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("reload manager: %w", err))
	}
	return created, nil
}

// recordAttempt writes the audit entry for a failed assignment and returns
// the error the caller should see. If the audit write fails as well, both
// errors are joined so neither is lost.
func (s *managerService) recordAttempt(ctx context.Context, requesterID, todoID, userID uint, cause error) error {
	if _, err := s.auditLog.Record(ctx, requesterID, todoID, userID); err != nil {
		if s.logger != nil {
			s.logger.Errorj(log.JSON{
				"event":           "audit_log_write_failed",
				"request_user_id": requesterID,
				"target_todo_id":  todoID,
				"target_user_id":  userID,
				"cause":           cause.Error(),
				"error":           err.Error(),
			})
		}
		return errors.Join(cause, apperrors.Storage(fmt.Errorf("record audit log: %w", err)))
	}
	return cause
}

func (s *managerService) ListManagers(ctx context.Context, todoID uint) ([]model.Manager, error) {
	if _, err := findTodo(ctx, s.store, todoID); err != nil {
		return nil, err
	}
	managers, err := s.store.Managers().ListByTodoID(ctx, todoID)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list managers: %w", err))
	}
	return managers, nil
}

func (s *managerService) DeleteManager(ctx context.Context, requester auth.AuthUser, todoID, managerID uint) error {
	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		todo, err := findTodo(ctx, tx, todoID)
		if err != nil {
			return err
		}
		if !todo.IsOwnedBy(requester.UserID) {
			return apperrors.ErrNotTodoOwner
		}

		manager, err := tx.Managers().FindByID(ctx, managerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrManagerNotFound
			}
			return apperrors.Storage(fmt.Errorf("find manager: %w", err))
		}
		if manager.TodoID != todoID {
			return apperrors.ErrManagerNotFound
		}

		if err := tx.Managers().Delete(ctx, manager); err != nil {
			return apperrors.Storage(fmt.Errorf("delete manager: %w", err))
		}
		return nil
	})
}

// findTodo loads a todo and maps a missing row to ErrTodoNotFound.
func findTodo(ctx context.Context, store repository.Store, todoID uint) (*model.Todo, error) {
	todo, err := store.Todos().FindByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTodoNotFound
		}
		return nil, apperrors.Storage(fmt.Errorf("find todo: %w", err))
	}
	return todo, nil
}
