package repository

import (
	"context"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// ManagerRepository defines manager assignment persistence operations.
type ManagerRepository interface {
	Create(ctx context.Context, manager *model.Manager) error
	FindByID(ctx context.Context, id uint) (*model.Manager, error)
	ExistsByTodoAndUser(ctx context.Context, todoID, userID uint) (bool, error)
	ListByTodoID(ctx context.Context, todoID uint) ([]model.Manager, error)
	Delete(ctx context.Context, manager *model.Manager) error
}

type managerRepository struct {
	db *gorm.DB
}

// NewManagerRepository creates a new manager repository.
func NewManagerRepository(db *gorm.DB) ManagerRepository {
	return &managerRepository{db: db}
}

// Create creates a new manager assignment.
func (r *managerRepository) Create(ctx context.Context, manager *model.Manager) error {
	return r.db.WithContext(ctx).Omit("User").Create(manager).Error
}

// FindByID finds an assignment by ID with its user loaded.
func (r *managerRepository) FindByID(ctx context.Context, id uint) (*model.Manager, error) {
	var manager model.Manager
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&manager).Error; err != nil {
		return nil, err
	}
	return &manager, nil
}

// ExistsByTodoAndUser reports whether userID already manages todoID.
func (r *managerRepository) ExistsByTodoAndUser(ctx context.Context, todoID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Manager{}).
		Where("todo_id = ? AND user_id = ?", todoID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByTodoID lists the managers of a todo, oldest assignment first.
func (r *managerRepository) ListByTodoID(ctx context.Context, todoID uint) ([]model.Manager, error) {
	var managers []model.Manager
	if err := r.db.WithContext(ctx).Preload("User").
		Where("todo_id = ?", todoID).
		Order("id ASC").
		Find(&managers).Error; err != nil {
		return nil, err
	}
	return managers, nil
}

// Delete removes an assignment.
func (r *managerRepository) Delete(ctx context.Context, manager *model.Manager) error {
	return r.db.WithContext(ctx).Delete(manager).Error
}
