package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// managerNicknameSubquery correlates a todo with the users managing it.
const managerNicknameSubquery = "SELECT 1 FROM managers sm JOIN users su ON su.id = sm.user_id WHERE sm.todo_id = todos.id"

// TodoRepository defines todo persistence and the filtered read queries.
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	FindByID(ctx context.Context, id uint) (*model.Todo, error)
	// FindWithOwner loads the todo and its owner in one query and returns
	// nil, nil when the todo does not exist.
	FindWithOwner(ctx context.Context, id uint) (*model.Todo, error)
	ListByWeatherAndPeriod(ctx context.Context, filter model.TodoListFilter, page model.PageRequest) ([]model.TodoSummary, int64, error)
	Search(ctx context.Context, filter model.TodoSearchFilter, page model.PageRequest) ([]model.TodoSearchSummary, int64, error)
	// Delete removes the todo together with its managers and comments.
	Delete(ctx context.Context, todo *model.Todo) error
}

type todoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new todo repository.
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{db: db}
}

// Create creates a new todo record.
func (r *todoRepository) Create(ctx context.Context, todo *model.Todo) error {
	return r.db.WithContext(ctx).Omit("Owner", "Managers", "Comments").Create(todo).Error
}

// FindByID finds a todo by ID.
func (r *todoRepository) FindByID(ctx context.Context, id uint) (*model.Todo, error) {
	var todo model.Todo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) FindWithOwner(ctx context.Context, id uint) (*model.Todo, error) {
	var todo model.Todo
	err := r.db.WithContext(ctx).
		Joins("Owner").
		Where("todos.id = ?", id).
		Take(&todo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// ListByWeatherAndPeriod pages todos matching the optional weather and
// modification window, newest modification first. The total is counted by a
// separate query under the same condition.
func (r *todoRepository) ListByWeatherAndPeriod(ctx context.Context, filter model.TodoListFilter, page model.PageRequest) ([]model.TodoSummary, int64, error) {
	cond := And(
		Equal("todos.weather", filter.Weather),
		AtOrAfter("todos.updated_at", filter.StartTime),
		AtOrBefore("todos.updated_at", filter.EndTime),
	)

	var todos []model.Todo
	if err := cond.Apply(r.db.WithContext(ctx).Joins("Owner")).
		Order("todos.updated_at DESC").
		Order("todos.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&todos).Error; err != nil {
		return nil, 0, err
	}

	total, err := r.countDistinct(ctx, cond)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]model.TodoSummary, 0, len(todos))
	for _, t := range todos {
		summaries = append(summaries, model.NewTodoSummary(t))
	}
	return summaries, total, nil
}

// Search pages todos by title, creation window and manager nickname, newest
// first, with distinct manager and comment counts per todo.
func (r *todoRepository) Search(ctx context.Context, filter model.TodoSearchFilter, page model.PageRequest) ([]model.TodoSearchSummary, int64, error) {
	cond := And(
		Contains("todos.title", filter.Title),
		AtOrAfter("todos.created_at", filter.StartTime),
		AtOrBefore("todos.created_at", filter.EndTime),
		Exists(managerNicknameSubquery, Contains("su.nickname", filter.ManagerNickname)),
	)

	// Managers and comments are both one-to-many from todos, so the joined
	// rows are their cross product; only DISTINCT counts are meaningful.
	var rows []model.TodoSearchSummary
	if err := cond.Apply(r.db.WithContext(ctx).Model(&model.Todo{})).
		Select("todos.id AS id, todos.title AS title, " +
			"COUNT(DISTINCT managers.id) AS manager_count, " +
			"COUNT(DISTINCT comments.id) AS comment_count").
		Joins("LEFT JOIN managers ON managers.todo_id = todos.id").
		Joins("LEFT JOIN comments ON comments.todo_id = todos.id").
		Group("todos.id, todos.title, todos.created_at").
		Order("todos.created_at DESC").
		Order("todos.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	total, err := r.countDistinct(ctx, cond)
	if err != nil {
		return nil, 0, err
	}
	if rows == nil {
		rows = []model.TodoSearchSummary{}
	}
	return rows, total, nil
}

// countDistinct counts todo ids under cond without any fan-out joins.
func (r *todoRepository) countDistinct(ctx context.Context, cond Condition) (int64, error) {
	var total int64
	if err := cond.Apply(r.db.WithContext(ctx).Model(&model.Todo{})).
		Distinct("todos.id").
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *todoRepository) Delete(ctx context.Context, todo *model.Todo) error {
	return r.db.WithContext(ctx).Select("Managers", "Comments").Delete(todo).Error
}
