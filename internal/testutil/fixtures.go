package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskhub/internal/model"
)

// CreateUser inserts a user; an empty nickname leaves it unset.
func CreateUser(t testing.TB, db *gorm.DB, email, nickname string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$10$fixturefixturefixturefixturefixturefixturefixturefixt",
		Role:         model.UserRoleUser,
	}
	if nickname != "" {
		user.Nickname = &nickname
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// TodoFixture describes a todo to insert. Zero timestamps are set by GORM.
type TodoFixture struct {
	Title     string
	Weather   string
	Owner     *model.User
	CreatedAt time.Time
	UpdatedAt time.Time
	// NoOwnerManager skips registering the owner as the first manager.
	NoOwnerManager bool
}

// CreateTodo inserts a todo and, unless disabled, its owner as manager.
func CreateTodo(t testing.TB, db *gorm.DB, f TodoFixture) *model.Todo {
	t.Helper()
	todo := &model.Todo{
		Title:     f.Title,
		Contents:  fmt.Sprintf("contents of %s", f.Title),
		Weather:   f.Weather,
		OwnerID:   f.Owner.ID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	require.NoError(t, db.Omit("Owner", "Managers", "Comments").Create(todo).Error)
	if !f.NoOwnerManager {
		AddManager(t, db, todo, f.Owner)
	}
	return todo
}

// AddManager assigns user as a manager of todo.
func AddManager(t testing.TB, db *gorm.DB, todo *model.Todo, user *model.User) *model.Manager {
	t.Helper()
	manager := &model.Manager{TodoID: todo.ID, UserID: user.ID}
	require.NoError(t, db.Omit("User").Create(manager).Error)
	return manager
}

// AddComments adds n comments by author to todo.
func AddComments(t testing.TB, db *gorm.DB, todo *model.Todo, author *model.User, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		comment := &model.Comment{
			Contents: fmt.Sprintf("comment %d", i+1),
			UserID:   author.ID,
			TodoID:   todo.ID,
		}
		require.NoError(t, db.Omit("User").Create(comment).Error)
	}
}

// CountAuditLogs returns the number of audit rows.
func CountAuditLogs(t testing.TB, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&count).Error)
	return count
}
