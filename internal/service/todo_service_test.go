package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/auth"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
	"taskhub/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestTodoService_CreateTodoRegistersOwnerAsManager(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", "managerNickname")
	service := NewTodoService(repository.NewStore(db, nil))
	ctx := context.Background()

	todo, err := service.CreateTodo(ctx, requesterOf(owner), CreateTodoInput{Title: "Sunny Task", Contents: "walk", Weather: "Sunny"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, todo.OwnerID)
	assert.Equal(t, "owner@example.com", todo.Owner.Email)

	page, err := service.SearchTodos(ctx, model.TodoSearchFilter{ManagerNickname: strPtr("managerNickname")}, model.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(1), page.Content[0].ManagerCount)
	assert.Equal(t, int64(0), page.Content[0].CommentCount)
}

func TestTodoService_CreateTodoUnknownOwner(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewTodoService(repository.NewStore(db, nil))

	_, err := service.CreateTodo(context.Background(), auth.AuthUser{UserID: 404}, CreateTodoInput{Title: "orphan"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Todo{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTodoService_GetTodo(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", "")
	created := testutil.CreateTodo(t, db, testutil.TodoFixture{Title: "read me", Owner: owner})
	service := NewTodoService(repository.NewStore(db, nil))

	todo, err := service.GetTodo(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "read me", todo.Title)
	assert.Equal(t, owner.Email, todo.Owner.Email)

	_, err = service.GetTodo(context.Background(), 9999)
	assert.ErrorIs(t, err, apperrors.ErrTodoNotFound)
}

func TestTodoService_ListTodosPageMetadata(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", "")
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		testutil.CreateTodo(t, db, testutil.TodoFixture{Title: "task", Weather: "Sunny", Owner: owner, UpdatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	testutil.CreateTodo(t, db, testutil.TodoFixture{Title: "task", Weather: "Rainy", Owner: owner})
	service := NewTodoService(repository.NewStore(db, nil))

	page, err := service.ListTodos(context.Background(), model.TodoListFilter{Weather: strPtr("Sunny")}, model.NewPageRequest(2, 2))
	require.NoError(t, err)

	assert.Len(t, page.Content, 2)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	for _, item := range page.Content {
		assert.Equal(t, "Sunny", item.Weather)
	}
}

func TestTodoService_ListTodosEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewTodoService(repository.NewStore(db, nil))

	page, err := service.ListTodos(context.Background(), model.TodoListFilter{}, model.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Zero(t, page.TotalElements)
	assert.Zero(t, page.TotalPages)
}

func TestTodoService_DeleteTodo(t *testing.T) {
	tests := []struct {
		name          string
		requester     func(owner, stranger, admin *model.User) auth.AuthUser
		expectedError error
	}{
		{
			name:      "owner deletes",
			requester: func(owner, _, _ *model.User) auth.AuthUser { return requesterOf(owner) },
		},
		{
			name:      "admin deletes",
			requester: func(_, _, admin *model.User) auth.AuthUser { return requesterOf(admin) },
		},
		{
			name:          "stranger is forbidden",
			requester:     func(_, stranger, _ *model.User) auth.AuthUser { return requesterOf(stranger) },
			expectedError: apperrors.ErrNotTodoOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewDB(t)
			owner := testutil.CreateUser(t, db, "owner@example.com", "")
			stranger := testutil.CreateUser(t, db, "stranger@example.com", "")
			admin := testutil.CreateUser(t, db, "admin@example.com", "")
			require.NoError(t, db.Model(admin).Update("role", model.UserRoleAdmin).Error)
			admin.Role = model.UserRoleAdmin

			todo := testutil.CreateTodo(t, db, testutil.TodoFixture{Title: "doomed", Owner: owner})
			testutil.AddComments(t, db, todo, owner, 2)
			service := NewTodoService(repository.NewStore(db, nil))

			err := service.DeleteTodo(context.Background(), tt.requester(owner, stranger, admin), todo.ID)

			var remaining int64
			require.NoError(t, db.Model(&model.Todo{}).Count(&remaining).Error)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Equal(t, int64(1), remaining)
				return
			}
			assert.NoError(t, err)
			assert.Zero(t, remaining)
		})
	}
}
