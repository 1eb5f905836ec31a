package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/gorm"

	"taskhub/internal/auth"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
	"taskhub/internal/testutil"
)

type managerFixture struct {
	db       *gorm.DB
	owner    *model.User
	target   *model.User
	stranger *model.User
	todo     *model.Todo
	audit    repository.AuditLogRepository
	service  ManagerService
}

func newManagerFixture(t *testing.T) managerFixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := managerFixture{
		db:       db,
		owner:    testutil.CreateUser(t, db, "owner@example.com", "owner"),
		target:   testutil.CreateUser(t, db, "target@example.com", "target"),
		stranger: testutil.CreateUser(t, db, "stranger@example.com", "stranger"),
		audit:    repository.NewAuditLogRepository(db),
	}
	f.todo = testutil.CreateTodo(t, db, testutil.TodoFixture{Title: "shared task", Weather: "Sunny", Owner: f.owner})
	f.service = NewManagerService(repository.NewStore(db, nil), f.audit, log.New("test"))
	return f
}

func requesterOf(u *model.User) auth.AuthUser {
	return auth.AuthUser{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func countManagers(t *testing.T, db *gorm.DB, todoID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Manager{}).Where("todo_id = ?", todoID).Count(&n).Error)
	return n
}

func TestManagerService_AssignManager(t *testing.T) {
	f := newManagerFixture(t)

	manager, err := f.service.AssignManager(context.Background(), requesterOf(f.owner), f.todo.ID, f.target.ID)
	require.NoError(t, err)

	assert.Equal(t, f.todo.ID, manager.TodoID)
	assert.Equal(t, f.target.ID, manager.UserID)
	assert.Equal(t, "target@example.com", manager.User.Email)
	assert.Equal(t, int64(2), countManagers(t, f.db, f.todo.ID))
	assert.Equal(t, int64(0), testutil.CountAuditLogs(t, f.db))
}

func TestManagerService_AssignManagerFailuresAreAudited(t *testing.T) {
	tests := []struct {
		name          string
		requester     func(f managerFixture) *model.User
		todoID        func(f managerFixture) uint
		userID        func(f managerFixture) uint
		setup         func(t *testing.T, f managerFixture)
		expectedError error
		category      error
	}{
		{
			name:          "todo does not exist",
			requester:     func(f managerFixture) *model.User { return f.owner },
			todoID:        func(f managerFixture) uint { return 9999 },
			userID:        func(f managerFixture) uint { return f.target.ID },
			expectedError: apperrors.ErrTodoNotFound,
			category:      apperrors.ErrNotFound,
		},
		{
			name:          "owner assigns themselves",
			requester:     func(f managerFixture) *model.User { return f.owner },
			todoID:        func(f managerFixture) uint { return f.todo.ID },
			userID:        func(f managerFixture) uint { return f.owner.ID },
			expectedError: apperrors.ErrSelfAssignment,
			category:      apperrors.ErrInvalidOperation,
		},
		{
			name:          "requester is not the owner",
			requester:     func(f managerFixture) *model.User { return f.stranger },
			todoID:        func(f managerFixture) uint { return f.todo.ID },
			userID:        func(f managerFixture) uint { return f.target.ID },
			expectedError: apperrors.ErrNotTodoOwner,
			category:      apperrors.ErrForbidden,
		},
		{
			name:          "target user does not exist",
			requester:     func(f managerFixture) *model.User { return f.owner },
			todoID:        func(f managerFixture) uint { return f.todo.ID },
			userID:        func(f managerFixture) uint { return 9999 },
			expectedError: apperrors.ErrUserNotFound,
			category:      apperrors.ErrNotFound,
		},
		{
			name:      "target already manages the todo",
			requester: func(f managerFixture) *model.User { return f.owner },
			todoID:    func(f managerFixture) uint { return f.todo.ID },
			userID:    func(f managerFixture) uint { return f.target.ID },
			setup: func(t *testing.T, f managerFixture) {
				testutil.AddManager(t, f.db, f.todo, f.target)
			},
			expectedError: apperrors.ErrAlreadyManager,
			category:      apperrors.ErrInvalidOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newManagerFixture(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}
			requester := tt.requester(f)
			todoID, userID := tt.todoID(f), tt.userID(f)
			managersBefore := countManagers(t, f.db, f.todo.ID)

			manager, err := f.service.AssignManager(context.Background(), requesterOf(requester), todoID, userID)

			assert.Nil(t, manager)
			assert.ErrorIs(t, err, tt.expectedError)
			assert.ErrorIs(t, err, tt.category)
			assert.NotErrorIs(t, err, apperrors.ErrStorage)
			assert.Equal(t, managersBefore, countManagers(t, f.db, f.todo.ID))

			logs, err := f.audit.ListByRequester(context.Background(), requester.ID)
			require.NoError(t, err)
			require.Len(t, logs, 1)
			assert.Equal(t, requester.ID, logs[0].RequestUserID)
			assert.Equal(t, todoID, logs[0].TargetTodoID)
			assert.Equal(t, userID, logs[0].TargetUserID)
		})
	}
}

func TestManagerService_EveryFailedAttemptAddsAnEntry(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.service.AssignManager(ctx, requesterOf(f.stranger), f.todo.ID, f.target.ID)
		require.ErrorIs(t, err, apperrors.ErrNotTodoOwner)
	}

	assert.Equal(t, int64(3), testutil.CountAuditLogs(t, f.db))
}

func TestManagerService_ConcurrentFailuresAreAuditedWithSmallPool(t *testing.T) {
	f := newManagerFixture(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(2)

	const attempts = 2
	store := newBarrierStore(repository.NewStore(f.db, nil), attempts)
	service := NewManagerService(store, f.audit, log.New("test"))

	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.AssignManager(context.Background(), requesterOf(f.owner), f.todo.ID, f.owner.ID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, apperrors.ErrSelfAssignment)
		assert.NotErrorIs(t, err, apperrors.ErrStorage)
	}
	assert.Equal(t, int64(attempts), testutil.CountAuditLogs(t, f.db))
}

func TestManagerService_AuditFailureIsJoined(t *testing.T) {
	f := newManagerFixture(t)
	auditErr := errors.New("audit table is gone")

	audit := new(MockAuditLogRepository)
	audit.On("Record", mock.Anything, f.owner.ID, f.todo.ID, f.owner.ID).Return(nil, auditErr).Once()

	var buf bytes.Buffer
	logger := log.New("test")
	logger.SetOutput(&buf)

	service := NewManagerService(repository.NewStore(f.db, nil), audit, logger)
	_, err := service.AssignManager(context.Background(), requesterOf(f.owner), f.todo.ID, f.owner.ID)

	assert.ErrorIs(t, err, apperrors.ErrSelfAssignment)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.ErrorIs(t, err, auditErr)
	assert.Contains(t, buf.String(), "audit_log_write_failed")

	// The validation failure still decides the response.
	httpErr := apperrors.MapErrorToHTTP(err)
	assert.Equal(t, 400, httpErr.StatusCode)
	assert.Equal(t, apperrors.ErrSelfAssignment.Error(), httpErr.Message)

	audit.AssertExpectations(t)
}

func TestManagerService_CommitFailureIsAudited(t *testing.T) {
	f := newManagerFixture(t)
	commitErr := errors.New("commit failed")

	audit := new(MockAuditLogRepository)
	audit.On("Record", mock.Anything, f.owner.ID, f.todo.ID, f.target.ID).Return(&model.AuditLog{}, nil).Once()

	store := &failingCommitStore{Store: repository.NewStore(f.db, nil), commitErr: commitErr}
	service := NewManagerService(store, audit, log.New("test"))

	manager, err := service.AssignManager(context.Background(), requesterOf(f.owner), f.todo.ID, f.target.ID)

	assert.Nil(t, manager)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.ErrorIs(t, err, commitErr)
	audit.AssertExpectations(t)
}

func TestManagerService_AssignManagerTraces(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	f := newManagerFixture(t)
	_, err := f.service.AssignManager(context.Background(), requesterOf(f.owner), f.todo.ID, f.owner.ID)
	require.ErrorIs(t, err, apperrors.ErrSelfAssignment)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	record, assign := spans[0], spans[1]
	assert.Equal(t, "AuditLog.Record", record.Name())
	assert.Equal(t, codes.Unset, record.Status().Code)
	assert.Equal(t, "ManagerService.AssignManager", assign.Name())
	assert.Equal(t, codes.Error, assign.Status().Code)
	assert.Equal(t, assign.SpanContext().SpanID(), record.Parent().SpanID())
}

func TestManagerService_ListManagers(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	_, err := f.service.AssignManager(ctx, requesterOf(f.owner), f.todo.ID, f.target.ID)
	require.NoError(t, err)

	managers, err := f.service.ListManagers(ctx, f.todo.ID)
	require.NoError(t, err)
	require.Len(t, managers, 2)
	assert.Equal(t, f.owner.ID, managers[0].UserID)
	assert.Equal(t, "target@example.com", managers[1].User.Email)

	_, err = f.service.ListManagers(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrTodoNotFound)
}

func TestManagerService_DeleteManager(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	assigned := testutil.AddManager(t, f.db, f.todo, f.target)

	other := testutil.CreateTodo(t, f.db, testutil.TodoFixture{Title: "other", Owner: f.owner})

	assert.ErrorIs(t, f.service.DeleteManager(ctx, requesterOf(f.stranger), f.todo.ID, assigned.ID), apperrors.ErrNotTodoOwner)
	assert.ErrorIs(t, f.service.DeleteManager(ctx, requesterOf(f.owner), other.ID, assigned.ID), apperrors.ErrManagerNotFound)
	assert.ErrorIs(t, f.service.DeleteManager(ctx, requesterOf(f.owner), f.todo.ID, 9999), apperrors.ErrManagerNotFound)
	assert.ErrorIs(t, f.service.DeleteManager(ctx, requesterOf(f.owner), 9999, assigned.ID), apperrors.ErrTodoNotFound)

	require.NoError(t, f.service.DeleteManager(ctx, requesterOf(f.owner), f.todo.ID, assigned.ID))
	assert.Equal(t, int64(1), countManagers(t, f.db, f.todo.ID))
}
