package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) CreateBatch(ctx context.Context, users []model.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindNicknameByNickname(ctx context.Context, nickname string) (*model.UserNickname, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserNickname), args.Error(1)
}

func (m *MockUserRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	args := m.Called(ctx, nickname)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateNickname(ctx context.Context, id uint, nickname string) error {
	args := m.Called(ctx, id, nickname)
	return args.Error(0)
}

// MockAuditLogRepository is a mock implementation of AuditLogRepository.
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Record(ctx context.Context, requestUserID, targetTodoID, targetUserID uint) (*model.AuditLog, error) {
	args := m.Called(ctx, requestUserID, targetTodoID, targetUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) ListByRequester(ctx context.Context, requestUserID uint) ([]model.AuditLog, error) {
	args := m.Called(ctx, requestUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

// failingCommitStore runs the callback against a real store and then
// reports the commit as failed.
type failingCommitStore struct {
	repository.Store
	commitErr error
}

func (s *failingCommitStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if err := s.Store.WithTransaction(ctx, fn); err != nil {
		return err
	}
	return s.commitErr
}

// barrierStore holds every transaction open until parties of them have
// started, then runs the callbacks.
type barrierStore struct {
	repository.Store
	arrived *sync.WaitGroup
}

func newBarrierStore(store repository.Store, parties int) *barrierStore {
	wg := &sync.WaitGroup{}
	wg.Add(parties)
	return &barrierStore{Store: store, arrived: wg}
}

func (s *barrierStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return s.Store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		s.arrived.Done()
		s.arrived.Wait()
		return fn(ctx, tx)
	})
}
