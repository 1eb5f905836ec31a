package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskhub/internal/auth"
	"taskhub/internal/cache"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const defaultNicknameCacheTTL = 5 * time.Minute

// UserService exposes user lookups and profile updates.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	// SearchByNickname looks up an exact nickname. Hits are cached.
	SearchByNickname(ctx context.Context, nickname string) (*model.UserNickname, error)
	ChangePassword(ctx context.Context, requester auth.AuthUser, oldPassword, newPassword string) error
	// UpdateNickname sets the requester's nickname. It can only be set once.
	UpdateNickname(ctx context.Context, requester auth.AuthUser, nickname string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewUserService builds a UserService with repository and cache. cache may
// be nil; ttl <= 0 selects the default.
func NewUserService(repo repository.UserRepository, cache *cache.Client, ttl time.Duration) UserService {
	if ttl <= 0 {
		ttl = defaultNicknameCacheTTL
	}
	return &userService{repo: repo, cache: cache, ttl: ttl}
}

func nicknameCacheKey(nickname string) string {
	return "user:nickname:" + nickname
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return findUser(ctx, s.repo, id)
}

func (s *userService) SearchByNickname(ctx context.Context, nickname string) (*model.UserNickname, error) {
	var cached model.UserNickname
	if s.cache.GetJSON(ctx, nicknameCacheKey(nickname), &cached) {
		return &cached, nil
	}

	result, err := s.repo.FindNicknameByNickname(ctx, nickname)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("find nickname: %w", err))
	}
	if result == nil {
		return nil, apperrors.ErrUserNotFound
	}

	_ = s.cache.SetJSON(ctx, nicknameCacheKey(nickname), result, s.ttl)
	return result, nil
}

func (s *userService) ChangePassword(ctx context.Context, requester auth.AuthUser, oldPassword, newPassword string) error {
	user, err := findUser(ctx, s.repo, requester.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.ErrWrongPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)) == nil {
		return apperrors.ErrSamePassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Storage(fmt.Errorf("update password: %w", err))
	}
	return nil
}

func (s *userService) UpdateNickname(ctx context.Context, requester auth.AuthUser, nickname string) (*model.User, error) {
	user, err := findUser(ctx, s.repo, requester.UserID)
	if err != nil {
		return nil, err
	}
	if user.HasNickname() {
		return nil, apperrors.ErrNicknameAlreadySet
	}

	taken, err := s.repo.ExistsByNickname(ctx, nickname)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("check nickname: %w", err))
	}
	if taken {
		return nil, apperrors.ErrNicknameTaken
	}

	if err := s.repo.UpdateNickname(ctx, user.ID, nickname); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, apperrors.ErrNicknameTaken
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Set concurrently by another request.
			return nil, apperrors.ErrNicknameAlreadySet
		default:
			return nil, apperrors.Storage(fmt.Errorf("update nickname: %w", err))
		}
	}
	_ = s.cache.Delete(ctx, nicknameCacheKey(nickname))

	user.Nickname = &nickname
	return user, nil
}

// findUser loads a user and maps a missing row to ErrUserNotFound.
func findUser(ctx context.Context, users repository.UserRepository, id uint) (*model.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage(fmt.Errorf("find user: %w", err))
	}
	return user, nil
}
