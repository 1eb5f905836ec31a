package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskhub/internal/auth"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries sign-up data. Nickname is optional and Role defaults
// to USER.
type RegisterInput struct {
	Email    string
	Password string
	Nickname *string
	Role     model.UserRole
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, user *model.User, err error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a new user with hashed password.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	role := input.Role
	if role == "" {
		role = model.UserRoleUser
	}
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Storage(fmt.Errorf("check user existence: %w", err))
	}

	if input.Nickname != nil && *input.Nickname != "" {
		taken, err := s.userRepo.ExistsByNickname(ctx, *input.Nickname)
		if err != nil {
			return nil, apperrors.Storage(fmt.Errorf("check nickname: %w", err))
		}
		if taken {
			return nil, apperrors.ErrNicknameTaken
		}
	} else {
		input.Nickname = nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Nickname:     input.Nickname,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, apperrors.Storage(fmt.Errorf("create user: %w", err))
	}
	return user, nil
}

// Login authenticates a user and returns an access token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, apperrors.Storage(fmt.Errorf("find user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, user, nil
}
