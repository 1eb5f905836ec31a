package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	CreateBatch(ctx context.Context, users []model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindNicknameByNickname returns nil, nil when no user has the nickname.
	FindNicknameByNickname(ctx context.Context, nickname string) (*model.UserNickname, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	// UpdateNickname sets the nickname only if none is set yet and returns
	// gorm.ErrRecordNotFound otherwise.
	UpdateNickname(ctx context.Context, id uint, nickname string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CreateBatch inserts users in chunks of 500.
func (r *userRepository) CreateBatch(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(users, 500).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindNicknameByNickname(ctx context.Context, nickname string) (*model.UserNickname, error) {
	var result model.UserNickname
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.nickname AS nickname").
		Where("users.nickname = ?", nickname).
		Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("nickname = ?", nickname).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpdateNickname(ctx context.Context, id uint, nickname string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND (nickname IS NULL OR nickname = '')", id).
		Update("nickname", nickname)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
