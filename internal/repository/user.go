package repository

import (
	"context"

	"github.com/postline/backend/internal/model"
	"github.com/postline/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserRepository owns the user record, including the refresh-token list.
// All refresh-token mutations go through the dedicated methods below so the
// read-modify-write can later be replaced with an atomic conditional update
// without touching callers.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.GetLogger().Error("Failed to create user",
			zap.String("email", user.Email),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail loads a user for credential verification. The password hash is
// part of the record here; it must never travel past the service layer.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// UpdateProfile applies the given column updates to a user record.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) (*model.User, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			logger.GetLogger().Error("Failed to update user profile",
				zap.Uint("user_id", id),
				zap.Error(result.Error),
			)
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hashedPassword)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchByUsername returns up to limit users whose username contains q,
// case-insensitively.
func (r *UserRepository) SearchByUsername(ctx context.Context, q string, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE LOWER(?)", "%"+q+"%").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// ReplaceRefreshTokens overwrites the whole refresh-token list. Login uses
// this with a singleton list; an empty list logs the user out everywhere.
func (r *UserRepository) ReplaceRefreshTokens(ctx context.Context, id uint, tokens []string) error {
	if tokens == nil {
		tokens = []string{}
	}
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("refresh_tokens", datatypes.NewJSONSlice(tokens))
	if result.Error != nil {
		logger.GetLogger().Error("Failed to replace refresh tokens",
			zap.Uint("user_id", id),
			zap.Error(result.Error),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RotateRefreshToken removes the consumed token from the list and appends
// the replacement. The read-modify-write is not guarded by a transaction;
// concurrent rotations on the same user can race.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, id uint, consumed, replacement string) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tokens := make([]string, 0, len(user.RefreshTokens))
	for _, t := range user.RefreshTokens {
		if t != consumed {
			tokens = append(tokens, t)
		}
	}
	tokens = append(tokens, replacement)

	return r.ReplaceRefreshTokens(ctx, id, tokens)
}

// ClearRefreshTokens revokes every session for the user.
func (r *UserRepository) ClearRefreshTokens(ctx context.Context, id uint) error {
	return r.ReplaceRefreshTokens(ctx, id, []string{})
}
