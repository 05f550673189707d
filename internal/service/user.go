package service

import (
	"context"
	"errors"

	"github.com/postline/backend/internal/dto"
	apperrors "github.com/postline/backend/internal/errors"
	"github.com/postline/backend/internal/model"
	"github.com/postline/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the caller's own profile, email included.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return newUserResponse(user), nil
}

// GetByID returns a user's public profile.
func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := newUserResponse(user)
	response.Email = ""
	return response, nil
}

// UpdateProfile updates username, profile picture and bio. A username
// change keeps the uniqueness invariant.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	updates := map[string]interface{}{}

	if req.Username != "" {
		if err := s.checkUsernameFree(ctx, userID, req.Username); err != nil {
			return nil, err
		}
		updates["username"] = req.Username
	}
	if req.ProfilePicture != "" {
		updates["profile_picture"] = req.ProfilePicture
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}

	user, err := s.users.UpdateProfile(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return newUserResponse(user), nil
}

// UpdateCredentials changes the username and/or password. A new password is
// re-hashed before it touches the store.
func (s *UserService) UpdateCredentials(ctx context.Context, userID uint, req dto.UpdateCredentialsRequest) (*dto.UserResponse, error) {
	if req.Username != "" {
		if err := s.checkUsernameFree(ctx, userID, req.Username); err != nil {
			return nil, err
		}
	}

	if req.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	updates := map[string]interface{}{}
	if req.Username != "" {
		updates["username"] = req.Username
	}

	user, err := s.users.UpdateProfile(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return newUserResponse(user), nil
}

func (s *UserService) checkUsernameFree(ctx context.Context, userID uint, username string) error {
	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if current.Username == username {
		return nil
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if taken {
		return apperrors.ErrUsernameExists
	}
	return nil
}

func newUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
		Bio:            user.Bio,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func newUserSummary(user *model.User) *dto.UserSummary {
	if user == nil {
		return nil
	}
	return &dto.UserSummary{
		ID:             user.ID,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
	}
}
