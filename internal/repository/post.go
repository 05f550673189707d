package repository

import (
	"context"

	"github.com/postline/backend/internal/model"
	"github.com/postline/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		logger.GetLogger().Error("Failed to create post",
			zap.Uint("owner_id", post.OwnerID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Likes").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAll returns posts newest first, optionally filtered by owner.
func (r *PostRepository) GetAll(ctx context.Context, ownerID *uint) ([]model.Post, error) {
	query := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Likes").
		Order("created_at DESC")

	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var posts []model.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Post, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a post together with its likes and comments.
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{Model: gorm.Model{ID: id}}).Association("Likes").Clear(); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *PostRepository) HasLiked(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("post_likes").
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID uint) error {
	post := model.Post{Model: gorm.Model{ID: postID}}
	user := model.User{Model: gorm.Model{ID: userID}}
	return r.db.WithContext(ctx).Model(&post).Association("Likes").Append(&user)
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID uint) error {
	post := model.Post{Model: gorm.Model{ID: postID}}
	user := model.User{Model: gorm.Model{ID: userID}}
	return r.db.WithContext(ctx).Model(&post).Association("Likes").Delete(&user)
}

func (r *PostRepository) GetLikes(ctx context.Context, postID uint) ([]model.User, error) {
	var users []model.User
	post := model.Post{Model: gorm.Model{ID: postID}}
	err := r.db.WithContext(ctx).Model(&post).Association("Likes").Find(&users)
	return users, err
}

// SearchByContent returns up to limit posts whose content contains q,
// case-insensitively.
func (r *PostRepository) SearchByContent(ctx context.Context, q string, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("LOWER(content) LIKE LOWER(?)", "%"+q+"%").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
