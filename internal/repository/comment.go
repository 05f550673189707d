package repository

import (
	"context"

	"github.com/postline/backend/internal/model"
	"github.com/postline/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		logger.GetLogger().Error("Failed to create comment",
			zap.Uint("post_id", comment.PostID),
			zap.Uint("owner_id", comment.OwnerID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Preload("Owner").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetAll returns comments oldest first, optionally filtered by post or owner.
func (r *CommentRepository) GetAll(ctx context.Context, postID, ownerID *uint) ([]model.Comment, error) {
	query := r.db.WithContext(ctx).Preload("Owner").Order("created_at ASC")

	if postID != nil {
		query = query.Where("post_id = ?", *postID)
	}
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var comments []model.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) Update(ctx context.Context, id uint, body string) (*model.Comment, error) {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("comment", body)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
