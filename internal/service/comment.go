package service

import (
	"context"
	"errors"

	"github.com/postline/backend/internal/dto"
	apperrors "github.com/postline/backend/internal/errors"
	"github.com/postline/backend/internal/model"
	"github.com/postline/backend/internal/repository"
	"gorm.io/gorm"
)

type CommentService struct {
	comments *repository.CommentRepository
	posts    *repository.PostRepository
}

func NewCommentService(comments *repository.CommentRepository, posts *repository.PostRepository) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
	}
}

// Create attaches a comment to an existing post.
func (s *CommentService) Create(ctx context.Context, ownerID uint, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.posts.GetByID(ctx, req.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	comment := &model.Comment{
		Comment: req.Comment,
		OwnerID: ownerID,
		PostID:  req.PostID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	created, err := s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return newCommentResponse(created), nil
}

func (s *CommentService) GetByID(ctx context.Context, id uint) (*dto.CommentResponse, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return newCommentResponse(comment), nil
}

// GetAll lists comments oldest first, optionally filtered by post or owner.
func (s *CommentService) GetAll(ctx context.Context, postID, ownerID *uint) ([]dto.CommentResponse, error) {
	comments, err := s.comments.GetAll(ctx, postID, ownerID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *newCommentResponse(&comments[i]))
	}
	return responses, nil
}

// Update edits a comment the caller owns.
func (s *CommentService) Update(ctx context.Context, callerID, commentID uint, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if err := s.requireOwner(ctx, callerID, commentID); err != nil {
		return nil, err
	}

	comment, err := s.comments.Update(ctx, commentID, req.Comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return newCommentResponse(comment), nil
}

// Delete removes a comment the caller owns.
func (s *CommentService) Delete(ctx context.Context, callerID, commentID uint) error {
	if err := s.requireOwner(ctx, callerID, commentID); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func (s *CommentService) requireOwner(ctx context.Context, callerID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if comment.OwnerID != callerID {
		return apperrors.ErrForbidden
	}
	return nil
}

func newCommentResponse(comment *model.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:        comment.ID,
		Comment:   comment.Comment,
		PostID:    comment.PostID,
		Owner:     newUserSummary(comment.Owner),
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}
