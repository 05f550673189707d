package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/postline/backend/internal/dto"
	apperrors "github.com/postline/backend/internal/errors"
	"github.com/postline/backend/internal/model"
	"github.com/postline/backend/internal/repository"
	"github.com/postline/backend/pkg/logger"
	"github.com/postline/backend/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PostService struct {
	posts *repository.PostRepository
	files *storage.Storage
	feed  *FeedCache
}

func NewPostService(posts *repository.PostRepository, files *storage.Storage, feed *FeedCache) *PostService {
	return &PostService{
		posts: posts,
		files: files,
		feed:  feed,
	}
}

// Upload is an optional image attached to a new post.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (s *PostService) Create(ctx context.Context, ownerID uint, req dto.CreatePostRequest, image *Upload) (*dto.PostResponse, error) {
	post := &model.Post{
		Title:   req.Title,
		Content: req.Content,
		OwnerID: ownerID,
	}

	if image != nil {
		name, err := s.files.Save(image.Filename, image.ContentType, image.Data)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		post.Image = "/storage/" + name
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.feed.Invalidate(ctx)

	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return newPostResponse(created), nil
}

func (s *PostService) GetByID(ctx context.Context, id uint) (*dto.PostResponse, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return newPostResponse(post), nil
}

// GetAll returns the post feed newest first, optionally restricted to one
// owner. The unfiltered feed goes through the cache.
func (s *PostService) GetAll(ctx context.Context, ownerID *uint) ([]dto.PostResponse, error) {
	cacheKey := "all"
	if ownerID != nil {
		cacheKey = fmt.Sprintf("owner:%d", *ownerID)
	}

	if cached, ok := s.feed.Get(ctx, cacheKey); ok {
		return cached, nil
	}

	posts, err := s.posts.GetAll(ctx, ownerID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, *newPostResponse(&posts[i]))
	}

	s.feed.Set(ctx, cacheKey, responses)
	return responses, nil
}

// Update applies partial changes to a post the caller owns.
func (s *PostService) Update(ctx context.Context, callerID, postID uint, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	if err := s.requireOwner(ctx, callerID, postID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Content != "" {
		updates["content"] = req.Content
	}

	post, err := s.posts.Update(ctx, postID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.feed.Invalidate(ctx)
	return newPostResponse(post), nil
}

// Delete removes a post the caller owns, along with its image file, likes
// and comments.
func (s *PostService) Delete(ctx context.Context, callerID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if post.OwnerID != callerID {
		return apperrors.ErrForbidden
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if post.Image != "" {
		if err := s.files.Remove(post.Image); err != nil {
			logger.GetLogger().Warn("Failed to remove post image",
				zap.Uint("post_id", postID),
				zap.String("image", post.Image),
				zap.Error(err),
			)
		}
	}

	s.feed.Invalidate(ctx)
	return nil
}

// Like records a like; liking a post twice is rejected.
func (s *PostService) Like(ctx context.Context, userID, postID uint) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	liked, err := s.posts.HasLiked(ctx, postID, userID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if liked {
		return apperrors.ErrAlreadyLiked
	}

	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.feed.Invalidate(ctx)
	return nil
}

// Unlike removes a like; unliking a post that was never liked is a no-op.
func (s *PostService) Unlike(ctx context.Context, userID, postID uint) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.feed.Invalidate(ctx)
	return nil
}

func (s *PostService) GetLikes(ctx context.Context, postID uint) ([]dto.UserSummary, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	users, err := s.posts.GetLikes(ctx, postID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	summaries := make([]dto.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, *newUserSummary(&users[i]))
	}
	return summaries, nil
}

func (s *PostService) requireOwner(ctx context.Context, callerID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if post.OwnerID != callerID {
		return apperrors.ErrForbidden
	}
	return nil
}

func newPostResponse(post *model.Post) *dto.PostResponse {
	return &dto.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Image:     post.Image,
		Owner:     newUserSummary(post.Owner),
		LikeCount: len(post.Likes),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}
