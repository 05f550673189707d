package service

import (
	"context"
	"strings"

	"github.com/postline/backend/internal/dto"
	apperrors "github.com/postline/backend/internal/errors"
	"github.com/postline/backend/internal/repository"
)

const searchLimit = 5

// SearchService runs a combined case-insensitive lookup over usernames and
// post content, returning at most searchLimit matches of each kind.
type SearchService struct {
	users *repository.UserRepository
	posts *repository.PostRepository
}

func NewSearchService(users *repository.UserRepository, posts *repository.PostRepository) *SearchService {
	return &SearchService{
		users: users,
		posts: posts,
	}
}

func (s *SearchService) Search(ctx context.Context, q string) ([]dto.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperrors.ErrInvalidInput
	}

	users, err := s.users.SearchByUsername(ctx, q, searchLimit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	posts, err := s.posts.SearchByContent(ctx, q, searchLimit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	results := make([]dto.SearchResult, 0, len(users)+len(posts))
	for i := range users {
		results = append(results, dto.SearchResult{
			Type: "user",
			User: newUserSummary(&users[i]),
		})
	}
	for i := range posts {
		results = append(results, dto.SearchResult{
			Type: "post",
			Post: newPostResponse(&posts[i]),
		})
	}
	return results, nil
}
