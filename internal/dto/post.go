package dto

import "time"

type CreatePostRequest struct {
	Title   string `form:"title" json:"title" binding:"required,max=200"`
	Content string `form:"content" json:"content" binding:"required,max=5000"`
}

type UpdatePostRequest struct {
	Title   string `json:"title" binding:"omitempty,max=200"`
	Content string `json:"content" binding:"omitempty,max=5000"`
}

type PostResponse struct {
	ID        uint         `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Image     string       `json:"image,omitempty"`
	Owner     *UserSummary `json:"owner,omitempty"`
	LikeCount int          `json:"like_count"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
