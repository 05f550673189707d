package dto

import "time"

type CreateCommentRequest struct {
	PostID  uint   `json:"post_id" binding:"required"`
	Comment string `json:"comment" binding:"required,max=2000"`
}

type UpdateCommentRequest struct {
	Comment string `json:"comment" binding:"required,max=2000"`
}

type CommentResponse struct {
	ID        uint         `json:"id"`
	Comment   string       `json:"comment"`
	PostID    uint         `json:"post_id"`
	Owner     *UserSummary `json:"owner,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
