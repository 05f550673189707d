package dto

import "time"

type UserResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email,omitempty"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the owner projection embedded in posts, comments and likes.
type UserSummary struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type UpdateProfileRequest struct {
	Username       string `json:"username" binding:"omitempty,username"`
	ProfilePicture string `json:"profile_picture" binding:"omitempty,max=512"`
	Bio            string `json:"bio" binding:"omitempty,max=500"`
}

type UpdateCredentialsRequest struct {
	Username    string `json:"username" binding:"omitempty,username"`
	NewPassword string `json:"new_password" binding:"omitempty,min=6,max=100"`
}
