package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the identity and session anchor. RefreshTokens holds the literal
// refresh-token strings currently honored for this user, in issue order; an
// empty list means logged out everywhere.
type User struct {
	gorm.Model
	Email          string                      `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Username       string                      `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Password       string                      `gorm:"column:password;not null" json:"-"`
	ProfilePicture string                      `gorm:"column:profile_picture" json:"profile_picture,omitempty"`
	Bio            string                      `gorm:"column:bio" json:"bio,omitempty"`
	RefreshTokens  datatypes.JSONSlice[string] `gorm:"column:refresh_tokens" json:"-"`
}
