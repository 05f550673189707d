package model

import "gorm.io/gorm"

type Comment struct {
	gorm.Model
	Comment string `gorm:"column:comment;not null" json:"comment"`
	OwnerID uint   `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"-"`
	PostID  uint   `gorm:"column:post_id;not null;index" json:"post_id"`
}
