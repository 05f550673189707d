package model

import "gorm.io/gorm"

// Post is a user post with an optional stored image filename. Likes is the
// set of users who liked the post, kept in a join table.
type Post struct {
	gorm.Model
	Title   string  `gorm:"column:title;not null" json:"title"`
	Content string  `gorm:"column:content;not null" json:"content"`
	OwnerID uint    `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Owner   *User   `gorm:"foreignKey:OwnerID" json:"-"`
	Image   string  `gorm:"column:image" json:"image,omitempty"`
	Likes   []*User `gorm:"many2many:post_likes" json:"-"`
}
