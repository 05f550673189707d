package repository

import (
	"context"
	"testing"

	"github.com/postline/backend/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Comment{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) *model.User {
	t.Helper()

	user := &model.User{
		Email:         email,
		Username:      username,
		Password:      "hashed-password",
		RefreshTokens: []string{},
	}
	if err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func newComment(postID, ownerID uint, body string) *model.Comment {
	return &model.Comment{
		Comment: body,
		OwnerID: ownerID,
		PostID:  postID,
	}
}

func createTestPost(t *testing.T, db *gorm.DB, ownerID uint, title, content string) *model.Post {
	t.Helper()

	post := &model.Post{
		Title:   title,
		Content: content,
		OwnerID: ownerID,
	}
	if err := NewPostRepository(db).Create(context.Background(), post); err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	return post
}
