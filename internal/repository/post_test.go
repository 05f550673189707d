package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestPostLikeLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice@example.com", "alice")
	liker := createTestUser(t, db, "bob@example.com", "bob")
	post := createTestPost(t, db, owner.ID, "hello", "first post")

	liked, err := repo.HasLiked(ctx, post.ID, liker.ID)
	if err != nil {
		t.Fatalf("HasLiked failed: %v", err)
	}
	if liked {
		t.Fatal("Expected no like before AddLike")
	}

	if err := repo.AddLike(ctx, post.ID, liker.ID); err != nil {
		t.Fatalf("AddLike failed: %v", err)
	}

	liked, err = repo.HasLiked(ctx, post.ID, liker.ID)
	if err != nil {
		t.Fatalf("HasLiked failed: %v", err)
	}
	if !liked {
		t.Fatal("Expected like after AddLike")
	}

	likes, err := repo.GetLikes(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetLikes failed: %v", err)
	}
	if len(likes) != 1 || likes[0].ID != liker.ID {
		t.Errorf("Expected one like by user %d, got %v", liker.ID, likes)
	}

	if err := repo.RemoveLike(ctx, post.ID, liker.ID); err != nil {
		t.Fatalf("RemoveLike failed: %v", err)
	}

	liked, err = repo.HasLiked(ctx, post.ID, liker.ID)
	if err != nil {
		t.Fatalf("HasLiked failed: %v", err)
	}
	if liked {
		t.Error("Expected like removed")
	}
}

func TestPostDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice@example.com", "alice")
	commenter := createTestUser(t, db, "bob@example.com", "bob")
	post := createTestPost(t, db, owner.ID, "hello", "first post")

	if err := posts.AddLike(ctx, post.ID, commenter.ID); err != nil {
		t.Fatalf("AddLike failed: %v", err)
	}
	if err := comments.Create(ctx, newComment(post.ID, commenter.ID, "nice post")); err != nil {
		t.Fatalf("Create comment failed: %v", err)
	}

	if err := posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := posts.GetByID(ctx, post.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected post gone, got %v", err)
	}

	postID := post.ID
	remaining, err := comments.GetAll(ctx, &postID, nil)
	if err != nil {
		t.Fatalf("GetAll comments failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Expected comments deleted with post, %d remain", len(remaining))
	}
}

func TestPostGetAllOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice@example.com", "alice")
	first := createTestPost(t, db, owner.ID, "first", "oldest")
	second := createTestPost(t, db, owner.ID, "second", "newest")

	// Force distinct timestamps so ordering is deterministic.
	backdated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := db.Model(first).Update("created_at", backdated).Error; err != nil {
		t.Fatalf("Failed to backdate post: %v", err)
	}

	posts, err := repo.GetAll(ctx, nil)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != second.ID {
		t.Errorf("Expected newest post first, got post %d", posts[0].ID)
	}
}

func TestSearchByContent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice@example.com", "alice")
	createTestPost(t, db, owner.ID, "a", "Gophers are great")
	createTestPost(t, db, owner.ID, "b", "nothing to see here")

	results, err := repo.SearchByContent(ctx, "gopher", 5)
	if err != nil {
		t.Fatalf("SearchByContent failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(results))
	}
	if results[0].Content != "Gophers are great" {
		t.Errorf("Unexpected match: %s", results[0].Content)
	}
}
