// Package storetest holds a compliance suite run against every store
// implementation, so postgres and sqlite stay behaviorally interchangeable.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/KIDDASS/memories-instagram-app/internal/store"
	"github.com/KIDDASS/memories-instagram-app/model"
)

func newMemory(userID int64, username, title string) *model.Memory {
	return &model.Memory{
		UserID:      userID,
		Username:    username,
		Title:       title,
		Description: "a day to remember",
		ImageURL:    "https://example.com/photo.jpg",
	}
}

// Run exercises the full Memories and Users contract against s.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("CreateAndGetRoundTrip", func(t *testing.T) {
		created, err := s.Memories().Create(ctx, newMemory(1, "alice", "Beach day"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == "" {
			t.Fatal("created memory has no id")
		}
		if created.Likes != 0 || len(created.LikedBy) != 0 || len(created.Comments) != 0 {
			t.Fatalf("new memory not empty: %+v", created)
		}

		got, err := s.Memories().GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Title != "Beach day" || got.Username != "alice" || got.UserID != 1 {
			t.Fatalf("round trip mismatch: %+v", got)
		}
		if got.LikedBy == nil || got.Comments == nil {
			t.Fatal("likedBy and comments must come back as empty slices, not nil")
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Memories().GetByID(ctx, "no-such-id")
		if !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		var ids []string
		for i := 0; i < 3; i++ {
			m, err := s.Memories().Create(ctx, newMemory(2, "bob", fmt.Sprintf("post %d", i)))
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			ids = append(ids, m.ID)
			time.Sleep(5 * time.Millisecond)
		}
		out, err := s.Memories().List(ctx, 100)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		pos := map[string]int{}
		for i, m := range out {
			pos[m.ID] = i
		}
		if pos[ids[2]] > pos[ids[1]] || pos[ids[1]] > pos[ids[0]] {
			t.Fatalf("feed not newest-first: %v", pos)
		}

		limited, err := s.Memories().List(ctx, 2)
		if err != nil {
			t.Fatalf("list limited: %v", err)
		}
		if len(limited) != 2 {
			t.Fatalf("limit not applied, got %d", len(limited))
		}
	})

	t.Run("ToggleLikeParity", func(t *testing.T) {
		m, err := s.Memories().Create(ctx, newMemory(3, "carol", "Sunset"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		liked, err := s.Memories().ToggleLike(ctx, m.ID, 7)
		if err != nil {
			t.Fatalf("toggle on: %v", err)
		}
		if liked.Likes != 1 || !liked.HasLiked(7) {
			t.Fatalf("after like: likes=%d likedBy=%v", liked.Likes, liked.LikedBy)
		}

		unliked, err := s.Memories().ToggleLike(ctx, m.ID, 7)
		if err != nil {
			t.Fatalf("toggle off: %v", err)
		}
		if unliked.Likes != 0 || unliked.HasLiked(7) {
			t.Fatalf("double toggle did not restore: likes=%d likedBy=%v", unliked.Likes, unliked.LikedBy)
		}
	})

	t.Run("LikesTrackDistinctUsers", func(t *testing.T) {
		m, err := s.Memories().Create(ctx, newMemory(3, "carol", "Harbor"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		for _, uid := range []int64{10, 11, 12} {
			if _, err := s.Memories().ToggleLike(ctx, m.ID, uid); err != nil {
				t.Fatalf("toggle %d: %v", uid, err)
			}
		}
		got, err := s.Memories().GetByID(ctx, m.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Likes != 3 || len(got.LikedBy) != 3 {
			t.Fatalf("likes must equal |likedBy|: likes=%d likedBy=%v", got.Likes, got.LikedBy)
		}
	})

	t.Run("CommentsKeptInOrder", func(t *testing.T) {
		m, err := s.Memories().Create(ctx, newMemory(4, "dave", "Picnic"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		texts := []string{"first", "second", "third"}
		for _, txt := range texts {
			c, err := s.Memories().AddComment(ctx, m.ID, &model.Comment{UserID: 5, Username: "eve", Text: txt})
			if err != nil {
				t.Fatalf("add comment %q: %v", txt, err)
			}
			if c.CreatedAt.IsZero() {
				t.Fatal("comment missing created_at")
			}
		}
		got, err := s.Memories().GetByID(ctx, m.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(got.Comments) != len(texts) {
			t.Fatalf("want %d comments, got %d", len(texts), len(got.Comments))
		}
		for i, txt := range texts {
			if got.Comments[i].Text != txt {
				t.Fatalf("comment %d: want %q, got %q", i, txt, got.Comments[i].Text)
			}
			if got.Comments[i].Username != "eve" {
				t.Fatalf("comment %d author lost: %+v", i, got.Comments[i])
			}
		}
	})

	t.Run("CommentOnMissingMemory", func(t *testing.T) {
		_, err := s.Memories().AddComment(ctx, "no-such-id", &model.Comment{UserID: 1, Username: "alice", Text: "hi"})
		if !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		m, err := s.Memories().Create(ctx, newMemory(6, "frank", "Old post"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := s.Memories().Delete(ctx, m.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := s.Memories().GetByID(ctx, m.ID); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("deleted memory still readable: %v", err)
		}
		if err := s.Memories().Delete(ctx, m.ID); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("second delete: want ErrNotFound, got %v", err)
		}
	})

	t.Run("Users", func(t *testing.T) {
		u, err := s.Users().Create(ctx, &model.User{
			Username: "grace",
			Email:    "grace@example.com",
			Password: "secret1",
			Role:     model.RoleMember,
			Avatar:   "G",
		})
		if err != nil {
			t.Fatalf("create user: %v", err)
		}
		if u.ID == 0 {
			t.Fatal("user id not assigned")
		}
		if u.CanPost {
			t.Fatal("new member must not be able to post")
		}

		if _, err := s.Users().Create(ctx, &model.User{
			Username: "grace",
			Email:    "other@example.com",
			Password: "secret2",
			Role:     model.RoleMember,
		}); !errors.Is(err, model.ErrConflict) {
			t.Fatalf("duplicate username: want ErrConflict, got %v", err)
		}

		byName, err := s.Users().GetByUsername(ctx, "grace")
		if err != nil || byName.ID != u.ID {
			t.Fatalf("get by username: %v (%+v)", err, byName)
		}
		byEmail, err := s.Users().GetByEmail(ctx, "grace@example.com")
		if err != nil || byEmail.ID != u.ID {
			t.Fatalf("get by email: %v (%+v)", err, byEmail)
		}

		granted, err := s.Users().SetCanPost(ctx, u.ID, true)
		if err != nil {
			t.Fatalf("grant: %v", err)
		}
		if !granted.CanPost {
			t.Fatal("grant did not stick")
		}
		if _, err := s.Users().SetCanPost(ctx, 999999, true); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("grant missing user: want ErrNotFound, got %v", err)
		}

		n, err := s.Users().Count(ctx)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n < 1 {
			t.Fatalf("count: want >= 1, got %d", n)
		}
		all, err := s.Users().List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != n {
			t.Fatalf("list/count mismatch: %d vs %d", len(all), n)
		}
	})
}
