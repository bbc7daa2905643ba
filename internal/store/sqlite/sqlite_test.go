package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/KIDDASS/memories-instagram-app/internal/store/storetest"
	"github.com/KIDDASS/memories-instagram-app/model"
)

func newTestStore(t *testing.T) *sqliteStore {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	ss := s.(*sqliteStore)
	t.Cleanup(func() { _ = ss.Close() })
	return ss
}

func TestSQLiteStoreContract(t *testing.T) {
	storetest.Run(t, newTestStore(t))
}

// The pool is capped at one connection, so concurrent toggles are serialized
// and none of them is lost.
func TestSQLiteConcurrentToggles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m, err := s.Memories().Create(ctx, &model.Memory{
		UserID:   1,
		Username: "alice",
		Title:    "Busy post",
		ImageURL: "https://example.com/p.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const likers = 20
	var wg sync.WaitGroup
	errs := make(chan error, likers)
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			if _, err := s.Memories().ToggleLike(ctx, m.ID, uid); err != nil {
				errs <- err
			}
		}(int64(100 + i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("toggle: %v", err)
	}

	got, err := s.Memories().GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Likes != likers || len(got.LikedBy) != likers {
		t.Fatalf("lost updates: likes=%d likedBy=%d", got.Likes, len(got.LikedBy))
	}
}

func TestSQLiteHealthPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.HealthPing(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	_ = s.Close()
	if err := s.HealthPing(context.Background()); err == nil {
		t.Fatal("ping after close should fail")
	}
}
