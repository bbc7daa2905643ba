package store

import (
	"context"

	"github.com/KIDDASS/memories-instagram-app/model"
)

// Store exposes persistence operations required by the domain services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Memories() Memories
	Users() Users
}

// Memories is the persistence contract for the Memory aggregate. Mutations on
// a single record must be atomic: implementations either rely on the backing
// store's native row locking or serialize writers so that likes always equals
// the cardinality of likedBy, even under concurrent toggles.
type Memories interface {
	Create(ctx context.Context, m *model.Memory) (*model.Memory, error)
	List(ctx context.Context, limit int) ([]*model.Memory, error)
	GetByID(ctx context.Context, id string) (*model.Memory, error)
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string, userID int64) (*model.Memory, error)
	AddComment(ctx context.Context, id string, c *model.Comment) (*model.Comment, error)
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	SetCanPost(ctx context.Context, id int64, allowed bool) (*model.User, error)
	Count(ctx context.Context) (int, error)
}
