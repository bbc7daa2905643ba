package model

import "time"

// Roles recognised by the permission checks.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Memory is a single shared post: an image with a caption plus its social state.
// JSON field names match the stored document layout (created_at/likes/likedBy)
// for compatibility with existing data.
type Memory struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Likes       int       `json:"likes"`
	LikedBy     []int64   `json:"likedBy"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}

// Comment is an entry in a memory's append-only comment list.
type Comment struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an account in the directory.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CanPost   bool      `json:"can_post"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// Actor identifies who is performing a mutation. It is passed explicitly into
// every call that needs a permission decision; there is no ambient current user.
type Actor struct {
	ID   int64
	Role string
}

// IsAdmin reports whether the actor holds elevated privilege.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Normalize repairs legacy records so every Memory returned to callers has the
// canonical shape: non-nil likedBy/comments and a like count equal to the
// cardinality of likedBy.
func (m *Memory) Normalize() {
	if m.LikedBy == nil {
		m.LikedBy = []int64{}
	}
	if m.Comments == nil {
		m.Comments = []Comment{}
	}
	m.Likes = len(m.LikedBy)
}

// HasLiked reports whether userID is in the memory's likedBy set.
func (m *Memory) HasLiked(userID int64) bool {
	for _, id := range m.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
