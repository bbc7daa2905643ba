package memory

// CreateMemoryRequest represents a request to post a new memory.
type CreateMemoryRequest struct {
	Title       string
	Description string
	ImageURL    string
	UserID      int64
	Username    string
}

// AddCommentRequest represents a request to append a comment to a memory.
type AddCommentRequest struct {
	UserID   int64
	Username string
	Text     string
}
