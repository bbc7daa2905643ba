package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KIDDASS/memories-instagram-app/model"
	"github.com/KIDDASS/memories-instagram-app/internal/store"
)

// New opens (or creates) a SQLite-backed store at the given path and ensures
// the schema exists. This driver serves both the server's local mode and the
// client's fallback store.
func New(ctx context.Context, path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// NewWithDB allows wiring with an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Memories() store.Memories { return &memories{db: s.db} }
func (s *sqliteStore) Users() store.Users       { return &users{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying connection.
func (s *sqliteStore) Close() error { return s.db.Close() }

// --- Memories ---

type memories struct{ db *sql.DB }

func (m *memories) Create(ctx context.Context, mm *model.Memory) (*model.Memory, error) {
	out := *mm
	out.ID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()
	out.Likes = 0
	out.LikedBy = []int64{}
	out.Comments = []model.Comment{}

	_, err := m.db.ExecContext(ctx, `
        INSERT INTO memories (id, user_id, username, title, description, image_url, likes, liked_by, comments, created_at)
        VALUES (?,?,?,?,?,?,0,'[]','[]',?)
    `, out.ID, out.UserID, out.Username, out.Title, out.Description, out.ImageURL, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memories) List(ctx context.Context, limit int) ([]*model.Memory, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT id, user_id, username, title, description, image_url, liked_by, comments, created_at
        FROM memories ORDER BY created_at DESC LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.Memory{}
	for rows.Next() {
		mm, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mm)
	}
	return out, rows.Err()
}

func (m *memories) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	row := m.db.QueryRowContext(ctx, `
        SELECT id, user_id, username, title, description, image_url, liked_by, comments, created_at
        FROM memories WHERE id = ?
    `, id)
	mm, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return mm, err
}

func (m *memories) Delete(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ToggleLike performs the read-modify-write inside a transaction. With the
// pool capped at one connection SQLite serializes writers, so the invariant
// likes == len(likedBy) holds under concurrent toggles.
func (m *memories) ToggleLike(ctx context.Context, id string, userID int64) (*model.Memory, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	mm, err := getForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if mm.HasLiked(userID) {
		kept := mm.LikedBy[:0]
		for _, uid := range mm.LikedBy {
			if uid != userID {
				kept = append(kept, uid)
			}
		}
		mm.LikedBy = kept
	} else {
		mm.LikedBy = append(mm.LikedBy, userID)
	}
	mm.Likes = len(mm.LikedBy)

	likedJSON, err := json.Marshal(mm.LikedBy)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE memories SET likes = ?, liked_by = ? WHERE id = ?`,
		mm.Likes, string(likedJSON), id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return mm, nil
}

func (m *memories) AddComment(ctx context.Context, id string, c *model.Comment) (*model.Comment, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	mm, err := getForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	out := *c
	out.CreatedAt = time.Now().UTC()
	mm.Comments = append(mm.Comments, out)

	commentsJSON, err := json.Marshal(mm.Comments)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE memories SET comments = ? WHERE id = ?`,
		string(commentsJSON), id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

func getForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Memory, error) {
	row := tx.QueryRowContext(ctx, `
        SELECT id, user_id, username, title, description, image_url, liked_by, comments, created_at
        FROM memories WHERE id = ?
    `, id)
	mm, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return mm, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemory(row rowScanner) (*model.Memory, error) {
	var mm model.Memory
	var likedJSON, commentsJSON string
	if err := row.Scan(&mm.ID, &mm.UserID, &mm.Username, &mm.Title, &mm.Description,
		&mm.ImageURL, &likedJSON, &commentsJSON, &mm.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(likedJSON), &mm.LikedBy); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(commentsJSON), &mm.Comments); err != nil {
		return nil, err
	}
	mm.Normalize()
	return &mm, nil
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	out := *m
	out.CreatedAt = time.Now().UTC()
	res, err := u.db.ExecContext(ctx, `
        INSERT INTO users (username, email, password, role, can_post, created_at)
        VALUES (?,?,?,?,?,?)
    `, out.Username, out.Email, out.Password, out.Role, out.CanPost, out.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out.ID = id
	return &out, nil
}

func (u *users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, `
        SELECT id, username, email, password, role, can_post, created_at FROM users WHERE id = ?
    `, id))
}

func (u *users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, `
        SELECT id, username, email, password, role, can_post, created_at FROM users WHERE username = ?
    `, username))
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, `
        SELECT id, username, email, password, role, can_post, created_at FROM users WHERE email = ?
    `, email))
}

func (u *users) List(ctx context.Context) ([]*model.User, error) {
	rows, err := u.db.QueryContext(ctx, `
        SELECT id, username, email, password, role, can_post, created_at FROM users ORDER BY created_at
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []*model.User{}
	for rows.Next() {
		usr, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, usr)
	}
	return out, rows.Err()
}

func (u *users) SetCanPost(ctx context.Context, id int64, allowed bool) (*model.User, error) {
	res, err := u.db.ExecContext(ctx, `UPDATE users SET can_post = ? WHERE id = ?`, allowed, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return u.GetByID(ctx, id)
}

func (u *users) Count(ctx context.Context) (int, error) {
	var n int
	err := u.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func scanUser(row rowScanner) (*model.User, error) {
	var out model.User
	err := row.Scan(&out.ID, &out.Username, &out.Email, &out.Password, &out.Role, &out.CanPost, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if out.Avatar == "" && out.Username != "" {
		out.Avatar = strings.ToUpper(out.Username[:1])
	}
	return &out, nil
}
