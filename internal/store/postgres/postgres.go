package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/KIDDASS/memories-instagram-app/model"
	"github.com/KIDDASS/memories-instagram-app/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Memories() store.Memories { return &memories{db: s.db} }
func (s *pgStore) Users() store.Users       { return &users{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS memories (
            id          TEXT PRIMARY KEY,
            user_id     BIGINT      NOT NULL,
            username    TEXT        NOT NULL,
            title       TEXT        NOT NULL,
            description TEXT        NOT NULL DEFAULT '',
            image_url   TEXT        NOT NULL,
            likes       INT         NOT NULL DEFAULT 0,
            liked_by    JSONB       NOT NULL DEFAULT '[]',
            comments    JSONB       NOT NULL DEFAULT '[]',
            created_at  TIMESTAMPTZ NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_memories_created_at ON memories (created_at DESC);
        CREATE INDEX IF NOT EXISTS idx_memories_user_id ON memories (user_id);

        CREATE TABLE IF NOT EXISTS users (
            id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
            username   TEXT        NOT NULL UNIQUE,
            email      TEXT        NOT NULL UNIQUE,
            password   TEXT        NOT NULL,
            role       TEXT        NOT NULL DEFAULT 'member',
            can_post   BOOLEAN     NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL
        );
    `)
	return classify(err)
}

// classify maps driver failures onto the shared store sentinels. Connection
// loss becomes model.ErrUnavailable so callers can distinguish an unreachable
// store from a business-rule outcome.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception class
			return fmt.Errorf("%w: %v", model.ErrUnavailable, err)
		case pgErr.Code == "23505": // unique_violation
			return model.ErrConflict
		}
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	}
	return err
}

// --- Memories ---

type memories struct{ db *sql.DB }

func (m *memories) Create(ctx context.Context, mm *model.Memory) (*model.Memory, error) {
	out := *mm
	out.ID = uuid.New().String()
	out.Likes = 0
	out.LikedBy = []int64{}
	out.Comments = []model.Comment{}

	var created time.Time
	row := m.db.QueryRowContext(ctx, `
        INSERT INTO memories (id, user_id, username, title, description, image_url, created_at)
        VALUES ($1,$2,$3,$4,$5,$6, now())
        RETURNING created_at
    `, out.ID, out.UserID, out.Username, out.Title, out.Description, out.ImageURL)
	if err := row.Scan(&created); err != nil {
		return nil, classify(err)
	}
	out.CreatedAt = created
	return &out, nil
}

func (m *memories) List(ctx context.Context, limit int) ([]*model.Memory, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT id, user_id, username, title, description, image_url, liked_by, comments, created_at
        FROM memories ORDER BY created_at DESC LIMIT $1
    `, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = rows.Close() }()
	out := []*model.Memory{}
	for rows.Next() {
		mm, err := scanMemory(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, mm)
	}
	return out, classify(rows.Err())
}

func (m *memories) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	mm, err := scanMemory(m.db.QueryRowContext(ctx, `
        SELECT id, user_id, username, title, description, image_url, liked_by, comments, created_at
        FROM memories WHERE id = $1
    `, id))
	if err != nil {
		return nil, classify(err)
	}
	return mm, nil
}

func (m *memories) Delete(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM memories WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ToggleLike runs the read-modify-write under SELECT ... FOR UPDATE so two
// racing toggles on the same record serialize at the row lock and the
// likes == |likedBy| invariant survives.
func (m *memories) ToggleLike(ctx context.Context, id string, userID int64) (*model.Memory, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	mm, err := scanMemory(tx.QueryRowContext(ctx, `
        SELECT id, user_id, username, title, description, image_url, liked_by, comments, created_at
        FROM memories WHERE id = $1 FOR UPDATE
    `, id))
	if err != nil {
		return nil, classify(err)
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
	if _, err := tx.ExecContext(ctx, `UPDATE memories SET likes = $1, liked_by = $2 WHERE id = $3`,
		mm.Likes, likedJSON, id); err != nil {
		return nil, classify(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(err)
	}
	return mm, nil
}

func (m *memories) AddComment(ctx context.Context, id string, c *model.Comment) (*model.Comment, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	mm, err := scanMemory(tx.QueryRowContext(ctx, `
        SELECT id, user_id, username, title, description, image_url, liked_by, comments, created_at
        FROM memories WHERE id = $1 FOR UPDATE
    `, id))
	if err != nil {
		return nil, classify(err)
	}

	out := *c
	out.CreatedAt = time.Now().UTC()
	mm.Comments = append(mm.Comments, out)

	commentsJSON, err := json.Marshal(mm.Comments)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE memories SET comments = $1 WHERE id = $2`,
		commentsJSON, id); err != nil {
		return nil, classify(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemory(row rowScanner) (*model.Memory, error) {
	var mm model.Memory
	var likedJSON, commentsJSON []byte
	if err := row.Scan(&mm.ID, &mm.UserID, &mm.Username, &mm.Title, &mm.Description,
		&mm.ImageURL, &likedJSON, &commentsJSON, &mm.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(likedJSON, &mm.LikedBy); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(commentsJSON, &mm.Comments); err != nil {
		return nil, err
	}
	mm.Normalize()
	return &mm, nil
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	out := *m
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (username, email, password, role, can_post, created_at)
        VALUES ($1,$2,$3,$4,$5, now())
        RETURNING id, created_at
    `, out.Username, out.Email, out.Password, out.Role, out.CanPost)
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

func (u *users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, `
        SELECT id, username, email, password, role, can_post, created_at FROM users WHERE id = $1
    `, id))
}

func (u *users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, `
        SELECT id, username, email, password, role, can_post, created_at FROM users WHERE username = $1
    `, username))
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, `
        SELECT id, username, email, password, role, can_post, created_at FROM users WHERE email = $1
    `, email))
}

func (u *users) List(ctx context.Context) ([]*model.User, error) {
	rows, err := u.db.QueryContext(ctx, `
        SELECT id, username, email, password, role, can_post, created_at FROM users ORDER BY created_at
    `)
	if err != nil {
		return nil, classify(err)
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
	return out, classify(rows.Err())
}

func (u *users) SetCanPost(ctx context.Context, id int64, allowed bool) (*model.User, error) {
	res, err := u.db.ExecContext(ctx, `UPDATE users SET can_post = $1 WHERE id = $2`, allowed, id)
	if err != nil {
		return nil, classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return u.GetByID(ctx, id)
}

func (u *users) Count(ctx context.Context) (int, error) {
	var n int
	err := u.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, classify(err)
}

func scanUser(row rowScanner) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.ID, &out.Username, &out.Email, &out.Password, &out.Role, &out.CanPost, &out.CreatedAt); err != nil {
		return nil, classify(err)
	}
	if out.Avatar == "" && out.Username != "" {
		out.Avatar = strings.ToUpper(out.Username[:1])
	}
	return &out, nil
}
