package sqlite

import (
	"context"
	"database/sql"
)

// ddl mirrors the persisted document layout: likedBy and comments are stored
// as JSON arrays, likes is kept as a materialized count for compatibility
// with existing data.
const ddl = `
CREATE TABLE IF NOT EXISTS memories (
    id          TEXT PRIMARY KEY,
    user_id     INTEGER NOT NULL,
    username    TEXT    NOT NULL,
    title       TEXT    NOT NULL,
    description TEXT    NOT NULL DEFAULT '',
    image_url   TEXT    NOT NULL,
    likes       INTEGER NOT NULL DEFAULT 0,
    liked_by    TEXT    NOT NULL DEFAULT '[]',
    comments    TEXT    NOT NULL DEFAULT '[]',
    created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_created_at ON memories(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_memories_user_id ON memories(user_id);

CREATE TABLE IF NOT EXISTS users (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    username   TEXT    NOT NULL UNIQUE,
    email      TEXT    NOT NULL UNIQUE,
    password   TEXT    NOT NULL,
    role       TEXT    NOT NULL DEFAULT 'member',
    can_post   INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, ddl)
	return err
}
