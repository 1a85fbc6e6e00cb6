package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/corkboard/internal/apperr"
	"github.com/starford/corkboard/internal/models"
)

// CreateUser inserts a new account. A duplicate username yields apperr.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, username, email string, passwordHash []byte, createdAt time.Time) (*models.User, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, username, email, passwordHash, createdAt.UnixMilli())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, apperr.ErrConflict
		}
		return nil, fmt.Errorf("store: insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: user id: %w", err)
	}
	return &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.UnixMilli(createdAt.UnixMilli()),
	}, nil
}

// UserByUsername looks up an account by its unique name.
func (db *DB) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?
	`, username))
}

// UserByID looks up an account by id.
func (db *DB) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?
	`, id))
}

func (db *DB) scanUser(row *sql.Row) (*models.User, error) {
	var (
		u       models.User
		created int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: scan user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(created)
	return &u, nil
}

// InsertNote stores a note and returns it with its assigned id. OwnerName
// is left empty; ListNotes joins it in.
func (db *DB) InsertNote(ctx context.Context, ownerID int64, content string, x, y float64, createdAt time.Time) (*models.Note, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO notes (user_id, content, x_coordinate, y_coordinate, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, ownerID, content, x, y, createdAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("store: insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: note id: %w", err)
	}
	return &models.Note{
		ID:        id,
		OwnerID:   ownerID,
		Content:   content,
		X:         x,
		Y:         y,
		CreatedAt: time.UnixMilli(createdAt.UnixMilli()),
	}, nil
}

// ListNotes returns every note ordered by ascending id.
func (db *DB) ListNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT n.id, n.user_id, COALESCE(u.username, ''), n.content, n.x_coordinate, n.y_coordinate, n.created_at
		FROM notes n
		LEFT JOIN users u ON u.id = n.user_id
		ORDER BY n.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		var (
			n       models.Note
			created int64
		)
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.OwnerName, &n.Content, &n.X, &n.Y, &created); err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		n.CreatedAt = time.UnixMilli(created)
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountNotesBetween counts the notes ownerID created in [from, to).
func (db *DB) CountNotesBetween(ctx context.Context, ownerID int64, from, to time.Time) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notes WHERE user_id = ? AND created_at >= ? AND created_at < ?
	`, ownerID, from.UnixMilli(), to.UnixMilli()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count notes: %w", err)
	}
	return n, nil
}
