package store

import (
	"context"
	"time"

	"github.com/starford/corkboard/internal/models"
)

// Users is the account storage used by the auth package.
type Users interface {
	CreateUser(ctx context.Context, username, email string, passwordHash []byte, createdAt time.Time) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// Notes is the note storage used by the note service.
type Notes interface {
	InsertNote(ctx context.Context, ownerID int64, content string, x, y float64, createdAt time.Time) (*models.Note, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
	CountNotesBetween(ctx context.Context, ownerID int64, from, to time.Time) (int, error)
}

// Verify *DB satisfies both interfaces at compile time.
var (
	_ Users = (*DB)(nil)
	_ Notes = (*DB)(nil)
)
