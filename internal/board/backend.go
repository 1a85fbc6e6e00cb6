// Package board is the client side of the note board: viewport-driven
// placement, the session, the quota mirror and the in-memory note list,
// owned by a single App value driven from one event loop.
package board

import (
	"context"

	"github.com/starford/corkboard/internal/models"
)

// Backend is the server surface the client consumes. Tokens are opaque.
type Backend interface {
	// Authenticate resolves token to an identity. An invalid token yields
	// (nil, nil); errors are transport or server failures.
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
	Login(ctx context.Context, username, password string) (*models.AuthResult, error)
	Register(ctx context.Context, username, email, password string) (*models.AuthResult, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
	CreateNote(ctx context.Context, token, content string, x, y float64) (*models.Note, error)
	GetQuota(ctx context.Context, token string) (*models.Quota, error)
}
