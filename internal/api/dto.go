package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/corkboard/internal/models"
	"github.com/starford/corkboard/internal/viewport"
)

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Username string `json:"username" example:"alice" validate:"required"`
	Email    string `json:"email" example:"alice@example.com" validate:"required"`
	Password string `json:"password" example:"correct horse" validate:"required"`
}

// LoginRequest is the request body for signing in.
type LoginRequest struct {
	Username string `json:"username" example:"alice" validate:"required"`
	Password string `json:"password" example:"correct horse" validate:"required"`
}

// AuthResponse is returned by login and registration.
type AuthResponse = models.AuthResult

// CreateNoteRequest is the request body for placing a note. Coordinates are
// pointers so that a missing coordinate can be told apart from zero.
type CreateNoteRequest struct {
	Content string   `json:"content" example:"hello" validate:"required"`
	X       *float64 `json:"x" example:"10" validate:"required"`
	Y       *float64 `json:"y" example:"20" validate:"required"`
}

// QuotaResponse reports the caller's daily allowance.
type QuotaResponse = models.Quota

// BoardQuery holds the view parameters for GET /board.svg.
type BoardQuery struct {
	Zoom   float64
	PanX   float64
	PanY   float64
	Width  float64
	Height float64
}

const maxBoardSide = 4096.0

// Validate checks the requested image size and zoom.
func (q *BoardQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Zoom, validation.Min(viewport.MinZoom), validation.Max(viewport.MaxZoom)),
		validation.Field(&q.PanX, validation.Min(-viewport.MaxPan), validation.Max(viewport.MaxPan)),
		validation.Field(&q.PanY, validation.Min(-viewport.MaxPan), validation.Max(viewport.MaxPan)),
		validation.Field(&q.Width, validation.Required, validation.Min(1.0), validation.Max(maxBoardSide)),
		validation.Field(&q.Height, validation.Required, validation.Min(1.0), validation.Max(maxBoardSide)),
	)
}
