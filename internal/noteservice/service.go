// Package noteservice implements the note listing and quota-gated creation
// workflows. The service is the sole authority on quota.
package noteservice

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/starford/corkboard/internal/apperr"
	"github.com/starford/corkboard/internal/metrics"
	"github.com/starford/corkboard/internal/models"
	"github.com/starford/corkboard/internal/store"
)

var (
	ErrContentRequired     = apperr.New(apperr.ErrValidation, "Content is required")
	ErrCoordinatesRequired = apperr.New(apperr.ErrValidation, "Coordinates are required")
	ErrCoordinatesInvalid  = apperr.New(apperr.ErrValidation, "Coordinates must be finite numbers")
	ErrContentTooLong      = apperr.New(apperr.ErrValidation, "Note content too long (max 200 characters)")
	ErrNotAuthenticated    = apperr.New(apperr.ErrAuth, "Access token required")
)

// CreateRequest is a note creation request. Nil coordinates are missing, not zero.
type CreateRequest struct {
	Content string
	X       *float64
	Y       *float64
}

// Service coordinates note storage and quota checks.
type Service struct {
	notes    store.Notes
	limit    int
	location *time.Location
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithDailyLimit overrides the per-user daily note limit.
func WithDailyLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLocation sets the time zone whose calendar day bounds the quota.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new note service.
func NewService(notes store.Notes, opts ...Option) *Service {
	s := &Service{
		notes:    notes,
		limit:    models.DailyNoteLimit,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limit returns the configured daily limit.
func (s *Service) Limit() int { return s.limit }

// ListNotes returns all notes regardless of caller, ascending by id.
func (s *Service) ListNotes(ctx context.Context) ([]models.Note, error) {
	return s.notes.ListNotes(ctx)
}

// CreateNote validates req, rechecks the owner's quota from storage and
// persists the note. The count and the insert are not atomic; concurrent
// submissions by one user may overshoot the limit slightly.
func (s *Service) CreateNote(ctx context.Context, owner *models.Identity, req CreateRequest) (*models.Note, error) {
	if owner == nil {
		return nil, ErrNotAuthenticated
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	// One clock read, so the note is stored on the day it was counted against.
	now := s.now()
	used, err := s.usedOn(ctx, owner.ID, now)
	if err != nil {
		return nil, err
	}
	if used >= s.limit {
		metrics.QuotaRejections.Inc()
		return nil, s.quotaExceeded()
	}

	note, err := s.notes.InsertNote(ctx, owner.ID, req.Content, *req.X, *req.Y, now)
	if err != nil {
		return nil, err
	}
	note.OwnerName = owner.Username
	metrics.NotesCreated.Inc()
	return note, nil
}

// GetQuota reports the owner's allowance using the same count as CreateNote.
func (s *Service) GetQuota(ctx context.Context, owner *models.Identity) (*models.Quota, error) {
	if owner == nil {
		return nil, ErrNotAuthenticated
	}
	used, err := s.usedOn(ctx, owner.ID, s.now())
	if err != nil {
		return nil, err
	}
	q := models.NewQuota(s.limit, used)
	return &q, nil
}

// Validate checks content presence, coordinate presence and content length,
// in that order.
func Validate(req CreateRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return ErrContentRequired
	}
	if req.X == nil || req.Y == nil {
		return ErrCoordinatesRequired
	}
	if !finite(*req.X) || !finite(*req.Y) {
		return ErrCoordinatesInvalid
	}
	if models.ContentLength(req.Content) > models.MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// DayBounds returns the start of t's calendar day in loc and the start of the next.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *Service) usedOn(ctx context.Context, ownerID int64, t time.Time) (int, error) {
	from, to := DayBounds(t, s.location)
	return s.notes.CountNotesBetween(ctx, ownerID, from, to)
}

func (s *Service) quotaExceeded() error {
	return apperr.New(apperr.ErrQuotaExceeded, fmt.Sprintf("Daily limit of %d notes reached", s.limit))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
