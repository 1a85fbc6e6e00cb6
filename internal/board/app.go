package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"

	"github.com/starford/corkboard/internal/apperr"
	"github.com/starford/corkboard/internal/models"
	"github.com/starford/corkboard/internal/render"
	"github.com/starford/corkboard/internal/viewport"
)

var (
	ErrNoPendingNote      = errors.New("board: no note entry is open")
	ErrSubmissionInFlight = errors.New("board: a note is already being submitted")

	ErrDraftEmpty   = apperr.New(apperr.ErrValidation, "Content is required")
	ErrDraftTooLong = apperr.New(apperr.ErrValidation, "Note content too long (max 200 characters)")
	ErrSignedOut    = apperr.New(apperr.ErrAuth, "Sign in to place notes")
	ErrQuotaUsedUp  = apperr.New(apperr.ErrQuotaExceeded, "You have reached your daily limit of notes")
)

// Prompt is the modal the UI should show.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptAuth
	PromptNote
	PromptQuotaNotice
)

// HUD is the text the UI overlays on the canvas.
type HUD struct {
	Coordinates string
	Zoom        string
	Quota       string // empty when signed out
	Prompt      Prompt
	Draft       string
	Submitting  bool
}

// App is the client application state. Its methods are meant to be called
// from a single event loop. SubmitNote may block on the network; a second
// SubmitNote while one is outstanding fails with ErrSubmissionInFlight.
type App struct {
	backend  Backend
	renderer *render.Renderer
	logger   *slog.Logger
	redraw   func()

	viewport *viewport.Viewport
	session  Session
	quota    *QuotaGuard
	ctrl     *Controller

	notes      []models.Note
	prompt     Prompt
	draft      string
	submitting atomic.Bool
}

// Option configures an App.
type Option func(*App)

// WithRedraw sets the hook called after every state change that affects the
// picture. The hook typically calls Render.
func WithRedraw(fn func()) Option {
	return func(a *App) { a.redraw = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithRenderer replaces the renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(a *App) { a.renderer = r }
}

// New creates an App talking to backend.
func New(backend Backend, opts ...Option) *App {
	a := &App{
		backend:  backend,
		renderer: &render.Renderer{},
		logger:   slog.Default(),
		redraw:   func() {},
		viewport: viewport.New(),
		quota:    NewQuotaGuard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ctrl = NewController(a.viewport, &a.session, a.quota)
	return a
}

// Viewport exposes the view for rendering and tests.
func (a *App) Viewport() *viewport.Viewport { return a.viewport }

// Mode returns the placement controller mode.
func (a *App) Mode() Mode { return a.ctrl.Mode() }

// Identity returns the signed-in identity, if any.
func (a *App) Identity() (models.Identity, bool) { return a.session.Identity() }

// Token returns the current bearer token.
func (a *App) Token() string { return a.session.Token() }

// Quota returns the local quota mirror.
func (a *App) Quota() models.Quota { return a.quota.Snapshot() }

// Notes returns a copy of the in-memory note list in render order.
func (a *App) Notes() []models.Note {
	return append([]models.Note(nil), a.notes...)
}

// Start restores a session from a stored token, asking the server who the
// token belongs to, and loads the board. A rejected token silently leaves
// the app signed out.
func (a *App) Start(ctx context.Context, token string) error {
	if token != "" {
		id, err := a.backend.Authenticate(ctx, token)
		switch {
		case err != nil:
			a.logger.Warn("board: session restore failed", slog.String("error", err.Error()))
			a.session.Clear()
		case id == nil:
			a.session.Clear()
		default:
			a.session.Establish(*id, token)
			a.syncQuota(ctx)
		}
	}
	return a.LoadNotes(ctx)
}

// LoadNotes replaces the in-memory note list with the server's.
func (a *App) LoadNotes(ctx context.Context) error {
	notes, err := a.backend.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("board: load notes: %w", err)
	}
	a.notes = notes
	a.redraw()
	return nil
}

// Login signs in, re-syncs the quota mirror and reloads the board.
func (a *App) Login(ctx context.Context, username, password string) error {
	res, err := a.backend.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return a.signedIn(ctx, res)
}

// Register creates an account and signs in with it.
func (a *App) Register(ctx context.Context, username, email, password string) error {
	res, err := a.backend.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	return a.signedIn(ctx, res)
}

// Logout clears the session and any open entry.
func (a *App) Logout() {
	a.clearSession()
	a.ctrl.Cancel()
	a.prompt = PromptNone
	a.draft = ""
	a.redraw()
}

// PointerDown forwards a press to the controller and updates the prompt.
func (a *App) PointerDown(ev PointerEvent) Outcome {
	out := a.ctrl.PointerDown(ev)
	switch out {
	case OutcomeEntryOpened:
		a.prompt = PromptNote
		a.draft = ""
	case OutcomeNeedAuth:
		a.prompt = PromptAuth
	case OutcomeQuotaExhausted:
		a.prompt = PromptQuotaNotice
	}
	if out != OutcomeIgnored {
		a.redraw()
	}
	return out
}

// PointerMove updates hover coordinates and pans while dragging.
func (a *App) PointerMove(x, y float64) {
	if a.ctrl.PointerMove(x, y) {
		a.redraw()
	}
}

// PointerUp ends a drag.
func (a *App) PointerUp() { a.ctrl.PointerUp() }

// PointerLeave ends a drag when the pointer leaves the canvas.
func (a *App) PointerLeave() { a.ctrl.PointerLeave() }

// Wheel zooms around the cursor.
func (a *App) Wheel(x, y, deltaY float64) {
	if a.viewport.Wheel(x, y, deltaY) {
		a.redraw()
	}
}

// ZoomIn zooms in one step.
func (a *App) ZoomIn() {
	a.viewport.ZoomIn()
	a.redraw()
}

// ZoomOut zooms out one step.
func (a *App) ZoomOut() {
	a.viewport.ZoomOut()
	a.redraw()
}

// ResetView restores the default view.
func (a *App) ResetView() {
	a.viewport.Reset()
	a.redraw()
}

// DismissPrompt closes an auth prompt or quota notice, or cancels a note entry.
func (a *App) DismissPrompt() {
	if a.prompt == PromptNote {
		a.CancelNote()
		return
	}
	a.prompt = PromptNone
}

// CancelNote discards the open entry without contacting the server.
func (a *App) CancelNote() {
	if a.ctrl.Cancel() {
		a.prompt = PromptNone
		a.draft = ""
		a.redraw()
	}
}

// SubmitNote creates a note at the pending point. Any rejection leaves the
// entry open with the draft kept; only success closes it. A rejected token
// additionally signs the user out so they can sign in and resubmit.
func (a *App) SubmitNote(ctx context.Context, content string) (*models.Note, error) {
	if !a.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer a.submitting.Store(false)

	pt, ok := a.ctrl.Pending()
	if !ok {
		return nil, ErrNoPendingNote
	}
	a.draft = content

	if strings.TrimSpace(content) == "" {
		return nil, ErrDraftEmpty
	}
	if models.ContentLength(content) > models.MaxContentLength {
		return nil, ErrDraftTooLong
	}
	if !a.session.Authenticated() {
		return nil, ErrSignedOut
	}
	if a.quota.Exhausted() {
		return nil, ErrQuotaUsedUp
	}

	note, err := a.backend.CreateNote(ctx, a.session.Token(), content, pt.X, pt.Y)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrAuth):
			a.clearSession()
		case errors.Is(err, apperr.ErrQuotaExceeded):
			a.syncQuota(ctx)
		}
		a.redraw()
		return nil, err
	}

	a.notes = append(a.notes, *note)
	a.quota.Increment()
	a.syncQuota(ctx)
	a.ctrl.Placed()
	a.prompt = PromptNone
	a.draft = ""
	a.redraw()
	return note, nil
}

// Render draws the board onto s.
func (a *App) Render(s render.Surface, width, height float64) {
	a.renderer.Render(s, a.viewport, width, height, a.notes)
}

// HUD returns the overlay text for the current state.
func (a *App) HUD() HUD {
	h := a.ctrl.Hover()
	hud := HUD{
		Coordinates: fmt.Sprintf("x: %d, y: %d", int(math.Round(h.X)), int(math.Round(h.Y))),
		Zoom:        fmt.Sprintf("Zoom: %d%%", a.viewport.ZoomPercent()),
		Prompt:      a.prompt,
		Draft:       a.draft,
		Submitting:  a.submitting.Load(),
	}
	if a.session.Authenticated() {
		q := a.quota.Snapshot()
		hud.Quota = fmt.Sprintf("%d/%d", q.Used, q.Limit)
	}
	return hud
}

func (a *App) signedIn(ctx context.Context, res *models.AuthResult) error {
	a.session.Establish(res.User, res.Token)
	if a.prompt == PromptAuth {
		a.prompt = PromptNone
	}
	a.syncQuota(ctx)
	return a.LoadNotes(ctx)
}

func (a *App) clearSession() {
	a.session.Clear()
	a.quota.Reset()
}

// syncQuota overwrites the mirror with server truth. Failures keep the
// current value, except that a rejected token signs the user out.
func (a *App) syncQuota(ctx context.Context) {
	q, err := a.backend.GetQuota(ctx, a.session.Token())
	if err != nil {
		if errors.Is(err, apperr.ErrAuth) {
			a.clearSession()
			return
		}
		a.logger.Warn("board: quota sync failed", slog.String("error", err.Error()))
		return
	}
	a.quota.Sync(*q)
}
