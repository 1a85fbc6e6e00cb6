package api

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/starford/corkboard/internal/auth"
	"github.com/starford/corkboard/internal/metrics"
	"github.com/starford/corkboard/internal/noteservice"
	"github.com/starford/corkboard/internal/render"
	"github.com/starford/corkboard/internal/viewport"
)

const maxBodyBytes = 64 << 10

// Handler holds API route handlers.
type Handler struct {
	auth     *auth.Service
	notes    *noteservice.Service
	renderer *render.Renderer
}

// NewHandler creates a new Handler.
func NewHandler(authSvc *auth.Service, notes *noteservice.Service, renderer *render.Renderer) *Handler {
	if renderer == nil {
		renderer = &render.Renderer{}
	}
	return &Handler{auth: authSvc, notes: notes, renderer: renderer}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// Register handles POST /api/auth/register.
//
//	@Summary		Create an account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RegisterRequest	true	"Account details"
//	@Success		201		{object}	AuthResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Router			/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, "register", err)
		return
	}
	slog.Info("user registered", slog.Int64("user_id", res.User.ID), slog.String("username", res.User.Username))
	writeJSON(w, http.StatusCreated, res)
}

// Login handles POST /api/auth/login.
//
//	@Summary		Sign in
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	AuthResponse
//	@Failure		400		{object}	errResponse
//	@Failure		401		{object}	errResponse
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			metrics.AuthFailures.WithLabelValues("bad_credentials").Inc()
		}
		writeError(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Me handles GET /api/auth/me.
//
//	@Summary		Current user
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	models.Identity
//	@Failure		401	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, identityFrom(r.Context()))
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List every note on the board
//	@Tags			notes
//	@Produce		json
//	@Success		200	{array}	models.Note
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.ListNotes(r.Context())
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Place a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to place"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Failure		401		{object}	errResponse
//	@Failure		429		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	owner := identityFrom(r.Context())
	note, err := h.notes.CreateNote(r.Context(), owner, noteservice.CreateRequest{
		Content: req.Content,
		X:       req.X,
		Y:       req.Y,
	})
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// Quota handles GET /api/user/quota.
//
//	@Summary		Daily note allowance of the caller
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	QuotaResponse
//	@Failure		401	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/user/quota [get]
func (h *Handler) Quota(w http.ResponseWriter, r *http.Request) {
	q, err := h.notes.GetQuota(r.Context(), identityFrom(r.Context()))
	if err != nil {
		writeError(w, "get quota", err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// BoardSVG handles GET /api/board.svg.
//
//	@Summary		Render the board as SVG
//	@Tags			board
//	@Produce		image/svg+xml
//	@Param			zoom	query	number	false	"Zoom factor"
//	@Param			panX	query	number	false	"Horizontal pan in world units"
//	@Param			panY	query	number	false	"Vertical pan in world units"
//	@Param			width	query	number	false	"Image width in pixels"
//	@Param			height	query	number	false	"Image height in pixels"
//	@Success		200
//	@Failure		400	{object}	errResponse
//	@Router			/board.svg [get]
func (h *Handler) BoardSVG(w http.ResponseWriter, r *http.Request) {
	q, ok := parseBoardQuery(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("view parameters must be numbers"))
		return
	}
	if err := q.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	notes, err := h.notes.ListNotes(r.Context())
	if err != nil {
		writeError(w, "render board", err)
		return
	}
	vp := viewport.New()
	vp.Set(q.Zoom, q.PanX, q.PanY)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(render.RenderSVG(h.renderer, vp, q.Width, q.Height, notes))
}

// parseBoardQuery reads the view parameters, filling in defaults for
// missing ones. It reports false when a present value is not a number.
func parseBoardQuery(r *http.Request) (BoardQuery, bool) {
	q := BoardQuery{Zoom: 1, Width: 1200, Height: 800}
	vals := r.URL.Query()
	fields := []struct {
		name string
		dst  *float64
	}{
		{"zoom", &q.Zoom},
		{"panX", &q.PanX},
		{"panY", &q.PanY},
		{"width", &q.Width},
		{"height", &q.Height},
	}
	for _, f := range fields {
		raw := vals.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return q, false
		}
		*f.dst = v
	}
	return q, true
}
