// Package client talks to the corkboard HTTP API. Client satisfies
// board.Backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/starford/corkboard/internal/apperr"
	"github.com/starford/corkboard/internal/models"
)

const defaultBaseURL = "http://127.0.0.1:8080"

// Client is a JSON client for the /api routes of one server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL. An empty baseURL uses the
// local default.
func New(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewWithHTTPClient is New with a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	if hc != nil {
		c.http = hc
	}
	return c
}

// Authenticate resolves token through GET /api/auth/me. A rejected token
// yields (nil, nil).
func (c *Client) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	var id models.Identity
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", token, nil, &id); err != nil {
		if errors.Is(err, apperr.ErrAuth) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := c.doJSON(ctx, http.MethodGet, "/api/notes", "", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, token, content string, x, y float64) (*models.Note, error) {
	var note models.Note
	body := map[string]any{"content": content, "x": x, "y": y}
	if err := c.doJSON(ctx, http.MethodPost, "/api/notes", token, body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) GetQuota(ctx context.Context, token string) (*models.Quota, error) {
	var q models.Quota
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/quota", token, nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// APIError is a non-2xx response. It unwraps to the apperr kind matching its
// status, so callers classify it with errors.Is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return apperr.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.ErrAuth
	case http.StatusTooManyRequests:
		return apperr.ErrQuotaExceeded
	case http.StatusConflict:
		return apperr.ErrConflict
	case http.StatusNotFound:
		return apperr.ErrNotFound
	default:
		return nil
	}
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(data, &payload); err == nil {
		msg = strings.TrimSpace(payload.Error)
	}
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
