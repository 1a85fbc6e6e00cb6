package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/starford/corkboard/internal/auth"
	"github.com/starford/corkboard/internal/models"
	"github.com/starford/corkboard/internal/noteservice"
	"github.com/starford/corkboard/internal/testutil"
)

// testEnv sets up a temp SQLite DB, services and router for testing.
func testEnv(t *testing.T, opts RouterOptions) http.Handler {
	t.Helper()
	db := testutil.TestDB(t)
	tm, err := auth.NewTokenManager("api-test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	authSvc := auth.NewService(db, tm, auth.NewHasher(bcrypt.MinCost))
	notes := noteservice.NewService(db)
	return NewRouter(authSvc, notes, opts)
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, h http.Handler, username string) models.AuthResult {
	t.Helper()
	w := do(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username, "email": username + "@example.com", "password": "pw",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	var res models.AuthResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Token == "" || res.User.Username != username {
		t.Fatalf("register result = %+v", res)
	}
	return res
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestRegisterLoginMe(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	reg := register(t, h, "alice")

	w := do(t, h, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/auth/me", reg.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d", w.Code)
	}
	var id models.Identity
	_ = json.Unmarshal(w.Body.Bytes(), &id)
	if id != reg.User {
		t.Errorf("me = %+v, want %+v", id, reg.User)
	}
}

func TestRegisterErrors(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	register(t, h, "alice")

	w := do(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice", "email": "a@example.com", "password": "pw",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register = %d, want 409", w.Code)
	}

	w = do(t, h, http.MethodPost, "/auth/register", "", map[string]string{"username": "bob"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing fields = %d, want 400", w.Code)
	}
	if msg := errorMessage(t, w); msg != "All fields are required" {
		t.Errorf("error = %q", msg)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	register(t, h, "alice")

	w := do(t, h, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password = %d, want 401", w.Code)
	}
	w = do(t, h, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing password = %d, want 400", w.Code)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON = %d, want 400", w.Code)
	}
}

func TestCreateListQuota(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	alice := register(t, h, "alice")

	w := do(t, h, http.MethodPost, "/notes", alice.Token, map[string]any{"content": "hello", "x": 10, "y": 20})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Content != "hello" || created.X != 10 || created.Y != 20 || created.OwnerID != alice.User.ID {
		t.Errorf("created = %+v", created)
	}

	w = do(t, h, http.MethodGet, "/notes", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var notes []models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &notes)
	if len(notes) != 1 || notes[0].Content != "hello" || notes[0].OwnerName != "alice" {
		t.Errorf("notes = %+v", notes)
	}

	w = do(t, h, http.MethodGet, "/user/quota", alice.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("quota status = %d", w.Code)
	}
	var q models.Quota
	_ = json.Unmarshal(w.Body.Bytes(), &q)
	if q != (models.Quota{Limit: 10, Used: 1, Remaining: 9}) {
		t.Errorf("quota = %+v", q)
	}
}

func TestListNotesEmptyIsArray(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	w := do(t, h, http.MethodGet, "/notes", "", nil)
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("empty list body = %q, want []", got)
	}
}

func TestCreateRequiresToken(t *testing.T) {
	h := testEnv(t, RouterOptions{})

	w := do(t, h, http.MethodPost, "/notes", "", map[string]any{"content": "hi", "x": 0, "y": 0})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Access token required" {
		t.Errorf("error = %q", msg)
	}

	w = do(t, h, http.MethodPost, "/notes", "garbage", map[string]any{"content": "hi", "x": 0, "y": 0})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", w.Code)
	}

	// Reads stay public even with a bad token.
	w = do(t, h, http.MethodGet, "/notes", "garbage", nil)
	if w.Code != http.StatusOK {
		t.Errorf("list with bad token = %d, want 200", w.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	alice := register(t, h, "alice")

	cases := []struct {
		name string
		body map[string]any
		msg  string
	}{
		{"empty content", map[string]any{"content": "", "x": 1, "y": 1}, "Content is required"},
		{"missing x", map[string]any{"content": "a", "y": 1}, "Coordinates are required"},
		{"too long", map[string]any{"content": strings.Repeat("a", 201), "x": 1, "y": 1}, "Note content too long (max 200 characters)"},
		{"empty wins over missing coords", map[string]any{"content": "  "}, "Content is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/notes", alice.Token, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if msg := errorMessage(t, w); msg != tc.msg {
				t.Errorf("error = %q, want %q", msg, tc.msg)
			}
		})
	}

	w := do(t, h, http.MethodGet, "/user/quota", alice.Token, nil)
	var q models.Quota
	_ = json.Unmarshal(w.Body.Bytes(), &q)
	if q.Used != 0 {
		t.Errorf("rejected notes counted: used = %d", q.Used)
	}
}

func TestCreateQuotaExceeded(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	alice := register(t, h, "alice")
	bob := register(t, h, "bob")

	for i := range models.DailyNoteLimit {
		w := do(t, h, http.MethodPost, "/notes", alice.Token, map[string]any{"content": "n", "x": i, "y": 0})
		if w.Code != http.StatusCreated {
			t.Fatalf("create %d = %d", i, w.Code)
		}
	}
	w := do(t, h, http.MethodPost, "/notes", alice.Token, map[string]any{"content": "n", "x": 0, "y": 0})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("11th create = %d, want 429", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Daily limit of 10 notes reached" {
		t.Errorf("error = %q", msg)
	}

	w = do(t, h, http.MethodPost, "/notes", bob.Token, map[string]any{"content": "n", "x": 0, "y": 0})
	if w.Code != http.StatusCreated {
		t.Errorf("other user create = %d, want 201", w.Code)
	}
}

func TestQuotaRequiresToken(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	w := do(t, h, http.MethodGet, "/user/quota", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("quota without token = %d, want 401", w.Code)
	}
}

func TestBoardSVG(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	alice := register(t, h, "alice")
	do(t, h, http.MethodPost, "/notes", alice.Token, map[string]any{"content": "pinned", "x": 10, "y": 20})

	w := do(t, h, http.MethodGet, "/board.svg?zoom=1&width=400&height=300", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("board status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<svg") || !strings.Contains(body, "pinned") {
		t.Errorf("unexpected svg: %s", body)
	}
}

func TestBoardSVGBadParams(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	for _, path := range []string{
		"/board.svg?zoom=abc",
		"/board.svg?width=0",
		"/board.svg?height=100000",
		"/board.svg?zoom=9",
		"/board.svg?panX=1e18",
		"/board.svg?panY=-2e9",
	} {
		w := do(t, h, http.MethodGet, path, "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s = %d, want 400", path, w.Code)
		}
	}
}

func TestAuthRateLimit(t *testing.T) {
	h := testEnv(t, RouterOptions{AuthRateLimit: 2})
	creds := map[string]string{"username": "ghost", "password": "pw"}
	for i := range 2 {
		if w := do(t, h, http.MethodPost, "/auth/login", "", creds); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d, want 401", i, w.Code)
		}
	}
	if w := do(t, h, http.MethodPost, "/auth/login", "", creds); w.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt = %d, want 429", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := testEnv(t, RouterOptions{CORSOrigins: []string{"http://localhost:5173"}})
	req := httptest.NewRequest(http.MethodOptions, "/notes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestBoardSVGPanAtLimit(t *testing.T) {
	h := testEnv(t, RouterOptions{})
	w := do(t, h, http.MethodGet, "/board.svg?panX=1e9&panY=-1e9&width=200&height=100", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pan at limit = %d, body = %s", w.Code, w.Body.String())
	}
}
