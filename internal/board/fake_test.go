package board

import (
	"context"
	"sync"
	"time"

	"github.com/starford/corkboard/internal/apperr"
	"github.com/starford/corkboard/internal/models"
)

// fakeBackend is an in-memory server with the real quota rules.
type fakeBackend struct {
	mu     sync.Mutex
	limit  int
	nextID int64
	tokens map[string]models.Identity
	notes  []models.Note
	used   map[int64]int

	createErr   error
	quotaErr    error
	authErr     error
	createCalls int
	quotaCalls  int

	// When set, CreateNote signals entered and waits on release.
	entered chan struct{}
	release chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		limit:  models.DailyNoteLimit,
		tokens: map[string]models.Identity{},
		used:   map[int64]int{},
	}
}

func (f *fakeBackend) addUser(id int64, name, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = models.Identity{ID: id, Username: name}
}

func (f *fakeBackend) Authenticate(_ context.Context, token string) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.authErr != nil {
		return nil, f.authErr
	}
	id, ok := f.tokens[token]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (f *fakeBackend) Login(_ context.Context, username, password string) (*models.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, id := range f.tokens {
		if id.Username == username && password == "pw" {
			return &models.AuthResult{User: id, Token: tok}, nil
		}
	}
	return nil, apperr.New(apperr.ErrAuth, "Invalid credentials")
}

func (f *fakeBackend) Register(_ context.Context, username, _, _ string) (*models.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.tokens {
		if id.Username == username {
			return nil, apperr.New(apperr.ErrConflict, "Username already exists")
		}
	}
	id := models.Identity{ID: int64(len(f.tokens) + 1), Username: username}
	tok := "tok-" + username
	f.tokens[tok] = id
	return &models.AuthResult{User: id, Token: tok}, nil
}

func (f *fakeBackend) ListNotes(context.Context) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Note{}, f.notes...), nil
}

func (f *fakeBackend) CreateNote(_ context.Context, token, content string, x, y float64) (*models.Note, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	id, ok := f.tokens[token]
	if !ok {
		return nil, apperr.New(apperr.ErrAuth, "Access token required")
	}
	if f.used[id.ID] >= f.limit {
		return nil, apperr.New(apperr.ErrQuotaExceeded, "Daily limit of 10 notes reached")
	}
	f.used[id.ID]++
	f.nextID++
	n := models.Note{ID: f.nextID, OwnerID: id.ID, OwnerName: id.Username, Content: content, X: x, Y: y, CreatedAt: time.Now()}
	f.notes = append(f.notes, n)
	return &n, nil
}

func (f *fakeBackend) GetQuota(_ context.Context, token string) (*models.Quota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotaCalls++
	if f.quotaErr != nil {
		return nil, f.quotaErr
	}
	id, ok := f.tokens[token]
	if !ok {
		return nil, apperr.New(apperr.ErrAuth, "Access token required")
	}
	q := models.NewQuota(f.limit, f.used[id.ID])
	return &q, nil
}
