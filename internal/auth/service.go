package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/starford/corkboard/internal/apperr"
	"github.com/starford/corkboard/internal/models"
	"github.com/starford/corkboard/internal/store"
)

var (
	ErrRegisterFieldsRequired = apperr.New(apperr.ErrValidation, "All fields are required")
	ErrLoginFieldsRequired    = apperr.New(apperr.ErrValidation, "Username and password are required")
	ErrInvalidCredentials     = apperr.New(apperr.ErrAuth, "Invalid credentials")
	ErrUsernameTaken          = apperr.New(apperr.ErrConflict, "Username already exists")
)

// Service registers users, logs them in and resolves bearer tokens.
type Service struct {
	users  store.Users
	tokens *TokenManager
	hasher Hasher
	now    func() time.Time
}

// NewService creates an auth service.
func NewService(users store.Users, tokens *TokenManager, hasher Hasher) *Service {
	return &Service{users: users, tokens: tokens, hasher: hasher, now: time.Now}
}

// Register creates an account and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrRegisterFieldsRequired
	}

	if _, err := s.users.UserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.CreateUser(ctx, username, email, hash, s.now())
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return s.issue(u)
}

// Login checks credentials and returns the identity with a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrLoginFieldsRequired
	}
	u, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Matches(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Authenticate resolves a bearer token to the identity of an existing user.
// Malformed, expired or foreign tokens yield (nil, nil); only storage
// failures are returned as errors.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil
	}
	u, err := s.users.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	id := u.Identity()
	return &id, nil
}

func (s *Service) issue(u *models.User) (*models.AuthResult, error) {
	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{User: u.Identity(), Token: token}, nil
}
