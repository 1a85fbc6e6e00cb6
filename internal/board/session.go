package board

import "github.com/starford/corkboard/internal/models"

// Session holds the current identity and the token it was validated from.
// Identity is present iff a token is held.
type Session struct {
	identity *models.Identity
	token    string
}

// Establish records a validated identity and its token.
func (s *Session) Establish(id models.Identity, token string) {
	s.identity = &id
	s.token = token
}

// Clear forgets the identity and token.
func (s *Session) Clear() {
	s.identity = nil
	s.token = ""
}

// Identity returns the current identity, if any.
func (s *Session) Identity() (models.Identity, bool) {
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string { return s.token }

// Authenticated reports whether an identity is held.
func (s *Session) Authenticated() bool { return s.identity != nil }
