// Package models defines the domain types for Corkboard.
package models

import (
	"time"
	"unicode/utf16"
)

// MaxContentLength is the maximum note length in UTF-16 code units.
const MaxContentLength = 200

// DailyNoteLimit is the default number of notes one user may create per day.
const DailyNoteLimit = 10

// Note is a text card pinned at a world-space position.
type Note struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"user_id"`
	OwnerName string    `json:"username,omitempty"`
	Content   string    `json:"content"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is an authenticated user as seen by the rest of the system.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// User is a stored account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Identity returns the public identity of u.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

// Quota reports a user's daily note allowance.
type Quota struct {
	Limit     int `json:"quota"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// NewQuota builds a Quota with remaining clamped at zero.
func NewQuota(limit, used int) Quota {
	return Quota{Limit: limit, Used: used, Remaining: max(0, limit-used)}
}

// ContentLength counts s in UTF-16 code units, the unit MaxContentLength is
// expressed in.
func ContentLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
