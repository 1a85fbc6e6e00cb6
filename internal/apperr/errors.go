// Package apperr defines the error taxonomy shared by the server and client.
package apperr

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrAuth          = errors.New("authentication required")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
)

// Error is a user-facing message classified under one of the sentinels above.
type Error struct {
	Kind error
	Msg  string
}

// New returns an error whose message is msg and which matches kind via errors.Is.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// IsServer reports whether err carries none of the taxonomy sentinels, i.e.
// a transient infrastructure failure.
func IsServer(err error) bool {
	if err == nil {
		return false
	}
	for _, k := range []error{ErrValidation, ErrAuth, ErrQuotaExceeded, ErrNotFound, ErrConflict} {
		if errors.Is(err, k) {
			return false
		}
	}
	return true
}
