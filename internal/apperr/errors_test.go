package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewMatchesKind(t *testing.T) {
	err := New(ErrValidation, "content is required")
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected ErrValidation")
	}
	if errors.Is(err, ErrAuth) {
		t.Fatal("should not match ErrAuth")
	}
	if err.Error() != "content is required" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestIsServer(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{New(ErrQuotaExceeded, "limit"), false},
		{fmt.Errorf("wrap: %w", ErrAuth), false},
		{errors.New("disk on fire"), true},
	}
	for _, tc := range cases {
		if got := IsServer(tc.err); got != tc.want {
			t.Errorf("IsServer(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
