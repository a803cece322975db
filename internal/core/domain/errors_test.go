package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{ErrUnauthenticated, KindUnauthenticated},
		{ErrInvalidCredentials, KindUnauthenticated},
		{ErrAccountNotFound, KindUnauthenticated},
		{ErrForbidden, KindForbidden},
		{ErrUserNotFound, KindNotFound},
		{fmt.Errorf("find user: %w", ErrUserNotFound), KindNotFound},
		{ErrEmailInUse, KindConflict},
		{ErrInvalidInput, KindBadRequest},
		{errors.New("connection reset"), KindInternal},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Fatalf("KindOf(%v): expected %s, got %s", tt.err, tt.want, got)
		}
	}
}

func TestAccountNotFoundIsNotUserNotFound(t *testing.T) {
	if errors.Is(ErrAccountNotFound, ErrUserNotFound) {
		t.Fatalf("login lookup failures must stay distinct from resource lookups")
	}
}

func TestUserPublic(t *testing.T) {
	u := User{ID: 1, Name: "Ana", Email: "ana@example.com", Password: "hash", Role: RoleUser}
	p := u.Public()
	if p.Password != "" {
		t.Fatalf("expected password cleared, got %q", p.Password)
	}
	if u.Password != "hash" {
		t.Fatalf("original must not be modified")
	}
}
