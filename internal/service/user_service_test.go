package service

import (
	"context"
	"errors"
	"testing"

	"github.com/benbeisheim/relaychess-backend/internal/storage/memory"
	"golang.org/x/crypto/bcrypt"
)

func newUserService() *UserService {
	store := memory.New()
	s := NewUserService(store, store)
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	s := newUserService()

	auth, err := s.Register(ctx, "alice", "secret", "alice@example.com")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if auth.Username != "alice" || auth.Token == "" {
		t.Fatalf("auth = %+v", auth)
	}
	if name, err := s.Resolve(ctx, auth.Token); err != nil || name != "alice" {
		t.Fatalf("Resolve = %q, %v", name, err)
	}

	second, err := s.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if second.Token == auth.Token {
		t.Fatal("login reused the registration token")
	}

	if err := s.Logout(ctx, auth.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := s.Resolve(ctx, auth.Token); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("Resolve after logout err = %v, want authentication failure", err)
	}
	if _, err := s.Resolve(ctx, second.Token); err != nil {
		t.Fatalf("other session was revoked: %v", err)
	}
	if err := s.Logout(ctx, auth.Token); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("second Logout err = %v, want authentication failure", err)
	}
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	s := newUserService()
	if _, err := s.Register(ctx, "alice", "secret", "alice@example.com"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name                      string
		username, password, email string
		want                      error
	}{
		{"duplicate", "alice", "other", "a2@example.com", ErrAlreadyTaken},
		{"missing username", " ", "pw", "x@example.com", ErrBadRequest},
		{"missing password", "bob", "", "bob@example.com", ErrBadRequest},
		{"missing email", "bob", "pw", "", ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.username, tt.password, tt.email)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoginRejects(t *testing.T) {
	ctx := context.Background()
	s := newUserService()
	if _, err := s.Register(ctx, "alice", "secret", "alice@example.com"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := s.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := s.Login(ctx, "nobody", "secret"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("unknown user err = %v", err)
	}
	if _, err := s.Resolve(ctx, ""); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("empty token err = %v", err)
	}
}
