// Package storage defines the persistence contract for accounts, sessions and games.
package storage

import (
	"context"
	"errors"

	"github.com/benbeisheim/relaychess-backend/internal/model"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness violation.
	ErrAlreadyExists = errors.New("already exists")
)

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, username string) (model.User, error)
}

// AuthStore persists session tokens.
type AuthStore interface {
	CreateAuth(ctx context.Context, auth model.Auth) error
	GetAuth(ctx context.Context, token string) (model.Auth, error)
	DeleteAuth(ctx context.Context, token string) error
}

// GameStore persists game records. CreateGame assigns and returns the game ID.
type GameStore interface {
	CreateGame(ctx context.Context, game model.GameState) (int, error)
	GetGame(ctx context.Context, id int) (model.GameState, error)
	ListGames(ctx context.Context) ([]model.GameState, error)
	UpdateGame(ctx context.Context, game model.GameState) error
}

// Store is the full persistence surface used by the server.
type Store interface {
	UserStore
	AuthStore
	GameStore
	Clear(ctx context.Context) error
	Close() error
}
