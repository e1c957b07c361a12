// Package memory provides an in-process storage implementation.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/benbeisheim/relaychess-backend/internal/model"
	"github.com/benbeisheim/relaychess-backend/internal/storage"
)

// Store keeps all records in maps guarded by a single RWMutex. Games are
// cloned on the way in and out so callers never share state with the store.
type Store struct {
	mu     sync.RWMutex
	users  map[string]model.User
	auths  map[string]model.Auth
	games  map[int]model.GameState
	nextID int
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.users = make(map[string]model.User)
	s.auths = make(map[string]model.Auth)
	s.games = make(map[int]model.GameState)
	s.nextID = 1
}

func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("username is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return storage.ErrAlreadyExists
	}
	s.users[user.Username] = user
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return model.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) CreateAuth(ctx context.Context, auth model.Auth) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(auth.Token) == "" {
		return fmt.Errorf("auth token is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.auths[auth.Token]; exists {
		return storage.ErrAlreadyExists
	}
	s.auths[auth.Token] = auth
	return nil
}

func (s *Store) GetAuth(ctx context.Context, token string) (model.Auth, error) {
	if err := ctx.Err(); err != nil {
		return model.Auth{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	auth, ok := s.auths[token]
	if !ok {
		return model.Auth{}, storage.ErrNotFound
	}
	return auth, nil
}

func (s *Store) DeleteAuth(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auths[token]; !ok {
		return storage.ErrNotFound
	}
	delete(s.auths, token)
	return nil
}

func (s *Store) CreateGame(ctx context.Context, game model.GameState) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if game.Game == nil {
		return 0, fmt.Errorf("game state is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	game.ID = s.nextID
	s.nextID++
	s.games[game.ID] = game.Clone()
	return game.ID, nil
}

func (s *Store) GetGame(ctx context.Context, id int) (model.GameState, error) {
	if err := ctx.Err(); err != nil {
		return model.GameState{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return model.GameState{}, storage.ErrNotFound
	}
	return game.Clone(), nil
}

func (s *Store) ListGames(ctx context.Context) ([]model.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]model.GameState, 0, len(s.games))
	for _, game := range s.games {
		games = append(games, game.Clone())
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

func (s *Store) UpdateGame(ctx context.Context, game model.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if game.Game == nil {
		return fmt.Errorf("game state is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; !ok {
		return storage.ErrNotFound
	}
	s.games[game.ID] = game.Clone()
	return nil
}
