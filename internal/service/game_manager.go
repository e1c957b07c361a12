package service

import (
	"context"
	"sync"

	"github.com/benbeisheim/relaychess-backend/internal/model"
	"github.com/benbeisheim/relaychess-backend/internal/storage"
)

// GameManager owns access to stored games. Every read-modify-write of a game
// runs under that game's lock, so concurrent commands for one game apply one
// at a time while different games proceed in parallel.
type GameManager struct {
	store storage.GameStore
	mu    sync.Mutex
	locks map[int]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func NewGameManager(store storage.GameStore) *GameManager {
	return &GameManager{
		store: store,
		locks: make(map[int]*gameLock),
	}
}

// lock acquires the lock for gameID and returns its release function. Lock
// entries are reference counted and dropped once nobody holds or waits on them.
func (gm *GameManager) lock(gameID int) func() {
	gm.mu.Lock()
	l, ok := gm.locks[gameID]
	if !ok {
		l = &gameLock{}
		gm.locks[gameID] = l
	}
	l.refs++
	gm.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		gm.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(gm.locks, gameID)
		}
		gm.mu.Unlock()
	}
}

// Do loads game gameID and runs fn with a private copy while holding the game's
// lock. fn calls save to persist its changes; anything fn does not save is discarded.
func (gm *GameManager) Do(ctx context.Context, gameID int, fn func(game *model.GameState, save func() error) error) error {
	unlock := gm.lock(gameID)
	defer unlock()

	game, err := gm.store.GetGame(ctx, gameID)
	if err != nil {
		return fromStorage(err, "load game")
	}
	save := func() error {
		if err := gm.store.UpdateGame(ctx, game); err != nil {
			return wrapError(KindPersistence, "could not save game", err)
		}
		return nil
	}
	return fn(&game, save)
}

func (gm *GameManager) CreateGame(ctx context.Context, name string) (int, error) {
	id, err := gm.store.CreateGame(ctx, model.NewGameState(name))
	if err != nil {
		return 0, wrapError(KindPersistence, "could not create game", err)
	}
	return id, nil
}

func (gm *GameManager) GetGame(ctx context.Context, gameID int) (model.GameState, error) {
	game, err := gm.store.GetGame(ctx, gameID)
	if err != nil {
		return model.GameState{}, fromStorage(err, "load game")
	}
	return game, nil
}

func (gm *GameManager) ListGames(ctx context.Context) ([]model.GameState, error) {
	games, err := gm.store.ListGames(ctx)
	if err != nil {
		return nil, wrapError(KindPersistence, "could not list games", err)
	}
	return games, nil
}

// lockCount reports how many lock entries are live.
func (gm *GameManager) lockCount() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return len(gm.locks)
}
