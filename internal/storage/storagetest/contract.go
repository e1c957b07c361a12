// Package storagetest holds behavior checks shared by every storage.Store implementation.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/benbeisheim/relaychess-backend/internal/model"
	"github.com/benbeisheim/relaychess-backend/internal/storage"
)

// Run exercises store against the storage contract. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("auth", func(t *testing.T) { testAuth(t, newStore(t)) })
	t.Run("games", func(t *testing.T) { testGames(t, newStore(t)) })
	t.Run("clear", func(t *testing.T) { testClear(t, newStore(t)) })
}

func testUsers(t *testing.T, store storage.Store) {
	ctx := context.Background()
	user := model.User{Username: "alice", Password: "hash", Email: "alice@example.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.CreateUser(ctx, user); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate user: err = %v, want ErrAlreadyExists", err)
	}
	got, err := store.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got != user {
		t.Fatalf("user = %+v, want %+v", got, user)
	}
	if _, err := store.GetUser(ctx, "bob"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing user: err = %v, want ErrNotFound", err)
	}
}

func testAuth(t *testing.T, store storage.Store) {
	ctx := context.Background()
	auth := model.Auth{Token: "token-1", Username: "alice"}
	if err := store.CreateAuth(ctx, auth); err != nil {
		t.Fatalf("create auth: %v", err)
	}
	got, err := store.GetAuth(ctx, "token-1")
	if err != nil {
		t.Fatalf("get auth: %v", err)
	}
	if got != auth {
		t.Fatalf("auth = %+v, want %+v", got, auth)
	}
	if err := store.DeleteAuth(ctx, "token-1"); err != nil {
		t.Fatalf("delete auth: %v", err)
	}
	if _, err := store.GetAuth(ctx, "token-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("deleted auth: err = %v, want ErrNotFound", err)
	}
	if err := store.DeleteAuth(ctx, "token-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("delete missing auth: err = %v, want ErrNotFound", err)
	}
}

func testGames(t *testing.T, store storage.Store) {
	ctx := context.Background()
	first, err := store.CreateGame(ctx, model.NewGameState("first"))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	second, err := store.CreateGame(ctx, model.NewGameState("second"))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if first == second {
		t.Fatalf("game ids collide: %d", first)
	}

	game, err := store.GetGame(ctx, first)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if game.ID != first || game.Name != "first" || game.WhiteUsername != "" || game.BlackUsername != "" {
		t.Fatalf("game = %+v", game)
	}
	if !game.Game.Board.Equal(model.NewBoard()) || game.Game.Turn != model.White || game.Game.Over {
		t.Fatalf("new game not in initial position: %s %s over=%v", game.Game.Board.FEN(), game.Game.Turn, game.Game.Over)
	}

	if err := game.Game.MakeMove(model.Move{
		Start: model.Position{Row: 2, Col: 5},
		End:   model.Position{Row: 4, Col: 5},
	}); err != nil {
		t.Fatalf("make move: %v", err)
	}
	game.WhiteUsername = "alice"
	if err := store.UpdateGame(ctx, game); err != nil {
		t.Fatalf("update game: %v", err)
	}
	updated, err := store.GetGame(ctx, first)
	if err != nil {
		t.Fatalf("get updated game: %v", err)
	}
	if updated.WhiteUsername != "alice" || updated.Game.Turn != model.Black {
		t.Fatalf("updated game = %+v turn=%s", updated, updated.Game.Turn)
	}
	if !updated.Game.Board.Equal(game.Game.Board) {
		t.Fatalf("board = %s, want %s", updated.Game.Board.FEN(), game.Game.Board.FEN())
	}

	// mutating a loaded copy must not leak into the store
	updated.Game.Over = true
	again, err := store.GetGame(ctx, first)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if again.Game.Over {
		t.Fatal("store shares state with caller")
	}

	games, err := store.ListGames(ctx)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 || games[0].ID != first || games[1].ID != second {
		t.Fatalf("games = %+v", games)
	}

	if _, err := store.GetGame(ctx, 999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing game: err = %v, want ErrNotFound", err)
	}
	missing := model.NewGameState("ghost")
	missing.ID = 999
	if err := store.UpdateGame(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update missing game: err = %v, want ErrNotFound", err)
	}
}

func testClear(t *testing.T, store storage.Store) {
	ctx := context.Background()
	if err := store.CreateUser(ctx, model.User{Username: "alice", Password: "x", Email: "a@b"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.CreateAuth(ctx, model.Auth{Token: "t", Username: "alice"}); err != nil {
		t.Fatalf("create auth: %v", err)
	}
	if _, err := store.CreateGame(ctx, model.NewGameState("g")); err != nil {
		t.Fatalf("create game: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.GetUser(ctx, "alice"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("user survived clear: %v", err)
	}
	if _, err := store.GetAuth(ctx, "t"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("auth survived clear: %v", err)
	}
	games, err := store.ListGames(ctx)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("games survived clear: %+v", games)
	}
}
