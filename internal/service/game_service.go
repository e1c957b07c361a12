package service

import (
	"context"
	"strings"

	"github.com/benbeisheim/relaychess-backend/internal/model"
	petname "github.com/dustinkirkland/golang-petname"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame stores a new game in the starting position. A blank name is
// replaced with a generated one.
func (gs *GameService) CreateGame(ctx context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = petname.Generate(2, "-")
	}
	return gs.gameManager.CreateGame(ctx, name)
}

func (gs *GameService) ListGames(ctx context.Context) ([]model.GameState, error) {
	return gs.gameManager.ListGames(ctx)
}

func (gs *GameService) GetGame(ctx context.Context, gameID int) (model.GameState, error) {
	return gs.gameManager.GetGame(ctx, gameID)
}

// JoinGame seats username as color. Rejoining a seat already held by the same
// user succeeds without change.
func (gs *GameService) JoinGame(ctx context.Context, username, color string, gameID int) error {
	seat, ok := model.ParseColor(color)
	if !ok {
		return newError(KindBadRequest, "player color must be WHITE or BLACK")
	}
	err := gs.gameManager.Do(ctx, gameID, func(game *model.GameState, save func() error) error {
		switch holder := game.Seat(seat); holder {
		case username:
			return nil
		case "":
		default:
			return newError(KindAlreadyTaken, "that color is already taken")
		}
		game.SetSeat(seat, username)
		return save()
	})
	if KindOf(err) == KindGameNotFound {
		return wrapError(KindBadRequest, "game does not exist", err)
	}
	return err
}
