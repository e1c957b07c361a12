package controller

import (
	"github.com/benbeisheim/relaychess-backend/internal/middleware"
	"github.com/benbeisheim/relaychess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService  *service.GameService
	clearService *service.ClearService
}

func NewGameController(gameService *service.GameService, clearService *service.ClearService) *GameController {
	return &GameController{gameService: gameService, clearService: clearService}
}

type gameSummary struct {
	GameID        int    `json:"gameID"`
	WhiteUsername string `json:"whiteUsername,omitempty"`
	BlackUsername string `json:"blackUsername,omitempty"`
	GameName      string `json:"gameName"`
}

type createGameRequest struct {
	GameName string `json:"gameName"`
}

type joinGameRequest struct {
	PlayerColor string `json:"playerColor"`
	GameID      int    `json:"gameID"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Error: bad request"})
	}
	gameID, err := gc.gameService.CreateGame(c.UserContext(), req.GameName)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"gameID": gameID})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	games, err := gc.gameService.ListGames(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	summaries := make([]gameSummary, 0, len(games))
	for _, g := range games {
		summaries = append(summaries, gameSummary{
			GameID:        g.ID,
			WhiteUsername: g.WhiteUsername,
			BlackUsername: g.BlackUsername,
			GameName:      g.Name,
		})
	}
	return c.JSON(fiber.Map{"games": summaries})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	var req joinGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Error: bad request"})
	}
	if err := gc.gameService.JoinGame(c.UserContext(), middleware.Username(c), req.PlayerColor, req.GameID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID, err := c.ParamsInt("gameId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Error: bad game id"})
	}
	game, err := gc.gameService.GetGame(c.UserContext(), gameID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(game)
}

func (gc *GameController) Clear(c *fiber.Ctx) error {
	if err := gc.clearService.Clear(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{})
}
