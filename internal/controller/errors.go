package controller

import (
	"log"

	"github.com/benbeisheim/relaychess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindBadRequest:
		return fiber.StatusBadRequest
	case service.KindAuthenticationFailed:
		return fiber.StatusUnauthorized
	case service.KindAlreadyTaken, service.KindNotAPlayer:
		return fiber.StatusForbidden
	case service.KindGameNotFound:
		return fiber.StatusNotFound
	case service.KindWrongTurn, service.KindIllegalMove, service.KindGameOver:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	kind := service.KindOf(err)
	if kind == service.KindPersistence {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(statusFor(kind)).JSON(fiber.Map{
		"message": "Error: " + service.Message(err),
	})
}
