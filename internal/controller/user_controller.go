package controller

import (
	"github.com/benbeisheim/relaychess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (uc *UserController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Error: bad request"})
	}
	auth, err := uc.userService.Register(c.UserContext(), req.Username, req.Password, req.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(auth)
}

func (uc *UserController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Error: bad request"})
	}
	auth, err := uc.userService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(auth)
}

func (uc *UserController) Logout(c *fiber.Ctx) error {
	if err := uc.userService.Logout(c.UserContext(), c.Get(fiber.HeaderAuthorization)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{})
}
