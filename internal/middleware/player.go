package middleware

import (
	"context"
	"log"

	"github.com/benbeisheim/relaychess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// LocalsUsername is the fiber locals key holding the authenticated username.
const LocalsUsername = "username"

// Resolver maps a session token to a username.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// RequireAuth resolves the Authorization header to a username and stores it in
// locals. Requests without a valid session are rejected with 401; a failure to
// look the session up is a 500.
func RequireAuth(resolver Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		username, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			if service.KindOf(err) != service.KindAuthenticationFailed {
				log.Printf("%s %s: resolve session: %v", c.Method(), c.Path(), err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Error: " + service.Message(err),
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Error: unauthorized",
			})
		}
		c.Locals(LocalsUsername, username)
		return c.Next()
	}
}

// Username returns the username stored by RequireAuth.
func Username(c *fiber.Ctx) string {
	username, _ := c.Locals(LocalsUsername).(string)
	return username
}
