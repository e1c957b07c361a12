package controller

import (
	"github.com/benbeisheim/relaychess-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Routes groups the controllers served by the app.
type Routes struct {
	Users     *UserController
	Games     *GameController
	WebSocket *WebSocketController
	Auth      middleware.Resolver
	Origins   []string
}

// Mount registers every HTTP and websocket route on app.
func (r Routes) Mount(app *fiber.App) {
	// WebSocket route; every frame carries its own token
	app.Use("/ws", middleware.WebSocketUpgrade())
	app.Get("/ws", websocket.New(r.WebSocket.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         r.Origins,
	}))

	// User routes
	app.Post("/user", r.Users.Register)
	app.Post("/session", r.Users.Login)
	app.Delete("/session", r.Users.Logout)

	// Game routes
	auth := middleware.RequireAuth(r.Auth)
	app.Get("/game", auth, r.Games.ListGames)
	app.Post("/game", auth, r.Games.CreateGame)
	app.Put("/game", auth, r.Games.JoinGame)
	app.Get("/game/:gameId", auth, r.Games.GetGameState)
	app.Delete("/db", r.Games.Clear)
}
