package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/benbeisheim/relaychess-backend/internal/service"
	"github.com/benbeisheim/relaychess-backend/internal/storage/memory"
	"github.com/benbeisheim/relaychess-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	store := memory.New()
	gameManager := service.NewGameManager(store)
	userService := service.NewUserService(store, store)

	app := fiber.New()
	Routes{
		Users:     NewUserController(userService),
		Games:     NewGameController(service.NewGameService(gameManager), service.NewClearService(store)),
		WebSocket: NewWebSocketController(service.NewCoordinator(userService, gameManager, ws.NewRegistry())),
		Auth:      userService,
	}.Mount(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/user", "",
		`{"username":"`+username+`","password":"pw","email":"`+username+`@example.com"}`)
	if status != http.StatusOK {
		t.Fatalf("register %s: status %d body %v", username, status, body)
	}
	token, _ := body["authToken"].(string)
	if token == "" || body["username"] != username {
		t.Fatalf("register %s: body %v", username, body)
	}
	return token
}

func TestUserRoutes(t *testing.T) {
	app := newTestApp()
	token := register(t, app, "alice")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{"duplicate user", http.MethodPost, "/user", "", `{"username":"alice","password":"x","email":"a@b.c"}`, http.StatusForbidden},
		{"missing email", http.MethodPost, "/user", "", `{"username":"bob","password":"x"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/user", "", `{`, http.StatusBadRequest},
		{"wrong password", http.MethodPost, "/session", "", `{"username":"alice","password":"nope"}`, http.StatusUnauthorized},
		{"login", http.MethodPost, "/session", "", `{"username":"alice","password":"pw"}`, http.StatusOK},
		{"logout unknown token", http.MethodDelete, "/session", "bogus", "", http.StatusUnauthorized},
		{"logout", http.MethodDelete, "/session", token, "", http.StatusOK},
		{"games after logout", http.MethodGet, "/game", token, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.token, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (body %v)", status, tt.status, body)
			}
			if status >= 400 {
				msg, _ := body["message"].(string)
				if !strings.HasPrefix(msg, "Error: ") {
					t.Fatalf("error body = %v", body)
				}
			}
		})
	}
}

func TestGameRoutes(t *testing.T) {
	app := newTestApp()
	alice := register(t, app, "alice")
	bob := register(t, app, "bob")

	if status, _ := do(t, app, http.MethodGet, "/game", "", ""); status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list status = %d", status)
	}

	status, body := do(t, app, http.MethodPost, "/game", alice, `{"gameName":"friday"}`)
	if status != http.StatusOK {
		t.Fatalf("create status = %d body %v", status, body)
	}
	gameID, ok := body["gameID"].(float64)
	if !ok {
		t.Fatalf("create body = %v", body)
	}
	id := int(gameID)
	join := func(color string, gid int) string {
		b, _ := json.Marshal(map[string]any{"playerColor": color, "gameID": gid})
		return string(b)
	}

	tests := []struct {
		name   string
		token  string
		body   string
		status int
	}{
		{"alice takes white", alice, join("WHITE", id), http.StatusOK},
		{"alice rejoins white", alice, join("WHITE", id), http.StatusOK},
		{"bob wants white", bob, join("WHITE", id), http.StatusForbidden},
		{"bad color", bob, join("PURPLE", id), http.StatusBadRequest},
		{"unknown game", bob, join("BLACK", id+50), http.StatusBadRequest},
		{"bob takes black", bob, join("BLACK", id), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, http.MethodPut, "/game", tt.token, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (body %v)", status, tt.status, body)
			}
		})
	}

	status, body = do(t, app, http.MethodGet, "/game", bob, "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	games, _ := body["games"].([]any)
	if len(games) != 1 {
		t.Fatalf("games = %v", body["games"])
	}
	summary := games[0].(map[string]any)
	if summary["whiteUsername"] != "alice" || summary["blackUsername"] != "bob" || summary["gameName"] != "friday" {
		t.Fatalf("summary = %v", summary)
	}

	status, body = do(t, app, http.MethodGet, "/game/"+strconv.Itoa(id), alice, "")
	if status != http.StatusOK {
		t.Fatalf("get status = %d body %v", status, body)
	}
	game, _ := body["game"].(map[string]any)
	if game["teamTurn"] != "WHITE" || game["gameOver"] != false {
		t.Fatalf("game = %v", game)
	}
	if status, _ := do(t, app, http.MethodGet, "/game/999", alice, ""); status != http.StatusNotFound {
		t.Fatalf("missing game status = %d", status)
	}
}

func TestClearRoute(t *testing.T) {
	app := newTestApp()
	token := register(t, app, "alice")
	if status, _ := do(t, app, http.MethodPost, "/game", token, `{"gameName":""}`); status != http.StatusOK {
		t.Fatalf("create status = %d", status)
	}

	if status, _ := do(t, app, http.MethodDelete, "/db", "", ""); status != http.StatusOK {
		t.Fatalf("clear status = %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/game", token, ""); status != http.StatusUnauthorized {
		t.Fatalf("token survived clear, status = %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/session", "", `{"username":"alice","password":"pw"}`); status != http.StatusUnauthorized {
		t.Fatalf("account survived clear, status = %d", status)
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	app := newTestApp()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("GET /ws: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUpgradeRequired)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind service.Kind
		want int
	}{
		{service.KindBadRequest, fiber.StatusBadRequest},
		{service.KindAuthenticationFailed, fiber.StatusUnauthorized},
		{service.KindAlreadyTaken, fiber.StatusForbidden},
		{service.KindGameNotFound, fiber.StatusNotFound},
		{service.KindWrongTurn, fiber.StatusConflict},
		{service.KindPersistence, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.kind); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}
