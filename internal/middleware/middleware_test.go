package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benbeisheim/relaychess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type staticResolver map[string]string

func (r staticResolver) Resolve(_ context.Context, token string) (string, error) {
	if token == "broken" {
		return "", errors.New("database is locked")
	}
	if name, ok := r[token]; ok {
		return name, nil
	}
	return "", service.ErrAuthenticationFailed
}

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/me", RequireAuth(staticResolver{"t1": "alice"}), func(c *fiber.Ctx) error {
		return c.SendString(Username(c))
	})

	tests := []struct {
		name   string
		token  string
		status int
		body   string
	}{
		{"valid token", "t1", http.StatusOK, "alice"},
		{"unknown token", "t2", http.StatusUnauthorized, ""},
		{"no token", "", http.StatusUnauthorized, ""},
		{"session lookup fails", "broken", http.StatusInternalServerError, `{"message":"Error: internal error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.token != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.token)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.body == "" {
				return
			}
			raw, _ := io.ReadAll(resp.Body)
			if string(raw) != tt.body {
				t.Fatalf("body = %q, want %q", raw, tt.body)
			}
		})
	}
}
