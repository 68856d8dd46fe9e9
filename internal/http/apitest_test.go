package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"bazaar/internal/config"
	"bazaar/internal/http/handlers"
	"bazaar/internal/repos"
)

func newApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{MediaDir: t.TempDir()}
	app := fiber.New()
	handlers.Register(app, handlers.NewDeps(db, cfg))
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

// signup creates an account and returns its id.
func signup(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := doJSON(t, app, "POST", "/users", "", map[string]any{"username": username, "password": password})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d", username, resp.StatusCode)
	}
	id, _ := decode(t, resp)["id"].(string)
	if id == "" {
		t.Fatalf("signup %s: no id in response", username)
	}
	return id
}

// loginAs returns a bearer token for the account.
func loginAs(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := doJSON(t, app, "POST", "/auth/login", "", map[string]any{"username": username, "password": password})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", username, resp.StatusCode)
	}
	tok, _ := decode(t, resp)["token"].(string)
	if tok == "" {
		t.Fatalf("login %s: no token in response", username)
	}
	return tok
}

// createItem lists a minimal item as the token's user and returns its id.
func createItem(t *testing.T, app *fiber.App, token, name, price string) string {
	t.Helper()
	resp := doJSON(t, app, "POST", "/items", token, map[string]any{
		"name": name, "description": "d", "price": price,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item %s: expected 201, got %d", name, resp.StatusCode)
	}
	id, _ := decode(t, resp)["id"].(string)
	if id == "" {
		t.Fatalf("create item %s: no id in response", name)
	}
	return id
}
