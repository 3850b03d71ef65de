package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"socialhub/internal/engine"
	"socialhub/internal/handlers"
	"socialhub/internal/realtime"
	"socialhub/internal/repository"
	"socialhub/internal/storage"
	"socialhub/routes"
)

const testSecret = "handlers-test-secret"

func newTestApp(t *testing.T) (*fiber.App, *repository.MemStore) {
	t.Helper()
	store := repository.NewMemStore()
	hub := realtime.NewHub(zerolog.Nop())
	eng := engine.New(store, store, hub, zerolog.Nop())
	media, err := storage.NewMediaStore(t.TempDir())
	require.NoError(t, err)

	app := fiber.New()
	routes.Register(app, routes.Deps{
		Auth:      &handlers.AuthHandler{Users: store, Media: media, Secret: testSecret},
		Posts:     &handlers.PostHandler{Engine: eng, Media: media},
		Hub:       hub,
		Secret:    testSecret,
		UploadDir: t.TempDir(),
	})
	return app, store
}

func jsonRequest(t *testing.T, method, target, bearer string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, json.Unmarshal(data, &body))
	}
	return resp, body
}

func jsonDecode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// signup registers a user through the API and returns their bearer token.
func signup(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp, body := do(t, app, jsonRequest(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}
