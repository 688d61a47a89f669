package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskhive/config"
	"taskhive/routes"
)

const testPassword = "password123"

// setupTestApp wires the full route stack against a fresh in-memory database.
// The database is named after the test so cases cannot see each other's rows.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))

	config.DB = db
	config.Redis = nil
	config.AppConfig.JWTSecret = "test-secret"

	log := logrus.New()
	log.SetOutput(io.Discard)

	app := fiber.New()
	routes.SetupRoutes(app, db, log)
	return app, db
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func jsonMap(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func register(t *testing.T, app *fiber.App, name, email, role string) {
	t.Helper()
	resp, raw := doRequest(t, app, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": testPassword,
		"role":     role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, raw := doRequest(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	payload := jsonMap(t, raw)
	token, ok := payload["token"].(string)
	require.True(t, ok, "login response missing token")
	return token
}
