package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/invoice-studio-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/invoice-studio-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testEmail     = "owner@studio.test"
	testIssuer    = "invoice-studio-test"
	testExpMin    = 60
)

func bearer(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, testEmail, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func buildAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"email":   apphttp.GetUserEmail(c),
		})
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	resp := get(t, buildAuthApp(), "/me", bearer(t, testUserID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testEmail, body["email"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, buildAuthApp(), "/me", tc.header)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
		})
	}
}

func TestAuthMiddleware_SecretDistinto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret", testUserID, testEmail, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := get(t, buildAuthApp(), "/me", "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// UserRateLimiter
// ──────────────────────────────────────────────────────────────────────────────

func buildLimitedApp(rl *apphttp.UserRateLimiter) *fiber.App {
	app := fiber.New()
	app.Get("/ping", apphttp.AuthMiddleware(testJWTSecret), rl.Middleware(), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestRateLimiter_BloqueaTrasBurst(t *testing.T) {
	rl := apphttp.NewUserRateLimiter(0.001, 2)
	app := buildLimitedApp(rl)
	auth := bearer(t, testUserID)

	for i := 0; i < 2; i++ {
		resp := get(t, app, "/ping", auth)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, "petición %d dentro del burst", i+1)
	}

	resp := get(t, app, "/ping", auth)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "RATE_LIMITED")

	// otro usuario tiene su propio bucket
	other := get(t, app, "/ping", bearer(t, "00000000-0000-0000-0000-000000000002"))
	defer other.Body.Close()
	assert.Equal(t, http.StatusOK, other.StatusCode)
}

func TestRateLimiter_Desactivado(t *testing.T) {
	app := buildLimitedApp(apphttp.NewUserRateLimiter(0, 1))
	auth := bearer(t, testUserID)
	for i := 0; i < 5; i++ {
		resp := get(t, app, "/ping", auth)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestRateLimiter_CleanupEliminaInactivos(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rl := apphttp.NewUserRateLimiter(10, 5)
	rl.SetClock(func() time.Time { return now })
	app := buildLimitedApp(rl)

	resp := get(t, app, "/ping", bearer(t, testUserID))
	resp.Body.Close()
	require.Equal(t, 1, rl.Tracked())

	assert.Equal(t, 0, rl.Cleanup(), "un limitador recién usado se conserva")
	now = now.Add(11 * time.Minute)
	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 0, rl.Tracked())
}
